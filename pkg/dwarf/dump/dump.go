// Package dump renders DIE trees, line tables and address ranges as
// human-readable, optionally colorized text. Follows DumpProgramFile's
// shape (one dumper struct holding the writer, one method per section,
// === Section (n) === headers) and pkg/utils/syntax_highlight.go's
// fatih/color wiring (a small palette of color.New(...) values, applied
// with Sprint, never mutating global state), and pkg/utils/strings.go's
// FormatUintHex for fixed-width address formatting.
package dump

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/attr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/aranges"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/die"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/line"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/scope"
	"github.com/Manu343726/dwarfkit/pkg/utils"
)

// addr renders a 64-bit address the way utils.FormatUintHex fixes every
// memory-address dump at a constant width, colorized per palette.
func (d *Dumper) addr(v uint64) string {
	return d.palette.paint(d.palette.Addr, utils.FormatUintHex(v, 16))
}

// Palette is the color set a Dumper renders with. The zero Palette's fields
// are all nil, which every method here treats as "print uncolored" —
// plumbed through so callers writing to a non-terminal (a file, a pipe) can
// leave color off entirely instead of relying on fatih/color's own TTY
// sniffing, the way cmd/cpu/debug.go's palette is built once and handed down.
type Palette struct {
	Tag   *color.Color
	Attr  *color.Color
	Addr  *color.Color
	Str   *color.Color
	Num   *color.Color
	Error *color.Color
}

// DefaultPalette mirrors syntax_highlight.go's category-to-color mapping:
// keywords in magenta, types in cyan, strings in green, numbers in yellow.
func DefaultPalette() Palette {
	return Palette{
		Tag:   color.New(color.FgMagenta, color.Bold),
		Attr:  color.New(color.FgCyan),
		Addr:  color.New(color.FgYellow),
		Str:   color.New(color.FgGreen),
		Num:   color.New(color.FgYellow),
		Error: color.New(color.FgRed, color.Bold),
	}
}

func (p Palette) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

// Dumper writes DWARF structures to w using palette for coloring.
type Dumper struct {
	w       io.Writer
	palette Palette
}

func New(w io.Writer, palette Palette) *Dumper {
	return &Dumper{w: w, palette: palette}
}

// DIETree writes root's subtree as an indented listing of tags and
// attributes, one DIE per block, walked with scope.Walk the same way a
// debugger's scope inspector would.
func (d *Dumper) DIETree(root *die.Cursor) error {
	return scope.Walk(root, func(depth int, chain []*die.Cursor) (scope.Verdict, error) {
		cur := chain[len(chain)-1]
		if err := d.dieHeader(depth-1, cur); err != nil {
			return scope.Abort, err
		}
		return scope.Descend, nil
	}, nil)
}

func (d *Dumper) dieHeader(indent int, cur *die.Cursor) error {
	tag, err := cur.Tag()
	if err != nil {
		return err
	}

	prefix := indentString(indent)
	fmt.Fprintf(d.w, "%s[0x%08x] %s\n", prefix, cur.Offset, d.palette.paint(d.palette.Tag, tag.String()))

	_, err = cur.GetAttrs(func(name format.Attr, form format.Form, pos uint64) bool {
		val := d.formatAttrValue(form, cur, pos)
		fmt.Fprintf(d.w, "%s    %s: %s\n", prefix, d.palette.paint(d.palette.Attr, name.String()), val)
		return true
	})
	return err
}

func (d *Dumper) formatAttrValue(form format.Form, cur *die.Cursor, pos uint64) string {
	switch format.ClassOf(form) {
	case format.ClassAddress:
		if v, err := attr.Addr(form, cur.Unit, pos); err == nil {
			return d.addr(v)
		}
	case format.ClassConstant:
		if v, err := attr.UData(form, cur.Unit, pos); err == nil {
			return d.palette.paint(d.palette.Num, fmt.Sprintf("%d", v))
		}
	case format.ClassString:
		if v, err := attr.String(form, cur.Unit, nil, pos); err == nil {
			return d.palette.paint(d.palette.Str, fmt.Sprintf("%q", v))
		}
	case format.ClassFlag:
		if v, err := attr.Flag(form, cur.Unit, pos); err == nil {
			return d.palette.paint(d.palette.Num, fmt.Sprintf("%v", v))
		}
	case format.ClassReference:
		if v, err := attr.Ref(form, cur.Unit, pos); err == nil {
			return d.palette.paint(d.palette.Addr, fmt.Sprintf("<0x%08x>", v))
		}
	}
	return d.palette.paint(d.palette.Error, fmt.Sprintf("(unrepresentable, form %s)", form))
}

func indentString(depth int) string {
	out := make([]byte, depth*2)
	for i := range out {
		out[i] = ' '
	}
	return string(out)
}

// LineTable writes prog's decoded line-number records as an address-sorted
// listing.
func (d *Dumper) LineTable(prog *line.Program) error {
	fmt.Fprintf(d.w, "=== Line Table (%d records) ===\n", len(prog.Records))
	for _, r := range prog.Records {
		file := "(unknown)"
		if r.File >= 1 && int(r.File) <= len(prog.Files) {
			file = prog.Files[r.File-1].Name
		}
		fmt.Fprintf(d.w, "  %s %s:%d",
			d.addr(r.Address),
			d.palette.paint(d.palette.Str, file),
			r.Line)
		if r.EndSequence {
			fmt.Fprint(d.w, "  (end sequence)")
		}
		fmt.Fprintln(d.w)
	}
	return nil
}

// Aranges writes every address-range-to-CU contribution in tbl.
func (d *Dumper) Aranges(tbl *aranges.Table) error {
	fmt.Fprintf(d.w, "=== Address Ranges (%d) ===\n", len(tbl.Entries))
	for _, e := range tbl.Entries {
		fmt.Fprintf(d.w, "  [%s, %s) -> CU 0x%08x\n",
			d.addr(e.Address),
			d.addr(e.Address+e.Length),
			e.CUOffset)
	}
	return nil
}
