// Package funcinfo implements subprogram convenience queries, the kind
// elfutils's libdw carries as a thin layer over DIECursor/AttrDecoder: a
// function's entry address, declaration site, and inlining status,
// grounded on dwarf_func_entrypc.c, dwarf_func_file.c, dwarf_func_line.c
// and dwarf_func_inline.c.
package funcinfo

import (
	"errors"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/attr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/die"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/line"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/scope"
)

// Inline classifies a subprogram's DW_AT_inline value, mirroring the
// DW_INL_* vocabulary dwarf_func_inline.c switches on.
type Inline int

const (
	NotInlined Inline = iota
	DeclaredNotInlined
	Inlined
	DeclaredInlined
)

func (i Inline) String() string {
	switch i {
	case DeclaredNotInlined:
		return "declared not inlined"
	case Inlined:
		return "inlined"
	case DeclaredInlined:
		return "declared inlined"
	default:
		return "not inlined"
	}
}

// EntryPC returns the address execution enters fn at: DW_AT_entry_pc if
// present, else DW_AT_low_pc, matching dwarf_func_entrypc.c's fallback.
func EntryPC(fn *die.Cursor) (uint64, error) {
	if form, pos, ok, err := fn.Attr(format.AttrEntryPc); err != nil {
		return 0, err
	} else if ok {
		return attr.Addr(form, fn.Unit, pos)
	}
	form, pos, ok, err := fn.Attr(format.AttrLowPc)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, dwerr.New(dwerr.KindNoEntry, "function DIE has neither DW_AT_entry_pc nor DW_AT_low_pc")
	}
	return attr.Addr(form, fn.Unit, pos)
}

// DeclLine returns the source line fn was declared on (DW_AT_decl_line).
func DeclLine(fn *die.Cursor) (uint64, error) {
	form, pos, ok, err := fn.Attr(format.AttrDeclLine)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, dwerr.New(dwerr.KindNoEntry, "function DIE has no DW_AT_decl_line")
	}
	return attr.UData(form, fn.Unit, pos)
}

// DeclFile resolves fn's DW_AT_decl_file index against lines, the already
// parsed line-number program for fn's Compilation Unit — mirroring
// dwarf_func_file.c's lazy "parse the line program on first use" behavior,
// except the parsing itself is the caller's responsibility (this package
// has no handle to reach .debug_line from a bare DIE).
func DeclFile(fn *die.Cursor, lines *line.Program) (string, error) {
	form, pos, ok, err := fn.Attr(format.AttrDeclFile)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", dwerr.New(dwerr.KindNoEntry, "function DIE has no DW_AT_decl_file")
	}
	idx, err := attr.UData(form, fn.Unit, pos)
	if err != nil {
		return "", err
	}
	if idx == 0 {
		return "", dwerr.New(dwerr.KindNoEntry, "decl_file index 0 means no source file information")
	}
	if idx > uint64(len(lines.Files)) {
		return "", dwerr.New(dwerr.KindInvalidDwarf, "decl_file index %d exceeds %d known files", idx, len(lines.Files))
	}
	return lines.Files[idx-1].Name, nil
}

// InlineStatus classifies fn's DW_AT_inline attribute, defaulting to
// NotInlined when the attribute is absent (the C original's switch falls
// through the same way on a failed dwarf_formudata).
func InlineStatus(fn *die.Cursor) (Inline, error) {
	form, pos, ok, err := fn.Attr(format.AttrInline)
	if err != nil {
		return NotInlined, err
	}
	if !ok {
		return NotInlined, nil
	}
	val, err := attr.UData(form, fn.Unit, pos)
	if err != nil {
		return NotInlined, err
	}
	switch val {
	case 1:
		return DeclaredNotInlined, nil
	case 2:
		return Inlined, nil
	case 3:
		return DeclaredInlined, nil
	default:
		return NotInlined, nil
	}
}

// InlineInstances visits every DW_TAG_inlined_subroutine in root's subtree
// whose DW_AT_abstract_origin points back at origin, stopping early if
// callback returns false — the Go shape of dwarf_func_inline_instances's
// scope-walk-with-a-filtering-visitor technique.
func InlineInstances(root *die.Cursor, origin *die.Cursor, callback func(*die.Cursor) bool) error {
	err := scope.Walk(root, func(depth int, chain []*die.Cursor) (scope.Verdict, error) {
		d := chain[len(chain)-1]
		tag, err := d.Tag()
		if err != nil {
			return scope.Abort, err
		}
		if tag != format.TagInlinedSubroutine {
			return scope.Descend, nil
		}
		form, pos, ok, err := d.Attr(format.AttrAbstractOrigin)
		if err != nil {
			return scope.Abort, err
		}
		if !ok {
			return scope.Descend, nil
		}
		cuOffset, err := attr.Ref(form, d.Unit, pos)
		if err != nil {
			return scope.Abort, err
		}
		if d.Unit != origin.Unit || d.Unit.StartOffset+cuOffset != origin.Offset {
			return scope.Descend, nil
		}
		if !callback(d) {
			return scope.Abort, nil
		}
		return scope.Descend, nil
	}, nil)
	if err != nil && !errors.Is(err, scope.ErrAborted) {
		return err
	}
	return nil
}
