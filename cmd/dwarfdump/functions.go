package dwarfdump

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/attr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/die"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/funcinfo"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/line"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/scope"
)

var functionsCmd = &cobra.Command{
	Use:   "functions <file>",
	Short: "List every DW_TAG_subprogram with its entry PC and declaration site",
	Args:  cobra.ExactArgs(1),
	Run:   runFunctions,
}

func init() {
	Cmd.AddCommand(functionsCmd)
}

func runFunctions(cmd *cobra.Command, args []string) {
	s, err := openSession(args[0])
	if err != nil {
		fatalf("%v", err)
	}
	defer s.Close()

	offset := uint64(0)
	for {
		unit, next, done, err := s.handle.NextCU(offset)
		if err != nil {
			fatalf("reading compilation unit at offset %d: %v", offset, err)
		}
		if done {
			break
		}

		root := s.handle.Root(unit)

		var lines *line.Program
		if stmtOffset, ok, err := stmtListOffset(root); err == nil && ok {
			lines, _ = s.handle.Lines(stmtOffset, unit.AddressSize)
		}

		walkErr := scope.Walk(root, func(depth int, chain []*die.Cursor) (scope.Verdict, error) {
			cur := chain[len(chain)-1]
			tag, err := cur.Tag()
			if err != nil {
				return scope.Abort, err
			}
			if tag != format.TagSubprogram {
				return scope.Descend, nil
			}
			printFunction(cur, lines)
			return scope.Descend, nil
		}, nil)
		if walkErr != nil && !errors.Is(walkErr, scope.ErrAborted) {
			fmt.Fprintf(cmd.ErrOrStderr(), "dwarfdump: error walking CU 0x%08x: %v\n", offset, walkErr)
		}

		offset = next
	}
}

func printFunction(fn *die.Cursor, lines *line.Program) {
	name := "<anonymous>"
	if form, pos, ok, err := fn.Attr(format.AttrName); err == nil && ok {
		if v, err := attr.String(form, fn.Unit, nil, pos); err == nil {
			name = v
		}
	}

	entry := "?"
	if pc, err := funcinfo.EntryPC(fn); err == nil {
		entry = fmt.Sprintf("0x%016x", pc)
	}

	decl := ""
	if declLine, err := funcinfo.DeclLine(fn); err == nil {
		file := "?"
		if lines != nil {
			if f, ferr := funcinfo.DeclFile(fn, lines); ferr == nil {
				file = f
			}
		}
		decl = fmt.Sprintf(" %s:%d", file, declLine)
	}

	inl := ""
	if status, err := funcinfo.InlineStatus(fn); err == nil && status != funcinfo.NotInlined {
		inl = fmt.Sprintf(" [%v]", status)
	}

	fmt.Printf("%-24s entry=%s%s%s\n", name, entry, decl, inl)
}
