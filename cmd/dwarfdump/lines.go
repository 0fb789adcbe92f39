package dwarfdump

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/attr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/die"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
)

var linesCmd = &cobra.Command{
	Use:   "lines <file>",
	Short: "Print the decoded .debug_line table for every Compilation Unit",
	Args:  cobra.ExactArgs(1),
	Run:   runLines,
}

func init() {
	Cmd.AddCommand(linesCmd)
}

func runLines(cmd *cobra.Command, args []string) {
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
		stmtOffset, ok, err := stmtListOffset(root)
		if err != nil {
			fatalf("reading DW_AT_stmt_list at CU 0x%08x: %v", offset, err)
		}
		if !ok {
			fmt.Printf("=== Compilation Unit at offset 0x%08x has no line program ===\n", offset)
			offset = next
			continue
		}

		prog, err := s.handle.Lines(stmtOffset, unit.AddressSize)
		if err != nil {
			fatalf("parsing line program at .debug_line offset %d: %v", stmtOffset, err)
		}
		if err := s.dumper.LineTable(prog); err != nil {
			fatalf("rendering line table: %v", err)
		}

		offset = next
	}
}

func stmtListOffset(root *die.Cursor) (uint64, bool, error) {
	form, pos, ok, err := root.Attr(format.AttrStmtList)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		return 0, false, nil
	}
	// DW_AT_stmt_list is recorded as one of the unsigned-constant forms
	// even though it denotes a section offset; attr.UData decodes it
	// regardless of the underlying encoding (data4/data8/sec_offset).
	v, err := attr.UData(form, root.Unit, pos)
	if err != nil {
		return 0, false, dwerr.Wrap(dwerr.KindNoConstant, err, "decoding DW_AT_stmt_list")
	}
	return v, true, nil
}
