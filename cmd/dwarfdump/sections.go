package dwarfdump

import (
	"fmt"

	"github.com/spf13/cobra"

	objelf "github.com/Manu343726/dwarfkit/pkg/object/elf"
	"github.com/Manu343726/dwarfkit/pkg/utils"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <file>",
	Short: "List every ELF section header and the Compilation Unit header layout",
	Args:  cobra.ExactArgs(1),
	Run:   runSections,
}

var sectionsLayoutFlag bool

func init() {
	sectionsCmd.Flags().BoolVar(&sectionsLayoutFlag, "layout", false, "also draw the 32-bit DWARF Compilation Unit header byte layout")
	Cmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, args []string) {
	s, err := openSession(args[0])
	if err != nil {
		fatalf("%v", err)
	}
	defer s.Close()

	fmt.Printf("machine=%s class=%s osabi=%s\n", s.elf.Machine(), s.elf.Class(), objelf.OSABIName(s.elf.OSABI()))
	fmt.Println()

	for _, sec := range s.elf.Sections() {
		name := sec.Name
		if name == "" {
			name = "<null>"
		}
		fmt.Printf("%-20s %-14s addr=0x%016x size=%d\n", name, objelf.SectionTypeName(sec.Type), sec.Addr, sec.Size)
	}

	if sectionsLayoutFlag {
		fmt.Println()
		fmt.Println(cuHeaderLayout())
	}
}

// cuHeaderLayout draws the 32-bit DWARF Compilation Unit header
// (unit_length, version, debug_abbrev_offset, address_size) the way
// pkg/utils.AsciiFrame draws an instruction word's bitfields, generalized
// here from instruction bits to DWARF header bytes.
func cuHeaderLayout() string {
	fields := []utils.AsciiFrameField{
		{Name: "unit_length", Begin: 0, Width: 4},
		{Name: "version", Begin: 4, Width: 2},
		{Name: "abbrev_offset", Begin: 6, Width: 4},
		{Name: "address_size", Begin: 10, Width: 1},
	}
	return utils.AsciiFrame(fields, 11, "bytes", utils.AsciiFrameUnitLayout_LeftToRight, 2)
}
