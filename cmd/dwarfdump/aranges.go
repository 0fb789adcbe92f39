package dwarfdump

import (
	"fmt"

	"github.com/spf13/cobra"
)

var arangesCmd = &cobra.Command{
	Use:   "aranges <file>",
	Short: "Print the .debug_aranges address-range-to-CU table",
	Args:  cobra.ExactArgs(1),
	Run:   runAranges,
}

func init() {
	Cmd.AddCommand(arangesCmd)
}

func runAranges(cmd *cobra.Command, args []string) {
	s, err := openSession(args[0])
	if err != nil {
		fatalf("%v", err)
	}
	defer s.Close()

	tbl, present, err := s.handle.Aranges()
	if err != nil {
		fatalf("parsing .debug_aranges: %v", err)
	}
	if !present {
		fmt.Println("no .debug_aranges section present")
		return
	}
	if err := s.dumper.Aranges(tbl); err != nil {
		fatalf("rendering address ranges: %v", err)
	}
}
