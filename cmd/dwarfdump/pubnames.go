package dwarfdump

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/pubnames"
)

var pubnamesCmd = &cobra.Command{
	Use:   "pubnames <file>",
	Short: "Print the .debug_pubnames global name index",
	Args:  cobra.ExactArgs(1),
	Run:   runPubnames,
}

func init() {
	Cmd.AddCommand(pubnamesCmd)
}

func runPubnames(cmd *cobra.Command, args []string) {
	s, err := openSession(args[0])
	if err != nil {
		fatalf("%v", err)
	}
	defer s.Close()

	tbl, present, err := s.handle.Pubnames()
	if err != nil {
		fatalf("parsing .debug_pubnames: %v", err)
	}
	if !present {
		fmt.Println("no .debug_pubnames section present")
		return
	}

	names := tbl.Names()
	sort.Strings(names)

	for _, name := range names {
		entries, _ := tbl.Lookup(name)
		for _, e := range entries {
			die, err := pubnames.Die(s.handle.Registry(), e)
			tagStr := "?"
			if err == nil {
				if tag, terr := die.Tag(); terr == nil {
					tagStr = tag.String()
				}
			}
			fmt.Printf("%-32s CU 0x%08x die 0x%08x (%s)\n", name, e.CUOffset, e.DIEOffset, tagStr)
		}
	}
}
