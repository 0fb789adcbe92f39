package dwarfdump

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var dieCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print every Compilation Unit's DIE tree",
	Args:  cobra.ExactArgs(1),
	Run:   runDie,
}

func init() {
	Cmd.AddCommand(dieCmd)
}

func runDie(cmd *cobra.Command, args []string) {
	s, err := openSession(args[0])
	if err != nil {
		fatalf("%v", err)
	}
	defer s.Close()

	offset := uint64(0)
	cuIndex := 0
	for {
		unit, next, done, err := s.handle.NextCU(offset)
		if err != nil {
			fatalf("reading compilation unit at offset %d: %v", offset, err)
		}
		if done {
			break
		}

		fmt.Printf("=== Compilation Unit %d (offset 0x%08x) ===\n", cuIndex, offset)
		root := s.handle.Root(unit)
		if err := s.dumper.DIETree(root); err != nil {
			fmt.Fprintf(os.Stderr, "dwarfdump: error walking CU %d: %v\n", cuIndex, err)
		}

		offset = next
		cuIndex++
	}
}
