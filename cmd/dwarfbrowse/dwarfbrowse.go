// Package dwarfbrowse is dwarfkit's interactive DIE-tree browser: a
// tview/tcell terminal UI over a dwarf.Handle, wiring gdamore/tcell and
// rivo/tview into an actual command, generalized from "a CPU
// register/memory inspector" (the shape cmd/cpu/debug.go's interactive
// REPL models) to "a DIE-tree and attribute inspector" driven by
// mouse/keyboard instead of a line-oriented command loop.
package dwarfbrowse

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Manu343726/dwarfkit/pkg/dwarf"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/backend"
	objelf "github.com/Manu343726/dwarfkit/pkg/object/elf"
)

// Cmd is the dwarfbrowse command, added to the root command in cmd/root.go.
var Cmd = &cobra.Command{
	Use:   "dwarfbrowse <file>",
	Short: "Interactively browse an ELF file's DIE tree in a terminal UI",
	Args:  cobra.ExactArgs(1),
	Run:   run,
}

var archFlag string

func init() {
	Cmd.Flags().StringVar(&archFlag, "arch", "", "architecture backend for register names (x86_64, arm)")
}

func run(cmd *cobra.Command, args []string) {
	path := args[0]

	ep, err := objelf.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dwarfbrowse: %v\n", err)
		os.Exit(1)
	}
	defer ep.Close()

	h, err := dwarf.Open(ep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dwarfbrowse: %v\n", err)
		os.Exit(1)
	}
	defer h.Close()

	switch archFlag {
	case "x86_64", "x86-64", "amd64":
		h.SetBackend(backend.X86_64{})
	case "arm":
		h.SetBackend(backend.ARM{})
	}

	if err := newBrowser(path, h).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "dwarfbrowse: %v\n", err)
		os.Exit(1)
	}
}
