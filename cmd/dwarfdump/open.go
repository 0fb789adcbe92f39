// Package dwarfdump is a cobra command tree in the cmd/cpu subcommand
// style: one subcommand per debug section (dump, lines, aranges, pubnames,
// functions, sections), each opening the target ELF file once via
// pkg/object/elf and pkg/dwarf, then rendering through pkg/dwarf/dump the
// way cmd/cpu/debug.go builds one session and dispatches it across its own
// command table.
package dwarfdump

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Manu343726/dwarfkit/pkg/dwarf"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/backend"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dump"
	"github.com/Manu343726/dwarfkit/pkg/dwarflog"
	objelf "github.com/Manu343726/dwarfkit/pkg/object/elf"
)

// Cmd is the dwarfdump command group, added to the root command in cmd/root.go.
var Cmd = &cobra.Command{
	Use:   "dwarfdump",
	Short: "Render DWARF debug sections of an ELF file as text",
}

var (
	archFlag    string
	noColorFlag bool
	logFileFlag string
)

func init() {
	Cmd.PersistentFlags().StringVar(&archFlag, "arch", "", "architecture backend for register names (x86_64, arm)")
	Cmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colorized output")
	Cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "also write structured logs to this file")
}

// session is the state every dwarfdump subcommand shares once a file is open:
// the DWARF handle, the ELF collaborator backing it, and a palette-equipped
// dumper to render through.
type session struct {
	elf    *objelf.Provider
	handle *dwarf.Handle
	dumper *dump.Dumper
}

// openSession opens path as an ELF file, wraps it in a dwarf.Handle, attaches
// the architecture backend named by --arch (if any), and builds a Dumper
// honoring --no-color, the same "one session object, pass it down" shape
// debugSession plays in cmd/cpu/debug.go.
func openSession(path string) (*session, error) {
	logger, closeLog, err := dwarflog.New(dwarflog.Options{FilePath: logFileFlag})
	if err != nil {
		return nil, fmt.Errorf("dwarfdump: building logger: %w", err)
	}
	defer closeLog()

	ep, err := objelf.Open(path)
	if err != nil {
		return nil, err
	}

	h, err := dwarf.Open(ep)
	if err != nil {
		ep.Close()
		return nil, err
	}

	if b := resolveBackend(archFlag); b != nil {
		h.SetBackend(b)
	}

	logger.Info("opened ELF file", "path", path, "machine", ep.Machine().String(), "class", ep.Class().String())

	palette := dump.DefaultPalette()
	if noColorFlag {
		palette = dump.Palette{}
	}

	return &session{elf: ep, handle: h, dumper: dump.New(os.Stdout, palette)}, nil
}

func (s *session) Close() {
	s.handle.Close()
	s.elf.Close()
}

// resolveBackend maps --arch to a concrete backend.Backend, or nil if name
// is empty or unrecognized (no backend is attached then; never a fatal
// condition).
func resolveBackend(name string) backend.Backend {
	switch name {
	case "x86_64", "x86-64", "amd64":
		return backend.X86_64{}
	case "arm":
		return backend.ARM{}
	default:
		return nil
	}
}

func fatalf(format string, args ...any) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "dwarfdump: "+format+"\n", args...)
	os.Exit(1)
}
