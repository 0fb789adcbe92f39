// Package dwarf provides the Handle facade: the single owning context a
// client opens over a sections.Provider, from which every other package's
// types (CU registry, arena, line/aranges/pubnames tables) are reached.
// Follows cmd/root.go's top-level wiring style (one shared context built
// once and handed to subcommands), generalized from a CPU emulator's
// registers/memory to a DWARF reader's sections/units/arena.
package dwarf

import (
	"encoding/binary"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/abbrev"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/aranges"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/arena"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/backend"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/cu"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/die"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/line"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/macinfo"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/pubnames"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/sections"
)

// Handle is the process-wide-per-open context, named DwarfHandle in the
// reference C design: it owns the CU registry, the arena every lazily-built
// table allocates from, and (if set) the architecture backend used to
// resolve registers and relocations. A Handle is not safe for concurrent
// use from multiple goroutines — single-threaded cooperative use per
// handle; distinct Handles share no mutable state and may run concurrently.
type Handle struct {
	provider sections.Provider
	arena    *arena.Arena
	registry *cu.Registry
	backend  backend.Backend

	lastErr dwerr.Kind // compatibility shim for callers migrating off the C taxonomy's thread-local
}

// Open builds a Handle over provider. The .debug_info/.debug_abbrev
// sections are read eagerly (closed over by the CU registry); every other
// section is resolved lazily by the corresponding Lines/Aranges/... method,
// since a CU without .debug_aranges, or a binary without .debug_macinfo, is
// legal.
func Open(provider sections.Provider) (*Handle, error) {
	info, ok := provider.Section(sections.Info)
	if !ok {
		return nil, dwerr.New(dwerr.KindInvalidFile, "section provider has no .debug_info")
	}
	abbrevSection, _ := provider.Section(sections.Abbrev) // absent is legal only for a CU-less file; CU parsing will fail loudly if it's actually needed

	a := arena.New()
	h := &Handle{
		provider: provider,
		arena:    a,
		registry: cu.NewRegistry(info, abbrevSection, provider.ByteOrder(), a),
	}
	return h, nil
}

// Close releases every arena this Handle owns. DIE, Attribute, LineRecord
// and Table values reached through this Handle must not be retained past
// Close — a documented contract, the same tradeoff the reference C design
// accepts.
func (h *Handle) Close() error {
	if h.arena != nil {
		h.arena.Release()
	}
	h.arena = nil
	h.registry = nil
	return nil
}

// SetBackend attaches an architecture backend for RegisterName/DynamicTagName
// queries made through this Handle's consumers.
func (h *Handle) SetBackend(b backend.Backend) {
	h.backend = b
}

// Backend returns the attached architecture backend, or nil if none was set.
func (h *Handle) Backend() backend.Backend {
	return h.backend
}

// LastErr returns the Kind of the most recent failing call made through
// this Handle, a documented compatibility shim for callers migrating
// from the C taxonomy's thread-local error slot.
func (h *Handle) LastErr() dwerr.Kind {
	return h.lastErr
}

func (h *Handle) fail(err error) error {
	if err != nil {
		h.lastErr = dwerr.Classify(err)
	}
	return err
}

// ByteOrder reports the endianness the underlying sections were recorded in.
func (h *Handle) ByteOrder() binary.ByteOrder {
	return h.provider.ByteOrder()
}

// NextCU advances Compilation Unit enumeration from offset, the entry
// point for iterating CUs via the CU registry.
func (h *Handle) NextCU(offset uint64) (unit *cu.Unit, next uint64, done bool, err error) {
	unit, next, done, err = h.registry.NextCU(offset)
	return unit, next, done, h.fail(err)
}

// Root returns the root DIE of unit.
func (h *Handle) Root(unit *cu.Unit) *die.Cursor {
	return die.Root(unit)
}

// OffDie resolves an absolute .debug_info offset to a DIE cursor, consulting
// the CU registry to find which unit owns it.
func (h *Handle) OffDie(offset uint64) (*die.Cursor, error) {
	d, err := die.OffDie(h.registry, offset)
	return d, h.fail(err)
}

// Abbrev returns unit's (lazily built) abbreviation table.
func (h *Handle) Abbrev(unit *cu.Unit) *abbrev.Table {
	return unit.Abbrev()
}

// Lines parses unit's .debug_line contribution starting at offset (the
// value of its DW_AT_stmt_list attribute).
func (h *Handle) Lines(offset uint64, addressSize int) (*line.Program, error) {
	data, ok := h.provider.Section(sections.Line)
	if !ok {
		return nil, dwerr.New(dwerr.KindNoEntry, "section provider has no .debug_line")
	}
	prog, err := line.Parse(data, offset, h.provider.ByteOrder(), addressSize)
	return prog, h.fail(err)
}

// Aranges parses .debug_aranges in full, or reports its absence — legal for
// a binary built without it.
func (h *Handle) Aranges() (*aranges.Table, bool, error) {
	data, ok := h.provider.Section(sections.Aranges)
	if !ok {
		return nil, false, nil
	}
	tbl, err := aranges.Parse(data, h.provider.ByteOrder())
	if err != nil {
		return nil, true, h.fail(err)
	}
	return tbl, true, nil
}

// Pubnames parses .debug_pubnames in full, or reports its absence.
func (h *Handle) Pubnames() (*pubnames.Table, bool, error) {
	data, ok := h.provider.Section(sections.PubNames)
	if !ok {
		return nil, false, nil
	}
	tbl, err := pubnames.Parse(data, h.provider.ByteOrder())
	if err != nil {
		return nil, true, h.fail(err)
	}
	return tbl, true, nil
}

// MacInfo parses the .debug_macinfo contribution at offset, or reports
// its absence.
func (h *Handle) MacInfo(offset uint64) ([]macinfo.Record, bool, error) {
	data, ok := h.provider.Section(sections.MacInfo)
	if !ok {
		return nil, false, nil
	}
	recs, err := macinfo.Parse(data, offset, h.provider.ByteOrder())
	if err != nil {
		return nil, true, h.fail(err)
	}
	return recs, true, nil
}

// Registry exposes the underlying CU registry for callers (aranges.AddrDie,
// pubnames.Die) that need to resolve a raw offset to a *cu.Unit directly.
func (h *Handle) Registry() *cu.Registry {
	return h.registry
}
