// Package pubnames implements the .debug_pubnames name index: a flat
// name → (Compilation Unit, DIE) index, grounded on elfutils's
// dwarf_global_name_offsets.c / dwarf_global_cu_offset.c (the "a global's
// DIE offset is its CU-local offset plus the CU's own .debug_info offset"
// arithmetic those two functions perform).
package pubnames

import (
	"encoding/binary"
	"sort"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/cu"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/die"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/leb128"
)

// Entry is one named global: Name resolves to the DIE at DIEOffset (a
// CU-local offset) within the Compilation Unit starting at CUOffset.
type Entry struct {
	Name      string
	CUOffset  uint64
	DIEOffset uint64
}

// Table is every .debug_pubnames contribution, indexed by name.
type Table struct {
	Entries []Entry
	byName  map[string][]Entry
}

// Parse decodes every contribution in section.
func Parse(section []byte, order binary.ByteOrder) (*Table, error) {
	t := &Table{byName: make(map[string][]Entry)}
	offset := uint64(0)
	for offset < uint64(len(section)) {
		entries, next, err := parseContribution(section, offset, order)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			t.Entries = append(t.Entries, e)
			t.byName[e.Name] = append(t.byName[e.Name], e)
		}
		offset = next
	}
	sort.Slice(t.Entries, func(i, j int) bool { return t.Entries[i].Name < t.Entries[j].Name })
	return t, nil
}

func parseContribution(section []byte, offset uint64, order binary.ByteOrder) ([]Entry, uint64, error) {
	c := leb128.At(section, int(offset), order)

	length, is64, err := c.InitialLength()
	if err != nil {
		return nil, 0, err
	}
	lengthFieldWidth := c.Pos() - int(offset)
	end := offset + uint64(lengthFieldWidth) + length
	if end > uint64(len(section)) {
		return nil, 0, dwerr.New(dwerr.KindInvalidDwarf, "pubnames contribution at offset %d declares length %d extending past .debug_pubnames (%d bytes)", offset, length, len(section))
	}

	if _, err := c.U16(); err != nil { // version
		return nil, 0, err
	}
	cuOffset, err := c.Offset(is64)
	if err != nil {
		return nil, 0, err
	}
	if _, err := c.Offset(is64); err != nil { // debug_info_length, unused
		return nil, 0, err
	}

	var entries []Entry
	for uint64(c.Pos()) < end {
		dieOffset, err := c.Offset(is64)
		if err != nil {
			return nil, 0, err
		}
		if dieOffset == 0 {
			break
		}
		name, err := c.CString()
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, Entry{Name: name, CUOffset: cuOffset, DIEOffset: dieOffset})
	}

	return entries, end, nil
}

// Lookup returns every global named name.
func (t *Table) Lookup(name string) ([]Entry, bool) {
	entries, ok := t.byName[name]
	return entries, ok
}

// Names returns every distinct name this table indexes, in no particular
// order — callers needing a stable listing (cmd/dwarfdump's pubnames
// subcommand) sort it themselves.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	return names
}

// Die resolves e to a DIE cursor, following the same "CU-local offset plus
// the CU's own .debug_info offset" arithmetic dwarf_global_name_offsets.c
// performs before handing the absolute offset to offdie.
func Die(reg *cu.Registry, e Entry) (*die.Cursor, error) {
	unit, err := reg.UnitFor(e.CUOffset)
	if err != nil {
		return nil, err
	}
	return die.At(unit, e.CUOffset+e.DIEOffset), nil
}
