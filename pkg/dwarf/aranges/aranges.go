// Package aranges implements Aranges: decoding .debug_aranges into a
// sorted table of address ranges, each pointing back at the Compilation
// Unit whose DIEs describe it.
package aranges

import (
	"encoding/binary"
	"sort"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/cu"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/die"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/leb128"
)

// Entry is one (address, length) range and the offset of the Compilation
// Unit whose DIEs cover it.
type Entry struct {
	Address  uint64
	Length   uint64
	CUOffset uint64
}

// Table is every .debug_aranges contribution, concatenated and sorted by
// address so Lookup can binary-search it.
type Table struct {
	Entries []Entry
}

// Parse decodes every contribution in section (one per CU that has a
// .debug_aranges entry) and sorts the result by address.
func Parse(section []byte, order binary.ByteOrder) (*Table, error) {
	var entries []Entry
	offset := uint64(0)
	for offset < uint64(len(section)) {
		contrib, next, err := parseContribution(section, offset, order)
		if err != nil {
			return nil, err
		}
		entries = append(entries, contrib...)
		offset = next
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Address < entries[j].Address })
	return &Table{Entries: entries}, nil
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
		return nil, 0, dwerr.New(dwerr.KindInvalidDwarf, "aranges contribution at offset %d declares length %d extending past .debug_aranges (%d bytes)", offset, length, len(section))
	}

	if _, err := c.U16(); err != nil { // version
		return nil, 0, err
	}
	infoOffset, err := c.Offset(is64)
	if err != nil {
		return nil, 0, err
	}
	addressSizeRaw, err := c.U8()
	if err != nil {
		return nil, 0, err
	}
	addressSize := int(addressSizeRaw)
	segSelSize, err := c.U8()
	if err != nil {
		return nil, 0, err
	}
	if segSelSize != 0 {
		return nil, 0, dwerr.New(dwerr.KindInvalidDwarf, "aranges contribution at offset %d uses unsupported segment selectors", offset)
	}

	tupleSize := 2 * addressSize
	headerBytes := c.Pos() - int(offset)
	if pad := headerBytes % tupleSize; pad != 0 {
		if err := c.Skip(tupleSize - pad); err != nil {
			return nil, 0, err
		}
	}

	var entries []Entry
	for uint64(c.Pos()) < end {
		addr, err := c.Address(addressSize)
		if err != nil {
			return nil, 0, err
		}
		ln, err := c.Address(addressSize)
		if err != nil {
			return nil, 0, err
		}
		if addr == 0 && ln == 0 {
			break
		}
		entries = append(entries, Entry{Address: addr, Length: ln, CUOffset: infoOffset})
	}

	return entries, end, nil
}

// Lookup binary-searches for the entry whose half-open [Address,
// Address+Length) interval contains addr.
func (t *Table) Lookup(addr uint64) (*Entry, bool) {
	i := sort.Search(len(t.Entries), func(i int) bool { return t.Entries[i].Address+t.Entries[i].Length > addr })
	if i < len(t.Entries) && addr >= t.Entries[i].Address && addr < t.Entries[i].Address+t.Entries[i].Length {
		return &t.Entries[i], true
	}
	return nil, false
}

// AddrDie composes Lookup with the registry's offset-to-unit resolution to
// return the DIE cursor at the root of the CU covering addr.
func AddrDie(t *Table, reg *cu.Registry, addr uint64) (*die.Cursor, error) {
	entry, ok := t.Lookup(addr)
	if !ok {
		return nil, dwerr.New(dwerr.KindNoMatch, "address 0x%x is not covered by any aranges entry", addr)
	}
	unit, err := reg.UnitFor(entry.CUOffset)
	if err != nil {
		return nil, err
	}
	return die.Root(unit), nil
}
