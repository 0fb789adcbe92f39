// Package cu implements CURegistry: lazy, linear enumeration of
// Compilation Units out of .debug_info, memoized by starting offset so
// that repeated offset-to-unit resolution (offdie) stays cheap after the
// first pass.
package cu

import (
	"encoding/binary"
	"sort"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/abbrev"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/arena"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/leb128"
)

// Unit is one Compilation Unit's header plus the bookkeeping a DIECursor
// needs to walk it: its byte range within .debug_info, its address/offset
// sizes, and (lazily) its abbreviation table.
type Unit struct {
	StartOffset  uint64 // offset of the unit_length field
	FirstDIE     uint64 // offset of the CU's root DIE
	End          uint64 // offset one past this unit's last byte
	Length       uint64 // unit_length, excluding the length field itself
	HeaderLen    int    // bytes from end of unit_length to FirstDIE
	Is64Bit      bool
	Version      uint16
	AbbrevOffset uint64
	AddressSize  int
	OffsetSize   int

	Info  []byte // the shared .debug_info contents this unit was parsed from
	Order binary.ByteOrder

	abbrevSection []byte // this unit's slice of .debug_abbrev, from AbbrevOffset onward
	arena         *arena.Arena
	abbrevTable   *abbrev.Table
}

// NewUnit builds a Unit directly from already-known fields, bypassing
// header parsing. Production code reaches Units exclusively through a
// Registry; this constructor exists for callers (and tests, in die/dump/scope/funcinfo)
// that need a Unit over a hand-built fixture with no real CU header to parse.
func NewUnit(info, abbrevSection []byte, order binary.ByteOrder, addressSize, offsetSize int, is64Bit bool, a *arena.Arena) *Unit {
	return &Unit{
		StartOffset:   0,
		FirstDIE:      0,
		End:           uint64(len(info)),
		Info:          info,
		Order:         order,
		AddressSize:   addressSize,
		OffsetSize:    offsetSize,
		Is64Bit:       is64Bit,
		abbrevSection: abbrevSection,
		arena:         a,
	}
}

// Abbrev returns this unit's (lazily built) abbreviation table.
func (u *Unit) Abbrev() *abbrev.Table {
	if u.abbrevTable == nil {
		u.abbrevTable = abbrev.New(u.abbrevSection, u.arena)
	}
	return u.abbrevTable
}

// Registry enumerates and memoizes the Compilation Units of one .debug_info
// contribution. It never re-parses a unit whose header has already been
// decoded.
type Registry struct {
	info    []byte
	abbrev  []byte
	order   binary.ByteOrder
	arena   *arena.Arena
	units   []*Unit // kept sorted by StartOffset
	scanned uint64  // furthest offset confirmed to start (or end) a unit
	atEnd   bool
}

// NewRegistry builds a Registry over the given .debug_info and .debug_abbrev
// section contents. a is used to allocate every unit's abbreviation table.
func NewRegistry(info, abbrevSection []byte, order binary.ByteOrder, a *arena.Arena) *Registry {
	return &Registry{info: info, abbrev: abbrevSection, order: order, arena: a}
}

// NextCU parses the CU header at offset, memoizes it, and returns the unit
// along with the offset one past it. done is true once offset has reached
// the end of .debug_info, at which point u is nil.
func (r *Registry) NextCU(offset uint64) (u *Unit, next uint64, done bool, err error) {
	if offset >= uint64(len(r.info)) {
		return nil, offset, true, nil
	}
	if existing := r.lookup(offset); existing != nil {
		return existing, existing.End, false, nil
	}
	u, err = r.parseUnit(offset)
	if err != nil {
		return nil, offset, false, err
	}
	r.remember(u)
	return u, u.End, false, nil
}

// UnitFor resolves the Compilation Unit whose byte range contains offset,
// consulting the memoized offset-sorted slice first and falling back to a
// forward linear scan from the furthest point reached so far — mirroring
// the "tree lookup, fallback linear append during enumeration" rule.
func (r *Registry) UnitFor(offset uint64) (*Unit, error) {
	if u := r.lookup(offset); u != nil {
		return u, nil
	}
	for !r.atEnd && r.scanned <= offset {
		u, next, done, err := r.NextCU(r.scanned)
		if err != nil {
			return nil, err
		}
		if done {
			r.atEnd = true
			break
		}
		r.scanned = next
		if offset >= u.StartOffset && offset < u.End {
			return u, nil
		}
	}
	return nil, dwerr.New(dwerr.KindInvalidReference, "offset %d does not lie within any compilation unit", offset)
}

func (r *Registry) lookup(offset uint64) *Unit {
	i := sort.Search(len(r.units), func(i int) bool { return r.units[i].End > offset })
	if i < len(r.units) && offset >= r.units[i].StartOffset && offset < r.units[i].End {
		return r.units[i]
	}
	return nil
}

func (r *Registry) remember(u *Unit) {
	i := sort.Search(len(r.units), func(i int) bool { return r.units[i].StartOffset >= u.StartOffset })
	if i < len(r.units) && r.units[i].StartOffset == u.StartOffset {
		return
	}
	r.units = append(r.units, nil)
	copy(r.units[i+1:], r.units[i:])
	r.units[i] = u
	if u.End > r.scanned {
		r.scanned = u.End
	}
}

func (r *Registry) parseUnit(offset uint64) (*Unit, error) {
	c := leb128.At(r.info, int(offset), r.order)

	length, is64, err := c.InitialLength()
	if err != nil {
		return nil, err
	}
	lengthFieldWidth := c.Pos() - int(offset)

	version, err := c.U16()
	if err != nil {
		return nil, err
	}

	abbrevOffset, err := c.Offset(is64)
	if err != nil {
		return nil, err
	}
	if int(abbrevOffset) > len(r.abbrev) {
		return nil, dwerr.New(dwerr.KindInvalidDwarf, "CU at offset %d has abbrev_offset %d past .debug_abbrev (%d bytes)", offset, abbrevOffset, len(r.abbrev))
	}

	addressSizeRaw, err := c.U8()
	if err != nil {
		return nil, err
	}
	addressSize := int(addressSizeRaw)
	if addressSize != 4 && addressSize != 8 {
		return nil, dwerr.New(dwerr.KindInvalidDwarf, "CU at offset %d has unsupported address_size %d", offset, addressSize)
	}

	end := offset + uint64(lengthFieldWidth) + length
	if end > uint64(len(r.info)) {
		return nil, dwerr.New(dwerr.KindInvalidDwarf, "CU at offset %d declares length %d extending past .debug_info (%d bytes)", offset, length, len(r.info))
	}

	return &Unit{
		StartOffset:   offset,
		FirstDIE:      uint64(c.Pos()),
		End:           end,
		Length:        length,
		HeaderLen:     c.Pos() - int(offset) - lengthFieldWidth,
		Is64Bit:       is64,
		Version:       version,
		AbbrevOffset:  abbrevOffset,
		AddressSize:   addressSize,
		OffsetSize:    leb128.OffsetSize(is64),
		Info:          r.info,
		Order:         r.order,
		abbrevSection: r.abbrev[abbrevOffset:],
		arena:         r.arena,
	}, nil
}
