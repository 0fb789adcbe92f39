// Package abbrev implements AbbrevTable: a per-CU lookup from abbreviation
// code to the tag/has-children/attribute-spec triple, built lazily by
// scanning forward through .debug_abbrev only as far as a requested code
// demands.
package abbrev

import (
	"encoding/binary"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/arena"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/leb128"
)

// AttrSpec is one (name, form) pair declared by an abbreviation.
type AttrSpec struct {
	Name format.Attr
	Form format.Form
}

// Abbreviation is the decoded shape every DIE sharing the same abbrev code
// has: which tag it carries, whether it has children, and the ordered list
// of attributes a decoder must walk to skip or read its values.
type Abbreviation struct {
	Code        uint64
	Tag         format.Tag
	HasChildren bool
	Attrs       []AttrSpec
}

type scanState int

const (
	scanPending scanState = iota
	scanExhausted
)

// Table is the lazy, per-CU abbreviation lookup. It owns a cursor into the
// shared .debug_abbrev section starting at the CU's abbrev_offset, and
// advances that cursor only when a lookup misses the entries decoded so far.
type Table struct {
	section []byte
	pos     int
	state   scanState
	entries *hashMap[uint64, *Abbreviation]
	arena   *arena.Arena
}

// New builds a Table that lazily scans section (the full .debug_abbrev
// contribution, or the tail of it starting at the CU's abbrev offset) using
// a to allocate each abbreviation's attribute list.
func New(section []byte, a *arena.Arena) *Table {
	return &Table{
		section: section,
		entries: newHashMap[uint64, *Abbreviation](),
		arena:   a,
	}
}

// Lookup resolves an abbreviation code, scanning further into the section
// only if the code has not already been decoded. Code 0 is the abbrev-table
// terminator, never a real DIE's code, and is always rejected.
func (t *Table) Lookup(code uint64) (*Abbreviation, error) {
	if code == 0 {
		return nil, dwerr.New(dwerr.KindInvalidDwarf, "abbrev code 0 is the table terminator, not a valid DIE code")
	}
	if ab, ok := t.entries.get(code); ok {
		return ab, nil
	}
	for t.state != scanExhausted {
		ab, err := t.scanOne()
		if err != nil {
			t.state = scanExhausted
			return nil, err
		}
		if ab == nil {
			t.state = scanExhausted
			break
		}
		if _, dup := t.entries.get(ab.Code); dup {
			return nil, dwerr.New(dwerr.KindInvalidDwarf, "duplicate abbreviation code %d at offset %d", ab.Code, t.pos)
		}
		t.entries.put(ab.Code, ab)
		if ab.Code == code {
			return ab, nil
		}
	}
	return nil, dwerr.New(dwerr.KindInvalidDwarf, "no abbreviation with code %d in this table", code)
}

// scanOne decodes the next abbreviation declaration starting at t.pos,
// advancing t.pos past it. A nil, nil result means the terminating zero
// code (or end of section) was reached.
func (t *Table) scanOne() (*Abbreviation, error) {
	if t.pos >= len(t.section) {
		return nil, nil
	}
	// Abbreviation declarations are a pure ULEB128/byte stream with no
	// fixed-width multi-byte fields, so the byte order passed here never
	// actually matters; LittleEndian is used for no reason beyond picking one.
	c := leb128.At(t.section, t.pos, binary.LittleEndian)

	code, err := c.ULEB128()
	if err != nil {
		return nil, err
	}
	if code == 0 {
		t.pos = c.Pos()
		return nil, nil
	}

	tagVal, err := c.ULEB128()
	if err != nil {
		return nil, err
	}

	hasChildrenByte, err := c.U8()
	if err != nil {
		return nil, err
	}

	var specs []AttrSpec
	for {
		nameVal, err := c.ULEB128()
		if err != nil {
			return nil, err
		}
		formVal, err := c.ULEB128()
		if err != nil {
			return nil, err
		}
		if nameVal == 0 && formVal == 0 {
			break
		}
		specs = append(specs, AttrSpec{Name: format.Attr(nameVal), Form: format.Form(formVal)})
	}

	// Abbreviation itself carries a slice field and stays a normal Go heap
	// allocation: the arena's backing []byte blocks are allocated noscan, and
	// the GC would never trace a pointer stored inside one. AttrSpec is
	// pointer-free, though, so the Attrs backing array — the part whose size
	// actually scales with the number of attributes a CU's abbreviations
	// declare — is copied into arena-owned storage instead of left on the
	// regular heap as per-declaration garbage.
	attrs := arena.AllocSlice[AttrSpec](t.arena, len(specs))
	copy(attrs, specs)

	ab := &Abbreviation{
		Code:        code,
		Tag:         format.Tag(tagVal),
		HasChildren: hasChildrenByte != 0,
		Attrs:       attrs,
	}

	t.pos = c.Pos()
	return ab, nil
}
