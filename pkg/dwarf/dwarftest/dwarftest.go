// Package dwarftest assembles synthetic DWARF byte buffers for tests, the
// way instructionresolver_test.go hand-builds ProgramFileContents literals:
// one small builder type per section, used directly instead of generated
// from a real compiler's output.
package dwarftest

import (
	"encoding/binary"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
)

// ULEB128 encodes v as an unsigned LEB128 byte sequence.
func ULEB128(v uint64) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if v == 0 {
			break
		}
	}
	return out
}

// SLEB128 encodes v as a signed LEB128 byte sequence.
func SLEB128(v int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

// AttrSpec is one (attribute, form) pair within an abbreviation declaration.
type AttrSpec struct {
	Attr format.Attr
	Form format.Form
}

// AbbrevDecl is one abbreviation table entry: the code DIEs reference it by,
// its tag, whether it has children, and its attribute specs.
type AbbrevDecl struct {
	Code        uint64
	Tag         format.Tag
	HasChildren bool
	Attrs       []AttrSpec
}

// AbbrevSection encodes decls into a .debug_abbrev byte buffer, terminated
// the way a real table is: a zero code ends the table, a (0,0) pair ends
// each declaration's attribute list.
func AbbrevSection(decls ...AbbrevDecl) []byte {
	var buf []byte
	for _, d := range decls {
		buf = append(buf, ULEB128(d.Code)...)
		buf = append(buf, ULEB128(uint64(d.Tag))...)
		if d.HasChildren {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		for _, a := range d.Attrs {
			buf = append(buf, ULEB128(uint64(a.Attr))...)
			buf = append(buf, ULEB128(uint64(a.Form))...)
		}
		buf = append(buf, 0, 0)
	}
	return append(buf, 0)
}

// CUHeader builds a 32-bit DWARF CU header (unit_length, version,
// abbrev_offset, address_size) followed by body, the way cu.Registry
// expects each contribution to .debug_info to start.
func CUHeader(order binary.ByteOrder, version uint16, abbrevOffset uint32, addressSize uint8, body []byte) []byte {
	var head []byte
	var v [2]byte
	order.PutUint16(v[:], version)
	head = append(head, v[:]...)
	var ao [4]byte
	order.PutUint32(ao[:], abbrevOffset)
	head = append(head, ao[:]...)
	head = append(head, addressSize)
	head = append(head, body...)

	unitLen := uint32(len(head))
	var lenBytes [4]byte
	order.PutUint32(lenBytes[:], unitLen)
	return append(lenBytes[:], head...)
}
