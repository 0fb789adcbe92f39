// Package leb128 implements the bounds-checked primitive decoding operations
// of a ByteReader: fixed-width words, unsigned/signed
// LEB128, null-terminated strings, and the 32-/64-bit "initial length"
// dialect switch. Only CString allocates (it copies the string out), and
// every operation reports dwerr.InvalidDwarf (never panics) on a would-be
// out-of-bounds read.
package leb128

import (
	"encoding/binary"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
)

// Cursor is a read-only, bounds-checked walk over a byte slice. It never
// copies the slice; every decoded value other than CString's copied string
// either is a scalar or borrows a sub-slice of buf, matching the "borrowed
// view" lifetime contract everything derived from section memory must follow.
type Cursor struct {
	buf   []byte
	pos   int
	order binary.ByteOrder
}

// New wraps buf for bounds-checked reading in the given byte order, starting
// at offset 0.
func New(buf []byte, order binary.ByteOrder) *Cursor {
	return &Cursor{buf: buf, order: order}
}

// At wraps buf for bounds-checked reading starting at the given offset.
func At(buf []byte, pos int, order binary.ByteOrder) *Cursor {
	return &Cursor{buf: buf, pos: pos, order: order}
}

// Pos returns the current cursor offset.
func (c *Cursor) Pos() int { return c.pos }

// SetPos repositions the cursor. It does not validate the new position;
// the next read reports dwerr.InvalidDwarf if it is out of range.
func (c *Cursor) SetPos(pos int) { c.pos = pos }

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.buf) - c.pos }

// Bytes returns the underlying buffer, unmodified, for callers that need to
// hand it to another Cursor (e.g. switching section mid-decode for
// DW_FORM_ref_addr rejection checks).
func (c *Cursor) Bytes() []byte { return c.buf }

func (c *Cursor) require(n int) error {
	if n < 0 || c.pos < 0 || c.pos+n > len(c.buf) {
		return dwerr.New(dwerr.KindInvalidDwarf, "read of %d bytes at offset %d exceeds section of %d bytes", n, c.pos, len(c.buf))
	}
	return nil
}

// U8 reads one byte and advances the cursor.
func (c *Cursor) U8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++
	return v, nil
}

// U16 reads a two-byte word in the cursor's byte order.
func (c *Cursor) U16() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := c.order.Uint16(c.buf[c.pos:])
	c.pos += 2
	return v, nil
}

// U24 reads a three-byte word in the cursor's byte order. DWARF uses this
// width only for a handful of vendor extensions; it is assembled from its
// three bytes rather than a dedicated binary.ByteOrder method, since
// encoding/binary has none.
func (c *Cursor) U24() (uint32, error) {
	if err := c.require(3); err != nil {
		return 0, err
	}
	var v uint32
	if c.order == binary.LittleEndian {
		v = uint32(c.buf[c.pos]) | uint32(c.buf[c.pos+1])<<8 | uint32(c.buf[c.pos+2])<<16
	} else {
		v = uint32(c.buf[c.pos+2]) | uint32(c.buf[c.pos+1])<<8 | uint32(c.buf[c.pos])<<16
	}
	c.pos += 3
	return v, nil
}

// U32 reads a four-byte word in the cursor's byte order.
func (c *Cursor) U32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := c.order.Uint32(c.buf[c.pos:])
	c.pos += 4
	return v, nil
}

// U64 reads an eight-byte word in the cursor's byte order.
func (c *Cursor) U64() (uint64, error) {
	if err := c.require(8); err != nil {
		return 0, err
	}
	v := c.order.Uint64(c.buf[c.pos:])
	c.pos += 8
	return v, nil
}

// ULEB128 reads an unsigned little-endian-base-128 integer, accepting up to
// 10 continuation bytes (enough for a full 64-bit value).
func (c *Cursor) ULEB128() (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < 10; i++ {
		b, err := c.U8()
		if err != nil {
			return 0, err
		}
		if shift < 64 {
			result |= uint64(b&0x7f) << shift
		}
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, dwerr.New(dwerr.KindInvalidDwarf, "ULEB128 at offset %d exceeds 10 continuation bytes", c.pos)
}

// SLEB128 reads a signed little-endian-base-128 integer, sign-extending from
// the final group's sign bit.
func (c *Cursor) SLEB128() (int64, error) {
	var result int64
	var shift uint
	var b uint8
	var err error
	for i := 0; i < 10; i++ {
		b, err = c.U8()
		if err != nil {
			return 0, err
		}
		if shift < 64 {
			result |= int64(b&0x7f) << shift
		}
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, nil
		}
	}
	return 0, dwerr.New(dwerr.KindInvalidDwarf, "SLEB128 at offset %d exceeds 10 continuation bytes", c.pos)
}

// InitialLength reads the 4-byte "unit length" field that selects the DWARF
// dialect: a plain 32-bit length, or (if the first word is 0xffffffff) a
// following 8-byte 64-bit length. The returned bool reports whether the
// 64-bit dialect was selected.
func (c *Cursor) InitialLength() (length uint64, is64Bit bool, err error) {
	word, err := c.U32()
	if err != nil {
		return 0, false, err
	}
	if word != 0xffffffff {
		return uint64(word), false, nil
	}
	length, err = c.U64()
	if err != nil {
		return 0, false, err
	}
	return length, true, nil
}

// OffsetSize returns the size in bytes (4 or 8) of offsets within a
// contribution using the given dialect flag, as returned by InitialLength.
func OffsetSize(is64Bit bool) int {
	if is64Bit {
		return 8
	}
	return 4
}

// Offset reads an offset-sized (4- or 8-byte) value, per the dialect flag.
func (c *Cursor) Offset(is64Bit bool) (uint64, error) {
	if is64Bit {
		return c.U64()
	}
	v, err := c.U32()
	return uint64(v), err
}

// Address reads an address-sized (4- or 8-byte) value.
func (c *Cursor) Address(addressSize int) (uint64, error) {
	switch addressSize {
	case 4:
		v, err := c.U32()
		return uint64(v), err
	case 8:
		return c.U64()
	default:
		return 0, dwerr.New(dwerr.KindInvalidDwarf, "unsupported address size %d", addressSize)
	}
}

// CString reads a NUL-terminated string starting at the cursor, returning
// the bytes before the terminator (not including it) and advancing the
// cursor past the terminator. It fails with dwerr.NoString if no terminator
// is found before the buffer ends.
func (c *Cursor) CString() (string, error) {
	start := c.pos
	for i := c.pos; i < len(c.buf); i++ {
		if c.buf[i] == 0 {
			s := string(c.buf[start:i])
			c.pos = i + 1
			return s, nil
		}
	}
	return "", dwerr.New(dwerr.KindNoString, "no NUL terminator from offset %d to end of section (%d bytes)", start, len(c.buf))
}

// Skip advances the cursor by n bytes without reading them, failing if that
// would run past the end of the buffer.
func (c *Cursor) Skip(n int) error {
	if err := c.require(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// Block reads a length-prefixed byte block whose length has already been
// decoded by the caller (e.g. via ULEB128 for DW_FORM_block, or a fixed
// width for DW_FORM_block1/2/4). It returns a borrowed sub-slice, never a
// copy.
func (c *Cursor) Block(length int) ([]byte, error) {
	if err := c.require(length); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+length]
	c.pos += length
	return b, nil
}
