package leb128

import (
	"encoding/binary"
	"testing"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWidthReads(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	c := New(buf, binary.LittleEndian)

	u8, err := c.U8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x01), u8)

	u16, err := c.U16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0302), u16)

	u32, err := c.U32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x07060504), u32)

	assert.Equal(t, 7, c.Pos())
	_, err = c.U8()
	require.NoError(t, err)
	assert.Equal(t, 0, c.Remaining())
}

func TestU8_OutOfBounds(t *testing.T) {
	c := New(nil, binary.LittleEndian)
	_, err := c.U8()
	require.Error(t, err)
	assert.Equal(t, dwerr.KindInvalidDwarf, dwerr.Classify(err))
}

func TestU24_BothOrders(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03}

	le := New(buf, binary.LittleEndian)
	v, err := le.U24()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x030201), v)

	be := New(buf, binary.BigEndian)
	v, err = be.U24()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x010203), v)
}

func TestULEB128(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x02}, 2},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
	}
	for _, tc := range cases {
		c := New(tc.bytes, binary.LittleEndian)
		got, err := c.ULEB128()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, len(tc.bytes), c.Pos())
	}
}

func TestSLEB128(t *testing.T) {
	cases := []struct {
		bytes []byte
		want  int64
	}{
		{[]byte{0x02}, 2},
		{[]byte{0x7e}, -2},
		{[]byte{0xff, 0x00}, 127},
		{[]byte{0x81, 0x7f}, -127},
		{[]byte{0x9b, 0xf1, 0x59}, -624485},
	}
	for _, tc := range cases {
		c := New(tc.bytes, binary.LittleEndian)
		got, err := c.SLEB128()
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestULEB128_TooLong(t *testing.T) {
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0x80
	}
	c := New(buf, binary.LittleEndian)
	_, err := c.ULEB128()
	require.Error(t, err)
	assert.Equal(t, dwerr.KindInvalidDwarf, dwerr.Classify(err))
}

func TestInitialLength_32Bit(t *testing.T) {
	buf := []byte{0x10, 0x00, 0x00, 0x00}
	c := New(buf, binary.LittleEndian)
	length, is64, err := c.InitialLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x10), length)
	assert.False(t, is64)
	assert.Equal(t, 4, OffsetSize(is64))
}

func TestInitialLength_64Bit(t *testing.T) {
	buf := []byte{0xff, 0xff, 0xff, 0xff, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	c := New(buf, binary.LittleEndian)
	length, is64, err := c.InitialLength()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x20), length)
	assert.True(t, is64)
	assert.Equal(t, 8, OffsetSize(is64))
}

func TestCString(t *testing.T) {
	buf := []byte("hello\x00world\x00")
	c := New(buf, binary.LittleEndian)

	s, err := c.CString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	s, err = c.CString()
	require.NoError(t, err)
	assert.Equal(t, "world", s)
}

func TestCString_MissingTerminator(t *testing.T) {
	c := New([]byte("no terminator"), binary.LittleEndian)
	_, err := c.CString()
	require.Error(t, err)
	assert.Equal(t, dwerr.KindNoString, dwerr.Classify(err))
}

func TestBlock_BorrowsNotCopies(t *testing.T) {
	buf := []byte{0xaa, 0xbb, 0xcc, 0xdd}
	c := New(buf, binary.LittleEndian)
	block, err := c.Block(2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xaa, 0xbb}, block)

	buf[0] = 0xee
	assert.Equal(t, byte(0xee), block[0], "Block must borrow the underlying array, not copy it")
}

func TestAddress_InvalidSize(t *testing.T) {
	c := New([]byte{1, 2, 3, 4}, binary.LittleEndian)
	_, err := c.Address(3)
	require.Error(t, err)
	assert.Equal(t, dwerr.KindInvalidDwarf, dwerr.Classify(err))
}
