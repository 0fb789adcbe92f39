package macinfo

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
)

func uleb(v uint64) []byte {
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

func TestParse_DecodesDefineStartFileEndFile(t *testing.T) {
	var section []byte
	section = append(section, byte(StartFile))
	section = append(section, uleb(0)...)
	section = append(section, uleb(1)...)

	section = append(section, byte(Define))
	section = append(section, uleb(10)...)
	section = append(section, []byte("FOO 1\x00")...)

	section = append(section, byte(Undef))
	section = append(section, uleb(20)...)
	section = append(section, []byte("FOO\x00")...)

	section = append(section, byte(EndFile))
	section = append(section, 0) // terminator

	recs, err := Parse(section, 0, binary.LittleEndian)
	require.NoError(t, err)
	require.Len(t, recs, 4)

	assert.Equal(t, StartFile, recs[0].Op)
	assert.Equal(t, uint64(1), recs[0].FileIndex)

	assert.Equal(t, Define, recs[1].Op)
	assert.Equal(t, uint64(10), recs[1].Line)
	assert.Equal(t, "FOO 1", recs[1].Text)

	assert.Equal(t, Undef, recs[2].Op)
	assert.Equal(t, "FOO", recs[2].Text)

	assert.Equal(t, EndFile, recs[3].Op)
}

func TestParse_UnknownOpcodeIsInvalidDwarf(t *testing.T) {
	section := []byte{0x42, 0}
	_, err := Parse(section, 0, binary.LittleEndian)
	assert.Error(t, err)
	assert.ErrorIs(t, err, dwerr.InvalidDwarf)
}
