package pubnames

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/arena"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/cu"
)

func buildContribution(order binary.ByteOrder, cuOffset uint32, names ...struct {
	dieOffset uint32
	name      string
}) []byte {
	var body []byte
	body = append(body, 0, 0) // version
	order.PutUint16(body, 2)
	var off [4]byte
	order.PutUint32(off[:], cuOffset)
	body = append(body, off[:]...)
	body = append(body, off[:]...) // debug_info_length, unused by the reader

	for _, n := range names {
		var d [4]byte
		order.PutUint32(d[:], n.dieOffset)
		body = append(body, d[:]...)
		body = append(body, []byte(n.name)...)
		body = append(body, 0)
	}
	body = append(body, 0, 0, 0, 0) // terminator die_offset=0

	unitLen := uint32(len(body))
	var out [4]byte
	order.PutUint32(out[:], unitLen)
	return append(out[:], body...)
}

func TestParse_IndexesNamesOfOneContribution(t *testing.T) {
	order := binary.LittleEndian
	section := buildContribution(order, 0x0, struct {
		dieOffset uint32
		name      string
	}{0x20, "main"})

	tbl, err := Parse(section, order)
	require.NoError(t, err)
	require.Len(t, tbl.Entries, 1)

	entries, ok := tbl.Lookup("main")
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, uint64(0x20), entries[0].DIEOffset)
	assert.Equal(t, uint64(0x0), entries[0].CUOffset)

	_, ok = tbl.Lookup("nonexistent")
	assert.False(t, ok)
}

func TestDie_ResolvesViaRegistry(t *testing.T) {
	order := binary.LittleEndian

	// A minimal real CU header so Registry.UnitFor can resolve offset 0.
	var info []byte
	var body []byte
	body = append(body, 0, 0) // version
	order.PutUint16(body, 4)
	body = append(body, 0, 0, 0, 0) // abbrev_offset
	body = append(body, 8)          // address_size
	body = append(body, 0x11)       // one DIE byte (abbrev code 0x11, irrelevant to this test)
	unitLen := uint32(len(body))
	var lenBytes [4]byte
	order.PutUint32(lenBytes[:], unitLen)
	info = append(info, lenBytes[:]...)
	info = append(info, body...)

	reg := cu.NewRegistry(info, nil, order, arena.New())

	e := Entry{Name: "main", CUOffset: 0, DIEOffset: 11}
	d, err := Die(reg, e)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), d.Offset)
}
