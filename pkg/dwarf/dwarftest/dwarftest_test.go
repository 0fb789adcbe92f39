package dwarftest

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/arena"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/cu"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/die"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/leb128"
)

func TestAbbrevSection_RoundTripsThroughCURegistry(t *testing.T) {
	order := binary.LittleEndian
	abbrevSection := AbbrevSection(AbbrevDecl{
		Code: 1,
		Tag:  format.TagCompileUnit,
		Attrs: []AttrSpec{
			{Attr: format.AttrName, Form: format.FormString},
		},
	})

	body := append(ULEB128(1), []byte("main.c\x00")...)
	info := CUHeader(order, 4, 0, 8, body)

	reg := cu.NewRegistry(info, abbrevSection, order, arena.New())
	unit, err := reg.UnitFor(0)
	require.NoError(t, err)

	root := die.Root(unit)
	tag, err := root.Tag()
	require.NoError(t, err)
	assert.Equal(t, format.TagCompileUnit, tag)
}

func TestSLEB128_RoundTripsNegativeValues(t *testing.T) {
	encoded := SLEB128(-2)
	assert.NotEmpty(t, encoded)

	decoded, err := leb128.New(encoded, binary.LittleEndian).SLEB128()
	require.NoError(t, err)
	assert.Equal(t, int64(-2), decoded)
}
