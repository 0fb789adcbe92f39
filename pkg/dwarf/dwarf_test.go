package dwarf

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/backend"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwarftest"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/sections"
)

func TestOpen_EnumeratesCompilationUnitsAndDecodesRootDie(t *testing.T) {
	order := binary.LittleEndian
	abbrevSection := dwarftest.AbbrevSection(dwarftest.AbbrevDecl{
		Code: 1,
		Tag:  format.TagCompileUnit,
		Attrs: []dwarftest.AttrSpec{
			{Attr: format.AttrName, Form: format.FormString},
		},
	})
	body := append(dwarftest.ULEB128(1), []byte("main.c\x00")...)
	info := dwarftest.CUHeader(order, 4, 0, 8, body)

	provider := sections.NewMap(order, map[sections.ID][]byte{
		sections.Info:   info,
		sections.Abbrev: abbrevSection,
	})

	h, err := Open(provider)
	require.NoError(t, err)
	defer h.Close()

	unit, next, done, err := h.NextCU(0)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, uint64(len(info)), next)

	root := h.Root(unit)
	tag, err := root.Tag()
	require.NoError(t, err)
	assert.Equal(t, format.TagCompileUnit, tag)

	_, _, done, err = h.NextCU(next)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestOpen_MissingDebugInfoIsInvalidFile(t *testing.T) {
	provider := sections.NewMap(binary.LittleEndian, map[sections.ID][]byte{})
	_, err := Open(provider)
	require.Error(t, err)
	assert.Equal(t, dwerr.KindInvalidFile, dwerr.Classify(err))
}

func TestAranges_AbsentSectionIsNotAnError(t *testing.T) {
	order := binary.LittleEndian
	info := dwarftest.CUHeader(order, 4, 0, 8, dwarftest.ULEB128(0))
	provider := sections.NewMap(order, map[sections.ID][]byte{sections.Info: info})

	h, err := Open(provider)
	require.NoError(t, err)
	defer h.Close()

	tbl, present, err := h.Aranges()
	require.NoError(t, err)
	assert.False(t, present)
	assert.Nil(t, tbl)
}

func TestSetBackend_RoundTrips(t *testing.T) {
	order := binary.LittleEndian
	info := dwarftest.CUHeader(order, 4, 0, 8, dwarftest.ULEB128(0))
	provider := sections.NewMap(order, map[sections.ID][]byte{sections.Info: info})

	h, err := Open(provider)
	require.NoError(t, err)
	defer h.Close()

	assert.Nil(t, h.Backend())
	h.SetBackend(backend.X86_64{})
	assert.Equal(t, backend.ArchX86_64, h.Backend().Arch())
}
