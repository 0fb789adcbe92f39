package funcinfo

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/arena"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/cu"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/die"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/line"
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

func buildAbbrevSection(decls ...[]any) []byte {
	var buf []byte
	for _, d := range decls {
		code := d[0].(uint64)
		tag := d[1].(format.Tag)
		hasChildren := d[2].(bool)
		buf = append(buf, uleb(code)...)
		buf = append(buf, uleb(uint64(tag))...)
		if hasChildren {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		for _, p := range d[3].([][2]uint64) {
			buf = append(buf, uleb(p[0])...)
			buf = append(buf, uleb(p[1])...)
		}
		buf = append(buf, 0, 0)
	}
	return append(buf, 0)
}

func TestEntryPC_FallsBackToLowPc(t *testing.T) {
	order := binary.LittleEndian
	abbrevSection := buildAbbrevSection(
		[]any{uint64(1), format.TagSubprogram, false, [][2]uint64{
			{uint64(format.AttrLowPc), uint64(format.FormAddr)},
		}},
	)
	var info []byte
	info = append(info, uleb(1)...)
	addr := make([]byte, 8)
	order.PutUint64(addr, 0x4000)
	info = append(info, addr...)

	unit := cu.NewUnit(info, abbrevSection, order, 8, 4, false, arena.New())
	fn := die.Root(unit)

	pc, err := EntryPC(fn)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x4000), pc)
}

func TestDeclFile_ResolvesOneBasedIndex(t *testing.T) {
	order := binary.LittleEndian
	abbrevSection := buildAbbrevSection(
		[]any{uint64(1), format.TagSubprogram, false, [][2]uint64{
			{uint64(format.AttrDeclFile), uint64(format.FormData1)},
		}},
	)
	var info []byte
	info = append(info, uleb(1)...)
	info = append(info, 1) // decl_file = 1 (first entry)

	unit := cu.NewUnit(info, abbrevSection, order, 8, 4, false, arena.New())
	fn := die.Root(unit)

	prog := &line.Program{Files: []line.FileEntry{{Name: "main.c"}, {Name: "util.c"}}}
	name, err := DeclFile(fn, prog)
	require.NoError(t, err)
	assert.Equal(t, "main.c", name)
}

func TestDeclFile_ZeroIndexIsNoEntry(t *testing.T) {
	order := binary.LittleEndian
	abbrevSection := buildAbbrevSection(
		[]any{uint64(1), format.TagSubprogram, false, [][2]uint64{
			{uint64(format.AttrDeclFile), uint64(format.FormData1)},
		}},
	)
	var info []byte
	info = append(info, uleb(1)...)
	info = append(info, 0)

	unit := cu.NewUnit(info, abbrevSection, order, 8, 4, false, arena.New())
	fn := die.Root(unit)

	_, err := DeclFile(fn, &line.Program{Files: []line.FileEntry{{Name: "main.c"}}})
	assert.Error(t, err)
	assert.ErrorIs(t, err, dwerr.NoEntry)
}

func TestInlineStatus_ClassifiesDwInlValues(t *testing.T) {
	order := binary.LittleEndian
	abbrevSection := buildAbbrevSection(
		[]any{uint64(1), format.TagSubprogram, false, [][2]uint64{
			{uint64(format.AttrInline), uint64(format.FormData1)},
		}},
	)
	var info []byte
	info = append(info, uleb(1)...)
	info = append(info, 2) // DW_INL_inlined

	unit := cu.NewUnit(info, abbrevSection, order, 8, 4, false, arena.New())
	fn := die.Root(unit)

	status, err := InlineStatus(fn)
	require.NoError(t, err)
	assert.Equal(t, Inlined, status)
}

func TestInline_StringNamesEveryValue(t *testing.T) {
	assert.Equal(t, "not inlined", NotInlined.String())
	assert.Equal(t, "declared not inlined", DeclaredNotInlined.String())
	assert.Equal(t, "inlined", Inlined.String())
	assert.Equal(t, "declared inlined", DeclaredInlined.String())
}

func TestInlineInstances_FiltersByAbstractOrigin(t *testing.T) {
	order := binary.LittleEndian
	abbrevSection := buildAbbrevSection(
		[]any{uint64(1), format.TagSubprogram, true, [][2]uint64{}},
		[]any{uint64(2), format.TagInlinedSubroutine, false, [][2]uint64{
			{uint64(format.AttrAbstractOrigin), uint64(format.FormRefUdata)},
		}},
		[]any{uint64(3), format.TagInlinedSubroutine, false, [][2]uint64{
			{uint64(format.AttrAbstractOrigin), uint64(format.FormRefUdata)},
		}},
	)

	var info []byte
	info = append(info, uleb(1)...) // root subprogram, code 1 — doubles as the origin DIE
	matchOffset := uint64(len(info))
	info = append(info, uleb(2)...)
	info = append(info, uleb(0)...) // abstract_origin -> offset 0 (the root itself)
	otherOffset := uint64(len(info))
	info = append(info, uleb(3)...)
	info = append(info, uleb(9999)...) // abstract_origin -> an unrelated offset
	info = append(info, 0)             // terminate root's children
	_ = otherOffset

	unit := cu.NewUnit(info, abbrevSection, order, 8, 4, false, arena.New())
	root := die.Root(unit)
	origin := die.At(unit, 0)

	var matched []uint64
	err := InlineInstances(root, origin, func(d *die.Cursor) bool {
		matched = append(matched, d.Offset)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []uint64{matchOffset}, matched)
}
