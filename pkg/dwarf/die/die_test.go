package die

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/arena"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/attr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/cu"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
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

// buildFixture builds a CU with one abbrev table (shared by CU and subprogram tags)
// over a hand-assembled .debug_info tree:
//
//	CU (code 1, has children)
//	  subprogram "foo" (code 2, no children)
//	  subprogram "bar" (code 2, no children)
//	  null (end of CU's children)
func buildFixture(order binary.ByteOrder) (*cu.Unit, []byte /* info */) {
	abbrevSection := buildAbbrevSection(
		[]any{uint64(1), format.TagCompileUnit, true, [][2]uint64{
			{uint64(format.AttrName), uint64(format.FormString)},
		}},
		[]any{uint64(2), format.TagSubprogram, false, [][2]uint64{
			{uint64(format.AttrName), uint64(format.FormString)},
		}},
	)

	var info []byte
	info = append(info, uleb(1)...)             // CU DIE, code 1
	info = append(info, []byte("unit.c\x00")...) // DW_AT_name
	info = append(info, uleb(2)...)
	info = append(info, []byte("foo\x00")...)
	info = append(info, uleb(2)...)
	info = append(info, []byte("bar\x00")...)
	info = append(info, 0) // terminator for CU's children

	unit := cu.NewUnit(info, abbrevSection, order, 8, 4, false, arena.New())
	return unit, info
}

func withAbbrev(info, abbrevSection []byte, order binary.ByteOrder) *cu.Unit {
	return cu.NewUnit(info, abbrevSection, order, 8, 4, false, arena.New())
}

func TestTag_RootAndChildren(t *testing.T) {
	unit, _ := buildFixture(binary.LittleEndian)
	root := Root(unit)

	tag, err := root.Tag()
	require.NoError(t, err)
	assert.Equal(t, format.TagCompileUnit, tag)

	hc, err := root.HasChildren()
	require.NoError(t, err)
	assert.True(t, hc)

	child, err := root.FirstChild()
	require.NoError(t, err)
	require.NotNil(t, child)
	childTag, err := child.Tag()
	require.NoError(t, err)
	assert.Equal(t, format.TagSubprogram, childTag)
}

func TestNextSibling_WalksSubtreeWithoutDwAtSibling(t *testing.T) {
	unit, _ := buildFixture(binary.LittleEndian)
	root := Root(unit)
	foo, err := root.FirstChild()
	require.NoError(t, err)

	form, pos, ok, err := foo.Attr(format.AttrName)
	require.NoError(t, err)
	require.True(t, ok)
	name, err := attr.String(form, unit, nil, pos)
	require.NoError(t, err)
	assert.Equal(t, "foo", name)

	bar, err := foo.NextSibling()
	require.NoError(t, err)
	require.NotNil(t, bar)
	form2, pos2, ok2, err := bar.Attr(format.AttrName)
	require.NoError(t, err)
	require.True(t, ok2)
	name2, err := attr.String(form2, unit, nil, pos2)
	require.NoError(t, err)
	assert.Equal(t, "bar", name2)

	end, err := bar.NextSibling()
	require.NoError(t, err)
	isNull, err := end.IsNull()
	require.NoError(t, err)
	assert.True(t, isNull)
}

func TestAttrIntegrate_FollowsAbstractOrigin(t *testing.T) {
	abbrevSection := buildAbbrevSection(
		[]any{uint64(1), format.TagCompileUnit, true, [][2]uint64{}},
		[]any{uint64(2), format.TagSubprogram, false, [][2]uint64{
			{uint64(format.AttrName), uint64(format.FormString)},
		}},
		[]any{uint64(3), format.TagSubprogram, false, [][2]uint64{
			{uint64(format.AttrAbstractOrigin), uint64(format.FormRefUdata)},
		}},
	)

	var info []byte
	info = append(info, uleb(1)...) // CU
	originOffset := uint64(len(info))
	info = append(info, uleb(2)...)
	info = append(info, []byte("real_fn\x00")...)
	declOffset := uint64(len(info))
	info = append(info, uleb(3)...)
	info = append(info, uleb(originOffset)...) // abstract_origin -> originOffset
	info = append(info, 0)                     // terminator

	unit := withAbbrev(info, abbrevSection, binary.LittleEndian)

	decl := At(unit, declOffset)
	form, pos, ok, err := decl.AttrIntegrate(format.AttrName)
	require.NoError(t, err)
	require.True(t, ok)
	name, err := attr.String(form, unit, nil, pos)
	require.NoError(t, err)
	assert.Equal(t, "real_fn", name)
}

func TestGetAttrs_StopsEarlyAndReportsResumeOffset(t *testing.T) {
	abbrevSection := buildAbbrevSection(
		[]any{uint64(1), format.TagSubprogram, false, [][2]uint64{
			{uint64(format.AttrName), uint64(format.FormString)},
			{uint64(format.AttrDeclLine), uint64(format.FormData1)},
		}},
	)
	var info []byte
	info = append(info, uleb(1)...)
	info = append(info, []byte("f\x00")...)
	info = append(info, 42)

	unit := withAbbrev(info, abbrevSection, binary.LittleEndian)

	d := Root(unit)
	var seen []format.Attr
	resume, err := d.GetAttrs(func(name format.Attr, form format.Form, pos uint64) bool {
		seen = append(seen, name)
		return false // stop after the first attribute
	})
	require.NoError(t, err)
	assert.Equal(t, []format.Attr{format.AttrName}, seen)
	// the declined DW_AT_name value starts right after the 1-byte abbrev code
	assert.Equal(t, uint64(1), resume)
}
