package scope

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

// buildFixture builds:
//
//	CU (code 1, has children)
//	  lexical_block "outer" (code 2, has children)
//	    subprogram "inner" (code 3, no children)
//	  null
func buildFixture(order binary.ByteOrder) (unit *cu.Unit, outerOffset, innerOffset uint64) {
	abbrevSection := buildAbbrevSection(
		[]any{uint64(1), format.TagCompileUnit, true, [][2]uint64{}},
		[]any{uint64(2), format.TagLexicalBlock, true, [][2]uint64{}},
		[]any{uint64(3), format.TagSubprogram, false, [][2]uint64{}},
	)

	var info []byte
	info = append(info, uleb(1)...) // CU
	outerOffset = uint64(len(info))
	info = append(info, uleb(2)...) // lexical_block
	innerOffset = uint64(len(info))
	info = append(info, uleb(3)...) // subprogram
	info = append(info, 0)          // terminates lexical_block's children
	info = append(info, 0)          // terminates CU's children

	unit = cu.NewUnit(info, abbrevSection, order, 8, 4, false, arena.New())
	return unit, outerOffset, innerOffset
}

func TestWalk_VisitsEveryNodePreAndPost(t *testing.T) {
	unit, outerOffset, innerOffset := buildFixture(binary.LittleEndian)
	root := die.Root(unit)

	var preOffsets, postOffsets []uint64
	err := Walk(root, func(depth int, chain []*die.Cursor) (Verdict, error) {
		preOffsets = append(preOffsets, chain[len(chain)-1].Offset)
		return Descend, nil
	}, func(depth int, chain []*die.Cursor) error {
		postOffsets = append(postOffsets, chain[len(chain)-1].Offset)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []uint64{root.Offset, outerOffset, innerOffset}, preOffsets)
	assert.Equal(t, []uint64{innerOffset, outerOffset, root.Offset}, postOffsets)
}

func TestWalk_SkipDoesNotDescendIntoSubtree(t *testing.T) {
	unit, outerOffset, _ := buildFixture(binary.LittleEndian)
	root := die.Root(unit)

	var visited []uint64
	err := Walk(root, func(depth int, chain []*die.Cursor) (Verdict, error) {
		leaf := chain[len(chain)-1]
		visited = append(visited, leaf.Offset)
		if leaf.Offset == outerOffset {
			return Skip, nil
		}
		return Descend, nil
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []uint64{root.Offset, outerOffset}, visited)
}

func TestWalk_AbortStopsImmediatelyWithoutPost(t *testing.T) {
	unit, outerOffset, _ := buildFixture(binary.LittleEndian)
	root := die.Root(unit)

	var postCalls int
	err := Walk(root, func(depth int, chain []*die.Cursor) (Verdict, error) {
		if chain[len(chain)-1].Offset == outerOffset {
			return Abort, nil
		}
		return Descend, nil
	}, func(depth int, chain []*die.Cursor) error {
		postCalls++
		return nil
	})
	assert.ErrorIs(t, err, ErrAborted)
	assert.Equal(t, 0, postCalls)
}

func TestGetScopes_ReturnsChainLeafFirstRootLast(t *testing.T) {
	unit, outerOffset, innerOffset := buildFixture(binary.LittleEndian)
	root := die.Root(unit)
	target := die.At(unit, innerOffset)

	chain, err := GetScopes(root, target)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, innerOffset, chain[0].Offset)
	assert.Equal(t, outerOffset, chain[1].Offset)
	assert.Equal(t, root.Offset, chain[2].Offset)
}

func TestGetScopes_NoMatchIsNoEntry(t *testing.T) {
	unit, _, _ := buildFixture(binary.LittleEndian)
	root := die.Root(unit)
	bogus := die.At(unit, 9999)

	_, err := GetScopes(root, bogus)
	assert.Error(t, err)
	assert.ErrorIs(t, err, dwerr.NoEntry)
}
