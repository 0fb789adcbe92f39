package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestX86_64_RegisterNameAndReturnValueLocation(t *testing.T) {
	var b Backend = X86_64{}

	name, ok := b.RegisterName(0)
	require.True(t, ok)
	assert.Equal(t, "rax", name)

	_, ok = b.RegisterName(9999)
	assert.False(t, ok)

	loc, err := b.ReturnValueLocation(CCDefault)
	require.NoError(t, err)
	assert.Equal(t, 0, loc.Register)
	assert.Equal(t, 1, loc.Register2)
}

func TestX86_64_ClassifyRelocation(t *testing.T) {
	b := X86_64{}
	assert.Equal(t, RelocAbsolute, b.ClassifyRelocation(1))
	assert.Equal(t, RelocPCRelative, b.ClassifyRelocation(2))
	assert.Equal(t, RelocUnsupported, b.ClassifyRelocation(9))
}

func TestARM_RegisterNames(t *testing.T) {
	b := ARM{}
	name, ok := b.RegisterName(15)
	require.True(t, ok)
	assert.Equal(t, "pc", name)

	name, ok = b.RegisterName(128)
	require.True(t, ok)
	assert.Equal(t, "cpsr", name)
}

func TestLoadDescriptor_OverridesBuiltinRegisterNames(t *testing.T) {
	doc := []byte(`
arch: x86-64
registers:
  - number: 0
    name: acc
    description: custom accumulator alias
`)
	table, err := LoadDescriptor(doc)
	require.NoError(t, err)

	overlay := NewOverlay(X86_64{}, table)
	name, ok := overlay.RegisterName(0)
	require.True(t, ok)
	assert.Equal(t, "acc", name)

	name, ok = overlay.RegisterName(1)
	require.True(t, ok)
	assert.Equal(t, "rdx", name)
}

func TestLoadLegacyDescriptor_ParsesYamlV2Schema(t *testing.T) {
	doc := []byte(`
Architecture: ARM
Regs:
  - Num: 0
    Name: r0
  - Num: 15
    Name: pc
`)
	table, err := LoadLegacyDescriptor(doc)
	require.NoError(t, err)
	assert.Equal(t, "ARM", table.Arch)

	name, ok := table.RegisterName(15)
	require.True(t, ok)
	assert.Equal(t, "pc", name)

	num, ok := table.RegisterNumber("r0")
	require.True(t, ok)
	assert.Equal(t, 0, num)
}
