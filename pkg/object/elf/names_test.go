package elf

import (
	"debug/elf"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOSABIName_KnownAndUnknown(t *testing.T) {
	assert.Equal(t, "UNIX - GNU/Linux", OSABIName(elf.ELFOSABI_LINUX))
	assert.Equal(t, "<unknown OSABI>", OSABIName(elf.OSABI(0xEE)))
}

func TestSectionTypeName_KnownAndUnknown(t *testing.T) {
	assert.Equal(t, "PROGBITS", SectionTypeName(elf.SHT_PROGBITS))
	assert.Equal(t, "<unknown section type>", SectionTypeName(elf.SectionType(0xEE)))
}

func TestSegmentTypeName_KnownAndUnknown(t *testing.T) {
	assert.Equal(t, "LOAD", SegmentTypeName(elf.PT_LOAD))
	assert.Equal(t, "<unknown segment type>", SegmentTypeName(elf.ProgType(0xEE)))
}
