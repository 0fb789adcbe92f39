package backend

import "github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"

// armRegisterNames follows the register numbering arm_corenote.c's
// prstatus_regs table assumes: r0..r15 at DWARF registers 0..15, cpsr at
// register 128 (the offset arm_corenote.c's Ebl_Register_Location entry for
// cpsr uses), and the f0..f7 FPA registers starting at 96.
var armRegisterNames = map[int]string{
	0: "r0", 1: "r1", 2: "r2", 3: "r3", 4: "r4", 5: "r5", 6: "r6", 7: "r7",
	8: "r8", 9: "r9", 10: "r10", 11: "fp", 12: "ip", 13: "sp", 14: "lr", 15: "pc",
	96: "f0", 97: "f1", 98: "f2", 99: "f3", 100: "f4", 101: "f5", 102: "f6", 103: "f7",
	128: "cpsr",
}

var armDynamicTags = map[int64]string{
	0: "DT_NULL", 1: "DT_NEEDED", 2: "DT_PLTRELSZ", 4: "DT_HASH",
	5: "DT_STRTAB", 6: "DT_SYMTAB", 7: "DT_RELA", 8: "DT_RELASZ",
	11: "DT_SYMENT", 12: "DT_INIT", 13: "DT_FINI", 14: "DT_SONAME",
	15: "DT_RPATH", 20: "DT_PLTREL", 23: "DT_JMPREL",
}

// ARM implements Backend for the 32-bit ARM EABI, grounded on
// backends/arm_auxv.c and backends/arm_corenote.c's register layout.
type ARM struct{}

func (ARM) Arch() Arch { return ArchARM }

// ClassifyRelocation mirrors the common ARM relocation split: R_ARM_ABS32
// is absolute, R_ARM_REL32/R_ARM_PC24 are PC-relative, the rest (GOT, PLT,
// TLS, Thumb-specific call veneers) are unsupported here.
func (ARM) ClassifyRelocation(kind uint32) RelocKind {
	switch kind {
	case 2: // R_ARM_ABS32
		return RelocAbsolute
	case 3, 1: // R_ARM_REL32, R_ARM_PC24
		return RelocPCRelative
	default:
		return RelocUnsupported
	}
}

func (ARM) RegisterName(num int) (string, bool) {
	name, ok := armRegisterNames[num]
	return name, ok
}

func (ARM) DynamicTagName(tag int64) (string, bool) {
	name, ok := armDynamicTags[tag]
	return name, ok
}

// ReturnValueLocation implements the AAPCS default rule: integer and
// pointer results are returned in r0, or r0:r1 for 64-bit results.
func (ARM) ReturnValueLocation(cc CallingConvention) (Location, error) {
	if cc != CCDefault {
		return Location{}, dwerr.New(dwerr.KindNoMatch, "ARM backend has no calling convention %v", cc)
	}
	return Location{Register: 0, Register2: 1}, nil
}
