package backend

import "github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"

// x86_64RegisterNames is the DWARF register number → name table for the
// AMD64 psABI, the numbering x86_64_init.c's CFI and core-note hooks assume
// throughout (register 0 is %rax, 16 is the return address column, and so
// on through the XMM/segment/control register ranges).
var x86_64RegisterNames = map[int]string{
	0: "rax", 1: "rdx", 2: "rcx", 3: "rbx",
	4: "rsi", 5: "rdi", 6: "rbp", 7: "rsp",
	8: "r8", 9: "r9", 10: "r10", 11: "r11",
	12: "r12", 13: "r13", 14: "r14", 15: "r15",
	16: "rip",
	17: "xmm0", 18: "xmm1", 19: "xmm2", 20: "xmm3",
	21: "xmm4", 22: "xmm5", 23: "xmm6", 24: "xmm7",
	49: "rflags",
	50: "es", 51: "cs", 52: "ss", 53: "ds", 54: "fs", 55: "gs",
}

// x86_64DynamicTags covers the machine-independent range of DT_* tags;
// x86-64 defines no machine-specific extension beyond them.
var x86_64DynamicTags = map[int64]string{
	0: "DT_NULL", 1: "DT_NEEDED", 2: "DT_PLTRELSZ", 4: "DT_HASH",
	5: "DT_STRTAB", 6: "DT_SYMTAB", 7: "DT_RELA", 8: "DT_RELASZ",
	11: "DT_SYMENT", 12: "DT_INIT", 13: "DT_FINI", 14: "DT_SONAME",
	15: "DT_RPATH", 20: "DT_PLTREL", 23: "DT_JMPREL",
}

// X86_64 implements Backend for the AMD64 psABI, grounded on
// backends/x86_64_init.c's reloc_simple_type/return_value_location hooks.
type X86_64 struct{}

func (X86_64) Arch() Arch { return ArchX86_64 }

// ClassifyRelocation mirrors x86_64_init.c's reloc_simple_type hook: R_X86_64_64
// and R_X86_64_32/32S are absolute, R_X86_64_PC32/PC64 are PC-relative,
// everything else (copy, GOT, PLT, TLS relocations) is unsupported here.
func (X86_64) ClassifyRelocation(kind uint32) RelocKind {
	switch kind {
	case 1, 10, 11: // R_X86_64_64, R_X86_64_32, R_X86_64_32S
		return RelocAbsolute
	case 2, 24: // R_X86_64_PC32, R_X86_64_PC64
		return RelocPCRelative
	default:
		return RelocUnsupported
	}
}

func (X86_64) RegisterName(num int) (string, bool) {
	name, ok := x86_64RegisterNames[num]
	return name, ok
}

func (X86_64) DynamicTagName(tag int64) (string, bool) {
	name, ok := x86_64DynamicTags[tag]
	return name, ok
}

// ReturnValueLocation implements the System V AMD64 psABI's INTEGER-class
// return rule for the default calling convention: values are returned in
// %rax, or %rax:%rdx when they don't fit in one register.
func (X86_64) ReturnValueLocation(cc CallingConvention) (Location, error) {
	if cc != CCDefault {
		return Location{}, dwerr.New(dwerr.KindNoMatch, "x86-64 backend has no calling convention %v", cc)
	}
	return Location{Register: 0, Register2: 1}, nil
}
