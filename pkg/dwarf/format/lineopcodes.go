package format

// StandardOpcode identifies one of the fixed DW_LNS_* line-number program
// opcodes (1..12). A header's opcode_base may leave room for vendor-specific
// standard opcodes between 13 and opcode_base-1; its standard_opcode_lengths
// table tells the interpreter how many ULEB128 operands to skip for those it
// doesn't recognize. Values from opcode_base upward are special opcodes.
type StandardOpcode uint8

const (
	LNSCopy             StandardOpcode = 0x01
	LNSAdvancePC        StandardOpcode = 0x02
	LNSAdvanceLine      StandardOpcode = 0x03
	LNSSetFile          StandardOpcode = 0x04
	LNSSetColumn        StandardOpcode = 0x05
	LNSNegateStmt       StandardOpcode = 0x06
	LNSSetBasicBlock    StandardOpcode = 0x07
	LNSConstAddPC       StandardOpcode = 0x08
	LNSFixedAdvancePC   StandardOpcode = 0x09
	LNSSetPrologueEnd   StandardOpcode = 0x0a
	LNSSetEpilogueBegin StandardOpcode = 0x0b
	LNSSetISA           StandardOpcode = 0x0c
)

// ExtendedOpcode identifies a DW_LNE_* opcode, introduced in the bytecode by
// a leading zero byte, a ULEB128 length, and this opcode byte.
type ExtendedOpcode uint8

const (
	LNEEndSequence      ExtendedOpcode = 0x01
	LNESetAddress       ExtendedOpcode = 0x02
	LNEDefineFile       ExtendedOpcode = 0x03
	LNESetDiscriminator ExtendedOpcode = 0x04
)

// MacinfoOpcode identifies a DW_MACINFO_* record kind in .debug_macinfo.
type MacinfoOpcode uint8

const (
	MacinfoDefine     MacinfoOpcode = 0x01
	MacinfoUndef      MacinfoOpcode = 0x02
	MacinfoStartFile  MacinfoOpcode = 0x03
	MacinfoEndFile    MacinfoOpcode = 0x04
	MacinfoVendorExt  MacinfoOpcode = 0xff
)
