// Package line implements LineProgram: the .debug_line bytecode
// interpreter that turns one CU's line-number program into a sorted
// vector of address-to-source records.
package line

import (
	"encoding/binary"
	"sort"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/leb128"
)

// FileEntry is one row of a line program's file table.
type FileEntry struct {
	Name     string
	DirIndex uint64
	MTime    uint64
	Length   uint64
}

// Record is one row the line-number state machine emitted: the source
// location attributed to a contiguous run of machine code starting at
// Address, plus the state-machine flags active when it was emitted.
type Record struct {
	Address       uint64
	File          uint64
	Line          uint64
	Column        uint64
	IsStmt        bool
	BasicBlock    bool
	EndSequence   bool
	PrologueEnd   bool
	EpilogueBegin bool
	ISA           uint64
	Discriminator uint64
}

// Program is one CU's fully-interpreted line-number program.
type Program struct {
	Dirs    []string
	Files   []FileEntry
	Records []Record
}

type header struct {
	programEnd       uint64 // offset one past this contribution's last byte
	programStart     uint64 // offset of the first opcode
	minInstLen       uint8
	defaultIsStmt    bool
	lineBase         int8
	lineRange        uint8
	opcodeBase       uint8
	stdOpcodeLengths []uint8
	dirs             []string
	files            []FileEntry
}

// Parse interprets the line-number program at offset within section
// (the .debug_line contribution for one CU), using addressSize to size the
// DW_LNE_set_address operand.
func Parse(section []byte, offset uint64, order binary.ByteOrder, addressSize int) (*Program, error) {
	h, err := parseHeader(section, offset, order)
	if err != nil {
		return nil, err
	}
	recs, err := run(section, h, order, addressSize)
	if err != nil {
		return nil, err
	}
	if !sort.SliceIsSorted(recs, func(i, j int) bool { return recs[i].Address < recs[j].Address }) {
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Address < recs[j].Address })
	}
	return &Program{Dirs: h.dirs, Files: h.files, Records: recs}, nil
}

func parseHeader(section []byte, offset uint64, order binary.ByteOrder) (*header, error) {
	c := leb128.At(section, int(offset), order)

	unitLength, is64, err := c.InitialLength()
	if err != nil {
		return nil, err
	}
	lengthFieldWidth := c.Pos() - int(offset)
	programEnd := offset + uint64(lengthFieldWidth) + unitLength
	if programEnd > uint64(len(section)) {
		return nil, dwerr.New(dwerr.KindInvalidDwarf, "line program at offset %d declares length %d extending past .debug_line (%d bytes)", offset, unitLength, len(section))
	}

	if _, err := c.U16(); err != nil { // version; not consulted beyond header shape
		return nil, err
	}

	headerLength, err := c.Offset(is64)
	if err != nil {
		return nil, err
	}
	programStart := uint64(c.Pos()) + headerLength

	minInstLen, err := c.U8()
	if err != nil {
		return nil, err
	}
	defaultIsStmtRaw, err := c.U8()
	if err != nil {
		return nil, err
	}
	lineBaseRaw, err := c.U8()
	if err != nil {
		return nil, err
	}
	lineRange, err := c.U8()
	if err != nil {
		return nil, err
	}
	opcodeBase, err := c.U8()
	if err != nil {
		return nil, err
	}

	stdOpcodeLengths := make([]uint8, 0, opcodeBase-1)
	for i := uint8(1); i < opcodeBase; i++ {
		n, err := c.U8()
		if err != nil {
			return nil, err
		}
		stdOpcodeLengths = append(stdOpcodeLengths, n)
	}

	var dirs []string
	for {
		s, err := c.CString()
		if err != nil {
			return nil, err
		}
		if s == "" {
			break
		}
		dirs = append(dirs, s)
	}

	var files []FileEntry
	for {
		name, err := c.CString()
		if err != nil {
			return nil, err
		}
		if name == "" {
			break
		}
		dirIndex, err := c.ULEB128()
		if err != nil {
			return nil, err
		}
		mtime, err := c.ULEB128()
		if err != nil {
			return nil, err
		}
		length, err := c.ULEB128()
		if err != nil {
			return nil, err
		}
		files = append(files, FileEntry{Name: name, DirIndex: dirIndex, MTime: mtime, Length: length})
	}

	return &header{
		programEnd:       programEnd,
		programStart:     programStart,
		minInstLen:       minInstLen,
		defaultIsStmt:    defaultIsStmtRaw != 0,
		lineBase:         int8(lineBaseRaw),
		lineRange:        lineRange,
		opcodeBase:       opcodeBase,
		stdOpcodeLengths: stdOpcodeLengths,
		dirs:             dirs,
		files:            files,
	}, nil
}

// registers is the line-number state machine's register file, reset to its
// DWARF-mandated defaults at the start of every sequence.
type registers struct {
	address       uint64
	file          uint64
	line          uint64
	column        uint64
	isStmt        bool
	basicBlock    bool
	endSequence   bool
	prologueEnd   bool
	epilogueBegin bool
	isa           uint64
	discriminator uint64
}

func initialRegisters(defaultIsStmt bool) registers {
	return registers{file: 1, line: 1, isStmt: defaultIsStmt}
}

func (r registers) record() Record {
	return Record{
		Address: r.address, File: r.file, Line: r.line, Column: r.column,
		IsStmt: r.isStmt, BasicBlock: r.basicBlock, EndSequence: r.endSequence,
		PrologueEnd: r.prologueEnd, EpilogueBegin: r.epilogueBegin,
		ISA: r.isa, Discriminator: r.discriminator,
	}
}

func run(section []byte, h *header, order binary.ByteOrder, addressSize int) ([]Record, error) {
	c := leb128.At(section, int(h.programStart), order)
	regs := initialRegisters(h.defaultIsStmt)
	var recs []Record

	for uint64(c.Pos()) < h.programEnd {
		opcode, err := c.U8()
		if err != nil {
			return nil, err
		}

		switch {
		case opcode == 0:
			recs, err = runExtended(c, &regs, recs, addressSize, h.defaultIsStmt)
			if err != nil {
				return nil, err
			}
		case opcode < h.opcodeBase:
			recs, err = runStandard(c, &regs, recs, format.StandardOpcode(opcode), h)
			if err != nil {
				return nil, err
			}
		default:
			adjusted := opcode - h.opcodeBase
			addrAdvance := uint64(adjusted/h.lineRange) * uint64(h.minInstLen)
			lineAdvance := int64(h.lineBase) + int64(adjusted%h.lineRange)
			regs.address += addrAdvance
			regs.line = uint64(int64(regs.line) + lineAdvance)
			recs = append(recs, regs.record())
			regs.basicBlock = false
			regs.prologueEnd = false
			regs.epilogueBegin = false
			regs.discriminator = 0
		}
	}
	return recs, nil
}

func runStandard(c *leb128.Cursor, regs *registers, recs []Record, op format.StandardOpcode, h *header) ([]Record, error) {
	switch op {
	case format.LNSCopy:
		recs = append(recs, regs.record())
		regs.basicBlock = false
		regs.prologueEnd = false
		regs.epilogueBegin = false
		regs.discriminator = 0
	case format.LNSAdvancePC:
		n, err := c.ULEB128()
		if err != nil {
			return nil, err
		}
		regs.address += n * uint64(h.minInstLen)
	case format.LNSAdvanceLine:
		n, err := c.SLEB128()
		if err != nil {
			return nil, err
		}
		regs.line = uint64(int64(regs.line) + n)
	case format.LNSSetFile:
		n, err := c.ULEB128()
		if err != nil {
			return nil, err
		}
		regs.file = n
	case format.LNSSetColumn:
		n, err := c.ULEB128()
		if err != nil {
			return nil, err
		}
		regs.column = n
	case format.LNSNegateStmt:
		regs.isStmt = !regs.isStmt
	case format.LNSSetBasicBlock:
		regs.basicBlock = true
	case format.LNSConstAddPC:
		adjusted := (255 - h.opcodeBase)
		regs.address += uint64(adjusted/h.lineRange) * uint64(h.minInstLen)
	case format.LNSFixedAdvancePC:
		n, err := c.U16()
		if err != nil {
			return nil, err
		}
		regs.address += uint64(n)
	case format.LNSSetPrologueEnd:
		regs.prologueEnd = true
	case format.LNSSetEpilogueBegin:
		regs.epilogueBegin = true
	case format.LNSSetISA:
		n, err := c.ULEB128()
		if err != nil {
			return nil, err
		}
		regs.isa = n
	default:
		// a vendor-specific standard opcode the interpreter doesn't know the
		// meaning of; std_opcode_lengths says how many ULEB128 operands to
		// skip to stay in sync with the bytecode stream.
		n := int(h.stdOpcodeLengths[op-1])
		for i := 0; i < n; i++ {
			if _, err := c.ULEB128(); err != nil {
				return nil, err
			}
		}
	}
	return recs, nil
}

func runExtended(c *leb128.Cursor, regs *registers, recs []Record, addressSize int, defaultIsStmt bool) ([]Record, error) {
	length, err := c.ULEB128()
	if err != nil {
		return nil, err
	}
	opStart := c.Pos()
	opcodeRaw, err := c.U8()
	if err != nil {
		return nil, err
	}

	switch format.ExtendedOpcode(opcodeRaw) {
	case format.LNEEndSequence:
		regs.endSequence = true
		recs = append(recs, regs.record())
		*regs = initialRegisters(defaultIsStmt)
	case format.LNESetAddress:
		addr, err := c.Address(addressSize)
		if err != nil {
			return nil, err
		}
		regs.address = addr
	case format.LNEDefineFile:
		if _, err := c.CString(); err != nil {
			return nil, err
		}
		if _, err := c.ULEB128(); err != nil {
			return nil, err
		}
		if _, err := c.ULEB128(); err != nil {
			return nil, err
		}
		if _, err := c.ULEB128(); err != nil {
			return nil, err
		}
	case format.LNESetDiscriminator:
		n, err := c.ULEB128()
		if err != nil {
			return nil, err
		}
		regs.discriminator = n
	default:
		// unknown extended opcode: skip to the end of its declared length
	}

	c.SetPos(opStart + int(length))
	return recs, nil
}

// GetSrc resolves the source record covering addr via binary search:
// an exact non-end_sequence match wins outright; an
// exact match on an end_sequence record, or a strict-inequality miss, both
// resolve by stepping back to the nearest non-end_sequence predecessor.
// end_sequence records are never returned.
func (p *Program) GetSrc(addr uint64) (*Record, error) {
	recs := p.Records
	u := sort.Search(len(recs), func(i int) bool { return recs[i].Address >= addr })
	if u < len(recs) && recs[u].Address == addr && !recs[u].EndSequence {
		return &recs[u], nil
	}
	if u == 0 {
		return nil, dwerr.New(dwerr.KindAddrOutOfRange, "address 0x%x precedes the first line record", addr)
	}
	prev := &recs[u-1]
	if prev.EndSequence {
		return nil, dwerr.New(dwerr.KindAddrOutOfRange, "address 0x%x has no covering line record", addr)
	}
	return prev, nil
}
