// Package macinfo implements a small .debug_macinfo reader: a flat stream
// of preprocessor macro records, grounded on elfutils's DW_MACINFO_*
// vocabulary (dwarf_macro_param2.c describes the two-parameter record
// shape this decodes into).
package macinfo

import (
	"encoding/binary"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/leb128"
)

// Opcode identifies one .debug_macinfo record's kind (DW_MACINFO_*).
type Opcode uint8

const (
	Define    Opcode = 0x01
	Undef     Opcode = 0x02
	StartFile Opcode = 0x03
	EndFile   Opcode = 0x04
	VendorExt Opcode = 0xff
)

func (op Opcode) String() string {
	switch op {
	case Define:
		return "DW_MACINFO_define"
	case Undef:
		return "DW_MACINFO_undef"
	case StartFile:
		return "DW_MACINFO_start_file"
	case EndFile:
		return "DW_MACINFO_end_file"
	case VendorExt:
		return "DW_MACINFO_vendor_ext"
	default:
		return "DW_MACINFO_unknown"
	}
}

// Record is one decoded .debug_macinfo entry. Which fields are meaningful
// depends on Op: Define/Undef carry Line and Text ("NAME value" or "NAME");
// StartFile carries Line and FileIndex; EndFile carries neither;
// VendorExt carries a vendor-defined Param (a ULEB128 "constant") and Text.
type Record struct {
	Op        Opcode
	Line      uint64
	Text      string
	FileIndex uint64
	Param     uint64
}

// Parse decodes every record in section starting at offset, stopping at
// the zero-opcode terminator ending this .debug_macinfo contribution.
func Parse(section []byte, offset uint64, order binary.ByteOrder) ([]Record, error) {
	c := leb128.At(section, int(offset), order)
	var records []Record

	for {
		opByte, err := c.U8()
		if err != nil {
			return nil, err
		}
		if opByte == 0 {
			break
		}
		op := Opcode(opByte)

		var rec Record
		rec.Op = op
		switch op {
		case Define, Undef:
			line, err := c.ULEB128()
			if err != nil {
				return nil, err
			}
			text, err := c.CString()
			if err != nil {
				return nil, err
			}
			rec.Line = line
			rec.Text = text
		case StartFile:
			line, err := c.ULEB128()
			if err != nil {
				return nil, err
			}
			idx, err := c.ULEB128()
			if err != nil {
				return nil, err
			}
			rec.Line = line
			rec.FileIndex = idx
		case EndFile:
			// carries no operands
		case VendorExt:
			param, err := c.ULEB128()
			if err != nil {
				return nil, err
			}
			text, err := c.CString()
			if err != nil {
				return nil, err
			}
			rec.Param = param
			rec.Text = text
		default:
			return nil, dwerr.New(dwerr.KindInvalidDwarf, "macinfo opcode 0x%x at offset %d is not a known DW_MACINFO_* value", opByte, c.Pos())
		}

		records = append(records, rec)
	}

	return records, nil
}
