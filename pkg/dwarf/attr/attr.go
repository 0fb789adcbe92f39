// Package attr implements AttrDecoder: turning a single attribute's
// (form, value-offset, CU-context) triple into one of the semantic classes
// a caller actually wants, rejecting any form outside the class it asked
// for instead of silently coercing it.
package attr

import (
	"github.com/Manu343726/dwarfkit/pkg/dwarf/cu"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/leb128"
)

func cursorAt(unit *cu.Unit, pos uint64) *leb128.Cursor {
	return leb128.At(unit.Info, int(pos), unit.Order)
}

// Addr decodes an attribute known to carry an address, failing with
// dwerr.NoAddr if form isn't DW_FORM_addr.
func Addr(form format.Form, unit *cu.Unit, pos uint64) (uint64, error) {
	if format.ClassOf(form) != format.ClassAddress {
		return 0, dwerr.New(dwerr.KindNoAddr, "form %s is not an address form", form)
	}
	return cursorAt(unit, pos).Address(unit.AddressSize)
}

// UData decodes an unsigned constant-class attribute: one of data{1,2,4,8},
// udata, or sec_offset.
func UData(form format.Form, unit *cu.Unit, pos uint64) (uint64, error) {
	c := cursorAt(unit, pos)
	switch form {
	case format.FormData1:
		v, err := c.U8()
		return uint64(v), err
	case format.FormData2:
		v, err := c.U16()
		return uint64(v), err
	case format.FormData4, format.FormSecOffset:
		v, err := c.U32()
		return uint64(v), err
	case format.FormData8:
		return c.U64()
	case format.FormUdata:
		return c.ULEB128()
	default:
		return 0, dwerr.New(dwerr.KindNoConstant, "form %s is not an unsigned constant form", form)
	}
}

// SData decodes DW_FORM_sdata specifically; other constant forms are
// unsigned by convention and must go through UData.
func SData(form format.Form, unit *cu.Unit, pos uint64) (int64, error) {
	if form != format.FormSdata {
		return 0, dwerr.New(dwerr.KindNoConstant, "form %s is not DW_FORM_sdata", form)
	}
	return cursorAt(unit, pos).SLEB128()
}

// String resolves a string-class attribute to its text: form_string reads
// the inline NUL-terminated bytes, strp reads an offset_size-wide
// .debug_str-relative offset and indexes into strSection.
func String(form format.Form, unit *cu.Unit, strSection []byte, pos uint64) (string, error) {
	switch form {
	case format.FormString:
		return cursorAt(unit, pos).CString()
	case format.FormStrp:
		off, err := cursorAt(unit, pos).Offset(unit.Is64Bit)
		if err != nil {
			return "", err
		}
		if off > uint64(len(strSection)) {
			return "", dwerr.New(dwerr.KindNoString, "strp offset %d past .debug_str (%d bytes)", off, len(strSection))
		}
		return leb128.At(strSection, int(off), unit.Order).CString()
	default:
		return "", dwerr.New(dwerr.KindNoString, "form %s is not a string form", form)
	}
}

// Block resolves a block-class attribute (inline byte blob) to its
// borrowed contents.
func Block(form format.Form, unit *cu.Unit, pos uint64) ([]byte, error) {
	c := cursorAt(unit, pos)
	switch form {
	case format.FormBlock1:
		n, err := c.U8()
		if err != nil {
			return nil, err
		}
		return c.Block(int(n))
	case format.FormBlock2:
		n, err := c.U16()
		if err != nil {
			return nil, err
		}
		return c.Block(int(n))
	case format.FormBlock4:
		n, err := c.U32()
		if err != nil {
			return nil, err
		}
		return c.Block(int(n))
	case format.FormBlock, format.FormExprloc:
		n, err := c.ULEB128()
		if err != nil {
			return nil, err
		}
		return c.Block(int(n))
	default:
		return nil, dwerr.New(dwerr.KindNoBlock, "form %s is not a block form", form)
	}
}

// Flag resolves a flag-class attribute. DW_FORM_flag_present never occupies
// any bytes and is always true by construction.
func Flag(form format.Form, unit *cu.Unit, pos uint64) (bool, error) {
	switch form {
	case format.FormFlagPresent:
		return true, nil
	case format.FormFlag:
		v, err := cursorAt(unit, pos).U8()
		return v != 0, err
	default:
		return false, dwerr.New(dwerr.KindNoFlag, "form %s is not a flag form", form)
	}
}

// Ref resolves a reference-class attribute to a CU-local offset (relative
// to the owning unit's StartOffset). DW_FORM_ref_addr is a different
// reference shape — an absolute, possibly cross-CU .debug_info offset — and
// is explicitly rejected here, matching the "CU-local only" restriction
// attr_integrate enforces.
func Ref(form format.Form, unit *cu.Unit, pos uint64) (uint64, error) {
	c := cursorAt(unit, pos)
	switch form {
	case format.FormRef1:
		v, err := c.U8()
		return uint64(v), err
	case format.FormRef2:
		v, err := c.U16()
		return uint64(v), err
	case format.FormRef4:
		v, err := c.U32()
		return uint64(v), err
	case format.FormRef8:
		return c.U64()
	case format.FormRefUdata:
		return c.ULEB128()
	case format.FormRefAddr:
		return 0, dwerr.New(dwerr.KindInvalidReference, "DW_FORM_ref_addr is not a CU-local reference")
	default:
		return 0, dwerr.New(dwerr.KindNoReference, "form %s is not a reference form", form)
	}
}
