// Package die implements DIECursor: navigation over Debugging Information
// Entries within one Compilation Unit — tag and attribute access,
// sibling/child traversal, and the abstract_origin / specification
// integration chase — consulting the unit's AbbrevTable on demand rather
// than pre-decoding a whole tree.
package die

import (
	"github.com/Manu343726/dwarfkit/pkg/dwarf/abbrev"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/attr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/cu"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/format"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/leb128"
)

type state int

const (
	stateUnresolved state = iota
	stateNull             // abbrev code 0: a sibling-list terminator, not an error
	stateInvalid          // a nonzero code this CU's AbbrevTable could not resolve
	stateValid
)

// Cursor is a borrowed view onto one DIE: its offset within its unit plus
// whatever the unit's AbbrevTable has already told it about that offset.
// Resolution is itself lazy — nothing is read until the first Tag, Attr, or
// navigation call.
type Cursor struct {
	Unit   *cu.Unit
	Offset uint64

	state     state
	abbrev    *abbrev.Abbreviation
	attrStart uint64 // offset of the first attribute value, once resolved
}

// At builds a Cursor for the DIE starting at offset within unit. offset must
// be a global (.debug_info-relative) offset that actually begins a DIE
// (or the null entry terminating a sibling chain); it is not validated until
// resolved.
func At(unit *cu.Unit, offset uint64) *Cursor {
	return &Cursor{Unit: unit, Offset: offset}
}

// Root returns a Cursor at the unit's root DIE.
func Root(unit *cu.Unit) *Cursor {
	return At(unit, unit.FirstDIE)
}

// OffDie resolves a global .debug_info offset to a DIE cursor, first
// locating its owning Compilation Unit through the registry.
func OffDie(reg *cu.Registry, offset uint64) (*Cursor, error) {
	unit, err := reg.UnitFor(offset)
	if err != nil {
		return nil, err
	}
	return At(unit, offset), nil
}

func (c *Cursor) resolve() error {
	if c.state != stateUnresolved {
		return nil
	}
	cur := leb128.At(c.Unit.Info, int(c.Offset), c.Unit.Order)
	code, err := cur.ULEB128()
	if err != nil {
		return err
	}
	c.attrStart = uint64(cur.Pos())
	if code == 0 {
		c.state = stateNull
		return nil
	}
	ab, err := c.Unit.Abbrev().Lookup(code)
	if err != nil {
		c.state = stateInvalid
		return nil
	}
	c.abbrev = ab
	c.state = stateValid
	return nil
}

// IsNull reports whether this entry is the zero-code terminator ending a
// sibling chain, rather than an actual DIE.
func (c *Cursor) IsNull() (bool, error) {
	if err := c.resolve(); err != nil {
		return false, err
	}
	return c.state == stateNull, nil
}

// Tag returns the DIE's tag, or format.TagInvalid (with no error) if its
// abbrev code was corrupt — the sentinel-abbrev behavior for a DIE whose
// code could not be resolved.
func (c *Cursor) Tag() (format.Tag, error) {
	if err := c.resolve(); err != nil {
		return format.TagInvalid, err
	}
	if c.state != stateValid {
		return format.TagInvalid, nil
	}
	return c.abbrev.Tag, nil
}

// HasChildren reports whether the DIE's abbreviation declares children.
func (c *Cursor) HasChildren() (bool, error) {
	if err := c.resolve(); err != nil {
		return false, err
	}
	if c.state != stateValid {
		return false, nil
	}
	return c.abbrev.HasChildren, nil
}

// endOfAttrs returns the offset one past this DIE's last attribute value,
// i.e. where its first child (if any) or next sibling begins.
func (c *Cursor) endOfAttrs() (uint64, error) {
	if err := c.resolve(); err != nil {
		return 0, err
	}
	if c.state != stateValid {
		return c.attrStart, nil
	}
	pos := c.attrStart
	for _, spec := range c.abbrev.Attrs {
		n, err := FormValLen(spec.Form, c.Unit, pos)
		if err != nil {
			return 0, err
		}
		pos += n
	}
	return pos, nil
}

// FirstChild returns a Cursor at this DIE's first child, or nil if it has
// none (refusing to fabricate one that isn't there per HasChildren).
func (c *Cursor) FirstChild() (*Cursor, error) {
	hasChildren, err := c.HasChildren()
	if err != nil {
		return nil, err
	}
	if !hasChildren {
		return nil, nil
	}
	end, err := c.endOfAttrs()
	if err != nil {
		return nil, err
	}
	child := At(c.Unit, end)
	if isNull, err := child.IsNull(); err != nil {
		return nil, err
	} else if isNull {
		return nil, nil // an empty children list: immediately terminated
	}
	return child, nil
}

// skipSubtree returns the offset one past c's entire subtree (including its
// own null children-list terminator, if it has children).
func skipSubtree(c *Cursor) (uint64, error) {
	isNull, err := c.IsNull()
	if err != nil {
		return 0, err
	}
	if isNull {
		return c.Offset + 1, nil // the terminator is a single zero ULEB128 byte
	}
	hasChildren, err := c.HasChildren()
	if err != nil {
		return 0, err
	}
	end, err := c.endOfAttrs()
	if err != nil {
		return 0, err
	}
	if !hasChildren {
		return end, nil
	}
	pos := end
	for {
		child := At(c.Unit, pos)
		isNull, err := child.IsNull()
		if err != nil {
			return 0, err
		}
		if isNull {
			return pos + 1, nil
		}
		pos, err = skipSubtree(child)
		if err != nil {
			return 0, err
		}
	}
}

// NextSibling returns a Cursor at this DIE's next sibling. It takes the
// fast path through DW_AT_sibling when the abbreviation declares one;
// otherwise it walks (and skips) the entire subtree to find it.
func (c *Cursor) NextSibling() (*Cursor, error) {
	if err := c.resolve(); err != nil {
		return nil, err
	}
	if c.state != stateValid {
		return nil, dwerr.New(dwerr.KindInvalidDwarf, "cannot take the sibling of a null or invalid DIE")
	}
	if ref, ok, err := c.rawAttr(format.AttrSibling); err != nil {
		return nil, err
	} else if ok {
		n, err := attr.Ref(ref.form, c.Unit, ref.pos)
		if err != nil {
			return nil, err
		}
		return At(c.Unit, c.Unit.StartOffset+n), nil
	}
	next, err := skipSubtree(c)
	if err != nil {
		return nil, err
	}
	return At(c.Unit, next), nil
}

type rawLoc struct {
	form format.Form
	pos  uint64
}

// rawAttr locates the (form, value-offset) for the named attribute on this
// DIE, without decoding its value.
func (c *Cursor) rawAttr(name format.Attr) (rawLoc, bool, error) {
	if err := c.resolve(); err != nil {
		return rawLoc{}, false, err
	}
	if c.state != stateValid {
		return rawLoc{}, false, nil
	}
	pos := c.attrStart
	for _, spec := range c.abbrev.Attrs {
		if spec.Name == name {
			return rawLoc{form: spec.Form, pos: pos}, true, nil
		}
		n, err := FormValLen(spec.Form, c.Unit, pos)
		if err != nil {
			return rawLoc{}, false, err
		}
		pos += n
	}
	return rawLoc{}, false, nil
}

// Attr reports the (form, value-offset) of a named attribute on this DIE,
// for callers that will decode it themselves via the attr package.
func (c *Cursor) Attr(name format.Attr) (form format.Form, pos uint64, ok bool, err error) {
	loc, ok, err := c.rawAttr(name)
	if err != nil || !ok {
		return 0, 0, ok, err
	}
	return loc.form, loc.pos, true, nil
}

// AttrIntegrate behaves like Attr, but on a miss follows DW_AT_abstract_origin
// (and failing that, DW_AT_specification) to another DIE and retries there.
// Both redirecting attributes are CU-local references only: a DW_FORM_ref_addr
// redirect fails the whole lookup rather than silently stopping short.
func (c *Cursor) AttrIntegrate(name format.Attr) (form format.Form, pos uint64, ok bool, err error) {
	current := c
	for {
		loc, found, err := current.rawAttr(name)
		if err != nil {
			return 0, 0, false, err
		}
		if found {
			return loc.form, loc.pos, true, nil
		}

		redirect, hasRedirect, err := current.redirectTarget()
		if err != nil {
			return 0, 0, false, err
		}
		if !hasRedirect {
			return 0, 0, false, nil
		}
		current = redirect
	}
}

// redirectTarget follows DW_AT_abstract_origin if present, else
// DW_AT_specification, returning the DIE it points to.
func (c *Cursor) redirectTarget() (*Cursor, bool, error) {
	for _, name := range [...]format.Attr{format.AttrAbstractOrigin, format.AttrSpecification} {
		loc, ok, err := c.rawAttr(name)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		cuOffset, err := attr.Ref(loc.form, c.Unit, loc.pos)
		if err != nil {
			return nil, false, err
		}
		return At(c.Unit, c.Unit.StartOffset+cuOffset), true, nil
	}
	return nil, false, nil
}

// GetAttrs streams every (name, form, value-offset) triple on this DIE
// through callback in declaration order, stopping early if callback returns
// false. It returns the resume offset — where attribute scanning would
// continue — regardless of whether it stopped early or ran to completion.
func (c *Cursor) GetAttrs(callback func(name format.Attr, form format.Form, pos uint64) bool) (resumeOffset uint64, err error) {
	if err := c.resolve(); err != nil {
		return 0, err
	}
	if c.state != stateValid {
		return c.attrStart, nil
	}
	pos := c.attrStart
	for _, spec := range c.abbrev.Attrs {
		if !callback(spec.Name, spec.Form, pos) {
			return pos, nil
		}
		n, err := FormValLen(spec.Form, c.Unit, pos)
		if err != nil {
			return 0, err
		}
		pos += n
	}
	return pos, nil
}

// FormValLen returns the number of bytes the value of an attribute with the
// given form occupies at pos within unit, without decoding it — the pure
// function the reference design calls form_val_len, used to step from one
// attribute to the next (or from a DIE's last attribute to its first
// child/sibling).
func FormValLen(form format.Form, unit *cu.Unit, pos uint64) (uint64, error) {
	switch form {
	case format.FormAddr:
		return uint64(unit.AddressSize), nil
	case format.FormData1, format.FormRef1, format.FormFlag:
		return 1, nil
	case format.FormData2, format.FormRef2:
		return 2, nil
	case format.FormData4, format.FormRef4, format.FormSecOffset:
		return 4, nil
	case format.FormData8, format.FormRef8:
		return 8, nil
	case format.FormFlagPresent:
		return 0, nil
	case format.FormStrp, format.FormRefAddr:
		return uint64(unit.OffsetSize), nil
	case format.FormString:
		c := leb128.At(unit.Info, int(pos), unit.Order)
		if _, err := c.CString(); err != nil {
			return 0, err
		}
		return uint64(c.Pos()) - pos, nil
	case format.FormBlock1:
		c := leb128.At(unit.Info, int(pos), unit.Order)
		n, err := c.U8()
		if err != nil {
			return 0, err
		}
		return 1 + uint64(n), nil
	case format.FormBlock2:
		c := leb128.At(unit.Info, int(pos), unit.Order)
		n, err := c.U16()
		if err != nil {
			return 0, err
		}
		return 2 + uint64(n), nil
	case format.FormBlock4:
		c := leb128.At(unit.Info, int(pos), unit.Order)
		n, err := c.U32()
		if err != nil {
			return 0, err
		}
		return 4 + uint64(n), nil
	case format.FormBlock, format.FormExprloc:
		c := leb128.At(unit.Info, int(pos), unit.Order)
		n, err := c.ULEB128()
		if err != nil {
			return 0, err
		}
		return uint64(c.Pos()) - pos + n, nil
	case format.FormSdata:
		c := leb128.At(unit.Info, int(pos), unit.Order)
		if _, err := c.SLEB128(); err != nil {
			return 0, err
		}
		return uint64(c.Pos()) - pos, nil
	case format.FormUdata, format.FormRefUdata:
		c := leb128.At(unit.Info, int(pos), unit.Order)
		if _, err := c.ULEB128(); err != nil {
			return 0, err
		}
		return uint64(c.Pos()) - pos, nil
	case format.FormIndirect:
		c := leb128.At(unit.Info, int(pos), unit.Order)
		actualForm, err := c.ULEB128()
		if err != nil {
			return 0, err
		}
		headerLen := uint64(c.Pos()) - pos
		inner, err := FormValLen(format.Form(actualForm), unit, pos+headerLen)
		if err != nil {
			return 0, err
		}
		return headerLen + inner, nil
	default:
		return 0, dwerr.New(dwerr.KindInvalidDwarf, "form %s (0x%x) has no known value length at offset %d", form, uint32(form), pos)
	}
}
