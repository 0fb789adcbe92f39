// Package sections defines the narrow contract the DWARF reader core
// consumes from its external ELF (or other object-container) collaborator:
// an opaque mapping from a small set of recognized section identifiers to
// immutable byte slices, plus the byte order they were recorded in. Nothing
// in this package knows how to parse ELF, Mach-O, or any other container
// format — that is explicitly kept out of the core's scope.
package sections

import "encoding/binary"

// ID identifies one of the DWARF sections the core recognizes.
type ID int

const (
	Info ID = iota
	Abbrev
	Str
	Line
	Aranges
	MacInfo
	PubNames
)

func (id ID) String() string {
	switch id {
	case Info:
		return ".debug_info"
	case Abbrev:
		return ".debug_abbrev"
	case Str:
		return ".debug_str"
	case Line:
		return ".debug_line"
	case Aranges:
		return ".debug_aranges"
	case MacInfo:
		return ".debug_macinfo"
	case PubNames:
		return ".debug_pubnames"
	default:
		return "<unknown section>"
	}
}

// Provider is the opaque "sections provider" the core's
// only dependency on its ELF (or other container) collaborator. A section
// being absent is not an error — e.g. a CU without .debug_aranges is legal —
// so Section reports absence via ok=false rather than an error value.
type Provider interface {
	// Section returns the byte range for the named section, or
	// ok=false if the container has no such section.
	Section(id ID) (data []byte, ok bool)

	// ByteOrder reports the endianness the container recorded its
	// sections in.
	ByteOrder() binary.ByteOrder
}

// Map is a trivial in-memory Provider, useful for tests and for any
// collaborator that has already sliced out the sections it cares about.
type Map struct {
	sections map[ID][]byte
	order    binary.ByteOrder
}

// NewMap builds a Map-backed Provider from a pre-sliced section table.
func NewMap(order binary.ByteOrder, entries map[ID][]byte) *Map {
	m := &Map{sections: make(map[ID][]byte, len(entries)), order: order}
	for id, data := range entries {
		m.sections[id] = data
	}
	return m
}

func (m *Map) Section(id ID) ([]byte, bool) {
	data, ok := m.sections[id]
	return data, ok
}

func (m *Map) ByteOrder() binary.ByteOrder { return m.order }
