// Package elf is the ELF container collaborator kept out of the core
// DWARF reader's scope: it adapts stdlib's debug/elf to the narrow
// sections.Provider contract the core actually needs, plus the small
// section/segment/OSABI name tables cmd/dwarfdump's header dump wants.
// Grounded on elfutils's libebl name-table family (eblosabiname.c,
// eblsectionname.c, eblsegmenttypename.c) for the naming conventions; see
// the project's design notes for why this package stays on debug/elf
// rather than a third-party ELF reader.
package elf

import (
	"debug/elf"
	"encoding/binary"
	"fmt"

	"github.com/Manu343726/dwarfkit/pkg/dwarf/dwerr"
	"github.com/Manu343726/dwarfkit/pkg/dwarf/sections"
)

// sectionNames maps a sections.ID to the ELF section name debug/elf indexes
// sections by.
var sectionNames = map[sections.ID]string{
	sections.Info:     ".debug_info",
	sections.Abbrev:   ".debug_abbrev",
	sections.Str:      ".debug_str",
	sections.Line:     ".debug_line",
	sections.Aranges:  ".debug_aranges",
	sections.MacInfo:  ".debug_macinfo",
	sections.PubNames: ".debug_pubnames",
}

// Provider adapts an open *elf.File to sections.Provider, lazily reading
// and caching each requested section's bytes (a CU without .debug_aranges,
// or a stripped binary with no .debug_macinfo, is legal — Section reports
// absence, never an error).
type Provider struct {
	file  *elf.File
	cache map[sections.ID][]byte
}

// Open opens path as an ELF file and wraps it in a Provider. The caller
// must call Close when done with every section slice this Provider handed
// out — debug/elf's returned sections may alias mapped or buffered file
// data.
func Open(path string) (*Provider, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, dwerr.New(dwerr.KindInvalidFile, "opening %s as ELF: %v", path, err)
	}
	return &Provider{file: f, cache: make(map[sections.ID][]byte)}, nil
}

func (p *Provider) Close() error {
	return p.file.Close()
}

// Section implements sections.Provider.
func (p *Provider) Section(id sections.ID) ([]byte, bool) {
	if data, ok := p.cache[id]; ok {
		return data, true
	}
	name, ok := sectionNames[id]
	if !ok {
		return nil, false
	}
	sec := p.file.Section(name)
	if sec == nil {
		return nil, false
	}
	data, err := sec.Data()
	if err != nil {
		return nil, false
	}
	p.cache[id] = data
	return data, true
}

// ByteOrder implements sections.Provider, reporting the endianness debug/elf
// detected from the ELF identification bytes.
func (p *Provider) ByteOrder() binary.ByteOrder {
	if p.file.ByteOrder == nil {
		return binary.LittleEndian
	}
	return p.file.ByteOrder
}

// Class reports whether the underlying file is ELF32 or ELF64.
func (p *Provider) Class() elf.Class {
	return p.file.Class
}

// Machine reports the ELF e_machine field, the raw value backend.Arch
// detection is driven from.
func (p *Provider) Machine() elf.Machine {
	return p.file.Machine
}

func (p *Provider) String() string {
	return fmt.Sprintf("elf.Provider{class=%s, machine=%s, order=%v}", p.file.Class, p.file.Machine, p.ByteOrder())
}

// SectionInfo describes one raw ELF section header, for callers (cmd/dwarfdump's
// "sections" listing) that want the full section table rather than just the
// handful sections.Provider recognizes.
type SectionInfo struct {
	Name string
	Type elf.SectionType
	Addr uint64
	Size uint64
}

// Sections lists every section header in the underlying file, in file order.
func (p *Provider) Sections() []SectionInfo {
	out := make([]SectionInfo, 0, len(p.file.Sections))
	for _, sec := range p.file.Sections {
		out = append(out, SectionInfo{Name: sec.Name, Type: sec.Type, Addr: sec.Addr, Size: sec.Size})
	}
	return out
}

// OSABI reports the ELF identification's OS/ABI byte.
func (p *Provider) OSABI() elf.OSABI {
	return p.file.OSABI
}
