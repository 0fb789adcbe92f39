package backend

import (
	"fmt"

	yamlv2 "gopkg.in/yaml.v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/Manu343726/dwarfkit/pkg/utils"
)

// registerEntry is one name↔number row of an arch descriptor file,
// modeled after RegisterDescriptor (name, description, register-class
// prefix) but flattened to what a descriptor file needs to express per
// register rather than per class.
type registerEntry struct {
	Number      int    `yaml:"number"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// descriptorFile is the current (yaml.v3) arch descriptor schema: an
// architecture name plus its register table, loaded to extend or override
// a built-in Backend's RegisterName table without recompiling dwarfkit.
type descriptorFile struct {
	Arch      string          `yaml:"arch"`
	Registers []registerEntry `yaml:"registers"`
}

// legacyDescriptorFile is the hand-edited schema that predates the
// viper-based config, kept readable via yaml.v2 for backward compatibility.
// Its keys are Architecture, Regs, Num and Name where the current schema has
// arch, registers, number and name, and its rows carry no description.
type legacyDescriptorFile struct {
	Architecture string `yaml:"Architecture"`
	Regs         []struct {
		Num  int    `yaml:"Num"`
		Name string `yaml:"Name"`
	} `yaml:"Regs"`
}

// RegisterTable is a name↔number register table loaded from a descriptor
// file, usable standalone or to extend a Backend's built-in table.
type RegisterTable struct {
	Arch     string
	byNumber map[int]string
	byName   map[string]int
}

// LoadDescriptor parses a current-schema (yaml.v3) descriptor file.
func LoadDescriptor(data []byte) (*RegisterTable, error) {
	var f descriptorFile
	if err := yamlv3.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("backend: parsing descriptor file: %w", err)
	}

	byNumber := make(map[int]string, len(f.Registers))
	for _, r := range f.Registers {
		byNumber[r.Number] = r.Name
	}
	return &RegisterTable{
		Arch:     f.Arch,
		byNumber: byNumber,
		byName:   utils.InvertedMap(byNumber),
	}, nil
}

// LoadLegacyDescriptor parses a pre-viper hand-edited descriptor file,
// kept readable via yaml.v2 the way legacy arch descriptor files on disk
// predate this toolkit's current schema.
func LoadLegacyDescriptor(data []byte) (*RegisterTable, error) {
	var f legacyDescriptorFile
	if err := yamlv2.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("backend: parsing legacy descriptor file: %w", err)
	}

	byNumber := make(map[int]string, len(f.Regs))
	for _, r := range f.Regs {
		byNumber[r.Num] = r.Name
	}
	return &RegisterTable{
		Arch:     f.Architecture,
		byNumber: byNumber,
		byName:   utils.InvertedMap(byNumber),
	}, nil
}

func (t *RegisterTable) RegisterName(num int) (string, bool) {
	name, ok := t.byNumber[num]
	return name, ok
}

func (t *RegisterTable) RegisterNumber(name string) (int, bool) {
	num, ok := t.byName[name]
	return num, ok
}

// Overlay wraps base with t's entries taking precedence, letting a loaded
// descriptor file extend or override a built-in Backend's register names
// without dwarfkit needing to be recompiled for a new target variant.
type Overlay struct {
	Backend
	table *RegisterTable
}

func NewOverlay(base Backend, table *RegisterTable) *Overlay {
	return &Overlay{Backend: base, table: table}
}

func (o *Overlay) RegisterName(num int) (string, bool) {
	if name, ok := o.table.RegisterName(num); ok {
		return name, true
	}
	return o.Backend.RegisterName(num)
}
