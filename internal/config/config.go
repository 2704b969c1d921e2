// Package config loads formatter configuration files, validates them
// against the option schema and resolves the effective options for a file.
package config

import (
	"github.com/donaldgifford/fmtrc/internal/options"
)

// Document is a loaded configuration file: base options plus ordered
// override rules.
type Document struct {
	// Path is the file the document was read from. Empty for documents
	// decoded from memory.
	Path string `yaml:"-" json:"-"`

	options.OptionSet `yaml:",inline"`

	Overrides []Override `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// Override applies Options to files matching any pattern in Files and none
// in ExcludeFiles. Later overrides win over earlier ones.
type Override struct {
	Files        []string          `yaml:"files" json:"files"`
	ExcludeFiles []string          `yaml:"excludeFiles,omitempty" json:"excludeFiles,omitempty"`
	Options      options.OptionSet `yaml:"options" json:"options"`
}

// SchemaError is returned when a well-formed document contains an unknown
// key, a value of the wrong type or a value outside its allowed range.
type SchemaError = options.SchemaError
