// Package options defines the formatter option schema, the typed OptionSet
// and the rules for decoding and merging option sets.
package options

import (
	"fmt"
	"slices"
	"strings"

	"dario.cat/mergo"
)

// EndOfLine is the line ending the formatter writes.
type EndOfLine string

const (
	EndOfLineAuto EndOfLine = "auto"
	EndOfLineLF   EndOfLine = "lf"
	EndOfLineCRLF EndOfLine = "crlf"
	EndOfLineCR   EndOfLine = "cr"
)

// TrailingComma controls where trailing commas are printed.
type TrailingComma string

const (
	TrailingCommaAll  TrailingComma = "all"
	TrailingCommaES5  TrailingComma = "es5"
	TrailingCommaNone TrailingComma = "none"
)

// ArrowParens controls parentheses around a sole arrow function parameter.
type ArrowParens string

const (
	ArrowParensAlways ArrowParens = "always"
	ArrowParensAvoid  ArrowParens = "avoid"
)

// ProseWrap controls markdown prose wrapping.
type ProseWrap string

const (
	ProseWrapAlways   ProseWrap = "always"
	ProseWrapNever    ProseWrap = "never"
	ProseWrapPreserve ProseWrap = "preserve"
)

// QuoteProps controls quoting of object property names.
type QuoteProps string

const (
	QuotePropsAsNeeded   QuoteProps = "as-needed"
	QuotePropsConsistent QuoteProps = "consistent"
	QuotePropsPreserve   QuoteProps = "preserve"
)

// PluginList is an ordered list of plugin identifiers. A nil list means the
// option is unset; an empty, non-nil list explicitly configures no plugins.
type PluginList []string

// IsZero reports whether the list is unset. Both yaml.v3 (omitempty) and
// encoding/json (omitzero) consult it, so an explicit empty list survives
// a round trip.
func (l PluginList) IsZero() bool {
	return l == nil
}

// OptionSet holds formatting options. A nil field is unset.
type OptionSet struct {
	EndOfLine      *EndOfLine     `yaml:"endOfLine,omitempty" json:"endOfLine,omitzero"`
	PrintWidth     *int           `yaml:"printWidth,omitempty" json:"printWidth,omitzero"`
	Semi           *bool          `yaml:"semi,omitempty" json:"semi,omitzero"`
	SingleQuote    *bool          `yaml:"singleQuote,omitempty" json:"singleQuote,omitzero"`
	TabWidth       *int           `yaml:"tabWidth,omitempty" json:"tabWidth,omitzero"`
	UseTabs        *bool          `yaml:"useTabs,omitempty" json:"useTabs,omitzero"`
	Plugins        PluginList     `yaml:"plugins,omitempty" json:"plugins,omitzero"`
	Parser         *string        `yaml:"parser,omitempty" json:"parser,omitzero"`
	TrailingComma  *TrailingComma `yaml:"trailingComma,omitempty" json:"trailingComma,omitzero"`
	BracketSpacing *bool          `yaml:"bracketSpacing,omitempty" json:"bracketSpacing,omitzero"`
	ArrowParens    *ArrowParens   `yaml:"arrowParens,omitempty" json:"arrowParens,omitzero"`
	ProseWrap      *ProseWrap     `yaml:"proseWrap,omitempty" json:"proseWrap,omitzero"`
	QuoteProps     *QuoteProps    `yaml:"quoteProps,omitempty" json:"quoteProps,omitzero"`
	JSXSingleQuote *bool          `yaml:"jsxSingleQuote,omitempty" json:"jsxSingleQuote,omitzero"`
}

// Defaults returns the values a formatter falls back to for unset options.
func Defaults() OptionSet {
	return OptionSet{
		EndOfLine:      ptr(EndOfLineLF),
		PrintWidth:     ptr(80),
		Semi:           ptr(true),
		SingleQuote:    ptr(false),
		TabWidth:       ptr(2),
		UseTabs:        ptr(false),
		TrailingComma:  ptr(TrailingCommaAll),
		BracketSpacing: ptr(true),
		ArrowParens:    ptr(ArrowParensAlways),
		ProseWrap:      ptr(ProseWrapPreserve),
		QuoteProps:     ptr(QuotePropsAsNeeded),
		JSXSingleQuote: ptr(false),
	}
}

// Clone returns a deep copy of s that shares no memory with it.
func (s OptionSet) Clone() OptionSet {
	out := OptionSet{
		EndOfLine:      clonePtr(s.EndOfLine),
		PrintWidth:     clonePtr(s.PrintWidth),
		Semi:           clonePtr(s.Semi),
		SingleQuote:    clonePtr(s.SingleQuote),
		TabWidth:       clonePtr(s.TabWidth),
		UseTabs:        clonePtr(s.UseTabs),
		Parser:         clonePtr(s.Parser),
		TrailingComma:  clonePtr(s.TrailingComma),
		BracketSpacing: clonePtr(s.BracketSpacing),
		ArrowParens:    clonePtr(s.ArrowParens),
		ProseWrap:      clonePtr(s.ProseWrap),
		QuoteProps:     clonePtr(s.QuoteProps),
		JSXSingleQuote: clonePtr(s.JSXSingleQuote),
	}
	if s.Plugins != nil {
		out.Plugins = slices.Clone(s.Plugins)
	}
	return out
}

// Merge returns a copy of s with every option set in overlay applied on
// top of it. Neither s nor overlay is modified.
func (s OptionSet) Merge(overlay OptionSet) (OptionSet, error) {
	out := s.Clone()
	if err := mergo.Merge(&out, overlay.Clone(), mergo.WithOverride, mergo.WithoutDereference); err != nil {
		return OptionSet{}, fmt.Errorf("merging options: %w", err)
	}
	// mergo treats an empty slice as unset; an explicit empty plugin list
	// still has to clear the base plugins.
	if overlay.Plugins != nil && len(overlay.Plugins) == 0 {
		out.Plugins = PluginList{}
	}
	return out, nil
}

// WithDefaults fills every unset option of s from Defaults.
func (s OptionSet) WithDefaults() (OptionSet, error) {
	return Defaults().Merge(s)
}

// IsEmpty reports whether no option is set.
func (s OptionSet) IsEmpty() bool {
	for i := range Schema {
		if _, ok := Schema[i].get(&s); ok {
			return false
		}
	}
	return true
}

// Get returns the value of the named option and whether it is set.
func (s OptionSet) Get(name string) (any, bool) {
	f, ok := Lookup(name)
	if !ok {
		return nil, false
	}
	return f.get(&s)
}

// String renders the set options as space separated name=value pairs in
// schema order.
func (s OptionSet) String() string {
	var parts []string
	for i := range Schema {
		v, ok := Schema[i].get(&s)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", Schema[i].Name, v))
	}
	return strings.Join(parts, " ")
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
