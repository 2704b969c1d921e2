package options

import (
	"fmt"
	"math"
	"strings"
)

// Kind is the value type an option accepts.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindString
	KindEnum
	KindList
)

// String returns the name used in error messages and the options listing.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Field describes one known option.
type Field struct {
	Name string
	Kind Kind
	// Enum lists the accepted values when Kind is KindEnum.
	Enum []string
	Doc  string

	get func(*OptionSet) (any, bool)
	set func(*OptionSet, any)
}

// Schema is the fixed table of known options, in display order.
var Schema = []Field{
	{
		Name: "endOfLine", Kind: KindEnum, Enum: []string{"auto", "lf", "crlf", "cr"},
		Doc: "line ending written by the formatter",
		get: func(s *OptionSet) (any, bool) { return deref(s.EndOfLine) },
		set: func(s *OptionSet, v any) { s.EndOfLine = ptr(EndOfLine(v.(string))) },
	},
	{
		Name: "printWidth", Kind: KindInt,
		Doc: "line length the printer wraps at",
		get: func(s *OptionSet) (any, bool) { return deref(s.PrintWidth) },
		set: func(s *OptionSet, v any) { s.PrintWidth = ptr(v.(int)) },
	},
	{
		Name: "semi", Kind: KindBool,
		Doc: "print semicolons at the ends of statements",
		get: func(s *OptionSet) (any, bool) { return deref(s.Semi) },
		set: func(s *OptionSet, v any) { s.Semi = ptr(v.(bool)) },
	},
	{
		Name: "singleQuote", Kind: KindBool,
		Doc: "use single instead of double quotes",
		get: func(s *OptionSet) (any, bool) { return deref(s.SingleQuote) },
		set: func(s *OptionSet, v any) { s.SingleQuote = ptr(v.(bool)) },
	},
	{
		Name: "tabWidth", Kind: KindInt,
		Doc: "spaces per indentation level",
		get: func(s *OptionSet) (any, bool) { return deref(s.TabWidth) },
		set: func(s *OptionSet, v any) { s.TabWidth = ptr(v.(int)) },
	},
	{
		Name: "useTabs", Kind: KindBool,
		Doc: "indent with tabs instead of spaces",
		get: func(s *OptionSet) (any, bool) { return deref(s.UseTabs) },
		set: func(s *OptionSet, v any) { s.UseTabs = ptr(v.(bool)) },
	},
	{
		Name: "plugins", Kind: KindList,
		Doc: "plugin identifiers, loaded in order",
		get: func(s *OptionSet) (any, bool) {
			if s.Plugins == nil {
				return nil, false
			}
			return "[" + strings.Join(s.Plugins, ",") + "]", true
		},
		set: func(s *OptionSet, v any) { s.Plugins = PluginList(v.([]string)) },
	},
	{
		Name: "parser", Kind: KindString,
		Doc: "parser the formatter uses for the file",
		get: func(s *OptionSet) (any, bool) { return deref(s.Parser) },
		set: func(s *OptionSet, v any) { s.Parser = ptr(v.(string)) },
	},
	{
		Name: "trailingComma", Kind: KindEnum, Enum: []string{"all", "es5", "none"},
		Doc: "where to print trailing commas",
		get: func(s *OptionSet) (any, bool) { return deref(s.TrailingComma) },
		set: func(s *OptionSet, v any) { s.TrailingComma = ptr(TrailingComma(v.(string))) },
	},
	{
		Name: "bracketSpacing", Kind: KindBool,
		Doc: "print spaces between brackets in object literals",
		get: func(s *OptionSet) (any, bool) { return deref(s.BracketSpacing) },
		set: func(s *OptionSet, v any) { s.BracketSpacing = ptr(v.(bool)) },
	},
	{
		Name: "arrowParens", Kind: KindEnum, Enum: []string{"always", "avoid"},
		Doc: "parentheses around a sole arrow function parameter",
		get: func(s *OptionSet) (any, bool) { return deref(s.ArrowParens) },
		set: func(s *OptionSet, v any) { s.ArrowParens = ptr(ArrowParens(v.(string))) },
	},
	{
		Name: "proseWrap", Kind: KindEnum, Enum: []string{"always", "never", "preserve"},
		Doc: "how markdown prose is wrapped",
		get: func(s *OptionSet) (any, bool) { return deref(s.ProseWrap) },
		set: func(s *OptionSet, v any) { s.ProseWrap = ptr(ProseWrap(v.(string))) },
	},
	{
		Name: "quoteProps", Kind: KindEnum, Enum: []string{"as-needed", "consistent", "preserve"},
		Doc: "when object property names are quoted",
		get: func(s *OptionSet) (any, bool) { return deref(s.QuoteProps) },
		set: func(s *OptionSet, v any) { s.QuoteProps = ptr(QuoteProps(v.(string))) },
	},
	{
		Name: "jsxSingleQuote", Kind: KindBool,
		Doc: "use single quotes in JSX",
		get: func(s *OptionSet) (any, bool) { return deref(s.JSXSingleQuote) },
		set: func(s *OptionSet, v any) { s.JSXSingleQuote = ptr(v.(bool)) },
	},
}

var fieldsByName = func() map[string]*Field {
	m := make(map[string]*Field, len(Schema))
	for i := range Schema {
		m[Schema[i].Name] = &Schema[i]
	}
	return m
}()

// Lookup returns the schema entry for name.
func Lookup(name string) (*Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// coerce converts a decoded value to the Go type the field stores. A
// non-empty reason means the value was rejected.
func (f *Field) coerce(v any) (any, string) {
	switch f.Kind {
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return nil, expected("boolean", v)
		}
		return b, ""

	case KindInt:
		n, ok := toInt(v)
		if !ok {
			return nil, expected("integer", v)
		}
		if n <= 0 {
			return nil, "must be a positive integer"
		}
		if n > math.MaxInt32 {
			return nil, fmt.Sprintf("out of range (max %d)", math.MaxInt32)
		}
		return int(n), ""

	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, expected("string", v)
		}
		if s == "" {
			return nil, "must not be empty"
		}
		return s, ""

	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return nil, expected("string", v)
		}
		for _, allowed := range f.Enum {
			if s == allowed {
				return s, ""
			}
		}
		return nil, fmt.Sprintf("must be one of %s", strings.Join(f.Enum, ", "))

	case KindList:
		return coerceList(v)
	}

	return nil, "unsupported option kind"
}

func coerceList(v any) (any, string) {
	var items []any
	switch l := v.(type) {
	case []any:
		items = l
	case []string:
		for _, s := range l {
			items = append(items, s)
		}
	default:
		return nil, expected("list of strings", v)
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Sprintf("item %d: %s", i, expected("string", item))
		}
		if strings.TrimSpace(s) == "" {
			return nil, fmt.Sprintf("item %d: plugin identifier must not be empty", i)
		}
		out = append(out, s)
	}
	return out, ""
}

// toInt accepts any integral number the decoders produce: YAML gives int,
// TOML gives int64, JSON gives float64. Range is checked by the caller.
func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return math.MaxInt64, true
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		switch {
		case n > math.MaxInt32:
			return math.MaxInt32 + 1, true
		case n < math.MinInt32:
			return math.MinInt32 - 1, true
		}
		return int64(n), true
	}
	return 0, false
}

func expected(want string, got any) string {
	return fmt.Sprintf("expected %s, got %s", want, TypeName(got))
}

// TypeName names the decoded type of v the way a config author would.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int, int64, uint64, float64:
		return "number"
	case string:
		return "string"
	case []any, []string:
		return "list"
	case map[string]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func ptr[T any](v T) *T {
	return &v
}

func deref[T any](p *T) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}
