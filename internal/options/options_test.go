package options

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDecodeAllKinds(t *testing.T) {
	raw := map[string]any{
		"endOfLine":      "auto",
		"printWidth":     100,
		"semi":           true,
		"singleQuote":    false,
		"tabWidth":       int64(2),
		"useTabs":        true,
		"plugins":        []any{"prettier-plugin-astro", "prettier-plugin-tailwindcss"},
		"parser":         "astro",
		"trailingComma":  "es5",
		"bracketSpacing": false,
		"arrowParens":    "avoid",
		"proseWrap":      "never",
		"quoteProps":     "consistent",
		"jsxSingleQuote": true,
	}

	got, errs := Decode(raw, "")
	require.Empty(t, errs)

	want := OptionSet{
		EndOfLine:      ptr(EndOfLineAuto),
		PrintWidth:     ptr(100),
		Semi:           ptr(true),
		SingleQuote:    ptr(false),
		TabWidth:       ptr(2),
		UseTabs:        ptr(true),
		Plugins:        PluginList{"prettier-plugin-astro", "prettier-plugin-tailwindcss"},
		Parser:         ptr("astro"),
		TrailingComma:  ptr(TrailingCommaES5),
		BracketSpacing: ptr(false),
		ArrowParens:    ptr(ArrowParensAvoid),
		ProseWrap:      ptr(ProseWrapNever),
		QuoteProps:     ptr(QuotePropsConsistent),
		JSXSingleQuote: ptr(true),
	}
	assert.Equal(t, want, got)
}

func TestDecodeJSONNumbers(t *testing.T) {
	got, errs := Decode(map[string]any{"printWidth": float64(120)}, "")
	require.Empty(t, errs)
	require.NotNil(t, got.PrintWidth)
	assert.Equal(t, 120, *got.PrintWidth)
}

func TestDecodeEmptyPlugins(t *testing.T) {
	got, errs := Decode(map[string]any{"plugins": []any{}}, "")
	require.Empty(t, errs)
	assert.NotNil(t, got.Plugins)
	assert.Empty(t, got.Plugins)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  any
		reason string
	}{
		{"unknown key", "indentStyle", "tab", "unknown option"},
		{"bool given string", "semi", "yes", "expected boolean, got string"},
		{"bool given null", "useTabs", nil, "expected boolean, got null"},
		{"int given string", "tabWidth", "4", "expected integer, got string"},
		{"int given fraction", "printWidth", 80.5, "expected integer, got number"},
		{"int zero", "tabWidth", 0, "must be a positive integer"},
		{"int negative", "printWidth", -1, "must be a positive integer"},
		{"int out of range", "printWidth", 3000000000, "out of range (max 2147483647)"},
		{"int64 out of range", "printWidth", int64(3000000000), "out of range (max 2147483647)"},
		{"float out of range", "printWidth", float64(3000000000), "out of range (max 2147483647)"},
		{"uint64 out of range", "tabWidth", uint64(1 << 63), "out of range (max 2147483647)"},
		{"enum unknown", "endOfLine", "unix", "must be one of auto, lf, crlf, cr"},
		{"enum given bool", "endOfLine", true, "expected string, got boolean"},
		{"empty parser", "parser", "", "must not be empty"},
		{"plugins not list", "plugins", "prettier-plugin-astro", "expected list of strings, got string"},
		{"empty plugin", "plugins", []any{"a", ""}, "item 1: plugin identifier must not be empty"},
		{"non-string plugin", "plugins", []any{3}, "item 0: expected string, got number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Decode(map[string]any{tt.key: tt.value}, "overrides[0].options")
			require.Len(t, errs, 1)
			assert.Equal(t, "overrides[0].options."+tt.key, errs[0].Field)
			assert.Equal(t, tt.reason, errs[0].Reason)
			assert.Equal(t, tt.value, errs[0].Value)
		})
	}
}

func TestDecodeCollectsAllErrorsInKeyOrder(t *testing.T) {
	_, errs := Decode(map[string]any{
		"useTabs":  "no",
		"bogus":    1,
		"tabWidth": 4,
	}, "")
	require.Len(t, errs, 2)
	assert.Equal(t, "bogus", errs[0].Field)
	assert.Equal(t, "useTabs", errs[1].Field)

	err := errs.InFile("/tmp/.prettierrc").Err()
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "/tmp/.prettierrc", se.File)
	assert.Contains(t, err.Error(), "2 schema errors")
}

func TestSchemaErrorsErrNil(t *testing.T) {
	var errs SchemaErrors
	assert.NoError(t, errs.Err())
}

func TestMergeLaterWins(t *testing.T) {
	base := OptionSet{TabWidth: ptr(2), UseTabs: ptr(true), Semi: ptr(true)}
	overlay := OptionSet{TabWidth: ptr(4), Semi: ptr(false)}

	got, err := base.Merge(overlay)
	require.NoError(t, err)

	assert.Equal(t, 4, *got.TabWidth)
	assert.True(t, *got.UseTabs)
	assert.False(t, *got.Semi, "false in the overlay must override true")

	// Inputs are untouched.
	assert.Equal(t, 2, *base.TabWidth)
	assert.True(t, *base.Semi)
}

func TestMergeResultIsIndependent(t *testing.T) {
	base := OptionSet{TabWidth: ptr(2), Plugins: PluginList{"a"}}
	overlay := OptionSet{PrintWidth: ptr(100)}

	got, err := base.Merge(overlay)
	require.NoError(t, err)

	*got.TabWidth = 8
	*got.PrintWidth = 1
	got.Plugins[0] = "changed"

	assert.Equal(t, 2, *base.TabWidth)
	assert.Equal(t, 100, *overlay.PrintWidth)
	assert.Equal(t, PluginList{"a"}, base.Plugins)
}

func TestMergePlugins(t *testing.T) {
	base := OptionSet{Plugins: PluginList{"a", "b"}}

	replaced, err := base.Merge(OptionSet{Plugins: PluginList{"c"}})
	require.NoError(t, err)
	assert.Equal(t, PluginList{"c"}, replaced.Plugins)

	kept, err := base.Merge(OptionSet{})
	require.NoError(t, err)
	assert.Equal(t, PluginList{"a", "b"}, kept.Plugins)

	cleared, err := base.Merge(OptionSet{Plugins: PluginList{}})
	require.NoError(t, err)
	assert.NotNil(t, cleared.Plugins)
	assert.Empty(t, cleared.Plugins)
}

func TestWithDefaults(t *testing.T) {
	got, err := OptionSet{TabWidth: ptr(4), UseTabs: ptr(true)}.WithDefaults()
	require.NoError(t, err)

	assert.Equal(t, 4, *got.TabWidth)
	assert.True(t, *got.UseTabs)
	assert.Equal(t, 80, *got.PrintWidth)
	assert.Equal(t, EndOfLineLF, *got.EndOfLine)
	assert.Nil(t, got.Plugins)
	assert.Nil(t, got.Parser)
}

func TestString(t *testing.T) {
	s := OptionSet{
		UseTabs:   ptr(true),
		TabWidth:  ptr(4),
		EndOfLine: ptr(EndOfLineCRLF),
		Plugins:   PluginList{"a", "b"},
	}
	assert.Equal(t, "endOfLine=crlf tabWidth=4 useTabs=true plugins=[a,b]", s.String())
	assert.Equal(t, "", OptionSet{}.String())
	assert.Equal(t, "plugins=[]", OptionSet{Plugins: PluginList{}}.String())
}

func TestGetAndIsEmpty(t *testing.T) {
	assert.True(t, OptionSet{}.IsEmpty())

	s := OptionSet{Parser: ptr("astro")}
	assert.False(t, s.IsEmpty())

	v, ok := s.Get("parser")
	assert.True(t, ok)
	assert.Equal(t, "astro", v)

	_, ok = s.Get("tabWidth")
	assert.False(t, ok)
	_, ok = s.Get("nope")
	assert.False(t, ok)
}

func fullSet() OptionSet {
	s, _ := OptionSet{
		Plugins: PluginList{"prettier-plugin-astro"},
		Parser:  ptr("astro"),
	}.WithDefaults()
	return s
}

func TestYAMLRoundTrip(t *testing.T) {
	for name, in := range map[string]OptionSet{
		"full":          fullSet(),
		"sparse":        {TabWidth: ptr(4)},
		"empty plugins": {Plugins: PluginList{}},
		"empty":         {},
	} {
		t.Run(name, func(t *testing.T) {
			data, err := yaml.Marshal(in)
			require.NoError(t, err)

			var raw map[string]any
			require.NoError(t, yaml.Unmarshal(data, &raw))

			out, errs := Decode(raw, "")
			require.Empty(t, errs)
			assert.Equal(t, in, out)
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := fullSet()

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))

	out, errs := Decode(raw, "")
	require.Empty(t, errs)
	assert.Equal(t, in, out)
}

func TestSchemaNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range Schema {
		assert.False(t, seen[f.Name], "duplicate option %s", f.Name)
		seen[f.Name] = true

		got, ok := Lookup(f.Name)
		require.True(t, ok)
		assert.Equal(t, f.Name, got.Name)
		if f.Kind == KindEnum {
			assert.NotEmpty(t, f.Enum, "enum %s has no values", f.Name)
		}
	}
}
