package config

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/fmtrc/internal/options"
)

// Format is the data format of a config file.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatTOML
	FormatPackageJSON
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	case FormatPackageJSON:
		return "package.json"
	default:
		return "unknown"
	}
}

// packageKey is the package.json key holding the configuration.
const packageKey = "prettier"

// DetectFormat picks the decoder for a config file from its name.
// Extension-less rc files are YAML, which also accepts JSON.
func DetectFormat(name string) (Format, error) {
	base := filepath.Base(name)
	if base == "package.json" {
		return FormatPackageJSON, nil
	}

	switch ext := strings.ToLower(filepath.Ext(base)); {
	case base == ".prettierrc", base == ".fmtrc", ext == "":
		return FormatYAML, nil
	case ext == ".yaml", ext == ".yml":
		return FormatYAML, nil
	case ext == ".json":
		return FormatJSON, nil
	case ext == ".toml":
		return FormatTOML, nil
	case ext == ".js", ext == ".cjs", ext == ".mjs", ext == ".ts":
		return 0, fmt.Errorf("%w: %s: JavaScript configs are not supported", ErrUnsupportedFormat, name)
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// decodeRaw turns file contents into a generic mapping.
func decodeRaw(name string, format Format, data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	var raw map[string]any
	switch format {
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, newParseError(name, format, err)
		}
		// A comment-only file has no content node.
		if len(doc.Content) == 0 {
			break
		}
		if root := doc.Content[0]; root.Kind != yaml.MappingNode {
			return nil, newParseError(name, format,
				fmt.Errorf("line %d: top level must be a mapping", root.Line))
		}
		if err := doc.Decode(&raw); err != nil {
			return nil, newParseError(name, format, err)
		}

	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, newParseError(name, format, err)
		}

	case FormatJSON:
		m, err := jsonObject(gjsonParse(data), "top level")
		if err != nil {
			return nil, newParseError(name, format, err)
		}
		raw = m

	case FormatPackageJSON:
		root := gjsonParse(data)
		if !root.Exists() {
			return nil, newParseError(name, format, errors.New("invalid JSON"))
		}
		if !root.IsObject() {
			return nil, newParseError(name, format, errors.New("top level must be an object"))
		}
		section := root.Get(packageKey)
		if !section.Exists() {
			return nil, fmt.Errorf("%s: %w", name, ErrNoPrettierKey)
		}
		if section.Type == gjson.String {
			return nil, options.SchemaErrors{{
				File: name, Field: packageKey, Reason: "shared config references are not supported", Value: section.String(),
			}}
		}
		m, err := jsonObject(section, packageKey)
		if err != nil {
			return nil, options.SchemaErrors{{
				File: name, Field: packageKey, Reason: err.Error(), Value: section.Value(),
			}}
		}
		raw = m
	}

	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// gjsonParse returns the parsed document, or a zero Result when data is not
// valid JSON.
func gjsonParse(data []byte) gjson.Result {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}
	}
	return gjson.ParseBytes(data)
}

func jsonObject(r gjson.Result, what string) (map[string]any, error) {
	if !r.Exists() {
		return nil, errors.New("invalid JSON")
	}
	m, ok := r.Value().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object", what)
	}
	return m, nil
}

// Keys the document accepts besides the options themselves.
const (
	keyOverrides = "overrides"
	// keySchema is editor metadata ("$schema": "...") and is ignored.
	keySchema = "$schema"
)

// buildDocument validates a generic mapping and converts it to a Document.
func buildDocument(raw map[string]any) (Document, options.SchemaErrors) {
	base := make(map[string]any, len(raw))
	for k, v := range raw {
		if k == keyOverrides || k == keySchema {
			continue
		}
		base[k] = v
	}

	var doc Document
	var errs options.SchemaErrors
	doc.OptionSet, errs = options.Decode(base, "")

	if v, ok := raw[keyOverrides]; ok {
		overrides, oerrs := decodeOverrides(v)
		doc.Overrides = overrides
		errs = append(errs, oerrs...)
	}

	return doc, errs
}

func decodeOverrides(v any) ([]Override, options.SchemaErrors) {
	var errs options.SchemaErrors

	items, ok := v.([]any)
	if !ok {
		errs.Add(keyOverrides, "expected list, got "+options.TypeName(v), v)
		return nil, errs
	}

	overrides := make([]Override, 0, len(items))
	for i, item := range items {
		field := fmt.Sprintf("%s[%d]", keyOverrides, i)

		m, ok := item.(map[string]any)
		if !ok {
			errs.Add(field, "expected mapping, got "+options.TypeName(item), item)
			continue
		}

		o, oerrs := decodeOverride(m, field)
		errs = append(errs, oerrs...)
		overrides = append(overrides, o)
	}

	return overrides, errs
}

func decodeOverride(m map[string]any, field string) (Override, options.SchemaErrors) {
	var (
		o    Override
		errs options.SchemaErrors
	)

	for _, k := range slices.Sorted(maps.Keys(m)) {
		v := m[k]
		switch k {
		case "files", "excludeFiles", "options":
		default:
			errs.Add(options.FieldPath(field, k), "unknown override key", v)
		}
	}

	files, ok := m["files"]
	if !ok {
		errs.Add(options.FieldPath(field, "files"), "is required", nil)
	} else {
		o.Files = decodePatterns(files, options.FieldPath(field, "files"), true, &errs)
	}

	if excl, ok := m["excludeFiles"]; ok {
		o.ExcludeFiles = decodePatterns(excl, options.FieldPath(field, "excludeFiles"), false, &errs)
	}

	if opts, ok := m["options"]; ok {
		optField := options.FieldPath(field, "options")
		om, isMap := opts.(map[string]any)
		switch {
		case opts == nil:
		case !isMap:
			errs.Add(optField, "expected mapping, got "+options.TypeName(opts), opts)
		default:
			set, oerrs := options.Decode(om, optField)
			o.Options = set
			errs = append(errs, oerrs...)
		}
	}

	return o, errs
}

// decodePatterns accepts a single pattern or a list of patterns. Every
// pattern must be a non-empty, valid glob.
func decodePatterns(v any, field string, required bool, errs *options.SchemaErrors) []string {
	var items []any
	itemField := func(i int) string { return fmt.Sprintf("%s[%d]", field, i) }
	switch p := v.(type) {
	case string:
		items = []any{p}
		itemField = func(int) string { return field }
	case []any:
		items = p
	default:
		errs.Add(field, "expected string or list of strings, got "+options.TypeName(v), v)
		return nil
	}

	if required && len(items) == 0 {
		errs.Add(field, "must list at least one pattern", v)
		return nil
	}

	patterns := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		switch {
		case !ok:
			errs.Add(itemField(i), "expected string, got "+options.TypeName(item), item)
		case strings.TrimSpace(s) == "":
			errs.Add(itemField(i), "pattern must not be empty", s)
		case !doublestar.ValidatePattern(s):
			errs.Add(itemField(i), "invalid glob pattern", s)
		default:
			patterns = append(patterns, s)
		}
	}
	if len(patterns) == 0 {
		return nil
	}
	return patterns
}
