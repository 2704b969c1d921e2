package options

import (
	"maps"
	"slices"
)

// Decode builds an OptionSet from a generic mapping as produced by the YAML,
// TOML or JSON decoders. Unknown keys are rejected. prefix is prepended to
// field paths in the returned errors. Keys are visited in sorted order so
// errors come back in a stable order.
func Decode(raw map[string]any, prefix string) (OptionSet, SchemaErrors) {
	var (
		set  OptionSet
		errs SchemaErrors
	)

	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := raw[key]
		field := FieldPath(prefix, key)

		f, ok := Lookup(key)
		if !ok {
			errs.Add(field, "unknown option", value)
			continue
		}

		v, reason := f.coerce(value)
		if reason != "" {
			errs.Add(field, reason, value)
			continue
		}
		f.set(&set, v)
	}

	return set, errs
}

// FieldPath joins a parent path and a key with a dot.
func FieldPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
