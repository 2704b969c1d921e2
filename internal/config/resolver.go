package config

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/donaldgifford/fmtrc/internal/options"
)

// Resolver answers which options apply to a file. It never changes after
// construction, so ForFile is safe for concurrent use.
type Resolver struct {
	doc    Document
	dir    string
	logger *zap.Logger
}

// NewResolver returns a Resolver for doc. dir is the directory override
// patterns containing a slash are relative to; it is normally the config
// file's directory.
func NewResolver(doc Document, dir string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	overrides := make([]Override, len(doc.Overrides))
	for i, o := range doc.Overrides {
		overrides[i] = Override{
			Files:        append([]string(nil), o.Files...),
			ExcludeFiles: append([]string(nil), o.ExcludeFiles...),
			Options:      o.Options.Clone(),
		}
	}

	return &Resolver{
		doc: Document{
			Path:      doc.Path,
			OptionSet: doc.OptionSet.Clone(),
			Overrides: overrides,
		},
		dir:    dir,
		logger: logger,
	}
}

// Path returns the config file the resolver was built from.
func (r *Resolver) Path() string {
	return r.doc.Path
}

// Base returns a copy of the options set outside any override.
func (r *Resolver) Base() options.OptionSet {
	return r.doc.OptionSet.Clone()
}

// Overrides returns the number of override rules.
func (r *Resolver) Overrides() int {
	return len(r.doc.Overrides)
}

// Matching returns the indexes of the overrides that apply to file, in the
// order they are applied.
func (r *Resolver) Matching(file string) []int {
	rel := r.relative(file)

	var idx []int
	for i := range r.doc.Overrides {
		if r.doc.Overrides[i].Matches(rel) {
			idx = append(idx, i)
		}
	}
	return idx
}

// ForFile returns the effective options for file: the base options with
// every matching override applied in order, later overrides winning. The
// returned set is a fresh copy owned by the caller.
func (r *Resolver) ForFile(file string) (options.OptionSet, error) {
	out := r.doc.OptionSet.Clone()

	for _, i := range r.Matching(file) {
		merged, err := out.Merge(r.doc.Overrides[i].Options)
		if err != nil {
			return options.OptionSet{}, fmt.Errorf("applying overrides[%d] to %s: %w", i, file, err)
		}
		out = merged
		r.logger.Debug("override applied",
			zap.String("file", file),
			zap.Int("override", i),
			zap.Strings("files", r.doc.Overrides[i].Files),
		)
	}

	return out, nil
}

// relative converts file to the slash-separated form patterns are matched
// against. Absolute paths are made relative to the resolver's directory.
func (r *Resolver) relative(file string) string {
	if filepath.IsAbs(file) && r.dir != "" {
		if rel, err := filepath.Rel(r.dir, file); err == nil {
			file = rel
		}
	}
	return filepath.ToSlash(filepath.Clean(file))
}

// Matches reports whether the override applies to rel, a slash-separated
// path relative to the config directory. Patterns without a slash match
// the base name only.
func (o Override) Matches(rel string) bool {
	return matchAny(o.Files, rel) && !matchAny(o.ExcludeFiles, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		target := rel
		if !strings.Contains(p, "/") {
			target = path.Base(rel)
		}
		// Patterns were validated when the document was decoded.
		if ok, _ := doublestar.Match(strings.TrimPrefix(p, "./"), target); ok {
			return true
		}
	}
	return false
}
