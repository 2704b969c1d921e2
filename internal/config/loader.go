package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// configFileNames is the ordered list of config file names to search for.
var configFileNames = []string{
	".prettierrc",
	".prettierrc.json",
	".prettierrc.yaml",
	".prettierrc.yml",
	".prettierrc.toml",
	".fmtrc",
	".fmtrc.json",
	".fmtrc.yaml",
	".fmtrc.yml",
	".fmtrc.toml",
	"package.json",
}

// Loader reads and resolves config files, logging what it finds.
type Loader struct {
	logger *zap.Logger
}

// NewLoader returns a Loader that logs to logger. A nil logger discards
// output.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

var defaultLoader = NewLoader(nil)

// Discover returns the path of the first config file found in dir,
// following the standard search order. A package.json only counts when it
// carries a "prettier" key. It returns an empty string if no config file
// is found.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		if name == "package.json" && !hasPackageKey(path) {
			continue
		}
		return path
	}
	return ""
}

func hasPackageKey(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil || !gjson.ValidBytes(data) {
		return false
	}
	return gjson.GetBytes(data, packageKey).Exists()
}

// Find walks from dir up to the filesystem root and returns the first
// config file discovered. It returns ErrNotFound if there is none.
func Find(dir string) (string, error) {
	return defaultLoader.Find(dir)
}

// Load reads and validates the config file at path.
func Load(path string) (*Document, error) {
	return defaultLoader.Load(path)
}

// LoadBytes validates config data held in memory. name selects the format
// the same way a file name does.
func LoadBytes(name string, data []byte) (*Document, error) {
	return defaultLoader.LoadBytes(name, data)
}

// Resolve loads the config file at path and returns a Resolver for it. An
// empty path searches upward from the working directory.
func Resolve(path string) (*Resolver, error) {
	return defaultLoader.Resolve(path)
}

// Find walks from dir up to the filesystem root and returns the first
// config file discovered.
func (l *Loader) Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory %s: %w", dir, err)
	}

	for d := abs; ; {
		if path := Discover(d); path != "" {
			l.logger.Debug("config discovered", zap.String("dir", abs), zap.String("path", path))
			return path, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}

	return "", fmt.Errorf("%w (searched from %s)", ErrNotFound, abs)
}

// Load reads and validates the config file at path. It fails with a
// *ParseError when the file is not well-formed and with errors wrapping
// *SchemaError when a field is invalid.
func (l *Loader) Load(path string) (*Document, error) {
	if _, err := DetectFormat(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	doc, err := l.LoadBytes(path, data)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("config loaded",
		zap.String("path", path),
		zap.Stringer("options", doc.OptionSet),
		zap.Int("overrides", len(doc.Overrides)),
	)
	return doc, nil
}

// LoadBytes validates config data held in memory.
func (l *Loader) LoadBytes(name string, data []byte) (*Document, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	raw, err := decodeRaw(name, format, data)
	if err != nil {
		return nil, err
	}

	doc, errs := buildDocument(raw)
	if err := errs.InFile(name).Err(); err != nil {
		return nil, err
	}

	doc.Path = name
	return &doc, nil
}

// Resolve loads the config file at path and returns a Resolver for it. An
// empty path searches upward from the working directory.
func (l *Loader) Resolve(path string) (*Resolver, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		path, err = l.Find(wd)
		if err != nil {
			return nil, err
		}
	}

	doc, err := l.Load(path)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path %s: %w", path, err)
	}

	return NewResolver(*doc, filepath.Dir(abs), l.logger), nil
}
