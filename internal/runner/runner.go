// Package runner orchestrates the load -> resolve -> output pipeline behind
// the fmtrc commands.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/fmtrc/internal/config"
	"github.com/donaldgifford/fmtrc/internal/options"
	"github.com/donaldgifford/fmtrc/internal/watch"
	"github.com/donaldgifford/fmtrc/pkg/diff"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitDiff  = 1 // effective options differ from the base, or nothing found
	ExitError = 2
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options configures the runner behavior.
type Options struct {
	// Files are the paths to resolve options for. Resolve reads paths from
	// Stdin, one per line, when empty.
	Files []string
	// ConfigPath names the config file. When empty the config is searched
	// for upward from each file's directory.
	ConfigPath string
	// Dir is where Find and Check start searching. Defaults to ".".
	Dir      string
	Format   string
	Defaults bool
	Diff     bool
	Quiet    bool
	Verbose  bool
	NoColor  bool
	Logger   *zap.Logger
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

func (opts *Options) setDefaults() {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}
}

// record is the output shape of one resolved file.
type record struct {
	File    string            `json:"file" yaml:"file"`
	Config  string            `json:"config,omitempty" yaml:"config,omitempty"`
	Options options.OptionSet `json:"options" yaml:"options"`
}

// Resolve prints the effective options of every file and returns an exit
// code. In diff mode it prints base-vs-effective diffs instead and returns
// ExitDiff when any file differs from the base.
func Resolve(opts *Options) int {
	opts.setDefaults()

	files := opts.Files
	if len(files) == 0 {
		var err error
		if files, err = readLines(opts.Stdin); err != nil {
			writeErr(opts.Stderr, "fmtrc: reading stdin: %v\n", err)
			return ExitError
		}
	}

	enc, err := newEncoder(opts.Format, opts.Stdout, colorize(opts))
	if err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}

	cache := newResolverCache(config.NewLoader(opts.Logger), opts.ConfigPath, opts.Logger)

	exitCode := ExitOK
	for _, file := range files {
		code := resolveFile(opts, cache, enc, file)
		if code > exitCode {
			exitCode = code
		}
	}

	if err := enc.close(); err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}
	return exitCode
}

func resolveFile(opts *Options, cache *resolverCache, enc encoder, file string) int {
	r, err := cache.forFile(file)
	if err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}

	// Patterns are relative to the config directory, not the working
	// directory, so match against the absolute path.
	abs, err := filepath.Abs(file)
	if err != nil {
		writeErr(opts.Stderr, "fmtrc: resolving %s: %v\n", file, err)
		return ExitError
	}

	base := r.Base()
	eff, err := r.ForFile(abs)
	if err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}

	if opts.Defaults {
		if base, err = base.WithDefaults(); err == nil {
			eff, err = eff.WithDefaults()
		}
		if err != nil {
			writeErr(opts.Stderr, "fmtrc: %v\n", err)
			return ExitError
		}
	}

	if opts.Verbose {
		writeErr(opts.Stderr, "%s: config %s, overrides %v\n", file, configLabel(r), r.Matching(abs))
	}

	if opts.Diff {
		return writeDiff(opts, r, file, base, eff)
	}

	if err := enc.encode(record{File: file, Config: r.Path(), Options: eff}); err != nil {
		writeErr(opts.Stderr, "fmtrc: writing output: %v\n", err)
		return ExitError
	}
	return ExitOK
}

func writeDiff(opts *Options, r *config.Resolver, file string, base, eff options.OptionSet) int {
	before, err := yaml.Marshal(base)
	if err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}
	after, err := yaml.Marshal(eff)
	if err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}

	d, err := diff.Labeled("base "+configLabel(r), "effective "+file, string(before), string(after))
	if err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}
	if d == "" {
		return ExitOK
	}

	writeOut(opts.Stdout, d)
	return ExitDiff
}

// Check loads and validates the config and reports every problem found.
func Check(opts *Options) int {
	opts.setDefaults()
	loader := config.NewLoader(opts.Logger)

	path := opts.ConfigPath
	if path == "" {
		found, err := loader.Find(opts.Dir)
		if err != nil {
			writeErr(opts.Stderr, "fmtrc: %v\n", err)
			return ExitError
		}
		path = found
	}

	doc, err := loader.Load(path)
	if err != nil {
		var errs options.SchemaErrors
		if errors.As(err, &errs) {
			for _, e := range errs {
				writeErr(opts.Stderr, "%v\n", e)
			}
		} else {
			writeErr(opts.Stderr, "fmtrc: %v\n", err)
		}
		return ExitError
	}

	if !opts.Quiet {
		writeOut(opts.Stdout, fmt.Sprintf("%s: ok (%d overrides)\n", path, len(doc.Overrides)))
	}
	return ExitOK
}

// Find prints the config file that applies to Dir.
func Find(opts *Options) int {
	opts.setDefaults()

	path, err := config.NewLoader(opts.Logger).Find(opts.Dir)
	if errors.Is(err, config.ErrNotFound) {
		if !opts.Quiet {
			writeErr(opts.Stderr, "fmtrc: %v\n", err)
		}
		return ExitDiff
	}
	if err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}

	writeOut(opts.Stdout, path+"\n")
	return ExitOK
}

// optionInfo is the output shape of one schema entry.
type optionInfo struct {
	Name    string   `json:"name" yaml:"name"`
	Kind    string   `json:"kind" yaml:"kind"`
	Values  []string `json:"values,omitempty" yaml:"values,omitempty"`
	Default any      `json:"default" yaml:"default"`
	Doc     string   `json:"description" yaml:"description"`
}

// ListOptions prints the option schema.
func ListOptions(opts *Options) int {
	opts.setDefaults()

	enc, err := newEncoder(opts.Format, opts.Stdout, colorize(opts))
	if err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}

	defaults := options.Defaults()
	infos := make([]optionInfo, 0, len(options.Schema))
	for _, f := range options.Schema {
		def, _ := defaults.Get(f.Name)
		infos = append(infos, optionInfo{
			Name:    f.Name,
			Kind:    f.Kind.String(),
			Values:  f.Enum,
			Default: def,
			Doc:     f.Doc,
		})
	}

	if err := enc.encode(infos); err != nil {
		writeErr(opts.Stderr, "fmtrc: writing output: %v\n", err)
		return ExitError
	}
	if err := enc.close(); err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}
	return ExitOK
}

// Watch prints the effective options of Files, then prints them again after
// every successful reload of the config until ctx is cancelled.
func Watch(ctx context.Context, opts *Options) int {
	opts.setDefaults()
	loader := config.NewLoader(opts.Logger)

	path := opts.ConfigPath
	if path == "" {
		found, err := loader.Find(opts.Dir)
		if err != nil {
			writeErr(opts.Stderr, "fmtrc: %v\n", err)
			return ExitError
		}
		path = found
	}

	w, err := watch.New(path, loader, opts.Logger)
	if err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}

	enc, err := newEncoder(opts.Format, opts.Stdout, colorize(opts))
	if err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		return ExitError
	}

	show := func(r *config.Resolver) {
		cache := &resolverCache{fixed: r}
		for _, file := range opts.Files {
			if code := resolveFile(opts, cache, enc, file); code == ExitError {
				opts.Logger.Warn("resolving file failed", zap.String("file", file), zap.String("config", r.Path()))
			}
		}
	}

	show(w.Current())
	w.OnReload = show

	exitCode := ExitOK
	if err := w.Run(ctx); err != nil {
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		exitCode = ExitError
	}
	if err := enc.close(); err != nil {
		opts.Logger.Error("closing output", zap.Error(err))
		writeErr(opts.Stderr, "fmtrc: %v\n", err)
		exitCode = ExitError
	}
	return exitCode
}

// resolverCache hands out one resolver per config file.
type resolverCache struct {
	loader     *config.Loader
	logger     *zap.Logger
	configPath string

	fixed  *config.Resolver
	byPath map[string]*config.Resolver
	byDir  map[string]string
}

func newResolverCache(loader *config.Loader, configPath string, logger *zap.Logger) *resolverCache {
	return &resolverCache{
		loader:     loader,
		logger:     logger,
		configPath: configPath,
		byPath:     map[string]*config.Resolver{},
		byDir:      map[string]string{},
	}
}

func (c *resolverCache) forFile(file string) (*config.Resolver, error) {
	if c.fixed != nil {
		return c.fixed, nil
	}
	if c.configPath != "" {
		r, err := c.loader.Resolve(c.configPath)
		if err != nil {
			return nil, err
		}
		c.fixed = r
		return r, nil
	}

	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", file, err)
	}
	dir := filepath.Dir(abs)

	path, seen := c.byDir[dir]
	if !seen {
		path, err = c.loader.Find(dir)
		switch {
		case errors.Is(err, config.ErrNotFound):
			c.logger.Warn("no config found, using empty options", zap.String("dir", dir))
			path = ""
		case err != nil:
			return nil, err
		}
		c.byDir[dir] = path
	}

	if r, ok := c.byPath[path]; ok {
		return r, nil
	}

	var r *config.Resolver
	if path == "" {
		r = config.NewResolver(config.Document{}, dir, c.logger)
	} else if r, err = c.loader.Resolve(path); err != nil {
		return nil, err
	}
	c.byPath[path] = r
	return r, nil
}

func configLabel(r *config.Resolver) string {
	if r.Path() == "" {
		return "(none)"
	}
	return r.Path()
}

func colorize(opts *Options) bool {
	if opts.NoColor {
		return false
	}
	f, ok := opts.Stdout.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeOut writes to stdout.
func writeOut(w io.Writer, s string) {
	fmt.Fprint(w, s)
}

// writeErr formats and writes to stderr.
func writeErr(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
