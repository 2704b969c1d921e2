package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrNotFound is returned when no config file exists in the searched
	// directories.
	ErrNotFound = errors.New("config file not found")

	// ErrUnsupportedFormat is returned for config files fmtrc cannot read,
	// such as JavaScript modules.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrNoPrettierKey is returned when a package.json has no "prettier"
	// key.
	ErrNoPrettierKey = errors.New(`package.json has no "prettier" key`)
)

// ParseError is returned when a config file is not well-formed.
type ParseError struct {
	// Path is the file that failed to parse.
	Path string
	// Format is the format the file was read as.
	Format Format
	// Line is the 1-based line of the error, or 0 if unknown.
	Line int
	// Err is the decoder's error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s (%s) at line %d: %v", e.Path, e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("parse error in %s (%s): %v", e.Path, e.Format, e.Err)
}

// Unwrap returns the decoder's error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func newParseError(path string, format Format, err error) *ParseError {
	pe := &ParseError{Path: path, Format: format, Err: err}

	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		pe.Line, _ = derr.Position()
		return pe
	}

	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
	}
	return pe
}
