package runner

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

// encoder writes a stream of values in the selected output format.
type encoder interface {
	encode(v any) error
	close() error
}

func newEncoder(format string, w io.Writer, color bool) (encoder, error) {
	switch format {
	case FormatJSON:
		return &jsonEncoder{w: w, color: color}, nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return &yamlEncoder{enc: enc}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatJSON, FormatYAML)
	}
}

// jsonEncoder writes one indented JSON document per value, coloured when
// the output is a terminal.
type jsonEncoder struct {
	w     io.Writer
	color bool
}

func (e *jsonEncoder) encode(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	out := pretty.Pretty(data)
	if e.color {
		out = pretty.Color(out, nil)
	}
	_, err = e.w.Write(out)
	return err
}

func (e *jsonEncoder) close() error { return nil }

// yamlEncoder writes a YAML stream with one document per value.
type yamlEncoder struct {
	enc *yaml.Encoder
}

func (e *yamlEncoder) encode(v any) error {
	if err := e.enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return nil
}

func (e *yamlEncoder) close() error {
	return e.enc.Close()
}

// readLines returns the non-blank lines of r, trimmed.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}
