// Package diff renders unified diffs between two texts.
package diff

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

// Unified generates a unified diff between oldText and newText with the
// conventional a/ and b/ prefixes on filename. Returns an empty string if
// the inputs are identical.
func Unified(filename, oldText, newText string) (string, error) {
	return Labeled("a/"+filename, "b/"+filename, oldText, newText)
}

// Labeled generates a unified diff whose headers name the two sides
// fromLabel and toLabel.
func Labeled(fromLabel, toLabel, oldText, newText string) (string, error) {
	if oldText == newText {
		return "", nil
	}

	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(oldText),
		B:        splitLines(newText),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  contextLines,
	})
	if err != nil {
		return "", fmt.Errorf("rendering diff: %w", err)
	}
	return out, nil
}

// splitLines splits text into newline-terminated lines. An empty string
// produces zero lines; a missing final newline is added so the last line
// renders on its own.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	// SplitAfter leaves an empty trailing element when s ends with \n.
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if last := lines[len(lines)-1]; !strings.HasSuffix(last, "\n") {
		lines[len(lines)-1] = last + "\n"
	}
	return lines
}
