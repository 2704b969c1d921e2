package options

import (
	"fmt"
	"strings"
)

// SchemaError reports a well-formed document field that the schema rejects:
// an unknown option, a value of the wrong type, or a violated constraint.
type SchemaError struct {
	// File is the config file the field came from, if known.
	File string
	// Field is the path to the field, e.g. "overrides[0].options.tabWidth".
	Field string
	// Reason describes what is wrong.
	Reason string
	// Value is the rejected value.
	Value any
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("schema error in %s: %s: %s", e.File, e.Field, e.Reason)
	}
	return fmt.Sprintf("schema error: %s: %s", e.Field, e.Reason)
}

// SchemaErrors collects every schema problem found in one document.
type SchemaErrors []*SchemaError

// Error implements the error interface.
func (e SchemaErrors) Error() string {
	switch len(e) {
	case 0:
		return "no schema errors"
	case 1:
		return e[0].Error()
	}

	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%d schema errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// Unwrap lets errors.As reach each *SchemaError.
func (e SchemaErrors) Unwrap() []error {
	out := make([]error, len(e))
	for i, err := range e {
		out[i] = err
	}
	return out
}

// Add records a problem with field.
func (e *SchemaErrors) Add(field, reason string, value any) {
	*e = append(*e, &SchemaError{Field: field, Reason: reason, Value: value})
}

// InFile stamps file onto every collected error.
func (e SchemaErrors) InFile(file string) SchemaErrors {
	for _, err := range e {
		err.File = file
	}
	return e
}

// Err returns e as an error, or nil when nothing was collected.
func (e SchemaErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
