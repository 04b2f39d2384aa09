// Package schema declares the record shapes accepted by the import
// pipeline: the exact header contract for each CRM export and the mapper
// that turns one tokenized row into a typed record.
//
// A shape is a value, not a base class. The parser in internal/core is
// parameterized over the Shape interface and carries no knowledge of any
// particular export format.
package schema

import (
	"fmt"
	"strings"
)

// Shape describes one kind of CSV export: its required headers and the
// strategy for mapping a positional field list into a typed record.
type Shape[T any] interface {
	// Name identifies the shape in errors and logs.
	Name() string

	// Headers returns the required column names, in canonical order.
	Headers() []string

	// Map converts one tokenized row into a record. The returned error
	// is row-scoped: the caller records it and moves on to the next row.
	Map(fields, headers []string, rowNumber int) (T, error)
}

// FieldRef is a named pointer to one string field of a record, used by
// the sanitizer to visit every field without reflection.
type FieldRef struct {
	Name  string
	Value *string
}

// Sanitizable is implemented by record pointer types whose string fields
// can be visited and rewritten in place.
type Sanitizable interface {
	FieldRefs() []FieldRef
}

// rowLookup builds a trimmed header-name -> field-value map for one row.
// Positions past the end of the field list map to empty strings, which
// makes mapping resilient to header reordering. Missing headers are the
// header contract's problem, not the mapper's.
func rowLookup(fields, headers []string) map[string]string {
	lookup := make(map[string]string, len(headers))
	for i, h := range headers {
		key := strings.TrimSpace(h)
		if i < len(fields) {
			lookup[key] = fields[i]
		} else {
			lookup[key] = ""
		}
	}
	return lookup
}

// checkFieldCount rejects rows whose field count does not match the
// header row.
func checkFieldCount(fields, headers []string) error {
	if len(fields) != len(headers) {
		return fmt.Errorf("expected %d fields, got %d", len(headers), len(fields))
	}
	return nil
}
