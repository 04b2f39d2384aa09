// Package core implements the CSV ingestion pipeline: shape-parameterized
// parsing, strict/lenient field validation, and input sanitization. The
// package performs no I/O and has no UI dependencies.
package core

import (
	"fmt"
	"strings"
)

// ParseErrorCode classifies a parse failure.
type ParseErrorCode string

const (
	// Structural codes: these halt the entire parse.
	CodeEmptyFile       ParseErrorCode = "EMPTY_FILE"
	CodeInvalidHeaders  ParseErrorCode = "INVALID_HEADERS"
	CodeInvalidEncoding ParseErrorCode = "INVALID_ENCODING"

	// Row-level code: recorded per row, never aborts the batch.
	CodeMalformedRow ParseErrorCode = "MALFORMED_ROW"
)

// ParseError describes one parse failure, structural or row-level.
// Row is 1-based; structural errors about the whole file use row 0.
type ParseError struct {
	Row     int            `json:"row"`
	Column  string         `json:"column,omitempty"`
	Message string         `json:"message"`
	Code    ParseErrorCode `json:"code"`
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s", e.Row, e.Message)
	}
	return e.Message
}

// ParseResult is the outcome of parsing one file for one shape.
// SuccessfulRows always equals len(Records); TotalRows counts data rows
// excluding the header and blank lines.
type ParseResult[T any] struct {
	Records        []T          `json:"records"`
	Errors         []ParseError `json:"errors"`
	TotalRows      int          `json:"totalRows"`
	SuccessfulRows int          `json:"successfulRows"`
}

// Mode selects the validation policy for a batch run. It is passed
// explicitly through every call; nothing in this package holds it as
// mutable state.
type Mode string

const (
	// ModeStrict rejects a record outright on any validation error.
	ModeStrict Mode = "strict"

	// ModeLenient records errors but keeps the record, applying defaults
	// to empty optional fields.
	ModeLenient Mode = "lenient"
)

// ParseMode converts a user-supplied mode string, defaulting empty input
// to strict.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeStrict):
		return ModeStrict, nil
	case string(ModeLenient):
		return ModeLenient, nil
	default:
		return "", fmt.Errorf("invalid validation mode %q", s)
	}
}

// ValidationCode classifies a field-level validation error.
type ValidationCode string

const (
	CodeMissingCustomerID    ValidationCode = "MISSING_CUSTOMER_ID"
	CodeMissingAccountOwner  ValidationCode = "MISSING_ACCOUNT_OWNER"
	CodeMissingStatus        ValidationCode = "MISSING_STATUS"
	CodeMissingAccountType   ValidationCode = "MISSING_ACCOUNT_TYPE"
	CodeMissingCreatedDate   ValidationCode = "MISSING_CREATED_DATE"
	CodeInvalidDateFormat    ValidationCode = "INVALID_DATE_FORMAT"
	CodeInvalidNumber        ValidationCode = "INVALID_NUMBER"
	CodeInvalidStatus        ValidationCode = "INVALID_STATUS"
	CodeInvalidAccountType   ValidationCode = "INVALID_ACCOUNT_TYPE"
	CodeInvalidMRR           ValidationCode = "INVALID_MRR"
)

// ValidationError describes one failed field check on one record.
type ValidationError struct {
	RowNumber int            `json:"rowNumber"`
	Field     string         `json:"field"`
	Value     string         `json:"value"`
	Message   string         `json:"message"`
	Code      ValidationCode `json:"code"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("row %d, %s: %s", e.RowNumber, e.Field, e.Message)
}

// ValidationErrors is the strict-mode rejection payload: the full list of
// errors for a record that produced nothing usable.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Message
	}
	return fmt.Sprintf("%d validation error(s): %s", len(e), strings.Join(msgs, "; "))
}
