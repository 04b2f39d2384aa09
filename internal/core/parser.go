package core

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/crmhealth/importer/internal/csv"
	"github.com/crmhealth/importer/internal/schema"
)

// utf8BOM is prepended by Excel and most Windows tooling when exporting
// CSV. It is stripped before any other processing.
const utf8BOM = "\uFEFF"

// Parser is a line-oriented CSV parser for one record shape.
//
// Only structural failures (empty input, bad encoding, invalid headers)
// surface as a hard error from Parse. Row-level failures are recorded in
// the result and never abort the batch: a single typo must not discard an
// entire import.
type Parser[T any] struct {
	shape    schema.Shape[T]
	contract schema.Contract
}

// NewParser creates a parser for the given shape.
func NewParser[T any](shape schema.Shape[T]) *Parser[T] {
	return &Parser[T]{
		shape:    shape,
		contract: schema.NewContract(shape.Headers()),
	}
}

// Parse tokenizes and maps the full file content.
//
// Line endings are normalized (\r\n and bare \r become \n) and blank
// lines are dropped before anything is counted. Row numbers are 1-based
// over the remaining lines, so the header is row 1 and the first data row
// is row 2.
func (p *Parser[T]) Parse(content string) (*ParseResult[T], error) {
	content = strings.TrimPrefix(content, utf8BOM)

	if strings.TrimSpace(content) == "" {
		return nil, &ParseError{
			Row:     0,
			Message: "file is empty",
			Code:    CodeEmptyFile,
		}
	}

	if !utf8.ValidString(content) {
		return nil, &ParseError{
			Row:     0,
			Message: "file content is not valid UTF-8",
			Code:    CodeInvalidEncoding,
		}
	}

	lines := splitLines(content)
	if len(lines) < 2 {
		return nil, &ParseError{
			Row:     0,
			Message: "file has no data rows",
			Code:    CodeEmptyFile,
		}
	}

	headers := csv.Tokenize(lines[0])
	validation := p.contract.Validate(headers)
	if !validation.Valid {
		return nil, &ParseError{
			Row: 1,
			Message: fmt.Sprintf("missing required headers: %s",
				strings.Join(validation.MissingHeaders, ", ")),
			Code: CodeInvalidHeaders,
		}
	}

	result := &ParseResult[T]{
		Records: []T{},
		Errors:  []ParseError{},
	}

	for i := 1; i < len(lines); i++ {
		rowNumber := i + 1
		fields := csv.Tokenize(lines[i])

		rec, err := p.shape.Map(fields, validation.ActualHeaders, rowNumber)
		if err != nil {
			result.Errors = append(result.Errors, ParseError{
				Row:     rowNumber,
				Message: err.Error(),
				Code:    CodeMalformedRow,
			})
			continue
		}

		result.Records = append(result.Records, rec)
	}

	result.TotalRows = len(lines) - 1
	result.SuccessfulRows = len(result.Records)

	return result, nil
}

// splitLines normalizes line endings and drops blank lines.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
