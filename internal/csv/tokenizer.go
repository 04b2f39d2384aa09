// Package csv provides low-level CSV row tokenization shared by all
// record shapes.
//
// The tokenizer is deliberately forgiving: it never returns an error.
// Malformed quoting degrades to whatever the state machine produces, and
// a field-count mismatch downstream is what flags a row as malformed.
package csv

import "strings"

// Tokenize splits a single logical CSV line into fields.
//
// Quoting follows RFC 4180 conventions: double quotes open and close a
// quoted region, a doubled quote ("") inside a quoted region emits a
// literal quote, and commas inside quotes do not split fields. Each field
// is trimmed of surrounding whitespace.
//
// The returned field count always equals the number of top-level commas
// plus one, regardless of embedded commas inside quotes.
func Tokenize(line string) []string {
	var fields []string
	var buf strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]

		if inQuotes {
			if ch == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					// Escaped quote: emit one literal quote, consume both.
					buf.WriteByte('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				buf.WriteByte(ch)
			}
			continue
		}

		switch ch {
		case '"':
			inQuotes = true
		case ',':
			fields = append(fields, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteByte(ch)
		}
	}

	// Flush the final field. An unterminated quote simply ends here.
	fields = append(fields, strings.TrimSpace(buf.String()))

	return fields
}

// Serialize joins fields into a single CSV line, quoting any field that
// contains a comma or a quote and doubling embedded quotes.
//
// Serialize is the inverse of Tokenize for fields without leading or
// trailing whitespace: Tokenize(Serialize(fields)) == fields.
func Serialize(fields []string) string {
	var b strings.Builder

	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		if strings.ContainsAny(f, ",\"") {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(f, `"`, `""`))
			b.WriteByte('"')
		} else {
			b.WriteString(f)
		}
	}

	return b.String()
}
