package core

// sanitize.go neutralizes adversarial content in record fields before
// anything downstream trusts them.
//
// Two independent transforms run in sequence on every string:
//
//  1. Formula-injection detection: values that a spreadsheet would
//     evaluate as a formula (leading =, +, -, @, tab, CR, LF) get a
//     literal single-quote prefix, the standard way to force text
//     interpretation. Signed numerals like "-123" are exempt.
//  2. Markup escaping: the five HTML-special characters are replaced by
//     entities, after the prefix step so the prefixing quote is escaped
//     too. The order makes output deterministic.
//
// Sanitization never fails and never drops a record; it only transforms
// values and records warnings.

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/crmhealth/importer/internal/schema"
)

// warningPreviewLen caps how much of a suspicious value is echoed back in
// a warning.
const warningPreviewLen = 24

// htmlEscaper replaces the five markup-special characters with entities.
// strings.Replacer substitutes in a single pass, so emitted entities are
// never re-escaped.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// SanitizedString is the outcome of sanitizing one value. Warnings are
// advisory and never block processing.
type SanitizedString struct {
	Value    string   `json:"value"`
	Warnings []string `json:"warnings"`
}

// SanitizeString applies formula neutralization followed by markup
// escaping to a single value.
func SanitizeString(input string) SanitizedString {
	out := SanitizedString{Value: input}

	if isFormulaPayload(input) {
		out.Value = "'" + out.Value
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("possible formula injection neutralized: %q", preview(input)))
	}

	out.Value = htmlEscaper.Replace(out.Value)

	return out
}

// SanitizeRecord sanitizes every field of a record in place and returns
// the collected warnings, each prefixed with the field name.
func SanitizeRecord(rec schema.Sanitizable) []string {
	var warnings []string

	for _, ref := range rec.FieldRefs() {
		res := SanitizeString(*ref.Value)
		*ref.Value = res.Value
		for _, w := range res.Warnings {
			warnings = append(warnings, fmt.Sprintf("%s: %s", ref.Name, w))
		}
	}

	return warnings
}

// SanitizeBatch sanitizes every record of a batch in place, prefixing
// each warning with its 1-based row number.
func SanitizeBatch[T any, PT interface {
	*T
	schema.Sanitizable
}](records []T) []string {
	var warnings []string

	for i := range records {
		for _, w := range SanitizeRecord(PT(&records[i])) {
			warnings = append(warnings, fmt.Sprintf("row %d: %s", i+1, w))
		}
	}

	return warnings
}

// isFormulaPayload reports whether the value would be interpreted as a
// spreadsheet formula. The trigger set is checked against the raw first
// byte, before any trimming, so control-character leads like tab and CR
// are caught. Signed numerals (-123, +123) are legitimate data and
// exempt.
func isFormulaPayload(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}

	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '\n':
	default:
		return false
	}

	if (trimmed[0] == '-' || trimmed[0] == '+') &&
		len(trimmed) >= 2 && trimmed[1] >= '0' && trimmed[1] <= '9' {
		return false
	}

	return true
}

// preview truncates a value for inclusion in a warning message. The cut
// backs up to a rune boundary so the warning stays valid UTF-8.
func preview(s string) string {
	if len(s) <= warningPreviewLen {
		return s
	}

	end := warningPreviewLen
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end] + "..."
}
