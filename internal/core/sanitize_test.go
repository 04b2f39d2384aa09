package core

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/crmhealth/importer/internal/schema"
)

// ============================================================================
// SanitizeString Tests
// ============================================================================

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		warnCount int
	}{
		{"plain text", "Seaside Hotel", "Seaside Hotel", 0},
		{"empty", "", "", 0},
		{"formula equals", "=SUM(A1:A10)", "&#x27;=SUM(A1:A10)", 1},
		{"formula at", "@import", "&#x27;@import", 1},
		{"formula plus", "+cmd", "&#x27;+cmd", 1},
		{"formula minus", "-cmd", "&#x27;-cmd", 1},
		{"negative numeral exempt", "-123", "-123", 0},
		{"positive numeral exempt", "+42.5", "+42.5", 0},
		{"leading tab", "\tpayload", "&#x27;\tpayload", 1},
		{"leading carriage return", "\rpayload", "&#x27;\rpayload", 1},
		{"leading newline", "\npayload", "&#x27;\npayload", 1},
		{"tab then signed numeral", "\t-123", "\t-123", 0},
		{"html angle brackets", "<script>alert(1)</script>",
			"&lt;script&gt;alert(1)&lt;/script&gt;", 0},
		{"ampersand", "Bed & Breakfast", "Bed &amp; Breakfast", 0},
		{"quotes", `say "hi" to O'Brien`, "say &quot;hi&quot; to O&#x27;Brien", 0},
		{"formula with markup", `=HYPERLINK("x")`,
			"&#x27;=HYPERLINK(&quot;x&quot;)", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeString(tt.input)
			if got.Value != tt.want {
				t.Errorf("SanitizeString(%q).Value = %q, want %q", tt.input, got.Value, tt.want)
			}
			if len(got.Warnings) != tt.warnCount {
				t.Errorf("SanitizeString(%q) warnings = %d, want %d: %v",
					tt.input, len(got.Warnings), tt.warnCount, got.Warnings)
			}
		})
	}
}

// Already-escaped entities must not be escaped a second time into
// garbage like "&amp;amp;" on the characters they introduce.
func TestSanitizeString_SinglePass(t *testing.T) {
	got := SanitizeString("&")
	if got.Value != "&amp;" {
		t.Errorf("got %q, want %q", got.Value, "&amp;")
	}

	// Safe input with no escapable characters is a fixed point.
	safe := "Seaside Hotel 42"
	if again := SanitizeString(safe); again.Value != safe {
		t.Errorf("safe input changed: %q", again.Value)
	}
}

func TestSanitizeString_NeverBeginsWithFormulaChar(t *testing.T) {
	inputs := []string{
		"=1+1", "+cmd|' /C calc'!A0", "-2+3+cmd", "@SUM(1,2)",
		"\t=1", "plain", "-123", "", "  =lead",
	}

	for _, in := range inputs {
		got := SanitizeString(in).Value
		if got == "" {
			continue
		}
		switch got[0] {
		case '=', '+', '@':
			// "+42" style numerals are the one allowed carve-out.
			if !(got[0] == '+' && len(got) > 1 && got[1] >= '0' && got[1] <= '9') {
				t.Errorf("SanitizeString(%q) = %q still starts with a formula trigger", in, got)
			}
		}
	}
}

func TestSanitizeString_WarningPreviewTruncated(t *testing.T) {
	long := "=" + strings.Repeat("A", 200)

	got := SanitizeString(long)
	if len(got.Warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(got.Warnings))
	}
	if len(got.Warnings[0]) > 120 {
		t.Errorf("warning should truncate the payload, got %d chars", len(got.Warnings[0]))
	}
	if !strings.Contains(got.Warnings[0], "formula injection") {
		t.Errorf("warning %q should mention formula injection", got.Warnings[0])
	}
}

func TestSanitizeString_WarningPreviewRuneSafe(t *testing.T) {
	// Multibyte runes positioned to straddle the truncation point; the
	// preview must never cut one mid-sequence.
	long := "=" + strings.Repeat("é", 100)

	got := SanitizeString(long)
	if len(got.Warnings) != 1 {
		t.Fatalf("warnings = %d, want 1", len(got.Warnings))
	}
	if !utf8.ValidString(got.Warnings[0]) {
		t.Errorf("warning is not valid UTF-8: %q", got.Warnings[0])
	}
}

// ============================================================================
// Record and Batch Tests
// ============================================================================

func TestSanitizeRecord(t *testing.T) {
	rec := schema.CustomerRecord{
		AccountOwner: "=cmd",
		AccountName:  "Bed & Breakfast",
		Status:       "Active",
	}

	warnings := SanitizeRecord(&rec)

	if rec.AccountOwner != "&#x27;=cmd" {
		t.Errorf("AccountOwner = %q, want %q", rec.AccountOwner, "&#x27;=cmd")
	}
	if rec.AccountName != "Bed &amp; Breakfast" {
		t.Errorf("AccountName = %q, want %q", rec.AccountName, "Bed &amp; Breakfast")
	}
	if rec.Status != "Active" {
		t.Errorf("Status = %q, want unchanged", rec.Status)
	}

	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1: %v", len(warnings), warnings)
	}
	if !strings.HasPrefix(warnings[0], schema.ColAccountOwner+":") {
		t.Errorf("warning %q should be prefixed with the field name", warnings[0])
	}
}

func TestSanitizeBatch(t *testing.T) {
	records := []schema.SentimentRecord{
		{SentimentScore: "4", CaseNumber: "00123456", SirvoyCustomerID: "SRV-10001"},
		{SentimentScore: "=2+2", CaseNumber: "00123457", SirvoyCustomerID: "SRV-10002"},
	}

	warnings := SanitizeBatch[schema.SentimentRecord](records)

	if records[1].SentimentScore != "&#x27;=2+2" {
		t.Errorf("record 2 score = %q, want neutralized", records[1].SentimentScore)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %d, want 1: %v", len(warnings), warnings)
	}
	if !strings.HasPrefix(warnings[0], "row 2:") {
		t.Errorf("warning %q should carry the 1-based row number", warnings[0])
	}
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkSanitizeString(b *testing.B) {
	input := `=HYPERLINK("http://example.com","Bed & Breakfast <Deluxe>")`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		SanitizeString(input)
	}
}
