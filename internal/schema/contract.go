package schema

import "strings"

// HeaderValidation is the result of checking an observed header row
// against a shape's required headers.
type HeaderValidation struct {
	Valid          bool     `json:"valid"`
	MissingHeaders []string `json:"missingHeaders"`
	ExtraHeaders   []string `json:"extraHeaders"`
	ActualHeaders  []string `json:"actualHeaders"`
}

// Contract holds the ordered set of required column names for a shape.
type Contract struct {
	required []string
}

// NewContract creates a header contract from the required column names.
func NewContract(required []string) Contract {
	return Contract{required: required}
}

// Required returns the contract's column names in canonical order.
func (c Contract) Required() []string {
	return c.required
}

// Validate compares observed headers against the required set.
//
// Comparison is order-independent and tolerant of extra columns: only a
// missing required header invalidates the result. Observed headers are
// trimmed before comparison.
func (c Contract) Validate(observed []string) HeaderValidation {
	actual := make([]string, len(observed))
	seen := make(map[string]bool, len(observed))
	for i, h := range observed {
		actual[i] = strings.TrimSpace(h)
		seen[actual[i]] = true
	}

	requiredSet := make(map[string]bool, len(c.required))
	missing := []string{}
	for _, h := range c.required {
		requiredSet[h] = true
		if !seen[h] {
			missing = append(missing, h)
		}
	}

	extra := []string{}
	for _, h := range actual {
		if !requiredSet[h] {
			extra = append(extra, h)
		}
	}

	return HeaderValidation{
		Valid:          len(missing) == 0,
		MissingHeaders: missing,
		ExtraHeaders:   extra,
		ActualHeaders:  actual,
	}
}
