package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/crmhealth/importer/internal/schema"
)

// dateRegex matches DD/MM/YYYY with an optional ", HH:mm" time suffix.
// Captures: 1=day, 2=month, 3=year.
var dateRegex = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})(?:, (\d{2}):(\d{2}))?$`)

// mrrStripRegex removes every character outside [0-9.-] before numeric
// parsing, so currency symbols and thousands separators do not fail the
// check.
var mrrStripRegex = regexp.MustCompile(`[^0-9.\-]`)

// Allowed enumerated values, matched case-insensitively.
var (
	validStatuses     = []string{"Active", "Inactive"}
	validAccountTypes = []string{"Pro", "Starter"}
)

// Defaults applied to empty optional fields in lenient mode.
const (
	defaultMRR          = "0"
	defaultChannels     = ""
	defaultLanguage     = "Unknown"
	defaultPropertyType = "Other"
)

// ValidatedRecord is one customer record annotated with its validation
// outcome. In lenient mode the record is kept even when invalid, with
// optional-field defaults applied.
type ValidatedRecord struct {
	Record  schema.CustomerRecord `json:"record"`
	IsValid bool                  `json:"isValid"`
	Errors  []ValidationError     `json:"errors"`
}

// BatchValidationResult aggregates validation over one parsed batch.
type BatchValidationResult struct {
	TotalRecords   int               `json:"totalRecords"`
	ValidRecords   int               `json:"validRecords"`
	InvalidRecords int               `json:"invalidRecords"`
	Records        []ValidatedRecord `json:"records"`
	Errors         []ValidationError `json:"errors"`
}

// Validator checks customer records against the field rules for one
// batch run. Construct one per batch with the desired mode; it is never
// mutated while a batch is in flight.
type Validator struct {
	Mode Mode
}

// NewValidator creates a validator for the given mode.
func NewValidator(mode Mode) Validator {
	return Validator{Mode: mode}
}

// Validate runs every applicable check on one record. Checks are
// cumulative: all of them run and every failure is reported.
//
// In strict mode any error rejects the record and Validate returns a
// ValidationErrors value as the error. In lenient mode the record is
// always returned, with errors attached and empty optional fields
// defaulted.
func (v Validator) Validate(rec schema.CustomerRecord, rowNumber int) (*ValidatedRecord, error) {
	errs := checkCustomerFields(rec, rowNumber)

	if v.Mode == ModeStrict && len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	if v.Mode == ModeLenient {
		applyDefaults(&rec)
	}

	return &ValidatedRecord{
		Record:  rec,
		IsValid: len(errs) == 0,
		Errors:  errs,
	}, nil
}

// ValidateBatch validates records in input order. Row numbers are
// 1-based positions within the batch, preserved on every error for
// display.
func (v Validator) ValidateBatch(records []schema.CustomerRecord) BatchValidationResult {
	result := BatchValidationResult{
		TotalRecords: len(records),
		Records:      []ValidatedRecord{},
		Errors:       []ValidationError{},
	}

	for i, rec := range records {
		rowNumber := i + 1

		validated, err := v.Validate(rec, rowNumber)
		if err != nil {
			// Strict rejection: nothing usable, record the errors only.
			result.InvalidRecords++
			result.Errors = append(result.Errors, err.(ValidationErrors)...)
			continue
		}

		if validated.IsValid {
			result.ValidRecords++
		} else {
			result.InvalidRecords++
			result.Errors = append(result.Errors, validated.Errors...)
		}
		result.Records = append(result.Records, *validated)
	}

	return result
}

// checkCustomerFields runs the full rule set and returns every failure.
func checkCustomerFields(rec schema.CustomerRecord, rowNumber int) []ValidationError {
	var errs []ValidationError

	fail := func(field, value, message string, code ValidationCode) {
		errs = append(errs, ValidationError{
			RowNumber: rowNumber,
			Field:     field,
			Value:     value,
			Message:   message,
			Code:      code,
		})
	}

	// 1. Required-field presence.
	required := []struct {
		field string
		value string
		code  ValidationCode
	}{
		{schema.ColSirvoyCustomerID, rec.SirvoyCustomerID, CodeMissingCustomerID},
		{schema.ColAccountOwner, rec.AccountOwner, CodeMissingAccountOwner},
		{schema.ColStatus, rec.Status, CodeMissingStatus},
		{schema.ColAccountType, rec.AccountType, CodeMissingAccountType},
		{schema.ColCreatedDate, rec.CreatedDate, CodeMissingCreatedDate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			fail(r.field, r.value, fmt.Sprintf("required field %q is empty", r.field), r.code)
		}
	}

	// 2. Date format. The 31-day ceiling applies to every month; there is
	// deliberately no days-in-month cross-check.
	for _, d := range []struct {
		field string
		value string
	}{
		{schema.ColCreatedDate, rec.CreatedDate},
		{schema.ColLatestLogin, rec.LatestLogin},
	} {
		if d.value == "" {
			continue
		}
		if !validDate(d.value) {
			fail(d.field, d.value,
				fmt.Sprintf("invalid date %q (expected DD/MM/YYYY or DD/MM/YYYY, HH:mm)", d.value),
				CodeInvalidDateFormat)
		}
	}

	// 3. Numeric format, then 5. range check on the parsed value.
	if rec.MRR != "" {
		mrr, err := parseMRR(rec.MRR)
		if err != nil {
			fail(schema.ColMRR, rec.MRR,
				fmt.Sprintf("invalid number %q", rec.MRR), CodeInvalidNumber)
		} else if mrr < 0 {
			fail(schema.ColMRR, rec.MRR,
				fmt.Sprintf("MRR must not be negative, got %q", rec.MRR), CodeInvalidMRR)
		}
	}

	// 4. Enumerated values.
	if rec.Status != "" && !inEnum(rec.Status, validStatuses) {
		fail(schema.ColStatus, rec.Status,
			fmt.Sprintf("invalid status %q (expected one of: %s)",
				rec.Status, strings.Join(validStatuses, ", ")),
			CodeInvalidStatus)
	}
	if rec.AccountType != "" && !inEnum(rec.AccountType, validAccountTypes) {
		fail(schema.ColAccountType, rec.AccountType,
			fmt.Sprintf("invalid account type %q (expected one of: %s)",
				rec.AccountType, strings.Join(validAccountTypes, ", ")),
			CodeInvalidAccountType)
	}

	return errs
}

// validDate checks the regex-level shape and that the components fall in
// range: day 1-31, month 1-12, year 1900-2100.
func validDate(s string) bool {
	m := dateRegex.FindStringSubmatch(s)
	if m == nil {
		return false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	return day >= 1 && day <= 31 &&
		month >= 1 && month <= 12 &&
		year >= 1900 && year <= 2100
}

// parseMRR parses a monetary value after stripping everything outside
// [0-9.-].
func parseMRR(s string) (float64, error) {
	cleaned := mrrStripRegex.ReplaceAllString(s, "")
	return strconv.ParseFloat(cleaned, 64)
}

// inEnum reports whether value matches one of allowed, ignoring case.
func inEnum(value string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

// applyDefaults fills empty optional fields with their lenient-mode
// defaults.
func applyDefaults(rec *schema.CustomerRecord) {
	if rec.MRR == "" {
		rec.MRR = defaultMRR
	}
	if rec.Channels == "" {
		rec.Channels = defaultChannels
	}
	if rec.Language == "" {
		rec.Language = defaultLanguage
	}
	if rec.PropertyType == "" {
		rec.PropertyType = defaultPropertyType
	}
}
