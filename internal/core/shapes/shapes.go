// Package shapes registers the import pipelines for every supported
// record shape. Importing this package (typically with a blank import
// from main) populates the core registry.
package shapes

import (
	"time"

	"github.com/google/uuid"

	"github.com/crmhealth/importer/internal/core"
	"github.com/crmhealth/importer/internal/schema"
)

func init() {
	core.Register(core.Definition{
		Key:     "customer",
		Label:   "Customer Accounts",
		Headers: schema.CustomerHeaders,
		Run:     runCustomer,
	})

	core.Register(core.Definition{
		Key:     "sentiment",
		Label:   "Customer Sentiment",
		Headers: schema.SentimentHeaders,
		Run:     runSentiment,
	})
}

// runCustomer executes the full customer pipeline: parse, sanitize,
// validate field rules under the requested mode.
func runCustomer(content string, mode core.Mode) (*core.ImportReport, error) {
	start := time.Now()

	parser := core.NewParser[schema.CustomerRecord](schema.CustomerShape{})
	result, err := parser.Parse(content)
	if err != nil {
		return nil, err
	}

	warnings := core.SanitizeBatch[schema.CustomerRecord](result.Records)

	validator := core.NewValidator(mode)
	validation := validator.ValidateBatch(result.Records)

	return &core.ImportReport{
		BatchID:        uuid.NewString(),
		ShapeKey:       "customer",
		Mode:           mode,
		TotalRows:      result.TotalRows,
		SuccessfulRows: result.SuccessfulRows,
		ParseErrors:    result.Errors,
		Warnings:       warnings,
		Validation:     &validation,
		DurationMs:     time.Since(start).Milliseconds(),
	}, nil
}

// runSentiment executes the sentiment pipeline. Sentiment rows carry no
// field-level validation rules, so the report has no validation section.
func runSentiment(content string, mode core.Mode) (*core.ImportReport, error) {
	start := time.Now()

	parser := core.NewParser[schema.SentimentRecord](schema.SentimentShape{})
	result, err := parser.Parse(content)
	if err != nil {
		return nil, err
	}

	warnings := core.SanitizeBatch[schema.SentimentRecord](result.Records)

	return &core.ImportReport{
		BatchID:        uuid.NewString(),
		ShapeKey:       "sentiment",
		Mode:           mode,
		TotalRows:      result.TotalRows,
		SuccessfulRows: result.SuccessfulRows,
		ParseErrors:    result.Errors,
		Warnings:       warnings,
		DurationMs:     time.Since(start).Milliseconds(),
	}, nil
}
