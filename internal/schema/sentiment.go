package schema

import "fmt"

// Sentiment export column names, bit-exact as produced by the CRM.
const (
	ColSentimentScore         = "Customer Sentiment Score"
	ColInteractionCreatedDate = "Interaction: Created Date"
	ColCaseNumber             = "Case"
	ColAccountCustomerID      = "Account: Sirvoy Customer ID"
)

// SentimentHeaders is the required header contract for the sentiment export.
var SentimentHeaders = []string{
	ColSentimentScore,
	ColInteractionCreatedDate,
	ColCaseNumber,
	ColAccountCustomerID,
}

// SentimentRecord is one customer-sentiment interaction row.
type SentimentRecord struct {
	SentimentScore         string `json:"customerSentimentScore"`
	InteractionCreatedDate string `json:"interactionCreatedDate"`
	CaseNumber             string `json:"case"`
	SirvoyCustomerID       string `json:"accountSirvoyCustomerId"`
}

// FieldRefs exposes every string field for in-place sanitization.
func (r *SentimentRecord) FieldRefs() []FieldRef {
	return []FieldRef{
		{ColSentimentScore, &r.SentimentScore},
		{ColInteractionCreatedDate, &r.InteractionCreatedDate},
		{ColCaseNumber, &r.CaseNumber},
		{ColAccountCustomerID, &r.SirvoyCustomerID},
	}
}

// SentimentShape maps sentiment export rows to SentimentRecords.
type SentimentShape struct{}

func (SentimentShape) Name() string { return "sentiment" }

func (SentimentShape) Headers() []string { return SentimentHeaders }

// Map builds a SentimentRecord from one tokenized row. Both identifying
// fields (case number and customer ID) must be non-empty for the row to
// be linkable to an account.
func (SentimentShape) Map(fields, headers []string, rowNumber int) (SentimentRecord, error) {
	if err := checkFieldCount(fields, headers); err != nil {
		return SentimentRecord{}, err
	}

	lookup := rowLookup(fields, headers)

	rec := SentimentRecord{
		SentimentScore:         lookup[ColSentimentScore],
		InteractionCreatedDate: lookup[ColInteractionCreatedDate],
		CaseNumber:             lookup[ColCaseNumber],
		SirvoyCustomerID:       lookup[ColAccountCustomerID],
	}

	if rec.CaseNumber == "" {
		return SentimentRecord{}, fmt.Errorf("missing required field %q", ColCaseNumber)
	}
	if rec.SirvoyCustomerID == "" {
		return SentimentRecord{}, fmt.Errorf("missing required field %q", ColAccountCustomerID)
	}

	return rec, nil
}
