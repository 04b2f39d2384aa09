package schema

import "fmt"

// Customer export column names, bit-exact as produced by the CRM.
const (
	ColAccountOwner        = "Account Owner"
	ColAccountName         = "Account Name"
	ColLatestLogin         = "Latest Login"
	ColCreatedDate         = "Created Date"
	ColLastCSContactDate   = "Last Customer Success Contact Date"
	ColBillingCountry      = "Billing Country"
	ColAccountType         = "Account Type"
	ColLanguage            = "Language"
	ColStatus              = "Status"
	ColSirvoyAccountStatus = "Sirvoy Account Status"
	ColSirvoyCustomerID    = "Sirvoy Customer ID"
	ColPropertyType        = "Property Type"
	ColMRRCurrency         = "MRR (converted) Currency"
	ColMRR                 = "MRR (converted)"
	ColChannels            = "Channels"
)

// CustomerHeaders is the required header contract for the customer export.
var CustomerHeaders = []string{
	ColAccountOwner,
	ColAccountName,
	ColLatestLogin,
	ColCreatedDate,
	ColLastCSContactDate,
	ColBillingCountry,
	ColAccountType,
	ColLanguage,
	ColStatus,
	ColSirvoyAccountStatus,
	ColSirvoyCustomerID,
	ColPropertyType,
	ColMRRCurrency,
	ColMRR,
	ColChannels,
}

// CustomerRecord is one customer-account row as exported by the CRM.
// All fields are raw strings; typing and range checks happen in the
// validator, not here. Multi-valued fields (Language, Channels) keep
// their ";" separators; splitting them is a downstream concern.
type CustomerRecord struct {
	AccountOwner        string `json:"accountOwner"`
	AccountName         string `json:"accountName"`
	LatestLogin         string `json:"latestLogin"`
	CreatedDate         string `json:"createdDate"`
	LastCSContactDate   string `json:"lastCustomerSuccessContactDate"`
	BillingCountry      string `json:"billingCountry"`
	AccountType         string `json:"accountType"`
	Language            string `json:"language"`
	Status              string `json:"status"`
	SirvoyAccountStatus string `json:"sirvoyAccountStatus"`
	SirvoyCustomerID    string `json:"sirvoyCustomerId"`
	PropertyType        string `json:"propertyType"`
	MRRCurrency         string `json:"mrrCurrency"`
	MRR                 string `json:"mrr"`
	Channels            string `json:"channels"`
}

// FieldRefs exposes every string field for in-place sanitization.
func (r *CustomerRecord) FieldRefs() []FieldRef {
	return []FieldRef{
		{ColAccountOwner, &r.AccountOwner},
		{ColAccountName, &r.AccountName},
		{ColLatestLogin, &r.LatestLogin},
		{ColCreatedDate, &r.CreatedDate},
		{ColLastCSContactDate, &r.LastCSContactDate},
		{ColBillingCountry, &r.BillingCountry},
		{ColAccountType, &r.AccountType},
		{ColLanguage, &r.Language},
		{ColStatus, &r.Status},
		{ColSirvoyAccountStatus, &r.SirvoyAccountStatus},
		{ColSirvoyCustomerID, &r.SirvoyCustomerID},
		{ColPropertyType, &r.PropertyType},
		{ColMRRCurrency, &r.MRRCurrency},
		{ColMRR, &r.MRR},
		{ColChannels, &r.Channels},
	}
}

// CustomerShape maps customer export rows to CustomerRecords.
type CustomerShape struct{}

func (CustomerShape) Name() string { return "customer" }

func (CustomerShape) Headers() []string { return CustomerHeaders }

// Map builds a CustomerRecord from one tokenized row. The row must have
// exactly as many fields as the header row, and the customer ID must be
// non-empty; either failure makes the whole row unusable.
func (CustomerShape) Map(fields, headers []string, rowNumber int) (CustomerRecord, error) {
	if err := checkFieldCount(fields, headers); err != nil {
		return CustomerRecord{}, err
	}

	lookup := rowLookup(fields, headers)

	rec := CustomerRecord{
		AccountOwner:        lookup[ColAccountOwner],
		AccountName:         lookup[ColAccountName],
		LatestLogin:         lookup[ColLatestLogin],
		CreatedDate:         lookup[ColCreatedDate],
		LastCSContactDate:   lookup[ColLastCSContactDate],
		BillingCountry:      lookup[ColBillingCountry],
		AccountType:         lookup[ColAccountType],
		Language:            lookup[ColLanguage],
		Status:              lookup[ColStatus],
		SirvoyAccountStatus: lookup[ColSirvoyAccountStatus],
		SirvoyCustomerID:    lookup[ColSirvoyCustomerID],
		PropertyType:        lookup[ColPropertyType],
		MRRCurrency:         lookup[ColMRRCurrency],
		MRR:                 lookup[ColMRR],
		Channels:            lookup[ColChannels],
	}

	if rec.SirvoyCustomerID == "" {
		return CustomerRecord{}, fmt.Errorf("missing required field %q", ColSirvoyCustomerID)
	}

	return rec, nil
}
