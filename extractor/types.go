package extractor

// Format names a known purchase-order layout. The zero value is not
// meaningful; IdentifyFormat returns FormatUnknown when no layout matches.
type Format string

const (
	Format1       Format = "format1" // "(Buyer's Info)" style order sheets
	Format2       Format = "format2" // tabular "Purchase Order" sheets with commodity rows
	Format3       Format = "format3" // "///ORDER CONFIMATION///" contract sheets
	FormatUnknown Format = "unknown"
)

// LineItem is one product row of a purchase order. Quantities and prices
// stay strings through extraction so locale formatting (thousands
// separators, unit suffixes) survives until ValidateAndClean.
type LineItem struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Amount    string `json:"amount"`
}

// Order is the structured result of extracting one document. String fields
// default to "" when a value could not be found; after ValidateAndClean the
// Products slice always holds at least one entry.
type Order struct {
	Customer     string     `json:"customer"`
	PONumber     string     `json:"poNumber"`
	Currency     string     `json:"currency"`
	Products     []LineItem `json:"products"`
	TotalAmount  string     `json:"totalAmount"`
	PaymentTerms string     `json:"paymentTerms"`
	Terms        string     `json:"terms"`
	Destination  string     `json:"destination"`
}

// QualityAssessment scores how complete an extracted Order is.
type QualityAssessment struct {
	Completeness   float64  `json:"completeness"`
	Confidence     float64  `json:"confidence"`
	MissingFields  []string `json:"missing_fields"`
	Recommendation string   `json:"recommendation"`
}

// Stats carries diagnostic information about one extraction run.
type Stats struct {
	TextLength        int                `json:"text_length"`
	WordCount         int                `json:"word_count"`
	FormatCandidates  map[Format]float64 `json:"format_candidates"`
	QualityAssessment QualityAssessment  `json:"quality_assessment"`
}
