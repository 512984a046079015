package extractor

import (
	"fmt"
	"regexp"
	"strings"
)

// genericPatterns merges the label vocabularies of every known layout so the
// fallback extractor has a chance on documents the identifier cannot place.
var genericPatterns = struct {
	customer, poNumber         []*regexp.Regexp
	productName, quantity      []*regexp.Regexp
	unitPrice, amount          []*regexp.Regexp
	totalAmount, paymentTerms  []*regexp.Regexp
	shippingTerms, destination []*regexp.Regexp
}{
	customer: compilePatterns(
		`(?:Customer|Client|Buyer|Company|Purchaser):\s*(.*?)(?:\n|$)`,
		`(?:To|Bill to):\s*(.*?)(?:\n|$)`,
		`Contract Party\s*:\s*(.*?)(?:\n|$)`,
		`B/L CONSIGNEE\s*:\s*(.*?)(?:\n|$)`,
		`ABC Company\s*(.*?)(?:\n|$)`,
		`\(Buyer(?:'|’)s Info\).*?([A-Za-z0-9\s]+Company)`,
	),
	poNumber: compilePatterns(
		`(?:PO|Purchase Order|Order) (?:No|Number|#)\.?:?\s*(\w+[-\d]+)`,
		`(?:PO|Purchase Order|Order) (?:No|Number|#)\.?:?\s*(\d+)`,
		`Order No\.\s*(.*?)(?:\n|Grade|Origin)`,
		`Buyers(?:'|’)?\s+Order No\.\s*(.*?)(?:\n|Grade|$)`,
	),
	productName: compilePatterns(
		`Item:\s*(.*?)(?:\n|$)`,
		`Product:?\s*(.*?)(?:\n|Quantity)`,
		`Grade\s+([A-Za-z0-9]+)`,
	),
	quantity: compilePatterns(
		`Quantity:\s*([\d,.]+)\s*(?:KG|kg|MT|mt)`,
		`Qty:?\s*([\d,.]+)\s*(?:KG|kg|MT|mt)`,
		`Qt'y\s*\(mt\)\s*([\d.]+)`,
	),
	unitPrice: compilePatterns(
		`Unit Price:\s*\$?\s*([\d,.]+)`,
		`Unit Price:.*?per\s*.*?\$?\s*([\d,.]+)`,
		`Unit Price\s*\([^)]+\)\s*([\d,.]+)`,
	),
	amount: compilePatterns(
		`EXT Price:\s*([\d,.]+)`,
		`Amount:\s*([\d,.]+)`,
		`Total Amount\s*([\d,.]+)`,
	),
	totalAmount: compilePatterns(
		`(?:TOTAL|Total|Grand Total).*?(?:USD|US\$)?\s*([\d,.]+)`,
		`Total Amount:?\s*(?:USD|US\$)?\s*([\d,.]+)`,
		`(?:[$]|USD)\s*([\d,.]+)(?:\s+total|\s+USD)`,
	),
	paymentTerms: compilePatterns(
		`(?:Payment Terms?|Terms of Payment|Terms|Payment):\s*(.*?)(?:\n|$)`,
		`Net Due within\s*(.*?)(?:\n|$)`,
		`Payment term\s*\n?\s*(.*?)(?:\n|$)`,
	),
	shippingTerms: compilePatterns(
		`(?:Incoterms|Inco Terms|Shipping Terms|Delivery Terms|Term):\s*(.*?)(?:\n|$)`,
		`(?:CIF|FOB|EXW)\s+([A-Za-z\s]+)`,
	),
	destination: compilePatterns(
		`(?:Destination|Ship to|Delivery Address|Port of Discharge|Discharge Port|PORT OF DISCHARGE):\s*(.*?)(?:\n|$)`,
		`(?:To|Deliver to):\s*(.*?)(?:\n|$)`,
	),
}

var (
	// table rows across all layouts: code, name, quantity+unit, prices
	genericRowPattern = regexp.MustCompile(`([A-Za-z0-9]+)\s+(Product [A-Za-z]|Grade [A-Za-z0-9]+)\s+([\d,]+)\s*(?:kg|mt)\s+(?:US\$)?([\d.]+)\s+(?:US\$)?([\d,.]+)`)
	// loose section capture spanning lines: quantity, unit price, amount
	genericSectionPattern = regexp.MustCompile(`(?s)(?:Product [A-Za-z]|Grade [A-Za-z0-9]+|Item:.*?).*?(\d+)(?:\s*|\n+)(?:kg|mt|KG|MT).*?(?:US\$|Unit Price:?\s*\$?)?\s*([\d,.]+).*?(?:US\$)?\s*([\d,.]+)`)
	// name resolution for section captures
	genericNamePattern = regexp.MustCompile(`(?:Product ([A-Z])|Grade ([A-Za-z0-9]+)|Item:\s*(.*?)(?:\n|$))`)
)

// extractGeneric is the best-effort fallback used when no layout signature
// scores above the dispatch threshold. Same three-tier line-item strategy as
// format2 but with the merged pattern vocabulary.
func extractGeneric(text string) Order {
	order := Order{Products: []LineItem{}}

	order.Customer = extractField(text, genericPatterns.customer)
	order.PONumber = extractField(text, genericPatterns.poNumber)

	if m := currencyPattern.FindStringSubmatch(text); m != nil {
		order.Currency = m[1]
	}

	order.Products = extractGenericProducts(text)

	order.TotalAmount = extractField(text, genericPatterns.totalAmount)
	order.PaymentTerms = extractField(text, genericPatterns.paymentTerms)
	order.Terms = extractField(text, genericPatterns.shippingTerms)
	order.Destination = extractField(text, genericPatterns.destination)

	return order
}

func extractGenericProducts(text string) []LineItem {
	products := []LineItem{}

	for _, row := range genericRowPattern.FindAllStringSubmatch(text, -1) {
		products = append(products, LineItem{
			Name:      strings.TrimSpace(row[2]),
			Quantity:  strings.TrimSpace(row[3]),
			UnitPrice: strings.TrimSpace(row[4]),
			Amount:    strings.TrimSpace(row[5]),
		})
	}
	if len(products) > 0 {
		return products
	}

	sections := genericSectionPattern.FindAllStringSubmatch(text, -1)
	for i, section := range sections {
		products = append(products, LineItem{
			Name:      resolveGenericName(text, i),
			Quantity:  strings.TrimSpace(section[1]),
			UnitPrice: strings.TrimSpace(section[2]),
			Amount:    strings.TrimSpace(section[3]),
		})
	}
	if len(products) > 0 {
		return products
	}

	name := extractField(text, genericPatterns.productName)
	quantity := extractField(text, genericPatterns.quantity)
	unitPrice := extractField(text, genericPatterns.unitPrice)
	amount := extractField(text, genericPatterns.amount)

	if name != "" || quantity != "" {
		if name == "" {
			name = "Unknown Product"
		}
		products = append(products, LineItem{
			Name:      name,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Amount:    amount,
		})
	}

	return products
}

// resolveGenericName finds a product name for the i-th section capture. The
// name lookup runs against the whole text, so multi-row documents that fall
// through to this tier all get the first name found; rows with no name at
// all become "Unknown Product {n}".
func resolveGenericName(text string, i int) string {
	m := genericNamePattern.FindStringSubmatch(text)
	if m == nil {
		return fmt.Sprintf("Unknown Product %d", i+1)
	}
	switch {
	case m[1] != "":
		return "Product " + m[1]
	case m[2] != "":
		return "Grade " + m[2]
	default:
		return m[3]
	}
}
