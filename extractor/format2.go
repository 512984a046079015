package extractor

import (
	"regexp"
	"strings"
)

var format2Patterns = struct {
	customer, poNumber         []*regexp.Regexp
	totalAmount, paymentTerms  []*regexp.Regexp
	shippingTerms, destination []*regexp.Regexp
}{
	customer: compilePatterns(
		`Buyer:\s*(.*?)(?:\n|$)`,
		`(?:Buyer|Customer|Client):\s*(.*?)(?:\n|$)`,
	),
	poNumber: compilePatterns(
		`Purchase Order no:?\s*(\d+)`,
		`PO (?:number|no\.?):\s*(\d+)`,
	),
	totalAmount: compilePatterns(
		`Grand Total.*?US\$\s*([\d,]+)`,
		`Total:?\s*US\$\s*([\d,]+)`,
		`Total Amount:?\s*US\$\s*([\d,]+)`,
	),
	paymentTerms: compilePatterns(
		`Payment Terms:\s*(.*?)(?:\n|$)`,
		`Payment:?\s*(.*?)(?:\n|$)`,
	),
	shippingTerms: compilePatterns(
		`Incoterms:\s*(.*?)(?:\n|$)`,
		`(?:Shipping|Delivery) Terms:\s*(.*?)(?:\n|$)`,
	),
	destination: compilePatterns(
		`Discharge Port:\s*(.*?)(?:\n|$)`,
		`(?:Ship to|Destination|Delivery Address):\s*(.*?)(?:\n|$)`,
	),
}

// Line-item extraction for the tabular layout, tried strictest first.
var (
	// code, name, quantity+kg, unit price, amount — one table row per match
	format2RowPattern = regexp.MustCompile(`([A-Za-z0-9]+)\s+(Product [A-Za-z])\s+([\d,]+)\s*kg\s+US\$?([\d.]+)\s+US\$?([\d,.]+)`)
	// looser per-section capture of the same four fields from adjacent lines
	format2SectionPattern = regexp.MustCompile(`(Product [A-Za-z])[^\n]*\n[^\n]*?([\d,]+)\s*kg[^\n]*?(US\$[\d.]+)[^\n]*?(US\$[\d,.]+)`)
	// last-resort parallel lists, paired positionally
	format2NamePattern     = regexp.MustCompile(`Product ([A-Z])`)
	format2QuantityPattern = regexp.MustCompile(`([\d,]+)\s*kg`)
	format2PricePattern    = regexp.MustCompile(`US\$([\d,.]+)`)
)

// extractFormat2 handles the tabular "Purchase Order" layout, which usually
// carries several commodity rows.
func extractFormat2(text string) Order {
	order := Order{Products: []LineItem{}}

	order.Customer = extractField(text, format2Patterns.customer)
	order.PONumber = extractField(text, format2Patterns.poNumber)

	if m := currencyPattern.FindStringSubmatch(text); m != nil {
		order.Currency = m[1]
	}

	order.Products = extractFormat2Products(text)

	order.TotalAmount = extractField(text, format2Patterns.totalAmount)
	order.PaymentTerms = extractField(text, format2Patterns.paymentTerms)
	order.Terms = extractField(text, format2Patterns.shippingTerms)
	order.Destination = extractField(text, format2Patterns.destination)

	return order
}

// extractFormat2Products tries three strategies in order: structured table
// rows, per-section captures, and finally positional pairing of independent
// name/quantity/price lists. The positional pairing is best-effort: when the
// lists have different lengths it truncates to the shortest implied list and
// may misalign fields. That lossiness is accepted rather than guessed around.
func extractFormat2Products(text string) []LineItem {
	products := []LineItem{}

	for _, row := range format2RowPattern.FindAllStringSubmatch(text, -1) {
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

	for _, section := range format2SectionPattern.FindAllStringSubmatch(text, -1) {
		products = append(products, LineItem{
			Name:      strings.TrimSpace(section[1]),
			Quantity:  strings.TrimSpace(section[2]),
			UnitPrice: strings.TrimSpace(strings.ReplaceAll(section[3], "US$", "")),
			Amount:    strings.TrimSpace(strings.ReplaceAll(section[4], "US$", "")),
		})
	}
	if len(products) > 0 {
		return products
	}

	names := format2NamePattern.FindAllStringSubmatch(text, -1)
	quantities := format2QuantityPattern.FindAllStringSubmatch(text, -1)
	prices := format2PricePattern.FindAllStringSubmatch(text, -1)

	for i, name := range names {
		if i >= len(quantities) || i*2+1 >= len(prices) {
			break
		}
		products = append(products, LineItem{
			Name:      "Product " + name[1],
			Quantity:  quantities[i][1],
			UnitPrice: prices[i*2][1],
			Amount:    prices[i*2+1][1],
		})
	}

	return products
}
