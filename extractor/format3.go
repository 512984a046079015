package extractor

import "regexp"

var format3Patterns = struct {
	customer, poNumber         []*regexp.Regexp
	grade, quantity            []*regexp.Regexp
	unitPrice, amount          []*regexp.Regexp
	totalAmount, paymentTerms  []*regexp.Regexp
	shippingTerms, destination []*regexp.Regexp
}{
	customer: compilePatterns(
		`Contract Party\s*:\s*(.*?)(?:\n|$)`,
		`B/L CONSIGNEE\s*:\s*(.*?)(?:\n|$)`,
	),
	poNumber: compilePatterns(
		`Order No\.\s*(.*?)(?:\n|Grade|Origin)`,
		`Buyers(?:'|’)?\s+Order No\.\s*(.*?)(?:\n|Grade|$)`,
	),
	grade:     compilePatterns(`Grade\s+([A-Za-z0-9]+)`),
	quantity:  compilePatterns(`Qt'y\s*\(mt\)\s*([\d.]+)`),
	unitPrice: compilePatterns(`Unit Price\s*\([^)]+\)\s*([\d,.]+)`),
	amount:    compilePatterns(`Total Amount\s*([\d,.]+)`),
	totalAmount: compilePatterns(
		`TOTAL.*?USD\s*([\d,.]+)`,
		`Total Amount\s*USD\s*([\d,.]+)`,
		`Total Amount\s*([\d,.]+)`,
	),
	paymentTerms: compilePatterns(
		`Payment term\s*\n?\s*(.*?)(?:\n|$)`,
		`Payment\s*:\s*(.*?)(?:\n|$)`,
	),
	shippingTerms: compilePatterns(
		`Term\s*(.*?)(?:\n|$)`,
		`CIF\s+(.*?)(?:\n|PORT)`,
	),
	destination: compilePatterns(
		`PORT OF DISCHARGE\s*(.*?)(?:\n|$)`,
		`PORT OF\s*DISCHARGE\s*(.*?)(?:\n|Payment)`,
	),
}

// extractFormat3 handles the "///ORDER CONFIMATION///" contract layout.
// Single line item keyed off the "Grade" label; these sheets always quote in
// USD, so the currency is fixed regardless of the text.
func extractFormat3(text string) Order {
	order := Order{Products: []LineItem{}}

	order.Customer = extractField(text, format3Patterns.customer)
	order.PONumber = extractField(text, format3Patterns.poNumber)
	order.Currency = "USD"

	grade := extractField(text, format3Patterns.grade)
	quantity := extractField(text, format3Patterns.quantity)
	unitPrice := extractField(text, format3Patterns.unitPrice)
	amount := extractField(text, format3Patterns.amount)

	if grade != "" {
		order.Products = append(order.Products, LineItem{
			Name:      "Grade " + grade,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Amount:    amount,
		})
	}

	order.TotalAmount = extractField(text, format3Patterns.totalAmount)
	order.PaymentTerms = extractField(text, format3Patterns.paymentTerms)
	order.Terms = extractField(text, format3Patterns.shippingTerms)
	order.Destination = extractField(text, format3Patterns.destination)

	return order
}
