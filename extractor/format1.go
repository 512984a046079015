package extractor

import "regexp"

// currencyPattern finds the first explicit currency code anywhere in the
// text. Case-sensitive on purpose: lowercase "usd" in prose is noise.
var currencyPattern = regexp.MustCompile(`(USD|EUR|JPY|CNY)`)

var format1Patterns = struct {
	customer, poNumber         []*regexp.Regexp
	productName, quantity      []*regexp.Regexp
	unitPrice, amount          []*regexp.Regexp
	totalAmount, paymentTerms  []*regexp.Regexp
	shippingTerms, destination []*regexp.Regexp
}{
	customer: compilePatterns(
		`ABC Company\s*(.*?)(?:\n|$)`,
		`\(Buyer(?:'|’)s Info\).*?([A-Za-z0-9\s]+Company)`,
	),
	poNumber: compilePatterns(
		`Purchase Order(?::|Order|Number)?:?\s*(\d+)`,
		`(?:PO|Order)(?:\s+No)?\.?:?\s*(\d+)`,
	),
	productName: compilePatterns(
		`Item:\s*(.*?)(?:\n|$)`,
		`Product:?\s*(.*?)(?:\n|Quantity)`,
	),
	quantity: compilePatterns(
		`Quantity:\s*([\d,.]+)\s*(?:KG|kg|MT|mt)`,
		`Qty:?\s*([\d,.]+)\s*(?:KG|kg|MT|mt)`,
	),
	unitPrice: compilePatterns(
		`Unit Price:\s*\$?\s*([\d,.]+)`,
		`Unit Price:.*?per\s*.*?\$?\s*([\d,.]+)`,
	),
	amount: compilePatterns(
		`EXT Price:\s*([\d,.]+)`,
		`Amount:\s*([\d,.]+)`,
	),
	totalAmount: compilePatterns(
		`TOTAL\s*([\d,.]+)`,
		`Total:?\s*([\d,.]+)`,
	),
	paymentTerms: compilePatterns(
		`Terms:\s*(.*?)(?:\n|$)`,
		`Payment terms?:?\s*(.*?)(?:\n|$)`,
		`Net Due within\s*(.*?)(?:\n|$)`,
	),
	shippingTerms: compilePatterns(
		`Inco Terms:\s*(.*?)(?:\n|$)`,
		`Shipping Terms:\s*(.*?)(?:\n|$)`,
		`Delivery Terms:\s*(.*?)(?:\n|$)`,
	),
	destination: compilePatterns(
		`Ship to:\s*(.*?)(?:\n|$)`,
		`Destination:\s*(.*?)(?:\n|$)`,
		`Delivery Address:\s*(.*?)(?:\n|$)`,
	),
}

// extractFormat1 handles the "(Buyer's Info)" layout. Single line item:
// name, quantity, unit price and EXT price each live behind their own label.
func extractFormat1(text string) Order {
	order := Order{Products: []LineItem{}}

	order.Customer = extractField(text, format1Patterns.customer)
	order.PONumber = extractField(text, format1Patterns.poNumber)

	if m := currencyPattern.FindStringSubmatch(text); m != nil {
		order.Currency = m[1]
	}

	name := extractField(text, format1Patterns.productName)
	quantity := extractField(text, format1Patterns.quantity)
	unitPrice := extractField(text, format1Patterns.unitPrice)
	amount := extractField(text, format1Patterns.amount)

	if name != "" {
		order.Products = append(order.Products, LineItem{
			Name:      name,
			Quantity:  quantity,
			UnitPrice: unitPrice,
			Amount:    amount,
		})
	}

	order.TotalAmount = extractField(text, format1Patterns.totalAmount)
	order.PaymentTerms = extractField(text, format1Patterns.paymentTerms)
	order.Terms = extractField(text, format1Patterns.shippingTerms)
	order.Destination = extractField(text, format1Patterns.destination)

	return order
}
