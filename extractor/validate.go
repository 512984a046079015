package extractor

import (
	"regexp"
	"strings"
)

var (
	quantityUnits   = []string{"kg", "KG", "mt", "MT"}
	currencyMarkers = []string{"$", "USD"}

	// keeps digits, thousands separators and decimal points only
	nonNumericPattern = regexp.MustCompile(`[^\d,.]`)
)

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}

// ValidateAndClean normalizes an extracted order in place. When extraction
// found no line items it injects a single "Unknown Product" placeholder, and
// it strips unit suffixes from quantities and currency decoration from
// prices and totals. The stripping is lossy: formatting cues are sacrificed
// so downstream code can treat the values as numbers (thousands separators
// are kept). Calling it twice leaves the order unchanged.
func ValidateAndClean(order *Order) {
	if len(order.Products) == 0 {
		log.Warn("No line items extracted, inserting placeholder product")
		order.Products = append(order.Products, LineItem{Name: "Unknown Product"})
	}

	for i := range order.Products {
		product := &order.Products[i]
		if product.Quantity != "" && containsAny(product.Quantity, quantityUnits) {
			product.Quantity = nonNumericPattern.ReplaceAllString(product.Quantity, "")
		}
		if product.UnitPrice != "" && containsAny(product.UnitPrice, currencyMarkers) {
			product.UnitPrice = nonNumericPattern.ReplaceAllString(product.UnitPrice, "")
		}
		if product.Amount != "" && containsAny(product.Amount, currencyMarkers) {
			product.Amount = nonNumericPattern.ReplaceAllString(product.Amount, "")
		}
	}

	if order.TotalAmount != "" && containsAny(order.TotalAmount, currencyMarkers) {
		order.TotalAmount = nonNumericPattern.ReplaceAllString(order.TotalAmount, "")
	}
}
