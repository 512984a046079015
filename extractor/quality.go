package extractor

import (
	"fmt"
	"math"
	"strings"
)

// Recommendation messages for the three completeness tiers.
const (
	RecommendationLow    = "Extraction quality is low. Please verify the values manually."
	RecommendationFill   = "Some fields are missing. Filling them in manually is recommended."
	RecommendationReview = "Extraction quality is good. Review the content and proceed."
)

// AssessQuality scores how complete an extracted order is. The essential
// fields are customer, poNumber and totalAmount; line items are checked on
// the first product only and reported as one composite entry. Confidence is
// completeness with a deliberate 1.2x upward bias, capped at 1.0.
func AssessQuality(order Order) QualityAssessment {
	missing := []string{}
	if order.Customer == "" {
		missing = append(missing, "customer")
	}
	if order.PONumber == "" {
		missing = append(missing, "poNumber")
	}
	if order.TotalAmount == "" {
		missing = append(missing, "totalAmount")
	}

	const essentialCount = 3
	const productFieldCount = 4

	totalFields := essentialCount
	if len(order.Products) > 0 {
		totalFields += productFieldCount
		first := order.Products[0]
		var missingProduct []string
		if first.Name == "" {
			missingProduct = append(missingProduct, "name")
		}
		if first.Quantity == "" {
			missingProduct = append(missingProduct, "quantity")
		}
		if first.UnitPrice == "" {
			missingProduct = append(missingProduct, "unitPrice")
		}
		if first.Amount == "" {
			missingProduct = append(missingProduct, "amount")
		}
		if len(missingProduct) > 0 {
			missing = append(missing, fmt.Sprintf("products(%s)", strings.Join(missingProduct, ", ")))
		}
	} else {
		// no products at all counts as a single missing slot
		totalFields++
		missing = append(missing, "products")
	}

	completeness := float64(totalFields-len(missing)) / float64(totalFields)
	confidence := math.Min(1.0, completeness*1.2)

	assessment := QualityAssessment{
		Completeness:  round2(completeness),
		Confidence:    round2(confidence),
		MissingFields: missing,
	}

	switch {
	case completeness < 0.5:
		assessment.Recommendation = RecommendationLow
	case completeness < 0.8:
		assessment.Recommendation = RecommendationFill
	default:
		assessment.Recommendation = RecommendationReview
	}

	return assessment
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
