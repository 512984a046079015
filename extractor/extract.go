// Package extractor turns raw OCR text from scanned purchase-order
// documents into structured order data. It identifies which of the known
// sheet layouts produced the text, dispatches to a layout-specific field
// extractor (or a generic fallback), cleans the result and can score its
// completeness. Everything in this package is a pure function over the
// input text: no state is kept between calls.
package extractor

import (
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogLevel sets the logging level for the extractor package.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// formatConfidenceThreshold is the minimum identification confidence needed
// to trust a layout-specific extractor; anything below falls back to the
// generic one.
const formatConfidenceThreshold = 0.4

// ExtractPurchaseOrder runs the full pipeline on one document's recognized
// text: identify the layout, extract fields with the matching extractor,
// then validate and clean the result. Empty or unrecognizable text is not
// an error; the returned order simply carries empty fields and the
// placeholder line item.
func ExtractPurchaseOrder(text string) Order {
	format, confidence := IdentifyFormat(text)
	log.WithFields(logrus.Fields{
		"format":     format,
		"confidence": confidence,
	}).Info("Dispatching purchase order extraction")

	var order Order
	switch {
	case format == Format1 && confidence >= formatConfidenceThreshold:
		order = extractFormat1(text)
	case format == Format2 && confidence >= formatConfidenceThreshold:
		order = extractFormat2(text)
	case format == Format3 && confidence >= formatConfidenceThreshold:
		order = extractFormat3(text)
	default:
		order = extractGeneric(text)
	}

	ValidateAndClean(&order)
	return order
}

// ExtractionStats reports diagnostics for one extraction run: text size,
// word count, the winning format candidate with its confidence (other
// known formats are listed at 0.0) and a quality assessment of the order.
func ExtractionStats(text string, order Order) Stats {
	stats := Stats{
		TextLength:        len(text),
		WordCount:         len(strings.Fields(text)),
		FormatCandidates:  make(map[Format]float64, 4),
		QualityAssessment: AssessQuality(order),
	}

	winner, confidence := IdentifyFormat(text)
	stats.FormatCandidates[winner] = confidence
	for _, candidate := range []Format{Format1, Format2, Format3, FormatUnknown} {
		if candidate != winner {
			stats.FormatCandidates[candidate] = 0.0
		}
	}

	return stats
}
