package extractor

import (
	"regexp"

	"github.com/sirupsen/logrus"
)

// signature is one weighted layout cue. Every matching cue contributes its
// weight to the format's score regardless of position in the list.
type signature struct {
	re     *regexp.Regexp
	weight int
}

func sig(expr string, weight int) signature {
	return signature{re: regexp.MustCompile(`(?i)` + expr), weight: weight}
}

// formatSignatures is the layout fingerprint table. Slice order matters for
// the tie-break only: when two formats score equally, the one listed first
// wins. Adding a layout means adding an entry here plus an extractor case in
// ExtractPurchaseOrder.
var formatSignatures = []struct {
	format Format
	rules  []signature
}{
	{Format1, []signature{
		sig(`\(Buyer(?:'|’)s Info\)`, 10),
		sig(`ABC Company`, 5),
		sig(`Purchase Order:?\s*\d+`, 5),
		sig(`Ship to:`, 3),
		sig(`Unit Price:?\s*\$`, 3),
		sig(`EXT Price:`, 3),
		sig(`Inco Terms:`, 2),
		sig(`Del Date:`, 2),
	}},
	{Format2, []signature{
		sig(`Purchase Order\s*$`, 10),
		sig(`Supplier:`, 5),
		sig(`Purchase Order no:?\s*\d+`, 5),
		sig(`Payment Terms:`, 3),
		sig(`Incoterms:`, 3),
		sig(`Discharge Port:`, 3),
		sig(`Buyer:`, 3),
		sig(`Commodity`, 2),
		sig(`Grand Total`, 2),
	}},
	{Format3, []signature{
		sig(`(?:\/\/\/|///)ORDER CONFIMATION(?:\/\/\/|///)`, 10),
		sig(`Contract Party\s*:`, 5),
		sig(`Order No\.`, 5),
		sig(`Grade [A-Z]`, 3),
		sig(`Qt'y \(mt\)`, 3),
		sig(`PORT OF DISCHARGE`, 3),
		sig(`Payment term`, 2),
		sig(`TIME OF SHIPMENT`, 2),
		sig(`PORT OF LOADING`, 2),
	}},
}

// IdentifyFormat scores the text against each known layout's weighted
// signature patterns and returns the best match with a normalized
// confidence: matched weight divided by the winning format's total
// configured weight. Ties go to the format declared first in the signature
// table, so dispatch is deterministic. When no pattern of any format
// matches, the result is (FormatUnknown, 0.0).
func IdentifyFormat(text string) (Format, float64) {
	best := FormatUnknown
	bestScore := 0
	bestTotal := 0

	for _, entry := range formatSignatures {
		score := 0
		total := 0
		for _, rule := range entry.rules {
			total += rule.weight
			if rule.re.MatchString(text) {
				score += rule.weight
			}
		}
		if score > bestScore {
			best = entry.format
			bestScore = score
			bestTotal = total
		}
	}

	if bestScore == 0 {
		return FormatUnknown, 0.0
	}

	confidence := float64(bestScore) / float64(bestTotal)
	log.WithFields(logrus.Fields{
		"format":     best,
		"confidence": confidence,
	}).Debug("Identified purchase order format")
	return best, confidence
}
