package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const buyersInfoText = `(Buyer's Info)
ABC Company Foo Corp
Purchase Order: 550123
Ship to: Tokyo Warehouse
Item: Frozen Chicken Leg
Quantity: 1,000 kg
Unit Price: $10.50
EXT Price: 10,500.00
TOTAL 10,500.00
Terms: Net Due within 30 days
Inco Terms: CIF Tokyo
Currency: USD`

func TestIdentifyFormatBuyersInfo(t *testing.T) {
	format, confidence := IdentifyFormat(buyersInfoText)

	assert.Equal(t, Format1, format)
	assert.Greater(t, confidence, 0.4)
	assert.LessOrEqual(t, confidence, 1.0)
}

func TestIdentifyFormatScenarioA(t *testing.T) {
	text := "Purchase Order: 12345\nABC Company Foo Corp\nShip to: Tokyo\nUnit Price: $10.50\nEXT Price: 100.00"

	format, confidence := IdentifyFormat(text)

	assert.Equal(t, Format1, format)
	assert.Greater(t, confidence, 0.4)
}

func TestIdentifyFormatUnknown(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"Random prose", "The quick brown fox jumps over the lazy dog."},
		{"Empty text", ""},
		{"Digits only", "123 456 789"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			format, confidence := IdentifyFormat(tc.text)
			assert.Equal(t, FormatUnknown, format)
			assert.Equal(t, 0.0, confidence)
		})
	}
}

func TestIdentifyFormatConfidenceUsesWinningFormatTotal(t *testing.T) {
	// "Commodity" is a weight-2 cue out of a total weight of 36 for the
	// tabular format, and matches no other format's signatures.
	format, confidence := IdentifyFormat("Commodity")

	assert.Equal(t, Format2, format)
	assert.InDelta(t, 2.0/36.0, confidence, 1e-9)
}

func TestIdentifyFormatOrderConfirmation(t *testing.T) {
	text := "///ORDER CONFIMATION///\nContract Party : Global Polymers Inc.\nOrder No. GP-2024-117\nGrade A7750\nQt'y (mt) 50.5\nPORT OF DISCHARGE Yokohama"

	format, confidence := IdentifyFormat(text)

	assert.Equal(t, Format3, format)
	assert.Greater(t, confidence, 0.4)
}

func TestIdentifyFormatDeterministic(t *testing.T) {
	inputs := []string{buyersInfoText, "Commodity", "", "random words here"}

	for _, text := range inputs {
		format1st, confidence1st := IdentifyFormat(text)
		format2nd, confidence2nd := IdentifyFormat(text)
		assert.Equal(t, format1st, format2nd)
		assert.Equal(t, confidence1st, confidence2nd)
	}
}

func TestIdentifyFormatConfidenceBounds(t *testing.T) {
	inputs := []string{
		buyersInfoText,
		"Supplier: X\nBuyer: Y\nPayment Terms: Z\nIncoterms: CIF\nDischarge Port: A\nCommodity\nGrand Total",
		"no signals at all",
	}

	for _, text := range inputs {
		_, confidence := IdentifyFormat(text)
		assert.GreaterOrEqual(t, confidence, 0.0)
		assert.LessOrEqual(t, confidence, 1.0)
	}
}
