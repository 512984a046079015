package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPurchaseOrderDispatchesFormat1(t *testing.T) {
	order := ExtractPurchaseOrder(buyersInfoText)

	assert.Equal(t, "550123", order.PONumber)
	assert.Equal(t, "Tokyo Warehouse", order.Destination)
	require.Len(t, order.Products, 1)
	assert.Equal(t, "Frozen Chicken Leg", order.Products[0].Name)
	assert.Equal(t, "1,000", order.Products[0].Quantity)
}

func TestExtractPurchaseOrderDispatchesFormat2(t *testing.T) {
	order := ExtractPurchaseOrder(tabularOrderText)

	assert.Equal(t, "88012", order.PONumber)
	require.Len(t, order.Products, 2)
	assert.Equal(t, "Product A", order.Products[0].Name)
	assert.Equal(t, "Product B", order.Products[1].Name)
}

func TestExtractPurchaseOrderDispatchesFormat3(t *testing.T) {
	order := ExtractPurchaseOrder(orderConfirmationText)

	assert.Equal(t, "GP-2024-117", order.PONumber)
	assert.Equal(t, "USD", order.Currency)
	require.Len(t, order.Products, 1)
	assert.Equal(t, "Grade A7750", order.Products[0].Name)
}

func TestExtractPurchaseOrderFallsBackToGeneric(t *testing.T) {
	// Scenario: unrecognizable text still yields a fully populated order
	// with empty fields and the placeholder line item
	order := ExtractPurchaseOrder("The quick brown fox jumps over the lazy dog.")

	assert.Equal(t, "", order.Customer)
	assert.Equal(t, "", order.PONumber)
	assert.Equal(t, "", order.Currency)
	assert.Equal(t, "", order.TotalAmount)
	require.Len(t, order.Products, 1)
	assert.Equal(t, LineItem{Name: "Unknown Product"}, order.Products[0])
}

func TestExtractPurchaseOrderEmptyInput(t *testing.T) {
	order := ExtractPurchaseOrder("")

	require.Len(t, order.Products, 1)
	assert.Equal(t, "Unknown Product", order.Products[0].Name)
}

func TestExtractPurchaseOrderProductsNeverEmpty(t *testing.T) {
	inputs := []string{
		"",
		"random words",
		buyersInfoText,
		tabularOrderText,
		orderConfirmationText,
		"Purchase Order no: 99\nBuyer: Z", // format2 signals, no items
	}

	for _, text := range inputs {
		order := ExtractPurchaseOrder(text)
		assert.GreaterOrEqual(t, len(order.Products), 1, "input %q", text)
	}
}

func TestExtractionStats(t *testing.T) {
	text := buyersInfoText
	order := ExtractPurchaseOrder(text)

	stats := ExtractionStats(text, order)

	assert.Equal(t, len(text), stats.TextLength)
	assert.Greater(t, stats.WordCount, 0)

	require.Len(t, stats.FormatCandidates, 4)
	assert.Greater(t, stats.FormatCandidates[Format1], 0.4)
	assert.Equal(t, 0.0, stats.FormatCandidates[Format2])
	assert.Equal(t, 0.0, stats.FormatCandidates[Format3])
	assert.Equal(t, 0.0, stats.FormatCandidates[FormatUnknown])

	assert.Equal(t, 1.0, stats.QualityAssessment.Completeness)
}

func TestExtractionStatsUnknownText(t *testing.T) {
	order := ExtractPurchaseOrder("gibberish")
	stats := ExtractionStats("gibberish", order)

	assert.Equal(t, 9, stats.TextLength)
	assert.Equal(t, 1, stats.WordCount)
	assert.Equal(t, 0.0, stats.FormatCandidates[FormatUnknown])
	assert.Equal(t, 0.0, stats.FormatCandidates[Format1])
}
