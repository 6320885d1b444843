package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPriceTable(t *testing.T) {
	table := DefaultPriceTable(7)

	assert.Equal(t, uint(7), table.UserID)
	assert.Equal(t, 250, table.Prices["T-Shirt Jersey"])
	assert.Equal(t, 280, table.Prices["Cropped Jersey"])
	assert.Equal(t, 300, table.Prices["Oversized Jersey"])
	assert.Equal(t, 350, table.Prices["Basketball Jersey"])
	assert.Equal(t, 350, table.Prices["Volleyball Jersey"])
	assert.Equal(t, 320, table.Prices["Longsleeve Warmers Jersey"])
	assert.Equal(t, 290, table.Prices["Polo Shirt"])
	assert.Len(t, table.Prices, 7)
}

func TestSetPrice(t *testing.T) {
	var table PriceTable

	table.SetPrice("Polo Shirt", 310)
	assert.Equal(t, 310, table.Prices["Polo Shirt"])

	// JSON numbers arrive as float64
	table.SetPrice("T-Shirt Jersey", float64(260))
	assert.Equal(t, 260, table.Prices["T-Shirt Jersey"])
}

func TestCoercePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected int
	}{
		{"Int", 250, 250},
		{"Float", 280.0, 280},
		{"Float truncated", 280.9, 280},
		{"JSON number", json.Number("300"), 300},
		{"String rejected", "abc", 0},
		{"Numeric string rejected", "300", 0},
		{"Nil", nil, 0},
		{"Bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoercePrice(tt.input))
		})
	}
}

func TestPriceMapValueScan(t *testing.T) {
	prices := PriceMap{"Polo Shirt": 290}

	value, err := prices.Value()
	assert.NoError(t, err)

	var restored PriceMap
	assert.NoError(t, restored.Scan(value))
	assert.Equal(t, 290, restored["Polo Shirt"])
}
