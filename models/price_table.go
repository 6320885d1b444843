package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// PriceMap maps a garment label to its price in pesos. Labels are free
// text and deliberately not constrained to the style enum; the shop
// prices stock garments the style list does not name exactly.
type PriceMap map[string]int

// Value implements driver.Valuer for gorm serialization.
func (m PriceMap) Value() (driver.Value, error) {
	if m == nil {
		m = PriceMap{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal price map: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for gorm deserialization.
func (m *PriceMap) Scan(value interface{}) error {
	if value == nil {
		*m = PriceMap{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported price map column type %T", value)
	}
	if len(data) == 0 {
		*m = PriceMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// PriceTable holds one user's garment prices. Created on first save,
// fully overwritten on each save, never deleted individually.
type PriceTable struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	Prices    PriceMap  `gorm:"type:text" json:"prices"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the PriceTable model
func (PriceTable) TableName() string {
	return "price_tables"
}

// DefaultPriceTable returns the shop's stock price list for a user who
// has never saved one.
func DefaultPriceTable(userID uint) PriceTable {
	return PriceTable{
		UserID: userID,
		Prices: PriceMap{
			"T-Shirt Jersey":            250,
			"Cropped Jersey":            280,
			"Oversized Jersey":          300,
			"Basketball Jersey":         350,
			"Volleyball Jersey":         350,
			"Longsleeve Warmers Jersey": 320,
			"Polo Shirt":                290,
		},
	}
}

// SetPrice updates one label, coercing the raw input the way the pricing
// screen does.
func (t *PriceTable) SetPrice(label string, amount interface{}) {
	if t.Prices == nil {
		t.Prices = PriceMap{}
	}
	t.Prices[label] = CoercePrice(amount)
}

// CoercePrice turns arbitrary JSON input into an integer price.
// Non-numeric input becomes 0, matching the pricing screen's behavior.
func CoercePrice(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return int(f)
	default:
		return 0
	}
}
