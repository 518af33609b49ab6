package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Storefront import columns written by EnrichRow.
const (
	ColumnPrice    = "Price"
	ColumnStrategy = "Pricing Strategy Used"
	ColumnNotes    = "Pricing Notes"
)

// FormatPrice renders a final price with exactly two decimals.
func FormatPrice(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// EnrichRow writes the pricing columns into an export row. Values are copied
// verbatim; the row writer must not re-round them.
func EnrichRow(row map[string]string, res Result) map[string]string {
	if row == nil {
		row = make(map[string]string, 3)
	}
	row[ColumnPrice] = FormatPrice(res.FinalPrice)
	row[ColumnStrategy] = string(res.Strategy)
	row[ColumnNotes] = res.Notes
	return row
}

// ParsePrice reads a human-entered price such as "$1,250.00". Blank,
// malformed and non-positive values return nil so callers never pass
// garbage into an Input.
func ParsePrice(raw string) *float64 {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		return nil
	}

	v := d.InexactFloat64()
	return &v
}
