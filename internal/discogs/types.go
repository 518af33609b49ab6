package discogs

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

// Release is one search hit from /database/search.
type Release struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Year    string   `json:"year,omitempty"`
	Country string   `json:"country,omitempty"`
	CatNo   string   `json:"catno,omitempty"`
	Label   []string `json:"label,omitempty"`
	Format  []string `json:"format,omitempty"`
}

type searchResponse struct {
	Results []Release `json:"results"`
}

// Price is a marketplace amount. Discogs normally sends
// {"value": 45.0, "currency": "USD"} but has been seen returning a bare
// number; both decode.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency,omitempty"`
}

// UnmarshalJSON accepts an object, a bare number or null.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		type plain Price
		var v plain
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decoding price object: %w", err)
		}
		*p = Price(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decoding price: %w", err)
	}
	p.Value = f
	return nil
}

// MarketplaceStats is the /marketplace/stats response. Every price is
// optional.
type MarketplaceStats struct {
	LowestPrice     *Price `json:"lowest_price"`
	HighestPrice    *Price `json:"highest_price"`
	MedianPrice     *Price `json:"median_price"`
	LastSoldPrice   *Price `json:"last_sold_price"`
	NumForSale      int    `json:"num_for_sale"`
	BlockedFromSale bool   `json:"blocked_from_sale"`
}

func (p *Price) ptr() *float64 {
	if p == nil {
		return nil
	}
	return pricing.Price(p.Value)
}

// Apply copies the catalog scalars onto in. Absent prices leave the
// corresponding field untouched.
func (s *MarketplaceStats) Apply(in *pricing.Input) {
	if s == nil || in == nil {
		return
	}
	if v := s.HighestPrice.ptr(); v != nil {
		in.DiscogsHigh = v
	}
	if v := s.MedianPrice.ptr(); v != nil {
		in.DiscogsMedian = v
	}
	if v := s.LastSoldPrice.ptr(); v != nil {
		in.DiscogsLast = v
	}
	if v := s.LowestPrice.ptr(); v != nil {
		in.DiscogsLow = v
	}
}

// PriceSuggestions maps Discogs condition labels such as
// "Very Good Plus (VG+)" to a suggested price.
type PriceSuggestions map[string]Price
