// Package pricing turns heterogeneous, partially missing market signals for a
// used record into one listing price, the strategy code that produced it,
// and an ASCII audit note.
//
// Compute is a pure function of its Input: no I/O, no shared state. It is
// safe to call concurrently and always returns a Result.
package pricing

import (
	"math"
)

// Strategy identifies which rule produced a price. The vocabulary is fixed;
// downstream audit tooling matches on these exact strings.
type Strategy string

// Strategy codes, in cascade priority order.
const (
	StrategySoldSingle     Strategy = "EB1"
	StrategySoldComposite  Strategy = "EBC"
	StrategyActive         Strategy = "EBA"
	StrategyDiscogsHigh    Strategy = "DHIG"
	StrategyDiscogsSuggest Strategy = "DSUG"
	StrategyDiscogsMedian  Strategy = "DMED"
	StrategyDiscogsLast    Strategy = "DLST"
	StrategyDiscogsLow     Strategy = "DLOW"
	StrategyReference      Strategy = "REF"
	StrategyComparable     Strategy = "CMP"
	StrategyFloor          Strategy = "FLR"
)

// Strategies returns every strategy code in cascade priority order.
func Strategies() []Strategy {
	return []Strategy{
		StrategySoldSingle,
		StrategySoldComposite,
		StrategyActive,
		StrategyDiscogsHigh,
		StrategyDiscogsSuggest,
		StrategyDiscogsMedian,
		StrategyDiscogsLast,
		StrategyDiscogsLow,
		StrategyReference,
		StrategyComparable,
		StrategyFloor,
	}
}

// Listing is one competing sale or offer from a marketplace search.
type Listing struct {
	Price        float64 `json:"price"                   yaml:"price"`
	ShippingCost float64 `json:"shipping_cost,omitempty" yaml:"shipping_cost"`
	ConditionRaw string  `json:"condition_raw,omitempty" yaml:"condition_raw"`
}

// Input is everything known about one item's market value. Optional prices
// are pointers; nil, zero, negative and non-finite values all mean "absent".
type Input struct {
	FormatType     string   `json:"format_type,omitempty"     yaml:"format_type"`
	MediaCondition string   `json:"media_condition,omitempty" yaml:"media_condition"`
	ReferencePrice *float64 `json:"reference_price,omitempty" yaml:"reference_price"`

	DiscogsHigh      *float64 `json:"discogs_high,omitempty"      yaml:"discogs_high"`
	DiscogsSuggested *float64 `json:"discogs_suggested,omitempty" yaml:"discogs_suggested"`
	DiscogsMedian    *float64 `json:"discogs_median,omitempty"    yaml:"discogs_median"`
	DiscogsLast      *float64 `json:"discogs_last,omitempty"      yaml:"discogs_last"`
	DiscogsLow       *float64 `json:"discogs_low,omitempty"       yaml:"discogs_low"`

	ComparablePrice *float64 `json:"comparable_price,omitempty" yaml:"comparable_price"`

	// Sold listings take priority over Active ones.
	Sold   []Listing `json:"sold,omitempty"   yaml:"sold"`
	Active []Listing `json:"active,omitempty" yaml:"active"`
}

// Result is the outcome of one pricing decision.
type Result struct {
	FinalPrice float64  `json:"final_price"`
	Strategy   Strategy `json:"strategy_code"`
	Notes      string   `json:"notes"`
}

// Config holds the tunable constants of the pricing cascade.
type Config struct {
	// Floor is the minimum price any strategy may produce.
	Floor float64
	// CompetitiveDiscount is taken off listing-derived prices (0.10 = 10%).
	CompetitiveDiscount float64
	// TrimPercent is cut from each end before the trimmed mean.
	TrimPercent float64
	// ShippingAllowance replaces any positive listing shipping cost.
	ShippingAllowance float64
	// Quantum is the rounding granularity.
	Quantum float64
}

// DefaultConfig returns the production pricing constants.
func DefaultConfig() Config {
	return Config{
		Floor:               5.00,
		CompetitiveDiscount: 0.10,
		TrimPercent:         0.10,
		ShippingAllowance:   5.00,
		Quantum:             0.25,
	}
}

// Price returns a pointer to v, for building Inputs.
func Price(v float64) *float64 {
	return &v
}

// present unwraps an optional price, treating non-positive and non-finite
// values as absent.
func present(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, usable(*p)
}

func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
