package pricing

import (
	"github.com/donaldgifford/vinyl-pricer/pkg/condition"
)

// EffectivePrice adds a flat shipping allowance to listings that charge any
// shipping at all, so noisy per-seller shipping policies don't skew the
// comparison.
func EffectivePrice(l Listing, allowance float64) float64 {
	if l.ShippingCost > 0 {
		return l.Price + allowance
	}
	return l.Price
}

// ConditionMultiplier scales a competing listing's price toward the seller's
// own condition. A better-graded listing overstates our value and is
// discounted; a worse-graded one is marked up. Unknown grades on either side
// leave the price unchanged.
func ConditionMultiplier(listingRaw, yourRaw string) float64 {
	theirs := condition.Normalize(listingRaw)
	yours := condition.Normalize(yourRaw)

	d, ok := condition.Distance(theirs, yours)
	if !ok || d == 0 {
		return 1.0
	}

	better := condition.Compare(theirs, yours) == condition.Better
	switch {
	case d == 1 && better:
		return 0.90
	case d == 1:
		return 1.10
	case better:
		return 0.80
	default:
		return 1.20
	}
}

// AdjustedPrice normalizes a single competing listing into a comparable price
// for an item in yourCondition.
func (e *Engine) AdjustedPrice(l Listing, yourCondition string) float64 {
	return EffectivePrice(l, e.cfg.ShippingAllowance) * ConditionMultiplier(l.ConditionRaw, yourCondition)
}

// adjustedPrices normalizes every usable listing. Listings without a
// positive price are skipped: nothing sells for free. So are listings whose
// adjusted price overflows.
func (e *Engine) adjustedPrices(listings []Listing, yourCondition string) []float64 {
	out := make([]float64, 0, len(listings))
	for _, l := range listings {
		if !usable(l.Price) {
			continue
		}
		if l.ShippingCost < 0 {
			l.ShippingCost = 0
		}
		adj := e.AdjustedPrice(l, yourCondition)
		if !usable(adj) {
			continue
		}
		out = append(out, adj)
	}
	return out
}
