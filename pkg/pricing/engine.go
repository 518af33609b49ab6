package pricing

import (
	"fmt"
	"math"
	"strconv"
)

// Engine runs the pricing cascade with a fixed Config.
type Engine struct {
	cfg Config
}

// New creates an Engine. Out-of-range fields in cfg fall back to the
// DefaultConfig value. The floor is rounded up to a multiple of the quantum
// so every FinalPrice lands on the price grid.
func New(cfg Config) *Engine {
	def := DefaultConfig()
	if !usable(cfg.Floor) {
		cfg.Floor = def.Floor
	}
	if cfg.CompetitiveDiscount < 0 || cfg.CompetitiveDiscount >= 1 {
		cfg.CompetitiveDiscount = def.CompetitiveDiscount
	}
	if cfg.TrimPercent < 0 || cfg.TrimPercent >= 0.5 {
		cfg.TrimPercent = def.TrimPercent
	}
	if cfg.ShippingAllowance < 0 {
		cfg.ShippingAllowance = def.ShippingAllowance
	}
	if !usable(cfg.Quantum) {
		cfg.Quantum = def.Quantum
	}
	if f := ceilTo(cfg.Floor, cfg.Quantum); usable(f) {
		cfg.Floor = f
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

var defaultEngine = New(DefaultConfig())

// Compute prices in with DefaultConfig.
func Compute(in *Input) Result {
	return defaultEngine.Compute(in)
}

// Compute runs the cascade. Each tier is tried in priority order and the
// first that yields a price wins:
//
//	sold listings -> active listings -> Discogs scalars -> reference/comparable -> floor
//
// Every tier except reference/comparable is then subject to the reference
// override.
func (e *Engine) Compute(in *Input) Result {
	if in == nil {
		in = &Input{}
	}

	if res, ok := e.listingTier(in.Sold, in.MediaCondition, StrategySoldSingle, StrategySoldComposite, "sold"); ok {
		return e.applyReferenceOverride(res, in)
	}

	if res, ok := e.listingTier(in.Active, in.MediaCondition, StrategyActive, StrategyActive, "active"); ok {
		return e.applyReferenceOverride(res, in)
	}

	if res, ok := e.discogsTier(in); ok {
		return e.applyReferenceOverride(res, in)
	}

	if res, ok := e.referenceOrComparable(in); ok {
		return res
	}

	return e.applyReferenceOverride(Result{
		FinalPrice: e.cfg.Floor,
		Strategy:   StrategyFloor,
		Notes:      "FLR - Price floor applied",
	}, in)
}

// listingTier prices from a list of competing eBay listings.
func (e *Engine) listingTier(
	listings []Listing,
	yourCondition string,
	single, multi Strategy,
	kind string,
) (Result, bool) {
	adjusted := e.adjustedPrices(listings, yourCondition)
	if len(adjusted) == 0 {
		return Result{}, false
	}

	var (
		price    float64
		strategy Strategy
		source   string
	)
	if len(adjusted) == 1 {
		price = adjusted[0]
		strategy = single
		source = "single " + kind + " eBay listing"
	} else {
		price = Median(adjusted)/2 + TrimmedMean(adjusted, e.cfg.TrimPercent)/2
		strategy = multi
		source = fmt.Sprintf("%d %s eBay listings (median+trimmed composite)", len(adjusted), kind)
	}

	price *= 1 - e.cfg.CompetitiveDiscount
	if !usable(price) {
		return Result{}, false
	}

	return Result{
		FinalPrice: e.finalize(price),
		Strategy:   strategy,
		Notes: fmt.Sprintf(
			"%s - %s, condition-adjusted, $%s shipping rule, %s%% competitive reduction, rounded",
			strategy, source, formatNumber(e.cfg.ShippingAllowance), formatNumber(e.cfg.CompetitiveDiscount*100),
		),
	}, true
}

type scalarSource struct {
	value    *float64
	strategy Strategy
	notes    string
}

// discogsTier uses the first present Discogs scalar, as-is.
func (e *Engine) discogsTier(in *Input) (Result, bool) {
	sources := []scalarSource{
		{in.DiscogsHigh, StrategyDiscogsHigh, "DHIG - Discogs high marketplace price"},
		{in.DiscogsSuggested, StrategyDiscogsSuggest, "DSUG - Discogs price suggestion (condition-based)"},
		{in.DiscogsMedian, StrategyDiscogsMedian, "DMED - Discogs median sold price"},
		{in.DiscogsLast, StrategyDiscogsLast, "DLST - Discogs last sold price"},
		{in.DiscogsLow, StrategyDiscogsLow, "DLOW - Discogs low sold price"},
	}
	return e.firstScalar(sources)
}

func (e *Engine) referenceOrComparable(in *Input) (Result, bool) {
	return e.firstScalar([]scalarSource{
		{in.ReferencePrice, StrategyReference, "REF - Spreadsheet reference"},
		{in.ComparablePrice, StrategyComparable, "CMP - Comparable"},
	})
}

func (e *Engine) firstScalar(sources []scalarSource) (Result, bool) {
	for _, s := range sources {
		v, ok := present(s.value)
		if !ok {
			continue
		}
		return Result{
			FinalPrice: e.finalize(v),
			Strategy:   s.strategy,
			Notes:      s.notes,
		}, true
	}
	return Result{}, false
}

// formatNumber renders v with at most two decimals and no trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
