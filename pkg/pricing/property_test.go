package pricing

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var conditionLabels = []string{
	"", "Mint (M)", "Near Mint (NM or M-)", "Very Good Plus (VG+)", "Very Good (VG)",
	"Good Plus (G+)", "Good (G)", "Fair (F)", "Poor (P)", "Used", "great shape",
}

func genListing() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-10, 500),
		gen.Float64Range(-2, 25),
		gen.IntRange(0, len(conditionLabels)-1),
	).Map(func(v []any) Listing {
		return Listing{
			Price:        v[0].(float64),
			ShippingCost: v[1].(float64),
			ConditionRaw: conditionLabels[v[2].(int)],
		}
	})
}

// genOptionalPrice is absent about half the time.
func genOptionalPrice() gopter.Gen {
	return gen.Float64Range(-500, 500).Map(func(v float64) *float64 {
		if v < 0 {
			return nil
		}
		return Price(v)
	})
}

func genListings() gopter.Gen {
	return gen.IntRange(0, 4).FlatMap(func(n any) gopter.Gen {
		return gen.SliceOfN(n.(int), genListing())
	}, reflect.TypeOf([]Listing{}))
}

// cascadeDepth is the number of price sources, in cascade order, that an
// input can have cleared before it reaches the floor.
const cascadeDepth = 9

// genInput clears a random number of leading price sources so every tier of
// the cascade, down to the floor, is the first one available often enough.
func genInput() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, len(conditionLabels)-1),
		genOptionalPrice(),
		genOptionalPrice(),
		genOptionalPrice(),
		genOptionalPrice(),
		genOptionalPrice(),
		genOptionalPrice(),
		genOptionalPrice(),
		genListings(),
		genListings(),
		gen.IntRange(0, cascadeDepth),
	).Map(func(v []any) *Input {
		in := &Input{
			MediaCondition:   conditionLabels[v[0].(int)],
			ReferencePrice:   v[1].(*float64),
			DiscogsHigh:      v[2].(*float64),
			DiscogsSuggested: v[3].(*float64),
			DiscogsMedian:    v[4].(*float64),
			DiscogsLow:       v[5].(*float64),
			ComparablePrice:  v[6].(*float64),
			DiscogsLast:      v[7].(*float64),
			Sold:             v[8].([]Listing),
			Active:           v[9].([]Listing),
		}
		clearers := []func(){
			func() { in.Sold = nil },
			func() { in.Active = nil },
			func() { in.DiscogsHigh = nil },
			func() { in.DiscogsSuggested = nil },
			func() { in.DiscogsMedian = nil },
			func() { in.DiscogsLast = nil },
			func() { in.DiscogsLow = nil },
			func() { in.ReferencePrice = nil },
			func() { in.ComparablePrice = nil },
		}
		for _, c := range clearers[:v[10].(int)] {
			c()
		}
		return in
	})
}

func isQuarter(v float64) bool {
	q := v / 0.25
	return math.Abs(q-math.Round(q)) < 1e-6
}

func TestCompute_Properties(t *testing.T) {
	t.Parallel()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("price is never below the floor", prop.ForAll(
		func(in *Input) bool {
			return Compute(in).FinalPrice >= 5.00
		},
		genInput(),
	))

	properties.Property("price is a multiple of the quantum", prop.ForAll(
		func(in *Input) bool {
			return isQuarter(Compute(in).FinalPrice)
		},
		genInput(),
	))

	properties.Property("result is deterministic", prop.ForAll(
		func(in *Input) bool {
			return Compute(in) == Compute(in)
		},
		genInput(),
	))

	properties.Property("listing order does not matter", prop.ForAll(
		func(in *Input) bool {
			rev := *in
			rev.Sold = reversed(in.Sold)
			rev.Active = reversed(in.Active)
			return Compute(in) == Compute(&rev)
		},
		genInput(),
	))

	properties.Property("reference never loses to a lower automated price", prop.ForAll(
		func(in *Input) bool {
			ref, ok := present(in.ReferencePrice)
			if !ok {
				return true
			}
			return Compute(in).FinalPrice >= math.Max(Round(ref, 0.25), 5.00)
		},
		genInput(),
	))

	properties.Property("strategy code is from the fixed vocabulary", prop.ForAll(
		func(in *Input) bool {
			s := Compute(in).Strategy
			for _, known := range Strategies() {
				if s == known {
					return true
				}
			}
			return false
		},
		genInput(),
	))

	properties.TestingRun(t)
}

func reversed(ls []Listing) []Listing {
	out := make([]Listing, len(ls))
	for i, l := range ls {
		out[len(ls)-1-i] = l
	}
	return out
}

func TestGenInput_ReachesEveryStrategy(t *testing.T) {
	t.Parallel()

	params := gopter.DefaultGenParameters()
	params.Rng = rand.New(rand.NewSource(1))
	g := genInput()

	seen := map[Strategy]int{}
	for range 3000 {
		v, ok := g(params).Retrieve()
		require.True(t, ok)
		seen[Compute(v.(*Input)).Strategy]++
	}

	for _, s := range Strategies() {
		assert.Positive(t, seen[s], "strategy %s never produced", s)
	}
}
