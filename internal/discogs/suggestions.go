package discogs

import (
	"github.com/donaldgifford/vinyl-pricer/pkg/condition"
)

// neighborFactor discounts a suggestion borrowed from another grade.
const neighborFactor = 0.9

// PickSuggestion chooses a suggested price for an item in mediaCondition.
// An exact grade match is used as-is. Otherwise the nearest lower grade is
// used at 90%, and failing that the nearest higher grade at 90%. Returns nil
// when the media condition is unknown or nothing usable was suggested.
func PickSuggestion(mediaCondition string, s PriceSuggestions) *float64 {
	grade := condition.Normalize(mediaCondition)
	if !grade.Known() || len(s) == 0 {
		return nil
	}

	byGrade := normalizeSuggestions(s)
	if len(byGrade) == 0 {
		return nil
	}

	if v, ok := byGrade[grade]; ok {
		return &v
	}

	for g := grade + 1; g <= condition.FairPoor; g++ {
		if v, ok := byGrade[g]; ok {
			v *= neighborFactor
			return &v
		}
	}
	for g := grade - 1; g >= condition.Mint; g-- {
		if v, ok := byGrade[g]; ok {
			v *= neighborFactor
			return &v
		}
	}
	return nil
}

// normalizeSuggestions keys suggestions by grade. Fair and Poor share a
// grade; the higher of the two is kept.
func normalizeSuggestions(s PriceSuggestions) map[condition.Grade]float64 {
	out := make(map[condition.Grade]float64, len(s))
	for label, p := range s {
		g := condition.Normalize(label)
		if !g.Known() || p.Value <= 0 {
			continue
		}
		if cur, ok := out[g]; !ok || p.Value > cur {
			out[g] = p.Value
		}
	}
	return out
}
