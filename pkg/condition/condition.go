// Package condition defines the vinyl media condition ladder and the rules
// that map free-text condition strings (Discogs labels, eBay listing text,
// spreadsheet entries) onto it.
package condition

import (
	"strings"
)

// Grade is a rank on the seven-step condition ladder. Lower ranks are better.
type Grade int

// Ladder grades, best to worst. Unknown is not on the ladder.
const (
	Unknown Grade = iota - 1
	Mint
	NearMint
	VeryGoodPlus
	VeryGood
	GoodPlus
	Good
	FairPoor
)

var abbreviations = [...]string{"M", "NM", "VG+", "VG", "G+", "G", "F/P"}

// Ladder returns the seven grades in rank order.
func Ladder() []Grade {
	return []Grade{Mint, NearMint, VeryGoodPlus, VeryGood, GoodPlus, Good, FairPoor}
}

// Known reports whether g is on the ladder.
func (g Grade) Known() bool {
	return g >= Mint && g <= FairPoor
}

// String returns the ladder abbreviation, or "unknown".
func (g Grade) String() string {
	if !g.Known() {
		return "unknown"
	}
	return abbreviations[g]
}

// rule matches a lower-cased, trimmed condition string.
type rule struct {
	match func(t string) bool
	grade Grade
}

func contains(subs ...string) func(string) bool {
	return func(t string) bool {
		for _, s := range subs {
			if strings.Contains(t, s) {
				return true
			}
		}
		return false
	}
}

func equals(vals ...string) func(string) bool {
	return func(t string) bool {
		for _, v := range vals {
			if t == v {
				return true
			}
		}
		return false
	}
}

func either(fns ...func(string) bool) func(string) bool {
	return func(t string) bool {
		for _, fn := range fns {
			if fn(t) {
				return true
			}
		}
		return false
	}
}

// rules is evaluated top to bottom and the first match wins. Order matters:
// "near mint" must be tested before "mint", "vg+" before "vg", and every
// "plus" grade before its base grade.
var rules = []rule{
	{
		match: either(
			func(t string) bool { return strings.Contains(t, "mint (m)") && !strings.Contains(t, "near") },
			equals("m", "mint"),
		),
		grade: Mint,
	},
	{match: either(contains("near mint", "(nm or m-)", "m-"), equals("nm")), grade: NearMint},
	{match: either(contains("vg+", "very good plus", "excellent"), equals("ex")), grade: VeryGoodPlus},
	{match: either(equals("vg"), contains("very good")), grade: VeryGood},
	{match: contains("g+", "good plus"), grade: GoodPlus},
	{
		match: either(equals("g"), func(t string) bool { return strings.HasPrefix(t, "good") }),
		grade: Good,
	},
	{match: contains("fair", "poor"), grade: FairPoor},

	// Seller prose that never names a grade.
	{match: contains("great shape"), grade: VeryGoodPlus},
	{match: contains("surface noise", "scratches"), grade: VeryGood},
	{match: contains("heavy wear"), grade: Good},
}

// Normalize maps a raw condition string to a Grade. Matching is
// case-insensitive. Returns Unknown when no rule matches.
func Normalize(raw string) Grade {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return Unknown
	}

	for _, r := range rules {
		if r.match(t) {
			return r.grade
		}
	}

	return Unknown
}

// Distance returns the number of ladder steps between a and b. ok is false
// when either grade is Unknown.
func Distance(a, b Grade) (int, bool) {
	if !a.Known() || !b.Known() {
		return 0, false
	}
	d := int(a - b)
	if d < 0 {
		d = -d
	}
	return d, true
}

// Direction describes how a listing's grade relates to the seller's own.
type Direction int

// Direction values.
const (
	Equal Direction = iota
	Better
	Worse
)

// String returns a lower-case name for the direction.
func (d Direction) String() string {
	switch d {
	case Better:
		return "better"
	case Worse:
		return "worse"
	default:
		return "equal"
	}
}

// Compare reports whether listing is Better or Worse than yours. Unknown
// grades on either side compare Equal.
func Compare(listing, yours Grade) Direction {
	if !listing.Known() || !yours.Known() {
		return Equal
	}
	switch {
	case listing < yours:
		return Better
	case listing > yours:
		return Worse
	default:
		return Equal
	}
}
