package pricing

import (
	"fmt"
	"strings"
)

const overrideNotePrefix = "REF - Spreadsheet reference (overrides lower "

// Overridden reports whether the reference override replaced an automated
// price.
func (r Result) Overridden() bool {
	return r.Strategy == StrategyReference && strings.HasPrefix(r.Notes, overrideNotePrefix)
}

// applyReferenceOverride replaces res with the human-entered reference price
// when that price, rounded and floored, is strictly higher. An automated
// estimate never undercuts an explicit price judgment.
func (e *Engine) applyReferenceOverride(res Result, in *Input) Result {
	ref, ok := present(in.ReferencePrice)
	if !ok {
		return res
	}

	ref = e.finalize(ref)
	if ref <= res.FinalPrice {
		return res
	}

	return Result{
		FinalPrice: ref,
		Strategy:   StrategyReference,
		Notes: fmt.Sprintf(
			overrideNotePrefix+"%s price %.2f)",
			res.Strategy, res.FinalPrice,
		),
	}
}
