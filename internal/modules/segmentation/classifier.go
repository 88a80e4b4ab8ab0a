package segmentation

import (
	"sort"

	"github.com/antigravity-ar/benchmark/pkg/formulas"
)

// Classify derives a customer's micro-segment from its trailing-12-month
// spend, grouped by category and by subcategory. Returns false when the
// customer has no qualifying spend; such customers are skipped, never
// assigned a segment.
func Classify(byCategory, bySubcategory map[string]float64) (mix MixType, dominant, topSub string, sharePct float64, ok bool) {
	total := 0.0
	for _, amount := range byCategory {
		total += amount
	}
	if total <= 0 || len(byCategory) == 0 || len(bySubcategory) == 0 {
		return "", "", "", 0, false
	}

	dominant, dominantSpend := argmax(byCategory)
	topSub, topSubSpend := argmax(bySubcategory)

	maxShare := dominantSpend / total
	switch {
	case maxShare > 0.60:
		mix = PureSpecialist
	case maxShare > 0.40:
		mix = DominantSpecialist
	default:
		mix = MultiCategory
	}

	sharePct = formulas.Round2(topSubSpend / total * 100)

	return mix, dominant, topSub, sharePct, true
}

// argmax returns the key with the largest value. Ties break on the smaller
// key so repeated runs over the same ledger produce the same assignment.
func argmax(totals map[string]float64) (string, float64) {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var bestKey string
	bestVal := 0.0
	first := true
	for _, k := range keys {
		if first || totals[k] > bestVal {
			bestKey, bestVal = k, totals[k]
			first = false
		}
	}
	return bestKey, bestVal
}
