package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeGapsRoundTrip(t *testing.T) {
	// 30% ideal share of a 1000 total with 200 already bought leaves a 100
	// gap at 33.33%.
	basket := map[string]float64{"FILTERS": 30}
	actual := map[string]float64{"FILTERS": 200, "OTHER": 800}

	opportunities := AnalyzeGaps(basket, actual, 1000, 20.0, 10, 6)
	assert.Len(t, opportunities, 1)

	o := opportunities[0]
	assert.Equal(t, "FILTERS", o.Subcategory)
	assert.InDelta(t, 300.0, o.IdealAmount, 1e-9)
	assert.InDelta(t, 200.0, o.ActualAmount, 1e-9)
	assert.InDelta(t, 100.0, o.GapAmount, 1e-9)
	assert.InDelta(t, 33.33, o.GapPct, 0.01)
	assert.Equal(t, 6, o.LeaderCount)

	// The same gap is excluded under a 40% threshold.
	opportunities = AnalyzeGaps(basket, actual, 1000, 40.0, 10, 6)
	assert.Empty(t, opportunities)
}

func TestAnalyzeGapsUntouchedSubcategory(t *testing.T) {
	// Peers put 15% into FILTERS; the target spends nothing there on a
	// 10000 total: the full ideal amount is the gap.
	basket := map[string]float64{"FILTERS": 15}
	actual := map[string]float64{"LAMPS": 10000}

	opportunities := AnalyzeGaps(basket, actual, 10000, 20.0, 10, 8)
	assert.Len(t, opportunities, 1)

	o := opportunities[0]
	assert.InDelta(t, 1500.0, o.IdealAmount, 1e-9)
	assert.InDelta(t, 1500.0, o.GapAmount, 1e-9)
	assert.InDelta(t, 100.0, o.GapPct, 1e-9)
	assert.InDelta(t, 125.0, o.MonthlyPotential(), 1e-9)
	assert.Equal(t, "high", o.Priority())
}

func TestAnalyzeGapsSortsAndTruncates(t *testing.T) {
	basket := map[string]float64{"A": 40, "B": 30, "C": 20, "D": 10}
	actual := map[string]float64{"E": 1000}

	opportunities := AnalyzeGaps(basket, actual, 1000, 20.0, 3, 5)
	assert.Len(t, opportunities, 3)
	assert.Equal(t, "A", opportunities[0].Subcategory)
	assert.Equal(t, "B", opportunities[1].Subcategory)
	assert.Equal(t, "C", opportunities[2].Subcategory)
	assert.True(t, opportunities[0].GapAmount >= opportunities[1].GapAmount)
}

func TestAnalyzeGapsNegativeOrSmallGapsExcluded(t *testing.T) {
	basket := map[string]float64{"OVERBOUGHT": 10, "NEARLY_COVERED": 50}
	actual := map[string]float64{"OVERBOUGHT": 500, "NEARLY_COVERED": 450}

	// OVERBOUGHT: ideal 100 vs actual 500 (negative gap).
	// NEARLY_COVERED: ideal 500 vs actual 450, gap 50 at 10% (< 20%).
	opportunities := AnalyzeGaps(basket, actual, 950, 20.0, 10, 5)
	assert.Empty(t, opportunities)
}

func TestAnalyzeGapsZeroTotalSpend(t *testing.T) {
	basket := map[string]float64{"FILTERS": 30}
	assert.Empty(t, AnalyzeGaps(basket, map[string]float64{}, 0, 20.0, 10, 5))
}

func TestAnalyzeGapsStableOrderForEqualGaps(t *testing.T) {
	basket := map[string]float64{"X": 25, "Y": 25}
	actual := map[string]float64{"Z": 1000}

	for i := 0; i < 10; i++ {
		opportunities := AnalyzeGaps(basket, actual, 1000, 20.0, 10, 5)
		assert.Len(t, opportunities, 2)
		assert.Equal(t, "X", opportunities[0].Subcategory)
		assert.Equal(t, "Y", opportunities[1].Subcategory)
	}
}

func TestPriorityBuckets(t *testing.T) {
	assert.Equal(t, "high", Opportunity{GapPct: 60}.Priority())
	assert.Equal(t, "medium", Opportunity{GapPct: 40}.Priority())
	assert.Equal(t, "medium", Opportunity{GapPct: 59.9}.Priority())
	assert.Equal(t, "low", Opportunity{GapPct: 39.9}.Priority())
}
