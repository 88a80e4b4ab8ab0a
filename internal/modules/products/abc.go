package products

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/cache"
	"github.com/antigravity-ar/benchmark/internal/modules/sales"
	"github.com/antigravity-ar/benchmark/pkg/formulas"
)

// Classifier assigns ABC velocity tiers to the products of a subcategory.
// Results are cached per subcategory; the cache is injected so each test can
// use a fresh one.
type Classifier struct {
	salesRepo *sales.Repository
	companies []string
	cache     *cache.Cache
	log       zerolog.Logger
	now       func() time.Time
}

// NewClassifier creates a new ABC classifier
func NewClassifier(salesRepo *sales.Repository, companies []string, c *cache.Cache, log zerolog.Logger) *Classifier {
	return &Classifier{
		salesRepo: salesRepo,
		companies: companies,
		cache:     c,
		log:       log.With().Str("service", "abc_classifier").Logger(),
		now:       time.Now,
	}
}

// SetClock overrides the classifier clock, used by tests.
func (c *Classifier) SetClock(now func() time.Time) {
	c.now = now
}

// Classify returns the subcategory's products ranked by trailing volume with
// their tiers. Empty when the subcategory has no volume.
func (c *Classifier) Classify(subcategory string) ([]ClassifiedProduct, error) {
	if cached, ok := c.cache.Get(subcategory); ok {
		return cached.([]ClassifiedProduct), nil
	}

	since := sales.TrailingPeriod(c.now())
	totals, err := c.salesRepo.ProductTotals(subcategory, c.companies, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load product totals for %q: %w", subcategory, err)
	}

	classified := ClassifyTotals(totals)
	c.cache.Set(subcategory, classified)

	c.log.Debug().
		Str("subcategory", subcategory).
		Int("products", len(classified)).
		Msg("Classified subcategory")

	return classified, nil
}

// ClassificationMap returns the API view keyed by product code.
func (c *Classifier) ClassificationMap(subcategory string) (map[string]Classification, error) {
	classified, err := c.Classify(subcategory)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Classification, len(classified))
	for _, p := range classified {
		out[p.Code] = Classification{
			Tier:     p.Tier,
			Volume:   p.Volume,
			AvgPrice: p.AvgPrice,
		}
	}
	return out, nil
}

// ClassifyTotals walks products in descending volume order and assigns each
// the first tier whose cumulative-volume ceiling it still fits under:
// <=50% AA, <=80% A, <=90% B, above that C. Products with zero total volume
// in the subcategory yield an empty result.
func ClassifyTotals(totals []sales.ProductTotal) []ClassifiedProduct {
	var totalVolume int64
	for _, t := range totals {
		totalVolume += t.Units
	}
	if totalVolume <= 0 {
		return nil
	}

	classified := make([]ClassifiedProduct, 0, len(totals))
	var cumulative int64
	for _, t := range totals {
		cumulative += t.Units
		cumPct := float64(cumulative) / float64(totalVolume) * 100

		var tier Tier
		switch {
		case cumPct <= 50:
			tier = TierAA
		case cumPct <= 80:
			tier = TierA
		case cumPct <= 90:
			tier = TierB
		default:
			tier = TierC
		}

		avgPrice := 0.0
		if t.Units > 0 {
			avgPrice = t.Amount / float64(t.Units)
		}

		classified = append(classified, ClassifiedProduct{
			Code:          t.Code,
			Description:   t.Description,
			Tier:          tier,
			Volume:        t.Units,
			Amount:        t.Amount,
			AvgPrice:      formulas.Round2(avgPrice),
			CumulativePct: formulas.Round2(cumPct),
		})
	}

	return classified
}
