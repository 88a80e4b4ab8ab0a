package products

import (
	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/cache"
	"github.com/antigravity-ar/benchmark/pkg/formulas"
)

// Strategy picks are capped per strategy; a subcategory rarely has this many
// fast movers, but the bound keeps payloads predictable.
const maxStrategyProducts = 50

// Assembler builds the two purchasing strategies of a subcategory from its
// ABC classification. Strategies are cached separately from classifications,
// with their own shorter TTL.
type Assembler struct {
	classifier *Classifier
	cache      *cache.Cache
	log        zerolog.Logger
}

// NewAssembler creates a new strategy assembler
func NewAssembler(classifier *Classifier, c *cache.Cache, log zerolog.Logger) *Assembler {
	return &Assembler{
		classifier: classifier,
		cache:      c,
		log:        log.With().Str("service", "strategy_assembler").Logger(),
	}
}

// Strategies returns the full pair for a subcategory, products included.
func (a *Assembler) Strategies(subcategory string) (StrategyPair, error) {
	if cached, ok := a.cache.Get(subcategory); ok {
		return cached.(StrategyPair), nil
	}

	classified, err := a.classifier.Classify(subcategory)
	if err != nil {
		return StrategyPair{}, err
	}

	pair := BuildStrategies(classified)
	a.cache.Set(subcategory, pair)

	return pair, nil
}

// StrategiesLight returns the pair without product lists, for low-payload
// summaries; totals and counts are preserved.
func (a *Assembler) StrategiesLight(subcategory string) (StrategyPair, error) {
	pair, err := a.Strategies(subcategory)
	if err != nil {
		return StrategyPair{}, err
	}

	pair.Try.Products = nil
	pair.Confidence.Products = nil
	return pair, nil
}

// BuildStrategies derives both strategies from a classified product list.
//
// "try" holds only AA products; its minimum and maximum totals are equal
// (single tier, no range). "confidence" holds AA plus A; its minimum is the
// try total and its maximum the sum over both tiers.
func BuildStrategies(classified []ClassifiedProduct) StrategyPair {
	tryProducts := pickByTier(classified, map[Tier]bool{TierAA: true})
	confProducts := pickByTier(classified, map[Tier]bool{TierAA: true, TierA: true})

	tryTotal := sumTotals(tryProducts)
	confTotal := sumTotals(confProducts)

	return StrategyPair{
		Try: Strategy{
			Type:         "try",
			Products:     tryProducts,
			MinTotal:     tryTotal,
			MaxTotal:     tryTotal,
			ProductCount: len(tryProducts),
			Description:  "Fastest-moving products only, the smallest basket to test the category",
		},
		Confidence: Strategy{
			Type:         "confidence",
			Products:     confProducts,
			MinTotal:     tryTotal,
			MaxTotal:     confTotal,
			ProductCount: len(confProducts),
			Description:  "Full AA and A depth for a committed entry into the category",
		},
	}
}

func pickByTier(classified []ClassifiedProduct, tiers map[Tier]bool) []StrategyProduct {
	var picks []StrategyProduct
	for _, p := range classified {
		if !tiers[p.Tier] {
			continue
		}
		picks = append(picks, StrategyProduct{
			Code:       p.Code,
			Name:       p.Description,
			Price:      p.AvgPrice,
			Demand:     DemandFor(p.Volume),
			Tier:       p.Tier,
			Volume:     p.Volume,
			TotalPrice: p.AvgPrice, // minimum quantity of one
		})
		if len(picks) >= maxStrategyProducts {
			break
		}
	}
	return picks
}

func sumTotals(picks []StrategyProduct) float64 {
	total := 0.0
	for _, p := range picks {
		total += p.TotalPrice
	}
	return formulas.Round2(total)
}
