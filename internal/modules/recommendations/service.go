// Package recommendations assembles the customer-facing opportunity list:
// benchmark gaps enriched with suggested products, purchasing strategies and
// featured products.
package recommendations

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/modules/affinity"
	"github.com/antigravity-ar/benchmark/internal/modules/benchmark"
	"github.com/antigravity-ar/benchmark/internal/modules/products"
	"github.com/antigravity-ar/benchmark/internal/modules/sales"
	"github.com/antigravity-ar/benchmark/pkg/formulas"
)

const (
	suggestedProductLimit = 3
	featuredProductLimit  = 3
	featuredCandidatePool = 100
)

// featuredReasons cycle across the featured-product slots.
var featuredReasons = []string{
	"Top seller in your segment",
	"Complements your portfolio",
	"Growing trend",
	"High regional demand",
}

// Service assembles opportunity responses
type Service struct {
	engine     *benchmark.Service
	classifier *products.Classifier
	assembler  *products.Assembler
	affinity   *affinity.Service
	salesRepo  *sales.Repository
	companies  []string
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates a new recommendations service
func NewService(
	engine *benchmark.Service,
	classifier *products.Classifier,
	assembler *products.Assembler,
	aff *affinity.Service,
	salesRepo *sales.Repository,
	companies []string,
	log zerolog.Logger,
) *Service {
	return &Service{
		engine:     engine,
		classifier: classifier,
		assembler:  assembler,
		affinity:   aff,
		salesRepo:  salesRepo,
		companies:  companies,
		log:        log.With().Str("module", "recommendations").Logger(),
		now:        time.Now,
	}
}

// Opportunities returns the assembled response for a customer. A customer
// without benchmark data still receives featured products over an empty
// opportunity list.
func (s *Service) Opportunities(cuit string) (*Response, error) {
	gaps, err := s.engine.Opportunities(cuit)
	if err != nil {
		return nil, fmt.Errorf("gap analysis failed for %s: %w", cuit, err)
	}

	resp := &Response{
		CUIT:          cuit,
		Opportunities: []CategoryOpportunity{},
	}

	total := 0.0
	for i, gap := range gaps {
		opp := CategoryOpportunity{
			ID:               i + 1,
			Family:           gap.Subcategory,
			Reason:           reasonFor(gap),
			MonthlyPotential: gap.MonthlyPotential(),
			Priority:         gap.Priority(),
			GapAmount:        gap.GapAmount,
			GapPct:           gap.GapPct,
		}

		// Product enrichment is best-effort: one subcategory failing to
		// classify must not abort the whole list.
		opp.Products = s.suggestedProducts(gap.Subcategory)
		opp.SuggestedCount = len(opp.Products)

		pair, err := s.assembler.StrategiesLight(gap.Subcategory)
		if err != nil {
			s.log.Warn().Err(err).Str("subcategory", gap.Subcategory).Msg("Strategies unavailable")
		} else {
			opp.Strategies = pair
		}

		resp.Opportunities = append(resp.Opportunities, opp)
		total += opp.MonthlyPotential
	}
	resp.TotalMonthlyPotential = formulas.Round2(total)

	resp.Featured = s.featuredProducts(cuit)

	return resp, nil
}

// Strategies exposes the full strategy pair for on-demand expansion.
func (s *Service) Strategies(subcategory string) (products.StrategyPair, error) {
	return s.assembler.Strategies(subcategory)
}

// Classification exposes the ABC mapping of a subcategory.
func (s *Service) Classification(subcategory string) (map[string]products.Classification, error) {
	return s.classifier.ClassificationMap(subcategory)
}

// reasonFor renders the explanation shown next to an opportunity.
func reasonFor(gap benchmark.Opportunity) string {
	return fmt.Sprintf(
		"Leaders of your segment (%d customers) put %.1f%% of their budget into this category. Detected gap: %.0f%%",
		gap.LeaderCount, gap.IdealSharePct, gap.GapPct,
	)
}

// suggestedProducts previews the subcategory's best sellers, annotated with
// their ABC tier when the classification is available.
func (s *Service) suggestedProducts(subcategory string) []SuggestedProduct {
	since := sales.TrailingPeriod(s.now())

	top, err := s.salesRepo.TopProductsByRevenue(subcategory, s.companies, since, suggestedProductLimit)
	if err != nil {
		s.log.Warn().Err(err).Str("subcategory", subcategory).Msg("Suggested products unavailable")
		return nil
	}

	tiers := make(map[string]products.Tier)
	if classification, err := s.classifier.ClassificationMap(subcategory); err == nil {
		for code, c := range classification {
			tiers[code] = c.Tier
		}
	}

	var suggestions []SuggestedProduct
	for _, p := range top {
		price := 0.0
		if p.Units > 0 {
			price = formulas.Round2(p.Amount / float64(p.Units))
		}
		suggestions = append(suggestions, SuggestedProduct{
			Code:   p.Code,
			Name:   p.Description,
			Price:  price,
			Demand: products.DemandFor(p.Units),
			Tier:   tiers[p.Code],
			Volume: p.Units,
		})
	}

	return suggestions
}

// featuredProducts picks group-wide top sellers the customer does not buy,
// filtered by brand affinity. Best-effort: failures yield an empty list.
func (s *Service) featuredProducts(cuit string) []FeaturedProduct {
	since := sales.TrailingPeriod(s.now())

	owned, err := s.salesRepo.PurchasedProductCodes(cuit, s.companies, since)
	if err != nil {
		s.log.Warn().Err(err).Str("cuit", cuit).Msg("Featured products unavailable")
		return nil
	}

	candidates, err := s.salesRepo.GlobalTopProducts(s.companies, since, featuredCandidatePool)
	if err != nil {
		s.log.Warn().Err(err).Str("cuit", cuit).Msg("Featured products unavailable")
		return nil
	}

	dominant := s.affinity.DominantBrands(cuit)

	var featured []FeaturedProduct
	for _, c := range candidates {
		if owned[c.Code] || !affinity.Allowed(c.Brand, dominant) {
			continue
		}

		price := 0.0
		if c.Units > 0 {
			price = formulas.Round2(c.Amount / float64(c.Units))
		}

		slot := len(featured)
		featured = append(featured, FeaturedProduct{
			Code:      c.Code,
			Name:      c.Description,
			Family:    c.Subcategory,
			Price:     price,
			MarginPct: 30.0 + float64(slot%3)*5,
			Rotation:  products.RotationFor(c.Units),
			Reason:    featuredReasons[slot%len(featuredReasons)],
		})

		if len(featured) >= featuredProductLimit {
			break
		}
	}

	return featured
}
