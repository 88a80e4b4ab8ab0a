// Package plans computes a customer's commercial activation plan: its
// current loyalty tier by annual revenue and the distance to the next one.
package plans

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/modules/sales"
	"github.com/antigravity-ar/benchmark/pkg/formulas"
)

// Tier is one level of the activation program.
type Tier struct {
	Name     string   `json:"name"`
	Range    string   `json:"range"`
	Target   float64  `json:"target"`
	Discount string   `json:"discount"`
	Benefits []string `json:"benefits"`
}

// Plan is the customer's activation plan view.
type Plan struct {
	CUIT          string   `json:"cuit"`
	AnnualRevenue float64  `json:"annual_revenue"`
	CurrentTier   string   `json:"current_tier"`
	Tiers         []Tier   `json:"tiers"`
	NextTier      *string  `json:"next_tier,omitempty"`
	RevenueGap    *float64 `json:"revenue_gap,omitempty"`
	ProgressPct   *float64 `json:"progress_pct,omitempty"`
}

var tiers = []Tier{
	{
		Name:     "Bronze",
		Range:    "< $1M annual",
		Target:   1_000_000,
		Discount: "5%",
		Benefits: []string{
			"Base discount 5%",
			"Assigned sales advisor",
			"Commercial analytics portal",
			"Full catalog access",
		},
	},
	{
		Name:     "Silver",
		Range:    "$1M - $3M annual",
		Target:   3_000_000,
		Discount: "5-7%",
		Benefits: []string{
			"Everything in Bronze",
			"Promotional freight on orders over $100k",
			"Critical stock alerts",
			"Monthly tailored reports",
		},
	},
	{
		Name:     "Gold",
		Range:    "$3M - $6M annual",
		Target:   6_000_000,
		Discount: "7-10%",
		Benefits: []string{
			"Everything in Silver",
			"30-day payment terms",
			"Digital co-marketing",
			"Priority technical support",
			"Tailored marketing material",
		},
	},
	{
		Name:     "Platinum",
		Range:    "> $6M annual",
		Target:   10_000_000,
		Discount: "10-15%",
		Benefits: []string{
			"Everything in Gold",
			"Quarterly technical training",
			"Dedicated account manager",
			"Early product launches",
			"Custom commercial terms",
		},
	},
}

// Service computes activation plans
type Service struct {
	salesRepo *sales.Repository
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new plans service
func NewService(salesRepo *sales.Repository, log zerolog.Logger) *Service {
	return &Service{
		salesRepo: salesRepo,
		log:       log.With().Str("module", "plans").Logger(),
		now:       time.Now,
	}
}

// Plan returns the activation plan for a customer. A customer with no sales
// lands in Bronze with zero revenue.
func (s *Service) Plan(cuit string) (*Plan, error) {
	since := sales.TrailingPeriod(s.now())

	lines, err := s.salesRepo.CustomerLines(cuit, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer lines: %w", err)
	}

	revenue := 0.0
	for _, l := range lines {
		revenue += l.Amount
	}

	plan := &Plan{
		CUIT:          cuit,
		AnnualRevenue: formulas.Round2(revenue),
		CurrentTier:   tierFor(revenue),
		Tiers:         tiers,
	}

	if next := nextTier(plan.CurrentTier); next != nil {
		gap := formulas.Round2(next.Target - revenue)
		progress := formulas.Round2(revenue / next.Target * 100)
		plan.NextTier = &next.Name
		plan.RevenueGap = &gap
		plan.ProgressPct = &progress
	}

	return plan, nil
}

// tierFor buckets annual revenue into the program's tiers.
func tierFor(annualRevenue float64) string {
	switch {
	case annualRevenue < 1_000_000:
		return "Bronze"
	case annualRevenue < 3_000_000:
		return "Silver"
	case annualRevenue < 6_000_000:
		return "Gold"
	default:
		return "Platinum"
	}
}

// nextTier returns the tier above the current one, or nil at the top.
func nextTier(current string) *Tier {
	for i := range tiers {
		if tiers[i].Name == current && i < len(tiers)-1 {
			return &tiers[i+1]
		}
	}
	return nil
}
