// Package profile builds the customer profile view: trailing-12-month
// revenue, volume and activity metrics plus the most recent purchases.
package profile

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/modules/sales"
)

const recentPurchaseLimit = 10

// Purchase is one recent ledger line of the customer.
type Purchase struct {
	Period      string  `json:"period"`
	Code        string  `json:"product_code"`
	Name        string  `json:"product_name"`
	Units       int64   `json:"units"`
	Amount      float64 `json:"amount"`
	Subcategory string  `json:"subcategory"`
}

// Profile is the customer summary view.
type Profile struct {
	CUIT                string     `json:"cuit"`
	Name                string     `json:"name"`
	Activity            string     `json:"activity"`
	AnnualRevenue       float64    `json:"annual_revenue"`
	UnitsBought         int64      `json:"units_bought"`
	OrderCount          int        `json:"order_count"`
	ActiveSubcategories int        `json:"active_subcategories"`
	RecentPurchases     []Purchase `json:"recent_purchases"`
}

// Service computes customer profiles
type Service struct {
	salesRepo *sales.Repository
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new profile service
func NewService(salesRepo *sales.Repository, log zerolog.Logger) *Service {
	return &Service{
		salesRepo: salesRepo,
		log:       log.With().Str("module", "profile").Logger(),
		now:       time.Now,
	}
}

// Get returns the profile for a customer, or nil when the customer has no
// sales in the trailing window.
func (s *Service) Get(cuit string) (*Profile, error) {
	since := sales.TrailingPeriod(s.now())

	lines, err := s.salesRepo.CustomerLines(cuit, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, nil
	}

	p := &Profile{CUIT: cuit, Name: lines[0].CustomerName}

	orders := make(map[string]bool)
	subcategories := make(map[string]bool)
	for _, l := range lines {
		p.AnnualRevenue += l.Amount
		p.UnitsBought += l.Units
		orders[l.Period+"_"+l.Company] = true
		if l.Subcategory != "" {
			subcategories[l.Subcategory] = true
		}
	}
	p.OrderCount = len(orders)
	p.ActiveSubcategories = len(subcategories)
	p.Activity = activityFor(p.AnnualRevenue)

	for _, l := range lines {
		p.RecentPurchases = append(p.RecentPurchases, Purchase{
			Period:      l.Period,
			Code:        l.Code,
			Name:        l.Description,
			Units:       l.Units,
			Amount:      l.Amount,
			Subcategory: l.Subcategory,
		})
		if len(p.RecentPurchases) >= recentPurchaseLimit {
			break
		}
	}

	return p, nil
}

// activityFor classifies the relationship by annual revenue.
func activityFor(annualRevenue float64) string {
	switch {
	case annualRevenue >= 3_000_000:
		return "Active Plus"
	case annualRevenue >= 1_500_000:
		return "Active"
	case annualRevenue >= 500_000:
		return "Developing"
	default:
		return "New"
	}
}
