package benchmark

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/modules/sales"
	"github.com/antigravity-ar/benchmark/pkg/formulas"
)

// BasketBuilder computes the ideal basket: the leaders' combined spend
// distribution across subcategories, as percentage shares.
type BasketBuilder struct {
	salesRepo *sales.Repository
	companies []string
	log       zerolog.Logger
}

// NewBasketBuilder creates a new basket builder
func NewBasketBuilder(salesRepo *sales.Repository, companies []string, log zerolog.Logger) *BasketBuilder {
	return &BasketBuilder{
		salesRepo: salesRepo,
		companies: companies,
		log:       log.With().Str("service", "basket_builder").Logger(),
	}
}

// IdealBasket maps subcategory to its share of the leaders' total spend,
// rounded to 2 decimals. Empty when there are no leaders or no spend.
func (b *BasketBuilder) IdealBasket(leaders []string, since string) (map[string]float64, error) {
	if len(leaders) == 0 {
		return map[string]float64{}, nil
	}

	totals, err := b.salesRepo.GroupSpendBySubcategory(leaders, b.companies, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate leader spend: %w", err)
	}

	grandTotal := 0.0
	for _, amount := range totals {
		grandTotal += amount
	}
	if grandTotal == 0 {
		return map[string]float64{}, nil
	}

	basket := make(map[string]float64, len(totals))
	for subcategory, amount := range totals {
		basket[subcategory] = formulas.Round2(amount / grandTotal * 100)
	}

	return basket, nil
}
