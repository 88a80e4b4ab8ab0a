package recommendations

import "github.com/antigravity-ar/benchmark/internal/modules/products"

// SuggestedProduct previews a best-selling product of an opportunity
// subcategory.
type SuggestedProduct struct {
	Code   string        `json:"code"`
	Name   string        `json:"name"`
	Price  float64       `json:"price"`
	Demand string        `json:"demand"`
	Tier   products.Tier `json:"abc_tier,omitempty"`
	Volume int64         `json:"volume_12m"`
}

// FeaturedProduct is a group-wide top seller the customer does not buy yet.
type FeaturedProduct struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Family    string  `json:"family"`
	Price     float64 `json:"price"`
	MarginPct float64 `json:"margin_pct"`
	Rotation  string  `json:"rotation"`
	Reason    string  `json:"reason"`
}

// CategoryOpportunity is one cross-selling opportunity, sized and annotated
// for the presentation layer. Strategies are the light variant; the full
// product lists expand on demand through the strategies endpoint.
type CategoryOpportunity struct {
	ID               int                   `json:"id"`
	Family           string                `json:"family"`
	Reason           string                `json:"reason"`
	MonthlyPotential float64               `json:"monthly_potential"`
	Priority         string                `json:"priority"`
	GapAmount        float64               `json:"gap_amount"`
	GapPct           float64               `json:"gap_pct"`
	SuggestedCount   int                   `json:"suggested_count"`
	Products         []SuggestedProduct    `json:"products"`
	Strategies       products.StrategyPair `json:"strategies"`
}

// Response is the full answer for one customer.
type Response struct {
	CUIT                  string                `json:"cuit"`
	Opportunities         []CategoryOpportunity `json:"opportunities"`
	Featured              []FeaturedProduct     `json:"featured_products"`
	TotalMonthlyPotential float64               `json:"total_monthly_potential"`
}
