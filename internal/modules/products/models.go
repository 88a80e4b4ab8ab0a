package products

// Tier is an ABC velocity tier. AA moves fastest, C slowest.
type Tier string

const (
	TierAA Tier = "AA"
	TierA  Tier = "A"
	TierB  Tier = "B"
	TierC  Tier = "C"
)

// ClassifiedProduct is one product's ABC classification within a
// subcategory, over the trailing 12 months.
type ClassifiedProduct struct {
	Code          string
	Description   string
	Tier          Tier
	Volume        int64
	Amount        float64
	AvgPrice      float64
	CumulativePct float64
}

// Classification is the API view of a subcategory's ABC table, keyed by
// product code.
type Classification struct {
	Tier     Tier    `json:"tier"`
	Volume   int64   `json:"volume"`
	AvgPrice float64 `json:"avg_price"`
}

// StrategyProduct is a product pick inside a purchasing strategy. TotalPrice
// is price times the suggested minimum quantity of one.
type StrategyProduct struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Demand     string  `json:"demand"`
	Tier       Tier    `json:"abc_tier"`
	Volume     int64   `json:"volume_12m"`
	TotalPrice float64 `json:"total_price"`
}

// Strategy is a purchasing proposal over a subcategory's classified
// products: "try" buys only AA products, "confidence" extends to AA plus A.
// In the light variant Products is nil and only the totals remain.
type Strategy struct {
	Type         string            `json:"type"`
	Products     []StrategyProduct `json:"products,omitempty"`
	MinTotal     float64           `json:"min_total"`
	MaxTotal     float64           `json:"max_total"`
	ProductCount int               `json:"product_count"`
	Description  string            `json:"description"`
}

// StrategyPair bundles both strategies for one subcategory.
type StrategyPair struct {
	Try        Strategy `json:"try_strategy"`
	Confidence Strategy `json:"confidence_strategy"`
}

// DemandFor labels expected demand from trailing unit volume.
func DemandFor(units int64) string {
	switch {
	case units >= 100:
		return "high"
	case units >= 50:
		return "medium"
	default:
		return "low"
	}
}

// RotationFor labels sales rotation for featured products.
func RotationFor(units int64) string {
	switch {
	case units >= 100:
		return "very high"
	case units >= 50:
		return "high"
	default:
		return "medium"
	}
}
