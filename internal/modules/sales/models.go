package sales

import "time"

// PeriodFormat is the year-month layout used by the ledger's period column.
const PeriodFormat = "2006-01"

// TrailingPeriod returns the period string marking the start of the trailing
// 365-day window ending at now. Every aggregation in this module is
// restricted to periods >= this value.
func TrailingPeriod(now time.Time) string {
	return now.AddDate(0, 0, -365).Format(PeriodFormat)
}

// Customer identifies a buyer within one group company.
type Customer struct {
	CUIT    string
	Name    string
	Company string
}

// CustomerSpend is a customer's aggregated spend over a window.
type CustomerSpend struct {
	CUIT  string
	Total float64
}

// ProductTotal is a product's aggregated spend and volume within one
// subcategory over a window.
type ProductTotal struct {
	Code        string
	Description string
	Amount      float64
	Units       int64
}

// GlobalProduct is a top-selling product across all subcategories.
type GlobalProduct struct {
	Code        string
	Description string
	Subcategory string
	Brand       string
	Amount      float64
	Units       int64
}

// SaleLine is a single ledger row, used for profile views.
type SaleLine struct {
	Period       string
	CustomerName string
	Company      string
	Subcategory  string
	Code         string
	Description  string
	Amount       float64
	Units        int64
}
