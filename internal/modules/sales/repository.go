package sales

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Repository is the read-only query surface over the sales ledger. All
// methods aggregate the trailing window starting at the given since period;
// callers obtain it from TrailingPeriod.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new sales repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "sales").Logger(),
	}
}

// placeholders returns "?, ?, ..." for n values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// SpendByCategory sums a customer's spend per top-level category within one
// company over the window.
func (r *Repository) SpendByCategory(cuit, company, since string) (map[string]float64, error) {
	query := `
		SELECT category, SUM(amount)
		FROM sales
		WHERE cuit = ? AND company = ? AND period >= ?
		AND category IS NOT NULL
		GROUP BY category
	`
	return r.queryTotals(query, cuit, company, since)
}

// SpendBySubcategoryForCompany sums a customer's spend per subcategory within
// one company over the window.
func (r *Repository) SpendBySubcategoryForCompany(cuit, company, since string) (map[string]float64, error) {
	query := `
		SELECT subcategory, SUM(amount)
		FROM sales
		WHERE cuit = ? AND company = ? AND period >= ?
		AND subcategory IS NOT NULL
		GROUP BY subcategory
	`
	return r.queryTotals(query, cuit, company, since)
}

// SpendBySubcategory sums a customer's spend per subcategory across the
// scoped companies over the window.
func (r *Repository) SpendBySubcategory(cuit string, companies []string, since string) (map[string]float64, error) {
	query := fmt.Sprintf(`
		SELECT subcategory, SUM(amount)
		FROM sales
		WHERE cuit = ? AND period >= ? AND company IN (%s)
		AND subcategory IS NOT NULL
		GROUP BY subcategory
	`, placeholders(len(companies)))

	args := append([]interface{}{cuit, since}, toArgs(companies)...)
	return r.queryTotals(query, args...)
}

// GroupSpendBySubcategory sums spend per subcategory across a set of
// customers, used to build the leaders' basket.
func (r *Repository) GroupSpendBySubcategory(cuits, companies []string, since string) (map[string]float64, error) {
	if len(cuits) == 0 {
		return map[string]float64{}, nil
	}

	query := fmt.Sprintf(`
		SELECT subcategory, SUM(amount)
		FROM sales
		WHERE cuit IN (%s) AND period >= ? AND company IN (%s)
		AND subcategory IS NOT NULL
		GROUP BY subcategory
	`, placeholders(len(cuits)), placeholders(len(companies)))

	args := toArgs(cuits)
	args = append(args, since)
	args = append(args, toArgs(companies)...)
	return r.queryTotals(query, args...)
}

// TotalSpendByCustomer sums each listed customer's spend across the scoped
// companies, keeping only customers with positive spend.
func (r *Repository) TotalSpendByCustomer(cuits, companies []string, since string) ([]CustomerSpend, error) {
	if len(cuits) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT cuit, SUM(amount) AS total
		FROM sales
		WHERE cuit IN (%s) AND period >= ? AND company IN (%s)
		GROUP BY cuit
		HAVING SUM(amount) > 0
	`, placeholders(len(cuits)), placeholders(len(companies)))

	args := toArgs(cuits)
	args = append(args, since)
	args = append(args, toArgs(companies)...)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer spend: %w", err)
	}
	defer rows.Close()

	var spends []CustomerSpend
	for rows.Next() {
		var s CustomerSpend
		if err := rows.Scan(&s.CUIT, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan customer spend: %w", err)
		}
		spends = append(spends, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer spend: %w", err)
	}

	return spends, nil
}

// ActiveCustomers lists the distinct (cuit, company) pairs with sales in the
// window, the input population of the segmentation batch.
func (r *Repository) ActiveCustomers(companies []string, since string) ([]Customer, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT cuit, COALESCE(customer_name, ''), company
		FROM sales
		WHERE period >= ? AND company IN (%s)
		AND cuit IS NOT NULL
		ORDER BY cuit
	`, placeholders(len(companies)))

	args := append([]interface{}{since}, toArgs(companies)...)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.CUIT, &c.Name, &c.Company); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}

// ProductTotals aggregates spend and unit volume per product within one
// subcategory, ordered by volume descending. Input of the ABC classifier.
func (r *Repository) ProductTotals(subcategory string, companies []string, since string) ([]ProductTotal, error) {
	query := fmt.Sprintf(`
		SELECT product_code,
			COALESCE(MAX(product_description), ''),
			SUM(amount),
			SUM(units)
		FROM sales
		WHERE subcategory = ? AND period >= ? AND company IN (%s)
		AND product_code IS NOT NULL
		GROUP BY product_code
		ORDER BY SUM(units) DESC, product_code
	`, placeholders(len(companies)))

	args := append([]interface{}{subcategory, since}, toArgs(companies)...)
	return r.queryProducts(query, args...)
}

// TopProductsByRevenue returns the best-selling products of a subcategory by
// spend, used for suggested-product previews.
func (r *Repository) TopProductsByRevenue(subcategory string, companies []string, since string, limit int) ([]ProductTotal, error) {
	query := fmt.Sprintf(`
		SELECT product_code,
			COALESCE(MAX(product_description), ''),
			SUM(amount),
			SUM(units)
		FROM sales
		WHERE subcategory = ? AND period >= ? AND company IN (%s)
		AND product_code IS NOT NULL
		GROUP BY product_code
		ORDER BY SUM(amount) DESC
		LIMIT ?
	`, placeholders(len(companies)))

	args := append([]interface{}{subcategory, since}, toArgs(companies)...)
	args = append(args, limit)
	return r.queryProducts(query, args...)
}

// PurchasedProductCodes returns the set of product codes a customer bought in
// the window.
func (r *Repository) PurchasedProductCodes(cuit string, companies []string, since string) (map[string]bool, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT product_code
		FROM sales
		WHERE cuit = ? AND period >= ? AND company IN (%s)
		AND product_code IS NOT NULL
	`, placeholders(len(companies)))

	args := append([]interface{}{cuit, since}, toArgs(companies)...)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchased products: %w", err)
	}
	defer rows.Close()

	codes := make(map[string]bool)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan product code: %w", err)
		}
		codes[code] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product codes: %w", err)
	}

	return codes, nil
}

// GlobalTopProducts returns the highest-revenue products across all
// subcategories, the candidate pool for featured products.
func (r *Repository) GlobalTopProducts(companies []string, since string, limit int) ([]GlobalProduct, error) {
	query := fmt.Sprintf(`
		SELECT product_code,
			COALESCE(MAX(product_description), ''),
			subcategory,
			COALESCE(MAX(vehicle_brand), ''),
			SUM(amount),
			SUM(units)
		FROM sales
		WHERE period >= ? AND company IN (%s)
		AND product_code IS NOT NULL AND subcategory IS NOT NULL
		GROUP BY product_code, subcategory
		ORDER BY SUM(amount) DESC
		LIMIT ?
	`, placeholders(len(companies)))

	args := append([]interface{}{since}, toArgs(companies)...)
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query global top products: %w", err)
	}
	defer rows.Close()

	var products []GlobalProduct
	for rows.Next() {
		var p GlobalProduct
		if err := rows.Scan(&p.Code, &p.Description, &p.Subcategory, &p.Brand, &p.Amount, &p.Units); err != nil {
			return nil, fmt.Errorf("failed to scan global product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating global products: %w", err)
	}

	return products, nil
}

// CustomerLines returns every ledger row of a customer in the window, most
// recent period first. Company scope is deliberately not applied: the profile
// view covers the whole relationship.
func (r *Repository) CustomerLines(cuit, since string) ([]SaleLine, error) {
	query := `
		SELECT period, COALESCE(customer_name, ''), company,
			COALESCE(subcategory, ''), COALESCE(product_code, ''),
			COALESCE(product_description, ''), amount, units
		FROM sales
		WHERE cuit = ? AND period >= ?
		ORDER BY period DESC
	`

	rows, err := r.db.Query(query, cuit, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer lines: %w", err)
	}
	defer rows.Close()

	var lines []SaleLine
	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.Period, &l.CustomerName, &l.Company, &l.Subcategory, &l.Code, &l.Description, &l.Amount, &l.Units); err != nil {
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sale lines: %w", err)
	}

	return lines, nil
}

// DistinctCategories returns the top-level categories a customer bought from
// in the window.
func (r *Repository) DistinctCategories(cuit, since string) ([]string, error) {
	query := `
		SELECT DISTINCT category
		FROM sales
		WHERE cuit = ? AND period >= ? AND category IS NOT NULL
	`

	rows, err := r.db.Query(query, cuit, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// SpendByVehicleBrand sums a customer's spend per vehicle brand, normalized
// to upper case. Rows without a brand are skipped.
func (r *Repository) SpendByVehicleBrand(cuit string, companies []string, since string) (map[string]float64, error) {
	query := fmt.Sprintf(`
		SELECT UPPER(TRIM(vehicle_brand)), SUM(amount)
		FROM sales
		WHERE cuit = ? AND period >= ? AND company IN (%s)
		AND vehicle_brand IS NOT NULL AND vehicle_brand != ''
		GROUP BY UPPER(TRIM(vehicle_brand))
	`, placeholders(len(companies)))

	args := append([]interface{}{cuit, since}, toArgs(companies)...)
	return r.queryTotals(query, args...)
}

func (r *Repository) queryTotals(query string, args ...interface{}) (map[string]float64, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var key string
		var total sql.NullFloat64
		if err := rows.Scan(&key, &total); err != nil {
			return nil, fmt.Errorf("failed to scan total: %w", err)
		}
		totals[key] = total.Float64
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating totals: %w", err)
	}

	return totals, nil
}

func (r *Repository) queryProducts(query string, args ...interface{}) ([]ProductTotal, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []ProductTotal
	for rows.Next() {
		var p ProductTotal
		var amount sql.NullFloat64
		var units sql.NullInt64
		if err := rows.Scan(&p.Code, &p.Description, &amount, &units); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Amount = amount.Float64
		p.Units = units.Int64
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
