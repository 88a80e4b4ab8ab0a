package sales

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-ar/benchmark/internal/database"
)

type row struct {
	cuit        string
	name        string
	company     string
	category    string
	subcategory string
	code        string
	brand       string
	amount      float64
	units       int64
	period      string
}

func newTestRepo(t *testing.T, rows []row) *Repository {
	t.Helper()

	db, err := database.NewInMemory()
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	for _, r := range rows {
		_, err := db.Exec(`
			INSERT INTO sales (cuit, customer_name, company, category, subcategory,
				product_code, product_description, vehicle_brand, amount, units, period)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.cuit, r.name, r.company, r.category, r.subcategory, r.code, r.code+" desc", r.brand, r.amount, r.units, r.period)
		require.NoError(t, err)
	}

	return NewRepository(db.Conn(), zerolog.Nop())
}

func TestTrailingPeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06", TrailingPeriod(now))
}

func TestSpendByCategoryScopesCompanyAndWindow(t *testing.T) {
	period := time.Now().Format(PeriodFormat)
	stale := time.Now().AddDate(-2, 0, 0).Format(PeriodFormat)

	repo := newTestRepo(t, []row{
		{cuit: "C1", company: "Cromo", category: "Iluminacion", subcategory: "Faros", code: "P1", amount: 100, units: 1, period: period},
		{cuit: "C1", company: "Cromo", category: "Iluminacion", subcategory: "Faros", code: "P1", amount: 50, units: 1, period: period},
		{cuit: "C1", company: "BBA", category: "Iluminacion", subcategory: "Faros", code: "P1", amount: 999, units: 1, period: period},
		{cuit: "C1", company: "Cromo", category: "Frenos", subcategory: "Pastillas", code: "P2", amount: 999, units: 1, period: stale},
	})

	since := TrailingPeriod(time.Now())
	totals, err := repo.SpendByCategory("C1", "Cromo", since)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"Iluminacion": 150}, totals)
}

func TestTotalSpendByCustomerDropsZeroSpenders(t *testing.T) {
	period := time.Now().Format(PeriodFormat)

	repo := newTestRepo(t, []row{
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "S", code: "P1", amount: 300, units: 1, period: period},
		{cuit: "C2", company: "Cromo", category: "A", subcategory: "S", code: "P1", amount: 0, units: 1, period: period},
	})

	since := TrailingPeriod(time.Now())
	spends, err := repo.TotalSpendByCustomer([]string{"C1", "C2", "C3"}, []string{"Cromo"}, since)
	require.NoError(t, err)

	require.Len(t, spends, 1)
	assert.Equal(t, "C1", spends[0].CUIT)
	assert.InDelta(t, 300, spends[0].Total, 0.001)
}

func TestActiveCustomersDistinctPairs(t *testing.T) {
	period := time.Now().Format(PeriodFormat)

	repo := newTestRepo(t, []row{
		{cuit: "C2", name: "Sur", company: "Cromo", category: "A", subcategory: "S", code: "P1", amount: 10, units: 1, period: period},
		{cuit: "C1", name: "Norte", company: "Cromo", category: "A", subcategory: "S", code: "P1", amount: 10, units: 1, period: period},
		{cuit: "C1", name: "Norte", company: "Cromo", category: "B", subcategory: "T", code: "P2", amount: 10, units: 1, period: period},
		{cuit: "C1", name: "Norte", company: "BBA", category: "A", subcategory: "S", code: "P1", amount: 10, units: 1, period: period},
	})

	since := TrailingPeriod(time.Now())
	customers, err := repo.ActiveCustomers([]string{"Cromo", "BBA"}, since)
	require.NoError(t, err)

	require.Len(t, customers, 3)
	assert.Equal(t, "C1", customers[0].CUIT)
	assert.Equal(t, "Norte", customers[0].Name)
}

func TestProductTotalsOrderedByVolume(t *testing.T) {
	period := time.Now().Format(PeriodFormat)

	repo := newTestRepo(t, []row{
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "Faros", code: "LOW", amount: 900, units: 5, period: period},
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "Faros", code: "HIGH", amount: 100, units: 50, period: period},
		{cuit: "C2", company: "Cromo", category: "A", subcategory: "Faros", code: "HIGH", amount: 100, units: 50, period: period},
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "Otro", code: "X", amount: 999, units: 999, period: period},
	})

	since := TrailingPeriod(time.Now())
	products, err := repo.ProductTotals("Faros", []string{"Cromo"}, since)
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "HIGH", products[0].Code)
	assert.Equal(t, int64(100), products[0].Units)
	assert.InDelta(t, 200, products[0].Amount, 0.001)
	assert.Equal(t, "LOW", products[1].Code)
}

func TestTopProductsByRevenueHonorsLimit(t *testing.T) {
	period := time.Now().Format(PeriodFormat)

	repo := newTestRepo(t, []row{
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "Faros", code: "P1", amount: 100, units: 1, period: period},
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "Faros", code: "P2", amount: 300, units: 1, period: period},
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "Faros", code: "P3", amount: 200, units: 1, period: period},
	})

	since := TrailingPeriod(time.Now())
	products, err := repo.TopProductsByRevenue("Faros", []string{"Cromo"}, since, 2)
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "P2", products[0].Code)
	assert.Equal(t, "P3", products[1].Code)
}

func TestPurchasedProductCodes(t *testing.T) {
	period := time.Now().Format(PeriodFormat)

	repo := newTestRepo(t, []row{
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "S", code: "P1", amount: 10, units: 1, period: period},
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "S", code: "P1", amount: 10, units: 1, period: period},
		{cuit: "C2", company: "Cromo", category: "A", subcategory: "S", code: "P2", amount: 10, units: 1, period: period},
	})

	since := TrailingPeriod(time.Now())
	codes, err := repo.PurchasedProductCodes("C1", []string{"Cromo"}, since)
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"P1": true}, codes)
}

func TestGlobalTopProductsCarriesBrand(t *testing.T) {
	period := time.Now().Format(PeriodFormat)

	repo := newTestRepo(t, []row{
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "Faros", code: "P1", brand: "FORD", amount: 500, units: 2, period: period},
		{cuit: "C2", company: "Cromo", category: "A", subcategory: "Otro", code: "P2", amount: 100, units: 1, period: period},
	})

	since := TrailingPeriod(time.Now())
	products, err := repo.GlobalTopProducts([]string{"Cromo"}, since, 10)
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "P1", products[0].Code)
	assert.Equal(t, "FORD", products[0].Brand)
	assert.Equal(t, "Faros", products[0].Subcategory)
	assert.Equal(t, "", products[1].Brand)
}

func TestSpendByVehicleBrandNormalizes(t *testing.T) {
	period := time.Now().Format(PeriodFormat)

	repo := newTestRepo(t, []row{
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "S", code: "P1", brand: "ford", amount: 100, units: 1, period: period},
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "S", code: "P2", brand: " Ford ", amount: 50, units: 1, period: period},
		{cuit: "C1", company: "Cromo", category: "A", subcategory: "S", code: "P3", amount: 999, units: 1, period: period},
	})

	since := TrailingPeriod(time.Now())
	totals, err := repo.SpendByVehicleBrand("C1", []string{"Cromo"}, since)
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"FORD": 150}, totals)
}

func TestCustomerLinesIgnoreCompanyScope(t *testing.T) {
	period := time.Now().Format(PeriodFormat)

	repo := newTestRepo(t, []row{
		{cuit: "C1", name: "Norte", company: "Cromo", category: "A", subcategory: "S", code: "P1", amount: 100, units: 1, period: period},
		{cuit: "C1", name: "Norte", company: "Otra", category: "A", subcategory: "S", code: "P2", amount: 200, units: 1, period: period},
	})

	since := TrailingPeriod(time.Now())
	lines, err := repo.CustomerLines("C1", since)
	require.NoError(t, err)

	assert.Len(t, lines, 2)
}
