package segmentation

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-ar/benchmark/internal/database"
	"github.com/antigravity-ar/benchmark/internal/modules/sales"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewInMemory()
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	return db
}

func seedSale(t *testing.T, db *database.DB, cuit, name, company, category, subcategory string, amount float64, period string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO sales (cuit, customer_name, company, category, subcategory,
			product_code, product_description, amount, units, period)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, cuit, name, company, category, subcategory, "P-"+subcategory, subcategory+" product", amount, 1, period)
	require.NoError(t, err)
}

func TestBatchJobAssignsSegments(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	salesRepo := sales.NewRepository(db.Conn(), zerolog.Nop())

	period := time.Now().Format(sales.PeriodFormat)

	// Pure specialist: 800 of 900 in one category.
	seedSale(t, db, "20-11111111-1", "Taller Norte", "Cromo", "Iluminacion", "Faros", 800, period)
	seedSale(t, db, "20-11111111-1", "Taller Norte", "Cromo", "Frenos", "Pastillas", 100, period)

	// Multi category: even 50/50 split.
	seedSale(t, db, "20-22222222-2", "Taller Sur", "Cromo", "Iluminacion", "Faros", 500, period)
	seedSale(t, db, "20-22222222-2", "Taller Sur", "Cromo", "Frenos", "Pastillas", 500, period)

	job := NewBatchJob(salesRepo, repo, []string{"Cromo", "BBA"}, zerolog.Nop())
	summary, err := job.Execute()
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 2, summary.Assigned)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 1, summary.Distribution[PureSpecialist])
	assert.Equal(t, 1, summary.Distribution[MultiCategory])

	a, err := repo.GetByCUIT("20-11111111-1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, PureSpecialist, a.MixType)
	assert.Equal(t, "Iluminacion", a.DominantCategory)
	assert.Equal(t, "Faros", a.TopSubcategory)
	assert.InDelta(t, 88.89, a.SharePct, 0.001)
	assert.Equal(t, "Taller Norte", a.CustomerName)

	b, err := repo.GetByCUIT("20-22222222-2")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, MultiCategory, b.MixType)
}

func TestBatchJobRerunIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	salesRepo := sales.NewRepository(db.Conn(), zerolog.Nop())

	period := time.Now().Format(sales.PeriodFormat)
	seedSale(t, db, "20-11111111-1", "Taller Norte", "Cromo", "Iluminacion", "Faros", 900, period)

	job := NewBatchJob(salesRepo, repo, []string{"Cromo"}, zerolog.Nop())

	_, err := job.Execute()
	require.NoError(t, err)
	_, err = job.Execute()
	require.NoError(t, err)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBatchJobSkipsZeroSpendCustomers(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	salesRepo := sales.NewRepository(db.Conn(), zerolog.Nop())

	period := time.Now().Format(sales.PeriodFormat)
	seedSale(t, db, "20-33333333-3", "Taller Este", "Cromo", "Iluminacion", "Faros", 0, period)

	job := NewBatchJob(salesRepo, repo, []string{"Cromo"}, zerolog.Nop())
	summary, err := job.Execute()
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 0, summary.Assigned)
	assert.Equal(t, 1, summary.Skipped)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestBatchJobIgnoresSalesOutsideWindow(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())
	salesRepo := sales.NewRepository(db.Conn(), zerolog.Nop())

	stale := time.Now().AddDate(-2, 0, 0).Format(sales.PeriodFormat)
	seedSale(t, db, "20-44444444-4", "Taller Oeste", "Cromo", "Iluminacion", "Faros", 900, stale)

	job := NewBatchJob(salesRepo, repo, []string{"Cromo"}, zerolog.Nop())
	summary, err := job.Execute()
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 0, summary.Assigned)
}

func TestUpsertReplacesExistingAssignment(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	first := Assignment{
		Company:          "Cromo",
		CUIT:             "20-55555555-5",
		MixType:          MultiCategory,
		DominantCategory: "Frenos",
		TopSubcategory:   "Pastillas",
		SharePct:         35.0,
	}
	require.NoError(t, repo.Upsert(first))

	first.MixType = PureSpecialist
	first.DominantCategory = "Iluminacion"
	first.TopSubcategory = "Faros"
	first.SharePct = 72.5
	require.NoError(t, repo.Upsert(first))

	got, err := repo.GetByCUIT("20-55555555-5")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, PureSpecialist, got.MixType)
	assert.Equal(t, "Iluminacion", got.DominantCategory)
	assert.InDelta(t, 72.5, got.SharePct, 0.001)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCustomersMatchingStrictAndRelaxed(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db.Conn(), zerolog.Nop())

	base := Assignment{
		Company:          "Cromo",
		MixType:          PureSpecialist,
		DominantCategory: "Iluminacion",
	}

	a := base
	a.CUIT = "20-11111111-1"
	a.TopSubcategory = "Faros"
	require.NoError(t, repo.Upsert(a))

	b := base
	b.CUIT = "20-22222222-2"
	b.TopSubcategory = "Lamparas"
	require.NoError(t, repo.Upsert(b))

	profile := Profile{
		MixType:          PureSpecialist,
		DominantCategory: "Iluminacion",
		TopSubcategory:   "Faros",
	}

	strict, err := repo.CustomersMatching(profile, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"20-11111111-1"}, strict)

	relaxed, err := repo.CustomersMatching(profile, false)
	require.NoError(t, err)
	assert.Len(t, relaxed, 2)
}
