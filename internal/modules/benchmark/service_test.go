package benchmark

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antigravity-ar/benchmark/internal/database"
	"github.com/antigravity-ar/benchmark/internal/modules/sales"
	"github.com/antigravity-ar/benchmark/internal/modules/segmentation"
)

type fixture struct {
	db       *database.DB
	segments *segmentation.Repository
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.NewInMemory()
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })

	segments := segmentation.NewRepository(db.Conn(), zerolog.Nop())
	salesRepo := sales.NewRepository(db.Conn(), zerolog.Nop())

	service := NewService(segments, salesRepo, Config{
		Companies: []string{"Cromo"},
		MinPeers:  5,
		MinGapPct: 20.0,
		MaxGaps:   10,
	}, zerolog.Nop())

	return &fixture{db: db, segments: segments, service: service}
}

func (f *fixture) assign(t *testing.T, cuit string) {
	t.Helper()

	require.NoError(t, f.segments.Upsert(segmentation.Assignment{
		Company:          "Cromo",
		CUIT:             cuit,
		MixType:          segmentation.PureSpecialist,
		DominantCategory: "Iluminacion",
		TopSubcategory:   "Faros",
		SharePct:         70,
	}))
}

func (f *fixture) sell(t *testing.T, cuit, subcategory string, amount float64) {
	t.Helper()

	period := time.Now().Format(sales.PeriodFormat)
	_, err := f.db.Exec(`
		INSERT INTO sales (cuit, company, category, subcategory,
			product_code, amount, units, period)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, cuit, "Cromo", "Iluminacion", subcategory, "P-"+subcategory, amount, 1, period)
	require.NoError(t, err)
}

// Six customers share a segment. One leader emerges above the P75 of the
// segment's spend, and its basket exposes the target's missing subcategory.
func TestOpportunitiesEndToEnd(t *testing.T) {
	f := newFixture(t)

	target := "20-00000000-0"
	peers := []string{"20-11111111-1", "20-22222222-2", "20-33333333-3", "20-44444444-4", "20-55555555-5"}

	f.assign(t, target)
	for _, p := range peers {
		f.assign(t, p)
	}

	// Target buys only Faros.
	f.sell(t, target, "Faros", 1000)

	// Peer spends: totals 1000, 1000, 2000, 2000, 4000. With the target's
	// 1000 the sample P75 is 2500, leaving one leader at 4000.
	f.sell(t, peers[0], "Faros", 700)
	f.sell(t, peers[0], "Baterias", 300)
	f.sell(t, peers[1], "Faros", 700)
	f.sell(t, peers[1], "Baterias", 300)
	f.sell(t, peers[2], "Faros", 1400)
	f.sell(t, peers[2], "Baterias", 600)
	f.sell(t, peers[3], "Faros", 1400)
	f.sell(t, peers[3], "Baterias", 600)
	f.sell(t, peers[4], "Faros", 2800)
	f.sell(t, peers[4], "Baterias", 1200)

	opportunities, err := f.service.Opportunities(target)
	require.NoError(t, err)
	require.Len(t, opportunities, 1)

	opp := opportunities[0]
	assert.Equal(t, "Baterias", opp.Subcategory)
	assert.InDelta(t, 300, opp.IdealAmount, 0.001)
	assert.InDelta(t, 0, opp.ActualAmount, 0.001)
	assert.InDelta(t, 300, opp.GapAmount, 0.001)
	assert.InDelta(t, 100, opp.GapPct, 0.001)
	assert.InDelta(t, 30, opp.IdealSharePct, 0.001)
	assert.Equal(t, 1, opp.LeaderCount)
	assert.InDelta(t, 25, opp.MonthlyPotential(), 0.001)
	assert.Equal(t, "high", opp.Priority())
}

func TestOpportunitiesNoSegmentAssignment(t *testing.T) {
	f := newFixture(t)

	f.sell(t, "20-00000000-0", "Faros", 1000)

	opportunities, err := f.service.Opportunities("20-00000000-0")
	require.NoError(t, err)
	assert.Empty(t, opportunities)
}

func TestOpportunitiesNoSpendInWindow(t *testing.T) {
	f := newFixture(t)

	target := "20-00000000-0"
	f.assign(t, target)
	f.assign(t, "20-11111111-1")
	f.sell(t, "20-11111111-1", "Faros", 1000)

	opportunities, err := f.service.Opportunities(target)
	require.NoError(t, err)
	assert.Empty(t, opportunities)
}

func TestOpportunitiesSegmentWithoutAnySpend(t *testing.T) {
	f := newFixture(t)

	// Assignments exist but nobody sold anything, so even the relaxed
	// peer search finds no spending customers.
	f.assign(t, "20-00000000-0")
	f.assign(t, "20-11111111-1")

	opportunities, err := f.service.Opportunities("20-00000000-0")
	require.NoError(t, err)
	assert.Empty(t, opportunities)
}

// A strict segment thinner than the peer minimum falls back to the relaxed
// profile, which ignores the top subcategory.
func TestPeerSearchRelaxesBelowMinimum(t *testing.T) {
	f := newFixture(t)

	target := "20-00000000-0"
	f.assign(t, target)
	f.sell(t, target, "Faros", 1000)

	// Same mix and dominant category, different top subcategory.
	for i, cuit := range []string{"20-11111111-1", "20-22222222-2", "20-33333333-3", "20-44444444-4", "20-55555555-5"} {
		require.NoError(t, f.segments.Upsert(segmentation.Assignment{
			Company:          "Cromo",
			CUIT:             cuit,
			MixType:          segmentation.PureSpecialist,
			DominantCategory: "Iluminacion",
			TopSubcategory:   "Lamparas",
			SharePct:         70,
		}))
		amount := float64(1000 * (i + 1))
		f.sell(t, cuit, "Lamparas", amount*0.7)
		f.sell(t, cuit, "Baterias", amount*0.3)
	}

	opportunities, err := f.service.Opportunities(target)
	require.NoError(t, err)
	require.NotEmpty(t, opportunities)

	subs := make([]string, len(opportunities))
	for i, o := range opportunities {
		subs[i] = o.Subcategory
	}
	assert.Contains(t, subs, "Baterias")
}
