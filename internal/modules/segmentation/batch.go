package segmentation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/modules/sales"
	"github.com/antigravity-ar/benchmark/pkg/formulas"
)

// BatchJob recomputes every customer's segment assignment from the trailing
// 12 months of sales. It runs offline (nightly cron or on demand), iterates
// customers sequentially, and upserts one row per (company, cuit); a failure
// mid-run leaves earlier assignments valid, and re-running converges.
type BatchJob struct {
	salesRepo *sales.Repository
	repo      *Repository
	companies []string
	log       zerolog.Logger
	now       func() time.Time
}

// NewBatchJob creates a new segmentation batch job
func NewBatchJob(salesRepo *sales.Repository, repo *Repository, companies []string, log zerolog.Logger) *BatchJob {
	return &BatchJob{
		salesRepo: salesRepo,
		repo:      repo,
		companies: companies,
		log:       log.With().Str("job", "segmentation_batch").Logger(),
		now:       time.Now,
	}
}

// Name returns the job name
func (j *BatchJob) Name() string {
	return "segmentation_batch"
}

// Run executes a full recompute and logs a summary.
func (j *BatchJob) Run() error {
	_, err := j.Execute()
	return err
}

// Execute runs the batch and returns its summary.
func (j *BatchJob) Execute() (*BatchSummary, error) {
	start := j.now()
	summary := &BatchSummary{
		RunID:        uuid.NewString(),
		Distribution: make(map[MixType]int),
	}
	since := sales.TrailingPeriod(start)

	log := j.log.With().Str("run_id", summary.RunID).Logger()
	log.Info().Str("since", since).Msg("Starting segmentation batch")

	customers, err := j.salesRepo.ActiveCustomers(j.companies, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list active customers: %w", err)
	}

	var shares []float64
	for _, c := range customers {
		summary.Processed++

		byCategory, err := j.salesRepo.SpendByCategory(c.CUIT, c.Company, since)
		if err != nil {
			return summary, fmt.Errorf("failed to aggregate categories for %s: %w", c.CUIT, err)
		}
		bySubcategory, err := j.salesRepo.SpendBySubcategoryForCompany(c.CUIT, c.Company, since)
		if err != nil {
			return summary, fmt.Errorf("failed to aggregate subcategories for %s: %w", c.CUIT, err)
		}

		mix, dominant, topSub, sharePct, ok := Classify(byCategory, bySubcategory)
		if !ok {
			summary.Skipped++
			continue
		}

		assignment := Assignment{
			Company:          c.Company,
			CUIT:             c.CUIT,
			CustomerName:     c.Name,
			MixType:          mix,
			DominantCategory: dominant,
			TopSubcategory:   topSub,
			SharePct:         sharePct,
		}
		if err := j.repo.Upsert(assignment); err != nil {
			return summary, fmt.Errorf("failed to store assignment for %s/%s: %w", c.Company, c.CUIT, err)
		}

		summary.Assigned++
		summary.Distribution[mix]++
		shares = append(shares, sharePct)

		if summary.Processed%100 == 0 {
			log.Debug().Int("processed", summary.Processed).Int("total", len(customers)).Msg("Batch progress")
		}
	}

	summary.MeanSharePct = formulas.Round2(formulas.Mean(shares))
	summary.Duration = j.now().Sub(start)

	log.Info().
		Int("processed", summary.Processed).
		Int("assigned", summary.Assigned).
		Int("skipped", summary.Skipped).
		Int("pure", summary.Distribution[PureSpecialist]).
		Int("dominant", summary.Distribution[DominantSpecialist]).
		Int("multi", summary.Distribution[MultiCategory]).
		Float64("mean_share_pct", summary.MeanSharePct).
		Dur("duration", summary.Duration).
		Msg("Segmentation batch completed")

	return summary, nil
}
