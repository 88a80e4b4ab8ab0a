package segmentation

import "time"

// MixType buckets a customer by how concentrated its spend is in its top
// category.
type MixType string

const (
	// PureSpecialist has more than 60% of spend in one category.
	PureSpecialist MixType = "PURE_SPECIALIST"
	// DominantSpecialist has more than 40% and up to 60% in one category.
	DominantSpecialist MixType = "DOMINANT_SPECIALIST"
	// MultiCategory has no category above 40%.
	MultiCategory MixType = "MULTI_CATEGORY"
)

// Assignment is a customer's micro-segment within one group company.
// Exactly one row exists per (company, cuit); the batch job replaces it in
// full on every run.
type Assignment struct {
	Company          string
	CUIT             string
	CustomerName     string
	MixType          MixType
	DominantCategory string
	TopSubcategory   string
	SharePct         float64
	UpdatedAt        time.Time
}

// Profile is the micro-segment key used for peer matching.
type Profile struct {
	MixType          MixType
	DominantCategory string
	TopSubcategory   string
}

// BatchSummary reports the outcome of one segmentation run.
type BatchSummary struct {
	RunID        string
	Processed    int
	Assigned     int
	Skipped      int
	Distribution map[MixType]int
	MeanSharePct float64
	Duration     time.Duration
}
