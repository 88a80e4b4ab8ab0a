// Package affinity detects a customer's dominant vehicle brands and filters
// product suggestions down to brands the customer actually works with.
package affinity

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/modules/sales"
)

// DominantShareThreshold is the minimum share of brand-tagged spend for a
// brand to count as dominant.
const DominantShareThreshold = 0.10

// universalBrands pass every filter: they fit any vehicle.
var universalBrands = map[string]bool{
	"UNIVERSAL": true,
	"SIN MARCA": true,
	"GENERICO":  true,
	"TODOS":     true,
}

// Service computes brand affinity
type Service struct {
	salesRepo *sales.Repository
	companies []string
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new affinity service
func NewService(salesRepo *sales.Repository, companies []string, log zerolog.Logger) *Service {
	return &Service{
		salesRepo: salesRepo,
		companies: companies,
		log:       log.With().Str("module", "affinity").Logger(),
		now:       time.Now,
	}
}

// DominantBrands returns the vehicle brands holding at least 10% of the
// customer's brand-tagged spend. Best-effort: any failure or absence of
// brand data yields an empty set, which disables filtering downstream.
func (s *Service) DominantBrands(cuit string) map[string]bool {
	since := sales.TrailingPeriod(s.now())

	byBrand, err := s.salesRepo.SpendByVehicleBrand(cuit, s.companies, since)
	if err != nil {
		s.log.Warn().Err(err).Str("cuit", cuit).Msg("Brand affinity unavailable")
		return map[string]bool{}
	}

	total := 0.0
	for _, amount := range byBrand {
		total += amount
	}
	if total == 0 {
		return map[string]bool{}
	}

	dominant := make(map[string]bool)
	for brand, amount := range byBrand {
		if brand != "" && amount/total >= DominantShareThreshold {
			dominant[brand] = true
		}
	}

	return dominant
}

// Allowed reports whether a product with the given vehicle brand should be
// suggested to a customer with the given dominant brands. An empty dominant
// set allows everything; unbranded and universal products always pass.
func Allowed(productBrand string, dominant map[string]bool) bool {
	if len(dominant) == 0 {
		return true
	}

	brand := strings.ToUpper(strings.TrimSpace(productBrand))
	if brand == "" || universalBrands[brand] {
		return true
	}

	return dominant[brand]
}
