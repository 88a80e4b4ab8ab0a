package benchmark

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/modules/sales"
	"github.com/antigravity-ar/benchmark/internal/modules/segmentation"
)

// Config holds the engine's tunable thresholds.
type Config struct {
	Companies []string
	MinPeers  int
	MinGapPct float64
	MaxGaps   int
}

// Service runs the full gap analysis for one customer: segment lookup, peer
// leaders, ideal basket, then the gap projection against the customer's own
// spend.
type Service struct {
	segments  *segmentation.Repository
	salesRepo *sales.Repository
	peers     *PeerSelector
	basket    *BasketBuilder
	cfg       Config
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new benchmark service
func NewService(segments *segmentation.Repository, salesRepo *sales.Repository, cfg Config, log zerolog.Logger) *Service {
	return &Service{
		segments:  segments,
		salesRepo: salesRepo,
		peers:     NewPeerSelector(segments, salesRepo, cfg.Companies, cfg.MinPeers, log),
		basket:    NewBasketBuilder(salesRepo, cfg.Companies, log),
		cfg:       cfg,
		log:       log.With().Str("module", "benchmark").Logger(),
		now:       time.Now,
	}
}

// SetClock overrides the service clock, used by tests to pin the trailing
// window.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Opportunities returns the ranked gap opportunities for a customer.
//
// Empty-data outcomes (no segment, no peers, no spend) return an empty slice
// and no error; only store failures propagate.
func (s *Service) Opportunities(cuit string) ([]Opportunity, error) {
	opportunities, err := s.analyze(cuit)
	if err != nil {
		if errors.Is(err, ErrNoData) || errors.Is(err, ErrInsufficientPeers) {
			s.log.Debug().Str("cuit", cuit).AnErr("reason", err).Msg("No opportunity data")
			return nil, nil
		}
		return nil, err
	}
	return opportunities, nil
}

func (s *Service) analyze(cuit string) ([]Opportunity, error) {
	since := sales.TrailingPeriod(s.now())

	assignment, err := s.segments.GetByCUIT(cuit)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, fmt.Errorf("customer %s has no segment assignment: %w", cuit, ErrNoData)
	}

	leaders, err := s.peers.Leaders(segmentation.Profile{
		MixType:          assignment.MixType,
		DominantCategory: assignment.DominantCategory,
		TopSubcategory:   assignment.TopSubcategory,
	}, since)
	if err != nil {
		return nil, err
	}

	basket, err := s.basket.IdealBasket(leaders, since)
	if err != nil {
		return nil, err
	}
	if len(basket) == 0 {
		return nil, fmt.Errorf("leaders of %s's segment have no spend: %w", cuit, ErrNoData)
	}

	actual, err := s.salesRepo.SpendBySubcategory(cuit, s.cfg.Companies, since)
	if err != nil {
		return nil, err
	}

	totalSpend := 0.0
	for _, amount := range actual {
		totalSpend += amount
	}
	if totalSpend == 0 {
		return nil, fmt.Errorf("customer %s has no spend in window: %w", cuit, ErrNoData)
	}

	opportunities := AnalyzeGaps(basket, actual, totalSpend, s.cfg.MinGapPct, s.cfg.MaxGaps, len(leaders))

	s.log.Info().
		Str("cuit", cuit).
		Int("leaders", len(leaders)).
		Int("opportunities", len(opportunities)).
		Msg("Gap analysis completed")

	return opportunities, nil
}
