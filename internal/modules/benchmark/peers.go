package benchmark

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/modules/sales"
	"github.com/antigravity-ar/benchmark/internal/modules/segmentation"
	"github.com/antigravity-ar/benchmark/pkg/formulas"
)

// PeerSelector finds the leaders of a micro-segment: the peers in the top
// quartile of trailing-12-month spend.
type PeerSelector struct {
	segments  *segmentation.Repository
	salesRepo *sales.Repository
	companies []string
	minPeers  int
	log       zerolog.Logger
}

// NewPeerSelector creates a new peer selector
func NewPeerSelector(segments *segmentation.Repository, salesRepo *sales.Repository, companies []string, minPeers int, log zerolog.Logger) *PeerSelector {
	return &PeerSelector{
		segments:  segments,
		salesRepo: salesRepo,
		companies: companies,
		minPeers:  minPeers,
		log:       log.With().Str("service", "peer_selector").Logger(),
	}
}

// Leaders returns the CUITs whose spend is at or above the segment's P75.
//
// The strict search matches all three profile fields. When it yields fewer
// than minPeers spending customers, the search relaxes to mix type plus
// dominant category. An empty relaxed result returns ErrInsufficientPeers.
// Peer search never leaves the configured company scope.
func (s *PeerSelector) Leaders(profile segmentation.Profile, since string) ([]string, error) {
	peers, err := s.peerSpend(profile, true, since)
	if err != nil {
		return nil, err
	}

	if len(peers) < s.minPeers {
		s.log.Debug().
			Int("strict_peers", len(peers)).
			Int("min_peers", s.minPeers).
			Str("top_subcategory", profile.TopSubcategory).
			Msg("Relaxing peer search")

		peers, err = s.peerSpend(profile, false, since)
		if err != nil {
			return nil, err
		}
	}

	if len(peers) == 0 {
		return nil, ErrInsufficientPeers
	}

	spends := make([]float64, len(peers))
	for i, p := range peers {
		spends[i] = p.Total
	}
	p75 := formulas.Percentile75(spends)

	var leaders []string
	for _, p := range peers {
		if p.Total >= p75 {
			leaders = append(leaders, p.CUIT)
		}
	}

	s.log.Debug().
		Int("peers", len(peers)).
		Int("leaders", len(leaders)).
		Float64("p75", p75).
		Msg("Selected segment leaders")

	return leaders, nil
}

// peerSpend lists the customers matching the profile together with their
// positive window spend.
func (s *PeerSelector) peerSpend(profile segmentation.Profile, strict bool, since string) ([]sales.CustomerSpend, error) {
	cuits, err := s.segments.CustomersMatching(profile, strict)
	if err != nil {
		return nil, fmt.Errorf("failed to find segment customers: %w", err)
	}
	if len(cuits) == 0 {
		return nil, nil
	}

	spends, err := s.salesRepo.TotalSpendByCustomer(cuits, s.companies, since)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate peer spend: %w", err)
	}

	return spends, nil
}
