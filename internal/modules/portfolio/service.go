// Package portfolio reports which product families a customer already buys
// from and which remain open, against the fixed group catalog.
package portfolio

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/modules/sales"
	"github.com/antigravity-ar/benchmark/pkg/formulas"
)

// Family is one top-level product family of the group catalog.
type Family struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Subfamilies string `json:"subfamilies,omitempty"`
	Confirmed   bool   `json:"confirmed"`
}

// Coverage is the customer's family portfolio view.
type Coverage struct {
	CUIT          string   `json:"cuit"`
	Confirmed     []Family `json:"confirmed"`
	Available     []Family `json:"available"`
	TotalFamilies int      `json:"total_families"`
	CompletionPct float64  `json:"completion_pct"`
}

// catalog lists every family carried by the group, matching the ledger's
// top-level category names.
var catalog = []Family{
	{ID: 1, Name: "ILUMINACION", Subfamilies: "headlamps, lights, bulbs"},
	{ID: 2, Name: "CERRAJERIA", Subfamilies: "locks, keys"},
	{ID: 3, Name: "SISTEMA TERMICO", Subfamilies: "radiators, thermostats"},
	{ID: 4, Name: "PARAGOLPES / PIEZAS PLASTICAS", Subfamilies: "bumpers, fenders"},
	{ID: 5, Name: "SISTEMA MOTRIZ", Subfamilies: "engine, transmission"},
	{ID: 6, Name: "ESPEJOS", Subfamilies: "rear-view mirrors"},
	{ID: 7, Name: "EQUIPAMIENTO EXTERIOR", Subfamilies: "mouldings, accessories"},
	{ID: 8, Name: "SISTEMA ELECTRICO", Subfamilies: "alternators, batteries"},
	{ID: 9, Name: "ACCESORIOS", Subfamilies: "misc"},
	{ID: 10, Name: "EMERGENCIA / SEGURIDAD", Subfamilies: "extinguishers, beacons"},
	{ID: 11, Name: "EQUIPAMIENTO INTERIOR", Subfamilies: "upholstery, consoles"},
	{ID: 12, Name: "CARROCERIA", Subfamilies: "panels, sheet metal"},
	{ID: 13, Name: "SUSPENSION", Subfamilies: "shock absorbers, springs"},
	{ID: 14, Name: "MERCHANDISING", Subfamilies: "promotional items"},
}

// Service computes family coverage
type Service struct {
	salesRepo *sales.Repository
	log       zerolog.Logger
	now       func() time.Time
}

// NewService creates a new portfolio service
func NewService(salesRepo *sales.Repository, log zerolog.Logger) *Service {
	return &Service{
		salesRepo: salesRepo,
		log:       log.With().Str("module", "portfolio").Logger(),
		now:       time.Now,
	}
}

// Coverage splits the catalog into families the customer bought from in the
// trailing window and the rest. A customer without purchases gets the whole
// catalog as available.
func (s *Service) Coverage(cuit string) (*Coverage, error) {
	since := sales.TrailingPeriod(s.now())

	categories, err := s.salesRepo.DistinctCategories(cuit, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer categories: %w", err)
	}

	bought := make(map[string]bool, len(categories))
	for _, c := range categories {
		bought[c] = true
	}

	cov := &Coverage{
		CUIT:          cuit,
		TotalFamilies: len(catalog),
	}
	for _, f := range catalog {
		if bought[f.Name] {
			f.Confirmed = true
			cov.Confirmed = append(cov.Confirmed, f)
		} else {
			f.Subfamilies = ""
			cov.Available = append(cov.Available, f)
		}
	}

	cov.CompletionPct = formulas.Round2(float64(len(cov.Confirmed)) / float64(len(catalog)) * 100)

	return cov, nil
}
