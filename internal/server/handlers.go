package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "benchmark-engine",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleOpportunities returns the assembled cross-selling opportunities for
// a customer. Customers without enough benchmark data get an empty list,
// not an error.
func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	cuit := chi.URLParam(r, "cuit")
	if cuit == "" {
		s.writeError(w, http.StatusBadRequest, "cuit is required")
		return
	}

	resp, err := s.recommendations.Opportunities(cuit)
	if err != nil {
		s.log.Error().Err(err).Str("cuit", cuit).Msg("Failed to assemble opportunities")
		s.writeError(w, http.StatusInternalServerError, "failed to assemble opportunities")
		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleStrategies returns the full try/confidence purchasing strategies for
// a subcategory.
func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	subcategory := chi.URLParam(r, "subcategory")
	if subcategory == "" {
		s.writeError(w, http.StatusBadRequest, "subcategory is required")
		return
	}

	pair, err := s.recommendations.Strategies(subcategory)
	if err != nil {
		s.log.Error().Err(err).Str("subcategory", subcategory).Msg("Failed to build strategies")
		s.writeError(w, http.StatusInternalServerError, "failed to build strategies")
		return
	}

	s.writeJSON(w, http.StatusOK, pair)
}

// handleClassification returns the ABC classification of a subcategory's
// products.
func (s *Server) handleClassification(w http.ResponseWriter, r *http.Request) {
	subcategory := chi.URLParam(r, "subcategory")
	if subcategory == "" {
		s.writeError(w, http.StatusBadRequest, "subcategory is required")
		return
	}

	classification, err := s.recommendations.Classification(subcategory)
	if err != nil {
		s.log.Error().Err(err).Str("subcategory", subcategory).Msg("Failed to classify products")
		s.writeError(w, http.StatusInternalServerError, "failed to classify products")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"subcategory":    subcategory,
		"products":       classification,
		"total_products": len(classification),
	})
}

// handleSegment returns a customer's latest micro-segment assignment.
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	cuit := chi.URLParam(r, "cuit")
	if cuit == "" {
		s.writeError(w, http.StatusBadRequest, "cuit is required")
		return
	}

	assignment, err := s.segments.GetByCUIT(cuit)
	if err != nil {
		s.log.Error().Err(err).Str("cuit", cuit).Msg("Failed to load segment")
		s.writeError(w, http.StatusInternalServerError, "failed to load segment")
		return
	}
	if assignment == nil {
		s.writeError(w, http.StatusNotFound, "customer has no segment assignment")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"cuit":              assignment.CUIT,
		"company":           assignment.Company,
		"mix_type":          assignment.MixType,
		"dominant_category": assignment.DominantCategory,
		"top_subcategory":   assignment.TopSubcategory,
		"share_pct":         assignment.SharePct,
		"updated_at":        assignment.UpdatedAt,
	})
}

// handleProfile returns a customer's activity profile.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	cuit := chi.URLParam(r, "cuit")
	if cuit == "" {
		s.writeError(w, http.StatusBadRequest, "cuit is required")
		return
	}

	p, err := s.profiles.Get(cuit)
	if err != nil {
		s.log.Error().Err(err).Str("cuit", cuit).Msg("Failed to load profile")
		s.writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if p == nil {
		s.writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	s.writeJSON(w, http.StatusOK, p)
}

// handlePortfolio returns a customer's product-family coverage.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	cuit := chi.URLParam(r, "cuit")
	if cuit == "" {
		s.writeError(w, http.StatusBadRequest, "cuit is required")
		return
	}

	coverage, err := s.portfolio.Coverage(cuit)
	if err != nil {
		s.log.Error().Err(err).Str("cuit", cuit).Msg("Failed to compute portfolio coverage")
		s.writeError(w, http.StatusInternalServerError, "failed to compute portfolio coverage")
		return
	}

	s.writeJSON(w, http.StatusOK, coverage)
}

// handlePlans returns a customer's loyalty plan standing.
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	cuit := chi.URLParam(r, "cuit")
	if cuit == "" {
		s.writeError(w, http.StatusBadRequest, "cuit is required")
		return
	}

	plan, err := s.plans.Plan(cuit)
	if err != nil {
		s.log.Error().Err(err).Str("cuit", cuit).Msg("Failed to compute plan standing")
		s.writeError(w, http.StatusInternalServerError, "failed to compute plan standing")
		return
	}

	s.writeJSON(w, http.StatusOK, plan)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
