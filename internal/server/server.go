package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/antigravity-ar/benchmark/internal/cache"
	"github.com/antigravity-ar/benchmark/internal/config"
	"github.com/antigravity-ar/benchmark/internal/database"
	"github.com/antigravity-ar/benchmark/internal/modules/plans"
	"github.com/antigravity-ar/benchmark/internal/modules/portfolio"
	"github.com/antigravity-ar/benchmark/internal/modules/profile"
	"github.com/antigravity-ar/benchmark/internal/modules/recommendations"
	"github.com/antigravity-ar/benchmark/internal/modules/segmentation"
	"github.com/antigravity-ar/benchmark/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Port    int
	Log     zerolog.Logger
	DB      *database.DB
	Config  *config.Config
	DevMode bool

	Recommendations *recommendations.Service
	Segments        *segmentation.Repository
	Profiles        *profile.Service
	Portfolio       *portfolio.Service
	Plans           *plans.Service

	Scheduler       *scheduler.Scheduler
	SegmentationJob scheduler.Job
	Caches          map[string]*cache.Cache
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	db     *database.DB
	cfg    *config.Config

	recommendations *recommendations.Service
	segments        *segmentation.Repository
	profiles        *profile.Service
	portfolio       *portfolio.Service
	plans           *plans.Service

	scheduler       *scheduler.Scheduler
	segmentationJob scheduler.Job
	caches          map[string]*cache.Cache

	startedAt time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:          chi.NewRouter(),
		log:             cfg.Log.With().Str("component", "server").Logger(),
		db:              cfg.DB,
		cfg:             cfg.Config,
		recommendations: cfg.Recommendations,
		segments:        cfg.Segments,
		profiles:        cfg.Profiles,
		portfolio:       cfg.Portfolio,
		plans:           cfg.Plans,
		scheduler:       cfg.Scheduler,
		segmentationJob: cfg.SegmentationJob,
		caches:          cfg.Caches,
		startedAt:       time.Now(),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// Timeout
	s.router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/opportunities/{cuit}", s.handleOpportunities)
		r.Get("/strategies/{subcategory}", s.handleStrategies)
		r.Get("/classification/{subcategory}", s.handleClassification)
		r.Get("/segment/{cuit}", s.handleSegment)
		r.Get("/profile/{cuit}", s.handleProfile)
		r.Get("/portfolio/{cuit}", s.handlePortfolio)
		r.Get("/plans/{cuit}", s.handlePlans)

		// System
		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.handleSystemStatus)
			r.Post("/jobs/segmentation/run", s.handleRunSegmentation)
			r.Post("/cache/clear", s.handleClearCaches)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
