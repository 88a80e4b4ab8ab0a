package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antigravity-ar/benchmark/internal/cache"
	"github.com/antigravity-ar/benchmark/internal/config"
	"github.com/antigravity-ar/benchmark/internal/database"
	"github.com/antigravity-ar/benchmark/internal/modules/affinity"
	"github.com/antigravity-ar/benchmark/internal/modules/benchmark"
	"github.com/antigravity-ar/benchmark/internal/modules/plans"
	"github.com/antigravity-ar/benchmark/internal/modules/portfolio"
	"github.com/antigravity-ar/benchmark/internal/modules/products"
	"github.com/antigravity-ar/benchmark/internal/modules/profile"
	"github.com/antigravity-ar/benchmark/internal/modules/recommendations"
	"github.com/antigravity-ar/benchmark/internal/modules/sales"
	"github.com/antigravity-ar/benchmark/internal/modules/segmentation"
	"github.com/antigravity-ar/benchmark/internal/scheduler"
	"github.com/antigravity-ar/benchmark/internal/server"
	"github.com/antigravity-ar/benchmark/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info", Pretty: true})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Benchmark Engine")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Repositories
	salesRepo := sales.NewRepository(db.Conn(), log)
	segmentRepo := segmentation.NewRepository(db.Conn(), log)

	// Analysis caches
	classificationCache := cache.New(time.Duration(cfg.ClassificationTTL) * time.Second)
	strategyCache := cache.New(time.Duration(cfg.StrategyTTL) * time.Second)
	caches := map[string]*cache.Cache{
		"classification": classificationCache,
		"strategy":       strategyCache,
	}

	// Services
	engine := benchmark.NewService(segmentRepo, salesRepo, benchmark.Config{
		Companies: cfg.CompanyScope,
		MinPeers:  cfg.MinPeers,
		MinGapPct: cfg.MinGapPct,
		MaxGaps:   cfg.MaxGaps,
	}, log)

	classifier := products.NewClassifier(salesRepo, cfg.CompanyScope, classificationCache, log)
	assembler := products.NewAssembler(classifier, strategyCache, log)
	affinitySvc := affinity.NewService(salesRepo, cfg.CompanyScope, log)

	recSvc := recommendations.NewService(
		engine, classifier, assembler, affinitySvc, salesRepo, cfg.CompanyScope, log,
	)

	profileSvc := profile.NewService(salesRepo, log)
	portfolioSvc := portfolio.NewService(salesRepo, log)
	plansSvc := plans.NewService(salesRepo, log)

	// Initialize scheduler
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	// Register background jobs
	segmentationJob := segmentation.NewBatchJob(salesRepo, segmentRepo, cfg.CompanyScope, log)
	if err := sched.AddJob(cfg.SegmentationSchedule, segmentationJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register segmentation job")
	}
	if err := sched.AddJob("@every 5m", scheduler.NewCacheSweepJob(caches, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache sweep job")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:            cfg.Port,
		Log:             log,
		DB:              db,
		Config:          cfg,
		DevMode:         cfg.DevMode,
		Recommendations: recSvc,
		Segments:        segmentRepo,
		Profiles:        profileSvc,
		Portfolio:       portfolioSvc,
		Plans:           plansSvc,
		Scheduler:       sched,
		SegmentationJob: segmentationJob,
		Caches:          caches,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
