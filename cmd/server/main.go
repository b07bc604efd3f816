package main

import (
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/config"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/api"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/database"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/geocoding"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/matching"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/notify"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/pipeline"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/processor"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/queue"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/scheduler"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/zone"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	logger.Infof("Using database at: %s", cfg.Database.Path)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Result store shares the same database file
	results, err := database.OpenResultStore(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize result store")
	}

	// Initialize geocoder
	cacheDir := cfg.Geocoding.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(os.TempDir(), "sateituikyaku", "geocode_cache")
	}
	geocoder := geocoding.NewGeocoder(logger, cacheDir)

	// Load the zone-reference snapshot
	zones := zone.NewStore(db, logger)
	if err := zones.Reload(); err != nil {
		logger.WithError(err).Fatal("Failed to load zone references")
	}
	health := zones.HealthCheck()
	if !health.Healthy() {
		logger.WithFields(logrus.Fields{
			"misconfigured":  health.Misconfigured,
			"invalid_symbol": health.InvalidSymbol,
		}).Warn("Zone reference table has unusable entries")
	}

	// Operator notifications
	notifier := notify.NewService(logger)
	notifier.UpdateConfig(&models.NotifyConfig{
		IsEnabled: cfg.Notify.Enabled,
		BotToken:  cfg.Notify.BotToken,
		ChatID:    cfg.Notify.ChatID,
	})

	// Matching pipeline and worker pool
	runner := matching.NewRunner(db, zones, pipeline.New(logger), logger)
	matchQueue := queue.NewMatchQueue(cfg.Matching.QueueSize, logger)
	matchProcessor := processor.NewMatchProcessor(runner, results, notifier, matchQueue, cfg, logger)
	matchQueue.Start()
	matchProcessor.Start()
	defer matchProcessor.Stop()

	// Periodic zone reload and geocoding backfill
	sched := scheduler.NewScheduler(zones, db, geocoder, notifier, logger)
	sched.Start()
	defer sched.Stop()

	// Run initial geocoding for properties without coordinates
	logger.Info("Starting initial geocoding of properties without coordinates...")
	if err := db.UpdateMissingCoordinates(geocoder); err != nil {
		logger.WithError(err).Error("Failed to update coordinates")
	}

	// Initialize router
	router := gin.Default()
	router.Use(cors.Default())

	handler := api.NewHandler(db, zones, runner, geocoder, matchQueue, logger)
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
