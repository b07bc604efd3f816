package scheduler

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/database"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/geocoding"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/zone"
)

// JobType represents the scheduler's periodic jobs
type JobType int

const (
	JobTypeZoneReload JobType = iota
	JobTypeGeocode
)

// String returns the string representation of a JobType
func (j JobType) String() string {
	switch j {
	case JobTypeZoneReload:
		return "zone_reload"
	case JobTypeGeocode:
		return "geocode"
	default:
		return "unknown"
	}
}

// HealthNotifier receives the result of a scheduled zone health check.
type HealthNotifier interface {
	NotifyZoneHealth(health models.ZoneHealth) error
}

// Scheduler runs the periodic maintenance jobs: reloading the zone-reference
// snapshot (with a health check) every hour and backfilling missing property
// coordinates overnight.
type Scheduler struct {
	zones        *zone.Store
	db           *database.Database
	geocoder     *geocoding.Geocoder
	notifier     HealthNotifier
	logger       *logrus.Logger
	stopChan     chan struct{}
	wg           sync.WaitGroup
	jobMutex     sync.Mutex // Ensures sequential job execution
	isStartupRun bool       // Tracks whether we're in startup run
}

// NewScheduler creates a new scheduler
func NewScheduler(zones *zone.Store, db *database.Database, geocoder *geocoding.Geocoder, notifier HealthNotifier, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		zones:        zones,
		db:           db,
		geocoder:     geocoder,
		notifier:     notifier,
		logger:       logger,
		stopChan:     make(chan struct{}),
		isStartupRun: true, // Initialize as true for startup
	}
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

// runScheduler handles all scheduled tasks
func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	// Run startup jobs in a separate goroutine
	go func() {
		s.jobMutex.Lock()
		defer s.jobMutex.Unlock()
		s.logger.Info("Running startup maintenance jobs")
		s.runZoneReload()
		s.isStartupRun = false // Mark startup as complete
		s.logger.Info("Startup maintenance jobs completed")
	}()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case t := <-ticker.C:
			s.executeScheduledJobs(t)
		}
	}
}

// executeScheduledJobs runs all jobs that are scheduled for the given time
func (s *Scheduler) executeScheduledJobs(t time.Time) {
	// Skip if we're still running startup jobs
	if s.isStartupRun {
		s.logger.Debug("Skipping scheduled jobs while startup is in progress")
		return
	}

	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	s.logger.WithFields(logrus.Fields{
		"hour":   t.Hour(),
		"minute": t.Minute(),
	}).Debug("Checking scheduled jobs")

	// Reload zone references on the hour
	if t.Minute() == 0 {
		s.logger.WithField("job_type", JobTypeZoneReload.String()).Info("Starting scheduled zone reload")
		s.runZoneReload()
		s.logger.WithField("job_type", JobTypeZoneReload.String()).Info("Completed scheduled zone reload")
	}

	// Geocoding backfill at 03:00, outside office hours
	if t.Hour() == 3 && t.Minute() == 0 {
		s.logger.WithField("job_type", JobTypeGeocode.String()).Info("Starting scheduled geocoding backfill")
		s.runGeocodeBackfill()
		s.logger.WithField("job_type", JobTypeGeocode.String()).Info("Completed scheduled geocoding backfill")
	}
}

// runZoneReload refreshes the zone snapshot and reports its health
func (s *Scheduler) runZoneReload() {
	if err := s.zones.Reload(); err != nil {
		s.logger.WithError(err).WithField("job_type", JobTypeZoneReload.String()).Error("Zone reload failed")
		return
	}

	health := s.zones.HealthCheck()
	if !health.Healthy() && s.notifier != nil {
		if err := s.notifier.NotifyZoneHealth(health); err != nil {
			s.logger.WithError(err).Error("Failed to send zone health notification")
		}
	}
}

// runGeocodeBackfill resolves coordinates for properties that still lack them
func (s *Scheduler) runGeocodeBackfill() {
	if err := s.db.UpdateMissingCoordinates(s.geocoder); err != nil {
		s.logger.WithError(err).WithField("job_type", JobTypeGeocode.String()).Error("Geocoding backfill failed")
	}
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
