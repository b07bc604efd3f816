package matching

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/consolidate"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/pipeline"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/zone"
)

// ErrPropertyNotFound is returned when the requested property does not exist.
var ErrPropertyNotFound = errors.New("property not found")

// DataStore supplies the snapshot a matching run operates on. All I/O
// happens through it before the pure computation starts.
type DataStore interface {
	GetProperty(id int64) (*models.Property, error)
	ListBuyers() ([]models.RawBuyerRecord, error)
}

// Runner executes one full matching pass: fetch the snapshot, recompute the
// property's zones, consolidate buyer identities, and filter. Runs for
// different properties are independent and safe to execute concurrently.
type Runner struct {
	store    DataStore
	zones    *zone.Store
	pipeline *pipeline.Pipeline
	logger   *logrus.Logger
}

func NewRunner(store DataStore, zones *zone.Store, pipe *pipeline.Pipeline, logger *logrus.Logger) *Runner {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Runner{
		store:    store,
		zones:    zones,
		pipeline: pipe,
		logger:   logger,
	}
}

// Run performs the matching pass for one property.
func (r *Runner) Run(propertyID int64) (*models.MatchResult, error) {
	property, err := r.store.GetProperty(propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch property %d: %w", propertyID, err)
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	// zoneCodes is derived, never trusted from input.
	assigned := zone.Assign(property.Coordinate(), property.City, r.zones.References())
	property.ZoneCodes = assigned.Canonical()

	if property.Coordinate() == nil {
		r.logger.WithFields(logrus.Fields{
			"property": property.Number,
			"city":     property.City,
		}).Warn("Property has no coordinate; only city-wide zones evaluated")
	}

	records, err := r.store.ListBuyers()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch buyer records: %w", err)
	}

	buyers := consolidate.Consolidate(records)
	r.logger.WithFields(logrus.Fields{
		"property":     property.Number,
		"zone_codes":   property.ZoneCodes,
		"raw_records":  len(records),
		"consolidated": len(buyers),
	}).Info("Starting matching run")

	return r.pipeline.Filter(property, buyers), nil
}
