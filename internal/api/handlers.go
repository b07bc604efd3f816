package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/consolidate"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/database"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/geocoding"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/geometry"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/matching"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/queue"
	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/zone"
)

type Handler struct {
	db       *database.Database
	logger   *logrus.Logger
	zones    *zone.Store
	runner   *matching.Runner
	geocoder *geocoding.Geocoder
	queue    *queue.MatchQueue
	mapper   *geometry.ZoneMapper
}

func NewHandler(db *database.Database, zones *zone.Store, runner *matching.Runner, geocoder *geocoding.Geocoder, q *queue.MatchQueue, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:       db,
		logger:   logger,
		zones:    zones,
		runner:   runner,
		geocoder: geocoder,
		queue:    q,
		mapper:   geometry.NewZoneMapper(logger),
	}
}

// RunMatch enqueues a matching run for a property, or executes it inline
// when ?sync=1 is set (used by diagnostic tooling that wants the trace).
func (h *Handler) RunMatch(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id"})
		return
	}

	if c.Query("sync") == "1" {
		result, err := h.runner.Run(id)
		if err != nil {
			if errors.Is(err, matching.ErrPropertyNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
				return
			}
			h.logger.WithError(err).Error("Failed to run matching")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to run matching"})
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	job := &queue.MatchJob{PropertyID: id, RequestedBy: c.ClientIP()}
	if err := h.queue.Push(job); err != nil {
		h.logger.WithError(err).Error("Failed to enqueue match job")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Match queue unavailable"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "property_id": id})
}

// GetPropertyZones recomputes and returns a property's zone membership.
func (h *Handler) GetPropertyZones(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id"})
		return
	}

	property, err := h.db.GetProperty(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get property")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return
	}
	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	assigned := zone.Assign(property.Coordinate(), property.City, h.zones.References())
	canonical := assigned.Canonical()

	if err := h.db.UpdatePropertyZones(id, canonical); err != nil {
		h.logger.WithError(err).Error("Failed to persist zone codes")
	}

	c.JSON(http.StatusOK, gin.H{
		"property_id": id,
		"number":      property.Number,
		"zone_codes":  canonical,
		"geocoded":    property.Coordinate() != nil,
	})
}

// GetConsolidatedBuyers returns the consolidation preview the back office
// uses to inspect identity merging.
func (h *Handler) GetConsolidatedBuyers(c *gin.Context) {
	records, err := h.db.ListBuyers()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list buyers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list buyers"})
		return
	}

	buyers := consolidate.Consolidate(records)
	c.JSON(http.StatusOK, gin.H{
		"raw_records":  len(records),
		"consolidated": len(buyers),
		"buyers":       buyers,
	})
}

// GetZoneHealth reports the health of the loaded zone-reference table.
func (h *Handler) GetZoneHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.zones.HealthCheck())
}

// ReloadZones refreshes the zone-reference snapshot.
func (h *Handler) ReloadZones(c *gin.Context) {
	if err := h.zones.Reload(); err != nil {
		h.logger.WithError(err).Error("Failed to reload zone references")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload zone references"})
		return
	}
	c.JSON(http.StatusOK, h.zones.HealthCheck())
}

// GetZoneCoverage returns the zone table rendered as GeoJSON.
func (h *Handler) GetZoneCoverage(c *gin.Context) {
	fc := h.mapper.BuildCoverage(h.zones.References())
	c.JSON(http.StatusOK, fc)
}

// UpdateCoordinates triggers the geocoding backfill sweep.
func (h *Handler) UpdateCoordinates(c *gin.Context) {
	if err := h.db.UpdateMissingCoordinates(h.geocoder); err != nil {
		h.logger.WithError(err).Error("Failed to update coordinates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coordinates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
