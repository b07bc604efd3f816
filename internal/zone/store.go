package zone

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
)

// ReferenceSource supplies the zone-reference table, typically the database.
type ReferenceSource interface {
	ListZoneReferences() ([]models.ZoneReference, error)
}

// Store caches the zone-reference table in memory. Reload swaps the whole
// snapshot under the lock, so readers always see either the old table or the
// new one, never a partial update.
type Store struct {
	mu       sync.RWMutex
	refs     []models.ZoneReference
	loadedAt time.Time

	source ReferenceSource
	logger *logrus.Logger
}

// NewStore creates an empty store backed by the given source.
func NewStore(source ReferenceSource, logger *logrus.Logger) *Store {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Store{
		source: source,
		logger: logger,
	}
}

// Reload fetches a fresh reference table and swaps it in atomically.
func (s *Store) Reload() error {
	refs, err := s.source.ListZoneReferences()
	if err != nil {
		return fmt.Errorf("failed to load zone references: %w", err)
	}

	s.mu.Lock()
	s.refs = refs
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.WithField("count", len(refs)).Info("Reloaded zone references")
	return nil
}

// References returns a copy of the current snapshot.
func (s *Store) References() []models.ZoneReference {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ZoneReference, len(s.refs))
	copy(out, s.refs)
	return out
}

// HealthCheck counts valid and invalid entries in the current snapshot.
// References that are neither radius- nor city-capable can never match and
// are listed explicitly so misconfiguration does not fail silently.
func (s *Store) HealthCheck() models.ZoneHealth {
	s.mu.RLock()
	refs := s.refs
	loadedAt := s.loadedAt
	s.mu.RUnlock()

	health := models.ZoneHealth{
		Total:    len(refs),
		LoadedAt: loadedAt,
	}

	for i := range refs {
		ref := &refs[i]
		if ref.Active {
			health.Active++
		}
		if _, ok := SymbolOf(ref.Symbol); !ok {
			health.InvalidSymbol++
			health.InvalidSymbols = append(health.InvalidSymbols, ref.Symbol)
		}
		if ref.RadiusCapable() {
			health.RadiusCapable++
		}
		if ref.CityWideCapable() {
			health.CityWideCapable++
		}
		if ref.Misconfigured() {
			health.Misconfigured++
			health.MisconfiguredSymbols = append(health.MisconfiguredSymbols, ref.Symbol)
		}
	}

	if !health.Healthy() {
		s.logger.WithFields(logrus.Fields{
			"misconfigured":  health.Misconfigured,
			"invalid_symbol": health.InvalidSymbol,
		}).Warn("Zone reference table has unusable entries")
	}

	return health
}
