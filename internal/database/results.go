package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/kunihiro1200/sateituikyaku-admin-sub010/internal/models"
)

// MatchResultRow is one persisted per-candidate outcome of a matching run.
type MatchResultRow struct {
	ID         int64 `gorm:"primaryKey;autoIncrement"`
	PropertyID int64 `gorm:"index;uniqueIndex:idx_property_contact"`
	// Email may be empty for records kept as singleton identities, so the
	// buyer numbers participate in the conflict key.
	Email         string `gorm:"uniqueIndex:idx_property_contact"`
	BuyerNumbers  string `gorm:"uniqueIndex:idx_property_contact"`
	Passed        bool
	RejectedStage string
	ZoneCodes     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (MatchResultRow) TableName() string {
	return "match_results"
}

// OpenResultStore opens the gorm handle used for match-result persistence
// and migrates its table.
func OpenResultStore(dbPath string) (*ResultStore, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open result store: %w", err)
	}
	if err := db.AutoMigrate(&MatchResultRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate match_results: %w", err)
	}
	return &ResultStore{db: db}, nil
}

// ResultStore persists matching outcomes.
type ResultStore struct {
	db *gorm.DB
}

// SaveMatchResult upserts every candidate trace of one run in a single
// transaction. Re-running a property replaces its previous rows.
func (s *ResultStore) SaveMatchResult(result *models.MatchResult) error {
	rows := RowsFromResult(result)
	if len(rows) == 0 {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := upsertMatchRows(tx, rows); err != nil {
			return fmt.Errorf("failed to upsert match results: %w", err)
		}
		return nil
	})
}

func upsertMatchRows(tx *gorm.DB, rows []*MatchResultRow) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "property_id"}, {Name: "email"}, {Name: "buyer_numbers"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"passed", "rejected_stage", "zone_codes", "updated_at",
		}),
	}).Create(rows).Error
}

// RowsFromResult flattens a match result into persistable rows.
func RowsFromResult(result *models.MatchResult) []*MatchResultRow {
	now := time.Now()
	rows := make([]*MatchResultRow, 0, len(result.Traces))
	for _, trace := range result.Traces {
		rows = append(rows, &MatchResultRow{
			PropertyID:    result.PropertyID,
			Email:         trace.Email,
			BuyerNumbers:  strings.Join(trace.BuyerNumbers, ","),
			Passed:        trace.Passed(),
			RejectedStage: string(trace.RejectedAt),
			ZoneCodes:     result.ZoneCodes,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return rows
}
