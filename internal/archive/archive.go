package archive

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SavedTrip is one persisted trip plan. Records are append-only: they are
// never updated or deleted, and duplicate saves are allowed.
type SavedTrip struct {
	ID                  int64
	UserID              int64
	Origin              string
	Destination         string
	ConsumptionPer100Km float64
	MaxHoursPerDay      float64
	CreatedAt           time.Time
}

// Archive persists completed trip plans beyond the lifetime of a session
type Archive interface {
	Append(ctx context.Context, rec *SavedTrip) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]SavedTrip, error)
}

// SavedTripModel is the GORM model for the saved_trips table
type SavedTripModel struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	UserID      int64   `gorm:"index;not null"`
	Origin      string  `gorm:"not null;size:255"`
	Destination string  `gorm:"not null;size:255"`
	Consumption float64 `gorm:"not null"`
	MaxHours    float64 `gorm:"not null"`
	CreatedAt   int64   `gorm:"not null"` // epoch seconds
}

// TableName returns the table name for the GORM model
func (SavedTripModel) TableName() string {
	return "saved_trips"
}

// GormArchive is the GORM-based implementation of Archive
type GormArchive struct {
	db *gorm.DB
}

// NewGormArchive creates a new GormArchive
func NewGormArchive(db *gorm.DB) *GormArchive {
	return &GormArchive{db: db}
}

// Migrate creates the saved_trips table if it does not exist
func (a *GormArchive) Migrate() error {
	return a.db.AutoMigrate(&SavedTripModel{})
}

// Append persists a new saved trip record
func (a *GormArchive) Append(ctx context.Context, rec *SavedTrip) error {
	model := toModel(rec)
	if err := a.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save trip: %w", err)
	}
	rec.ID = model.ID
	return nil
}

// ListForUser retrieves a user's saved trips, most recent first
func (a *GormArchive) ListForUser(ctx context.Context, userID int64, limit int) ([]SavedTrip, error) {
	var models []SavedTripModel
	if err := a.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	trips := make([]SavedTrip, len(models))
	for i, m := range models {
		trips[i] = toDomain(&m)
	}
	return trips, nil
}

func toModel(rec *SavedTrip) *SavedTripModel {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return &SavedTripModel{
		ID:          rec.ID,
		UserID:      rec.UserID,
		Origin:      rec.Origin,
		Destination: rec.Destination,
		Consumption: rec.ConsumptionPer100Km,
		MaxHours:    rec.MaxHoursPerDay,
		CreatedAt:   createdAt.Unix(),
	}
}

func toDomain(m *SavedTripModel) SavedTrip {
	return SavedTrip{
		ID:                  m.ID,
		UserID:              m.UserID,
		Origin:              m.Origin,
		Destination:         m.Destination,
		ConsumptionPer100Km: m.Consumption,
		MaxHoursPerDay:      m.MaxHours,
		CreatedAt:           time.Unix(m.CreatedAt, 0),
	}
}
