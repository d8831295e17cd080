package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tempowise/internal/model"
)

// EnergyRepository stores self-reported energy levels.
type EnergyRepository struct {
	db *gorm.DB
}

func NewEnergyRepository(db *gorm.DB) *EnergyRepository {
	return &EnergyRepository{db: db}
}

func (r *EnergyRepository) Create(ctx context.Context, entry *model.EnergyLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return opError(OpCreate, collectionPath(entry.UserID, collEnergy), err)
	}
	return nil
}

// ListSince returns energy logs dated at or after since, oldest first.
func (r *EnergyRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]model.EnergyLog, error) {
	var entries []model.EnergyLog
	if err := r.db.WithContext(ctx).Where("user_id = ? AND date >= ?", userID, since.UTC()).
		Order("date ASC").
		Find(&entries).Error; err != nil {
		return nil, opError(OpList, collectionPath(userID, collEnergy), err)
	}
	return entries, nil
}
