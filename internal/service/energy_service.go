package service

import (
	"context"
	"time"

	"tempowise/internal/model"
	"tempowise/internal/repository"
)

const (
	minRating = 1
	maxRating = 5
)

type EnergyService struct {
	repo *repository.EnergyRepository
}

func NewEnergyService(repo *repository.EnergyRepository) *EnergyService {
	return &EnergyService{repo: repo}
}

// Record stores today's energy and motivation ratings (1..5).
func (s *EnergyService) Record(ctx context.Context, user *model.User, level, motivation int, now time.Time) (*model.EnergyLog, error) {
	if level < minRating || level > maxRating {
		return nil, invalid("energy", "energy must be between 1 and 5")
	}
	if motivation < minRating || motivation > maxRating {
		return nil, invalid("motivation", "motivation must be between 1 and 5")
	}
	year, month, day := now.Date()
	entry := model.EnergyLog{
		UserID:     user.ID,
		Date:       time.Date(year, month, day, 0, 0, 0, 0, now.Location()),
		Level:      level,
		Motivation: motivation,
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		return nil, storeErr(err)
	}
	return &entry, nil
}

func (s *EnergyService) Since(ctx context.Context, user *model.User, since time.Time) ([]model.EnergyLog, error) {
	logs, err := s.repo.ListSince(ctx, user.ID, since)
	return logs, storeErr(err)
}
