package service

import (
	"context"
	"time"

	"tempowise/internal/model"
	"tempowise/internal/repository"
	"tempowise/internal/stats"
)

// StatsService loads a user's data and aggregates it for a period.
type StatsService struct {
	activityRepo *repository.ActivityRepository
	categoryRepo *repository.CategoryRepository
}

func NewStatsService(activityRepo *repository.ActivityRepository, categoryRepo *repository.CategoryRepository) *StatsService {
	return &StatsService{activityRepo: activityRepo, categoryRepo: categoryRepo}
}

func (s *StatsService) Summary(ctx context.Context, user *model.User, period stats.Period, now time.Time) (stats.Summary, error) {
	categories, err := s.categoryRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return stats.Summary{}, storeErr(err)
	}
	activities, err := s.activityRepo.ListSince(ctx, user.ID, period.Start(now))
	if err != nil {
		return stats.Summary{}, storeErr(err)
	}
	return stats.Aggregate(activities, categories, period, now), nil
}
