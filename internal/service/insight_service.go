package service

import (
	"context"
	"fmt"
	"time"

	"tempowise/internal/insight"
	"tempowise/internal/model"
	"tempowise/internal/repository"
)

// InsightWindow is how far back activities and energy logs are sent to the model.
const InsightWindow = 30 * 24 * time.Hour

// InsightService collects recent data and asks the generator for advice.
type InsightService struct {
	gen          *insight.Service
	activityRepo *repository.ActivityRepository
	categoryRepo *repository.CategoryRepository
	energyRepo   *repository.EnergyRepository
}

func NewInsightService(gen *insight.Service, activityRepo *repository.ActivityRepository, categoryRepo *repository.CategoryRepository, energyRepo *repository.EnergyRepository) *InsightService {
	return &InsightService{gen: gen, activityRepo: activityRepo, categoryRepo: categoryRepo, energyRepo: energyRepo}
}

func (s *InsightService) Enabled() bool { return s.gen.Enabled() }

// Insights returns generated text or one of the fallback messages. Only
// loading the user's data can fail.
func (s *InsightService) Insights(ctx context.Context, user *model.User, now time.Time) (string, error) {
	since := now.Add(-InsightWindow)
	activities, err := s.activityRepo.ListSince(ctx, user.ID, since)
	if err != nil {
		return "", storeErr(err)
	}
	categories, err := s.categoryRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return "", storeErr(err)
	}
	energy, err := s.energyRepo.ListSince(ctx, user.ID, since)
	if err != nil {
		return "", storeErr(err)
	}

	activityJSON, err := insight.BuildActivityLogs(activities, categories)
	if err != nil {
		return "", fmt.Errorf("build activity logs: %w", err)
	}
	energyJSON, err := insight.BuildEnergyLevels(energy)
	if err != nil {
		return "", fmt.Errorf("build energy levels: %w", err)
	}
	return s.gen.Insights(ctx, activityJSON, energyJSON), nil
}

// SuggestTags never fails; see insight.Service.
func (s *InsightService) SuggestTags(ctx context.Context, text string) []string {
	return s.gen.SuggestTags(ctx, text)
}
