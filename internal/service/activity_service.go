package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"tempowise/internal/metrics"
	"tempowise/internal/model"
	"tempowise/internal/repository"
	"tempowise/internal/timer"
)

const (
	SourceTimer  = "timer"
	SourceManual = "manual"

	minDescriptionLen = 2
)

// ActivityInput is the manual log form.
type ActivityInput struct {
	Description string
	CategoryID  string
	Tags        []string
	Start       time.Time
	End         time.Time
}

// ActivityService wraps activity persistence and the manual log validation.
type ActivityService struct {
	repo         *repository.ActivityRepository
	categoryRepo *repository.CategoryRepository
}

func NewActivityService(repo *repository.ActivityRepository, categoryRepo *repository.CategoryRepository) *ActivityService {
	return &ActivityService{repo: repo, categoryRepo: categoryRepo}
}

// Log validates a manual entry and stores it. Duration is derived from the times.
func (s *ActivityService) Log(ctx context.Context, user *model.User, input ActivityInput) (*model.Activity, error) {
	activity, err := s.validate(ctx, user, input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, storeErr(err)
	}
	metrics.ActivitiesLogged.WithLabelValues(SourceManual).Inc()
	return activity, nil
}

// Record stores an activity emitted by the timer as is.
func (s *ActivityService) Record(ctx context.Context, user *model.User, activity model.Activity) (*model.Activity, error) {
	activity.ID = ""
	activity.UserID = user.ID
	if err := s.repo.Create(ctx, &activity); err != nil {
		return nil, storeErr(err)
	}
	metrics.ActivitiesLogged.WithLabelValues(SourceTimer).Inc()
	return &activity, nil
}

func (s *ActivityService) Update(ctx context.Context, user *model.User, activityID string, input ActivityInput) (*model.Activity, error) {
	activity, err := s.validate(ctx, user, input)
	if err != nil {
		return nil, err
	}
	activity.ID = activityID
	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, storeErr(err)
	}
	return activity, nil
}

func (s *ActivityService) Delete(ctx context.Context, user *model.User, activityID string) error {
	return storeErr(s.repo.Delete(ctx, user.ID, activityID))
}

// Recent returns up to limit activities, newest first. limit <= 0 returns all.
func (s *ActivityService) Recent(ctx context.Context, user *model.User, limit int) ([]model.Activity, error) {
	activities, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	if limit > 0 && len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

func (s *ActivityService) Since(ctx context.Context, user *model.User, since time.Time) ([]model.Activity, error) {
	activities, err := s.repo.ListSince(ctx, user.ID, since)
	return activities, storeErr(err)
}

func (s *ActivityService) validate(ctx context.Context, user *model.User, input ActivityInput) (*model.Activity, error) {
	description := strings.TrimSpace(input.Description)
	if utf8.RuneCountInString(description) < minDescriptionLen {
		return nil, invalid("description", "description must be at least 2 characters")
	}
	categoryID := strings.TrimSpace(input.CategoryID)
	if categoryID == "" {
		return nil, invalid("category", "category is required")
	}
	if _, err := s.categoryRepo.GetByID(ctx, user.ID, categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid("category", "category does not exist")
		}
		return nil, storeErr(err)
	}
	if input.Start.IsZero() || input.End.IsZero() {
		return nil, invalid("time", "start and end time are required")
	}
	if !input.End.After(input.Start) {
		return nil, invalid("time", "end time must be after start time")
	}

	return &model.Activity{
		UserID:      user.ID,
		Description: description,
		CategoryID:  categoryID,
		Tags:        timer.MergeTags(nil, input.Tags...),
		StartTime:   input.Start,
		EndTime:     input.End,
		Duration:    int64(input.End.Sub(input.Start) / time.Second),
	}, nil
}
