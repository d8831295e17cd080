package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"tempowise/internal/model"
	"tempowise/internal/repository"
	"tempowise/internal/stats"
)

// GoalInput is the new goal form.
type GoalInput struct {
	Name        string
	CategoryID  string
	TargetHours float64
}

type GoalService struct {
	repo         *repository.GoalRepository
	categoryRepo *repository.CategoryRepository
	activityRepo *repository.ActivityRepository
}

func NewGoalService(repo *repository.GoalRepository, categoryRepo *repository.CategoryRepository, activityRepo *repository.ActivityRepository) *GoalService {
	return &GoalService{repo: repo, categoryRepo: categoryRepo, activityRepo: activityRepo}
}

func (s *GoalService) Create(ctx context.Context, user *model.User, input GoalInput) (*model.Goal, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "goal name is required")
	}
	if input.TargetHours <= 0 || math.IsNaN(input.TargetHours) || math.IsInf(input.TargetHours, 0) {
		return nil, invalid("target", "target hours must be greater than zero")
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

	goal := model.Goal{UserID: user.ID, Name: name, CategoryID: categoryID, TargetHours: input.TargetHours}
	if err := s.repo.Create(ctx, &goal); err != nil {
		return nil, storeErr(err)
	}
	return &goal, nil
}

// List returns every goal with progress derived from all of the user's activities.
func (s *GoalService) List(ctx context.Context, user *model.User) ([]stats.GoalProgress, error) {
	goals, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	if len(goals) == 0 {
		return []stats.GoalProgress{}, nil
	}
	activities, err := s.activityRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, storeErr(err)
	}

	out := make([]stats.GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, stats.Progress(g, activities))
	}
	return out, nil
}

func (s *GoalService) Delete(ctx context.Context, user *model.User, goalID string) error {
	return storeErr(s.repo.Delete(ctx, user.ID, goalID))
}
