package repository

import (
	"context"

	"gorm.io/gorm"

	"tempowise/internal/model"
)

// GoalRepository stores weekly goals.
type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if err := r.db.WithContext(ctx).Create(goal).Error; err != nil {
		return opError(OpCreate, collectionPath(goal.UserID, collGoals), err)
	}
	return nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID string) ([]model.Goal, error) {
	var goals []model.Goal
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&goals).Error; err != nil {
		return nil, opError(OpList, collectionPath(userID, collGoals), err)
	}
	return goals, nil
}

func (r *GoalRepository) Delete(ctx context.Context, userID, goalID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, goalID).Delete(&model.Goal{})
	if res.Error != nil {
		return opError(OpDelete, documentPath(userID, collGoals, goalID), res.Error)
	}
	if res.RowsAffected == 0 {
		return opError(OpDelete, documentPath(userID, collGoals, goalID), ErrNotFound)
	}
	return nil
}
