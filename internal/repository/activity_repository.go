package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tempowise/internal/model"
)

// ActivityRepository handles CRUD for logged activities.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return opError(OpCreate, collectionPath(activity.UserID, collActivities), err)
	}
	return nil
}

// Update overwrites the editable fields of an activity owned by activity.UserID.
func (r *ActivityRepository) Update(ctx context.Context, activity *model.Activity) error {
	path := documentPath(activity.UserID, collActivities, activity.ID)
	db := r.db.WithContext(ctx)

	var existing model.Activity
	if err := db.Where("user_id = ? AND id = ?", activity.UserID, activity.ID).First(&existing).Error; err != nil {
		return opError(OpUpdate, path, err)
	}
	existing.Description = activity.Description
	existing.CategoryID = activity.CategoryID
	existing.Tags = activity.Tags
	existing.StartTime = activity.StartTime
	existing.EndTime = activity.EndTime
	existing.Duration = activity.Duration
	if err := db.Save(&existing).Error; err != nil {
		return opError(OpUpdate, path, err)
	}
	*activity = existing
	return nil
}

func (r *ActivityRepository) Delete(ctx context.Context, userID, activityID string) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, activityID).Delete(&model.Activity{})
	if res.Error != nil {
		return opError(OpDelete, documentPath(userID, collActivities, activityID), res.Error)
	}
	if res.RowsAffected == 0 {
		return opError(OpDelete, documentPath(userID, collActivities, activityID), ErrNotFound)
	}
	return nil
}

// ListByUser returns every activity of the user, newest first.
func (r *ActivityRepository) ListByUser(ctx context.Context, userID string) ([]model.Activity, error) {
	var activities []model.Activity
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("start_time DESC").Find(&activities).Error; err != nil {
		return nil, opError(OpList, collectionPath(userID, collActivities), err)
	}
	return activities, nil
}

// ListSince returns activities started at or after since, newest first.
func (r *ActivityRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]model.Activity, error) {
	var activities []model.Activity
	if err := r.db.WithContext(ctx).Where("user_id = ? AND start_time >= ?", userID, since.UTC()).
		Order("start_time DESC").
		Find(&activities).Error; err != nil {
		return nil, opError(OpList, collectionPath(userID, collActivities), err)
	}
	return activities, nil
}
