package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity is a single logged time interval. Duration is in seconds.
// CategoryID may point at a deleted category.
type Activity struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"index;size:36"`
	Description string
	CategoryID  string    `gorm:"index;size:36"`
	Tags        []string  `gorm:"serializer:json"`
	StartTime   time.Time `gorm:"index"`
	EndTime     time.Time
	Duration    int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (a *Activity) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps stored timestamps in UTC so range queries compare correctly.
func (a *Activity) BeforeSave(*gorm.DB) error {
	a.StartTime = a.StartTime.UTC()
	a.EndTime = a.EndTime.UTC()
	return nil
}
