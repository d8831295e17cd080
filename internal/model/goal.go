package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Goal is a weekly hour target for a category. Progress is never stored.
type Goal struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"index;size:36"`
	Name        string
	CategoryID  string `gorm:"size:36"`
	TargetHours float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (g *Goal) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
