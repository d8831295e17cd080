package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EnergyLog is a self-reported energy and motivation rating, both 1..5.
type EnergyLog struct {
	ID         string    `gorm:"primaryKey;size:36"`
	UserID     string    `gorm:"index;size:36"`
	Date       time.Time `gorm:"index"`
	Level      int
	Motivation int
	CreatedAt  time.Time
}

func (e *EnergyLog) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (e *EnergyLog) BeforeSave(*gorm.DB) error {
	e.Date = e.Date.UTC()
	return nil
}
