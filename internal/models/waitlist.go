package models

import (
	"time"

	"gorm.io/gorm"
)

// WaitlistEntry is a single email signup. Rows are insert-only.
type WaitlistEntry struct {
	ID         uint      `gorm:"primaryKey"`
	Email      string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	SignupDate time.Time `gorm:"not null;index"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}

func (e *WaitlistEntry) BeforeCreate(tx *gorm.DB) error {
	if e.SignupDate.IsZero() {
		e.SignupDate = time.Now().UTC()
	}
	return nil
}
