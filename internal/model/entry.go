package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DataEntry is a user-owned business record shown on the dashboard.
// Every entry has exactly one owner; mutations must match both the
// entry id and the owner id.
type DataEntry struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	Date      string    `json:"date" gorm:"size:10;not null"`
	Sales     float64   `json:"sales" gorm:"not null"`
	Profit    float64   `json:"profit" gorm:"not null"`
	Category  string    `json:"category" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (e *DataEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
