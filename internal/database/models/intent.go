package models

import (
	"time"

	"github.com/google/uuid"
)

// Intent is a raw user request captured for asynchronous processing.
type Intent struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	RawInput  string    `gorm:"not null" json:"raw_input"`
	Processed bool      `gorm:"not null;default:false" json:"processed"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (Intent) TableName() string {
	return "intents"
}
