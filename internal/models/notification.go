package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is a per-recipient message produced by the fan-out on every
// significant mutation (PostgreSQL). Lifecycle: created(read=false) is
// either marked read (one-way) or hard-deleted; no other field changes
// after creation.
type Notification struct {
	ID         string         `json:"id" gorm:"primaryKey;size:36"`
	UserID     string         `json:"userId" gorm:"size:64;index"`
	ExecutorID string         `json:"executorId,omitempty" gorm:"size:64"`
	Type       string         `json:"type" gorm:"size:40;index"` // e.g. contractAction, documentMinted, kycReviewed
	Title      string         `json:"title" gorm:"size:255"`
	Message    string         `json:"message"`
	Read       bool           `json:"read" gorm:"default:false;index"`
	ExtraData  datatypes.JSON `json:"extraData,omitempty"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"index"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
