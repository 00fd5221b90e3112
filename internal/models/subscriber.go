package models

import "time"

// Subscriber represents an email-subscription capture. Rows are append-only
// from the public surface; confirmation flips the Confirmed flag only.
type Subscriber struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Email  string `gorm:"type:text;not null;uniqueIndex"` // Subscribed email address.
	Source string `gorm:"type:text;not null"`             // Capture source (page or campaign).

	Token     string `gorm:"type:text;not null;uniqueIndex"` // Confirm/unsubscribe token.
	Confirmed bool   `gorm:"not null;default:false"`         // Double-opt-in state.

	ClientIP string `gorm:"type:text;not null"` // Client IP at capture time.
	Device   string `gorm:"type:text"`          // Coarse device descriptor (user agent).

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Capture timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last update timestamp.
}
