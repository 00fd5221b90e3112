package models

import "time"

// Contact message read states.
const (
	// ContactStatusUnread marks a message no admin has opened yet.
	ContactStatusUnread = "unread"
	// ContactStatusRead marks a message an admin has opened.
	ContactStatusRead = "read"
)

// ContactMessage represents a contact-form submission. Rows are append-only:
// the public surface never updates or deletes them, the admin surface only
// flips the read status.
type ContactMessage struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`       // Primary key.
	Reference string `gorm:"type:text;not null;uniqueIndex"` // Public reference ID.

	Name    string `gorm:"type:text;not null"` // Sender display name.
	Email   string `gorm:"type:text;not null"` // Sender email address.
	Subject string `gorm:"type:text;not null"` // Message subject line.
	Message string `gorm:"type:text;not null"` // Message body.

	Token    string `gorm:"type:text"`          // Verification token as submitted (not verified).
	ClientIP string `gorm:"type:text;not null"` // Client IP at submission time.
	Device   string `gorm:"type:text"`          // Coarse device descriptor (user agent).

	Status string `gorm:"type:text;not null;default:unread"` // Read state.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Submission timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`       // Last status change.
}
