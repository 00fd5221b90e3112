package models

import "time"

// Analytics event kinds recorded by the public surface.
const (
	// EventContactSubmitted is recorded after a contact message persists.
	EventContactSubmitted = "contact_submitted"
	// EventSubscribeCaptured is recorded after a subscriber persists.
	EventSubscribeCaptured = "subscribe_captured"
)

// AnalyticsEvent is the local mirror of events forwarded to the analytics
// provider; the dashboard trend queries read from this table so KPIs do not
// depend on the third-party service being reachable.
type AnalyticsEvent struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Kind     string `gorm:"type:text;not null;index"` // Event kind.
	Endpoint string `gorm:"type:text;not null"`       // Originating endpoint namespace.
	ClientIP string `gorm:"type:text"`                // Client IP, when known.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"` // Event timestamp.
}
