package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Setting stores a runtime-tunable configuration value as JSON.
type Setting struct {
	Key   string         `gorm:"primaryKey;type:text"` // Setting key.
	Value datatypes.JSON `gorm:"type:jsonb"`           // JSON-encoded value.

	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// RawValue returns the setting value as a raw JSON message.
func (s Setting) RawValue() json.RawMessage {
	return json.RawMessage(s.Value)
}
