package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	"gorm.io/gorm"
)

var (
	dbConfigMu     sync.RWMutex
	dbConfigValues map[string]json.RawMessage
)

// DBConfigValue returns the cached settings value for key, when present.
func DBConfigValue(key string) (json.RawMessage, bool) {
	dbConfigMu.RLock()
	defer dbConfigMu.RUnlock()
	value, ok := dbConfigValues[key]
	return value, ok
}

// ReplaceDBConfig swaps the cached settings snapshot.
func ReplaceDBConfig(values map[string]json.RawMessage) {
	dbConfigMu.Lock()
	defer dbConfigMu.Unlock()
	dbConfigValues = values
}

// IntValue returns the snapshot value for key as a positive int, accepting
// either a JSON number or a quoted numeric string, or fallback otherwise.
func IntValue(key string, fallback int) int {
	raw, ok := DBConfigValue(key)
	if !ok {
		return fallback
	}
	var number int
	if errDecode := json.Unmarshal(raw, &number); errDecode == nil && number > 0 {
		return number
	}
	var text string
	if errDecode := json.Unmarshal(raw, &text); errDecode == nil {
		if _, errScan := fmt.Sscanf(text, "%d", &number); errScan == nil && number > 0 {
			return number
		}
	}
	return fallback
}

// StringValue returns the snapshot value for key as a non-empty string.
func StringValue(key string, fallback string) string {
	raw, ok := DBConfigValue(key)
	if !ok {
		return fallback
	}
	var text string
	if errDecode := json.Unmarshal(raw, &text); errDecode == nil && text != "" {
		return text
	}
	return fallback
}

// Refresh reloads the settings snapshot from the database.
func Refresh(ctx context.Context, conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("settings: nil connection")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var rows []models.Setting
	if errFind := conn.WithContext(ctx).Find(&rows).Error; errFind != nil {
		return fmt.Errorf("settings: load: %w", errFind)
	}
	values := make(map[string]json.RawMessage, len(rows))
	for _, row := range rows {
		values[row.Key] = row.RawValue()
	}
	ReplaceDBConfig(values)
	return nil
}
