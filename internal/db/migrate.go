package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	internalsettings "github.com/makemikefulleragain/kamunity-10july-sub001/internal/settings"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Migrate runs database migrations and seeds default settings.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.Admin{},
		&models.ContactMessage{},
		&models.Subscriber{},
		&models.AnalyticsEvent{},
		&models.Setting{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	if errSeed := ensureRateLimitSettings(conn); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureIntSetting(conn, internalsettings.SanitizeMaxLengthKey, internalsettings.DefaultSanitizeMaxLength); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureStringSetting(conn, internalsettings.SiteNameKey, internalsettings.DefaultSiteName); errSeed != nil {
		return errSeed
	}

	// ddl defines an index statement to apply.
	type ddl struct {
		name string // Human-readable name for error reporting.
		sql  string // SQL to execute.
	}
	ddls := []ddl{
		{
			name: "idx_contact_messages_status_created_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_contact_messages_status_created_at
				ON contact_messages (status, created_at DESC)
			`,
		},
		{
			name: "idx_subscribers_confirmed_created_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_subscribers_confirmed_created_at
				ON subscribers (confirmed, created_at DESC)
			`,
		},
		{
			name: "idx_analytics_events_kind_created_at",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_analytics_events_kind_created_at
				ON analytics_events (kind, created_at DESC)
			`,
		},
		{
			name: "idx_settings_updated_at_key",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_settings_updated_at_key
				ON settings (updated_at DESC, key DESC)
			`,
		},
	}
	for _, item := range ddls {
		if errDDL := conn.Exec(item.sql).Error; errDDL != nil {
			return fmt.Errorf("db: create index %s: %w", item.name, errDDL)
		}
	}

	return nil
}

// ensureRateLimitSettings seeds per-endpoint rate-limit tunables.
func ensureRateLimitSettings(conn *gorm.DB) error {
	seeds := []struct {
		key   string
		value int
	}{
		{internalsettings.ContactRateLimitMaxKey, internalsettings.DefaultContactRateLimitMax},
		{internalsettings.ContactRateLimitWindowSecondsKey, internalsettings.DefaultContactRateLimitWindowSeconds},
		{internalsettings.SubscribeRateLimitMaxKey, internalsettings.DefaultSubscribeRateLimitMax},
		{internalsettings.SubscribeRateLimitWindowSecondsKey, internalsettings.DefaultSubscribeRateLimitWindowSeconds},
	}
	for _, seed := range seeds {
		if errEnsure := ensureIntSetting(conn, seed.key, seed.value); errEnsure != nil {
			return errEnsure
		}
	}
	return nil
}

// ensureIntSetting ensures an integer setting exists and defaults when empty.
func ensureIntSetting(conn *gorm.DB, key string, value int) error {
	payload, errMarshal := json.Marshal(value)
	if errMarshal != nil {
		return fmt.Errorf("db: marshal %s setting: %w", key, errMarshal)
	}
	return ensureSetting(conn, key, json.RawMessage(payload))
}

// ensureStringSetting ensures a string setting exists and defaults when empty.
func ensureStringSetting(conn *gorm.DB, key string, value string) error {
	payload, errMarshal := json.Marshal(value)
	if errMarshal != nil {
		return fmt.Errorf("db: marshal %s setting: %w", key, errMarshal)
	}
	return ensureSetting(conn, key, json.RawMessage(payload))
}

// ensureSetting creates the setting when missing and backfills empty values.
func ensureSetting(conn *gorm.DB, key string, rawValue json.RawMessage) error {
	var existing models.Setting
	if errFind := conn.Where("key = ?", key).First(&existing).Error; errFind == nil {
		trimmed := strings.TrimSpace(string(existing.Value))
		if len(existing.Value) == 0 || trimmed == "" || trimmed == "null" {
			if errUpdate := conn.Model(&existing).Updates(map[string]any{
				"value":      rawValue,
				"updated_at": time.Now().UTC(),
			}).Error; errUpdate != nil {
				return fmt.Errorf("db: update %s setting: %w", key, errUpdate)
			}
		}
		return nil
	} else if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db: query %s setting: %w", key, errFind)
	}

	setting := models.Setting{
		Key:       key,
		Value:     datatypes.JSON(rawValue),
		UpdatedAt: time.Now().UTC(),
	}
	if errCreate := conn.Create(&setting).Error; errCreate != nil {
		return fmt.Errorf("db: create %s setting: %w", key, errCreate)
	}
	return nil
}
