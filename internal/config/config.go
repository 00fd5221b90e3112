package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath    = "CONFIG_PATH"
	EnvDBConnection  = "DB_CONNECTION"
	EnvJWTSecret     = "JWT_SECRET"
	EnvJWTExpiry     = "JWT_EXPIRY"
	EnvAdminUsername = "ADMIN_USERNAME"
	EnvAdminPassword = "ADMIN_PASSWORD"
	EnvSiteHost      = "SITE_HOST"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ErrMissingDatabaseDSN indicates no database DSN is present in the config file.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn` or `database.dsn` in config file)")

// JWTConfig holds JWT secret and expiry settings for admin sessions.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// SiteConfig holds the public-site identity the origin guard compares against.
type SiteConfig struct {
	Host string `yaml:"host"`
	Name string `yaml:"name"`
}

// NotifyConfig holds outbound notification settings.
type NotifyConfig struct {
	SMTPAddr     string `yaml:"smtp-addr"`
	SMTPUsername string `yaml:"smtp-username"`
	SMTPPassword string `yaml:"smtp-password"`
	FromAddress  string `yaml:"from-address"`
	ContactInbox string `yaml:"contact-inbox"`
	AnalyticsURL string `yaml:"analytics-url"`
	AnalyticsKey string `yaml:"analytics-key"`
}

// ContentConfig holds the markdown content feed settings.
type ContentConfig struct {
	Dir string `yaml:"dir"`
}

// LoadDatabaseDSN reads the database DSN from the YAML config file.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}

	// fileConfig maps the YAML fields needed for DSN resolution.
	type fileConfig struct {
		DatabaseDSN string `yaml:"database-dsn"`
		Database    struct {
			DSN string `yaml:"dsn"`
		} `yaml:"database"`
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("read config file: %w", err)
	}

	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return "", fmt.Errorf("parse config file: %w", errUnmarshal)
	}

	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return "", ErrMissingDatabaseDSN
}

// defaultJWTExpiry is used when the config omits or invalidates JWT expiry.
const defaultJWTExpiry = 24 * time.Hour

// LoadJWTConfig loads JWT settings from the YAML config file.
func LoadJWTConfig(configPath string) (JWTConfig, error) {
	// fileConfig maps the YAML fields needed for JWT settings.
	type fileConfig struct {
		JWT JWTConfig `yaml:"jwt"`
	}

	result := JWTConfig{Expiry: defaultJWTExpiry}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.JWT
		}
	}

	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		result.Secret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			result.Expiry = expiry
		}
	}

	if result.Expiry <= 0 {
		result.Expiry = defaultJWTExpiry
	}
	return result, nil
}

// LoadSiteConfig loads the public-site identity from the YAML config file.
func LoadSiteConfig(configPath string) (SiteConfig, error) {
	// fileConfig maps the YAML fields needed for site identity.
	type fileConfig struct {
		Site SiteConfig `yaml:"site"`
	}

	var result SiteConfig

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.Site
		}
	}

	if host := strings.TrimSpace(os.Getenv(EnvSiteHost)); host != "" {
		result.Host = host
	}
	result.Host = strings.TrimSpace(result.Host)
	result.Name = strings.TrimSpace(result.Name)
	return result, nil
}

// LoadNotifyConfig loads outbound notification settings from the YAML config file.
func LoadNotifyConfig(configPath string) (NotifyConfig, error) {
	// fileConfig maps the YAML fields needed for notifications.
	type fileConfig struct {
		Notify NotifyConfig `yaml:"notify"`
	}

	var result NotifyConfig

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.Notify
		}
	}
	return result, nil
}

// defaultContentDir is used when the config omits the content directory.
const defaultContentDir = "./content"

// LoadContentConfig loads the content feed settings from the YAML config file.
func LoadContentConfig(configPath string) (ContentConfig, error) {
	// fileConfig maps the YAML fields needed for the content feed.
	type fileConfig struct {
		Content ContentConfig `yaml:"content"`
	}

	result := ContentConfig{Dir: defaultContentDir}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil && strings.TrimSpace(cfg.Content.Dir) != "" {
			result = cfg.Content
		}
	}
	result.Dir = strings.TrimSpace(result.Dir)
	return result, nil
}

// AdminSeed holds the first-boot admin credentials from the environment.
type AdminSeed struct {
	Username string
	Password string
}

// LoadAdminSeed reads first-boot admin credentials from the environment.
func LoadAdminSeed() (AdminSeed, bool) {
	seed := AdminSeed{
		Username: strings.TrimSpace(os.Getenv(EnvAdminUsername)),
		Password: strings.TrimSpace(os.Getenv(EnvAdminPassword)),
	}
	return seed, seed.Username != "" && seed.Password != ""
}
