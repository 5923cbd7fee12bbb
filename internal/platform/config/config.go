package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port           string
	GinMode        string
	AllowedOrigins string
	LogLevel       string
	LogFormat      string

	DatasetSource string
	DatasetFile   string

	FirebaseProjectID   string
	FirebaseCredsBase64 string
	FirebaseCredsFile   string
	FirestoreCollection string

	GeoFeaturesURL string
	GeoFeaturesTTL time.Duration
	GeoKeyFields   []string

	SummaryCacheSize int
	MetricsEnabled   bool
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		GinMode:             getEnv("GIN_MODE", "release"),
		AllowedOrigins:      strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS")),
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:           strings.ToLower(getEnv("LOG_FORMAT", "text")),
		DatasetSource:       strings.ToLower(getEnv("DATASET_SOURCE", "embedded")),
		DatasetFile:         strings.TrimSpace(os.Getenv("DATASET_FILE")),
		FirebaseProjectID:   strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
		FirebaseCredsBase64: strings.TrimSpace(os.Getenv("FIREBASE_CREDS_BASE64")),
		FirebaseCredsFile:   strings.TrimSpace(os.Getenv("FIREBASE_CREDS_FILE")),
		FirestoreCollection: getEnv("FIRESTORE_COLLECTION", "region_stats"),
		GeoFeaturesURL:      strings.TrimSpace(os.Getenv("GEO_FEATURES_URL")),
		GeoKeyFields:        parseListEnv("GEO_KEY_FIELDS"),
	}

	ttl, err := parseDurationEnv("GEO_FEATURES_TTL", time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse GEO_FEATURES_TTL: %w", err)
	}
	cfg.GeoFeaturesTTL = ttl

	size, err := parseIntEnv("SUMMARY_CACHE_SIZE", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse SUMMARY_CACHE_SIZE: %w", err)
	}
	cfg.SummaryCacheSize = size

	metrics, err := parseBoolEnv("METRICS_ENABLED", true)
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}
	cfg.MetricsEnabled = metrics

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	switch c.DatasetSource {
	case "embedded":
	case "file":
		if c.DatasetFile == "" {
			return errors.New("DATASET_FILE is required when DATASET_SOURCE=file")
		}
	case "firestore":
		if err := c.ValidateFirestore(); err != nil {
			return fmt.Errorf("DATASET_SOURCE=firestore: %w", err)
		}
	default:
		return fmt.Errorf("DATASET_SOURCE must be embedded, file or firestore, got %q", c.DatasetSource)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.SummaryCacheSize < 1 {
		return errors.New("SUMMARY_CACHE_SIZE must be positive")
	}
	if c.GeoFeaturesTTL < 0 {
		return errors.New("GEO_FEATURES_TTL must not be negative")
	}
	return nil
}

// ValidateFirestore checks the settings needed to open a Firestore client.
func (c Config) ValidateFirestore() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.FirebaseCredsBase64 == "" && c.FirebaseCredsFile == "" {
		return errors.New("provide FIREBASE_CREDS_BASE64 or FIREBASE_CREDS_FILE for Firestore auth")
	}
	return nil
}

// FirebaseCredentialsJSON returns the service account JSON bytes and the source used.
func (c Config) FirebaseCredentialsJSON() ([]byte, string, error) {
	if c.FirebaseCredsBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(c.FirebaseCredsBase64)
		if err != nil {
			return nil, "base64", fmt.Errorf("decode FIREBASE_CREDS_BASE64: %w", err)
		}
		return decoded, "base64", nil
	}
	if c.FirebaseCredsFile != "" {
		data, err := os.ReadFile(c.FirebaseCredsFile)
		if err != nil {
			return nil, "file", fmt.Errorf("read FIREBASE_CREDS_FILE: %w", err)
		}
		return data, "file", nil
	}
	return nil, "", errors.New("no firebase credentials found")
}

// Logger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c Config) Logger() *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", s)
	}
	return level, nil
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

func parseBoolEnv(key string, defaultVal bool) (bool, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false, err
	}
	return parsed, nil
}

func parseIntEnv(key string, defaultVal int) (int, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(val)
}

func parseDurationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(val)
}

// parseListEnv splits a comma-separated value, dropping empty items.
func parseListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
