package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Window bounds for the lookback slider.
const (
	MinWindowDays = 1
	MaxWindowDays = 365
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// DONKI API configuration.
	NASAAPIKey   string
	DONKIBaseURL string
	DONKITimeout time.Duration

	DefaultWindowDays int

	// Optional Kafka event feed.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	apiKey := strings.TrimSpace(os.Getenv("NASA_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("NASA_API_KEY is required")
	}

	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	donkiTimeout, err := parsePositiveDuration("DONKI_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	windowDays, err := parseWindowDays()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogFormat:         envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
		NASAAPIKey:        apiKey,
		DONKIBaseURL:      strings.TrimRight(envOrDefault("DONKI_BASE_URL", "https://api.nasa.gov/DONKI"), "/"),
		DONKITimeout:      donkiTimeout,
		DefaultWindowDays: windowDays,
		KafkaBrokers:      brokers,
		KafkaTopic:        envOrDefault("KAFKA_TOPIC", "donki-events"),
		KafkaEnabled:      kafkaEnabled,
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when the event feed is enabled")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseWindowDays() (int, error) {
	s := envOrDefault("DEFAULT_WINDOW_DAYS", "30")
	n, err := strconv.Atoi(s)
	if err != nil || n < MinWindowDays || n > MaxWindowDays {
		return 0, fmt.Errorf("invalid DEFAULT_WINDOW_DAYS: must be between %d and %d", MinWindowDays, MaxWindowDays)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
