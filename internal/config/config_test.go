package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "DEMO_KEY"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NASA_API_KEY", testAPIKey)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testAPIKey, cfg.NASAAPIKey)
	assert.Equal(t, "https://api.nasa.gov/DONKI", cfg.DONKIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.DONKITimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 30, cfg.DefaultWindowDays)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "donki-events", cfg.KafkaTopic)
	assert.False(t, cfg.KafkaEnabled)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("NASA_API_KEY", testAPIKey)
	t.Setenv("DONKI_BASE_URL", "http://localhost:9000/DONKI/")
	t.Setenv("DONKI_TIMEOUT", "5s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("DEFAULT_WINDOW_DAYS", "7")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "space-weather")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/DONKI", cfg.DONKIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.DONKITimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 7, cfg.DefaultWindowDays)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "space-weather", cfg.KafkaTopic)
	assert.True(t, cfg.KafkaEnabled)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("NASA_API_KEY", "")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NASA_API_KEY")
}

func TestLoad_BlankAPIKey(t *testing.T) {
	t.Setenv("NASA_API_KEY", "   ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NASA_API_KEY")
}

func TestLoad_InvalidDurations(t *testing.T) {
	for _, key := range []string{"SHUTDOWN_TIMEOUT", "DONKI_TIMEOUT"} {
		for _, value := range []string{"not-a-duration", "-1s", "0s"} {
			t.Run(key+"="+value, func(t *testing.T) {
				t.Setenv("NASA_API_KEY", testAPIKey)
				t.Setenv(key, value)
				_, err := Load()
				require.Error(t, err)
				assert.Contains(t, err.Error(), key)
			})
		}
	}
}

func TestLoad_InvalidWindowDays(t *testing.T) {
	for _, value := range []string{"0", "366", "thirty"} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("NASA_API_KEY", testAPIKey)
			t.Setenv("DEFAULT_WINDOW_DAYS", value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "DEFAULT_WINDOW_DAYS")
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("NASA_API_KEY", testAPIKey)
	t.Setenv("KAFKA_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_KafkaExplicitlyDisabled(t *testing.T) {
	t.Setenv("NASA_API_KEY", testAPIKey)
	t.Setenv("KAFKA_BROKERS", "broker1:9092")
	t.Setenv("KAFKA_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092"}, cfg.KafkaBrokers)
}
