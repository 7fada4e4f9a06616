//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ecsitomi/donki-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker for the lifetime of the test and
// returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	kafkaC, err := tckafka.Run(ctx, kafkaImage,
		tckafka.WithClusterID("donki-test"),
		testcontainers.WithEnv(map[string]string{
			"KAFKA_AUTO_CREATE_TOPICS_ENABLE": "true",
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kafkaC.Terminate(context.Background()) })

	brokers, err := kafkaC.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// loadSampleEvents reads the CME fixture shared with the dashboard tests.
func loadSampleEvents(t *testing.T) []domain.Event {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "dashboard", "testdata", "cme_sample.json"))
	require.NoError(t, err)

	v, err := domain.DecodeValue(data)
	require.NoError(t, err)
	items, ok := v.([]any)
	require.True(t, ok)

	events := make([]domain.Event, 0, len(items))
	for _, item := range items {
		obj, ok := item.(*domain.Object)
		require.True(t, ok)
		events = append(events, domain.NewEvent(obj))
	}
	return events
}
