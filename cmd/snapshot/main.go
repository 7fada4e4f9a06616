// Command snapshot fetches one DONKI selection and prints what the dashboard
// would show for it, as text, JSON, or YAML. With -raw it also saves the
// fetched events, which is how the test fixtures are refreshed.
//
// Usage:
//
//	NASA_API_KEY=... go run ./cmd/snapshot -days 30 -type CME -format yaml
//	NASA_API_KEY=... go run ./cmd/snapshot -days 7 -raw internal/dashboard/testdata/cme_sample.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ecsitomi/donki-dashboard/internal/adapter/donki"
	"github.com/ecsitomi/donki-dashboard/internal/config"
	"github.com/ecsitomi/donki-dashboard/internal/dashboard"
	"github.com/ecsitomi/donki-dashboard/internal/domain"
	"github.com/ecsitomi/donki-dashboard/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	days := fs.Int("days", 0, "lookback window in days, 1-365 (default DEFAULT_WINDOW_DAYS)")
	typ := fs.String("type", string(domain.EventTypeCME), "event type: CME, FLR, or GST")
	format := fs.String("format", formatText, "output format: text, json, or yaml")
	raw := fs.String("raw", "", "optional path to save the fetched events as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	eventType, err := domain.ParseEventType(*typ)
	if err != nil {
		return err
	}
	write, err := formatter(*format)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *days == 0 {
		*days = cfg.DefaultWindowDays
	}
	if *days < config.MinWindowDays || *days > config.MaxWindowDays {
		return fmt.Errorf("-days must be between %d and %d", config.MinWindowDays, config.MaxWindowDays)
	}

	logger := observability.NewStderrLogger(cfg)
	metrics := observability.NewMetricsForTesting()
	client := donki.NewClient(cfg.NASAAPIKey, cfg.DONKIBaseURL, cfg.DONKITimeout, metrics, logger)

	page := dashboard.New(client, nil, logger, metrics).Build(ctx, dashboard.Selection{Days: *days, Type: eventType})

	// The fetch is fail-soft; a failure still produces an empty page.
	if err := client.LastFetchError(); err != nil {
		logger.Warn("showing empty result after fetch failure", "error", err)
	}

	if *raw != "" {
		if err := writeJSON(*raw, page.Events); err != nil {
			return fmt.Errorf("writing raw events: %w", err)
		}
		logger.Info("wrote raw events", "path", *raw, "count", len(page.Events))
	}

	return write(stdout, newSnapshot(page))
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
