package probe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/joltlabs/jolt/internal/client"
	"github.com/joltlabs/jolt/internal/domain/detect"
	"github.com/joltlabs/jolt/pkg/logger"
)

// Run executes a complete probe session: health check, channel dial,
// feed reconciliation, and a timed detection run over the synthetic
// trace.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get().Named("probe")

	log.Info(ctx, "starting probe run",
		logger.String("server", cfg.ServerURL),
		logger.String("duration", cfg.Duration.String()),
		logger.Float64("threshold", cfg.Threshold),
	)

	if err := checkServiceHealth(ctx, cfg.ServerURL); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	ch, err := client.Dial(ctx, channelURL(cfg.ServerURL))
	if err != nil {
		return fmt.Errorf("channel dial failed: %w", err)
	}
	defer func() { _ = ch.Close() }()

	feed := client.NewFeed()
	feedCtx, stopFeed := context.WithCancel(ctx)
	defer stopFeed()
	go feed.Run(feedCtx, client.NewHTTPFetcher(cfg.ServerURL), ch.Broadcasts())

	source := NewSimSource(cfg.SampleInterval, cfg.JoltInterval, cfg.Seed)
	locator := NewSimLocator(cfg.StartLatitude, cfg.StartLongitude, cfg.Seed)
	monitor := client.NewMonitor(source, locator, ch,
		client.WithDetector(detect.New(detect.WithThreshold(cfg.Threshold))),
	)

	if err := monitor.Start(ctx); err != nil {
		return fmt.Errorf("detection start failed: %w", err)
	}
	defer monitor.Stop()

	go func() {
		for err := range monitor.Errors() {
			log.Warn(ctx, "client error", logger.Error(err))
		}
	}()

	select {
	case <-ctx.Done():
	case <-time.After(cfg.Duration):
	}
	monitor.Stop()

	// Let trailing broadcast echoes land before the summary.
	time.Sleep(500 * time.Millisecond)

	log.Info(ctx, "probe run finished",
		logger.Int("events_in_feed", feed.Len()),
	)
	return nil
}

func checkServiceHealth(ctx context.Context, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status %d", resp.StatusCode)
	}
	return nil
}

// channelURL maps the HTTP base URL onto the websocket endpoint.
func channelURL(baseURL string) string {
	url := strings.Replace(baseURL, "http", "ws", 1)
	return url + "/ws"
}
