package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joltlabs/jolt/internal/probe"
	"github.com/joltlabs/jolt/pkg/logger"
)

func main() {
	cfg := probe.DefaultConfig()
	flag.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "base URL of the pothole service")
	flag.DurationVar(&cfg.Duration, "duration", cfg.Duration, "length of the probe run")
	flag.DurationVar(&cfg.SampleInterval, "sample-interval", cfg.SampleInterval, "spacing between motion samples")
	flag.DurationVar(&cfg.JoltInterval, "jolt-interval", cfg.JoltInterval, "spacing between injected jolts")
	flag.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "detection threshold in m/s²")
	flag.Float64Var(&cfg.StartLatitude, "lat", cfg.StartLatitude, "track start latitude")
	flag.Float64Var(&cfg.StartLongitude, "lon", cfg.StartLongitude, "track start longitude")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "trace seed (0 = random)")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if err := probe.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "probe run failed", logger.Error(err))
		os.Exit(1)
	}
	logger.Get().Info(ctx, "probe run complete", logger.String("elapsed", time.Since(start).String()))
}
