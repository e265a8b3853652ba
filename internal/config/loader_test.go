package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/joltlabs/jolt/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"JOLT_CONFIG",
		"JOLT_LOG_LEVEL",
		"JOLT_ADDR",
		"JOLT_DATABASE_URL",
		"JOLT_SEND_BUFFER",
		"JOLT_WRITE_TIMEOUT_MS",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestConfigLoader(t *testing.T) {
	Convey("Given a config loader", t, func() {
		ctx := context.Background()

		Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then it should load successfully with defaults", func() {
				So(err, ShouldBeNil)
				So(cfg, ShouldNotBeNil)
				So(cfg.Addr, ShouldEqual, ":5000")
				So(cfg.DatabaseURL, ShouldEqual, "")
				So(cfg.SendBuffer, ShouldEqual, 32)
				So(cfg.WriteTimeoutMS, ShouldEqual, 10_000)
				So(cfg.LogLevel, ShouldEqual, "info")
			})
		})

		Convey("When loading config with environment variables", func() {
			_ = os.Setenv("JOLT_ADDR", ":8080")
			_ = os.Setenv("JOLT_DATABASE_URL", "postgres://localhost/jolt")
			_ = os.Setenv("JOLT_SEND_BUFFER", "64")
			_ = os.Setenv("JOLT_LOG_LEVEL", "debug")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			Convey("Then it should override defaults with env vars", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":8080")
				So(cfg.DatabaseURL, ShouldEqual, "postgres://localhost/jolt")
				So(cfg.SendBuffer, ShouldEqual, 64)
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})

		Convey("When the listen address is cleared", func() {
			clearConfigEnvVars()
			_ = os.Setenv("JOLT_ADDR", "")
			defer clearConfigEnvVars()

			// An explicitly empty env var still counts as set for koanf,
			// so the empty address must be rejected.
			_, err := config.Load(ctx)

			Convey("Then loading fails", func() {
				So(err, ShouldEqual, config.ErrEmptyAddr)
			})
		})

		Convey("When the send buffer is invalid", func() {
			clearConfigEnvVars()
			_ = os.Setenv("JOLT_SEND_BUFFER", "-1")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			Convey("Then loading fails", func() {
				So(err, ShouldEqual, config.ErrInvalidBuffer)
			})
		})
	})
}
