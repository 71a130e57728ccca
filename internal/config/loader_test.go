package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/sketchrec/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("SKETCHREC_ADDR", ":8080")
			t.Setenv("SKETCHREC_SAMPLE_COUNT", "32")
			t.Setenv("SKETCHREC_THRESHOLD", "12.5")
			t.Setenv("SKETCHREC_MATCH_WORKERS", "4")
			t.Setenv("SKETCHREC_TEMPLATE_DIR", "/var/lib/sketchrec")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SampleCount, convey.ShouldEqual, 32)
				convey.So(cfg.Threshold, convey.ShouldEqual, 12.5)
				convey.So(cfg.MatchWorkers, convey.ShouldEqual, 4)
				convey.So(cfg.TemplateDir, convey.ShouldEqual, "/var/lib/sketchrec")
				convey.So(cfg.SearchRadius, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			path := writeConfigFile(t, `
addr: ":9090"
threshold: 15
search_radius: 2
display_duration_ms: 1000
log_level: debug
`)
			t.Setenv("SKETCHREC_CONFIG", path)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Threshold, convey.ShouldEqual, 15.0)
				convey.So(cfg.SearchRadius, convey.ShouldEqual, 2)
				convey.So(cfg.DisplayDurationMS, convey.ShouldEqual, 1000)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.SampleCount, convey.ShouldEqual, 64)
			})

			convey.Convey("And env vars should take precedence over the file", func() {
				t.Setenv("SKETCHREC_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Threshold, convey.ShouldEqual, 15.0)
			})
		})

		convey.Convey("When the config file is missing", func() {
			t.Setenv("SKETCHREC_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an env var does not parse", func() {
			t.Setenv("SKETCHREC_SAMPLE_COUNT", "many")

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value is out of range", func() {
			t.Setenv("SKETCHREC_THRESHOLD", "-3")

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail validation", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := config.Load(cctx)

			convey.Convey("Then it should return the context error", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

// clearConfigEnvVars unsets every SKETCHREC_ variable for the duration of the test.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SKETCHREC_CONFIG", "SKETCHREC_ADDR", "SKETCHREC_LOG_LEVEL", "SKETCHREC_LOG_FORMAT",
		"SKETCHREC_TEMPLATE_DIR", "SKETCHREC_SAMPLE_COUNT", "SKETCHREC_THRESHOLD",
		"SKETCHREC_SEARCH_RADIUS", "SKETCHREC_MATCH_WORKERS", "SKETCHREC_DISPLAY_DURATION_MS",
		"SKETCHREC_MAX_STROKE_POINTS",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
