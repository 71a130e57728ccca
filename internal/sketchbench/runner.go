package sketchbench

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/sketchrec/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// Run executes a complete benchmark and returns its statistics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting sketchrec benchmark",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("queries", cfg.NumQueries),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Any("upload", cfg.Upload),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Optionally install the catalogue
	if cfg.Upload {
		if err := uploadTemplates(ctx, client); err != nil {
			return nil, fmt.Errorf("template upload failed: %w", err)
		}
	}

	// Step 3: Generate queries
	queries, err := GenerateQueries(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("query generation failed: %w", err)
	}
	stats.Generated = len(queries)

	// Step 4: Classify concurrently
	outcomes := submitQueries(ctx, cfg, client, queries)
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	Summarize(outcomes, stats)

	// Step 5: Save outcomes
	if cfg.OutputFile != "" {
		if err := saveOutcomes(ctx, cfg.OutputFile, outcomes); err != nil {
			log.Warn(ctx, "failed to save outcomes", logger.Error(err))
		}
	}

	displayFinalStats(ctx, stats)

	// Step 6: Verify
	if err := verifyResults(ctx, cfg, outcomes, stats); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *httpClient) error {
	status, err := client.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: /healthz %d", ErrUnexpectedStatus, status)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveOutcomes writes outcomes as a JSON array.
func saveOutcomes(ctx context.Context, filename string, outcomes []Outcome) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal outcomes: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write outcomes: %w", err)
	}
	logger.Get().Info(ctx, "outcomes saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("correct", stats.Correct),
		logger.Int("wrong", stats.Wrong),
		logger.Int("unrecognized", stats.Unrecognized),
		logger.Int("failed", stats.Failed),
		logger.Float64("accuracyPercent", stats.Accuracy()*PercentageMultiplier),
		logger.Duration("latencyP50", stats.LatencyP50),
		logger.Duration("latencyP95", stats.LatencyP95),
		logger.Duration("latencyMax", stats.LatencyMax),
		logger.Duration("duration", stats.Duration),
		logger.Float64("queriesPerSecond", perSecond),
	)
}
