package sketchbench

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/sketchrec/internal/adapters/templatefile"
	"github.com/okian/sketchrec/internal/domain/shapes"
	"github.com/okian/sketchrec/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0o600
)

// SetupLogging logs to stdout and to logFile. If logFile is empty, a
// timestamped filename is generated. The returned closer flushes the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	if logFile == "" {
		logFile = "sketchbench_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.Init(logger.WithOutput(io.MultiWriter(os.Stdout, file))); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return file, nil
}

// SeedDir writes the shape catalogue into dir as template files the server
// loads on start.
func SeedDir(ctx context.Context, dir string) error {
	files := templatefile.New(dir)
	for _, s := range shapes.Catalog() {
		if err := files.Save(ctx, s.Name, s.Stroke); err != nil {
			return err
		}
	}
	logger.Get().Info(ctx, "catalogue written", logger.String("dir", dir), logger.Int("count", len(shapes.Catalog())))
	return nil
}

// ShowHelp prints usage information for the benchmark tool.
func ShowHelp() {
	os.Stdout.WriteString(`Sketch Recognizer Benchmark
===========================

Classifies synthetic strokes against a running recognizer and reports
accuracy and latency.

Usage:
  go run ./cmd/sketchbench [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -queries int
        Number of strokes to classify (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -jitter float
        Noise amplitude at catalogue size (default 4)
  -seed int
        Seed for stroke generation (default 1)
  -upload
        Upload the catalogue as templates before querying
  -seed-dir string
        Write the catalogue as template files into this directory and exit
  -min-accuracy float
        Fail below this fraction of correct labels (default 0.95)
  -output string
        Write every query outcome to this JSON file
  -log string
        Log file (default: sketchbench_TIMESTAMP.log)
  -verbose
        Log every query
  -help
        Show this help message

Examples:
  # Prepare templates for a fresh server
  go run ./cmd/sketchbench -seed-dir ./templates

  # Benchmark with more noise and workers
  go run ./cmd/sketchbench -queries 20000 -jitter 8 -workers 16
`)
}
