// Command sketchbench benchmarks a running sketchrec server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/sketchrec/internal/sketchbench"
	"github.com/okian/sketchrec/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumQueries  = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultJitter      = 4.0
	defaultMinAccuracy = 0.95
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numQueries  = flag.Int("queries", defaultNumQueries, "Number of strokes to classify")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		jitter      = flag.Float64("jitter", defaultJitter, "Noise amplitude at catalogue size")
		seed        = flag.Int64("seed", 1, "Seed for stroke generation")
		upload      = flag.Bool("upload", false, "Upload the catalogue as templates before querying")
		seedDir     = flag.String("seed-dir", "", "Write the catalogue as template files into this directory and exit")
		minAccuracy = flag.Float64("min-accuracy", defaultMinAccuracy, "Fail below this fraction of correct labels")
		outputFile  = flag.String("output", "", "Write every query outcome to this JSON file")
		logFile     = flag.String("log", "", "Log file (default: sketchbench_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Log every query")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		sketchbench.ShowHelp()
		return
	}

	closer, err := sketchbench.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *seedDir != "" {
		if err := sketchbench.SeedDir(ctx, *seedDir); err != nil {
			logger.Get().Error(ctx, "seeding failed", logger.Error(err))
			os.Exit(1)
		}
		return
	}

	cfg := &sketchbench.Config{
		BaseURL:     *baseURL,
		NumQueries:  *numQueries,
		Workers:     max(1, *workers),
		Timeout:     *timeout,
		Jitter:      *jitter,
		Seed:        *seed,
		Upload:      *upload,
		MinAccuracy: *minAccuracy,
		OutputFile:  *outputFile,
		Verbose:     *verbose,
	}

	if _, err := sketchbench.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "benchmark failed", logger.Error(err))
		os.Exit(1)
	}
}
