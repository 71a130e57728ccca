// Package sketchbench drives a running recognizer with synthetic strokes and
// reports how many were recognized correctly and how fast.
package sketchbench

import (
	"time"

	"github.com/okian/sketchrec/internal/domain/model"
)

// Config holds configuration for a benchmark run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumQueries  int           // Number of strokes to classify
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	Jitter      float64       // Noise amplitude applied at catalogue size
	Seed        int64         // Seed for stroke generation
	Upload      bool          // POST the catalogue as templates before querying
	MinAccuracy float64       // Fail the run below this fraction of correct labels
	OutputFile  string        // Optional JSON report of every query
	Verbose     bool          // Enable verbose logging
}

// Query is one generated stroke and the label it was drawn from.
type Query struct {
	ID       string       `json:"id"`
	Expected string       `json:"expected"`
	Points   model.Stroke `json:"points"`
}

// classifyRequest mirrors the body of POST /classify.
type classifyRequest struct {
	Points model.Stroke `json:"points"`
}

// classifyResponse mirrors the fields of the /classify answer the bench reads.
type classifyResponse struct {
	RequestID string   `json:"request_id"`
	Label     *string  `json:"label"`
	Matched   bool     `json:"matched"`
	Cost      *float64 `json:"cost"`
}

// templateRequest mirrors the body of POST /templates.
type templateRequest struct {
	Label  string       `json:"label"`
	Points model.Stroke `json:"points"`
}

// Outcome is what happened to one query.
type Outcome struct {
	QueryID   string        `json:"query_id"`
	Expected  string        `json:"expected"`
	Label     string        `json:"label,omitempty"`
	Cost      *float64      `json:"cost,omitempty"`
	Latency   time.Duration `json:"latency_ns"`
	Err       string        `json:"error,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

// Correct reports whether the service answered with the expected label.
func (o Outcome) Correct() bool { return o.Err == "" && o.Label == o.Expected }

// Stats holds run statistics.
type Stats struct {
	Generated    int
	Submitted    int
	Correct      int
	Wrong        int
	Unrecognized int
	Failed       int
	LatencyP50   time.Duration
	LatencyP95   time.Duration
	LatencyMax   time.Duration
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}

// Accuracy is the fraction of submitted queries that were labelled correctly.
func (s *Stats) Accuracy() float64 {
	if s.Submitted == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Submitted)
}
