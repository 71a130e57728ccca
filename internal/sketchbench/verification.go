package sketchbench

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/okian/sketchrec/pkg/logger"
)

// ErrLowAccuracy reports a run that recognized too few strokes.
var ErrLowAccuracy = errors.New("accuracy below minimum")

// Summarize fills stats from outcomes.
func Summarize(outcomes []Outcome, stats *Stats) {
	stats.Submitted = len(outcomes)
	latencies := make([]time.Duration, 0, len(outcomes))
	for _, o := range outcomes {
		switch {
		case o.Err != "":
			stats.Failed++
			continue
		case o.Label == "":
			stats.Unrecognized++
		case o.Correct():
			stats.Correct++
		default:
			stats.Wrong++
		}
		latencies = append(latencies, o.Latency)
	}
	if len(latencies) == 0 {
		return
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	stats.LatencyP50 = percentile(latencies, 50)
	stats.LatencyP95 = percentile(latencies, 95)
	stats.LatencyMax = latencies[len(latencies)-1]
}

// percentile returns the nearest-rank percentile p of sorted.
func percentile(sorted []time.Duration, p int) time.Duration {
	rank := (p*len(sorted) + 99) / 100
	if rank < 1 {
		rank = 1
	}
	return sorted[rank-1]
}

// Confusion counts answered labels per expected label. Unrecognized queries
// are counted under the empty label.
func Confusion(outcomes []Outcome) map[string]map[string]int {
	out := map[string]map[string]int{}
	for _, o := range outcomes {
		if o.Err != "" {
			continue
		}
		row, ok := out[o.Expected]
		if !ok {
			row = map[string]int{}
			out[o.Expected] = row
		}
		row[o.Label]++
	}
	return out
}

// verifyResults fails when accuracy is below cfg.MinAccuracy and logs every
// expected label that was confused with something else.
func verifyResults(ctx context.Context, cfg *Config, outcomes []Outcome, stats *Stats) error {
	log := logger.Get()
	if stats.Submitted == 0 {
		return errors.New("no queries to verify")
	}

	confusion := Confusion(outcomes)
	expected := make([]string, 0, len(confusion))
	for label := range confusion {
		expected = append(expected, label)
	}
	sort.Strings(expected)
	for _, label := range expected {
		for got, n := range confusion[label] {
			if got != label {
				log.Warn(ctx, "misclassified strokes",
					logger.String("expected", label),
					logger.String("got", got),
					logger.Int("count", n),
				)
			}
		}
	}

	if acc := stats.Accuracy(); acc < cfg.MinAccuracy {
		return fmt.Errorf("%w: %.3f < %.3f", ErrLowAccuracy, acc, cfg.MinAccuracy)
	}
	log.Info(ctx, "result verification completed", logger.Float64("accuracy", stats.Accuracy()))
	return nil
}
