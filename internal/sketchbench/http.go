package sketchbench

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/sketchrec/internal/domain/shapes"
	"github.com/okian/sketchrec/pkg/logger"
)

// ErrUnexpectedStatus reports a non-success HTTP answer.
var ErrUnexpectedStatus = errors.New("unexpected status")

// httpClient wraps http.Client with the base URL.
type httpClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// get performs a GET request and discards the body.
func (c *httpClient) get(ctx context.Context, path string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// postJSON posts body and decodes a JSON answer into out when out is non-nil.
func (c *httpClient) postJSON(ctx context.Context, path string, body, out any, want int) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%w: %s %d: %s", ErrUnexpectedStatus, path, resp.StatusCode, bytes.TrimSpace(raw))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// uploadTemplates posts every catalogue shape as a template.
func uploadTemplates(ctx context.Context, client *httpClient) error {
	for _, s := range shapes.Catalog() {
		if err := client.postJSON(ctx, "/templates", templateRequest{Label: s.Name, Points: s.Stroke}, nil, http.StatusCreated); err != nil {
			return fmt.Errorf("upload %s: %w", s.Name, err)
		}
	}
	logger.Get().Info(ctx, "catalogue templates uploaded", logger.Int("count", len(shapes.Catalog())))
	return nil
}

// classifyOne submits a single query and times the round trip.
func classifyOne(ctx context.Context, client *httpClient, q Query) Outcome {
	out := Outcome{QueryID: q.ID, Expected: q.Expected}

	var resp classifyResponse
	start := time.Now()
	err := client.postJSON(ctx, "/classify", classifyRequest{Points: q.Points}, &resp, http.StatusOK)
	out.Latency = time.Since(start)
	if err != nil {
		out.Err = err.Error()
		return out
	}
	out.RequestID = resp.RequestID
	out.Cost = resp.Cost
	if resp.Label != nil {
		out.Label = *resp.Label
	}
	return out
}

// submitQueries classifies queries concurrently using a worker pool.
// Outcomes are returned in query order.
func submitQueries(ctx context.Context, cfg *Config, client *httpClient, queries []Query) []Outcome {
	log := logger.Get()
	log.Info(ctx, "submitting queries", logger.Int("count", len(queries)), logger.Int("workers", cfg.Workers))

	outcomes := make([]Outcome, len(queries))
	var submitted, correct atomic.Int64

	indexChan := make(chan int, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexChan {
				o := classifyOne(ctx, client, queries[idx])
				outcomes[idx] = o

				total := submitted.Add(1)
				if o.Correct() {
					correct.Add(1)
				}
				if cfg.Verbose {
					log.Debug(ctx, "query classified",
						logger.String("query", o.QueryID),
						logger.String("expected", o.Expected),
						logger.String("label", o.Label),
						logger.Duration("latency", o.Latency),
						logger.Int("progress", int(total)),
					)
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range queries {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	log.Info(ctx, "query submission completed",
		logger.Int("submitted", int(submitted.Load())),
		logger.Int("correct", int(correct.Load())),
	)
	return outcomes[:submitted.Load()]
}
