package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decode(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		rec := map[string]any{}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("invalid json record %q: %v", line, err)
		}
		out = append(out, rec)
	}
	return out
}

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
	if Named("test") == nil {
		t.Fatal("named logger is nil")
	}

	if err := Init(WithFormat("xml")); err == nil {
		t.Fatal("expected unknown format to fail")
	}
}

func TestLoggerJSONRecords(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf), WithFormat("json")); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := WithRequestID(context.Background(), "req-1")
	Named("app").With(String("component", "store")).Info(ctx, "template saved",
		String("label", "circle"),
		Int("points", 64),
		Float64("cost", 1.5),
		Bool("matched", true),
		Duration("elapsed", time.Millisecond),
		Error(errors.New("boom")),
	)

	recs := decode(t, &buf)
	if len(recs) != 1 {
		t.Fatalf("expected one record, got %d", len(recs))
	}
	rec := recs[0]
	if rec["msg"] != "template saved" {
		t.Errorf("unexpected msg %v", rec["msg"])
	}
	group, ok := rec["app"].(map[string]any)
	if !ok {
		t.Fatalf("expected attributes grouped under app, got %v", rec)
	}
	if group["label"] != "circle" || group["component"] != "store" {
		t.Errorf("unexpected attributes %v", group)
	}
	if group["request_id"] != "req-1" {
		t.Errorf("expected request id in record, got %v", group["request_id"])
	}
	if group["error"] != "boom" {
		t.Errorf("expected error text, got %v", group["error"])
	}
	src, _ := group["source"].(string)
	if !strings.Contains(src, "logger_test.go") {
		t.Errorf("expected caller to point at the test file, got %q", src)
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithOutput(&buf), WithFormat("json")); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer SetLevel(0)

	ctx := context.Background()
	Get().Debug(ctx, "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug to be filtered at info level, got %q", buf.String())
	}

	if err := SetLevelString("DEBUG"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Get().Debug(ctx, "shown")
	if len(decode(t, &buf)) != 1 {
		t.Fatalf("expected debug record after lowering level")
	}

	if err := SetLevelString("loud"); err == nil {
		t.Error("expected unknown level to fail")
	}
	for _, lvl := range []string{"", "info", "warn", "warning", "error"} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("level %q: unexpected error %v", lvl, err)
		}
	}
}

func TestLoggerFatalUsesExitFunc(t *testing.T) {
	var buf bytes.Buffer
	code := -1
	l, err := New(WithOutput(&buf), WithExitFunc(func(c int) { code = c }))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Fatal(context.Background(), "fatal")
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("expected text record at error level, got %q", buf.String())
	}
}
