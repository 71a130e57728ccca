package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/sketchrec/internal/adapters/templatefile"
	"github.com/okian/sketchrec/internal/config"
	"github.com/okian/sketchrec/internal/domain/shapes"
	"github.com/okian/sketchrec/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainComponents(t *testing.T) {
	convey.Convey("Given configuration pointing at a seeded template directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		files := templatefile.New(dir)
		for _, s := range shapes.Catalog() {
			convey.So(files.Save(ctx, s.Name, s.Stroke), convey.ShouldBeNil)
		}

		t.Setenv("SKETCHREC_CONFIG", "")
		t.Setenv("SKETCHREC_TEMPLATE_DIR", dir)
		t.Setenv("SKETCHREC_MATCH_WORKERS", "2")
		cfg, err := config.Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		l, err := logger.New()
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the service is built from it", func() {
			svc := newService(cfg, l)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then every catalogue template should be loaded", func() {
				stats := svc.GetStats()
				convey.So(stats["templates"], convey.ShouldEqual, 5)
				convey.So(stats["matchWorkers"], convey.ShouldEqual, 2)
			})

			convey.Convey("And the HTTP server should classify strokes end to end", func() {
				srv := newHTTPServer(ctx, cfg, svc, l)
				convey.So(srv.Addr, convey.ShouldEqual, cfg.Addr)

				ts := httptest.NewServer(srv.Handler)
				defer ts.Close()

				body, _ := json.Marshal(map[string]any{"points": shapes.Jitter(shapes.Square(80, 40), 1, 7)})
				resp, err := http.Post(ts.URL+"/classify", "application/json", bytes.NewReader(body))
				convey.So(err, convey.ShouldBeNil)
				defer resp.Body.Close()

				var out map[string]any
				convey.So(json.NewDecoder(resp.Body).Decode(&out), convey.ShouldBeNil)
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(out["label"], convey.ShouldEqual, "square")
				convey.So(resp.Header.Get("X-Request-ID"), convey.ShouldEqual, out["request_id"])
			})

			convey.Convey("And the docs should be served", func() {
				srv := newHTTPServer(ctx, cfg, svc, l)
				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	convey.Convey("Given a context with a short deadline", t, func() {
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.TemplateDir = t.TempDir()
		l, _ := logger.New()

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		convey.Convey("Then run should shut down cleanly once it expires", func() {
			convey.So(run(ctx, cfg, l), convey.ShouldBeNil)
		})
	})
}
