package sketchbench

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/okian/sketchrec/internal/domain/model"
	"github.com/okian/sketchrec/internal/domain/shapes"
	"github.com/okian/sketchrec/pkg/logger"
)

// shapeAt redraws catalogue shape name with n points at catalogue size.
func shapeAt(name string, n int) model.Stroke {
	switch name {
	case "circle":
		return shapes.Circle(n, 100)
	case "line":
		return shapes.Line(n, 200)
	case "square":
		return shapes.Square(n, 200)
	case "triangle":
		return shapes.Triangle(n, 200)
	default:
		return shapes.Zigzag(n, 200, 100, 3)
	}
}

// GenerateQueries draws cfg.NumQueries strokes cycling through the catalogue.
// Each is redrawn with a random point count, jittered, scaled and moved. The
// same seed always yields the same queries except for their ids.
func GenerateQueries(ctx context.Context, cfg *Config) ([]Query, error) {
	logger.Get().Info(ctx, "generating queries", logger.Int("count", cfg.NumQueries), logger.Float64("jitter", cfg.Jitter))

	catalog := shapes.Catalog()
	r := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible strokes, not security sensitive

	queries := make([]Query, cfg.NumQueries)
	for i := range queries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during query generation: %w", err)
		}
		name := catalog[i%len(catalog)].Name
		n := minQueryPoints + r.Intn(maxQueryPoints-minQueryPoints+1)
		scale := minScale + r.Float64()*(maxScale-minScale)
		dx := (r.Float64()*2 - 1) * maxOffset
		dy := (r.Float64()*2 - 1) * maxOffset

		stroke := shapeAt(name, n)
		if cfg.Jitter > 0 {
			stroke = shapes.Jitter(stroke, cfg.Jitter, r.Int63())
		}
		queries[i] = Query{
			ID:       uuid.NewString(),
			Expected: name,
			Points:   shapes.Transform(stroke, scale, dx, dy),
		}
	}
	return queries, nil
}
