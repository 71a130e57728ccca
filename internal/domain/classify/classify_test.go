package classify_test

import (
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/okian/sketchrec/internal/adapters/repository"
	"github.com/okian/sketchrec/internal/domain/classify"
	"github.com/okian/sketchrec/internal/domain/elastic"
	"github.com/okian/sketchrec/internal/domain/model"
	"github.com/okian/sketchrec/internal/domain/normalize"
	"github.com/okian/sketchrec/internal/domain/shapes"
	. "github.com/smartystreets/goconvey/convey"
)

// staticSource serves a fixed template list.
type staticSource []model.Template

func (s staticSource) All() []model.Template { return s }

// countingMatcher wraps a Distancer and counts calls.
type countingMatcher struct {
	inner classify.Distancer
	calls atomic.Int64
}

func (m *countingMatcher) Distance(a, b model.Sequence) float64 {
	m.calls.Add(1)
	return m.inner.Distance(a, b)
}

func catalogStore() *repository.TemplateStore {
	store := repository.NewTemplateStore()
	entries := make([]repository.Entry, 0, 5)
	for _, s := range shapes.Catalog() {
		entries = append(entries, repository.RawEntry(s.Name, s.Stroke))
	}
	So(store.Load(entries), ShouldBeNil)
	return store
}

func TestClassifier_Classify(t *testing.T) {
	Convey("Given a classifier over the shape catalogue", t, func() {
		c := classify.New(catalogStore())

		Convey("When the query is a stored template itself", func() {
			res := c.Classify(shapes.Catalog()[2].Stroke)

			Convey("Then it should match that template at zero cost", func() {
				So(res.Label, ShouldEqual, "square")
				So(res.Cost, ShouldEqual, 0)
				So(res.Matched(), ShouldBeTrue)
			})
		})

		Convey("When the query is a scaled and shifted circle", func() {
			res := c.Classify(shapes.Transform(shapes.Circle(64, 100), 0.5, 100, 100))

			Convey("Then it should match circle at near zero cost", func() {
				So(res.Label, ShouldEqual, "circle")
				So(res.Cost, ShouldAlmostEqual, 0, 1e-9)
			})
		})

		Convey("When the queries are noisy redraws with other sample counts", func() {
			for i, s := range []struct {
				name   string
				stroke model.Stroke
			}{
				{"circle", shapes.Circle(90, 40)},
				{"line", shapes.Line(37, 500)},
				{"square", shapes.Square(120, 60)},
				{"triangle", shapes.Triangle(75, 300)},
				{"zigzag", shapes.Zigzag(101, 150, 75, 3)},
			} {
				q := shapes.Jitter(shapes.Transform(s.stroke, 1, -250, 80), 1, int64(i+1))
				res := c.Classify(q)

				Convey(fmt.Sprintf("Then the redrawn %s should be recognized", s.name), func() {
					So(res.Label, ShouldEqual, s.name)
					So(res.Cost, ShouldBeLessThan, classify.DefaultThreshold)
				})
			}
		})

		Convey("When an explicit threshold of zero is used", func() {
			res := c.ClassifyWithThreshold(shapes.Catalog()[0].Stroke, 0)

			Convey("Then even a perfect match should not be reported", func() {
				So(res.Label, ShouldEqual, "")
				So(res.Cost, ShouldEqual, 0)
			})
		})
	})

	Convey("Given only a circle template", t, func() {
		store := repository.NewTemplateStore()
		So(store.UpsertStroke("circle", shapes.Circle(64, 100)), ShouldBeNil)
		c := classify.New(store)

		Convey("When a straight line is classified", func() {
			res := c.Classify(shapes.Line(64, 200))

			Convey("Then nothing should match and the cost should be reported", func() {
				So(res.Label, ShouldEqual, "")
				So(res.Matched(), ShouldBeFalse)
				So(res.Cost, ShouldBeGreaterThanOrEqualTo, classify.DefaultThreshold)
			})
		})

		Convey("When a ten point line is classified", func() {
			res := c.Classify(shapes.Line(10, 10))

			Convey("Then it should not be labelled either", func() {
				So(res.Matched(), ShouldBeFalse)
				So(res.Cost, ShouldBeGreaterThanOrEqualTo, 20.0)
			})
		})

		Convey("When the threshold is raised above the line's cost", func() {
			res := classify.New(store, classify.WithThreshold(1000)).Classify(shapes.Line(64, 200))

			Convey("Then the line should be labelled circle", func() {
				So(res.Label, ShouldEqual, "circle")
			})
		})
	})

	Convey("Given an empty store", t, func() {
		c := classify.New(repository.NewTemplateStore())

		Convey("When any stroke is classified", func() {
			res := c.Classify(shapes.Circle(64, 10))

			Convey("Then the result should be none at infinite cost", func() {
				So(res.Label, ShouldEqual, "")
				So(math.IsInf(res.Cost, 1), ShouldBeTrue)
			})
		})

		Convey("When ranking", func() {
			So(c.Rank(shapes.Circle(64, 10)), ShouldBeEmpty)
		})
	})

	Convey("Given two templates with identical sequences", t, func() {
		seq := normalize.Normalize(shapes.Triangle(64, 10), normalize.DefaultSampleCount)
		c := classify.New(staticSource{
			{Label: "first", Sequence: seq},
			{Label: "second", Sequence: seq.Clone()},
		})

		Convey("Then the earlier template should win the tie", func() {
			res := c.Classify(shapes.Triangle(64, 10))
			So(res.Label, ShouldEqual, "first")

			ranked := c.Rank(shapes.Triangle(64, 10))
			So(ranked[0].Label, ShouldEqual, "first")
			So(ranked[1].Label, ShouldEqual, "second")
		})
	})

	Convey("Given a degenerate query", t, func() {
		c := classify.New(catalogStore())

		Convey("Then a single point should still produce a finite result", func() {
			res := c.Classify(model.Stroke{{X: 5, Y: 5}})
			So(math.IsInf(res.Cost, 0), ShouldBeFalse)
			So(res.Cost, ShouldBeGreaterThan, 0)
		})
	})
}

func TestClassifier_Rank(t *testing.T) {
	Convey("Given a classifier over the shape catalogue", t, func() {
		c := classify.New(catalogStore())

		Convey("When ranking a circle", func() {
			ranked := c.Rank(shapes.Circle(64, 3))

			Convey("Then every template should appear, closest first", func() {
				So(len(ranked), ShouldEqual, 5)
				So(ranked[0].Label, ShouldEqual, "circle")
				for i := 1; i < len(ranked); i++ {
					So(ranked[i-1].Cost, ShouldBeLessThanOrEqualTo, ranked[i].Cost)
				}
			})

			Convey("And the top cost should equal the classification cost", func() {
				So(ranked[0].Cost, ShouldEqual, c.Classify(shapes.Circle(64, 3)).Cost)
			})
		})
	})
}

func TestClassifier_Workers(t *testing.T) {
	Convey("Given sequential and parallel classifiers over the same store", t, func() {
		store := catalogStore()
		sequential := classify.New(store)
		counter := &countingMatcher{inner: elastic.New()}
		parallel := classify.New(store, classify.WithWorkers(3), classify.WithMatcher(counter))

		Convey("When both classify the same noisy strokes", func() {
			for i, s := range shapes.Catalog() {
				q := shapes.Jitter(s.Stroke, 8, int64(100+i))

				Convey(fmt.Sprintf("Then the results for %s should be identical", s.Name), func() {
					So(parallel.Classify(q), ShouldResemble, sequential.Classify(q))
					So(parallel.Rank(q), ShouldResemble, sequential.Rank(q))
				})
			}
		})

		Convey("Then every template should be compared exactly once per call", func() {
			parallel.Classify(shapes.Line(64, 1))
			So(counter.calls.Load(), ShouldEqual, 5)
		})

		Convey("Then more workers than templates should be harmless", func() {
			wide := classify.New(store, classify.WithWorkers(64))
			So(wide.Classify(shapes.Circle(64, 1)).Label, ShouldEqual, "circle")
			So(wide.Workers(), ShouldEqual, 64)
		})
	})
}

func TestClassifier_Options(t *testing.T) {
	Convey("Given invalid option values", t, func() {
		c := classify.New(staticSource{},
			classify.WithThreshold(-1),
			classify.WithWorkers(0),
			classify.WithSampleCount(0),
			classify.WithMatcher(nil),
		)

		Convey("Then the defaults should be kept", func() {
			So(c.Threshold(), ShouldEqual, classify.DefaultThreshold)
			So(c.Workers(), ShouldEqual, 1)
			So(math.IsInf(c.Classify(shapes.Line(4, 1)).Cost, 1), ShouldBeTrue)
		})
	})

	Convey("Given a custom sample count", t, func() {
		store := repository.NewTemplateStore(repository.WithSampleCount(32))
		So(store.UpsertStroke("circle", shapes.Circle(64, 1)), ShouldBeNil)
		c := classify.New(store, classify.WithSampleCount(32))

		Convey("Then queries should be normalized to the same length", func() {
			res := c.Classify(shapes.Circle(64, 9))
			So(res.Label, ShouldEqual, "circle")
			So(res.Cost, ShouldAlmostEqual, 0, 1e-9)
		})
	})
}
