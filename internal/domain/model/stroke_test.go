package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/sketchrec/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestPointJSON(t *testing.T) {
	convey.Convey("Given a stroke", t, func() {
		stroke := model.Stroke{{X: 1.5, Y: -2}, {X: 0, Y: 3}}

		convey.Convey("When it is encoded", func() {
			data, err := json.Marshal(stroke)

			convey.Convey("Then each point should be an [x, y] pair", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldEqual, "[[1.5,-2],[0,3]]")
			})
		})

		convey.Convey("When pairs are decoded", func() {
			var got model.Stroke
			err := json.Unmarshal([]byte("[[1.5,-2],[0,3]]"), &got)

			convey.Convey("Then the stroke should round trip", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldResemble, stroke)
			})
		})

		convey.Convey("When a point has the wrong arity", func() {
			var got model.Stroke
			for _, raw := range []string{"[[1]]", "[[1,2,3]]", `[{"x":1,"y":2}]`} {
				convey.So(json.Unmarshal([]byte(raw), &got), convey.ShouldNotBeNil)
			}
		})
	})
}

func TestClone(t *testing.T) {
	convey.Convey("Given a stroke and a sequence", t, func() {
		stroke := model.Stroke{{X: 1, Y: 1}}
		seq := model.Sequence{{X: 2, Y: 2}}

		convey.Convey("Then clones should be independent", func() {
			sc, qc := stroke.Clone(), seq.Clone()
			sc[0].X, qc[0].X = 9, 9
			convey.So(stroke[0].X, convey.ShouldEqual, 1.0)
			convey.So(seq[0].X, convey.ShouldEqual, 2.0)
		})

		convey.Convey("Then nil should clone to nil", func() {
			convey.So(model.Stroke(nil).Clone(), convey.ShouldBeNil)
			convey.So(model.Sequence(nil).Clone(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given match results", t, func() {
		convey.So(model.MatchResult{Label: "circle"}.Matched(), convey.ShouldBeTrue)
		convey.So(model.MatchResult{Cost: 3}.Matched(), convey.ShouldBeFalse)
	})
}
