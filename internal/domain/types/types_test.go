package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/sheetboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMatrixCell(t *testing.T) {
	Convey("Given a two by two matrix", t, func() {
		m := types.Matrix{
			Category: "Music",
			Events:   []string{"Band", "Solo"},
			Colleges: []string{"X", "Y"},
			Points:   [][]int{{7, 0}, {3, -2}},
		}

		Convey("When looking up known cells", func() {
			Convey("Then the stored values are returned", func() {
				So(m.Cell("Band", "X"), ShouldEqual, 7)
				So(m.Cell("Solo", "Y"), ShouldEqual, -2)
			})
		})

		Convey("When looking up an unknown event or college", func() {
			Convey("Then zero is returned", func() {
				So(m.Cell("Drama", "X"), ShouldEqual, 0)
				So(m.Cell("Band", "Z"), ShouldEqual, 0)
			})
		})
	})

	Convey("Given an empty matrix", t, func() {
		var m types.Matrix

		Convey("Then every lookup is zero", func() {
			So(m.Cell("anything", "X"), ShouldEqual, 0)
		})
	})
}

func TestCollegeTotalJSON(t *testing.T) {
	Convey("Given a leaderboard row", t, func() {
		row := types.CollegeTotal{Rank: 1, College: "Alpha College", Points: 42}

		Convey("When encoded", func() {
			b, err := json.Marshal(row)

			Convey("Then it uses the API field names", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `{"rank":1,"college":"Alpha College","points":42}`)
			})
		})
	})
}
