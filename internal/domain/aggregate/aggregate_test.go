package aggregate_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/sheetboard/internal/domain/aggregate"
	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func entry(college, abbr, event, category string, points int) model.ScoreEntry {
	return model.ScoreEntry{College: college, Abbreviation: abbr, Event: event, Category: category, Points: points}
}

func TestComputeTotals(t *testing.T) {
	Convey("Given entries {(A,10),(B,30),(A,5)}", t, func() {
		entries := []model.ScoreEntry{
			entry("A", "A", "e1", "c", 10),
			entry("B", "B", "e1", "c", 30),
			entry("A", "A", "e2", "c", 5),
		}

		Convey("When computing totals", func() {
			totals := aggregate.ComputeTotals(entries)

			Convey("Then they are [(B,30),(A,15)] with positional ranks", func() {
				want := []types.CollegeTotal{
					{Rank: 1, College: "B", Points: 30},
					{Rank: 2, College: "A", Points: 15},
				}
				So(cmp.Diff(want, totals), ShouldBeEmpty)
			})

			Convey("Then a second run yields identical output", func() {
				So(cmp.Diff(totals, aggregate.ComputeTotals(entries)), ShouldBeEmpty)
			})
		})
	})

	Convey("Given colleges with tied totals", t, func() {
		entries := []model.ScoreEntry{
			entry("Gamma", "G", "e", "c", 5),
			entry("Alpha", "A", "e", "c", 5),
			entry("Beta", "B", "e", "c", 9),
			entry("Delta", "D", "e", "c", -1),
		}

		Convey("Then ties keep first-encountered order", func() {
			totals := aggregate.ComputeTotals(entries)
			var names []string
			for _, tot := range totals {
				names = append(names, tot.College)
			}
			So(names, ShouldResemble, []string{"Beta", "Gamma", "Alpha", "Delta"})
			So(totals[3].Points, ShouldEqual, -1)
		})
	})

	Convey("Given no entries", t, func() {
		Convey("Then totals are an empty, non-nil list", func() {
			totals := aggregate.ComputeTotals(nil)
			So(totals, ShouldNotBeNil)
			So(totals, ShouldBeEmpty)
		})
	})
}

func TestCollegeSet(t *testing.T) {
	Convey("Given entries with repeated abbreviations", t, func() {
		entries := []model.ScoreEntry{
			entry("Zeta", "ZET", "e", "c", 0),
			entry("Alpha", "ALP", "e", "c", 0),
			entry("Zeta", "ZET", "f", "c", 0),
			entry("Mu", "MU", "f", "c", 0),
		}

		Convey("When ordering by first appearance", func() {
			Convey("Then header order is kept", func() {
				So(aggregate.CollegeSet(entries, aggregate.FirstSeen), ShouldResemble, []string{"ZET", "ALP", "MU"})
			})
		})

		Convey("When ordering lexicographically", func() {
			Convey("Then abbreviations are sorted", func() {
				So(aggregate.CollegeSet(entries, aggregate.Lexicographic), ShouldResemble, []string{"ALP", "MU", "ZET"})
			})
		})
	})
}

func TestCategories(t *testing.T) {
	Convey("Given entries across categories", t, func() {
		entries := []model.ScoreEntry{
			entry("A", "A", "e", "Sports", 0),
			entry("A", "A", "f", "Music", 0),
			entry("B", "B", "e", "Sports", 0),
		}

		Convey("Then categories are distinct in first-seen order", func() {
			So(aggregate.Categories(entries), ShouldResemble, []string{"Sports", "Music"})
		})
	})

	Convey("Given no entries", t, func() {
		Convey("Then categories and colleges are empty lists", func() {
			So(aggregate.Categories(nil), ShouldResemble, []string{})
			So(aggregate.CollegeSet(nil, aggregate.FirstSeen), ShouldResemble, []string{})
		})
	})
}

func TestComputeMatrix(t *testing.T) {
	Convey("Given college columns [X,Y] and one event with only an X entry of 7", t, func() {
		entries := []model.ScoreEntry{
			entry("Xavier", "X", "Band", "Music", 7),
			entry("Yale", "Y", "Sprint", "Sports", 3),
		}
		m := aggregate.ComputeMatrix(entries, []string{"X", "Y"}, "Music")

		Convey("Then the Y cell for that event is 0", func() {
			So(m.Events, ShouldResemble, []string{"Band"})
			So(m.Colleges, ShouldResemble, []string{"X", "Y"})
			So(m.Points, ShouldResemble, [][]int{{7, 0}})
			So(m.Cell("Band", "Y"), ShouldEqual, 0)
		})
	})

	Convey("Given several events in one category", t, func() {
		entries := []model.ScoreEntry{
			entry("A", "A", "Solo", "Music", 1),
			entry("A", "A", "Band", "Music", 2),
			entry("A", "A", "Choir", "Music", 3),
		}
		m := aggregate.ComputeMatrix(entries, []string{"A"}, "Music")

		Convey("Then event rows are sorted lexicographically", func() {
			So(m.Events, ShouldResemble, []string{"Band", "Choir", "Solo"})
			So(m.Points, ShouldResemble, [][]int{{2}, {3}, {1}})
		})
	})

	Convey("Given duplicate (event, category, abbreviation) entries", t, func() {
		entries := []model.ScoreEntry{
			entry("A", "A", "Band", "Music", 4),
			entry("A", "A", "Band", "Music", 9),
		}
		m := aggregate.ComputeMatrix(entries, []string{"A"}, "Music")

		Convey("Then the last one wins", func() {
			So(m.Cell("Band", "A"), ShouldEqual, 9)
		})
	})

	Convey("Given a category with no entries", t, func() {
		m := aggregate.ComputeMatrix(nil, []string{"A", "B"}, "Drama")

		Convey("Then the matrix has columns but no rows", func() {
			So(m.Category, ShouldEqual, "Drama")
			So(m.Events, ShouldResemble, []string{})
			So(m.Colleges, ShouldResemble, []string{"A", "B"})
			So(m.Points, ShouldBeEmpty)
		})
	})
}
