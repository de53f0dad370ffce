// Package aggregate derives the leaderboard and scoreboard views from
// canonical entries. Every function is pure: same input, same output.
package aggregate

import (
	"sort"

	"github.com/okian/sheetboard/internal/domain/model"
	"github.com/okian/sheetboard/internal/domain/types"
)

// Order controls the column order produced by CollegeSet.
type Order string

// Supported orders.
const (
	FirstSeen     Order = "first_seen"
	Lexicographic Order = "lexicographic"
)

// ComputeTotals sums points per college and sorts by points descending.
// Colleges with equal totals keep the order in which they first appear.
func ComputeTotals(entries []model.ScoreEntry) []types.CollegeTotal {
	index := make(map[string]int)
	totals := []types.CollegeTotal{}
	for _, e := range entries {
		i, ok := index[e.College]
		if !ok {
			i = len(totals)
			index[e.College] = i
			totals = append(totals, types.CollegeTotal{College: e.College})
		}
		totals[i].Points += e.Points
	}

	sort.SliceStable(totals, func(a, b int) bool {
		return totals[a].Points > totals[b].Points
	})
	for i := range totals {
		totals[i].Rank = i + 1
	}
	return totals
}

// CollegeSet returns the distinct abbreviations in the requested order.
// Any order other than Lexicographic keeps first-seen order.
func CollegeSet(entries []model.ScoreEntry, order Order) []string {
	seen := make(map[string]struct{})
	set := []string{}
	for _, e := range entries {
		if _, ok := seen[e.Abbreviation]; ok {
			continue
		}
		seen[e.Abbreviation] = struct{}{}
		set = append(set, e.Abbreviation)
	}
	if order == Lexicographic {
		sort.Strings(set)
	}
	return set
}

// Categories returns the distinct categories in first-seen order.
func Categories(entries []model.ScoreEntry) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, e := range entries {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// ComputeMatrix builds the scoreboard for one category. Rows are the
// category's event names sorted lexicographically, columns are colleges in
// the given order. A missing (event, college) pair scores 0; when several
// entries share a pair the last one wins.
func ComputeMatrix(entries []model.ScoreEntry, colleges []string, category string) types.Matrix {
	type key struct{ event, abbreviation string }

	cells := make(map[key]int)
	seen := make(map[string]struct{})
	var events []string
	for _, e := range entries {
		if e.Category != category {
			continue
		}
		if _, ok := seen[e.Event]; !ok {
			seen[e.Event] = struct{}{}
			events = append(events, e.Event)
		}
		cells[key{e.Event, e.Abbreviation}] = e.Points
	}
	sort.Strings(events)

	points := make([][]int, len(events))
	for i, ev := range events {
		points[i] = make([]int, len(colleges))
		for j, abbr := range colleges {
			points[i][j] = cells[key{ev, abbr}]
		}
	}

	return types.Matrix{
		Category: category,
		Events:   nonNil(events),
		Colleges: nonNil(append([]string(nil), colleges...)),
		Points:   points,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
