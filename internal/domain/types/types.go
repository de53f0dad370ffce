// Package types contains the read shapes served to the presentation layer.
package types

// CollegeTotal is one leaderboard row. Rank is the 1-based position in the
// sorted totals; ties are not merged.
type CollegeTotal struct {
	Rank    int    `json:"rank"`
	College string `json:"college"`
	Points  int    `json:"points"`
}

// Matrix is the per-category scoreboard: one row per event, one column per
// college abbreviation. Points[i][j] is the score of Events[i] for Colleges[j].
type Matrix struct {
	Category string   `json:"category"`
	Events   []string `json:"events"`
	Colleges []string `json:"colleges"`
	Points   [][]int  `json:"points"`
}

// Cell returns the points for an event and college abbreviation, or 0 when
// either is not part of the matrix.
func (m Matrix) Cell(event, abbreviation string) int {
	i := indexOf(m.Events, event)
	j := indexOf(m.Colleges, abbreviation)
	if i < 0 || j < 0 {
		return 0
	}
	return m.Points[i][j]
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
