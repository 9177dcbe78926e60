package detection

import (
	"sort"
)

// Row is one question row: exactly OptionsPerQuestion bubbles ordered left
// to right.
type Row struct {
	Bubbles []Bubble `json:"bubbles"`
}

// GroupRows arranges bubble candidates into question rows.
//
// Candidates are sorted by vertical centre and scanned top to bottom. Each
// band starts at the first unassigned candidate and takes every following
// candidate whose centre lies within tolerance pixels of that first one; the
// band is anchored, so a slow drift down the page does not chain rows
// together. Bands of exactly OptionsPerQuestion members become rows; all
// other bands are dropped. The scan resumes after the last band member
// either way.
//
// The input slice is not modified. Rows come back top to bottom.
func GroupRows(bubbles []Bubble, tolerance int) []Row {
	sorted := make([]Bubble, len(bubbles))
	copy(sorted, bubbles)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.CenterY != b.CenterY {
			return a.CenterY < b.CenterY
		}
		if a.CenterX != b.CenterX {
			return a.CenterX < b.CenterX
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	var rows []Row
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && abs(sorted[j].CenterY-sorted[i].CenterY) <= tolerance {
			j++
		}

		if j-i == OptionsPerQuestion {
			members := make([]Bubble, OptionsPerQuestion)
			copy(members, sorted[i:j])
			sort.SliceStable(members, func(a, b int) bool {
				return members[a].CenterX < members[b].CenterX
			})
			rows = append(rows, Row{Bubbles: members})
		}

		i = j
	}

	return rows
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
