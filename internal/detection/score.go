package detection

import (
	"github.com/ironsheep/omr-service/internal/imaging"
)

// Answer is the scored result of one row.
type Answer struct {
	// Position is the 1-based index of the marked bubble, or 0 when no
	// bubble was filled enough.
	Position int

	// Fills holds the unrounded fill percentage of every bubble, left to
	// right.
	Fills []float64
}

// ScoreRow measures every bubble of row against the mask and selects the
// marked one.
//
// A bubble's fill is the share of foreground pixels inside its bounding box.
// The fullest bubble is selected if its fill exceeds threshold; ties go to
// the leftmost. Printed but empty rings land around 20% and pencil fills
// well above 50%, so the default threshold of 30 separates them.
func ScoreRow(mask *imaging.Mask, row Row, threshold float64) Answer {
	fills := make([]float64, len(row.Bubbles))
	for i, b := range row.Bubbles {
		fills[i] = mask.FillPercent(b.Rect())
	}
	return Answer{
		Position: SelectPosition(fills, threshold),
		Fills:    fills,
	}
}

// SelectPosition returns the 1-based index of the first maximum of fills if
// it exceeds threshold, and 0 otherwise.
func SelectPosition(fills []float64, threshold float64) int {
	if len(fills) == 0 {
		return 0
	}
	best := 0
	for i := 1; i < len(fills); i++ {
		if fills[i] > fills[best] {
			best = i
		}
	}
	if fills[best] > threshold {
		return best + 1
	}
	return 0
}
