package detection

import (
	"testing"

	"github.com/ironsheep/omr-service/internal/imaging"
)

func TestSelectPosition(t *testing.T) {
	tests := []struct {
		name  string
		fills []float64
		want  int
	}{
		{"nothing marked", []float64{20.1, 19.8, 21.0, 20.5}, 0},
		{"second marked", []float64{20.1, 75.2, 21.0, 20.5}, 2},
		{"last marked", []float64{20.1, 19.8, 21.0, 64.0}, 4},
		{"tie goes to first", []float64{60, 60, 10, 10}, 1},
		{"exactly at threshold", []float64{30, 10, 10, 10}, 0},
		{"just above threshold", []float64{10, 30.01, 10, 10}, 2},
		{"two marked picks fuller", []float64{55, 70, 10, 10}, 2},
		{"empty", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectPosition(tt.fills, 30); got != tt.want {
				t.Errorf("SelectPosition(%v) = %d, want %d", tt.fills, got, tt.want)
			}
		})
	}
}

func TestScoreRow(t *testing.T) {
	m := imaging.NewMask(320, 120)
	drawRing(m, 60, 60, 16, 2)
	drawRing(m, 120, 60, 16, 2)
	drawDisk(m, 180, 60, 16)
	drawRing(m, 240, 60, 16, 2)

	row := Row{Bubbles: []Bubble{bubbleAt(60, 60), bubbleAt(120, 60), bubbleAt(180, 60), bubbleAt(240, 60)}}
	got := ScoreRow(m, row, 30)

	if got.Position != 3 {
		t.Errorf("Position = %d, want 3 (fills %v)", got.Position, got.Fills)
	}
	if len(got.Fills) != 4 {
		t.Fatalf("got %d fills, want 4", len(got.Fills))
	}
	for i, f := range got.Fills {
		if i == 2 {
			if f < 70 {
				t.Errorf("filled bubble fill = %.1f, want >= 70", f)
			}
			continue
		}
		if f < 10 || f > 25 {
			t.Errorf("empty ring %d fill = %.1f, want in [10, 25]", i, f)
		}
	}
}

func TestScoreRow_BlankRow(t *testing.T) {
	m := imaging.NewMask(320, 120)
	row := Row{Bubbles: []Bubble{bubbleAt(60, 60), bubbleAt(120, 60), bubbleAt(180, 60), bubbleAt(240, 60)}}

	got := ScoreRow(m, row, 30)
	if got.Position != 0 {
		t.Errorf("Position = %d, want 0", got.Position)
	}
	for i, f := range got.Fills {
		if f != 0 {
			t.Errorf("fill %d = %v, want 0", i, f)
		}
	}
}
