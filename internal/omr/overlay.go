package omr

import (
	"image"
	"strconv"

	"github.com/ironsheep/omr-service/internal/detection"
	"github.com/ironsheep/omr-service/internal/imaging"
)

// Annotate renders the scan result over img, which must be the image the
// summary was produced from.
//
// Graded rows are labelled with their question number and colour coded by
// fill. Candidates that were not graded (stray marks, rejected bands, rows
// past the question count) are outlined in gray. A positive maxSide bounds
// the output size.
func (s *Summary) Annotate(img image.Image, maxSide int) (*imaging.OverlayResult, error) {
	graded := make(map[detection.Bubble]bool)
	var rows []imaging.OverlayRow

	for i, row := range s.rows {
		if i >= len(s.Answers) {
			break
		}
		answer := s.Answers[i]
		marks := make([]imaging.OverlayMark, len(row.Bubbles))
		for k, b := range row.Bubbles {
			graded[b] = true
			marks[k] = imaging.OverlayMark{
				Rect:     b.Rect(),
				Selected: answer.Position == k+1,
			}
			if k < len(answer.FillPercentages) {
				marks[k].Fill = answer.FillPercentages[k]
			}
		}
		rows = append(rows, imaging.OverlayRow{
			Label: strconv.Itoa(answer.QuestionNumber),
			Marks: marks,
		})
	}

	var stray []image.Rectangle
	for _, b := range s.bubbles {
		if !graded[b] {
			stray = append(stray, b.Rect())
		}
	}

	return imaging.Annotate(img, rows, stray, maxSide)
}
