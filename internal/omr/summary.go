package omr

import (
	"math"

	"github.com/ironsheep/omr-service/internal/detection"
	"github.com/ironsheep/omr-service/internal/imaging"
)

// AnswerResult is the graded answer to one question.
type AnswerResult struct {
	// QuestionNumber is 1-based, top to bottom.
	QuestionNumber int `json:"question_number"`

	// Position is the marked option (1-4) or 0 when nothing was marked.
	Position int `json:"position"`

	// FillPercentages holds one score per option, rounded to one decimal.
	// It is empty, not null, for questions whose row was never found.
	FillPercentages []float64 `json:"fill_percentages"`
}

// Detected reports whether the answer came from a row on the sheet rather
// than from padding.
func (a AnswerResult) Detected() bool {
	return len(a.FillPercentages) > 0
}

// Summary is the outcome of one scan.
type Summary struct {
	Answers []AnswerResult `json:"answers"`

	// TotalBubbles counts every bubble candidate, in a row or not.
	TotalBubbles int `json:"total_bubbles_detected"`

	// TotalRows counts every valid row, including rows past the requested
	// question count.
	TotalRows int `json:"total_questions_detected"`

	bubbles []detection.Bubble
	rows    []detection.Row
}

// Positions returns the selected position of every answer in question order.
func (s *Summary) Positions() []int {
	out := make([]int, len(s.Answers))
	for i, a := range s.Answers {
		out[i] = a.Position
	}
	return out
}

// assemble grades the first min(len(rows), questions) rows and pads the
// result to questions entries.
func assemble(mask *imaging.Mask, rows []detection.Row, questions int, threshold float64) []AnswerResult {
	answers := make([]AnswerResult, 0, questions)

	for i, row := range rows {
		if i >= questions {
			break
		}
		scored := detection.ScoreRow(mask, row, threshold)
		fills := make([]float64, len(scored.Fills))
		for k, f := range scored.Fills {
			fills[k] = roundFill(f)
		}
		answers = append(answers, AnswerResult{
			QuestionNumber:  i + 1,
			Position:        scored.Position,
			FillPercentages: fills,
		})
	}

	for q := len(answers) + 1; q <= questions; q++ {
		answers = append(answers, AnswerResult{
			QuestionNumber:  q,
			FillPercentages: []float64{},
		})
	}

	return answers
}

func roundFill(v float64) float64 {
	return math.Round(v*10) / 10
}
