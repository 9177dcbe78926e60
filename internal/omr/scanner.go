package omr

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/omr-service/internal/detection"
	"github.com/ironsheep/omr-service/internal/imaging"
)

// DefaultQuestions is the question count used when a caller asks for zero or
// a negative number of questions.
const DefaultQuestions = 20

// DefaultMaxQuestions is the largest question count a Scanner accepts unless
// configured otherwise.
const DefaultMaxQuestions = 500

var (
	// ErrEmptyImage is returned when the sheet image has zero width or height.
	ErrEmptyImage = errors.New("sheet image is empty")

	// ErrTooManyQuestions is returned when more questions are requested than
	// the scanner's limit.
	ErrTooManyQuestions = errors.New("too many questions")
)

// Scanner grades sheets with a fixed calibration.
type Scanner struct {
	params       detection.Params
	maxQuestions int
}

// NewScanner returns a Scanner using params, or an error if they are
// inconsistent.
func NewScanner(params detection.Params) (*Scanner, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Scanner{params: params, maxQuestions: DefaultMaxQuestions}, nil
}

// DefaultScanner returns a Scanner with detection.DefaultParams.
func DefaultScanner() *Scanner {
	return &Scanner{params: detection.DefaultParams(), maxQuestions: DefaultMaxQuestions}
}

// WithMaxQuestions sets the largest question count Scan accepts. A
// non-positive n restores DefaultMaxQuestions.
func (s *Scanner) WithMaxQuestions(n int) *Scanner {
	if n <= 0 {
		n = DefaultMaxQuestions
	}
	s.maxQuestions = n
	return s
}

// MaxQuestions returns the largest question count Scan accepts.
func (s *Scanner) MaxQuestions() int {
	return s.maxQuestions
}

// Params returns the scanner's calibration.
func (s *Scanner) Params() detection.Params {
	return s.params
}

// Scan grades one sheet and returns exactly questions answers. A
// non-positive questions value means DefaultQuestions.
//
// Errors are ErrEmptyImage and ErrTooManyQuestions; every heuristic shortfall (no bubbles,
// fewer rows than questions) is reported in the Summary.
func (s *Scanner) Scan(img image.Image, questions int) (*Summary, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if questions <= 0 {
		questions = DefaultQuestions
	}
	if questions > s.maxQuestions {
		return nil, fmt.Errorf("%w: %d exceeds the limit of %d", ErrTooManyQuestions, questions, s.maxQuestions)
	}

	mask, err := imaging.Binarize(img)
	if err != nil {
		if errors.Is(err, imaging.ErrEmptyImage) {
			return nil, ErrEmptyImage
		}
		return nil, fmt.Errorf("failed to binarize sheet: %w", err)
	}

	bubbles := detection.ExtractBubbles(mask, s.params)
	rows := detection.GroupRows(bubbles, s.params.RowTolerance)

	return &Summary{
		Answers:      assemble(mask, rows, questions, s.params.FillThreshold),
		TotalBubbles: len(bubbles),
		TotalRows:    len(rows),
		bubbles:      bubbles,
		rows:         rows,
	}, nil
}
