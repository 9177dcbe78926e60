package detection

import (
	"errors"
	"fmt"
)

// OptionsPerQuestion is the number of answer bubbles in a question row.
const OptionsPerQuestion = 4

// Params holds the calibration of the bubble heuristics.
//
// The defaults match the capture resolution the service was tuned on. They
// are resolution dependent: a sheet scanned at twice the DPI has bubbles of
// four times the area and rows twice as far apart.
type Params struct {
	// MinAspectRatio and MaxAspectRatio bound width/height of a candidate
	// (inclusive). Bubbles are near-circular, so both sit close to 1.
	MinAspectRatio float64 `yaml:"min_aspect_ratio" json:"min_aspect_ratio"`
	MaxAspectRatio float64 `yaml:"max_aspect_ratio" json:"max_aspect_ratio"`

	// MinArea and MaxArea bound the outline area of a candidate in pixels
	// (exclusive on both ends).
	MinArea int `yaml:"min_area" json:"min_area"`
	MaxArea int `yaml:"max_area" json:"max_area"`

	// AnswerRegionTop is the fraction of the sheet height a candidate's
	// vertical centre must lie below. It keeps header boxes and logos out.
	AnswerRegionTop float64 `yaml:"answer_region_top" json:"answer_region_top"`

	// RowTolerance is the largest vertical distance in pixels between a
	// row's first bubble centre and any other member's centre.
	RowTolerance int `yaml:"row_tolerance" json:"row_tolerance"`

	// FillThreshold is the fill percentage the fullest bubble of a row must
	// exceed to count as marked.
	FillThreshold float64 `yaml:"fill_threshold" json:"fill_threshold"`
}

// DefaultParams returns the calibration the heuristics were tuned with.
func DefaultParams() Params {
	return Params{
		MinAspectRatio:  0.7,
		MaxAspectRatio:  1.3,
		MinArea:         150,
		MaxArea:         2500,
		AnswerRegionTop: 0.35,
		RowTolerance:    30,
		FillThreshold:   30,
	}
}

// ErrInvalidParams wraps every calibration validation failure.
var ErrInvalidParams = errors.New("invalid detection parameters")

// Validate reports the first inconsistent setting.
func (p Params) Validate() error {
	switch {
	case p.MinAspectRatio <= 0:
		return fmt.Errorf("%w: min_aspect_ratio must be positive, got %g", ErrInvalidParams, p.MinAspectRatio)
	case p.MaxAspectRatio < p.MinAspectRatio:
		return fmt.Errorf("%w: max_aspect_ratio %g below min_aspect_ratio %g", ErrInvalidParams, p.MaxAspectRatio, p.MinAspectRatio)
	case p.MinArea < 0:
		return fmt.Errorf("%w: min_area must not be negative, got %d", ErrInvalidParams, p.MinArea)
	case p.MaxArea <= p.MinArea:
		return fmt.Errorf("%w: max_area %d must exceed min_area %d", ErrInvalidParams, p.MaxArea, p.MinArea)
	case p.AnswerRegionTop < 0 || p.AnswerRegionTop >= 1:
		return fmt.Errorf("%w: answer_region_top must be in [0, 1), got %g", ErrInvalidParams, p.AnswerRegionTop)
	case p.RowTolerance < 0:
		return fmt.Errorf("%w: row_tolerance must not be negative, got %d", ErrInvalidParams, p.RowTolerance)
	case p.FillThreshold < 0 || p.FillThreshold >= 100:
		return fmt.Errorf("%w: fill_threshold must be in [0, 100), got %g", ErrInvalidParams, p.FillThreshold)
	}
	return nil
}
