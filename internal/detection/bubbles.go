package detection

import (
	"image"

	"github.com/ironsheep/omr-service/internal/imaging"
)

// Bubble is a component that passed the bubble shape, size and position
// filters.
type Bubble struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// CenterX and CenterY are X + Width/2 and Y + Height/2, rounded down.
	CenterX int `json:"center_x"`
	CenterY int `json:"center_y"`

	Area int `json:"area"`
}

// Rect returns the bubble's bounding box as a half-open image.Rectangle.
func (b Bubble) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// NewBubble converts a component into a bubble candidate without filtering.
func NewBubble(c Component) Bubble {
	w, h := c.Width(), c.Height()
	return Bubble{
		X:       c.MinX,
		Y:       c.MinY,
		Width:   w,
		Height:  h,
		CenterX: c.MinX + w/2,
		CenterY: c.MinY + h/2,
		Area:    c.Area,
	}
}

// Accepts reports whether a bubble candidate passes the filters of p on a
// sheet of the given height.
//
// A candidate is kept when all of the following hold:
//   - MinAspectRatio <= Width/Height <= MaxAspectRatio
//   - MinArea < Area < MaxArea
//   - CenterY > AnswerRegionTop * sheetHeight
func (p Params) Accepts(b Bubble, sheetHeight int) bool {
	if b.Height <= 0 {
		return false
	}
	ratio := float64(b.Width) / float64(b.Height)
	if ratio < p.MinAspectRatio || ratio > p.MaxAspectRatio {
		return false
	}
	if b.Area <= p.MinArea || b.Area >= p.MaxArea {
		return false
	}
	return float64(b.CenterY) > p.AnswerRegionTop*float64(sheetHeight)
}

// ExtractBubbles finds the bubble candidates of a sheet mask, in raster
// discovery order of their components.
//
// A blank mask, or one with no bubble-like regions, yields an empty result;
// that is not an error.
func ExtractBubbles(mask *imaging.Mask, p Params) []Bubble {
	var bubbles []Bubble
	for _, c := range FindComponents(mask) {
		b := NewBubble(c)
		if p.Accepts(b, mask.Height) {
			bubbles = append(bubbles, b)
		}
	}
	return bubbles
}
