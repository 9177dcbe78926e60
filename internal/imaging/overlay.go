package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// OverlayMark is one bubble to outline on the annotated image.
type OverlayMark struct {
	// Rect is the bubble's bounding box in 0-based image coordinates.
	Rect image.Rectangle

	// Fill is the bubble's fill percentage (0-100); it picks the outline
	// colour on a red (empty) to green (filled) ramp.
	Fill float64

	// Selected outlines the bubble thick, in the highlight colour.
	Selected bool
}

// OverlayRow is one question row: its label and its bubbles left to right.
type OverlayRow struct {
	Label string
	Marks []OverlayMark
}

// OverlayResult contains the annotated image encoded as base64 PNG.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

var (
	emptyColor, _    = colorful.Hex("#E53935")
	filledColor, _   = colorful.Hex("#43A047")
	selectedColor, _ = colorful.Hex("#1E88E5")
	strayColor       = color.RGBA{160, 160, 160, 255}
)

// Annotate draws the scan result over a copy of the sheet image.
//
// Every bubble of every row is outlined with a colour blended in Lab space
// between red (0% fill) and green (100% fill); the selected answer gets a
// thicker blue outline. Rows are labelled with their question number to the
// left of the first bubble. Stray candidates that did not end up in a row
// are outlined in gray.
//
// If maxSide is positive and the sheet is larger, the finished overlay is
// scaled down to fit a maxSide x maxSide box.
func Annotate(img image.Image, rows []OverlayRow, stray []image.Rectangle, maxSide int) (*OverlayResult, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	result := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	for _, r := range stray {
		drawRect(result, r, strayColor, 1)
	}

	labelColor := color.RGBA{255, 255, 255, 255}
	labelBg := color.RGBA{0, 0, 0, 200}

	for _, row := range rows {
		for _, m := range row.Marks {
			if m.Selected {
				drawRect(result, m.Rect.Inset(-2), toRGBA(selectedColor), 3)
			}
			drawRect(result, m.Rect, fillColor(m.Fill), 1)
		}

		if len(row.Marks) > 0 && row.Label != "" {
			first := row.Marks[0].Rect
			x := first.Min.X - len(row.Label)*glyphAdvance - 6
			if x < 1 {
				x = 1
			}
			y := (first.Min.Y+first.Max.Y)/2 - glyphHeight/2
			drawLabel(result, x, y, row.Label, labelColor, labelBg)
		}
	}

	var out image.Image = result
	if maxSide > 0 && (bounds.Dx() > maxSide || bounds.Dy() > maxSide) {
		out = imaging.Fit(result, maxSide, maxSide, imaging.Lanczos)
	}

	encoded, err := encodePNGBase64(out)
	if err != nil {
		return nil, err
	}

	return &OverlayResult{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

// fillColor maps a fill percentage onto the red-green ramp.
func fillColor(fill float64) color.RGBA {
	t := fill / 100
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return toRGBA(emptyColor.BlendLab(filledColor, t).Clamped())
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// drawRect outlines r with the given stroke thickness, growing inward.
func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA, thickness int) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for i := 0; i < thickness; i++ {
		inner := r.Inset(i)
		if inner.Empty() {
			return
		}
		for x := inner.Min.X; x < inner.Max.X; x++ {
			img.SetRGBA(x, inner.Min.Y, c)
			img.SetRGBA(x, inner.Max.Y-1, c)
		}
		for y := inner.Min.Y; y < inner.Max.Y; y++ {
			img.SetRGBA(inner.Min.X, y, c)
			img.SetRGBA(inner.Max.X-1, y, c)
		}
	}
}

const (
	glyphAdvance = 4
	glyphHeight  = 5
)

// glyphs is a 3x5 pixel font covering question numbers and answer letters.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'A': {"010", "101", "111", "101", "101"},
	'B': {"110", "101", "110", "101", "110"},
	'C': {"011", "100", "100", "100", "011"},
	'D': {"110", "101", "101", "101", "110"},
	'-': {"000", "000", "111", "000", "000"},
	':': {"000", "010", "000", "010", "000"},
}

// drawLabel draws text with the 3x5 font on a filled background box.
// Unknown runes advance the cursor without drawing.
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	bounds := img.Bounds()
	labelWidth := len(text) * glyphAdvance
	labelHeight := glyphHeight + 2

	for dy := -1; dy < labelHeight; dy++ {
		for dx := -1; dx < labelWidth; dx++ {
			p := image.Pt(x+dx, y+dy)
			if p.In(bounds) {
				img.SetRGBA(p.X, p.Y, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += glyphAdvance
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				p := image.Pt(cx+col, y+row)
				if p.In(bounds) {
					img.SetRGBA(p.X, p.Y, fg)
				}
			}
		}
		cx += glyphAdvance
	}
}

func encodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode overlay image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
