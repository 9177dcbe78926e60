package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
)

// Mask is a binary foreground/background image.
//
// Foreground (true) marks ink: printed bubble outlines, pencil fills, text.
// Background (false) is paper. Coordinates are 0-based regardless of the
// source image's bounds origin.
type Mask struct {
	Width  int
	Height int

	// Pix holds Width*Height cells in row-major order.
	Pix []bool

	// Threshold is the gray level chosen by Otsu's method; pixels at or
	// below it became foreground.
	Threshold uint8
}

// NewMask returns an all-background mask of the given size.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// At reports whether (x, y) is foreground. Out-of-range coordinates are
// background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set marks (x, y) as foreground or background. Out-of-range coordinates
// are ignored.
func (m *Mask) Set(x, y int, fg bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Pix[y*m.Width+x] = fg
}

// Count returns the number of foreground pixels inside r, clipped to the
// mask.
func (m *Mask) Count(r image.Rectangle) int {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Pix[y*m.Width : (y+1)*m.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			if row[x] {
				n++
			}
		}
	}
	return n
}

// FillPercent returns the share of foreground pixels inside r as a
// percentage (0-100). The denominator is the full area of r, so the part of
// r outside the mask counts as background. An empty rectangle scores 0.
func (m *Mask) FillPercent(r image.Rectangle) float64 {
	total := r.Dx() * r.Dy()
	if total <= 0 {
		return 0
	}
	return float64(m.Count(r)) / float64(total) * 100
}

// Binarize converts a sheet image into an ink mask.
//
// # Algorithm
//
//  1. Grayscale conversion with ITU-R BT.601 luma weights
//  2. Gaussian blur with a fixed 5x5 kernel to reduce noise
//  3. Otsu's method picks the gray level that best separates the two
//     intensity classes of the blurred histogram
//  4. Inverted threshold: pixels at or below the level are foreground
//
// A uniform image (blank page) has no second class; the level stays at 0,
// so a white page yields an all-background mask.
//
// # Errors
//
//   - Returns ErrEmptyImage if img has zero width or height
func Binarize(img image.Image) (*Mask, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, ErrEmptyImage
	}

	blurred := gaussianBlur(grayscale(img))

	level := otsuThreshold(histogram.NewRGBAHistogram(blurred).R.Bins)

	gb := blurred.Bounds()
	mask := NewMask(gb.Dx(), gb.Dy())
	mask.Threshold = level
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if blurred.GrayAt(gb.Min.X+x, gb.Min.Y+y).Y <= level {
				mask.Pix[y*mask.Width+x] = true
			}
		}
	}

	return mask, nil
}

// BT.601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// grayscale converts img to 8-bit luma. bild returns the gray levels in an
// RGBA image with equal channels; the R channel is copied out.
func grayscale(img image.Image) *image.Gray {
	rgba := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)

	bounds := rgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+bounds.Dx()*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+bounds.Dx()]
		for x := range dst {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// gaussianBlur applies a 5x5 Gaussian blur to a grayscale image.
//
// Uses a standard 5x5 Gaussian kernel with sigma ≈ 1.0:
//
//	1  4  7  4  1
//	4 16 26 16  4
//	7 26 41 26  7
//	4 16 26 16  4
//	1  4  7  4  1
//
// Total kernel sum = 273, used for normalization.
// Border pixels use clamped (replicated) edge values, so a white page does
// not grow a dark frame that would enclose every bubble.
func gaussianBlur(src *image.Gray) *image.Gray {
	kernel := [5][5]int{
		{1, 4, 7, 4, 1},
		{4, 16, 26, 16, 4},
		{7, 26, 41, 26, 7},
		{4, 16, 26, 16, 4},
		{1, 4, 7, 4, 1},
	}
	const kernelSum = 273

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	dst := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum := 0
			for ky := -2; ky <= 2; ky++ {
				py := clamp(y+ky, 0, height-1)
				for kx := -2; kx <= 2; kx++ {
					px := clamp(x+kx, 0, width-1)
					sum += int(src.GrayAt(bounds.Min.X+px, bounds.Min.Y+py).Y) * kernel[ky+2][kx+2]
				}
			}
			dst.Pix[y*dst.Stride+x] = uint8((sum + kernelSum/2) / kernelSum)
		}
	}
	return dst
}

// otsuThreshold returns the gray level maximizing between-class variance of
// a 256-bin histogram. The first level reaching the maximum wins.
func otsuThreshold(bins []int) uint8 {
	var total int
	var sum float64
	for i, c := range bins {
		total += c
		sum += float64(i * c)
	}

	var (
		weightBg int
		sumBg    float64
		best     float64
		level    int
	)
	for t, c := range bins {
		weightBg += c
		if weightBg == 0 {
			continue
		}
		weightFg := total - weightBg
		if weightFg == 0 {
			break
		}
		sumBg += float64(t * c)

		meanBg := sumBg / float64(weightBg)
		meanFg := (sum - sumBg) / float64(weightFg)
		diff := meanBg - meanFg
		variance := float64(weightBg) * float64(weightFg) * diff * diff
		if variance > best {
			best = variance
			level = t
		}
	}
	return uint8(level)
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
