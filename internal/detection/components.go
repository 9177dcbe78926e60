package detection

import (
	"image"

	"github.com/ironsheep/omr-service/internal/imaging"
)

// Component is one outermost 8-connected foreground region of a mask.
type Component struct {
	// MinX, MinY, MaxX and MaxY bound the region. Both ends are inclusive.
	MinX, MinY, MaxX, MaxY int

	// Pixels is the number of foreground pixels in the region.
	Pixels int

	// Area is the area enclosed by the region's outer outline: its own
	// pixels plus every hole it surrounds. A printed ring and a pencil-filled
	// bubble of the same size have the same Area.
	Area int
}

// Width returns the inclusive horizontal extent.
func (c Component) Width() int { return c.MaxX - c.MinX + 1 }

// Height returns the inclusive vertical extent.
func (c Component) Height() int { return c.MaxY - c.MinY + 1 }

// Rect returns the bounding box as a half-open image.Rectangle.
func (c Component) Rect() image.Rectangle {
	return image.Rect(c.MinX, c.MinY, c.MaxX+1, c.MaxY+1)
}

type point struct {
	X, Y int
}

// FindComponents returns the outermost connected regions of mask in raster
// discovery order.
//
// Regions lying entirely inside a hole of an earlier region (a pencil mark
// inside a printed ring, a letter inside a box) are not reported; only the
// outer outline counts, as with an external-only contour search.
//
// Foreground connectivity is 8-neighbour; hole background connectivity is
// 4-neighbour, so two diagonal ink pixels seal a hole.
func FindComponents(mask *imaging.Mask) []Component {
	if mask == nil || mask.Width <= 0 || mask.Height <= 0 {
		return nil
	}

	width, height := mask.Width, mask.Height
	labels := make([]int32, width*height)
	enclosed := make([]bool, width*height)

	var components []Component
	var stack []point
	label := int32(0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if !mask.Pix[idx] || labels[idx] != 0 {
				continue
			}

			label++
			c := Component{MinX: x, MinY: y, MaxX: x, MaxY: y}
			stack = floodComponent(mask, labels, label, x, y, &c, stack[:0])

			if enclosed[idx] {
				continue
			}

			c.Area = c.Pixels + markHoles(labels, enclosed, label, width, c)
			components = append(components, c)
		}
	}

	return components
}

// floodComponent labels the 8-connected region containing (startX, startY)
// and grows c to cover it. The stack is returned for reuse.
func floodComponent(mask *imaging.Mask, labels []int32, label int32, startX, startY int, c *Component, stack []point) []point {
	width, height := mask.Width, mask.Height
	stack = append(stack, point{X: startX, Y: startY})

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		idx := p.Y*width + p.X
		if labels[idx] != 0 || !mask.Pix[idx] {
			continue
		}

		labels[idx] = label
		c.Pixels++
		if p.X < c.MinX {
			c.MinX = p.X
		}
		if p.X > c.MaxX {
			c.MaxX = p.X
		}
		if p.Y < c.MinY {
			c.MinY = p.Y
		}
		if p.Y > c.MaxY {
			c.MaxY = p.Y
		}

		// 8-connected neighbors
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}

	return stack
}

// markHoles finds the pixels inside c's bounding box that cannot reach the
// box border without crossing c. They are flagged in enclosed and their
// count is returned.
//
// The search runs on a grid padded by one cell on every side, so the border
// of the box is always reachable from the padding.
func markHoles(labels []int32, enclosed []bool, label int32, width int, c Component) int {
	bw, bh := c.Width()+2, c.Height()+2
	reached := make([]bool, bw*bh)

	wall := func(gx, gy int) bool {
		if gx == 0 || gy == 0 || gx == bw-1 || gy == bh-1 {
			return false
		}
		x, y := c.MinX+gx-1, c.MinY+gy-1
		return labels[y*width+x] == label
	}

	stack := []point{{X: 0, Y: 0}}
	reached[0] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// 4-connected neighbors
		for _, d := range [4]point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || ny < 0 || nx >= bw || ny >= bh {
				continue
			}
			gi := ny*bw + nx
			if reached[gi] || wall(nx, ny) {
				continue
			}
			reached[gi] = true
			stack = append(stack, point{X: nx, Y: ny})
		}
	}

	holes := 0
	for gy := 1; gy < bh-1; gy++ {
		for gx := 1; gx < bw-1; gx++ {
			if reached[gy*bw+gx] || wall(gx, gy) {
				continue
			}
			x, y := c.MinX+gx-1, c.MinY+gy-1
			enclosed[y*width+x] = true
			holes++
		}
	}
	return holes
}
