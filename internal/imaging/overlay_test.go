package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func decodeOverlay(t *testing.T, result *OverlayResult) image.Image {
	t.Helper()
	decoded, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(strings.NewReader(string(decoded)))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	return img
}

func assertColorNear(t *testing.T, img image.Image, x, y int, want color.RGBA, tolerance int) {
	t.Helper()
	r, g, b, _ := img.At(x, y).RGBA()
	got := [3]int{int(r >> 8), int(g >> 8), int(b >> 8)}
	exp := [3]int{int(want.R), int(want.G), int(want.B)}
	for i := range got {
		d := got[i] - exp[i]
		if d < 0 {
			d = -d
		}
		if d > tolerance {
			t.Errorf("color at (%d,%d): got %v, want %v", x, y, got, exp)
			return
		}
	}
}

func TestAnnotate(t *testing.T) {
	img := createInMemoryImage(200, 100, color.White)
	rows := []OverlayRow{{
		Label: "1",
		Marks: []OverlayMark{
			{Rect: image.Rect(40, 40, 60, 60), Fill: 0},
			{Rect: image.Rect(80, 40, 100, 60), Fill: 80, Selected: true},
			{Rect: image.Rect(120, 40, 140, 60), Fill: 10},
			{Rect: image.Rect(160, 40, 180, 60), Fill: 5},
		},
	}}

	result, err := Annotate(img, rows, nil, 0)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	if result.Width != 200 || result.Height != 100 {
		t.Errorf("dimensions: got %dx%d, want 200x100", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	out := decodeOverlay(t, result)

	// Empty bubble outline is red
	assertColorNear(t, out, 40, 50, color.RGBA{0xE5, 0x39, 0x35, 255}, 3)

	// Selected bubble has a blue halo outside its box
	assertColorNear(t, out, 78, 50, color.RGBA{0x1E, 0x88, 0xE5, 255}, 3)

	// Interior is untouched paper
	assertColorNear(t, out, 50, 50, color.RGBA{255, 255, 255, 255}, 0)
}

func TestAnnotate_StrayCandidates(t *testing.T) {
	img := createInMemoryImage(50, 50, color.White)
	stray := []image.Rectangle{image.Rect(10, 10, 20, 20)}

	result, err := Annotate(img, nil, stray, 0)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	out := decodeOverlay(t, result)
	assertColorNear(t, out, 10, 15, strayColor, 0)
}

func TestAnnotate_Downscale(t *testing.T) {
	img := createInMemoryImage(400, 200, color.White)

	result, err := Annotate(img, nil, nil, 100)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	if result.Width != 100 || result.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 100x50", result.Width, result.Height)
	}
}

func TestAnnotate_LabelNearEdge(t *testing.T) {
	img := createInMemoryImage(30, 30, color.White)
	rows := []OverlayRow{{
		Label: "123",
		Marks: []OverlayMark{{Rect: image.Rect(0, 0, 10, 10), Fill: 50}},
	}}

	// Should not panic when the label does not fit left of the row
	if _, err := Annotate(img, rows, nil, 0); err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}
}

func TestAnnotate_EmptyImage(t *testing.T) {
	if _, err := Annotate(image.NewRGBA(image.Rect(0, 0, 0, 0)), nil, nil, 0); err == nil {
		t.Error("Annotate should fail for an empty image")
	}
}

func TestFillColor_Ramp(t *testing.T) {
	low := fillColor(-10)
	high := fillColor(150)

	if low != fillColor(0) {
		t.Error("fill below 0 should clamp to the empty colour")
	}
	if high != fillColor(100) {
		t.Error("fill above 100 should clamp to the filled colour")
	}
	if low.R <= low.G {
		t.Errorf("empty colour should be red-dominant, got %v", low)
	}
	if high.G <= high.R {
		t.Errorf("filled colour should be green-dominant, got %v", high)
	}
}

func TestDrawLabel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 20))
	fg := color.RGBA{255, 255, 255, 255}
	bg := color.RGBA{0, 0, 0, 255}

	drawLabel(img, 2, 2, "1A", fg, bg)

	// Top-middle pixel of "1" is lit
	if img.RGBAAt(3, 2) != fg {
		t.Errorf("glyph pixel: got %v, want %v", img.RGBAAt(3, 2), fg)
	}
	// Top-left pixel of "1" is background
	if img.RGBAAt(2, 2) != bg {
		t.Errorf("background pixel: got %v, want %v", img.RGBAAt(2, 2), bg)
	}

	// Unknown characters and out-of-bounds positions must not panic
	drawLabel(img, 45, 15, "?Z9", fg, bg)
	drawLabel(img, -10, -10, "", fg, bg)
}
