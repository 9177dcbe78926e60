package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// createInMemoryImage creates a solid color image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// writeTestImage encodes img as PNG under the test's temp dir and returns the path.
func writeTestImage(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, createInMemoryImage(40, 30, color.White)); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}

	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestDecode_InvalidData(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not an image")))
	if err == nil {
		t.Fatal("Decode should fail for invalid data")
	}
	if errors.Is(err, ErrEmptyImage) {
		t.Error("invalid data should not be reported as an empty image")
	}
}

func TestLoadFile_NonExistent(t *testing.T) {
	if _, err := LoadFile("/nonexistent/path/sheet.png"); err == nil {
		t.Error("LoadFile should fail for non-existent file")
	}
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, "sheet.png", createInMemoryImage(100, 100, color.White))

	img1, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	img2, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestImageCache_Load_ReloadsChangedFile(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, "sheet.png", createInMemoryImage(50, 50, color.White))

	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Replace the sheet with a larger rescan and move its mtime forward.
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to rewrite image: %v", err)
	}
	if err := png.Encode(f, createInMemoryImage(80, 60, color.Black)); err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	f.Close()
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("failed to touch file: %v", err)
	}

	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after rewrite failed: %v", err)
	}
	if first == second {
		t.Fatal("cache returned stale image after file changed")
	}
	if second.Bounds().Dx() != 80 || second.Bounds().Dy() != 60 {
		t.Errorf("dimensions: got %dx%d, want 80x60", second.Bounds().Dx(), second.Bounds().Dy())
	}
}

func TestImageCache_Load_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := NewImageCache().Load(path); err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestImageCache_EvictAndClear(t *testing.T) {
	cache := NewImageCache()
	a := writeTestImage(t, "a.png", createInMemoryImage(10, 10, color.White))
	b := writeTestImage(t, "b.png", createInMemoryImage(10, 10, color.White))

	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}

	cache.Evict(a)
	if cache.Len() != 1 {
		t.Errorf("after Evict: got %d images, want 1", cache.Len())
	}

	// Evicting an unknown path should not panic
	cache.Evict("/nonexistent/path")

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: got %d images, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, "sheet.png", createInMemoryImage(50, 50, color.White))

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	path := writeTestImage(t, "sheet.png", createInMemoryImage(200, 400, color.White))

	info, err := LoadImageInfo(cache, path, 0.35)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 200 || info.Height != 400 {
		t.Errorf("dimensions: got %dx%d, want 200x400", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes: got %d, want > 0", info.FileSizeBytes)
	}
	if info.AnswerRegionTop != 140 {
		t.Errorf("AnswerRegionTop: got %d, want 140", info.AnswerRegionTop)
	}
}

func TestFormatFromExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"sheet.png", "png"},
		{"sheet.JPG", "jpeg"},
		{"sheet.jpeg", "jpeg"},
		{"sheet.gif", "gif"},
		{"sheet.webp", "webp"},
		{"sheet.bmp", "bmp"},
		{"sheet.tif", "tiff"},
		{"sheet.tiff", "tiff"},
		{"sheet.pdf", "unknown"},
		{"sheet", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := formatFromExt(tt.path); got != tt.want {
				t.Errorf("formatFromExt(%q): got %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}
