package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrEmptyImage is returned when a decoded image has no pixels.
var ErrEmptyImage = errors.New("image has zero width or height")

// Decode reads and decodes a sheet image from r.
//
// EXIF orientation is applied, so a phone photo taken in portrait comes back
// upright even when the sensor stored it rotated. Supported formats are PNG,
// JPEG, GIF, WebP, BMP and TIFF.
//
// # Errors
//
//   - Returns error if the bytes are not a supported image format
//   - Returns ErrEmptyImage if the decoded image has zero width or height
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	return img, nil
}

// LoadFile opens and decodes the sheet image stored at path.
func LoadFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// ImageCache keeps decoded sheet images keyed by file path.
//
// The MCP server answers several tool calls about the same sheet (inspect it,
// scan it, scan it again with more questions), so decoding once pays off.
// Each entry remembers the file's modification time; if the file is replaced
// on disk, for example by a rescan saved under the same name, the next Load
// decodes it again.
//
// ImageCache is safe for concurrent use by multiple goroutines.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]cachedImage
}

type cachedImage struct {
	img     image.Image
	modTime time.Time
	size    int64
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]cachedImage),
	}
}

// Load returns the decoded image at path, reading it from disk only when it
// is not cached or the file changed since it was cached.
//
// The cache key is the exact path string; relative and absolute paths to the
// same file are cached separately.
func (c *ImageCache) Load(path string) (image.Image, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	c.mu.RLock()
	entry, ok := c.images[path]
	c.mu.RUnlock()

	if ok && entry.modTime.Equal(stat.ModTime()) && entry.size == stat.Size() {
		return entry.img, nil
	}

	img, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = cachedImage{img: img, modTime: stat.ModTime(), size: stat.Size()}
	c.mu.Unlock()

	return img, nil
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Evict removes a specific image from the cache by its path.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Clear removes all images from the cache.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cachedImage)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a sheet image file.
type ImageInfo struct {
	// Width is the image width in pixels, after EXIF orientation is applied.
	Width int `json:"width"`

	// Height is the image height in pixels, after EXIF orientation is applied.
	Height int `json:"height"`

	// Format is derived from the file extension: "png", "jpeg", "gif",
	// "webp", "bmp", "tiff" or "unknown".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// AnswerRegionTop is the first pixel row the bubble search considers
	// for the given region fraction.
	AnswerRegionTop int `json:"answer_region_top"`
}

// LoadImageInfo loads an image through the cache and describes it.
//
// regionTop is the fraction of the height above which bubbles are ignored;
// it is reported back as a pixel row so callers can check that the answer
// grid of their sheet actually sits below it.
func LoadImageInfo(cache *ImageCache, path string, regionTop float64) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := img.Bounds()

	return &ImageInfo{
		Width:           bounds.Dx(),
		Height:          bounds.Dy(),
		Format:          formatFromExt(path),
		FileSizeBytes:   stat.Size(),
		AnswerRegionTop: int(float64(bounds.Dy()) * regionTop),
	}, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".webp":
		return "webp"
	case ".bmp":
		return "bmp"
	case ".tif", ".tiff":
		return "tiff"
	}
	return "unknown"
}
