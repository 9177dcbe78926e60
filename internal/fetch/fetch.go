// Package fetch retrieves sheet images from location references.
//
// A location is a URL. http and https locations are downloaded with an
// HTTPClient, s3://bucket/key locations are read with an S3Client, and a
// Router picks the right one by scheme. Limited puts a rate limiter in front
// of any Fetcher.
//
// Failures fall into three distinct classes so transports can report them
// precisely:
//   - ErrUnsupportedLocation: the reference is not a location any fetcher
//     handles
//   - ErrUnavailable: the bytes could not be retrieved
//   - ErrUndecodable: the bytes arrived but are not a supported image
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/ironsheep/omr-service/internal/imaging"
)

const (
	// DefaultMaxBytes caps the size of a downloaded image.
	DefaultMaxBytes = 20 << 20

	// DefaultMaxPixels caps the decoded size of an image; a small, highly
	// compressed file can still expand to a huge bitmap.
	DefaultMaxPixels = 40_000_000
)

var (
	ErrUnsupportedLocation = errors.New("unsupported image location")
	ErrUnavailable         = errors.New("image unavailable")
	ErrUndecodable         = errors.New("image undecodable")
)

// Fetcher retrieves and decodes the image at a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (image.Image, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, location string) (image.Image, error)

func (f FetcherFunc) Fetch(ctx context.Context, location string) (image.Image, error) {
	return f(ctx, location)
}

// readLimited reads all of r, failing with ErrUnavailable once more than
// maxBytes arrive. A non-positive maxBytes disables the limit.
func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", ErrUnavailable, maxBytes)
	}
	return data, nil
}

// decode checks the image header against maxPixels before decoding the
// pixels. A non-positive maxPixels disables the check.
func decode(data []byte, maxPixels int) (image.Image, error) {
	if maxPixels > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
		}
		if cfg.Width*cfg.Height > maxPixels {
			return nil, fmt.Errorf("%w: %dx%d image exceeds %d pixels", ErrUndecodable, cfg.Width, cfg.Height, maxPixels)
		}
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return img, nil
}
