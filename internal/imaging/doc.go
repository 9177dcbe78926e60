// Package imaging provides the image-level operations behind answer sheet scanning.
//
// This package covers everything that touches raw pixels before and after the
// bubble detection logic: decoding sheet photos, caching decoded images for the
// MCP server, converting a sheet into a binary ink mask, and rendering an
// annotated overlay of a finished scan. All operations use a coordinate system
// where (0,0) is at the top-left corner, X increases rightward, and Y increases
// downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Mask coordinates are relative to the source image's Bounds().Min
//   - Rectangles follow image.Rectangle: Min is inclusive, Max is exclusive
//
// # Preprocessing
//
// Binarize turns any image.Image into a Mask in three fixed steps:
//
//  1. Grayscale conversion (bild effect.GrayscaleWithWeights, BT.601 weights)
//  2. 5x5 Gaussian smoothing to suppress scan noise
//  3. Otsu threshold, inverted so dark ink becomes foreground
//
// The steps are intentionally not configurable; recalibration for another
// scan resolution happens in the detection parameters, not here.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Binarize, Annotate and the
// Mask read methods are pure and may be called concurrently on different
// inputs. A Mask is never mutated after Binarize returns it.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Images with zero width or height
//   - File I/O errors during image loading
//   - Bytes that are not a supported image format (PNG, JPEG, GIF, WebP, BMP, TIFF)
//   - Encoding errors during overlay output
package imaging
