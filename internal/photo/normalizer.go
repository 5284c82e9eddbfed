// Package photo turns arbitrary uploaded raster images into fixed-size,
// embeddable profile photos.
package photo

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/gif" // register GIF decoder
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
)

var (
	// ErrUndecodable indicates the bytes are not a supported raster image.
	ErrUndecodable = errors.New("photo: undecodable image")

	// ErrZeroArea indicates the decoded image has no pixels.
	ErrZeroArea = errors.New("photo: zero-area image")
)

// Normalizer crops uploads to a centered square and resizes them to
// Size x Size pixels, re-encoding as JPEG at the given Quality.
type Normalizer struct {
	Size    int
	Quality int
}

// NewNormalizer constructs a Normalizer with the deployment's fixed target
// resolution and encode quality.
func NewNormalizer(size, quality int) *Normalizer {
	return &Normalizer{Size: size, Quality: quality}
}

// Normalize decodes data, crops the largest centered square, resizes it to
// the target resolution, and returns a self-describing data URI. The same
// input bytes always produce the same output string.
func (n *Normalizer) Normalize(data []byte) (string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w (format: %s): %v", ErrUndecodable, format, err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return "", ErrZeroArea
	}

	// Largest centered square: side = min(width, height).
	side := width
	if height < side {
		side = height
	}
	x0 := bounds.Min.X + (width-side)/2
	y0 := bounds.Min.Y + (height-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	size := n.Size
	if size <= 0 {
		size = 200
	}

	// Drawing onto RGBA flattens alpha and palette sources to a
	// JPEG-compatible color model.
	resized := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, crop, draw.Src, nil)

	quality := n.Quality
	if quality <= 0 {
		quality = 85
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
		return "", fmt.Errorf("photo: encode: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
