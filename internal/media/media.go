// Package media turns an original photo into its two derivative renditions
// and measures its perceptual brightness.
package media

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/webp"
)

const (
	// Rendition bounds in pixels. The bound caps the longest dimension;
	// images already inside it are never upscaled.
	ThumbBound   = 600
	PreviewBound = 1800

	thumbQuality   = 80
	previewQuality = 85
)

// ContentType and Ext describe the rendition encoding. Both renditions are
// re-encoded, which also strips every embedded metadata block.
const (
	ContentType = "image/jpeg"
	Ext         = ".jpg"
)

var ErrInvalidImage = errors.New("invalid image")

// Result holds the derivatives of one photo.
type Result struct {
	Thumb     []byte
	Preview   []byte
	Width     int // original pixel dimensions
	Height    int
	Luminance float64
}

// Transcode decodes raw image bytes and produces both renditions plus the
// luminance scalar. EXIF orientation is applied before resizing since the
// re-encode drops the orientation tag along with the rest of the metadata.
func Transcode(data []byte) (*Result, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrInvalidImage
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrInvalidImage
	}

	thumb, err := encode(fit(img, ThumbBound), thumbQuality)
	if err != nil {
		return nil, err
	}
	preview, err := encode(fit(img, PreviewBound), previewQuality)
	if err != nil {
		return nil, err
	}

	return &Result{
		Thumb:     thumb,
		Preview:   preview,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Luminance: Luminance(img),
	}, nil
}

// fit scales img down so neither dimension exceeds bound. Smaller images are
// passed through untouched.
func fit(img image.Image, bound int) image.Image {
	b := img.Bounds()
	if b.Dx() <= bound && b.Dy() <= bound {
		return img
	}
	return imaging.Fit(img, bound, bound, imaging.Lanczos)
}

func encode(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
