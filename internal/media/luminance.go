package media

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// The gallery interleaves bright and dark frames, so every entry carries a
// brightness scalar: the average CIE L* over a small downsample of the image.
// 0 is black, 100 is diffuse white.

const lumaGrid = 50

// Luminance computes the average perceptual lightness of img, rounded to one
// decimal. The image is downsampled to at most lumaGrid x lumaGrid
// (aspect-preserving) before sampling; alpha is ignored.
func Luminance(img image.Image) float64 {
	b := img.Bounds()
	if b.Dx() > lumaGrid || b.Dy() > lumaGrid {
		img = imaging.Fit(img, lumaGrid, lumaGrid, imaging.Box)
		b = img.Bounds()
	}

	var sum float64
	var n int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			// The NRGBA model un-premultiplies, so alpha never darkens
			// the sample.
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			sum += lstar(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}

// lstar converts one gamma-encoded sRGB sample to CIE L*.
func lstar(r, g, b float64) float64 {
	rl := srgbToLinear(r)
	gl := srgbToLinear(g)
	bl := srgbToLinear(b)

	// sRGB D65 linear RGB -> XYZ. Only Y feeds L*, but the full matrix is
	// kept so the conversion matches the published transform exactly.
	y := 0.2126729*rl + 0.7151522*gl + 0.0721750*bl

	// XYZ -> L*a*b* lightness, reference white Yn = 1.
	if y > 0.008856 {
		return 116*math.Cbrt(y) - 16
	}
	return 903.3 * y
}

// srgbToLinear is the piecewise inverse sRGB transfer function.
func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
