package overlay

import (
	"image"

	"golang.org/x/image/draw"
)

// MaxImageDimension limits the biggest dimension of an attached image, in
// pixels. Larger images are downscaled, never rejected.
const MaxImageDimension = 5000

// FitImage downscales an image so neither dimension exceeds maxDim and
// returns the result together with the scale that was applied (1.0 when the
// image already fits).
//
// The scale is computed in two dependent steps: the width ratio first, then
// a height correction relative to the width-derived scale. For extreme
// aspect ratios this differs from taking the larger of two independent
// ratios; the dependent form is the one the rest of the system expects.
func FitImage(img image.Image, maxDim int) (image.Image, float64) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	scale := 1.0
	if w > maxDim {
		scale = float64(w) / float64(maxDim)
	}
	if float64(h)/scale > float64(maxDim) {
		scale = float64(h) / scale / float64(maxDim)
	}
	if scale == 1.0 {
		return img, 1.0
	}

	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)/scale), int(float64(h)/scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst, scale
}
