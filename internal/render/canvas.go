// Package render provides a software drawing sink for overlays: it
// composites images under screen transforms onto an RGBA canvas.
package render

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/grait/osmdroid/pkg/geometry"
)

// Canvas is an in-memory RGBA surface overlays draw into.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas creates a canvas of the given size filled with the background
// color.
func NewCanvas(width, height int, background color.Color) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)
	return &Canvas{img: img}
}

// Image returns the canvas surface.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// DrawImage composites src under the screen transform with the given paint
// alpha (255 = opaque). Affine transforms take the interpolated fast path;
// projective transforms fall back to inverse-mapped sampling.
func (c *Canvas) DrawImage(src image.Image, tr geometry.ScreenTransform, alpha uint8) {
	if alpha == 0 {
		return
	}
	switch t := tr.(type) {
	case geometry.AffineTransform:
		c.drawAffine(src, t, alpha)
	case geometry.PerspectiveTransform:
		if t.IsAffine() {
			c.drawAffine(src, t.Affine(), alpha)
		} else {
			c.drawPerspective(src, t, alpha)
		}
	}
}

func (c *Canvas) drawAffine(src image.Image, t geometry.AffineTransform, alpha uint8) {
	s2d := f64.Aff3{t.A, t.B, t.TX, t.C, t.D, t.TY}
	var opts *draw.Options
	if alpha < 255 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: alpha})}
	}
	draw.BiLinear.Transform(c.img, s2d, src, src.Bounds(), draw.Over, opts)
}

// drawPerspective walks the destination pixels covered by the transformed
// quad and pulls each one back through the inverse transform into source
// space.
func (c *Canvas) drawPerspective(src image.Image, t geometry.PerspectiveTransform, alpha uint8) {
	bounds := src.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	dstQuad := geometry.Quad{
		t.Apply(geometry.Point2D{X: 0, Y: 0}),
		t.Apply(geometry.Point2D{X: w, Y: 0}),
		t.Apply(geometry.Point2D{X: w, Y: h}),
		t.Apply(geometry.Point2D{X: 0, Y: h}),
	}
	region := dstQuad.BoundingRect()

	x0 := int(math.Floor(region.X))
	y0 := int(math.Floor(region.Y))
	x1 := int(math.Ceil(region.X + region.Width))
	y1 := int(math.Ceil(region.Y + region.Height))

	cb := c.img.Bounds()
	if x0 < cb.Min.X {
		x0 = cb.Min.X
	}
	if y0 < cb.Min.Y {
		y0 = cb.Min.Y
	}
	if x1 > cb.Max.X {
		x1 = cb.Max.X
	}
	if y1 > cb.Max.Y {
		y1 = cb.Max.Y
	}

	inv := t.Inverse()
	opacity := float64(alpha) / 255

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			sp := inv.Apply(geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			if sp.X < 0 || sp.X >= w || sp.Y < 0 || sp.Y >= h {
				continue
			}
			sr, sg, sb, sa := sampleBilinear(src, sp.X, sp.Y)
			c.blendOver(x, y, sr*opacity, sg*opacity, sb*opacity, sa*opacity)
		}
	}
}

// sampleBilinear interpolates the four source pixels around (fx, fy),
// returning alpha-premultiplied channel values in [0,1].
func sampleBilinear(src image.Image, fx, fy float64) (r, g, b, a float64) {
	bounds := src.Bounds()

	fx -= 0.5
	fy -= 0.5
	ix := math.Floor(fx)
	iy := math.Floor(fy)
	tx := fx - ix
	ty := fy - iy

	for dy := 0; dy <= 1; dy++ {
		for dx := 0; dx <= 1; dx++ {
			wx := tx
			if dx == 0 {
				wx = 1 - tx
			}
			wy := ty
			if dy == 0 {
				wy = 1 - ty
			}
			weight := wx * wy
			if weight == 0 {
				continue
			}

			px := clampInt(int(ix)+dx, 0, bounds.Dx()-1)
			py := clampInt(int(iy)+dy, 0, bounds.Dy()-1)
			cr, cg, cb, ca := src.At(bounds.Min.X+px, bounds.Min.Y+py).RGBA()
			r += weight * float64(cr) / 65535
			g += weight * float64(cg) / 65535
			b += weight * float64(cb) / 65535
			a += weight * float64(ca) / 65535
		}
	}
	return r, g, b, a
}

// blendOver source-over composites a single pixel. All channels are
// alpha-premultiplied values in [0,1], as are the canvas pixels it reads
// and writes.
func (c *Canvas) blendOver(x, y int, sr, sg, sb, sa float64) {
	if sa <= 0 {
		return
	}
	dr, dg, db, da := c.img.At(x, y).RGBA()
	df := [4]float64{
		float64(dr) / 65535, float64(dg) / 65535,
		float64(db) / 65535, float64(da) / 65535,
	}

	outR := sr + df[0]*(1-sa)
	outG := sg + df[1]*(1-sa)
	outB := sb + df[2]*(1-sa)
	outA := sa + df[3]*(1-sa)

	c.img.Set(x, y, color.RGBA{
		R: uint8(clampFloat(outR, 0, 1) * 255),
		G: uint8(clampFloat(outG, 0, 1) * 255),
		B: uint8(clampFloat(outB, 0, 1) * 255),
		A: uint8(clampFloat(outA, 0, 1) * 255),
	})
}

func clampInt(x, min, max int) int {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

func clampFloat(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
