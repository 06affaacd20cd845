package overlay

import (
	"image"
	"math"

	"github.com/grait/osmdroid/pkg/geo"
	"github.com/grait/osmdroid/pkg/geometry"
)

// Canvas is the drawing sink an overlay renders into. It composites an
// image under a screen transform with the given paint alpha.
type Canvas interface {
	DrawImage(img image.Image, tr geometry.ScreenTransform, alpha uint8)
}

// GroundOverlay drapes a single image over a geographic footprint. It owns
// one image and one footprint at a time and is not safe for concurrent
// mutation; callers sequence updates before the next draw.
type GroundOverlay struct {
	img          image.Image
	downscale    float64
	transparency float64
	paintAlpha   uint8
	bearing      float64

	footprint Footprint
	bounds    geo.BoundingBox

	// Image-space corner quad, lazily built and kept across draws until the
	// image changes or the two-corner path takes over.
	srcQuad *geometry.Quad
}

// New creates an empty, fully opaque overlay.
func New() *GroundOverlay {
	o := &GroundOverlay{downscale: 1}
	o.SetTransparency(0)
	return o
}

// SetImage attaches an image, downscaling it if either dimension exceeds
// MaxImageDimension. Any cached image-space quad becomes invalid.
func (o *GroundOverlay) SetImage(img image.Image) {
	o.img, o.downscale = FitImage(img, MaxImageDimension)
	o.srcQuad = nil
}

// Image returns the attached (possibly downscaled) image, or nil.
func (o *GroundOverlay) Image() image.Image {
	return o.img
}

// DownscaleFactor returns the factor applied by the last SetImage, 1.0 when
// no downscaling occurred.
func (o *GroundOverlay) DownscaleFactor() float64 {
	return o.downscale
}

// SetTransparency sets the overlay transparency as a fraction in [0,1],
// where 0 is fully opaque. The paint alpha becomes 255*(1-transparency),
// truncated and clamped to [0,255].
func (o *GroundOverlay) SetTransparency(transparency float64) {
	o.transparency = transparency
	alpha := 255 - int(transparency*255)
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 255 {
		alpha = 255
	}
	o.paintAlpha = uint8(alpha)
}

// Transparency returns the current transparency fraction.
func (o *GroundOverlay) Transparency() float64 {
	return o.transparency
}

// PaintAlpha returns the alpha the drawing sink receives.
func (o *GroundOverlay) PaintAlpha() uint8 {
	return o.paintAlpha
}

// SetBearing stores a bearing in degrees clockwise from north.
func (o *GroundOverlay) SetBearing(bearing float64) {
	o.bearing = bearing
}

// Bearing returns the stored bearing in degrees.
func (o *GroundOverlay) Bearing() float64 {
	return o.bearing
}

// SetPosition establishes the axis-aligned two-corner footprint. The given
// points are copied; any cached four-corner data is dropped.
func (o *GroundOverlay) SetPosition(topLeft, bottomRight geo.GeoPoint) {
	o.footprint = TwoCorner{TopLeft: topLeft, BottomRight: bottomRight}
	o.bounds = o.footprint.Bounds()
	o.srcQuad = nil
}

// SetCorners establishes the four-corner footprint, corners given clockwise
// starting top-left. The points are copied.
func (o *GroundOverlay) SetCorners(topLeft, topRight, bottomRight, bottomLeft geo.GeoPoint) {
	o.footprint = FourCorner{
		TopLeft:     topLeft,
		TopRight:    topRight,
		BottomRight: bottomRight,
		BottomLeft:  bottomLeft,
	}
	o.bounds = o.footprint.Bounds()
}

// SetAnchoredPosition establishes a four-corner footprint from a single
// bottom-left anchor, a ground resolution in image pixels per meter, and an
// azimuth in degrees clockwise from north. The resolution refers to the
// original image; it is corrected for any downscaling SetImage applied. The
// derived corner points become the authoritative position; the anchor-mode
// inputs are not retained.
//
// Requires an attached image for its pixel dimensions; without one this is
// a no-op.
func (o *GroundOverlay) SetAnchoredPosition(bottomLeft geo.GeoPoint, resolution, azimuthDeg float64) {
	if o.img == nil {
		return
	}
	o.srcQuad = nil

	effective := resolution / o.downscale
	azimuthRad := azimuthDeg * math.Pi / 180
	b := o.img.Bounds()

	topLeft, bottomRight, topRight := DeriveCorners(bottomLeft, b.Dx(), b.Dy(), effective, azimuthRad)
	o.footprint = FourCorner{
		TopLeft:     topLeft,
		TopRight:    topRight,
		BottomRight: bottomRight,
		BottomLeft:  bottomLeft,
	}
	o.bounds = o.footprint.Bounds()
}

// Footprint returns the current footprint, nil when unpositioned.
func (o *GroundOverlay) Footprint() Footprint {
	return o.footprint
}

// Bounds returns the axis-aligned lat/lon box of the current footprint.
func (o *GroundOverlay) Bounds() geo.BoundingBox {
	return o.bounds
}

// sourceQuad returns the image's corner quad in its own pixel space,
// building and caching it on first use.
func (o *GroundOverlay) sourceQuad() geometry.Quad {
	if o.srcQuad == nil {
		b := o.img.Bounds()
		q := geometry.RectQuad(float64(b.Dx()), float64(b.Dy()))
		o.srcQuad = &q
	}
	return *o.srcQuad
}

// Transform computes the screen transform for the current view. It returns
// false when the overlay has no image or no footprint. The transform is
// rebuilt on every call because the projection's pixel mapping is
// view-dependent.
func (o *GroundOverlay) Transform(proj Projection) (geometry.ScreenTransform, bool) {
	if o.img == nil || o.footprint == nil {
		return nil, false
	}
	return BuildTransform(o.footprint, o.sourceQuad(), proj), true
}

// Draw composites the overlay onto the canvas for the view described by
// proj. Without an image or footprint it does nothing.
func (o *GroundOverlay) Draw(c Canvas, proj Projection) {
	tr, ok := o.Transform(proj)
	if !ok {
		return
	}
	c.DrawImage(o.img, tr, o.paintAlpha)
}
