package overlay

import (
	"github.com/grait/osmdroid/pkg/geo"
	"github.com/grait/osmdroid/pkg/geometry"
)

// Projection converts geographic coordinates to screen pixel coordinates for
// the current map view. Coordinates are long-range (not wrapped to the
// visible window) so corners that fall off-screen still land where they
// belong. Implementations are only valid for the view state they were built
// from; a transform built against a stale projection is itself stale.
type Projection interface {
	PixelXFromLongitude(lon float64) int64
	PixelYFromLatitude(lat float64) int64
}

func projectPoint(proj Projection, p geo.GeoPoint) geometry.Point2D {
	return geometry.Point2D{
		X: float64(proj.PixelXFromLongitude(p.Lon)),
		Y: float64(proj.PixelYFromLatitude(p.Lat)),
	}
}

// BuildTransform computes the transform that places an image with the given
// source quad (its corners in its own pixel space) onto the screen positions
// of the footprint's corners. It is a pure function of its inputs and is
// meant to run on every draw, since the projection's pixel mapping changes
// with pan and zoom.
//
// A TwoCorner footprint yields an axis-aligned scale-and-translate affine
// transform. A FourCorner footprint yields the projective transform mapping
// the source quad onto the projected corner quad; a degenerate corner
// configuration yields a degenerate (zero) transform rather than an error.
func BuildTransform(f Footprint, src geometry.Quad, proj Projection) geometry.ScreenTransform {
	switch fp := f.(type) {
	case TwoCorner:
		topLeft := projectPoint(proj, fp.TopLeft)
		bottomRight := projectPoint(proj, fp.BottomRight)
		// src[2] is the image's (width, height) corner.
		scaleX := (bottomRight.X - topLeft.X) / src[2].X
		scaleY := (bottomRight.Y - topLeft.Y) / src[2].Y
		return geometry.Translation(topLeft.X, topLeft.Y).
			Compose(geometry.ScaleTransform(scaleX, scaleY))
	case FourCorner:
		dst := geometry.Quad{
			projectPoint(proj, fp.TopLeft),
			projectPoint(proj, fp.TopRight),
			projectPoint(proj, fp.BottomRight),
			projectPoint(proj, fp.BottomLeft),
		}
		tr, err := geometry.SolvePerspective(src, dst)
		if err != nil {
			return geometry.PerspectiveTransform{}
		}
		return tr
	}
	return geometry.Identity()
}
