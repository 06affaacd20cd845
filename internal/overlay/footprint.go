// Package overlay places a raster image on a map by associating its corners
// with geographic positions and producing the screen-space transform needed
// to draw it at the current view.
package overlay

import (
	"github.com/grait/osmdroid/pkg/geo"
)

// Footprint is the geographic region an image is draped onto. It has exactly
// two shapes: an axis-aligned pair of opposite corners, or a full
// quadrilateral. The two shapes are mutually exclusive per overlay.
type Footprint interface {
	// Bounds returns the axis-aligned lat/lon box enclosing the footprint,
	// used by spatial indexing and culling.
	Bounds() geo.BoundingBox

	sealed()
}

// TwoCorner is the axis-aligned footprint shape: only the top-left and
// bottom-right corners are known, the other two are implied. It cannot
// represent rotation.
type TwoCorner struct {
	TopLeft     geo.GeoPoint
	BottomRight geo.GeoPoint
}

func (f TwoCorner) sealed() {}

// Bounds returns the lat/lon box spanned by the two corners.
func (f TwoCorner) Bounds() geo.BoundingBox {
	return geo.BoundsOf(f.TopLeft, f.BottomRight)
}

// FourCorner is the general footprint shape: all four corners are known, in
// clockwise order starting top-left, describing a possibly rotated or
// sheared quadrilateral.
type FourCorner struct {
	TopLeft     geo.GeoPoint
	TopRight    geo.GeoPoint
	BottomRight geo.GeoPoint
	BottomLeft  geo.GeoPoint
}

func (f FourCorner) sealed() {}

// Bounds returns the lat/lon box enclosing all four corners.
func (f FourCorner) Bounds() geo.BoundingBox {
	return geo.BoundsOf(f.TopLeft, f.TopRight, f.BottomRight, f.BottomLeft)
}
