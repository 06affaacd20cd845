package overlay

import (
	"fmt"

	"github.com/grait/osmdroid/pkg/geo"
)

// The positioning core never rejects input: degenerate parameters flow
// through as degenerate numbers. Callers that want early failure instead,
// such as when loading overlay descriptions from files, run these checks
// before positioning.

// ValidateFootprint reports non-finite corner coordinates.
func ValidateFootprint(f Footprint) error {
	switch fp := f.(type) {
	case TwoCorner:
		return checkCorners([]namedCorner{
			{"topLeft", fp.TopLeft},
			{"bottomRight", fp.BottomRight},
		})
	case FourCorner:
		return checkCorners([]namedCorner{
			{"topLeft", fp.TopLeft},
			{"topRight", fp.TopRight},
			{"bottomRight", fp.BottomRight},
			{"bottomLeft", fp.BottomLeft},
		})
	case nil:
		return fmt.Errorf("no footprint set")
	}
	return nil
}

// ValidateAnchor reports non-finite anchor coordinates or a non-positive
// ground resolution.
func ValidateAnchor(anchor geo.GeoPoint, resolution float64) error {
	if !anchor.IsFinite() {
		return fmt.Errorf("anchor (%v, %v) is not finite", anchor.Lat, anchor.Lon)
	}
	if !(resolution > 0) {
		return fmt.Errorf("ground resolution %v must be positive", resolution)
	}
	return nil
}

type namedCorner struct {
	name  string
	point geo.GeoPoint
}

// checkCorners reports the first non-finite corner in declaration order.
func checkCorners(corners []namedCorner) error {
	for _, c := range corners {
		if !c.point.IsFinite() {
			return fmt.Errorf("corner %s (%v, %v) is not finite", c.name, c.point.Lat, c.point.Lon)
		}
	}
	return nil
}
