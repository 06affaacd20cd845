package overlay

import (
	"math"

	"github.com/grait/osmdroid/pkg/geo"
)

// WGS84 ellipsoid radii, meters.
const (
	radiusEquator = 6378137.0
	radiusPoles   = 6356752.314
)

// earthRadiusAt returns the ellipsoid radius at a latitude given in radians.
func earthRadiusAt(latRad float64) float64 {
	cosLat := math.Cos(latRad)
	sinLat := math.Sin(latRad)
	return math.Sqrt(radiusEquator*radiusEquator*cosLat*cosLat +
		radiusPoles*radiusPoles*sinLat*sinLat)
}

// DeriveCorners computes the remaining corners of an image footprint whose
// bottom-left corner sits at anchor. The image covers widthPx x heightPx
// pixels at resolution pixels per meter, rotated clockwise from north by
// azimuthRad.
//
// Meter offsets are converted to degree offsets on a local tangent plane,
// with the ellipsoid radius and the longitude compression both evaluated at
// the anchor latitude. That keeps the math cheap and is accurate enough for
// modest footprints; it is not geodesy.
//
// A zero resolution yields coincident (degenerate) corners; inputs are not
// validated here.
func DeriveCorners(anchor geo.GeoPoint, widthPx, heightPx int, resolution, azimuthRad float64) (topLeft, bottomRight, topRight geo.GeoPoint) {
	latRad := anchor.Lat * math.Pi / 180
	radius := earthRadiusAt(latRad)

	heightMeters := float64(heightPx) / resolution
	widthMeters := float64(widthPx) / resolution

	// Displacement from bottom-left to top-left.
	dxHeight := math.Sin(azimuthRad) * heightMeters
	dyHeight := math.Cos(azimuthRad) * heightMeters
	dLonHeight := 360 * dxHeight / (2 * math.Pi * radius * math.Cos(latRad))
	dLatHeight := 360 * dyHeight / (2 * math.Pi * radius)

	topLeft = geo.GeoPoint{
		Lat: anchor.Lat + dLatHeight,
		Lon: anchor.Lon + dLonHeight,
	}

	// Displacement from bottom-left to bottom-right.
	dxWidth := math.Cos(azimuthRad) * widthMeters
	dyWidth := -math.Sin(azimuthRad) * widthMeters
	dLonWidth := 360 * dxWidth / (2 * math.Pi * radius * math.Cos(latRad))
	dLatWidth := 360 * dyWidth / (2 * math.Pi * radius)

	bottomRight = geo.GeoPoint{
		Lat: anchor.Lat + dLatWidth,
		Lon: anchor.Lon + dLonWidth,
	}

	topRight = geo.GeoPoint{
		Lat: bottomRight.Lat + dLatHeight,
		Lon: bottomRight.Lon + dLonHeight,
	}
	return topLeft, bottomRight, topRight
}
