// Package projection implements the web-mercator pixel mapping a map view
// exposes to overlays: longitude/latitude in, absolute screen pixels out.
package projection

import (
	"math"

	"github.com/grait/osmdroid/pkg/geo"
)

// MaxLatitude is the mercator latitude cutoff; latitudes beyond it are
// clamped before projecting.
const MaxLatitude = 85.05112878

const tileSize = 256

// View is a snapshot of a map view: a center, a zoom level and a canvas
// size in pixels. It satisfies overlay.Projection. Pixel coordinates are
// long-range: points outside the canvas project to coordinates outside
// [0,width)x[0,height) instead of wrapping.
//
// A View is immutable; pan or zoom by building a new one.
type View struct {
	center  geo.GeoPoint
	zoom    float64
	width   int
	height  int
	mapSize float64
	originX float64
	originY float64
}

// NewView creates a view of width x height pixels centered on center at the
// given (possibly fractional) zoom level.
func NewView(center geo.GeoPoint, zoom float64, width, height int) *View {
	v := &View{
		center:  center,
		zoom:    zoom,
		width:   width,
		height:  height,
		mapSize: tileSize * math.Exp2(zoom),
	}
	v.originX = v.mercatorX(center.Lon) - float64(width)/2
	v.originY = v.mercatorY(center.Lat) - float64(height)/2
	return v
}

// Center returns the view center.
func (v *View) Center() geo.GeoPoint { return v.center }

// Zoom returns the zoom level.
func (v *View) Zoom() float64 { return v.zoom }

// Size returns the canvas size in pixels.
func (v *View) Size() (width, height int) { return v.width, v.height }

// mercatorX returns the absolute mercator pixel X of a longitude at this
// view's zoom.
func (v *View) mercatorX(lon float64) float64 {
	return (lon + 180) / 360 * v.mapSize
}

// mercatorY returns the absolute mercator pixel Y of a latitude at this
// view's zoom, clamping beyond the mercator cutoff.
func (v *View) mercatorY(lat float64) float64 {
	lat = math.Max(-MaxLatitude, math.Min(MaxLatitude, lat))
	sinLat := math.Sin(lat * math.Pi / 180)
	return (0.5 - math.Log((1+sinLat)/(1-sinLat))/(4*math.Pi)) * v.mapSize
}

// PixelXFromLongitude returns the screen pixel X of a longitude.
func (v *View) PixelXFromLongitude(lon float64) int64 {
	return int64(math.Round(v.mercatorX(lon) - v.originX))
}

// PixelYFromLatitude returns the screen pixel Y of a latitude.
func (v *View) PixelYFromLatitude(lat float64) int64 {
	return int64(math.Round(v.mercatorY(lat) - v.originY))
}

// LongitudeFromPixelX inverts PixelXFromLongitude.
func (v *View) LongitudeFromPixelX(x float64) float64 {
	return (x+v.originX)/v.mapSize*360 - 180
}

// LatitudeFromPixelY inverts PixelYFromLatitude.
func (v *View) LatitudeFromPixelY(y float64) float64 {
	n := math.Pi * (1 - 2*(y+v.originY)/v.mapSize)
	return 180 / math.Pi * math.Atan(math.Sinh(n))
}

// Bounds returns the lat/lon box visible in the view, used to cull
// overlays before drawing.
func (v *View) Bounds() geo.BoundingBox {
	return geo.NewBoundingBox(
		v.LatitudeFromPixelY(0),
		v.LongitudeFromPixelX(float64(v.width)),
		v.LatitudeFromPixelY(float64(v.height)),
		v.LongitudeFromPixelX(0),
	)
}
