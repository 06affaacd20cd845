// Package geo provides geographic value types: points in degrees of
// latitude/longitude and axis-aligned bounding boxes derived from them.
package geo

import "math"

// GeoPoint is a geographic position in degrees. It is a value type; callers
// that need an independent copy get one by plain assignment.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewGeoPoint creates a new GeoPoint.
func NewGeoPoint(lat, lon float64) GeoPoint {
	return GeoPoint{Lat: lat, Lon: lon}
}

// IsFinite reports whether both coordinates are finite numbers.
func (p GeoPoint) IsFinite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lon) && !math.IsInf(p.Lon, 0)
}

// BoundingBox is an axis-aligned latitude/longitude rectangle.
type BoundingBox struct {
	North float64 `json:"north"`
	East  float64 `json:"east"`
	South float64 `json:"south"`
	West  float64 `json:"west"`
}

// NewBoundingBox creates a bounding box from its four edges.
func NewBoundingBox(north, east, south, west float64) BoundingBox {
	return BoundingBox{North: north, East: east, South: south, West: west}
}

// BoundsOf computes the bounding box of a set of points.
func BoundsOf(points ...GeoPoint) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{
		North: points[0].Lat, South: points[0].Lat,
		East: points[0].Lon, West: points[0].Lon,
	}
	for _, p := range points[1:] {
		b.North = math.Max(b.North, p.Lat)
		b.South = math.Min(b.South, p.Lat)
		b.East = math.Max(b.East, p.Lon)
		b.West = math.Min(b.West, p.Lon)
	}
	return b
}

// Center returns the center of the box.
func (b BoundingBox) Center() GeoPoint {
	return GeoPoint{
		Lat: (b.North + b.South) / 2,
		Lon: (b.East + b.West) / 2,
	}
}

// Contains returns true if the point lies inside the box.
func (b BoundingBox) Contains(p GeoPoint) bool {
	return p.Lat <= b.North && p.Lat >= b.South &&
		p.Lon <= b.East && p.Lon >= b.West
}

// Intersects returns true if the two boxes overlap.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.South <= other.North && b.North >= other.South &&
		b.West <= other.East && b.East >= other.West
}

// LatSpan returns the north-south extent in degrees.
func (b BoundingBox) LatSpan() float64 { return b.North - b.South }

// LonSpan returns the east-west extent in degrees.
func (b BoundingBox) LonSpan() float64 { return b.East - b.West }
