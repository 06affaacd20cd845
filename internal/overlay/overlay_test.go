package overlay

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grait/osmdroid/pkg/geo"
	"github.com/grait/osmdroid/pkg/geometry"
)

var nan = math.NaN()

// recordingCanvas captures DrawImage calls.
type recordingCanvas struct {
	calls int
	img   image.Image
	tr    geometry.ScreenTransform
	alpha uint8
}

func (c *recordingCanvas) DrawImage(img image.Image, tr geometry.ScreenTransform, alpha uint8) {
	c.calls++
	c.img = img
	c.tr = tr
	c.alpha = alpha
}

func TestDrawWithoutImageIsNoOp(t *testing.T) {
	o := New()
	o.SetPosition(geo.NewGeoPoint(1, 0), geo.NewGeoPoint(0, 1))

	canvas := &recordingCanvas{}
	o.Draw(canvas, gridProjection{pixelsPerDegree: 100})
	assert.Zero(t, canvas.calls)
}

func TestDrawWithoutFootprintIsNoOp(t *testing.T) {
	o := New()
	o.SetImage(newTestImage(10, 10))

	canvas := &recordingCanvas{}
	o.Draw(canvas, gridProjection{pixelsPerDegree: 100})
	assert.Zero(t, canvas.calls)
}

func TestDrawPassesImageAndAlpha(t *testing.T) {
	o := New()
	o.SetImage(newTestImage(10, 10))
	o.SetPosition(geo.NewGeoPoint(1, 0), geo.NewGeoPoint(0, 1))
	o.SetTransparency(0.5)

	canvas := &recordingCanvas{}
	o.Draw(canvas, gridProjection{pixelsPerDegree: 100})

	require.Equal(t, 1, canvas.calls)
	assert.Equal(t, o.Image(), canvas.img)
	assert.Equal(t, uint8(128), canvas.alpha)
	assert.NotNil(t, canvas.tr)
}

func TestTransparencyToPaintAlpha(t *testing.T) {
	cases := []struct {
		transparency float64
		alpha        uint8
	}{
		{0, 255},
		{0.5, 128},
		{1, 0},
		{0.999, 1},
		{-0.5, 255}, // clamped
		{2, 0},      // clamped
	}
	for _, tc := range cases {
		o := New()
		o.SetTransparency(tc.transparency)
		assert.Equal(t, tc.alpha, o.PaintAlpha(), "transparency %v", tc.transparency)
	}
}

func TestPositionFormsAreExclusive(t *testing.T) {
	o := New()
	o.SetImage(newTestImage(20, 10))

	o.SetCorners(
		geo.NewGeoPoint(1, 0), geo.NewGeoPoint(1, 1),
		geo.NewGeoPoint(0, 1), geo.NewGeoPoint(0, 0),
	)
	_, ok := o.Footprint().(FourCorner)
	require.True(t, ok)

	o.SetPosition(geo.NewGeoPoint(1, 0), geo.NewGeoPoint(0, 1))
	_, ok = o.Footprint().(TwoCorner)
	require.True(t, ok)

	// The two-corner form must produce the axis-aligned transform path.
	tr, drawable := o.Transform(gridProjection{pixelsPerDegree: 100})
	require.True(t, drawable)
	_, isAffine := tr.(geometry.AffineTransform)
	assert.True(t, isAffine)
}

func TestSetPositionCopiesCorners(t *testing.T) {
	o := New()
	topLeft := geo.NewGeoPoint(1, 0)
	bottomRight := geo.NewGeoPoint(0, 1)
	o.SetPosition(topLeft, bottomRight)

	topLeft.Lat = 99
	fp := o.Footprint().(TwoCorner)
	assert.Equal(t, 1.0, fp.TopLeft.Lat)
}

func TestBoundsFollowFootprint(t *testing.T) {
	o := New()
	o.SetPosition(geo.NewGeoPoint(2, -1), geo.NewGeoPoint(1, 3))
	assert.Equal(t, geo.NewBoundingBox(2, 3, 1, -1), o.Bounds())

	o.SetCorners(
		geo.NewGeoPoint(5, 0), geo.NewGeoPoint(6, 2),
		geo.NewGeoPoint(4, 3), geo.NewGeoPoint(3, 1),
	)
	assert.Equal(t, geo.NewBoundingBox(6, 3, 3, 0), o.Bounds())
}

func TestSetAnchoredPositionDerivesFourCorners(t *testing.T) {
	o := New()
	o.SetImage(newTestImage(1000, 500))

	anchor := geo.NewGeoPoint(0, 0)
	o.SetAnchoredPosition(anchor, 10, 0)

	fp, ok := o.Footprint().(FourCorner)
	require.True(t, ok)
	assert.Equal(t, anchor, fp.BottomLeft)

	// No downscaling happened, so the derivation matches a direct call.
	topLeft, bottomRight, topRight := DeriveCorners(anchor, 1000, 500, 10, 0)
	assert.Equal(t, topLeft, fp.TopLeft)
	assert.Equal(t, bottomRight, fp.BottomRight)
	assert.Equal(t, topRight, fp.TopRight)
}

func TestSetAnchoredPositionWithoutImage(t *testing.T) {
	o := New()
	o.SetAnchoredPosition(geo.NewGeoPoint(0, 0), 10, 0)
	assert.Nil(t, o.Footprint())
}

func TestSourceQuadTracksImage(t *testing.T) {
	proj := gridProjection{pixelsPerDegree: 100000}
	o := New()
	o.SetImage(newTestImage(100, 50))
	o.SetCorners(
		geo.NewGeoPoint(0.001, 0), geo.NewGeoPoint(0.001, 0.002),
		geo.NewGeoPoint(0, 0.002), geo.NewGeoPoint(0, 0),
	)

	tr, ok := o.Transform(proj)
	require.True(t, ok)
	first := tr.Apply(geometry.Point2D{X: 100, Y: 50})

	// Swapping the image must invalidate the cached pixel quad: the new
	// bottom-right pixel corner lands where the old one did.
	o.SetImage(newTestImage(200, 100))
	tr, ok = o.Transform(proj)
	require.True(t, ok)
	second := tr.Apply(geometry.Point2D{X: 200, Y: 100})

	assert.InDelta(t, first.X, second.X, 1e-6)
	assert.InDelta(t, first.Y, second.Y, 1e-6)
}

func TestValidateFootprint(t *testing.T) {
	assert.Error(t, ValidateFootprint(nil))
	assert.NoError(t, ValidateFootprint(TwoCorner{
		TopLeft:     geo.NewGeoPoint(1, 0),
		BottomRight: geo.NewGeoPoint(0, 1),
	}))
	assert.Error(t, ValidateFootprint(TwoCorner{
		TopLeft:     geo.NewGeoPoint(nan, 0),
		BottomRight: geo.NewGeoPoint(0, 1),
	}))

	// With several bad corners the first one in corner order is reported.
	err := ValidateFootprint(FourCorner{
		TopLeft:     geo.NewGeoPoint(0, 0),
		TopRight:    geo.NewGeoPoint(nan, 0),
		BottomRight: geo.NewGeoPoint(0, nan),
		BottomLeft:  geo.NewGeoPoint(nan, nan),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "topRight")
}

func TestValidateAnchor(t *testing.T) {
	assert.NoError(t, ValidateAnchor(geo.NewGeoPoint(0, 0), 10))
	assert.Error(t, ValidateAnchor(geo.NewGeoPoint(0, 0), 0))
	assert.Error(t, ValidateAnchor(geo.NewGeoPoint(0, 0), -1))
	assert.Error(t, ValidateAnchor(geo.NewGeoPoint(nan, 0), 10))
}
