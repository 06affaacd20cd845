package project

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grait/osmdroid/internal/overlay"
	"github.com/grait/osmdroid/pkg/geo"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func geoPtr(lat, lon float64) *geo.GeoPoint {
	p := geo.NewGeoPoint(lat, lon)
	return &p
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.overlays.json")

	p := New("site survey")
	p.Overlays = append(p.Overlays, Descriptor{
		ImagePath:    "ortho.png",
		Transparency: 0.25,
		TopLeft:      geoPtr(1, 0),
		BottomRight:  geoPtr(0, 1),
	})
	require.NoError(t, p.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "site survey", loaded.Name)
	require.Len(t, loaded.Overlays, 1)
	assert.Equal(t, 0.25, loaded.Overlays[0].Transparency)
	assert.Equal(t, geoPtr(1, 0), loaded.Overlays[0].TopLeft)
	assert.Nil(t, loaded.Overlays[0].TopRight)
}

func TestBuildTwoCorner(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "ortho.png", 8, 4)
	projPath := filepath.Join(dir, "p.overlays.json")

	p := New("p")
	p.Overlays = []Descriptor{{
		ImagePath:    "ortho.png",
		Transparency: 0.5,
		TopLeft:      geoPtr(1, 0),
		BottomRight:  geoPtr(0, 1),
	}}

	overlays, err := p.Build(projPath)
	require.NoError(t, err)
	require.Len(t, overlays, 1)

	o := overlays[0]
	assert.Equal(t, uint8(128), o.PaintAlpha())
	_, ok := o.Footprint().(overlay.TwoCorner)
	assert.True(t, ok)
	assert.Equal(t, 8, o.Image().Bounds().Dx())
}

func TestBuildFourCorner(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "ortho.png", 8, 4)
	projPath := filepath.Join(dir, "p.overlays.json")

	p := New("p")
	p.Overlays = []Descriptor{{
		ImagePath:   "ortho.png",
		TopLeft:     geoPtr(1, 0),
		TopRight:    geoPtr(1.1, 1),
		BottomRight: geoPtr(0.1, 1.1),
		BottomLeft:  geoPtr(0, 0.1),
	}}

	overlays, err := p.Build(projPath)
	require.NoError(t, err)
	_, ok := overlays[0].Footprint().(overlay.FourCorner)
	assert.True(t, ok)
}

func TestBuildAnchor(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "ortho.png", 8, 4)
	projPath := filepath.Join(dir, "p.overlays.json")

	p := New("p")
	p.Overlays = []Descriptor{{
		ImagePath: "ortho.png",
		Anchor: &AnchorPlacement{
			BottomLeft: geo.NewGeoPoint(0, 0),
			Resolution: 10,
		},
	}}

	overlays, err := p.Build(projPath)
	require.NoError(t, err)

	fp, ok := overlays[0].Footprint().(overlay.FourCorner)
	require.True(t, ok)
	assert.Equal(t, geo.NewGeoPoint(0, 0), fp.BottomLeft)
	assert.Greater(t, fp.TopLeft.Lat, 0.0)
}

func TestBuildRejectsAmbiguousPosition(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "ortho.png", 8, 4)
	projPath := filepath.Join(dir, "p.overlays.json")

	p := New("p")
	p.Overlays = []Descriptor{{
		ImagePath: "ortho.png",
		TopLeft:   geoPtr(1, 0), // missing its opposite corner
	}}

	_, err := p.Build(projPath)
	assert.Error(t, err)
}

func TestBuildRejectsAnchorWithCorners(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "ortho.png", 8, 4)
	projPath := filepath.Join(dir, "p.overlays.json")

	p := New("p")
	p.Overlays = []Descriptor{{
		ImagePath:   "ortho.png",
		TopLeft:     geoPtr(1, 0),
		BottomRight: geoPtr(0, 1),
		Anchor: &AnchorPlacement{
			BottomLeft: geo.NewGeoPoint(0, 0),
			Resolution: 10,
		},
	}}

	_, err := p.Build(projPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestBuildRejectsBadAnchor(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "ortho.png", 8, 4)
	projPath := filepath.Join(dir, "p.overlays.json")

	p := New("p")
	p.Overlays = []Descriptor{{
		ImagePath: "ortho.png",
		Anchor: &AnchorPlacement{
			BottomLeft: geo.NewGeoPoint(0, 0),
			Resolution: 0,
		},
	}}

	_, err := p.Build(projPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "resolution")
}

func TestBuildMissingImage(t *testing.T) {
	dir := t.TempDir()
	projPath := filepath.Join(dir, "p.overlays.json")

	p := New("p")
	p.Overlays = []Descriptor{{
		ImagePath:   "nope.png",
		TopLeft:     geoPtr(1, 0),
		BottomRight: geoPtr(0, 1),
	}}

	_, err := p.Build(projPath)
	assert.Error(t, err)
}
