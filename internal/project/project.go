// Package project provides overlay project file handling: JSON descriptors
// listing georeferenced images and where they sit on the map.
package project

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	_ "golang.org/x/image/tiff"

	"github.com/grait/osmdroid/internal/overlay"
	"github.com/grait/osmdroid/pkg/geo"
)

// File represents an overlay project file (.overlays.json).
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	Overlays []Descriptor `json:"overlays"`
}

// Descriptor describes one ground overlay. Exactly one position form must
// be present: all four corners, the top-left/bottom-right pair, or an
// anchor placement.
type Descriptor struct {
	// Image path, relative to the project file unless absolute.
	ImagePath string `json:"image"`

	Transparency float64 `json:"transparency,omitempty"`
	Bearing      float64 `json:"bearing,omitempty"`

	TopLeft     *geo.GeoPoint `json:"top_left,omitempty"`
	TopRight    *geo.GeoPoint `json:"top_right,omitempty"`
	BottomRight *geo.GeoPoint `json:"bottom_right,omitempty"`
	BottomLeft  *geo.GeoPoint `json:"bottom_left,omitempty"`

	Anchor *AnchorPlacement `json:"anchor,omitempty"`
}

// AnchorPlacement positions an overlay from a single bottom-left point, a
// ground resolution in image pixels per meter, and an azimuth in degrees
// clockwise from north.
type AnchorPlacement struct {
	BottomLeft geo.GeoPoint `json:"bottom_left"`
	Resolution float64      `json:"resolution"`
	AzimuthDeg float64      `json:"azimuth"`
}

// New creates a new empty project.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:  1,
		Name:     name,
		Created:  now,
		Modified: now,
	}
}

// Load loads a project from a file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadImage decodes an image from disk. PNG, JPEG and TIFF are supported.
func LoadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// resolve returns the absolute path of an image referenced by a project at
// projectPath.
func resolve(projectPath, imagePath string) string {
	if filepath.IsAbs(imagePath) {
		return imagePath
	}
	return filepath.Join(filepath.Dir(projectPath), imagePath)
}

// Build materializes the project's descriptors into positioned overlays.
// projectPath anchors relative image paths. Descriptors with missing or
// ambiguous positions, unreadable images, or non-finite coordinates fail
// with their index in the error.
func (p *File) Build(projectPath string) ([]*overlay.GroundOverlay, error) {
	overlays := make([]*overlay.GroundOverlay, 0, len(p.Overlays))
	for i, d := range p.Overlays {
		o, err := d.build(projectPath)
		if err != nil {
			return nil, fmt.Errorf("overlay %d: %w", i, err)
		}
		overlays = append(overlays, o)
	}
	return overlays, nil
}

func (d *Descriptor) build(projectPath string) (*overlay.GroundOverlay, error) {
	img, err := LoadImage(resolve(projectPath, d.ImagePath))
	if err != nil {
		return nil, err
	}

	o := overlay.New()
	o.SetImage(img)
	o.SetTransparency(d.Transparency)
	o.SetBearing(d.Bearing)

	hasCorner := d.TopLeft != nil || d.TopRight != nil || d.BottomRight != nil || d.BottomLeft != nil

	switch {
	case d.Anchor != nil && hasCorner:
		return nil, fmt.Errorf("%s: anchor and corners are mutually exclusive", d.ImagePath)

	case d.Anchor != nil:
		if err := overlay.ValidateAnchor(d.Anchor.BottomLeft, d.Anchor.Resolution); err != nil {
			return nil, err
		}
		o.SetAnchoredPosition(d.Anchor.BottomLeft, d.Anchor.Resolution, d.Anchor.AzimuthDeg)

	case d.TopLeft != nil && d.TopRight != nil && d.BottomRight != nil && d.BottomLeft != nil:
		fp := overlay.FourCorner{
			TopLeft:     *d.TopLeft,
			TopRight:    *d.TopRight,
			BottomRight: *d.BottomRight,
			BottomLeft:  *d.BottomLeft,
		}
		if err := overlay.ValidateFootprint(fp); err != nil {
			return nil, err
		}
		o.SetCorners(fp.TopLeft, fp.TopRight, fp.BottomRight, fp.BottomLeft)

	case d.TopLeft != nil && d.BottomRight != nil && d.TopRight == nil && d.BottomLeft == nil:
		fp := overlay.TwoCorner{TopLeft: *d.TopLeft, BottomRight: *d.BottomRight}
		if err := overlay.ValidateFootprint(fp); err != nil {
			return nil, err
		}
		o.SetPosition(fp.TopLeft, fp.BottomRight)

	default:
		return nil, fmt.Errorf("%s: need four corners, a top-left/bottom-right pair, or an anchor", d.ImagePath)
	}

	return o, nil
}
