// Command groundoverlay renders georeferenced image overlays onto a
// web-mercator map view and writes the result as PNG.
package main

import (
	"fmt"
	"image/color"
	"image/png"
	"log"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/grait/osmdroid/internal/index"
	"github.com/grait/osmdroid/internal/overlay"
	"github.com/grait/osmdroid/internal/project"
	"github.com/grait/osmdroid/internal/projection"
	"github.com/grait/osmdroid/internal/render"
	"github.com/grait/osmdroid/pkg/geo"
)

var rootCmd = &cobra.Command{
	Use:   "groundoverlay",
	Short: "Render georeferenced image overlays onto a map view",
}

var renderCmd = &cobra.Command{
	Use:   "render <project-file>",
	Short: "Render a project's overlays to a PNG",
	Long: `Load an overlay project file, position every overlay, cull against the
requested view and composite the visible ones into a PNG.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var cornersCmd = &cobra.Command{
	Use:   "corners",
	Short: "Derive footprint corners from an anchor placement",
	Long: `Compute the geographic corners of an image footprint from its bottom-left
anchor, ground resolution (pixels per meter) and azimuth, and print them.`,
	RunE: runCorners,
}

var (
	outPath   string
	centerLat float64
	centerLon float64
	zoom      float64
	width     int
	height    int

	anchorLat  float64
	anchorLon  float64
	imgWidth   int
	imgHeight  int
	resolution float64
	azimuthDeg float64
)

func init() {
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "map.png", "output PNG path")
	renderCmd.Flags().Float64Var(&centerLat, "center-lat", math.NaN(), "view center latitude (default: overlay bounds center)")
	renderCmd.Flags().Float64Var(&centerLon, "center-lon", math.NaN(), "view center longitude (default: overlay bounds center)")
	renderCmd.Flags().Float64Var(&zoom, "zoom", 15, "zoom level, may be fractional")
	renderCmd.Flags().IntVar(&width, "width", 1024, "canvas width in pixels")
	renderCmd.Flags().IntVar(&height, "height", 768, "canvas height in pixels")

	cornersCmd.Flags().Float64Var(&anchorLat, "lat", 0, "anchor (bottom-left) latitude")
	cornersCmd.Flags().Float64Var(&anchorLon, "lon", 0, "anchor (bottom-left) longitude")
	cornersCmd.Flags().IntVar(&imgWidth, "img-width", 0, "image width in pixels")
	cornersCmd.Flags().IntVar(&imgHeight, "img-height", 0, "image height in pixels")
	cornersCmd.Flags().Float64Var(&resolution, "resolution", 1, "ground resolution in pixels per meter")
	cornersCmd.Flags().Float64Var(&azimuthDeg, "azimuth", 0, "rotation in degrees clockwise from north")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(cornersCmd)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	projectPath := args[0]

	proj, err := project.Load(projectPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", projectPath, err)
	}
	log.Printf("Loaded project %q with %d overlays", proj.Name, len(proj.Overlays))

	overlays, err := proj.Build(projectPath)
	if err != nil {
		return err
	}

	idx := index.NewIndex()
	var union geo.BoundingBox
	for i, o := range overlays {
		if err := idx.Insert(o); err != nil {
			return fmt.Errorf("overlay %d: %w", i, err)
		}
		if i == 0 {
			union = o.Bounds()
		} else {
			union = geo.NewBoundingBox(
				math.Max(union.North, o.Bounds().North),
				math.Max(union.East, o.Bounds().East),
				math.Min(union.South, o.Bounds().South),
				math.Min(union.West, o.Bounds().West),
			)
		}
	}

	center := geo.NewGeoPoint(centerLat, centerLon)
	if math.IsNaN(centerLat) || math.IsNaN(centerLon) {
		if len(overlays) == 0 {
			return fmt.Errorf("project has no overlays and no view center was given")
		}
		center = union.Center()
		log.Printf("Centering view on overlay bounds: (%.6f, %.6f)", center.Lat, center.Lon)
	}

	view := projection.NewView(center, zoom, width, height)
	visible := idx.Visible(view.Bounds())
	log.Printf("%d of %d overlays visible at zoom %.2f", len(visible), len(overlays), zoom)

	canvas := render.NewCanvas(width, height, color.RGBA{40, 40, 40, 255})
	for _, o := range visible {
		o.Draw(canvas, view)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, canvas.Image()); err != nil {
		return fmt.Errorf("encoding %s: %w", outPath, err)
	}
	log.Printf("Wrote %dx%d render to %s", width, height, outPath)
	return nil
}

func runCorners(cmd *cobra.Command, args []string) error {
	anchor := geo.NewGeoPoint(anchorLat, anchorLon)
	if err := overlay.ValidateAnchor(anchor, resolution); err != nil {
		return err
	}

	azimuthRad := azimuthDeg * math.Pi / 180
	topLeft, bottomRight, topRight := overlay.DeriveCorners(anchor, imgWidth, imgHeight, resolution, azimuthRad)

	fmt.Printf("bottomLeft:  %.8f, %.8f\n", anchor.Lat, anchor.Lon)
	fmt.Printf("bottomRight: %.8f, %.8f\n", bottomRight.Lat, bottomRight.Lon)
	fmt.Printf("topLeft:     %.8f, %.8f\n", topLeft.Lat, topLeft.Lon)
	fmt.Printf("topRight:    %.8f, %.8f\n", topRight.Lat, topRight.Lon)
	return nil
}
