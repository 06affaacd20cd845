// Package index maintains an R-tree over overlay bounding boxes so a view
// can cull overlays to the ones it might actually show.
package index

import (
	"fmt"
	"sync"

	"github.com/dhconnelly/rtreego"

	"github.com/grait/osmdroid/internal/overlay"
	"github.com/grait/osmdroid/pkg/geo"
)

const (
	minChildren = 25
	maxChildren = 50
	dimensions  = 2

	// Degenerate (point or line) bounding boxes are padded so the tree
	// always stores a proper rectangle.
	minSpan = 1e-9
)

type entry struct {
	overlay *overlay.GroundOverlay
	rect    *rtreego.Rect
}

func (e *entry) Bounds() *rtreego.Rect { return e.rect }

// Index is a thread-safe R-tree of positioned overlays.
type Index struct {
	mu      sync.RWMutex
	tree    *rtreego.Rtree
	entries map[*overlay.GroundOverlay]*entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		tree:    rtreego.NewTree(dimensions, minChildren, maxChildren),
		entries: make(map[*overlay.GroundOverlay]*entry),
	}
}

func rectOf(b geo.BoundingBox) (*rtreego.Rect, error) {
	latSpan := b.LatSpan()
	if latSpan < minSpan {
		latSpan = minSpan
	}
	lonSpan := b.LonSpan()
	if lonSpan < minSpan {
		lonSpan = minSpan
	}
	return rtreego.NewRect(rtreego.Point{b.South, b.West}, []float64{latSpan, lonSpan})
}

// Insert adds a positioned overlay. An overlay without a footprint cannot
// be indexed. Re-inserting an overlay replaces its previous position.
func (ix *Index) Insert(o *overlay.GroundOverlay) error {
	if o.Footprint() == nil {
		return fmt.Errorf("overlay has no footprint")
	}
	rect, err := rectOf(o.Bounds())
	if err != nil {
		return fmt.Errorf("invalid bounding box: %w", err)
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if old, ok := ix.entries[o]; ok {
		ix.tree.Delete(old)
	}
	e := &entry{overlay: o, rect: rect}
	ix.tree.Insert(e)
	ix.entries[o] = e
	return nil
}

// Remove drops an overlay from the index, reporting whether it was present.
func (ix *Index) Remove(o *overlay.GroundOverlay) bool {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	e, ok := ix.entries[o]
	if !ok {
		return false
	}
	ix.tree.Delete(e)
	delete(ix.entries, o)
	return true
}

// Visible returns the overlays whose bounding boxes intersect the view box.
func (ix *Index) Visible(view geo.BoundingBox) []*overlay.GroundOverlay {
	rect, err := rectOf(view)
	if err != nil {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hits := ix.tree.SearchIntersect(rect)
	overlays := make([]*overlay.GroundOverlay, 0, len(hits))
	for _, hit := range hits {
		overlays = append(overlays, hit.(*entry).overlay)
	}
	return overlays
}

// Size returns the number of indexed overlays.
func (ix *Index) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}
