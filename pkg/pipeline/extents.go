package pipeline

import (
	"github.com/dxfscope/dxfscope/pkg/dxf"
	"github.com/dxfscope/dxfscope/pkg/render"
)

// Extent sources. The geometric scan and the header fallback are never
// merged: whichever supplied the data names the source.
const (
	SourceModelspaceBBox = "modelspace_bbox"
	SourceHeaderExtents  = "header_extmin_extmax"
)

// Extents describes the drawing's bounding box. Min, Max and Size are nil
// together when neither the geometry nor the header has data.
type Extents struct {
	Source string      `json:"source"`
	Min    *[3]float64 `json:"extmin"`
	Max    *[3]float64 `json:"extmax"`
	Size   *[3]float64 `json:"size"`
}

// SizePoint returns the extent size as a point for page orientation, or nil.
func (e Extents) SizePoint() *dxf.Point {
	if e.Size == nil {
		return nil
	}
	return &dxf.Point{X: e.Size[0], Y: e.Size[1], Z: e.Size[2]}
}

// ResolveExtents computes the drawing extents. The primary source is a
// geometric scan over the expanded modelspace (block references resolved);
// the header's $EXTMIN/$EXTMAX serve as fallback only when the scan finds no
// geometry, since headers routinely go stale while geometry cannot lie.
func ResolveExtents(doc *dxf.Document) Extents {
	if min, max, ok := render.Bounds(render.ExtractShapes(doc)); ok {
		e := Extents{
			Source: SourceModelspaceBBox,
			Min:    &[3]float64{min.X, min.Y, min.Z},
			Max:    &[3]float64{max.X, max.Y, max.Z},
		}
		e.Size = sizeOf(e.Min, e.Max)
		return e
	}

	e := Extents{Source: SourceHeaderExtents}
	if doc.Header.ExtMin != nil {
		e.Min = &[3]float64{doc.Header.ExtMin.X, doc.Header.ExtMin.Y, doc.Header.ExtMin.Z}
	}
	if doc.Header.ExtMax != nil {
		e.Max = &[3]float64{doc.Header.ExtMax.X, doc.Header.ExtMax.Y, doc.Header.ExtMax.Z}
	}
	e.Size = sizeOf(e.Min, e.Max)
	return e
}

func sizeOf(min, max *[3]float64) *[3]float64 {
	if min == nil || max == nil {
		return nil
	}
	return &[3]float64{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
}
