// Package dxfout is the drawing-output backend: instead of producing an
// image it replays a display list as plain DXF entities. Because the
// display list already has every INSERT resolved, the result is a flattened
// drawing with no block indirection left.
package dxfout

import (
	"github.com/dxfscope/dxfscope/pkg/dxf"
	"github.com/dxfscope/dxfscope/pkg/render"
)

// Entities converts a display list back into modelspace entities. Each
// shape keeps its layer; text height and arc angles survive the round trip.
func Entities(shapes []render.Shape) []dxf.Entity {
	out := make([]dxf.Entity, 0, len(shapes))
	for _, s := range shapes {
		e := dxf.Entity{Layer: s.Layer, Known: true}
		switch s.Kind {
		case render.KindLine:
			e.Type = "LINE"
			e.Points = clonePoints(s.Points)
		case render.KindPolyline:
			e.Type = "LWPOLYLINE"
			e.Points = clonePoints(s.Points)
			e.Closed = s.Closed
		case render.KindCircle:
			e.Type = "CIRCLE"
			e.Points = clonePoints(s.Points)
			e.Radius = s.Radius
		case render.KindArc:
			e.Type = "ARC"
			e.Points = clonePoints(s.Points)
			e.Radius = s.Radius
			e.StartAngle = s.StartAngle
			e.EndAngle = s.EndAngle
		case render.KindText:
			e.Type = "TEXT"
			e.Points = clonePoints(s.Points)
			e.Text = s.Text
			e.Height = s.Height
		case render.KindPoint:
			e.Type = "POINT"
			e.Points = clonePoints(s.Points)
		default:
			continue
		}
		out = append(out, e)
	}
	return out
}

func clonePoints(pts []dxf.Point) []dxf.Point {
	out := make([]dxf.Point, len(pts))
	copy(out, pts)
	return out
}
