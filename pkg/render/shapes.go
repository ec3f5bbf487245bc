package render

import (
	"math"

	"github.com/dxfscope/dxfscope/pkg/dxf"
)

// Kind discriminates the primitive shapes a backend can draw.
type Kind int

// Shape kinds, in rough drawing-cost order.
const (
	KindLine Kind = iota
	KindPolyline
	KindCircle
	KindArc
	KindText
	KindPoint
)

// Shape is one entry of the flat display list produced by ExtractShapes.
// All coordinates are in drawing units with INSERT transforms already
// applied, so backends never see block references.
type Shape struct {
	Kind  Kind
	Layer string

	// Points holds both endpoints for a line, all vertices for a
	// polyline, and the center or anchor at index 0 for everything else.
	Points []dxf.Point
	Closed bool

	Radius     float64
	StartAngle float64 // degrees, counterclockwise
	EndAngle   float64

	Text   string
	Height float64
}

// maxInsertDepth bounds block nesting so self-referencing block
// definitions cannot recurse forever.
const maxInsertDepth = 8

// ExtractShapes flattens the modelspace into primitive shapes. INSERT
// entities are replaced by their block's entities with the insert's
// translation, scale, and rotation applied; nested inserts are resolved
// recursively. Inserts whose block is undefined, unknown entity types, and
// inserts nested deeper than maxInsertDepth are silently skipped.
func ExtractShapes(doc *dxf.Document) []Shape {
	var shapes []Shape
	appendEntityShapes(&shapes, doc, doc.Entities, identity, 0)
	return shapes
}

func appendEntityShapes(out *[]Shape, doc *dxf.Document, entities []dxf.Entity, tf affine, depth int) {
	for i := range entities {
		e := &entities[i]
		if !e.Known {
			continue
		}
		if e.Type == "INSERT" {
			if depth >= maxInsertDepth {
				continue
			}
			block := doc.BlockByName(e.Block)
			if block == nil {
				continue
			}
			sub := tf.compose(insertTransform(e, block))
			appendEntityShapes(out, doc, block.Entities, sub, depth+1)
			continue
		}
		if s, ok := entityShape(e, tf); ok {
			*out = append(*out, s)
		}
	}
}

func entityShape(e *dxf.Entity, tf affine) (Shape, bool) {
	s := Shape{Layer: e.Layer}
	switch e.Type {
	case "LINE":
		if len(e.Points) < 2 {
			return Shape{}, false
		}
		s.Kind = KindLine
		s.Points = tf.applyAll(e.Points[:2])
	case "LWPOLYLINE":
		if len(e.Points) < 2 {
			return Shape{}, false
		}
		s.Kind = KindPolyline
		s.Points = tf.applyAll(e.Points)
		s.Closed = e.Closed
	case "CIRCLE", "ARC":
		if len(e.Points) < 1 {
			return Shape{}, false
		}
		s.Kind = KindCircle
		s.Points = tf.applyAll(e.Points[:1])
		s.Radius = e.Radius * tf.lengthScale()
		if e.Type == "ARC" {
			s.Kind = KindArc
			rot := tf.rotationDeg()
			s.StartAngle = e.StartAngle + rot
			s.EndAngle = e.EndAngle + rot
		}
	case "TEXT", "MTEXT":
		if len(e.Points) < 1 {
			return Shape{}, false
		}
		s.Kind = KindText
		s.Points = tf.applyAll(e.Points[:1])
		s.Text = e.Text
		s.Height = e.Height * tf.lengthScale()
	case "POINT":
		if len(e.Points) < 1 {
			return Shape{}, false
		}
		s.Kind = KindPoint
		s.Points = tf.applyAll(e.Points[:1])
	default:
		return Shape{}, false
	}
	return s, true
}

// Bounds computes the axis-aligned bounding box of a display list. Arcs are
// bounded by their full circle, text by a box estimated from its height and
// character count. ok is false for an empty list.
func Bounds(shapes []Shape) (min, max dxf.Point, ok bool) {
	extend := func(p dxf.Point) {
		if !ok {
			min, max = p, p
			ok = true
			return
		}
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}

	for _, s := range shapes {
		switch s.Kind {
		case KindCircle, KindArc:
			c := s.Points[0]
			extend(dxf.Point{X: c.X - s.Radius, Y: c.Y - s.Radius, Z: c.Z})
			extend(dxf.Point{X: c.X + s.Radius, Y: c.Y + s.Radius, Z: c.Z})
		case KindText:
			a := s.Points[0]
			extend(a)
			extend(dxf.Point{X: a.X + textAdvance(s), Y: a.Y + s.Height, Z: a.Z})
		default:
			for _, p := range s.Points {
				extend(p)
			}
		}
	}
	return min, max, ok
}

// textAdvance estimates the width of a text shape. 0.6 em per character is
// the usual approximation for proportional fonts without metrics at hand.
func textAdvance(s Shape) float64 {
	return 0.6 * s.Height * float64(len([]rune(s.Text)))
}

// affine is a 2D affine transform; Z coordinates are only translated.
type affine struct {
	a, b, e float64 // x' = a*x + b*y + e
	c, d, f float64 // y' = c*x + d*y + f
	dz      float64
}

var identity = affine{a: 1, d: 1}

// insertTransform builds the placement transform for one INSERT: move the
// block's base point to the insertion point, scaled and rotated.
func insertTransform(ins *dxf.Entity, block *dxf.Block) affine {
	var at dxf.Point
	if len(ins.Points) > 0 {
		at = ins.Points[0]
	}
	rad := ins.Rotation * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	sx, sy := ins.ScaleX, ins.ScaleY

	// rotate(r) * scale(sx, sy) * translate(-base), then translate(at)
	tf := affine{
		a: cos * sx, b: -sin * sy,
		c: sin * sx, d: cos * sy,
		dz: at.Z - block.Base.Z,
	}
	tf.e = at.X - (tf.a*block.Base.X + tf.b*block.Base.Y)
	tf.f = at.Y - (tf.c*block.Base.X + tf.d*block.Base.Y)
	return tf
}

func (t affine) apply(p dxf.Point) dxf.Point {
	return dxf.Point{
		X: t.a*p.X + t.b*p.Y + t.e,
		Y: t.c*p.X + t.d*p.Y + t.f,
		Z: p.Z + t.dz,
	}
}

func (t affine) applyAll(pts []dxf.Point) []dxf.Point {
	out := make([]dxf.Point, len(pts))
	for i, p := range pts {
		out[i] = t.apply(p)
	}
	return out
}

// compose returns the transform that applies u first, then t.
func (t affine) compose(u affine) affine {
	return affine{
		a:  t.a*u.a + t.b*u.c,
		b:  t.a*u.b + t.b*u.d,
		e:  t.a*u.e + t.b*u.f + t.e,
		c:  t.c*u.a + t.d*u.c,
		d:  t.c*u.b + t.d*u.d,
		f:  t.c*u.e + t.d*u.f + t.f,
		dz: t.dz + u.dz,
	}
}

// lengthScale is the factor applied to radii and text heights: the mean of
// the axis scale factors, which is exact for uniform scaling.
func (t affine) lengthScale() float64 {
	return (math.Hypot(t.a, t.c) + math.Hypot(t.b, t.d)) / 2
}

// rotationDeg extracts the rotation angle of the transform in degrees.
func (t affine) rotationDeg() float64 {
	return math.Atan2(t.c, t.a) * 180 / math.Pi
}
