package dxf

import "fmt"

// DefaultVersion is the format version used for new documents when the
// source version is unknown (AC1024 = AutoCAD 2010).
const DefaultVersion = "AC1024"

// Unit codes for the $INSUNITS header variable.
const (
	UnitUnitless    = 0
	UnitInches      = 1
	UnitFeet        = 2
	UnitMillimeters = 4
	UnitCentimeters = 5
	UnitMeters      = 6
)

// UnitName returns a human-readable name for an $INSUNITS code.
func UnitName(code int) string {
	switch code {
	case UnitUnitless:
		return "unitless"
	case UnitInches:
		return "inches"
	case UnitFeet:
		return "feet"
	case UnitMillimeters:
		return "millimeters"
	case UnitCentimeters:
		return "centimeters"
	case UnitMeters:
		return "meters"
	default:
		return fmt.Sprintf("unit(%d)", code)
	}
}

// Point is a 3D coordinate. DXF entities that only carry 2D data leave Z at zero.
type Point struct {
	X, Y, Z float64
}

// Sub returns the componentwise difference p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Tag is a single DXF group code / value pair.
type Tag struct {
	Code  int
	Value string
}

// Entity is one drawing entity. The struct is a union over the entity types
// the package understands; which fields are meaningful depends on Type:
//
//	LINE        Points[0], Points[1]
//	LWPOLYLINE  Points, Closed
//	CIRCLE      Points[0] (center), Radius
//	ARC         Points[0] (center), Radius, StartAngle, EndAngle (degrees)
//	POINT       Points[0]
//	TEXT/MTEXT  Points[0] (anchor), Height, Text
//	INSERT      Points[0] (insertion), Block, ScaleX, ScaleY, Rotation
//
// Entities of unrecognized types have Known == false and keep their tags in
// Raw so the writer can re-emit them untouched.
type Entity struct {
	Type   string
	Layer  string
	Handle string

	Points []Point
	Closed bool

	Radius     float64
	StartAngle float64
	EndAngle   float64

	Text   string
	Height float64

	Block    string
	ScaleX   float64
	ScaleY   float64
	Rotation float64

	Known bool
	Raw   []Tag
}

// Layer is one entry of the LAYER table.
type Layer struct {
	Name  string
	Color int
}

// Block is a reusable named geometry definition.
type Block struct {
	Name     string
	Base     Point
	Entities []Entity
}

// Header holds the drawing-wide header variables dxfscope cares about.
// ExtMin/ExtMax are nil when the source file does not declare them.
type Header struct {
	HandSeed string
	InsUnits int
	ExtMin   *Point
	ExtMax   *Point
}

// Document is an in-memory DXF drawing: header variables, the layer table,
// block definitions, and the modelspace entities.
type Document struct {
	Version  string
	Header   Header
	Layers   []Layer
	Blocks   []Block
	Entities []Entity
}

// BlockByName returns the block definition with the given name, or nil.
func (d *Document) BlockByName(name string) *Block {
	for i := range d.Blocks {
		if d.Blocks[i].Name == name {
			return &d.Blocks[i]
		}
	}
	return nil
}

// HasLayer reports whether the layer table declares name.
func (d *Document) HasLayer(name string) bool {
	for _, l := range d.Layers {
		if l.Name == name {
			return true
		}
	}
	return false
}

// Copy returns a deep copy of the document. Mutating the copy (header
// variables, entity lists) never affects the original.
func (d *Document) Copy() *Document {
	out := &Document{
		Version: d.Version,
		Header:  d.Header,
	}
	if d.Header.ExtMin != nil {
		p := *d.Header.ExtMin
		out.Header.ExtMin = &p
	}
	if d.Header.ExtMax != nil {
		p := *d.Header.ExtMax
		out.Header.ExtMax = &p
	}
	out.Layers = append([]Layer(nil), d.Layers...)
	out.Blocks = make([]Block, len(d.Blocks))
	for i, b := range d.Blocks {
		out.Blocks[i] = Block{
			Name:     b.Name,
			Base:     b.Base,
			Entities: copyEntities(b.Entities),
		}
	}
	out.Entities = copyEntities(d.Entities)
	return out
}

func copyEntities(src []Entity) []Entity {
	out := make([]Entity, len(src))
	for i, e := range src {
		e.Points = append([]Point(nil), e.Points...)
		e.Raw = append([]Tag(nil), e.Raw...)
		out[i] = e
	}
	return out
}

// Issue describes one non-fatal problem found while recovering or auditing
// a document.
type Issue struct {
	Line    int
	Message string
}

// String formats the issue with its source line when known.
func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}
