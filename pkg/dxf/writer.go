package dxf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// SaveAs writes the document as ASCII DXF to the given path, overwriting any
// existing file.
func (d *Document) SaveAs(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write writes the document as ASCII DXF to w.
func (d *Document) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	tw := &tagWriter{w: bw}

	// HEADER
	tw.tag(0, "SECTION")
	tw.tag(2, "HEADER")
	version := d.Version
	if version == "" {
		version = DefaultVersion
	}
	tw.tag(9, "$ACADVER")
	tw.tag(1, version)
	if d.Header.HandSeed != "" {
		tw.tag(9, "$HANDSEED")
		tw.tag(5, d.Header.HandSeed)
	}
	tw.tag(9, "$INSUNITS")
	tw.tag(70, strconv.Itoa(d.Header.InsUnits))
	if d.Header.ExtMin != nil {
		tw.tag(9, "$EXTMIN")
		tw.point(*d.Header.ExtMin)
	}
	if d.Header.ExtMax != nil {
		tw.tag(9, "$EXTMAX")
		tw.point(*d.Header.ExtMax)
	}
	tw.tag(0, "ENDSEC")

	// TABLES (layer table only)
	tw.tag(0, "SECTION")
	tw.tag(2, "TABLES")
	tw.tag(0, "TABLE")
	tw.tag(2, "LAYER")
	tw.tag(70, strconv.Itoa(len(d.Layers)))
	for _, l := range d.Layers {
		tw.tag(0, "LAYER")
		tw.tag(2, l.Name)
		tw.tag(70, "0")
		tw.tag(62, strconv.Itoa(l.Color))
		tw.tag(6, "CONTINUOUS")
	}
	tw.tag(0, "ENDTAB")
	tw.tag(0, "ENDSEC")

	// BLOCKS
	tw.tag(0, "SECTION")
	tw.tag(2, "BLOCKS")
	for _, b := range d.Blocks {
		tw.tag(0, "BLOCK")
		tw.tag(8, "0")
		tw.tag(2, b.Name)
		tw.tag(70, "0")
		tw.point(b.Base)
		tw.tag(3, b.Name)
		for i := range b.Entities {
			tw.entity(&b.Entities[i])
		}
		tw.tag(0, "ENDBLK")
	}
	tw.tag(0, "ENDSEC")

	// ENTITIES
	tw.tag(0, "SECTION")
	tw.tag(2, "ENTITIES")
	for i := range d.Entities {
		tw.entity(&d.Entities[i])
	}
	tw.tag(0, "ENDSEC")

	tw.tag(0, "EOF")
	if tw.err != nil {
		return tw.err
	}
	return bw.Flush()
}

// tagWriter emits group code / value pairs, keeping the first write error.
type tagWriter struct {
	w   *bufio.Writer
	err error
}

func (t *tagWriter) tag(code int, value string) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, "%d\n%s\n", code, value)
}

func (t *tagWriter) num(code int, v float64) {
	t.tag(code, strconv.FormatFloat(v, 'f', -1, 64))
}

func (t *tagWriter) point(p Point) {
	t.num(10, p.X)
	t.num(20, p.Y)
	t.num(30, p.Z)
}

func (t *tagWriter) entity(e *Entity) {
	t.tag(0, e.Type)
	if !e.Known {
		// unrecognized entity: re-emit the original tags untouched
		for _, raw := range e.Raw {
			t.tag(raw.Code, raw.Value)
		}
		return
	}
	if e.Handle != "" {
		t.tag(5, e.Handle)
	}
	t.tag(8, e.Layer)
	switch e.Type {
	case "LINE":
		var start, end Point
		if len(e.Points) > 0 {
			start = e.Points[0]
		}
		if len(e.Points) > 1 {
			end = e.Points[1]
		}
		t.point(start)
		t.num(11, end.X)
		t.num(21, end.Y)
		t.num(31, end.Z)
	case "CIRCLE":
		t.entityCenter(e)
		t.num(40, e.Radius)
	case "ARC":
		t.entityCenter(e)
		t.num(40, e.Radius)
		t.num(50, e.StartAngle)
		t.num(51, e.EndAngle)
	case "LWPOLYLINE":
		t.tag(90, strconv.Itoa(len(e.Points)))
		flags := 0
		if e.Closed {
			flags = 1
		}
		t.tag(70, strconv.Itoa(flags))
		for _, p := range e.Points {
			t.num(10, p.X)
			t.num(20, p.Y)
		}
	case "POINT":
		t.entityCenter(e)
	case "TEXT", "MTEXT":
		t.entityCenter(e)
		t.num(40, e.Height)
		t.tag(1, e.Text)
	case "INSERT":
		t.tag(2, e.Block)
		t.entityCenter(e)
		t.num(41, e.ScaleX)
		t.num(42, e.ScaleY)
		t.num(50, e.Rotation)
	}
}

func (t *tagWriter) entityCenter(e *Entity) {
	var p Point
	if len(e.Points) > 0 {
		p = e.Points[0]
	}
	t.point(p)
}
