package vector

import (
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dxfscope/dxfscope/pkg/render"
)

// renderSVG emits an SVG document in millimeter units. SVG has a top-down Y
// axis, so page coordinates are flipped against the page height.
func renderSVG(shapes []render.Shape, page render.PageLayout, tf render.PageTransform) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%smm" height="%smm" viewBox="0 0 %s %s">`+"\n",
		fmtNum(page.WidthMM), fmtNum(page.HeightMM), fmtNum(page.WidthMM), fmtNum(page.HeightMM))
	fmt.Fprintf(&b, `<g fill="none" stroke="black" stroke-width="%s" stroke-linecap="round">`+"\n", fmtNum(lineWidthMM))

	at := func(x, y float64) (float64, float64) {
		px, py := tf.Apply(x, y)
		return px, page.HeightMM - py
	}

	for _, s := range shapes {
		switch s.Kind {
		case render.KindLine:
			x1, y1 := at(s.Points[0].X, s.Points[0].Y)
			x2, y2 := at(s.Points[1].X, s.Points[1].Y)
			fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s"/>`+"\n",
				fmtNum(x1), fmtNum(y1), fmtNum(x2), fmtNum(y2))
		case render.KindPolyline:
			var pts []string
			for _, p := range s.Points {
				x, y := at(p.X, p.Y)
				pts = append(pts, fmtNum(x)+","+fmtNum(y))
			}
			el := "polyline"
			if s.Closed {
				el = "polygon"
			}
			fmt.Fprintf(&b, `<%s points="%s"/>`+"\n", el, strings.Join(pts, " "))
		case render.KindCircle:
			cx, cy := at(s.Points[0].X, s.Points[0].Y)
			fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s"/>`+"\n",
				fmtNum(cx), fmtNum(cy), fmtNum(s.Radius*tf.Scale))
		case render.KindArc:
			b.WriteString(arcPath(s, at, tf.Scale))
		case render.KindText:
			x, y := at(s.Points[0].X, s.Points[0].Y)
			var esc strings.Builder
			xml.EscapeText(&esc, []byte(s.Text))
			fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="%s" fill="black" stroke="none" font-family="sans-serif">%s</text>`+"\n",
				fmtNum(x), fmtNum(y), fmtNum(s.Height*tf.Scale), esc.String())
		case render.KindPoint:
			cx, cy := at(s.Points[0].X, s.Points[0].Y)
			fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="black" stroke="none"/>`+"\n",
				fmtNum(cx), fmtNum(cy), fmtNum(lineWidthMM))
		}
	}

	b.WriteString("</g>\n</svg>\n")
	return []byte(b.String())
}

// arcPath renders a circular arc as an SVG path. DXF arcs run
// counterclockwise from StartAngle to EndAngle; in the flipped SVG
// coordinate system that is sweep direction 0.
func arcPath(s render.Shape, at func(x, y float64) (float64, float64), scale float64) string {
	c := s.Points[0]
	start := s.StartAngle * math.Pi / 180
	end := s.EndAngle * math.Pi / 180
	sweep := s.EndAngle - s.StartAngle
	for sweep <= 0 {
		sweep += 360
	}

	x1, y1 := at(c.X+s.Radius*math.Cos(start), c.Y+s.Radius*math.Sin(start))
	x2, y2 := at(c.X+s.Radius*math.Cos(end), c.Y+s.Radius*math.Sin(end))
	large := 0
	if sweep > 180 {
		large = 1
	}
	r := fmtNum(s.Radius * scale)
	return fmt.Sprintf(`<path d="M %s %s A %s %s 0 %d 0 %s %s"/>`+"\n",
		fmtNum(x1), fmtNum(y1), r, r, large, fmtNum(x2), fmtNum(y2))
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
