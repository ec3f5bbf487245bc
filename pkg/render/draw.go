package render

import (
	"math"

	"github.com/fogleman/gg"
)

// LineWidthMM is the stroke width shared by all backends, in page
// millimeters.
const LineWidthMM = 0.35

// Rasterize strokes the display list onto a fresh gg context covering the
// whole page at the given DPI, white background and black geometry. Both
// image backends build on this; the raster backend additionally derives its
// PDF and SVG output from the result.
//
// The raster origin is top-left with Y down, so page Y is flipped and arc
// angles are negated.
func Rasterize(shapes []Shape, page PageLayout, tf PageTransform, dpi int) *gg.Context {
	pxPerMM := float64(dpi) / 25.4
	w := int(math.Ceil(page.WidthMM * pxPerMM))
	h := int(math.Ceil(page.HeightMM * pxPerMM))
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(LineWidthMM * pxPerMM)

	at := func(x, y float64) (float64, float64) {
		px, py := tf.Apply(x, y)
		return px * pxPerMM, (page.HeightMM - py) * pxPerMM
	}

	for _, s := range shapes {
		switch s.Kind {
		case KindLine:
			x1, y1 := at(s.Points[0].X, s.Points[0].Y)
			x2, y2 := at(s.Points[1].X, s.Points[1].Y)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		case KindPolyline:
			for i, p := range s.Points {
				x, y := at(p.X, p.Y)
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			if s.Closed {
				dc.ClosePath()
			}
			dc.Stroke()
		case KindCircle:
			cx, cy := at(s.Points[0].X, s.Points[0].Y)
			dc.DrawCircle(cx, cy, s.Radius*tf.Scale*pxPerMM)
			dc.Stroke()
		case KindArc:
			cx, cy := at(s.Points[0].X, s.Points[0].Y)
			a1 := s.StartAngle * math.Pi / 180
			a2 := s.EndAngle * math.Pi / 180
			for a2 <= a1 {
				a2 += 2 * math.Pi
			}
			dc.DrawArc(cx, cy, s.Radius*tf.Scale*pxPerMM, -a1, -a2)
			dc.Stroke()
		case KindText:
			x, y := at(s.Points[0].X, s.Points[0].Y)
			dc.DrawString(s.Text, x, y)
		case KindPoint:
			cx, cy := at(s.Points[0].X, s.Points[0].Y)
			dc.DrawPoint(cx, cy, LineWidthMM*pxPerMM)
			dc.Fill()
		}
	}
	return dc
}
