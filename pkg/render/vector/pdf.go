package vector

import (
	"bytes"
	"math"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/graphics/color"

	"github.com/dxfscope/dxfscope/pkg/errors"
	"github.com/dxfscope/dxfscope/pkg/render"
)

const ptPerMM = 72.0 / 25.4

// renderPDF draws the display list into a single-page PDF. PDF shares the
// bottom-left origin of the page transform, so no Y flip is needed.
func renderPDF(shapes []render.Shape, page render.PageLayout, tf render.PageTransform) ([]byte, error) {
	buf := &bytes.Buffer{}
	paper := &pdf.Rectangle{URx: page.WidthMM * ptPerMM, URy: page.HeightMM * ptPerMM}
	doc, err := document.WriteSinglePage(buf, paper, pdf.V1_7, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "create pdf page")
	}

	at := func(x, y float64) (float64, float64) {
		px, py := tf.Apply(x, y)
		return px * ptPerMM, py * ptPerMM
	}

	doc.SetStrokeColor(color.Black)
	doc.SetLineWidth(lineWidthMM * ptPerMM)

	helvetica := standard.Helvetica.New()

	for _, s := range shapes {
		switch s.Kind {
		case render.KindLine:
			x1, y1 := at(s.Points[0].X, s.Points[0].Y)
			x2, y2 := at(s.Points[1].X, s.Points[1].Y)
			doc.MoveTo(x1, y1)
			doc.LineTo(x2, y2)
			doc.Stroke()
		case render.KindPolyline:
			for i, p := range s.Points {
				x, y := at(p.X, p.Y)
				if i == 0 {
					doc.MoveTo(x, y)
				} else {
					doc.LineTo(x, y)
				}
			}
			if s.Closed {
				doc.ClosePath()
			}
			doc.Stroke()
		case render.KindCircle:
			cx, cy := at(s.Points[0].X, s.Points[0].Y)
			doc.Circle(cx, cy, s.Radius*tf.Scale*ptPerMM)
			doc.Stroke()
		case render.KindArc:
			cx, cy := at(s.Points[0].X, s.Points[0].Y)
			start := s.StartAngle * math.Pi / 180
			end := s.EndAngle * math.Pi / 180
			for end <= start {
				end += 2 * math.Pi
			}
			doc.MoveToArc(cx, cy, s.Radius*tf.Scale*ptPerMM, start, end)
			doc.Stroke()
		case render.KindText:
			x, y := at(s.Points[0].X, s.Points[0].Y)
			doc.TextBegin()
			doc.TextSetFont(helvetica, s.Height*tf.Scale*ptPerMM)
			doc.TextFirstLine(x, y)
			doc.TextShow(s.Text)
			doc.TextEnd()
		case render.KindPoint:
			cx, cy := at(s.Points[0].X, s.Points[0].Y)
			doc.Circle(cx, cy, lineWidthMM*ptPerMM)
			doc.Stroke()
		}
	}

	if err := doc.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "close pdf page")
	}
	return buf.Bytes(), nil
}
