// Package vector is the primary render backend. It draws the display list
// natively in each output format: hand-built SVG, PDF content streams via
// seehuhn.de/go/pdf, and rasterized PNG via fogleman/gg.
package vector

import (
	"github.com/dxfscope/dxfscope/pkg/render"
)

// lineWidthMM is the stroke width used for all geometry, in page millimeters.
const lineWidthMM = render.LineWidthMM

// Backend renders previews without external tools.
type Backend struct{}

// New returns the vector backend.
func New() *Backend { return &Backend{} }

// Name identifies the backend in logs and reports.
func (*Backend) Name() string { return "vector" }

// Available always succeeds: the backend is pure Go.
func (*Backend) Available() error { return nil }

// Render produces the requested formats in one pass over the display list.
func (b *Backend) Render(shapes []render.Shape, page render.PageLayout, opts render.RenderOptions) (render.RenderResult, error) {
	tf := render.FitTransform(shapes, page, opts)

	var res render.RenderResult
	if opts.SVG {
		res.SVG = renderSVG(shapes, page, tf)
	}
	if opts.PDF {
		pdf, err := renderPDF(shapes, page, tf)
		if err != nil {
			return render.RenderResult{}, err
		}
		res.PDF = pdf
	}
	if opts.PNG {
		png, err := renderPNG(shapes, page, tf, opts.EffectiveDPI())
		if err != nil {
			return render.RenderResult{}, err
		}
		res.PNG = png
	}
	return res, nil
}
