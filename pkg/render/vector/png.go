package vector

import (
	"bytes"

	"github.com/dxfscope/dxfscope/pkg/errors"
	"github.com/dxfscope/dxfscope/pkg/render"
)

// renderPNG rasterizes the display list with gg at the requested DPI.
func renderPNG(shapes []render.Shape, page render.PageLayout, tf render.PageTransform, dpi int) ([]byte, error) {
	dc := render.Rasterize(shapes, page, tf, dpi)
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}
