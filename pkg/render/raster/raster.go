// Package raster is the secondary render backend. It rasterizes the display
// list once with gg and derives every requested format from that image: PNG
// directly, PDF by importing the image as a full-size page via pdfcpu, and
// SVG by embedding the image in an <image> element.
//
// Output from this backend is visually equivalent to the vector backend but
// not scalable; it exists as the fallback when the primary backend cannot
// run.
package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	xdraw "golang.org/x/image/draw"

	"github.com/dxfscope/dxfscope/pkg/errors"
	"github.com/dxfscope/dxfscope/pkg/render"
)

// oversample renders at a multiple of the target DPI and downscales, which
// smooths thin strokes the plain rasterizer would alias.
const oversample = 2

// Backend renders previews from a single rasterized image.
type Backend struct{}

// New returns the raster backend.
func New() *Backend { return &Backend{} }

// Name identifies the backend in logs and reports.
func (*Backend) Name() string { return "raster" }

// Available always succeeds: the backend is pure Go.
func (*Backend) Available() error { return nil }

// Render rasterizes once and derives the requested formats.
func (b *Backend) Render(shapes []render.Shape, page render.PageLayout, opts render.RenderOptions) (render.RenderResult, error) {
	tf := render.FitTransform(shapes, page, opts)
	dpi := opts.EffectiveDPI()

	img := downsample(render.Rasterize(shapes, page, tf, dpi*oversample).Image(), oversample)
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return render.RenderResult{}, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	pngBytes := pngBuf.Bytes()

	var res render.RenderResult
	if opts.PNG {
		res.PNG = pngBytes
	}
	if opts.PDF {
		pdf, err := imagePDF(pngBytes, page)
		if err != nil {
			return render.RenderResult{}, err
		}
		res.PDF = pdf
	}
	if opts.SVG {
		res.SVG = imageSVG(pngBytes, page)
	}
	return res, nil
}

// downsample scales the oversampled raster back to the target resolution.
func downsample(src image.Image, factor int) image.Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()/factor, b.Dy()/factor))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

// imagePDF builds a single-page PDF with the raster covering the whole page.
func imagePDF(pngBytes []byte, page render.PageLayout) ([]byte, error) {
	const ptPerMM = 72.0 / 25.4
	desc := fmt.Sprintf("dim:%d %d, pos:full", int(page.WidthMM*ptPerMM), int(page.HeightMM*ptPerMM))
	imp, err := api.Import(desc, types.POINTS)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "pdf import config")
	}

	var buf bytes.Buffer
	if err := api.ImportImages(nil, &buf, []io.Reader{bytes.NewReader(pngBytes)}, imp, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "embed image in pdf")
	}
	return buf.Bytes(), nil
}

// imageSVG wraps the raster in a page-sized SVG.
func imageSVG(pngBytes []byte, page render.PageLayout) []byte {
	w := strconv.FormatFloat(page.WidthMM, 'f', 3, 64)
	h := strconv.FormatFloat(page.HeightMM, 'f', 3, 64)
	var b bytes.Buffer
	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%smm" height="%smm" viewBox="0 0 %s %s">`+"\n", w, h, w, h)
	fmt.Fprintf(&b, `<image x="0" y="0" width="%s" height="%s" xlink:href="data:image/png;base64,%s"/>`+"\n",
		w, h, base64.StdEncoding.EncodeToString(pngBytes))
	b.WriteString("</svg>\n")
	return b.Bytes()
}
