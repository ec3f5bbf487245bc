package render

import (
	"fmt"

	"github.com/dxfscope/dxfscope/pkg/errors"
)

// RenderOptions selects output formats and layout behavior for one render
// call. The zero value renders nothing; callers set at least one format.
type RenderOptions struct {
	PDF bool
	PNG bool
	SVG bool

	// DPI controls raster resolution (PNG, and the raster backend's
	// intermediate image). Zero falls back to DefaultDPI.
	DPI int

	// FitToPage scales the drawing to fill the printable area. It is
	// ignored when FixedScale is set.
	FitToPage bool

	// FixedScale, when non-zero, maps one drawing unit to that many page
	// millimeters regardless of whether the drawing fits.
	FixedScale float64
}

// DefaultDPI is used when RenderOptions.DPI is unset.
const DefaultDPI = 300

// EffectiveDPI returns the DPI to render at.
func (o RenderOptions) EffectiveDPI() int {
	if o.DPI > 0 {
		return o.DPI
	}
	return DefaultDPI
}

// RenderResult carries the produced documents; a nil slice means the format
// was not requested.
type RenderResult struct {
	PDF []byte
	PNG []byte
	SVG []byte
}

// Backend renders a display list onto a page.
//
// Available is a cheap capability probe run before Render; a non-nil error
// means the backend cannot run in this environment. Render may still fail
// with ErrCodeBackendUnavailable if a dependency turns out to be broken
// mid-render; both conditions make RenderWithFallback try the next backend.
type Backend interface {
	Name() string
	Available() error
	Render(shapes []Shape, page PageLayout, opts RenderOptions) (RenderResult, error)
}

// RenderWithFallback tries the backends in order and returns the result of
// the first one that works, along with its name and a warning per skipped
// backend. A backend failing for any reason other than unavailability aborts
// the chain. When every backend is unavailable the error carries
// ErrCodeBackendUnavailable.
func RenderWithFallback(backends []Backend, shapes []Shape, page PageLayout, opts RenderOptions) (RenderResult, string, []string, error) {
	var warnings []string
	for _, b := range backends {
		if err := b.Available(); err != nil {
			warnings = append(warnings, fmt.Sprintf("render backend %s unavailable: %v", b.Name(), err))
			continue
		}
		res, err := b.Render(shapes, page, opts)
		if err != nil {
			if errors.GetCode(err) == errors.ErrCodeBackendUnavailable {
				warnings = append(warnings, fmt.Sprintf("render backend %s unavailable: %v", b.Name(), err))
				continue
			}
			return RenderResult{}, b.Name(), warnings, err
		}
		return res, b.Name(), warnings, nil
	}
	return RenderResult{}, "", warnings, errors.New(errors.ErrCodeBackendUnavailable, "no render backend available")
}

// PageTransform maps drawing coordinates to page millimeters with the origin
// at the bottom-left corner and Y growing upward. Backends whose native
// coordinate system is top-down flip Y themselves.
type PageTransform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Apply maps a drawing coordinate pair onto the page.
func (t PageTransform) Apply(x, y float64) (float64, float64) {
	return x*t.Scale + t.OffsetX, y*t.Scale + t.OffsetY
}

// FitTransform computes the shared drawing-to-page transform so that all
// backends place content identically. The content is always centered in the
// printable area; the scale comes from FixedScale, from fitting the bounding
// box when FitToPage is set, or defaults to 1.
func FitTransform(shapes []Shape, page PageLayout, opts RenderOptions) PageTransform {
	availW, availH := page.ContentWidthMM(), page.ContentHeightMM()
	min, max, ok := Bounds(shapes)
	if !ok {
		return PageTransform{Scale: 1, OffsetX: page.WidthMM / 2, OffsetY: page.HeightMM / 2}
	}
	w, h := max.X-min.X, max.Y-min.Y

	scale := 1.0
	switch {
	case opts.FixedScale > 0:
		scale = opts.FixedScale
	case opts.FitToPage:
		scale = fitScale(w, h, availW, availH)
	}

	return PageTransform{
		Scale:   scale,
		OffsetX: page.MarginMM + (availW-w*scale)/2 - min.X*scale,
		OffsetY: page.MarginMM + (availH-h*scale)/2 - min.Y*scale,
	}
}

// fitScale picks the largest scale keeping a w x h box inside availW x availH.
// Degenerate extents (a single point, or a purely horizontal or vertical
// drawing) fall back to the dimension that still constrains the fit.
func fitScale(w, h, availW, availH float64) float64 {
	switch {
	case w <= 0 && h <= 0:
		return 1
	case w <= 0:
		return availH / h
	case h <= 0:
		return availW / w
	}
	sx, sy := availW/w, availH/h
	if sx < sy {
		return sx
	}
	return sy
}
