package render

import (
	"strings"

	"github.com/dxfscope/dxfscope/pkg/dxf"
	"github.com/dxfscope/dxfscope/pkg/errors"
)

// Orientation selects how a page size is oriented.
type Orientation string

// Supported orientations.
const (
	OrientationAuto      Orientation = "auto"
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// ValidOrientation reports whether s names a supported orientation.
func ValidOrientation(s string) bool {
	switch Orientation(s) {
	case OrientationAuto, OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// ISOSizes maps ISO page names to their portrait dimensions in millimeters.
var ISOSizes = map[string][2]float64{
	"A0": {841, 1189},
	"A1": {594, 841},
	"A2": {420, 594},
	"A3": {297, 420},
	"A4": {210, 297},
}

// PageLayout is a resolved physical page: dimensions and a uniform margin,
// all in millimeters. Values are immutable once computed for a render call.
type PageLayout struct {
	WidthMM  float64
	HeightMM float64
	MarginMM float64
}

// ContentWidthMM returns the printable width inside the margins.
func (p PageLayout) ContentWidthMM() float64 { return p.WidthMM - 2*p.MarginMM }

// ContentHeightMM returns the printable height inside the margins.
func (p PageLayout) ContentHeightMM() float64 { return p.HeightMM - 2*p.MarginMM }

// ResolvePage maps an ISO size name, an orientation policy, and an optional
// drawing extent onto a physical page.
//
// With OrientationAuto the extent decides: width >= height selects
// landscape, otherwise portrait; a nil extent keeps the size's natural
// portrait orientation. Landscape always swaps the declared dimensions.
// Unknown size names fail with ErrCodeInvalidPageSize.
func ResolvePage(name string, orient Orientation, size *dxf.Point, marginMM float64) (PageLayout, error) {
	dims, ok := ISOSizes[strings.ToUpper(name)]
	if !ok {
		return PageLayout{}, errors.New(errors.ErrCodeInvalidPageSize, "invalid page size: %s", name)
	}
	w, h := dims[0], dims[1]

	if orient == OrientationAuto {
		orient = OrientationPortrait
		if size != nil && size.X >= size.Y {
			orient = OrientationLandscape
		}
	}
	if orient == OrientationLandscape {
		w, h = h, w
	}
	return PageLayout{WidthMM: w, HeightMM: h, MarginMM: marginMM}, nil
}
