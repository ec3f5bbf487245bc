// Package pipeline implements the drawing analysis pipeline.
//
// The pipeline takes one DXF file through a fixed sequence of stages:
//
//  1. Load: tolerant parse with recovery, then a structural audit
//  2. Stats: entity/layer/block statistics plus extent resolution,
//     written as summary.json and CSV reports
//  3. Preview: render the modelspace to PDF/PNG/SVG via the backend chain
//  4. Flatten: re-export the drawing with all block references resolved
//  5. UnitsFix: optional copy with a corrected INSUNITS header
//  6. DWG: optional conversion through an external ODA File Converter
//
// Only the load stage is fatal. Every stage after it runs in isolation: a
// failure is logged, recorded in the result, and the remaining stages still
// run, so one broken exporter never costs the user the rest of the
// analysis.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    InputPath: "drawing.dxf",
//	    OutDir:    "out",
//	    PDF:       true,
//	    PNG:       true,
//	})
package pipeline

import (
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dxfscope/dxfscope/pkg/errors"
	"github.com/dxfscope/dxfscope/pkg/render"
)

// Defaults shared by CLI flags and config file handling.
const (
	DefaultInput    = "drawing.dxf"
	DefaultOutDir   = "out"
	DefaultPage     = "A3"
	DefaultDPI      = 300
	DefaultMarginMM = 10.0
)

// outDirTimestampLayout names timestamped run directories.
const outDirTimestampLayout = "20060102_150405"

// Options configures a pipeline run.
type Options struct {
	// Input
	InputPath string

	// Output directory handling
	OutDir      string
	Label       string
	Timestamped bool

	// Preview options
	PDF         bool
	PNG         bool
	SVG         bool
	DPI         int
	Page        string
	Orientation string
	MarginMM    float64
	FitToPage   bool
	FixedScale  float64 // mm per drawing unit; 0 means fit

	// Export options
	Flatten     bool
	DWG         bool
	SetInsUnits *int // nil leaves the unit code untouched

	// Runtime
	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.InputPath == "" {
		o.InputPath = DefaultInput
	}
	if o.OutDir == "" {
		o.OutDir = DefaultOutDir
	}
	if o.Page == "" {
		o.Page = DefaultPage
	}
	if o.Orientation == "" {
		o.Orientation = string(render.OrientationAuto)
	}
	if !render.ValidOrientation(o.Orientation) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid orientation: %s (must be auto, portrait or landscape)", o.Orientation)
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid dpi: %d", o.DPI)
	}
	// A zero margin is a valid request; the default lives at the flag and
	// config layer.
	if o.MarginMM < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid margin: %g", o.MarginMM)
	}
	if o.FixedScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid scale: %g", o.FixedScale)
	}
	if o.SetInsUnits != nil {
		if code := *o.SetInsUnits; code < 0 || code > 20 {
			return errors.New(errors.ErrCodeInvalidUnitCode, "invalid INSUNITS code: %d", code)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// renderOptions maps the pipeline options onto the render layer.
func (o *Options) renderOptions() render.RenderOptions {
	return render.RenderOptions{
		PDF:        o.PDF,
		PNG:        o.PNG,
		SVG:        o.SVG,
		DPI:        o.DPI,
		FitToPage:  o.FitToPage,
		FixedScale: o.FixedScale,
	}
}

// ResolveOutDir derives the run's output directory from the root, the
// optional label, and the optional timestamp: root[/label][/YYYYmmdd_HHMMSS].
func (o *Options) ResolveOutDir(now time.Time) string {
	dir := o.OutDir
	if o.Label != "" {
		dir = filepath.Join(dir, o.Label)
	}
	if o.Timestamped {
		dir = filepath.Join(dir, now.Format(outDirTimestampLayout))
	}
	return dir
}
