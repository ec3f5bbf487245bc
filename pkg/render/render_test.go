package render

import (
	"math"
	"strings"
	"testing"

	"github.com/dxfscope/dxfscope/pkg/dxf"
	"github.com/dxfscope/dxfscope/pkg/errors"
)

func TestResolvePage(t *testing.T) {
	wide := &dxf.Point{X: 200, Y: 100}
	tall := &dxf.Point{X: 100, Y: 200}
	square := &dxf.Point{X: 50, Y: 50}

	tests := []struct {
		name   string
		page   string
		orient Orientation
		size   *dxf.Point
		wantW  float64
		wantH  float64
	}{
		{"portrait A4", "A4", OrientationPortrait, wide, 210, 297},
		{"landscape A4", "A4", OrientationLandscape, tall, 297, 210},
		{"auto wide", "A3", OrientationAuto, wide, 420, 297},
		{"auto tall", "A3", OrientationAuto, tall, 297, 420},
		{"auto square is landscape", "A4", OrientationAuto, square, 297, 210},
		{"auto without extent", "A4", OrientationAuto, nil, 210, 297},
		{"lowercase name", "a2", OrientationPortrait, nil, 420, 594},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePage(tt.page, tt.orient, tt.size, 10)
			if err != nil {
				t.Fatalf("ResolvePage failed: %v", err)
			}
			if got.WidthMM != tt.wantW || got.HeightMM != tt.wantH {
				t.Errorf("got %gx%g, want %gx%g", got.WidthMM, got.HeightMM, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResolvePageUnknownSize(t *testing.T) {
	_, err := ResolvePage("B1", OrientationPortrait, nil, 10)
	if errors.GetCode(err) != errors.ErrCodeInvalidPageSize {
		t.Errorf("got %v, want ErrCodeInvalidPageSize", err)
	}
}

func TestExtractShapesFlattensInserts(t *testing.T) {
	doc := &dxf.Document{
		Blocks: []dxf.Block{{
			Name: "UNIT",
			Base: dxf.Point{X: 10, Y: 10},
			Entities: []dxf.Entity{
				{Type: "LINE", Layer: "0", Points: []dxf.Point{{X: 10, Y: 10}, {X: 20, Y: 10}}, Known: true},
			},
		}},
		Entities: []dxf.Entity{
			{Type: "LINE", Layer: "0", Points: []dxf.Point{{}, {X: 5, Y: 0}}, Known: true},
			{Type: "INSERT", Layer: "0", Block: "UNIT", Points: []dxf.Point{{X: 100, Y: 100}},
				ScaleX: 2, ScaleY: 2, Rotation: 90, Known: true},
		},
	}

	shapes := ExtractShapes(doc)
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(shapes))
	}

	// The block line runs from its base point 10 units along +X. Placed at
	// (100,100) with scale 2 and rotation 90 it must run 20 units along +Y.
	got := shapes[1]
	if got.Kind != KindLine {
		t.Fatalf("shape 1 kind = %d, want line", got.Kind)
	}
	wantStart := dxf.Point{X: 100, Y: 100}
	wantEnd := dxf.Point{X: 100, Y: 120}
	if !pointNear(got.Points[0], wantStart) || !pointNear(got.Points[1], wantEnd) {
		t.Errorf("transformed line = %+v -> %+v, want %+v -> %+v",
			got.Points[0], got.Points[1], wantStart, wantEnd)
	}
}

func TestExtractShapesScalesRadii(t *testing.T) {
	doc := &dxf.Document{
		Blocks: []dxf.Block{{
			Name: "HOLE",
			Entities: []dxf.Entity{
				{Type: "CIRCLE", Layer: "0", Points: []dxf.Point{{}}, Radius: 2, Known: true},
			},
		}},
		Entities: []dxf.Entity{
			{Type: "INSERT", Layer: "0", Block: "HOLE", Points: []dxf.Point{{X: 4, Y: 4}},
				ScaleX: 3, ScaleY: 3, Known: true},
		},
	}

	shapes := ExtractShapes(doc)
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(shapes))
	}
	if got := shapes[0].Radius; math.Abs(got-6) > 1e-9 {
		t.Errorf("scaled radius = %g, want 6", got)
	}
}

func TestExtractShapesSkipsBrokenInserts(t *testing.T) {
	doc := &dxf.Document{
		Blocks: []dxf.Block{{
			Name: "LOOP",
			Entities: []dxf.Entity{
				{Type: "INSERT", Layer: "0", Block: "LOOP", Points: []dxf.Point{{}}, ScaleX: 1, ScaleY: 1, Known: true},
			},
		}},
		Entities: []dxf.Entity{
			{Type: "INSERT", Layer: "0", Block: "MISSING", Points: []dxf.Point{{}}, ScaleX: 1, ScaleY: 1, Known: true},
			{Type: "INSERT", Layer: "0", Block: "LOOP", Points: []dxf.Point{{}}, ScaleX: 1, ScaleY: 1, Known: true},
		},
	}

	// Undefined blocks and self-referencing block loops must not produce
	// shapes or recurse forever.
	if shapes := ExtractShapes(doc); len(shapes) != 0 {
		t.Errorf("got %d shapes, want 0", len(shapes))
	}
}

func TestBounds(t *testing.T) {
	shapes := []Shape{
		{Kind: KindLine, Points: []dxf.Point{{X: -5, Y: 0}, {X: 10, Y: 3}}},
		{Kind: KindCircle, Points: []dxf.Point{{X: 0, Y: 20}}, Radius: 4},
	}
	min, max, ok := Bounds(shapes)
	if !ok {
		t.Fatal("Bounds reported empty for two shapes")
	}
	if min.X != -5 || min.Y != 0 || max.X != 10 || max.Y != 24 {
		t.Errorf("bounds = %+v .. %+v, want (-5,0) .. (10,24)", min, max)
	}

	if _, _, ok := Bounds(nil); ok {
		t.Error("Bounds of empty list reported ok")
	}
}

func TestFitTransform(t *testing.T) {
	page := PageLayout{WidthMM: 297, HeightMM: 210, MarginMM: 10}
	shapes := []Shape{
		{Kind: KindLine, Points: []dxf.Point{{}, {X: 1000, Y: 500}}},
	}

	tf := FitTransform(shapes, page, RenderOptions{FitToPage: true})
	// 1000x500 units into 277x190 mm: width-limited.
	if want := 0.277; math.Abs(tf.Scale-want) > 1e-9 {
		t.Errorf("fit scale = %g, want %g", tf.Scale, want)
	}

	// The drawing center must land on the page center.
	cx, cy := tf.Apply(500, 250)
	if math.Abs(cx-297.0/2) > 1e-9 || math.Abs(cy-210.0/2) > 1e-9 {
		t.Errorf("center maps to (%g, %g), want page center", cx, cy)
	}

	fixed := FitTransform(shapes, page, RenderOptions{FitToPage: true, FixedScale: 0.1})
	if fixed.Scale != 0.1 {
		t.Errorf("fixed scale = %g, want 0.1", fixed.Scale)
	}
}

type fakeBackend struct {
	name      string
	available error
	renderErr error
	calls     int
}

func (f *fakeBackend) Name() string     { return f.name }
func (f *fakeBackend) Available() error { return f.available }

func (f *fakeBackend) Render(_ []Shape, _ PageLayout, _ RenderOptions) (RenderResult, error) {
	f.calls++
	if f.renderErr != nil {
		return RenderResult{}, f.renderErr
	}
	return RenderResult{PNG: []byte(f.name)}, nil
}

func TestRenderWithFallback(t *testing.T) {
	primary := &fakeBackend{name: "primary", available: errors.New(errors.ErrCodeBackendUnavailable, "tool missing")}
	secondary := &fakeBackend{name: "secondary"}

	res, used, warnings, err := RenderWithFallback([]Backend{primary, secondary}, nil, PageLayout{}, RenderOptions{PNG: true})
	if err != nil {
		t.Fatalf("fallback failed: %v", err)
	}
	if used != "secondary" || string(res.PNG) != "secondary" {
		t.Errorf("used backend %q, want secondary", used)
	}
	if primary.calls != 0 {
		t.Error("unavailable backend was rendered")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "primary") {
		t.Errorf("warnings = %v, want one mentioning primary", warnings)
	}
}

func TestRenderWithFallbackMidRender(t *testing.T) {
	flaky := &fakeBackend{name: "flaky", renderErr: errors.New(errors.ErrCodeBackendUnavailable, "broke mid-render")}
	solid := &fakeBackend{name: "solid"}

	_, used, _, err := RenderWithFallback([]Backend{flaky, solid}, nil, PageLayout{}, RenderOptions{})
	if err != nil || used != "solid" {
		t.Errorf("used = %q err = %v, want solid backend", used, err)
	}
}

func TestRenderWithFallbackAllUnavailable(t *testing.T) {
	down := &fakeBackend{name: "down", available: errors.New(errors.ErrCodeBackendUnavailable, "no display")}

	_, _, _, err := RenderWithFallback([]Backend{down}, nil, PageLayout{}, RenderOptions{})
	if errors.GetCode(err) != errors.ErrCodeBackendUnavailable {
		t.Errorf("got %v, want ErrCodeBackendUnavailable", err)
	}
}

func TestRenderWithFallbackRealError(t *testing.T) {
	bad := &fakeBackend{name: "bad", renderErr: errors.New(errors.ErrCodeRenderFailed, "encoder blew up")}
	next := &fakeBackend{name: "next"}

	_, _, _, err := RenderWithFallback([]Backend{bad, next}, nil, PageLayout{}, RenderOptions{})
	if errors.GetCode(err) != errors.ErrCodeRenderFailed {
		t.Errorf("got %v, want render failure to abort the chain", err)
	}
	if next.calls != 0 {
		t.Error("chain continued past a genuine render failure")
	}
}

func pointNear(a, b dxf.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}
