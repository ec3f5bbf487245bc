package export

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/dxfscope/dxfscope/pkg/dxf"
	"github.com/dxfscope/dxfscope/pkg/errors"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// testDocument builds a drawing with one block inserted once and a loose
// circle, spread over two layers.
func testDocument() *dxf.Document {
	return &dxf.Document{
		Version: "AC1032",
		Header:  dxf.Header{InsUnits: dxf.UnitMillimeters},
		Layers:  []dxf.Layer{{Name: "0", Color: 7}, {Name: "WALLS", Color: 1}},
		Blocks: []dxf.Block{
			{
				Name: "DOOR",
				Entities: []dxf.Entity{
					{Type: "LINE", Layer: "WALLS", Points: []dxf.Point{{}, {X: 10}}, Known: true},
				},
			},
		},
		Entities: []dxf.Entity{
			{Type: "CIRCLE", Layer: "0", Points: []dxf.Point{{X: 5, Y: 5}}, Radius: 2, Known: true},
			{Type: "INSERT", Layer: "0", Block: "DOOR", Points: []dxf.Point{{X: 20, Y: 20}}, ScaleX: 1, ScaleY: 1, Known: true},
		},
	}
}

func TestFlatten(t *testing.T) {
	outdir := t.TempDir()

	path, err := Flatten(testDocument(), outdir)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	if filepath.Base(path) != FlattenedFile {
		t.Errorf("path = %q, want %s", path, FlattenedFile)
	}

	flat, err := dxf.ReadFile(path)
	if err != nil {
		t.Fatalf("reading flattened drawing failed: %v", err)
	}
	if len(flat.Entities) != 2 {
		t.Fatalf("flattened entities = %d, want 2", len(flat.Entities))
	}
	for _, e := range flat.Entities {
		if e.Type == "INSERT" {
			t.Error("flattened drawing still contains an INSERT")
		}
	}
	if flat.Header.InsUnits != dxf.UnitMillimeters {
		t.Errorf("InsUnits = %d, want millimeters", flat.Header.InsUnits)
	}
}

func TestFlattenDeclaresReferencedLayers(t *testing.T) {
	path, err := Flatten(testDocument(), t.TempDir())
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	flat, err := dxf.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	names := make(map[string]int)
	for _, l := range flat.Layers {
		names[l.Name] = l.Color
	}
	if _, ok := names["0"]; !ok {
		t.Error("layer 0 must always be declared")
	}
	if color, ok := names["WALLS"]; !ok || color != 1 {
		t.Errorf("layer WALLS = color %d (declared %v), want color 1 from the source", color, ok)
	}
}

func TestFlattenDefaultVersion(t *testing.T) {
	doc := testDocument()
	doc.Version = ""

	path, err := Flatten(doc, t.TempDir())
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	flat, err := dxf.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if flat.Version != dxf.DefaultVersion {
		t.Errorf("version = %q, want %q", flat.Version, dxf.DefaultVersion)
	}
}

func TestUnitsFix(t *testing.T) {
	doc := testDocument()

	path, err := UnitsFix(doc, dxf.UnitInches, t.TempDir())
	if err != nil {
		t.Fatalf("UnitsFix failed: %v", err)
	}

	fixed, err := dxf.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if fixed.Header.InsUnits != dxf.UnitInches {
		t.Errorf("fixed InsUnits = %d, want inches", fixed.Header.InsUnits)
	}
	if doc.Header.InsUnits != dxf.UnitMillimeters {
		t.Error("source document was mutated")
	}
}

func TestUnitsFixRejectsBadCode(t *testing.T) {
	_, err := UnitsFix(testDocument(), 21, t.TempDir())
	if errors.GetCode(err) != errors.ErrCodeInvalidUnitCode {
		t.Errorf("got %v, want ErrCodeInvalidUnitCode", err)
	}
}

func TestDWGMissingConverter(t *testing.T) {
	orig := odaCandidates
	odaCandidates = []string{filepath.Join(t.TempDir(), "no-converter-here")}
	defer func() { odaCandidates = orig }()

	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "drawing.dxf")
	if err := os.WriteFile(src, []byte("0\nEOF\n"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err := DWG(context.Background(), src, t.TempDir(), testLogger())
	if err != nil {
		t.Fatalf("missing converter must not error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty when no converter exists", path)
	}
}
