package dxf

import (
	"bytes"
	"strings"
	"testing"
)

// sampleDXF is a small but complete drawing: two layers, one block with a
// line, and a modelspace with one of each supported entity type.
const sampleDXF = `0
SECTION
2
HEADER
9
$ACADVER
1
AC1032
9
$HANDSEED
5
20000
9
$INSUNITS
70
4
9
$EXTMIN
10
0
20
0
30
0
9
$EXTMAX
10
100
20
50
30
0
0
ENDSEC
0
SECTION
2
TABLES
0
TABLE
2
LAYER
70
2
0
LAYER
2
0
70
0
62
7
0
LAYER
2
WALLS
70
0
62
1
0
ENDTAB
0
ENDSEC
0
SECTION
2
BLOCKS
0
BLOCK
8
0
2
DOOR
70
0
10
0
20
0
30
0
3
DOOR
0
LINE
8
0
10
0
20
0
30
0
11
10
21
0
31
0
0
ENDBLK
0
ENDSEC
0
SECTION
2
ENTITIES
0
LINE
8
WALLS
10
0
20
0
30
0
11
100
21
0
31
0
0
CIRCLE
8
WALLS
10
50
20
25
30
0
40
5
0
ARC
8
WALLS
10
10
20
10
30
0
40
4
50
0
51
90
0
LWPOLYLINE
8
0
90
3
70
1
10
0
20
0
10
10
20
0
10
10
20
10
0
TEXT
8
0
10
1
20
1
30
0
40
2.5
1
CABINET
0
INSERT
8
0
2
DOOR
10
30
20
40
30
0
41
2
42
2
50
90
0
ENDSEC
0
EOF
`

func TestReadSample(t *testing.T) {
	doc, err := Read(strings.NewReader(sampleDXF))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if doc.Version != "AC1032" {
		t.Errorf("Version = %q, want AC1032", doc.Version)
	}
	if doc.Header.HandSeed != "20000" {
		t.Errorf("HandSeed = %q, want 20000", doc.Header.HandSeed)
	}
	if doc.Header.InsUnits != UnitMillimeters {
		t.Errorf("InsUnits = %d, want %d", doc.Header.InsUnits, UnitMillimeters)
	}
	if doc.Header.ExtMax == nil || doc.Header.ExtMax.X != 100 || doc.Header.ExtMax.Y != 50 {
		t.Errorf("ExtMax = %+v, want (100, 50, 0)", doc.Header.ExtMax)
	}
	if len(doc.Layers) != 2 {
		t.Fatalf("got %d layers, want 2", len(doc.Layers))
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Name != "DOOR" {
		t.Fatalf("blocks = %+v, want one block DOOR", doc.Blocks)
	}
	if len(doc.Blocks[0].Entities) != 1 {
		t.Errorf("block DOOR has %d entities, want 1", len(doc.Blocks[0].Entities))
	}
	if len(doc.Entities) != 6 {
		t.Fatalf("got %d modelspace entities, want 6", len(doc.Entities))
	}

	line := doc.Entities[0]
	if line.Type != "LINE" || line.Layer != "WALLS" {
		t.Errorf("entity 0 = %s on %s, want LINE on WALLS", line.Type, line.Layer)
	}
	if line.Points[1].X != 100 {
		t.Errorf("line end X = %g, want 100", line.Points[1].X)
	}

	poly := doc.Entities[3]
	if poly.Type != "LWPOLYLINE" || len(poly.Points) != 3 || !poly.Closed {
		t.Errorf("polyline = %+v, want 3 closed vertices", poly)
	}

	ins := doc.Entities[5]
	if ins.Type != "INSERT" || ins.Block != "DOOR" || ins.ScaleX != 2 || ins.Rotation != 90 {
		t.Errorf("insert = %+v, want DOOR scale 2 rotation 90", ins)
	}
}

func TestReadStrictFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"garbage code line", "0\nSECTION\n2\nENTITIES\nnot-a-code\nLINE\n0\nENDSEC\n0\nEOF\n"},
		{"truncated pair", "0\nSECTION\n2\nENTITIES\n0\nLINE\n10\n"},
		{"bad coordinate", "0\nSECTION\n2\nENTITIES\n0\nLINE\n10\nabc\n0\nENDSEC\n0\nEOF\n"},
		{"missing EOF", "0\nSECTION\n2\nENTITIES\n0\nENDSEC\n"},
	}

	for _, tt := range tests {
		if _, err := Read(strings.NewReader(tt.input)); err == nil {
			t.Errorf("%s: strict Read succeeded, want error", tt.name)
		}
	}
}

func TestRecoverRepairsDamage(t *testing.T) {
	// Damaged variant: garbage line, bad coordinate, entity without layer,
	// missing ENDSEC and EOF.
	damaged := `0
SECTION
2
ENTITIES
garbage line
0
LINE
10
0
20
abc
11
10
21
10
0
CIRCLE
8
WALLS
10
5
20
5
40
-3
`
	doc, issues, err := RecoverReader(strings.NewReader(damaged))
	if err != nil {
		t.Fatalf("RecoverReader failed: %v", err)
	}
	if len(doc.Entities) != 2 {
		t.Fatalf("got %d entities, want 2", len(doc.Entities))
	}
	if doc.Entities[0].Layer != "0" {
		t.Errorf("layerless entity assigned %q, want layer 0", doc.Entities[0].Layer)
	}
	if doc.Entities[1].Radius != 3 {
		t.Errorf("negative radius repaired to %g, want 3", doc.Entities[1].Radius)
	}
	if len(issues) == 0 {
		t.Error("recover reported no issues for damaged input")
	}
}

func TestRecoverNothingUsable(t *testing.T) {
	if _, _, err := RecoverReader(strings.NewReader("complete\ngarbage\nhere\n")); err == nil {
		t.Error("RecoverReader succeeded on pure garbage, want error")
	}
}

func TestAudit(t *testing.T) {
	doc := &Document{
		Layers: []Layer{{Name: "0", Color: 7}},
		Entities: []Entity{
			{Type: "LINE", Layer: "GHOST", Points: []Point{{}, {X: 1}}, Known: true},
			{Type: "CIRCLE", Layer: "0", Points: []Point{{}}, Radius: 0, Known: true},
			{Type: "INSERT", Layer: "0", Points: []Point{{}}, Block: "MISSING", ScaleX: 1, ScaleY: 1, Known: true},
		},
	}

	issues := doc.Audit()
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3: %v", len(issues), issues)
	}
	if !doc.HasLayer("GHOST") {
		t.Error("audit did not add undeclared layer GHOST to the table")
	}

	// A second audit of the repaired document only reports the unrepairable issues.
	again := doc.Audit()
	if len(again) != 2 {
		t.Errorf("second audit got %d issues, want 2: %v", len(again), again)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	doc, err := Read(strings.NewReader(sampleDXF))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("re-Read failed: %v", err)
	}
	if back.Version != doc.Version {
		t.Errorf("Version = %q, want %q", back.Version, doc.Version)
	}
	if back.Header.InsUnits != doc.Header.InsUnits {
		t.Errorf("InsUnits = %d, want %d", back.Header.InsUnits, doc.Header.InsUnits)
	}
	if len(back.Layers) != len(doc.Layers) {
		t.Errorf("got %d layers, want %d", len(back.Layers), len(doc.Layers))
	}
	if len(back.Entities) != len(doc.Entities) {
		t.Errorf("got %d entities, want %d", len(back.Entities), len(doc.Entities))
	}
	if len(back.Blocks) != 1 || len(back.Blocks[0].Entities) != 1 {
		t.Errorf("blocks did not round-trip: %+v", back.Blocks)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	doc, err := Read(strings.NewReader(sampleDXF))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	cp := doc.Copy()
	cp.Header.InsUnits = UnitInches
	cp.Entities[0].Layer = "CHANGED"
	cp.Entities[0].Points[0].X = 999
	cp.Layers[0].Name = "RENAMED"

	if doc.Header.InsUnits != UnitMillimeters {
		t.Error("copy mutation leaked into original header")
	}
	if doc.Entities[0].Layer != "WALLS" {
		t.Error("copy mutation leaked into original entity")
	}
	if doc.Entities[0].Points[0].X != 0 {
		t.Error("copy mutation leaked into original entity points")
	}
	if doc.Layers[0].Name != "0" {
		t.Error("copy mutation leaked into original layer table")
	}
}

func TestLineWithNamedLayerAndHandle(t *testing.T) {
	input := "0\nSECTION\n2\nENTITIES\n0\nLINE\n5\n2AF\n8\nWALLS\n10\n1.5\n20\n2.5\n11\n3.0\n21\n4.0\n0\nENDSEC\n0\nEOF\n"

	doc, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Fatalf("got %d entities, want 1", len(doc.Entities))
	}
	e := doc.Entities[0]
	if e.Layer != "WALLS" || e.Handle != "2AF" {
		t.Errorf("layer/handle = %q/%q, want WALLS/2AF", e.Layer, e.Handle)
	}
	if e.Points[0].X != 1.5 || e.Points[1].Y != 4.0 {
		t.Errorf("coordinates not parsed: %+v", e.Points)
	}

	// The lenient reader must not log issues for the non-numeric tags.
	rec, issues, err := RecoverReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("RecoverReader failed: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("clean LINE produced issues: %v", issues)
	}
	if len(rec.Entities) != 1 {
		t.Errorf("got %d recovered entities, want 1", len(rec.Entities))
	}
}

func TestUnknownEntityPreserved(t *testing.T) {
	input := "0\nSECTION\n2\nENTITIES\n0\nSPLINE\n8\n0\n70\n8\n0\nENDSEC\n0\nEOF\n"
	doc, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Fatalf("got %d entities, want 1", len(doc.Entities))
	}
	e := doc.Entities[0]
	if e.Known {
		t.Error("SPLINE should be unknown")
	}
	if e.Type != "SPLINE" || e.Layer != "0" {
		t.Errorf("entity = %+v, want SPLINE on layer 0", e)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "SPLINE") {
		t.Error("unknown entity not preserved by writer")
	}
}
