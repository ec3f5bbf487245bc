package dxf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadFile reads an ASCII DXF file strictly. Any malformed tag pair, bad
// numeric value, or structural damage aborts the read with an error.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read reads an ASCII DXF document strictly from r.
func Read(r io.Reader) (*Document, error) {
	p := newParser(r, false)
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

// tagReader reads group code / value pairs line by line.
type tagReader struct {
	sc   *bufio.Scanner
	line int
}

func newTagReader(r io.Reader) *tagReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	return &tagReader{sc: sc}
}

// errTruncated marks a code line with no following value line.
var errTruncated = fmt.Errorf("truncated tag pair at end of input")

// next returns the next tag. ok is false at end of input. A non-numeric code
// line or a missing value line is returned as an error; lenient callers
// resynchronize, strict callers abort.
func (r *tagReader) next() (Tag, bool, error) {
	if !r.sc.Scan() {
		return Tag{}, false, r.sc.Err()
	}
	r.line++
	codeStr := strings.TrimSpace(r.sc.Text())
	code, err := strconv.Atoi(codeStr)
	if err != nil {
		return Tag{}, true, fmt.Errorf("line %d: group code %q is not an integer", r.line, codeStr)
	}
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return Tag{}, false, err
		}
		return Tag{}, true, errTruncated
	}
	r.line++
	return Tag{Code: code, Value: strings.TrimSpace(r.sc.Text())}, true, nil
}

// parser builds a Document from a tag stream. In lenient mode malformed
// input is repaired where possible and recorded as issues; in strict mode
// the first problem aborts the parse.
type parser struct {
	r       *tagReader
	doc     *Document
	lenient bool
	issues  []Issue
	pending *Tag
	failure error
}

func newParser(r io.Reader, lenient bool) *parser {
	return &parser{
		r:       newTagReader(r),
		doc:     &Document{},
		lenient: lenient,
	}
}

// fail records a fatal error in strict mode, or an issue in lenient mode.
// It reports whether parsing must stop.
func (p *parser) fail(err error) bool {
	if p.lenient {
		p.addIssue(p.r.line, "%s", err)
		return false
	}
	p.failure = err
	return true
}

func (p *parser) addIssue(line int, format string, args ...any) {
	p.issues = append(p.issues, Issue{Line: line, Message: fmt.Sprintf(format, args...)})
}

// next returns the next tag, transparently resynchronizing after garbage in
// lenient mode. ok is false at end of input or on fatal error.
func (p *parser) next() (Tag, bool) {
	if p.pending != nil {
		t := *p.pending
		p.pending = nil
		return t, true
	}
	for {
		t, ok, err := p.r.next()
		if err != nil {
			if err == errTruncated {
				if p.fail(errTruncated) {
					return Tag{}, false
				}
				return Tag{}, false // nothing left to read either way
			}
			if p.fail(err) {
				return Tag{}, false
			}
			continue // lenient: skip the garbage line and resync
		}
		if !ok {
			return Tag{}, false
		}
		return t, true
	}
}

// push returns a tag to the stream. At most one tag can be pending.
func (p *parser) push(t Tag) {
	p.pending = &t
}

func (p *parser) parse() error {
	sawEOF := false
	for {
		t, ok := p.next()
		if !ok {
			break
		}
		switch {
		case t.Code == 0 && t.Value == "SECTION":
			if !p.parseSection() {
				return p.failure
			}
		case t.Code == 0 && t.Value == "EOF":
			sawEOF = true
		case t.Code == 999:
			// comment
		default:
			if p.fail(fmt.Errorf("line %d: unexpected tag (%d, %q) between sections", p.r.line, t.Code, t.Value)) {
				return p.failure
			}
		}
	}
	if p.failure != nil {
		return p.failure
	}
	if !sawEOF {
		if !p.lenient {
			return fmt.Errorf("missing EOF marker")
		}
		p.addIssue(p.r.line, "missing EOF marker")
	}
	return nil
}

// parseSection dispatches on the section name. Reports false on fatal error.
func (p *parser) parseSection() bool {
	t, ok := p.next()
	if !ok {
		return p.failure == nil
	}
	if t.Code != 2 {
		if p.fail(fmt.Errorf("line %d: SECTION not followed by name tag", p.r.line)) {
			return false
		}
		p.push(t)
		p.skipSection()
		return true
	}
	switch t.Value {
	case "HEADER":
		return p.parseHeader()
	case "TABLES":
		return p.parseTables()
	case "BLOCKS":
		return p.parseBlocks()
	case "ENTITIES":
		ents, ok := p.parseEntityList("ENDSEC")
		p.doc.Entities = append(p.doc.Entities, ents...)
		return ok
	default:
		p.skipSection()
		return true
	}
}

// skipSection consumes tags up to and including the next ENDSEC.
func (p *parser) skipSection() {
	for {
		t, ok := p.next()
		if !ok {
			return
		}
		if t.Code == 0 && t.Value == "ENDSEC" {
			return
		}
	}
}

func (p *parser) parseHeader() bool {
	for {
		t, ok := p.next()
		if !ok {
			if p.failure != nil {
				return false
			}
			p.addIssue(p.r.line, "HEADER section not terminated by ENDSEC")
			return true
		}
		if t.Code == 0 && t.Value == "ENDSEC" {
			return true
		}
		if t.Code != 9 {
			if p.fail(fmt.Errorf("line %d: unexpected tag (%d, %q) in HEADER", p.r.line, t.Code, t.Value)) {
				return false
			}
			continue
		}
		if !p.parseHeaderVar(t.Value) {
			return false
		}
	}
}

// parseHeaderVar consumes the value tags following a 9/$NAME tag.
func (p *parser) parseHeaderVar(name string) bool {
	var tags []Tag
	for {
		t, ok := p.next()
		if !ok {
			break
		}
		if t.Code == 0 || t.Code == 9 {
			p.push(t)
			break
		}
		tags = append(tags, t)
	}
	switch name {
	case "$ACADVER":
		if v, ok := findTag(tags, 1); ok {
			p.doc.Version = v
		}
	case "$HANDSEED":
		if v, ok := findTag(tags, 5); ok {
			p.doc.Header.HandSeed = v
		}
	case "$INSUNITS":
		if v, ok := findTag(tags, 70); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				if p.fail(fmt.Errorf("line %d: $INSUNITS value %q is not an integer", p.r.line, v)) {
					return false
				}
				n = 0
			}
			p.doc.Header.InsUnits = n
		}
	case "$EXTMIN":
		pt, ok := p.headerPoint(tags)
		if !ok {
			return false
		}
		p.doc.Header.ExtMin = pt
	case "$EXTMAX":
		pt, ok := p.headerPoint(tags)
		if !ok {
			return false
		}
		p.doc.Header.ExtMax = pt
	}
	return true
}

func (p *parser) headerPoint(tags []Tag) (*Point, bool) {
	pt := &Point{}
	seen := false
	for _, t := range tags {
		v, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			if p.fail(fmt.Errorf("line %d: coordinate %q is not a number", p.r.line, t.Value)) {
				return nil, false
			}
			v = 0
		}
		switch t.Code {
		case 10:
			pt.X, seen = v, true
		case 20:
			pt.Y, seen = v, true
		case 30:
			pt.Z, seen = v, true
		}
	}
	if !seen {
		return nil, true
	}
	return pt, true
}

func (p *parser) parseTables() bool {
	for {
		t, ok := p.next()
		if !ok {
			if p.failure != nil {
				return false
			}
			p.addIssue(p.r.line, "TABLES section not terminated by ENDSEC")
			return true
		}
		if t.Code == 0 && t.Value == "ENDSEC" {
			return true
		}
		if t.Code == 0 && t.Value == "TABLE" {
			if !p.parseTable() {
				return false
			}
		}
	}
}

// parseTable consumes one TABLE..ENDTAB group, collecting LAYER entries.
func (p *parser) parseTable() bool {
	var isLayerTable bool
	for {
		t, ok := p.next()
		if !ok {
			return p.failure == nil
		}
		switch {
		case t.Code == 2 && !isLayerTable:
			isLayerTable = t.Value == "LAYER"
		case t.Code == 0 && t.Value == "ENDTAB":
			return true
		case t.Code == 0 && t.Value == "LAYER" && isLayerTable:
			if !p.parseLayer() {
				return false
			}
		case t.Code == 0 && t.Value == "ENDSEC":
			// table never closed
			if p.fail(fmt.Errorf("line %d: TABLE not terminated by ENDTAB", p.r.line)) {
				return false
			}
			p.push(t)
			return true
		}
	}
}

func (p *parser) parseLayer() bool {
	layer := Layer{Color: 7}
	for {
		t, ok := p.next()
		if !ok {
			break
		}
		if t.Code == 0 {
			p.push(t)
			break
		}
		switch t.Code {
		case 2:
			layer.Name = t.Value
		case 62:
			if n, err := strconv.Atoi(t.Value); err == nil {
				layer.Color = n
			} else if p.fail(fmt.Errorf("line %d: layer color %q is not an integer", p.r.line, t.Value)) {
				return false
			}
		}
	}
	if layer.Name == "" {
		p.addIssue(p.r.line, "LAYER table entry without a name, dropped")
		return true
	}
	if p.doc.HasLayer(layer.Name) {
		p.addIssue(p.r.line, "duplicate LAYER table entry %q, dropped", layer.Name)
		return true
	}
	p.doc.Layers = append(p.doc.Layers, layer)
	return true
}

func (p *parser) parseBlocks() bool {
	for {
		t, ok := p.next()
		if !ok {
			if p.failure != nil {
				return false
			}
			p.addIssue(p.r.line, "BLOCKS section not terminated by ENDSEC")
			return true
		}
		if t.Code == 0 && t.Value == "ENDSEC" {
			return true
		}
		if t.Code == 0 && t.Value == "BLOCK" {
			if !p.parseBlock() {
				return false
			}
		}
	}
}

func (p *parser) parseBlock() bool {
	block := Block{}
	// block header tags, until the first contained entity or ENDBLK
	for {
		t, ok := p.next()
		if !ok {
			return p.failure == nil
		}
		if t.Code == 0 {
			p.push(t)
			break
		}
		switch t.Code {
		case 2, 3:
			if block.Name == "" {
				block.Name = t.Value
			}
		case 10, 20, 30:
			v, err := strconv.ParseFloat(t.Value, 64)
			if err != nil {
				if p.fail(fmt.Errorf("line %d: block base coordinate %q is not a number", p.r.line, t.Value)) {
					return false
				}
				v = 0
			}
			switch t.Code {
			case 10:
				block.Base.X = v
			case 20:
				block.Base.Y = v
			case 30:
				block.Base.Z = v
			}
		}
	}
	ents, ok := p.parseEntityList("ENDBLK")
	if !ok {
		return false
	}
	block.Entities = ents
	if block.Name == "" {
		p.addIssue(p.r.line, "BLOCK without a name, dropped")
		return true
	}
	p.doc.Blocks = append(p.doc.Blocks, block)
	return true
}

// parseEntityList parses entities until the given 0-code terminator
// (ENDSEC for modelspace, ENDBLK for block content).
func (p *parser) parseEntityList(terminator string) ([]Entity, bool) {
	var ents []Entity
	for {
		t, ok := p.next()
		if !ok {
			if p.failure != nil {
				return nil, false
			}
			p.addIssue(p.r.line, "entity list not terminated by %s", terminator)
			return ents, true
		}
		if t.Code == 0 && t.Value == terminator {
			return ents, true
		}
		if t.Code != 0 {
			if p.fail(fmt.Errorf("line %d: unexpected tag (%d, %q) between entities", p.r.line, t.Code, t.Value)) {
				return nil, false
			}
			continue
		}
		// ENDBLK inside ENTITIES, or ENDSEC inside a block: treat as terminator damage
		if t.Value == "ENDSEC" || t.Value == "ENDBLK" {
			if p.fail(fmt.Errorf("line %d: expected %s, found %s", p.r.line, terminator, t.Value)) {
				return nil, false
			}
			return ents, true
		}
		e, ok := p.parseEntity(t.Value)
		if !ok {
			return nil, false
		}
		ents = append(ents, e)
	}
}

// parseEntity reads all tags of one entity (up to the next 0 tag) and
// interprets the types the package knows.
func (p *parser) parseEntity(typ string) (Entity, bool) {
	e := Entity{Type: typ, Layer: "0", ScaleX: 1, ScaleY: 1, Known: true}
	var tags []Tag
	sawLayer := false
	for {
		t, ok := p.next()
		if !ok {
			break
		}
		if t.Code == 0 {
			p.push(t)
			break
		}
		tags = append(tags, t)
	}
	if p.failure != nil {
		return Entity{}, false
	}
	for _, t := range tags {
		switch t.Code {
		case 8:
			e.Layer = t.Value
			sawLayer = true
		case 5:
			e.Handle = t.Value
		}
	}
	if !sawLayer && p.lenient {
		p.addIssue(p.r.line, "%s entity without layer, assigned layer 0", typ)
	}

	num := func(t Tag) (float64, bool) {
		v, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			if p.fail(fmt.Errorf("line %d: %s value %q is not a number", p.r.line, typ, t.Value)) {
				return 0, false
			}
			return 0, true
		}
		return v, true
	}

	switch typ {
	case "LINE":
		start, end := Point{}, Point{}
		for _, t := range tags {
			switch t.Code {
			case 10, 20, 30, 11, 21, 31:
				v, ok := num(t)
				if !ok {
					return Entity{}, false
				}
				switch t.Code {
				case 10:
					start.X = v
				case 20:
					start.Y = v
				case 30:
					start.Z = v
				case 11:
					end.X = v
				case 21:
					end.Y = v
				case 31:
					end.Z = v
				}
			}
		}
		e.Points = []Point{start, end}
	case "CIRCLE", "ARC":
		center := Point{}
		for _, t := range tags {
			switch t.Code {
			case 10, 20, 30, 40, 50, 51:
				v, ok := num(t)
				if !ok {
					return Entity{}, false
				}
				switch t.Code {
				case 10:
					center.X = v
				case 20:
					center.Y = v
				case 30:
					center.Z = v
				case 40:
					e.Radius = v
				case 50:
					e.StartAngle = v
				case 51:
					e.EndAngle = v
				}
			}
		}
		e.Points = []Point{center}
		if e.Radius < 0 {
			if p.lenient {
				p.addIssue(p.r.line, "%s with negative radius %g, negated", typ, e.Radius)
				e.Radius = -e.Radius
			}
		}
	case "LWPOLYLINE":
		var cur *Point
		for _, t := range tags {
			switch t.Code {
			case 10:
				v, ok := num(t)
				if !ok {
					return Entity{}, false
				}
				e.Points = append(e.Points, Point{X: v})
				cur = &e.Points[len(e.Points)-1]
			case 20:
				v, ok := num(t)
				if !ok {
					return Entity{}, false
				}
				if cur == nil {
					if p.fail(fmt.Errorf("line %d: LWPOLYLINE Y coordinate before X", p.r.line)) {
						return Entity{}, false
					}
					continue
				}
				cur.Y = v
			case 70:
				n, err := strconv.Atoi(t.Value)
				if err != nil {
					if p.fail(fmt.Errorf("line %d: LWPOLYLINE flags %q are not an integer", p.r.line, t.Value)) {
						return Entity{}, false
					}
					continue
				}
				e.Closed = n&1 != 0
			}
		}
	case "POINT":
		pt := Point{}
		for _, t := range tags {
			switch t.Code {
			case 10, 20, 30:
				v, ok := num(t)
				if !ok {
					return Entity{}, false
				}
				switch t.Code {
				case 10:
					pt.X = v
				case 20:
					pt.Y = v
				case 30:
					pt.Z = v
				}
			}
		}
		e.Points = []Point{pt}
	case "TEXT", "MTEXT":
		anchor := Point{}
		for _, t := range tags {
			switch t.Code {
			case 10, 20, 30, 40:
				v, ok := num(t)
				if !ok {
					return Entity{}, false
				}
				switch t.Code {
				case 10:
					anchor.X = v
				case 20:
					anchor.Y = v
				case 30:
					anchor.Z = v
				case 40:
					e.Height = v
				}
			case 1:
				e.Text = t.Value
			}
		}
		e.Points = []Point{anchor}
	case "INSERT":
		ins := Point{}
		for _, t := range tags {
			switch t.Code {
			case 2:
				e.Block = t.Value
			case 10, 20, 30, 41, 42, 50:
				v, ok := num(t)
				if !ok {
					return Entity{}, false
				}
				switch t.Code {
				case 10:
					ins.X = v
				case 20:
					ins.Y = v
				case 30:
					ins.Z = v
				case 41:
					e.ScaleX = v
				case 42:
					e.ScaleY = v
				case 50:
					e.Rotation = v
				}
			}
		}
		e.Points = []Point{ins}
		if e.Block == "" && p.lenient {
			p.addIssue(p.r.line, "INSERT without block name")
		}
	default:
		e.Known = false
		e.Raw = tags
	}
	return e, true
}

func findTag(tags []Tag, code int) (string, bool) {
	for _, t := range tags {
		if t.Code == code {
			return t.Value, true
		}
	}
	return "", false
}
