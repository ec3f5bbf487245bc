package dxf

import (
	"io"
	"os"
)

// Recover reads an ASCII DXF file tolerantly. Structural damage (garbage
// lines, truncated tag pairs, unterminated sections, bad numeric values,
// entities without layers) is repaired where possible and reported as
// issues. Recover only fails when the file cannot be opened or the input is
// so damaged that no document structure can be extracted at all.
func Recover(path string) (*Document, []Issue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return RecoverReader(f)
}

// RecoverReader is like [Recover] but reads from r.
func RecoverReader(r io.Reader) (*Document, []Issue, error) {
	p := newParser(r, true)
	if err := p.parse(); err != nil {
		return nil, nil, err
	}
	if emptyDocument(p.doc) && len(p.issues) > 0 {
		// Nothing usable was extracted; report the first issue as the cause.
		return nil, nil, &RecoverError{Issues: p.issues}
	}
	return p.doc, p.issues, nil
}

func emptyDocument(d *Document) bool {
	return d.Version == "" && d.Header.HandSeed == "" && d.Header.InsUnits == 0 &&
		d.Header.ExtMin == nil && d.Header.ExtMax == nil &&
		len(d.Layers) == 0 && len(d.Blocks) == 0 && len(d.Entities) == 0
}

// RecoverError is returned when tolerant reading could not extract any
// document structure from the input.
type RecoverError struct {
	Issues []Issue
}

func (e *RecoverError) Error() string {
	if len(e.Issues) == 0 {
		return "recover: no document structure found"
	}
	return "recover: no document structure found: " + e.Issues[0].String()
}
