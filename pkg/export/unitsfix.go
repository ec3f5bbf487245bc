package export

import (
	"os"
	"path/filepath"

	"github.com/dxfscope/dxfscope/pkg/dxf"
	"github.com/dxfscope/dxfscope/pkg/errors"
)

// UnitsFixFile is the units-fix export's file name.
const UnitsFixFile = "cleaned_units_fix.dxf"

// UnitsFix writes a copy of doc with its INSUNITS header set to unitCode.
// The input document is never mutated: the header change happens on a deep
// copy only.
func UnitsFix(doc *dxf.Document, unitCode int, outdir string) (string, error) {
	if unitCode < 0 || unitCode > 20 {
		return "", errors.New(errors.ErrCodeInvalidUnitCode, "invalid INSUNITS code: %d", unitCode)
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}

	fixed := doc.Copy()
	fixed.Header.InsUnits = unitCode

	path := filepath.Join(outdir, UnitsFixFile)
	if err := fixed.SaveAs(path); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write units-fixed drawing")
	}
	return path, nil
}
