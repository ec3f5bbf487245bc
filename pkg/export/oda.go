package export

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DWGFile is the file name the ODA File Converter is expected to produce.
const DWGFile = "exported.dwg"

// odaVersion and odaFormat select the converter's output flavor.
const (
	odaVersion = "ACAD2018"
	odaFormat  = "DWG"
)

// odaCandidates are the locations the converter is probed at, in order.
// The ODA File Converter has no standard install path, so the usual spots
// are tried explicitly rather than relying on PATH alone.
var odaCandidates = []string{
	"/Applications/ODAFileConverter.app/Contents/MacOS/ODAFileConverter",
	"/usr/local/bin/ODAFileConverter",
	"/opt/ODAFileConverter/ODAFileConverter",
}

// findODAConverter returns the first candidate that exists, or "".
func findODAConverter() string {
	for _, candidate := range odaCandidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// DWG converts the input drawing to DWG through the ODA File Converter.
//
// A missing converter, a failing conversion, and a conversion that exits
// cleanly without producing the expected file are all warnings, never
// errors: DWG export is best-effort by contract. The returned path is empty
// unless the DWG actually appeared.
//
// The converter's CLI takes directories, so the input file's directory is
// passed with the file name as filter.
func DWG(ctx context.Context, inputPath, outdir string, logger *log.Logger) (string, error) {
	converter := findODAConverter()
	if converter == "" {
		logger.Warn("ODA File Converter not found; skipping DWG export",
			"candidates", odaCandidates)
		return "", nil
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return "", err
	}

	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return "", err
	}
	args := []string{
		filepath.Dir(absInput),  // input directory
		outdir,                  // output directory
		filepath.Base(absInput), // file filter
		odaVersion,
		odaFormat,
		"0", // recurse
		"1", // audit
	}

	logger.Info("running ODA File Converter", "path", converter)
	cmd := exec.CommandContext(ctx, converter, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		logger.Warn("ODA File Converter failed", "error", err, "stderr", stderr.String())
		return "", nil
	}

	target := filepath.Join(outdir, DWGFile)
	if _, err := os.Stat(target); err != nil {
		logger.Warn("conversion ran but the DWG did not appear; check the converter log", "expected", target)
		return "", nil
	}
	logger.Info("DWG exported", "path", target)
	return target, nil
}
