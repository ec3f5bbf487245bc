// Package export writes derived drawings next to the analysis reports: a
// flattened DXF without block references, a copy with a corrected unit
// header, and optionally a DWG via an external converter.
package export

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/dxfscope/dxfscope/pkg/dxf"
	"github.com/dxfscope/dxfscope/pkg/errors"
	"github.com/dxfscope/dxfscope/pkg/render"
	"github.com/dxfscope/dxfscope/pkg/render/dxfout"
)

// FlattenedFile is the flatten export's file name.
const FlattenedFile = "flattened.dxf"

// Flatten writes a new drawing whose modelspace contains the fully expanded
// geometry of doc: every INSERT is replaced by its block's entities with
// placement transforms applied. The output keeps the source's format
// version, falling back to the default when the source has none.
func Flatten(doc *dxf.Document, outdir string) (string, error) {
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}

	out := &dxf.Document{Version: doc.Version}
	if out.Version == "" {
		out.Version = dxf.DefaultVersion
	}
	out.Header.InsUnits = doc.Header.InsUnits
	out.Entities = dxfout.Entities(render.ExtractShapes(doc))
	out.Layers = layerTableFor(doc, out.Entities)

	path := filepath.Join(outdir, FlattenedFile)
	if err := out.SaveAs(path); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "write flattened drawing")
	}
	return path, nil
}

// layerTableFor declares every layer the flattened entities reference,
// keeping the source's colors where the layer was declared there.
func layerTableFor(src *dxf.Document, entities []dxf.Entity) []dxf.Layer {
	colors := make(map[string]int, len(src.Layers))
	for _, l := range src.Layers {
		colors[l.Name] = l.Color
	}

	seen := map[string]bool{"0": true}
	names := []string{"0"}
	for i := range entities {
		if name := entities[i].Layer; name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)

	layers := make([]dxf.Layer, 0, len(names))
	for _, name := range names {
		color, ok := colors[name]
		if !ok {
			color = 7
		}
		layers = append(layers, dxf.Layer{Name: name, Color: color})
	}
	return layers
}
