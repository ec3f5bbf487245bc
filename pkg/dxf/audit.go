package dxf

import "fmt"

// Audit runs a structural audit over the document and returns the issues it
// found. Where possible the document is repaired in place:
//
//   - entities on undeclared layers: the layer is added to the layer table
//   - INSERTs referencing undefined blocks: reported (the entity is kept so
//     statistics still count it)
//   - circles and arcs with non-positive radius: reported
//   - text entities with non-positive height: reported
//
// Audit never fails; a clean document yields a nil slice.
func (d *Document) Audit() []Issue {
	var issues []Issue

	addLayer := func(name, context string) {
		if name == "" || d.HasLayer(name) {
			return
		}
		issues = append(issues, Issue{Message: fmt.Sprintf("%s references undeclared layer %q, added to layer table", context, name)})
		d.Layers = append(d.Layers, Layer{Name: name, Color: 7})
	}

	auditEntity := func(e *Entity, where string) {
		context := fmt.Sprintf("%s entity in %s", e.Type, where)
		addLayer(e.Layer, context)
		switch e.Type {
		case "CIRCLE", "ARC":
			if e.Radius <= 0 {
				issues = append(issues, Issue{Message: fmt.Sprintf("%s has non-positive radius %g", context, e.Radius)})
			}
		case "TEXT", "MTEXT":
			if e.Height <= 0 {
				issues = append(issues, Issue{Message: fmt.Sprintf("%s has non-positive height %g", context, e.Height)})
			}
		case "INSERT":
			if e.Block == "" {
				issues = append(issues, Issue{Message: fmt.Sprintf("%s has no block name", context)})
			} else if d.BlockByName(e.Block) == nil {
				issues = append(issues, Issue{Message: fmt.Sprintf("%s references undefined block %q", context, e.Block)})
			}
		}
	}

	for i := range d.Entities {
		auditEntity(&d.Entities[i], "modelspace")
	}
	for bi := range d.Blocks {
		b := &d.Blocks[bi]
		for i := range b.Entities {
			auditEntity(&b.Entities[i], fmt.Sprintf("block %q", b.Name))
		}
	}
	return issues
}
