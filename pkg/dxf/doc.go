// Package dxf implements a minimal reader and writer for ASCII DXF drawings.
//
// The package models a drawing as a [Document]: header variables, the layer
// table, block definitions, and the modelspace entity list. It understands the
// geometric entity types the rest of dxfscope needs (LINE, CIRCLE, ARC,
// LWPOLYLINE, POINT, TEXT, MTEXT, INSERT); anything else is preserved as an
// opaque tag list so statistics and round-trip writing still see it.
//
// # Reading
//
// Two read strategies are provided:
//
//   - [ReadFile] is strict: any malformed tag pair aborts with an error.
//   - [Recover] is tolerant: structural damage is repaired where possible and
//     reported as a list of [Issue] values instead of failing the read.
//
// A recovered document can additionally be checked with [Document.Audit],
// which validates cross references (entity layers, block references) and
// repairs the layer table where entities reference undeclared layers.
//
// # Writing
//
// [Document.SaveAs] writes the document back out as ASCII DXF. Output from
// the writer round-trips through [ReadFile].
package dxf
