// Package render turns a DXF document into previews.
//
// # Architecture
//
// Rendering is split into a frontend and pluggable backends:
//
//   - [ExtractShapes] is the frontend: it walks the modelspace once,
//     resolves INSERT references through their block definitions
//     (translate, scale, rotate) and produces a flat display list of
//     primitive [Shape] values. The same display list feeds preview
//     rendering, extent computation, and the flatten exporter.
//   - A [Backend] consumes the display list and produces the requested
//     output formats in one pass. Backends expose a capability probe
//     (Available) so callers can fall back to the next backend in an
//     ordered list via [RenderWithFallback].
//
// # Backends
//
// Two image backends are provided:
//
//   - [vector.Backend] (primary): native SVG, PDF via seehuhn.de/go/pdf,
//     PNG via fogleman/gg.
//   - [raster.Backend] (secondary): renders once to a gg raster at the
//     requested DPI, derives PNG directly, PDF by embedding the raster via
//     pdfcpu, and SVG by wrapping the raster in an <image> element.
//
// Output layout parameters (page size, margins, fit/scale) are identical
// across backends; the bytes are not.
//
// Page geometry comes from [ResolvePage], which maps an ISO size name plus
// an orientation policy onto physical page dimensions.
package render
