package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dxfscope/dxfscope/pkg/cache"
	"github.com/dxfscope/dxfscope/pkg/dxf"
	"github.com/dxfscope/dxfscope/pkg/observability"
	"github.com/dxfscope/dxfscope/pkg/render"
)

// PreviewBase is the file name stem of preview artifacts.
const PreviewBase = "preview_modelspace"

// ExportPreviews renders the modelspace into the requested formats and
// writes them to outdir. With no format requested it is a silent no-op.
//
// Artifacts are cached under the document content hash plus all render
// options; when every requested format hits the cache the backends are not
// invoked at all.
func (r *Runner) ExportPreviews(ctx context.Context, doc *dxf.Document, docHash string, size *dxf.Point, outdir string, opts Options) ([]string, error) {
	if !opts.PDF && !opts.PNG && !opts.SVG {
		return nil, nil
	}

	layout, err := render.ResolvePage(opts.Page, render.Orientation(opts.Orientation), size, opts.MarginMM)
	if err != nil {
		return nil, err
	}

	formats := requestedFormats(opts)

	// The cache key names the backend that would render, so a vector
	// cache entry is never served once the vector backend goes away.
	candidate := ""
	for _, b := range r.Backends {
		if b.Available() == nil {
			candidate = b.Name()
			break
		}
	}
	if candidate != "" {
		if outputs, ok := r.previewsFromCache(ctx, docHash, candidate, formats, outdir, opts); ok {
			r.Logger.Debug("previews served from cache", "backend", candidate)
			return outputs, nil
		}
	}

	shapes := render.ExtractShapes(doc)
	result, used, warnings, err := render.RenderWithFallback(r.Backends, shapes, layout, opts.renderOptions())
	for _, w := range warnings {
		r.Logger.Warn(w)
	}
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("previews rendered", "backend", used, "shapes", len(shapes))

	var outputs []string
	for _, f := range formats {
		data := formatBytes(result, f)
		path := filepath.Join(outdir, PreviewBase+"."+f)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return outputs, err
		}
		outputs = append(outputs, path)

		key := r.Keyer.ArtifactKey(docHash, r.artifactOpts(used, f, opts))
		if cerr := r.Cache.Set(ctx, key, data, cache.TTLArtifact); cerr == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return outputs, nil
}

// previewsFromCache writes all requested formats from the cache, reporting
// ok only when every single one hit.
func (r *Runner) previewsFromCache(ctx context.Context, docHash, backend string, formats []string, outdir string, opts Options) ([]string, bool) {
	blobs := make(map[string][]byte, len(formats))
	for _, f := range formats {
		key := r.Keyer.ArtifactKey(docHash, r.artifactOpts(backend, f, opts))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		blobs[f] = data
	}

	var outputs []string
	for _, f := range formats {
		path := filepath.Join(outdir, PreviewBase+"."+f)
		if err := os.WriteFile(path, blobs[f], 0644); err != nil {
			return nil, false
		}
		outputs = append(outputs, path)
	}
	return outputs, true
}

func (r *Runner) artifactOpts(backend, format string, opts Options) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Backend:     backend,
		Format:      format,
		Page:        opts.Page,
		Orientation: opts.Orientation,
		DPI:         opts.DPI,
		MarginMM:    opts.MarginMM,
		FitToPage:   opts.FitToPage,
		FixedScale:  opts.FixedScale,
	}
}

func requestedFormats(opts Options) []string {
	var formats []string
	if opts.PDF {
		formats = append(formats, "pdf")
	}
	if opts.PNG {
		formats = append(formats, "png")
	}
	if opts.SVG {
		formats = append(formats, "svg")
	}
	return formats
}

func formatBytes(res render.RenderResult, format string) []byte {
	switch format {
	case "pdf":
		return res.PDF
	case "png":
		return res.PNG
	default:
		return res.SVG
	}
}
