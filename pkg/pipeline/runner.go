package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dxfscope/dxfscope/pkg/cache"
	"github.com/dxfscope/dxfscope/pkg/errors"
	"github.com/dxfscope/dxfscope/pkg/export"
	"github.com/dxfscope/dxfscope/pkg/observability"
	"github.com/dxfscope/dxfscope/pkg/render"
	"github.com/dxfscope/dxfscope/pkg/render/raster"
	"github.com/dxfscope/dxfscope/pkg/render/vector"
)

// Stage names as they appear in results and logs.
const (
	StageLoad     = "load"
	StageStats    = "stats"
	StagePreview  = "preview"
	StageFlatten  = "flatten"
	StageUnitsFix = "unitsfix"
	StageDWG      = "dwg"
)

// StageResult records one stage's outcome.
type StageResult struct {
	Name    string
	OK      bool
	Outputs []string
	Err     error
}

// Result collects the outcome of a pipeline run.
type Result struct {
	// OutDir is the resolved output directory of this run.
	OutDir string

	// Stats is the collected drawing summary.
	Stats Stats

	// Stages lists every executed stage in order.
	Stages []StageResult
}

// Failed returns the stages that did not succeed.
func (r *Result) Failed() []StageResult {
	var failed []StageResult
	for _, s := range r.Stages {
		if !s.OK {
			failed = append(failed, s)
		}
	}
	return failed
}

// Outputs returns every file path the run produced.
func (r *Result) Outputs() []string {
	var outputs []string
	for _, s := range r.Stages {
		outputs = append(outputs, s.Outputs...)
	}
	return outputs
}

// Runner executes the pipeline. It is stateless apart from the cache,
// logger and backend chain, so one Runner can serve many runs.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Backends []render.Backend
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the default keyer, a nil logger discards logs, and the default
// backend chain is vector first, raster second.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Backends: []render.Backend{vector.New(), raster.New()},
	}
}

// Execute runs the full pipeline. Only an unreadable document fails the
// run; any stage after load that errors is recorded in the result and the
// remaining stages still execute.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = r.Logger
	}

	result := &Result{OutDir: opts.ResolveOutDir(time.Now())}

	// Load is the only fatal stage. It runs before the output directory is
	// created, so an unreadable input leaves no trace on disk.
	var loaded *LoadedDocument
	loadErr := r.runStage(ctx, result, StageLoad, func() ([]string, error) {
		var err error
		loaded, err = LoadDocument(opts.InputPath, logger)
		return nil, err
	})
	if loadErr != nil {
		return result, loadErr
	}
	doc := loaded.Doc

	if err := os.MkdirAll(result.OutDir, 0755); err != nil {
		return result, errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}

	extents := ResolveExtents(doc)

	r.runStage(ctx, result, StageStats, func() ([]string, error) {
		result.Stats = CollectStats(doc, extents, logger)
		logger.Info("collected statistics",
			"entities", result.Stats.TotalEntities,
			"layers", len(result.Stats.Layers),
			"blocks", len(result.Stats.Blocks),
			"extent_source", extents.Source)
		return WriteReports(result.Stats, result.OutDir)
	})

	r.runStage(ctx, result, StagePreview, func() ([]string, error) {
		return r.ExportPreviews(ctx, doc, loaded.Hash, extents.SizePoint(), result.OutDir, opts)
	})

	if opts.Flatten {
		r.runStage(ctx, result, StageFlatten, func() ([]string, error) {
			path, err := export.Flatten(doc, result.OutDir)
			return pathList(path), err
		})
	}

	if opts.SetInsUnits != nil {
		r.runStage(ctx, result, StageUnitsFix, func() ([]string, error) {
			path, err := export.UnitsFix(doc, *opts.SetInsUnits, result.OutDir)
			return pathList(path), err
		})
	}

	if opts.DWG {
		r.runStage(ctx, result, StageDWG, func() ([]string, error) {
			path, err := export.DWG(ctx, opts.InputPath, result.OutDir, logger)
			return pathList(path), err
		})
	}

	if failed := result.Failed(); len(failed) > 0 {
		names := make([]string, 0, len(failed))
		for _, s := range failed {
			names = append(names, s.Name)
		}
		logger.Warn("pipeline finished with failed stages", "stages", names)
	} else {
		logger.Info("pipeline finished", "outdir", result.OutDir)
	}
	return result, nil
}

// runStage executes one stage with hooks, logging, and failure isolation.
// The returned error is the stage's error; callers other than load ignore
// it because it is already recorded in the result.
func (r *Runner) runStage(ctx context.Context, result *Result, name string, fn func() ([]string, error)) error {
	if err := ctx.Err(); err != nil {
		result.Stages = append(result.Stages, StageResult{Name: name, Err: err})
		return err
	}

	observability.Stage().OnStageStart(ctx, name)
	start := time.Now()
	outputs, err := fn()
	duration := time.Since(start)
	observability.Stage().OnStageComplete(ctx, name, duration, err)

	if err != nil {
		r.Logger.Error("stage failed", "stage", name, "error", err, "duration", duration)
	} else {
		r.Logger.Debug("stage done", "stage", name, "duration", duration, "outputs", len(outputs))
	}
	result.Stages = append(result.Stages, StageResult{Name: name, OK: err == nil, Outputs: outputs, Err: err})
	return err
}

func pathList(path string) []string {
	if path == "" {
		return nil
	}
	return []string{path}
}
