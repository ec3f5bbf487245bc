package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dxfscope/dxfscope/pkg/pipeline"
)

// newAnalyzeCmd creates the analyze command, which runs the full pipeline.
func newAnalyzeCmd() *cobra.Command {
	flags := newRunFlags()

	cmd := &cobra.Command{
		Use:   "analyze [drawing.dxf]",
		Short: "Run the full analysis pipeline on a DXF drawing",
		Long: `Run the full analysis pipeline on a DXF drawing.

The analyze command loads the drawing (recovering damaged files where
possible), writes statistics as summary.json plus CSV reports, renders
page-fitted previews, and exports a flattened copy. A unit-fixed copy and
a DWG conversion are produced on request.

A failing stage is reported and skipped; the remaining stages still run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.applyConfig(cmd); err != nil {
				return err
			}
			return runAnalyze(cmd.Context(), flags, inputArg(args))
		},
	}

	flags.bindCommon(cmd)
	flags.bindPreview(cmd)
	flags.bindExport(cmd)

	return cmd
}

// runAnalyze executes the pipeline and reports the outcome.
func runAnalyze(ctx context.Context, flags *runFlags, input string) error {
	logger := loggerFromContext(ctx)
	opts := flags.options(input)
	opts.Logger = logger

	prog := newProgress(logger)
	runner := newRunner(flags.noCache, logger)
	defer runner.Cache.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		printError("Analysis failed: %s", userMessage(err))
		return err
	}
	prog.done("pipeline finished")

	printRunResult(result)
	return nil
}

// printRunResult summarizes a pipeline run for the terminal.
func printRunResult(result *pipeline.Result) {
	failed := result.Failed()
	if len(failed) == 0 {
		printSuccess("Analyzed %s", result.Stats.FormatVersion)
	} else {
		printWarning("Finished with %d failed stage(s)", len(failed))
	}

	printCounts(result.Stats.TotalEntities, len(result.Stats.Layers), len(result.Stats.Blocks))
	if result.Stats.Extents.Source != "" {
		printDetail("extents from %s", result.Stats.Extents.Source)
	}

	for _, stage := range failed {
		printError("stage %s: %s", stage.Name, userMessage(stage.Err))
	}

	printInfo("Output: %s", result.OutDir)
	for _, path := range result.Outputs() {
		printFile(path)
	}
}
