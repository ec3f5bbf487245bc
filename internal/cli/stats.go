package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newStatsCmd creates the stats command, which writes reports but skips
// previews and exports.
func newStatsCmd() *cobra.Command {
	flags := newRunFlags()

	cmd := &cobra.Command{
		Use:   "stats [drawing.dxf]",
		Short: "Write statistics and reports for a DXF drawing",
		Long: `Write statistics and reports for a DXF drawing.

The stats command loads the drawing and writes summary.json plus the
entity, layer and block CSV reports. No previews or exports are produced;
use 'analyze' for the full pipeline.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.applyConfig(cmd); err != nil {
				return err
			}
			return runStats(cmd.Context(), flags, inputArg(args))
		},
	}

	flags.bindCommon(cmd)

	return cmd
}

func runStats(ctx context.Context, flags *runFlags, input string) error {
	logger := loggerFromContext(ctx)
	opts := flags.options(input)
	opts.Logger = logger
	opts.PDF = false
	opts.PNG = false
	opts.SVG = false
	opts.Flatten = false
	opts.DWG = false
	opts.SetInsUnits = nil

	runner := newRunner(true, logger)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		printError("Stats failed: %s", userMessage(err))
		return err
	}

	stats := result.Stats
	printSuccess("Analyzed %s", input)
	printKeyValue("version", stats.FormatVersion)
	printKeyValue("insunits", fmt.Sprint(stats.UnitCode))
	printKeyValue("handseed", stats.HandSeed)
	if stats.Extents.Source != "" {
		printKeyValue("extents", stats.Extents.Source)
	}
	printCounts(stats.TotalEntities, len(stats.Layers), len(stats.Blocks))

	for _, stage := range result.Failed() {
		printError("stage %s: %s", stage.Name, userMessage(stage.Err))
	}

	printInfo("Output: %s", result.OutDir)
	for _, path := range result.Outputs() {
		printFile(path)
	}
	return nil
}
