package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dxfscope/dxfscope/pkg/pipeline"
)

// newPreviewCmd creates the preview command, which renders previews without
// the report and export stages.
func newPreviewCmd() *cobra.Command {
	flags := newRunFlags()

	cmd := &cobra.Command{
		Use:   "preview [drawing.dxf]",
		Short: "Render page-fitted previews of a DXF drawing",
		Long: `Render page-fitted previews of a DXF drawing.

The preview command loads the drawing and renders its modelspace onto an
ISO page as PDF, PNG and/or SVG. Rendered artifacts are cached by content
hash and render settings, so repeated previews of an unchanged drawing
are fast.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.applyConfig(cmd); err != nil {
				return err
			}
			return runPreview(cmd.Context(), flags, inputArg(args))
		},
	}

	flags.bindCommon(cmd)
	flags.bindPreview(cmd)

	return cmd
}

// runPreview loads the drawing and runs only the preview stage.
func runPreview(ctx context.Context, flags *runFlags, input string) error {
	logger := loggerFromContext(ctx)
	opts := flags.options(input)
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	prog := newProgress(logger)
	runner := newRunner(flags.noCache, logger)
	defer runner.Cache.Close()

	loaded, err := pipeline.LoadDocument(opts.InputPath, logger)
	if err != nil {
		printError("Preview failed: %s", userMessage(err))
		return err
	}
	extents := pipeline.ResolveExtents(loaded.Doc)

	outDir := opts.ResolveOutDir(time.Now())
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	paths, err := runner.ExportPreviews(ctx, loaded.Doc, loaded.Hash, extents.SizePoint(), outDir, opts)
	if err != nil {
		printError("Preview failed: %s", userMessage(err))
		return err
	}
	prog.done("previews rendered")

	printSuccess("Previews written to %s", outDir)
	for _, path := range paths {
		printFile(path)
	}
	return nil
}
