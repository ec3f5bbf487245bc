package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dxfscope/dxfscope/pkg/buildinfo"
)

// Execute runs the dxfscope CLI and returns an error if any command fails.
//
// The root command wires all subcommands, configures logging based on
// --verbose, and attaches the logger to the context so commands retrieve it
// via loggerFromContext. The given context carries cancellation from main
// (Ctrl-C).
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "dxfscope analyzes DXF drawings and exports previews",
		Long: `dxfscope takes a DXF drawing through a fixed analysis pipeline:
statistics and CSV/JSON reports, page-fitted PDF/PNG/SVG previews, a
flattened copy without block references, and optional unit-fix and DWG
exports. Damaged files are recovered where possible and analyzed anyway.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newPreviewCmd())
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
