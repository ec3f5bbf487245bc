package cli

import (
	"github.com/spf13/cobra"

	"github.com/dxfscope/dxfscope/pkg/config"
	"github.com/dxfscope/dxfscope/pkg/pipeline"
)

// insUnitsUnset marks --set-insunits as not requested. Valid codes are 0-20,
// so -1 never collides with a real unit.
const insUnitsUnset = -1

// runFlags collects the pipeline flags shared by analyze, stats and preview.
// Not every command registers every flag; unregistered fields keep their
// defaults.
type runFlags struct {
	outDir      string
	label       string
	timestamped bool

	pdf         bool
	png         bool
	svg         bool
	dpi         int
	page        string
	orientation string
	marginsMM   float64
	fitPage     bool
	scale       float64

	flatten     bool
	dwg         bool
	setInsUnits int

	noCache    bool
	configPath string
}

func newRunFlags() *runFlags {
	return &runFlags{
		outDir:      pipeline.DefaultOutDir,
		pdf:         true,
		png:         true,
		dpi:         pipeline.DefaultDPI,
		page:        pipeline.DefaultPage,
		orientation: "auto",
		marginsMM:   pipeline.DefaultMarginMM,
		fitPage:     true,
		flatten:     true,
		setInsUnits: insUnitsUnset,
	}
}

// bindCommon registers the flags every pipeline command shares.
func (f *runFlags) bindCommon(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.outDir, "outdir", "o", f.outDir, "output directory root")
	cmd.Flags().StringVar(&f.label, "label", f.label, "optional subdirectory label under the output root")
	cmd.Flags().BoolVar(&f.timestamped, "timestamped-outdir", f.timestamped, "append a YYYYmmdd_HHMMSS subdirectory per run")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", f.noCache, "disable the preview artifact cache")
	cmd.Flags().StringVar(&f.configPath, "config", f.configPath, "config file (default: dxfscope.toml in the working directory)")
}

// bindPreview registers the preview rendering flags.
func (f *runFlags) bindPreview(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.pdf, "pdf", f.pdf, "export a PDF preview")
	cmd.Flags().BoolVar(&f.png, "png", f.png, "export a PNG preview")
	cmd.Flags().BoolVar(&f.svg, "svg", f.svg, "export an SVG preview")
	cmd.Flags().IntVar(&f.dpi, "dpi", f.dpi, "raster resolution in dots per inch")
	cmd.Flags().StringVar(&f.page, "page", f.page, "ISO page size: A0-A4")
	cmd.Flags().StringVar(&f.orientation, "orientation", f.orientation, "page orientation: auto, portrait, landscape")
	cmd.Flags().Float64Var(&f.marginsMM, "margins-mm", f.marginsMM, "page margins in millimeters")
	cmd.Flags().BoolVar(&f.fitPage, "fit-page", f.fitPage, "scale the drawing to fit the page")
	cmd.Flags().Float64Var(&f.scale, "scale", f.scale, "fixed scale in mm per drawing unit (overrides --fit-page)")
}

// bindExport registers the flatten/unit-fix/DWG export flags.
func (f *runFlags) bindExport(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.flatten, "flatten", f.flatten, "export a flattened copy without block references")
	cmd.Flags().BoolVar(&f.dwg, "dwg", f.dwg, "convert to DWG via the ODA File Converter if installed")
	cmd.Flags().IntVar(&f.setInsUnits, "set-insunits", f.setInsUnits, "export a copy with this INSUNITS code (0-20)")
}

// applyConfig loads the config file and fills in every flag the user did not
// set on the command line. Explicit flags always win over the file.
func (f *runFlags) applyConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	changed := cmd.Flags().Changed
	if !changed("outdir") && cfg.OutDir != "" {
		f.outDir = cfg.OutDir
	}
	if !changed("label") && cfg.Label != "" {
		f.label = cfg.Label
	}
	if !changed("timestamped-outdir") && cfg.Timestamped != nil {
		f.timestamped = *cfg.Timestamped
	}
	if !changed("pdf") && cfg.PDF != nil {
		f.pdf = *cfg.PDF
	}
	if !changed("png") && cfg.PNG != nil {
		f.png = *cfg.PNG
	}
	if !changed("svg") && cfg.SVG != nil {
		f.svg = *cfg.SVG
	}
	if !changed("dpi") && cfg.DPI != 0 {
		f.dpi = cfg.DPI
	}
	if !changed("page") && cfg.Page != "" {
		f.page = cfg.Page
	}
	if !changed("orientation") && cfg.Orientation != "" {
		f.orientation = cfg.Orientation
	}
	if !changed("margins-mm") && cfg.MarginsMM != 0 {
		f.marginsMM = cfg.MarginsMM
	}
	if !changed("fit-page") && cfg.FitPage != nil {
		f.fitPage = *cfg.FitPage
	}
	if !changed("scale") && cfg.Scale != 0 {
		f.scale = cfg.Scale
	}
	if !changed("flatten") && cfg.Flatten != nil {
		f.flatten = *cfg.Flatten
	}
	if !changed("dwg") && cfg.DWG != nil {
		f.dwg = *cfg.DWG
	}
	if !changed("set-insunits") && cfg.SetInsUnits != nil {
		f.setInsUnits = *cfg.SetInsUnits
	}
	if !changed("no-cache") && cfg.NoCache != nil {
		f.noCache = *cfg.NoCache
	}
	return nil
}

// options maps the flags onto pipeline options for the given input file.
func (f *runFlags) options(input string) pipeline.Options {
	opts := pipeline.Options{
		InputPath:   input,
		OutDir:      f.outDir,
		Label:       f.label,
		Timestamped: f.timestamped,
		PDF:         f.pdf,
		PNG:         f.png,
		SVG:         f.svg,
		DPI:         f.dpi,
		Page:        f.page,
		Orientation: f.orientation,
		MarginMM:    f.marginsMM,
		FitToPage:   f.fitPage,
		FixedScale:  f.scale,
		Flatten:     f.flatten,
		DWG:         f.dwg,
	}
	if f.setInsUnits != insUnitsUnset {
		code := f.setInsUnits
		opts.SetInsUnits = &code
	}
	return opts
}

// inputArg returns the positional input file, defaulting when absent.
func inputArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return pipeline.DefaultInput
}
