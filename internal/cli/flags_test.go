package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/dxfscope/dxfscope/pkg/pipeline"
)

func testCommand(flags *runFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	flags.bindCommon(cmd)
	flags.bindPreview(cmd)
	flags.bindExport(cmd)
	return cmd
}

func TestRunFlagsDefaults(t *testing.T) {
	flags := newRunFlags()

	if flags.outDir != pipeline.DefaultOutDir {
		t.Errorf("outdir = %q, want %q", flags.outDir, pipeline.DefaultOutDir)
	}
	if !flags.pdf || !flags.png || flags.svg {
		t.Errorf("format defaults = pdf:%v png:%v svg:%v, want true/true/false", flags.pdf, flags.png, flags.svg)
	}
	if flags.page != "A3" || flags.orientation != "auto" {
		t.Errorf("page defaults = %q/%q", flags.page, flags.orientation)
	}
	if !flags.flatten || flags.dwg {
		t.Errorf("export defaults = flatten:%v dwg:%v", flags.flatten, flags.dwg)
	}
	if flags.setInsUnits != insUnitsUnset {
		t.Errorf("setInsUnits = %d, want unset sentinel", flags.setInsUnits)
	}
}

func TestApplyConfigFillsUnsetFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dxfscope.toml")
	content := `
outdir = "reports"
page = "A2"
svg = true
dwg = true
set_insunits = 6
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	flags := newRunFlags()
	flags.configPath = path
	cmd := testCommand(flags)

	if err := flags.applyConfig(cmd); err != nil {
		t.Fatalf("applyConfig failed: %v", err)
	}
	if flags.outDir != "reports" || flags.page != "A2" {
		t.Errorf("config values not applied: outdir=%q page=%q", flags.outDir, flags.page)
	}
	if !flags.svg || !flags.dwg {
		t.Errorf("bool config values not applied: svg=%v dwg=%v", flags.svg, flags.dwg)
	}
	if flags.setInsUnits != 6 {
		t.Errorf("setInsUnits = %d, want 6", flags.setInsUnits)
	}
	// Untouched fields keep their defaults.
	if flags.dpi != pipeline.DefaultDPI || !flags.pdf {
		t.Errorf("unrelated defaults changed: dpi=%d pdf=%v", flags.dpi, flags.pdf)
	}
}

func TestApplyConfigExplicitFlagWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dxfscope.toml")
	if err := os.WriteFile(path, []byte("page = \"A0\"\ndpi = 72\n"), 0644); err != nil {
		t.Fatal(err)
	}

	flags := newRunFlags()
	flags.configPath = path
	cmd := testCommand(flags)
	if err := cmd.Flags().Set("page", "A4"); err != nil {
		t.Fatal(err)
	}

	if err := flags.applyConfig(cmd); err != nil {
		t.Fatalf("applyConfig failed: %v", err)
	}
	if flags.page != "A4" {
		t.Errorf("explicit --page overridden by config: %q", flags.page)
	}
	if flags.dpi != 72 {
		t.Errorf("unset --dpi should come from config, got %d", flags.dpi)
	}
}

func TestOptionsMapping(t *testing.T) {
	flags := newRunFlags()
	flags.svg = true
	flags.scale = 2.5
	flags.label = "run1"

	opts := flags.options("plan.dxf")
	if opts.InputPath != "plan.dxf" {
		t.Errorf("InputPath = %q", opts.InputPath)
	}
	if !opts.SVG || opts.FixedScale != 2.5 || opts.Label != "run1" {
		t.Errorf("options not mapped: %+v", opts)
	}
	if opts.SetInsUnits != nil {
		t.Error("SetInsUnits should be nil when the flag is unset")
	}

	flags.setInsUnits = 4
	opts = flags.options("plan.dxf")
	if opts.SetInsUnits == nil || *opts.SetInsUnits != 4 {
		t.Error("SetInsUnits should carry the requested code")
	}
}

func TestInputArg(t *testing.T) {
	if got := inputArg(nil); got != pipeline.DefaultInput {
		t.Errorf("inputArg(nil) = %q, want default", got)
	}
	if got := inputArg([]string{"floor.dxf"}); got != "floor.dxf" {
		t.Errorf("inputArg = %q, want floor.dxf", got)
	}
}
