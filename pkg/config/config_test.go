package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := `
outdir = "reports"
page = "A2"
dpi = 150
svg = true
pdf = false
margins_mm = 5.0
set_insunits = 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.OutDir != "reports" || cfg.Page != "A2" || cfg.DPI != 150 {
		t.Errorf("scalar fields = %q/%q/%d", cfg.OutDir, cfg.Page, cfg.DPI)
	}
	if cfg.SVG == nil || !*cfg.SVG {
		t.Error("svg should be set true")
	}
	if cfg.PDF == nil || *cfg.PDF {
		t.Error("pdf should be set false")
	}
	if cfg.PNG != nil {
		t.Error("png should be unset")
	}
	if cfg.SetInsUnits == nil || *cfg.SetInsUnits != 4 {
		t.Error("set_insunits should be 4")
	}
	if cfg.MarginsMM != 5.0 {
		t.Errorf("margins_mm = %g, want 5", cfg.MarginsMM)
	}
}

func TestLoadMissingDefaultIsFine(t *testing.T) {
	wd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default config should not error: %v", err)
	}
	if cfg.OutDir != "" {
		t.Errorf("zero config expected, got %+v", cfg)
	}
}

func TestLoadMissingExplicitFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicitly named missing config should error")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("outdir = [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("invalid TOML should error")
	}
}
