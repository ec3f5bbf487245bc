// Package config loads flag defaults from a dxfscope.toml file. Explicit
// command-line flags always take precedence; the file only fills in values
// the user did not set.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/dxfscope/dxfscope/pkg/errors"
)

// DefaultFile is the config file searched in the working directory when no
// --config flag is given.
const DefaultFile = "dxfscope.toml"

// Config mirrors the CLI flags a project may want to pin. Pointer fields
// distinguish "not set in the file" from an explicit false/zero.
type Config struct {
	OutDir      string  `toml:"outdir"`
	Label       string  `toml:"label"`
	Timestamped *bool   `toml:"timestamped_outdir"`
	PDF         *bool   `toml:"pdf"`
	PNG         *bool   `toml:"png"`
	SVG         *bool   `toml:"svg"`
	DPI         int     `toml:"dpi"`
	Page        string  `toml:"page"`
	Orientation string  `toml:"orientation"`
	MarginsMM   float64 `toml:"margins_mm"`
	FitPage     *bool   `toml:"fit_page"`
	Scale       float64 `toml:"scale"`
	Flatten     *bool   `toml:"flatten"`
	DWG         *bool   `toml:"dwg"`
	SetInsUnits *int    `toml:"set_insunits"`
	NoCache     *bool   `toml:"no_cache"`
}

// Load reads the config file at path. An empty path means the default file,
// whose absence is not an error; a path the user named explicitly must
// exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	var cfg Config
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, nil
}
