// Package config loads roomplan settings from a TOML file with environment
// variable overrides.
//
//	[defaults]
//	wall_thickness = 10
//	floor_thickness = 10
//	ceiling_thickness = -1
//
//	[output]
//	opacity = 0.5
//	mesh_cells = 200
//
//	[colour]
//	rgb_file = "/etc/X11/rgb.txt"
//
// Every key can be overridden with a ROOMPLAN_ variable, for example
// ROOMPLAN_WALL_THICKNESS=12. Constant rows in a plan still take
// precedence over the defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/chazu/roomplan/pkg/colour"
	"github.com/chazu/roomplan/pkg/graph"
)

// DefaultFile is the config file looked up when none is named.
const DefaultFile = "roomplan.toml"

// Config is the full set of settings.
type Config struct {
	Defaults DefaultsConfig `toml:"defaults"`
	Output   OutputConfig   `toml:"output"`
	Colour   ColourConfig   `toml:"colour"`
}

// DefaultsConfig holds the thickness constants used when a plan does not
// declare them.
type DefaultsConfig struct {
	WallThickness    float64 `toml:"wall_thickness" json:"wall_thickness" env:"ROOMPLAN_WALL_THICKNESS"`
	FloorThickness   float64 `toml:"floor_thickness" json:"floor_thickness" env:"ROOMPLAN_FLOOR_THICKNESS"`
	CeilingThickness float64 `toml:"ceiling_thickness" json:"ceiling_thickness" env:"ROOMPLAN_CEILING_THICKNESS"`
}

// Validate validates the thickness defaults.
func (c *DefaultsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.WallThickness, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&c.FloorThickness, validation.Min(0.0)),
	)
}

// Constants returns the defaults as plan constants.
func (c *DefaultsConfig) Constants() graph.Constants {
	return graph.Constants{
		graph.WallThickness:    c.WallThickness,
		graph.FloorThickness:   c.FloorThickness,
		graph.CeilingThickness: c.CeilingThickness,
	}
}

// OutputConfig controls the SCAD and mesh writers.
type OutputConfig struct {
	Opacity   float64 `toml:"opacity" json:"opacity" env:"ROOMPLAN_OPACITY"`
	MeshCells int     `toml:"mesh_cells" json:"mesh_cells" env:"ROOMPLAN_MESH_CELLS"`
}

// Validate validates the output configuration.
func (c *OutputConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Opacity, validation.Required, validation.Min(0.0).Exclusive(), validation.Max(1.0)),
		validation.Field(&c.MeshCells, validation.Required, validation.Min(8), validation.Max(2000)),
	)
}

// ColourConfig locates the colour name table.
type ColourConfig struct {
	RGBFile string `toml:"rgb_file" json:"rgb_file" env:"ROOMPLAN_RGB_FILE"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

// NewDefaultConfig returns the builtin settings.
func NewDefaultConfig() *Config {
	d := graph.DefaultConstants()
	return &Config{
		Defaults: DefaultsConfig{
			WallThickness:    d.Wall(),
			FloorThickness:   d.Floor(),
			CeilingThickness: d.Ceiling(),
		},
		Output: OutputConfig{
			Opacity:   0.5,
			MeshCells: 200,
		},
		Colour: ColourConfig{
			RGBFile: colour.DefaultRGBFile,
		},
	}
}

// Load reads path over the builtin settings, applies ROOMPLAN_ environment
// overrides and validates the result. A missing file is not an error; an
// empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if keys := md.Undecoded(); len(keys) > 0 {
				names := make([]string, len(keys))
				for i, k := range keys {
					names[i] = k.String()
				}
				return nil, fmt.Errorf("read config %s: unknown keys %s", path, strings.Join(names, ", "))
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
