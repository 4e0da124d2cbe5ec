// Package config defines the voxels command's runtime configuration and
// its defaults. cmd/voxels assembles it from flags, environment
// variables, a YAML file, and defaults, in that order of precedence.
package config

// Config is the full set of settings the voxels command needs to
// construct a world and a renderer.
type Config struct {
	ViewDistance int    `mapstructure:"view_distance" yaml:"view_distance"`
	Seed         int64  `mapstructure:"seed" yaml:"seed"`
	AssetsDir    string `mapstructure:"assets" yaml:"assets"`
	Width        int    `mapstructure:"width" yaml:"width"`
	Height       int    `mapstructure:"height" yaml:"height"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns the configuration used when no flag, environment
// variable, or config file sets a value.
func Default() Config {
	return Config{
		ViewDistance: 8,
		Seed:         1,
		AssetsDir:    "assets",
		Width:        800,
		Height:       600,
		LogLevel:     "info",
	}
}

// ApplyDefaults fills in any zero-valued field of cfg from Default(),
// and also replaces a negative ViewDistance, Width or Height.
// Viper already applies flag/env/file precedence before this runs;
// this only catches fields absent from all three sources.
func ApplyDefaults(cfg *Config) {
	d := Default()
	if cfg.ViewDistance <= 0 {
		cfg.ViewDistance = d.ViewDistance
	}
	if cfg.Seed == 0 {
		cfg.Seed = d.Seed
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = d.AssetsDir
	}
	if cfg.Width <= 0 {
		cfg.Width = d.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = d.Height
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = d.LogLevel
	}
}
