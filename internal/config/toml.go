// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Suite  SuiteConfig  `toml:"suite"`
	Output OutputConfig `toml:"output"`
}

// SuiteConfig maps benchmark suite settings. Nil means unset.
type SuiteConfig struct {
	Sizes              *[]int    `toml:"sizes"`
	Repetitions        *int      `toml:"repetitions"`
	Seed               *int64    `toml:"seed"`
	SkipLargeQuadratic *bool     `toml:"skip-large-quadratic"`
	SkipThreshold      *int      `toml:"skip-threshold"`
	Shapes             *[]string `toml:"shapes"`
	Algorithms         *[]string `toml:"algorithms"`
	DisorderRatio      *float64  `toml:"disorder-ratio"`
	MinValue           *int      `toml:"min-value"`
	MaxValue           *int      `toml:"max-value"`
}

// OutputConfig maps where results are written.
type OutputConfig struct {
	DB          *string `toml:"db"`
	MetricsFile *string `toml:"metrics-file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
