// Package config loads and validates the analysis settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/shopper-segments/internal/common"
	"github.com/spf13/viper"
)

// Source kinds understood by the dataset loader.
const (
	SourceCSV    = "csv"
	SourceSQLite = "sqlite"
)

// Plot display modes.
const (
	PlotsInteractive = "interactive"
	PlotsInline      = "inline"
	PlotsOff         = "off"
)

// Plot color themes.
const (
	ThemeDefault    = "default"
	ThemeCatppuccin = "catppuccin"
)

// Config is the full set of settings for one run.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Plots    PlotsConfig    `mapstructure:"plots"`
	Forest   ForestConfig   `mapstructure:"forest"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
}

// DataConfig locates the transaction table.
type DataConfig struct {
	Path   string `mapstructure:"path"`
	Source string `mapstructure:"source"`
	Table  string `mapstructure:"table"`
}

// AnalysisConfig controls the clustering stage.
type AnalysisConfig struct {
	Tolerance     float64 `mapstructure:"tolerance"`
	Seed          int64   `mapstructure:"seed"`
	Clusters      int     `mapstructure:"clusters"`
	MaxClusters   int     `mapstructure:"max_clusters"`
	Restarts      int     `mapstructure:"restarts"`
	MaxIterations int     `mapstructure:"max_iterations"`
}

// ForestConfig controls the per-query classifier.
type ForestConfig struct {
	TestRatio       float64 `mapstructure:"test_ratio"`
	Trees           int     `mapstructure:"trees"`
	MaxDepth        int     `mapstructure:"max_depth"`
	MinSamplesSplit int     `mapstructure:"min_samples_split"`
	Cache           bool    `mapstructure:"cache"`
}

// PlotsConfig controls the visualization surface.
type PlotsConfig struct {
	Mode  string `mapstructure:"mode"`
	Theme string `mapstructure:"theme"`
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data.path", "data/shopping_trends.csv")
	v.SetDefault("data.source", SourceCSV)
	v.SetDefault("data.table", "transactions")

	v.SetDefault("analysis.clusters", 4)
	v.SetDefault("analysis.max_clusters", 10)
	v.SetDefault("analysis.seed", 42)
	v.SetDefault("analysis.restarts", 10)
	v.SetDefault("analysis.max_iterations", 300)
	v.SetDefault("analysis.tolerance", 1e-4)

	v.SetDefault("forest.trees", 100)
	v.SetDefault("forest.max_depth", 0)
	v.SetDefault("forest.min_samples_split", 2)
	v.SetDefault("forest.test_ratio", 0.2)
	v.SetDefault("forest.cache", false)

	v.SetDefault("plots.mode", PlotsInteractive)
	v.SetDefault("plots.theme", ThemeDefault)
}

// Load reads the configuration out of v and validates it.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	cfg.Data.Path = ExpandPath(cfg.Data.Path)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if c.Data.Path == "" {
		return fmt.Errorf("%w: data.path", common.ErrMissingConfig)
	}
	switch c.Data.Source {
	case SourceCSV:
	case SourceSQLite:
		if c.Data.Table == "" {
			return fmt.Errorf("%w: data.table is required for the sqlite source", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: data.source %q (valid: csv, sqlite)", common.ErrInvalidConfig, c.Data.Source)
	}

	if c.Analysis.Clusters < 1 {
		return fmt.Errorf("%w: analysis.clusters must be at least 1", common.ErrInvalidConfig)
	}
	if c.Analysis.MaxClusters < 1 {
		return fmt.Errorf("%w: analysis.max_clusters must be at least 1", common.ErrInvalidConfig)
	}
	if c.Analysis.Restarts < 1 {
		return fmt.Errorf("%w: analysis.restarts must be at least 1", common.ErrInvalidConfig)
	}
	if c.Analysis.MaxIterations < 1 {
		return fmt.Errorf("%w: analysis.max_iterations must be at least 1", common.ErrInvalidConfig)
	}
	if c.Analysis.Tolerance < 0 {
		return fmt.Errorf("%w: analysis.tolerance cannot be negative", common.ErrInvalidConfig)
	}

	if c.Forest.Trees < 1 {
		return fmt.Errorf("%w: forest.trees must be at least 1", common.ErrInvalidConfig)
	}
	if c.Forest.MaxDepth < 0 {
		return fmt.Errorf("%w: forest.max_depth cannot be negative", common.ErrInvalidConfig)
	}
	if c.Forest.MinSamplesSplit < 2 {
		return fmt.Errorf("%w: forest.min_samples_split must be at least 2", common.ErrInvalidConfig)
	}
	if c.Forest.TestRatio <= 0 || c.Forest.TestRatio >= 1 {
		return fmt.Errorf("%w: forest.test_ratio must be in (0, 1)", common.ErrInvalidConfig)
	}

	switch c.Plots.Mode {
	case PlotsInteractive, PlotsInline, PlotsOff:
	default:
		return fmt.Errorf("%w: plots.mode %q (valid: interactive, inline, off)", common.ErrInvalidConfig, c.Plots.Mode)
	}
	switch c.Plots.Theme {
	case ThemeDefault, ThemeCatppuccin:
	default:
		return fmt.Errorf("%w: plots.theme %q (valid: default, catppuccin)", common.ErrInvalidConfig, c.Plots.Theme)
	}

	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}

	return os.ExpandEnv(path)
}
