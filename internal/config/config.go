package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yunqiangwu/etf-grid-master/internal/model"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Quote   QuoteConfig   `yaml:"quote"`
	History HistoryConfig `yaml:"history"`

	// Optional: load grid parameters from a separate YAML preset
	// (e.g. examples/grids/*.yaml). If both GridFile and Grid are
	// provided, explicit Grid fields override the preset.
	GridFile string           `yaml:"grid_file"`
	Grid     model.GridConfig `yaml:"grid"`
}

type QuoteConfig struct {
	BaseURL string `yaml:"base_url"`
}

type HistoryConfig struct {
	// Limit caps how many past runs are retained. Zero means the
	// package default.
	Limit int `yaml:"limit"`
}

// Load reads, merges, and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	if c.GridFile != "" {
		gridPath := c.GridFile
		if !filepath.IsAbs(gridPath) {
			// Prefer interpreting relative paths as relative to the config
			// file directory, but fall back to the provided path
			// (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), gridPath)
			if _, err := os.Stat(cand); err == nil {
				gridPath = cand
			}
		}
		loaded, err := loadGridFile(gridPath)
		if err != nil {
			return nil, err
		}
		c.Grid = MergeGrid(loaded, c.Grid)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Grid.Symbol == "" {
		return errors.New("grid.symbol is required")
	}
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("grid config invalid: %w", err)
	}
	return nil
}

type gridFileWrapper struct {
	Grid model.GridConfig `yaml:"grid"`
}

func loadGridFile(path string) (model.GridConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.GridConfig{}, err
	}
	var w gridFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return model.GridConfig{}, err
	}
	return w.Grid, nil
}

// MergeGrid overlays non-zero fields from override onto base. Used when
// loading a grid preset file and then applying explicit overrides.
func MergeGrid(base, override model.GridConfig) model.GridConfig {
	out := base
	if override.Symbol != "" {
		out.Symbol = override.Symbol
	}
	if override.InitialBasePrice != 0 {
		out.InitialBasePrice = override.InitialBasePrice
	}
	if override.GridMode != "" {
		out.GridMode = override.GridMode
	}
	if override.RiseSellPercent != 0 {
		out.RiseSellPercent = override.RiseSellPercent
	}
	if override.FallBuyPercent != 0 {
		out.FallBuyPercent = override.FallBuyPercent
	}
	if override.BuyAmount != 0 {
		out.BuyAmount = override.BuyAmount
	}
	if override.SellAmount != 0 {
		out.SellAmount = override.SellAmount
	}
	if override.InitialCash != 0 {
		out.InitialCash = override.InitialCash
	}
	if override.InitialStock != 0 {
		out.InitialStock = override.InitialStock
	}
	if !override.StartDate.IsZero() {
		out.StartDate = override.StartDate
	}
	if !override.EndDate.IsZero() {
		out.EndDate = override.EndDate
	}
	if override.FeeRate != 0 {
		out.FeeRate = override.FeeRate
	}
	return out
}
