package crystvox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// JobConfig describes one structure-to-tensor job.
type JobConfig struct {
	Structure string   `json:"structure" yaml:"structure"` // .inp path, relative to the config file
	Species   []string `json:"species,omitempty" yaml:"species,omitempty"`
	Dims      []int    `json:"dims,omitempty" yaml:"dims,omitempty"` // D0, D1, D2
	Spread    Real     `json:"spread,omitempty" yaml:"spread,omitempty"`
	Strategy  Strategy `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Workers   int      `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// LoadConfig reads a JSON or YAML (.yaml/.yml) job config, fills defaults and validates it.
func LoadConfig(path string) (*JobConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg JobConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if cfg.Structure != "" && !filepath.IsAbs(cfg.Structure) {
		cfg.Structure = filepath.Join(filepath.Dir(path), cfg.Structure)
	}
	if err := cfg.Normalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	DebugLog("Loaded config from %s: structure=%s species=%v dims=%v spread=%g strategy=%s", path, cfg.Structure, cfg.Species, cfg.Dims, cfg.Spread, cfg.Strategy)
	return &cfg, nil
}

// Normalize fills zero values with defaults and rejects unusable settings.
func (c *JobConfig) Normalize() error {
	if c.Structure == "" {
		return fmt.Errorf("%w: no structure file", ErrInvalidConfig)
	}
	if len(c.Species) == 0 {
		c.Species = append([]string(nil), DefaultSpecies...)
	}
	if len(c.Dims) == 0 {
		c.Dims = []int{GridResX, GridResY, GridResZ}
	}
	if len(c.Dims) != 3 {
		return fmt.Errorf("%w: dims needs 3 values, got %v", ErrInvalidConfig, c.Dims)
	}
	if err := c.dims().validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Spread == 0 {
		c.Spread = Spread
	}
	if err := validateSpread(c.Spread); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := speciesIndex(c.Species); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

func (c *JobConfig) dims() Dims {
	if len(c.Dims) != 3 {
		return Dims{}
	}
	return Dims{c.Dims[0], c.Dims[1], c.Dims[2]}
}

// Options converts the job to build options.
func (c *JobConfig) Options() Options {
	return Options{
		Species:  append([]string(nil), c.Species...),
		Dims:     c.dims(),
		Spread:   c.Spread,
		Strategy: c.Strategy,
		Workers:  c.Workers,
	}
}
