// Package config resolves dfield's configuration from defaults, a YAML
// file, command line flags and interactive prompts, in increasing order
// of priority.
package config

import (
	"io"

	"github.com/chewxy/math32"
	"github.com/soypat/dfield"
	"github.com/soypat/dfield/internal/logger"
	"github.com/soypat/dfield/render"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of a dfield run.
type Config struct {
	Settings dfield.Settings     `yaml:"settings"`
	Search   dfield.SearchMethod `yaml:"search"`
	// Workers is the number of distance workers, 0 means one per CPU.
	Workers int          `yaml:"workers"`
	Export  ExportConfig `yaml:"export"`
	// Preview is the largest side of the preview thumbnail, 0 disables it.
	Preview int           `yaml:"preview"`
	Logging logger.Config `yaml:"logging"`
}

// ExportConfig selects the mesh files written next to the output image.
type ExportConfig struct {
	OBJ   bool    `yaml:"obj"`
	STL   bool    `yaml:"stl"`
	Scale float32 `yaml:"scale"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Settings: dfield.DefaultSettings(),
		Search:   dfield.SearchSpiral,
		Export: ExportConfig{
			Scale: render.ExportScale,
		},
		Logging: logger.DefaultConfig(),
	}
}

// Sanitize replaces invalid values with their defaults, logging a warning
// for each replaced value.
func (cfg *Config) Sanitize(log *zap.Logger) {
	def := Default()
	s := &cfg.Settings
	if s.Radius <= 0 {
		log.Warn("invalid radius, using default", zap.Int("radius", s.Radius), zap.Int("default", def.Settings.Radius))
		s.Radius = def.Settings.Radius
	}
	if !validMult(s.HeightMult) {
		log.Warn("invalid height multiplier, using default", zap.Float32("mult", s.HeightMult), zap.Float32("default", def.Settings.HeightMult))
		s.HeightMult = def.Settings.HeightMult
	}
	if s.Boundary > dfield.BoundaryClamp {
		log.Warn("invalid boundary, using default", zap.Stringer("boundary", s.Boundary), zap.Stringer("default", def.Settings.Boundary))
		s.Boundary = def.Settings.Boundary
	}
	if cfg.Search > dfield.SearchKDTree {
		log.Warn("invalid search method, using default", zap.Stringer("search", cfg.Search))
		cfg.Search = def.Search
	}
	if cfg.Workers < 0 {
		log.Warn("negative worker count, using one per CPU", zap.Int("workers", cfg.Workers))
		cfg.Workers = 0
	}
	if cfg.Preview < 0 {
		log.Warn("negative preview size, disabling preview", zap.Int("preview", cfg.Preview))
		cfg.Preview = 0
	}
	if !validMult(cfg.Export.Scale) {
		log.Warn("invalid export scale, using default", zap.Float32("scale", cfg.Export.Scale))
		cfg.Export.Scale = def.Export.Scale
	}
}

// WriteYAML writes cfg in the format read by Load.
func (cfg *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func validMult(f float32) bool {
	return f > 0 && !math32.IsInf(f, 1) && !math32.IsNaN(f)
}
