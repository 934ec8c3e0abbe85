// Package config resolves the subtyping parameters: built-in defaults,
// then scheme defaults, then a YAML file, then HANSEL_* environment
// variables, then explicit overrides. The result is validated once, before
// any sample is processed.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"hansel/internal/scheme"
)

// EnvPrefix is prepended to every environment override, e.g.
// HANSEL_LOW_COVERAGE_WARNING.
const EnvPrefix = "HANSEL"

// Params are the thresholds used by the resolver and the QC rules.
type Params struct {
	// Mean tile coverage below which reads get a low-coverage WARNING.
	LowCoverageWarning float64 `yaml:"low_coverage_warning" envconfig:"LOW_COVERAGE_WARNING" validate:"gte=0"`
	// Stricter depth used for FAIL verdicts on read input.
	LowCoverageDepthFail float64 `yaml:"low_coverage_depth_fail" envconfig:"LOW_COVERAGE_DEPTH_FAIL" validate:"gte=0"`
	// Fraction of the resolved subtype's tiles that may be missing before
	// an intermediate-subtype WARNING.
	MaxIntermediateTilesRatio float64 `yaml:"max_intermediate_tiles_ratio" envconfig:"MAX_INTERMEDIATE_TILES_RATIO" validate:"gte=0,lte=1"`
	// Fraction of all expected tiles that may be missing before FAIL.
	MaxMissingTiles float64 `yaml:"max_missing_tiles" envconfig:"MAX_MISSING_TILES" validate:"gte=0,lte=1"`
	// Read-input hit count bounds for a tile to count as present. 0 max = unbounded.
	MinTileFreq int `yaml:"min_tile_freq" envconfig:"MIN_TILE_FREQ" validate:"gte=1"`
	MaxTileFreq int `yaml:"max_tile_freq" envconfig:"MAX_TILE_FREQ" validate:"omitempty,gtefield=MinTileFreq"`

	SchemeVersionOverride string `yaml:"scheme_version_override" envconfig:"SCHEME_VERSION_OVERRIDE"`
}

// Defaults returns the built-in parameters.
func Defaults() Params {
	return Params{
		LowCoverageWarning:        20,
		LowCoverageDepthFail:      20,
		MaxIntermediateTilesRatio: 0.05,
		MaxMissingTiles:           0.05,
		MinTileFreq:               8,
		MaxTileFreq:               1000,
	}
}

// Option mutates Params after every other source has been applied.
type Option func(*Params)

// WithLowCoverageWarning overrides the low coverage warning threshold.
func WithLowCoverageWarning(v float64) Option { return func(p *Params) { p.LowCoverageWarning = v } }

// WithLowCoverageDepthFail overrides the low coverage depth threshold.
func WithLowCoverageDepthFail(v float64) Option { return func(p *Params) { p.LowCoverageDepthFail = v } }

// WithMaxIntermediateTilesRatio overrides the intermediate subtype threshold.
func WithMaxIntermediateTilesRatio(v float64) Option {
	return func(p *Params) { p.MaxIntermediateTilesRatio = v }
}

// WithMaxMissingTiles overrides the missing tiles threshold.
func WithMaxMissingTiles(v float64) Option { return func(p *Params) { p.MaxMissingTiles = v } }

// WithTileFreq overrides the read hit count bounds.
func WithTileFreq(min, max int) Option {
	return func(p *Params) { p.MinTileFreq, p.MaxTileFreq = min, max }
}

// WithMinTileFreq overrides only the lower read hit count bound.
func WithMinTileFreq(v int) Option { return func(p *Params) { p.MinTileFreq = v } }

// WithMaxTileFreq overrides only the upper read hit count bound; 0 is unbounded.
func WithMaxTileFreq(v int) Option { return func(p *Params) { p.MaxTileFreq = v } }

// WithSchemeVersion overrides the scheme version reported on results.
func WithSchemeVersion(v string) Option { return func(p *Params) { p.SchemeVersionOverride = v } }

// ApplyScheme copies every non-zero scheme default onto p.
func (p *Params) ApplyScheme(d scheme.Defaults) {
	if d.LowCoverageWarning > 0 {
		p.LowCoverageWarning = d.LowCoverageWarning
	}
	if d.LowCoverageDepthFail > 0 {
		p.LowCoverageDepthFail = d.LowCoverageDepthFail
	}
	if d.MaxIntermediateTilesRatio > 0 {
		p.MaxIntermediateTilesRatio = d.MaxIntermediateTilesRatio
	}
	if d.MaxMissingTiles > 0 {
		p.MaxMissingTiles = d.MaxMissingTiles
	}
	if d.MinTileFreq > 0 {
		p.MinTileFreq = d.MinTileFreq
	}
	if d.MaxTileFreq > 0 {
		p.MaxTileFreq = d.MaxTileFreq
	}
}

// LoadFile overlays the keys present in a YAML file onto p.
func (p *Params) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(b, p); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays HANSEL_* environment variables onto p.
func (p *Params) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, p); err != nil {
		return fmt.Errorf("config env: %w", err)
	}
	return nil
}

var validate = validator.New()

// Validate checks every threshold.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Build resolves the final parameters for a scheme. path may be empty.
func Build(d scheme.Defaults, path string, opts ...Option) (Params, error) {
	p := Defaults()
	p.ApplyScheme(d)
	if path != "" {
		if err := p.LoadFile(path); err != nil {
			return Params{}, err
		}
	}
	if err := p.ApplyEnv(); err != nil {
		return Params{}, err
	}
	for _, o := range opts {
		o(&p)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// TilePresent reports whether a tile seen count times counts as present.
// Contigs need a single hit; reads must fall within the frequency bounds.
func (p Params) TilePresent(count int, reads bool) bool {
	if !reads {
		return count > 0
	}
	if count < p.MinTileFreq || count <= 0 {
		return false
	}
	return p.MaxTileFreq <= 0 || count <= p.MaxTileFreq
}
