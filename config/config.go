package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/milk9111/collision/common"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("config: invalid")

// Config holds the tunables of a collision world.
type Config struct {
	BroadPhase BroadPhaseConfig `yaml:"broad_phase"`
	Pools      PoolConfig       `yaml:"pools"`
	Shapes     ShapeConfig      `yaml:"shapes"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type BroadPhaseConfig struct {
	// AABBMargin is added to every side of a proxy box stored in the tree.
	AABBMargin float64 `yaml:"aabb_margin"`
}

// PoolConfig caps the pooled allocators. Zero means unbounded.
type PoolConfig struct {
	ProxyShapes   int `yaml:"proxy_shapes"`
	ManifoldNodes int `yaml:"manifold_nodes"`
}

type ShapeConfig struct {
	DefaultMassWeight float64 `yaml:"default_mass_weight"`
}

type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

func Default() Config {
	return Config{
		BroadPhase: BroadPhaseConfig{AABBMargin: common.DefaultAABBMargin},
		Shapes:     ShapeConfig{DefaultMassWeight: common.DefaultMassWeight},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default. Keys missing from data keep their
// default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.BroadPhase.AABBMargin < 0 || !finite(c.BroadPhase.AABBMargin) {
		errs = append(errs, fmt.Errorf("%w: broad_phase.aabb_margin %v", ErrInvalid, c.BroadPhase.AABBMargin))
	}
	if c.Pools.ProxyShapes < 0 {
		errs = append(errs, fmt.Errorf("%w: pools.proxy_shapes %d", ErrInvalid, c.Pools.ProxyShapes))
	}
	if c.Pools.ManifoldNodes < 0 {
		errs = append(errs, fmt.Errorf("%w: pools.manifold_nodes %d", ErrInvalid, c.Pools.ManifoldNodes))
	}
	if c.Shapes.DefaultMassWeight <= 0 || !finite(c.Shapes.DefaultMassWeight) {
		errs = append(errs, fmt.Errorf("%w: shapes.default_mass_weight %v", ErrInvalid, c.Shapes.DefaultMassWeight))
	}
	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
