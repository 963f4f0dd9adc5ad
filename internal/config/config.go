package config

import (
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/trajprox/internal/kinematics"
	"github.com/san-kum/trajprox/internal/proximity"
	"github.com/san-kum/trajprox/internal/traj"
)

const (
	DefaultRobot           = "builtin:panda"
	DefaultConfigDim       = 7
	DefaultSafetyThreshold = 5e-3
	DefaultSpeedLimit      = 2.175
	DefaultWorkers         = 1
)

type Config struct {
	Robot           string           `yaml:"robot"`
	ConfigDim       int              `yaml:"config_dim"`
	StateDim        int              `yaml:"state_dim"`
	ControlDim      int              `yaml:"control_dim"`
	SignedDistance  bool             `yaml:"signed_distance"`
	SafetyThreshold float64          `yaml:"safety_threshold"`
	SpeedLimit      float64          `yaml:"speed_limit"`
	Workers         int              `yaml:"workers"`
	Targets         []TargetConfig   `yaml:"targets"`
	Pairs           [][]int          `yaml:"pairs,omitempty"`
	Obstacles       []ObstacleConfig `yaml:"obstacles,omitempty"`
}

// TargetConfig is a fixed translation a frame is measured against.
type TargetConfig struct {
	Name        string    `yaml:"name"`
	Frame       string    `yaml:"frame"`
	Translation []float64 `yaml:"translation,flow"`
}

// ObstacleConfig is a sphere added to the scene at a fixed translation.
type ObstacleConfig struct {
	Name        string    `yaml:"name"`
	Translation []float64 `yaml:"translation,flow"`
	Radius      float64   `yaml:"radius"`
}

func DefaultConfig() *Config {
	return &Config{
		Robot:           DefaultRobot,
		ConfigDim:       DefaultConfigDim,
		SafetyThreshold: DefaultSafetyThreshold,
		SpeedLimit:      DefaultSpeedLimit,
		Workers:         DefaultWorkers,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the keys present in the file at path onto cfg.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parsing config %s", path)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	out.Targets = make([]TargetConfig, len(c.Targets))
	for i, t := range c.Targets {
		t.Translation = append([]float64(nil), t.Translation...)
		out.Targets[i] = t
	}
	if c.Pairs != nil {
		out.Pairs = make([][]int, len(c.Pairs))
		for i, p := range c.Pairs {
			out.Pairs[i] = append([]int(nil), p...)
		}
	}
	if c.Obstacles != nil {
		out.Obstacles = make([]ObstacleConfig, len(c.Obstacles))
		for i, o := range c.Obstacles {
			o.Translation = append([]float64(nil), o.Translation...)
			out.Obstacles[i] = o
		}
	}
	return &out
}

// Dims resolves the per-node layout; a zero state dimension means twice
// the configuration dimension.
func (c *Config) Dims() traj.Dims {
	if c.StateDim == 0 {
		return traj.DimsFor(c.ConfigDim)
	}
	return traj.Dims{State: c.StateDim, Config: c.ConfigDim}
}

// Controls returns the control dimension, defaulting to the configuration
// dimension.
func (c *Config) Controls() int {
	if c.ControlDim == 0 {
		return c.ConfigDim
	}
	return c.ControlDim
}

func (c *Config) ProximityTargets() []proximity.Target {
	out := make([]proximity.Target, 0, len(c.Targets))
	for _, t := range c.Targets {
		out = append(out, proximity.Target{Name: t.Name, Frame: t.Frame, Translation: vec(t.Translation)})
	}
	return out
}

// CollisionPairs returns the configured pair override, or nil when the
// record's own pairs should be used.
func (c *Config) CollisionPairs() []kinematics.Pair {
	if len(c.Pairs) == 0 {
		return nil
	}
	out := make([]kinematics.Pair, len(c.Pairs))
	for i, p := range c.Pairs {
		out[i] = kinematics.Pair{A: p[0], B: p[1]}
	}
	return out
}

func (o ObstacleConfig) Position() r3.Vector {
	return vec(o.Translation)
}

func vec(v []float64) r3.Vector {
	if len(v) != 3 {
		return r3.Vector{}
	}
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// Validate reports every problem found, combined.
func (c *Config) Validate() error {
	var err error
	if c.Robot == "" {
		err = multierr.Append(err, errors.New("robot is required"))
	}
	if c.ConfigDim <= 0 {
		err = multierr.Append(err, errors.Errorf("config_dim must be positive, got %d", c.ConfigDim))
	}
	if c.StateDim != 0 && c.StateDim < c.ConfigDim {
		err = multierr.Append(err, errors.Errorf("state_dim %d is smaller than config_dim %d", c.StateDim, c.ConfigDim))
	}
	if c.StateDim < 0 || c.ControlDim < 0 {
		err = multierr.Append(err, errors.New("dimensions must not be negative"))
	}
	if c.SafetyThreshold < 0 || math.IsNaN(c.SafetyThreshold) {
		err = multierr.Append(err, errors.Errorf("safety_threshold must be non-negative, got %g", c.SafetyThreshold))
	}
	if c.SpeedLimit <= 0 {
		err = multierr.Append(err, errors.Errorf("speed_limit must be positive, got %g", c.SpeedLimit))
	}
	if c.Workers < 0 {
		err = multierr.Append(err, errors.Errorf("workers must not be negative, got %d", c.Workers))
	}

	names := make(map[string]bool)
	for i, t := range c.Targets {
		if t.Name == "" || t.Frame == "" {
			err = multierr.Append(err, errors.Errorf("target %d needs a name and a frame", i))
		}
		if names[t.Name] {
			err = multierr.Append(err, errors.Errorf("duplicate target %q", t.Name))
		}
		names[t.Name] = true
		err = multierr.Append(err, checkTranslation("target "+t.Name, t.Translation))
	}
	for i, p := range c.Pairs {
		if len(p) != 2 {
			err = multierr.Append(err, errors.Errorf("pair %d needs two geometry indices, got %d", i, len(p)))
		}
	}
	for i, o := range c.Obstacles {
		if o.Name == "" {
			err = multierr.Append(err, errors.Errorf("obstacle %d needs a name", i))
		}
		if o.Radius < 0 {
			err = multierr.Append(err, errors.Errorf("obstacle %q has negative radius", o.Name))
		}
		err = multierr.Append(err, checkTranslation("obstacle "+o.Name, o.Translation))
	}
	return err
}

func checkTranslation(what string, v []float64) error {
	if len(v) != 3 {
		return errors.Errorf("%s: translation needs 3 values, got %d", what, len(v))
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return errors.Errorf("%s: translation must be finite", what)
		}
	}
	return nil
}
