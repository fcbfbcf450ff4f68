// Package config loads run settings from defaults, an optional YAML file,
// EPIGRID_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mast13f/epigrid/sim"
)

var ErrInvalid = errors.New("config: invalid value")

// Config holds user-facing settings. Rates are percents given
// as whole numbers (60 means 0.6).
type Config struct {
	GridSize      int     `mapstructure:"grid_size"`
	Density       float64 `mapstructure:"density"`
	InitInfected  float64 `mapstructure:"init_infected"`
	InfectionProb float64 `mapstructure:"infection_prob"`
	RecoveryTime  float64 `mapstructure:"recovery_time"`
	Mortality     float64 `mapstructure:"mortality"`
	CDCThreshold  float64 `mapstructure:"cdc_threshold"`
	NonCompliance float64 `mapstructure:"non_compliance"`
	Distancing    bool    `mapstructure:"distancing"`

	Label       string `mapstructure:"label"`
	DataDir     string `mapstructure:"data_dir"`
	Seed        uint64 `mapstructure:"seed"`
	MaxSteps    int    `mapstructure:"max_steps"`
	Runs        int    `mapstructure:"runs"`
	Parallelism int    `mapstructure:"parallelism"`
	LogLevel    string `mapstructure:"log_level"`
}

type flagDef struct {
	key   string
	usage string
	value any
}

var defaults = []flagDef{
	{"grid_size", "cells per grid side", 50},
	{"density", "percent of cells populated", 60.0},
	{"init_infected", "percent of population infected at start", 2.0},
	{"infection_prob", "percent chance of transmission per contact", 25.0},
	{"recovery_time", "mean steps from infection to resolution", 10.0},
	{"mortality", "percent of resolutions that are deaths", 2.0},
	{"cdc_threshold", "cumulative infected percent that activates distancing", 15.0},
	{"non_compliance", "mean percent of agents ignoring distancing", 15.0},
	{"distancing", "enable prevalence-triggered distancing", true},
	{"label", "scenario label used in file names", "BaseCase"},
	{"data_dir", "directory for run CSV files", "data"},
	{"seed", "random seed, 0 picks one from the clock", uint64(0)},
	{"max_steps", "stop a run after this many steps, 0 for no cap", 1000},
	{"runs", "number of runs in a batch", 10},
	{"parallelism", "concurrent runs in a batch, 0 for GOMAXPROCS", 0},
	{"log_level", "debug, info, warn or error", "info"},
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	for _, d := range defaults {
		v.SetDefault(d.key, d.value)
	}
	v.SetEnvPrefix("epigrid")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func flagName(key string) string { return strings.ReplaceAll(key, "_", "-") }

// BindFlags registers one flag per setting on fs and binds it to v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, d := range defaults {
		name := flagName(d.key)
		switch val := d.value.(type) {
		case int:
			fs.Int(name, val, d.usage)
		case uint64:
			fs.Uint64(name, val, d.usage)
		case float64:
			fs.Float64(name, val, d.usage)
		case bool:
			fs.Bool(name, val, d.usage)
		case string:
			fs.String(name, val, d.usage)
		default:
			return fmt.Errorf("config: unsupported default for %s", d.key)
		}
		if err := v.BindPFlag(d.key, fs.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// Load reads file (if non-empty) into v and decodes the merged settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	pcts := []struct {
		name string
		v    float64
	}{
		{"density", c.Density},
		{"init_infected", c.InitInfected},
		{"infection_prob", c.InfectionProb},
		{"mortality", c.Mortality},
		{"cdc_threshold", c.CDCThreshold},
		{"non_compliance", c.NonCompliance},
	}
	for _, p := range pcts {
		if p.v < 0 || p.v > 100 {
			return fmt.Errorf("%w: %s=%g must be within 0..100", ErrInvalid, p.name, p.v)
		}
	}
	switch {
	case c.GridSize < 0:
		return fmt.Errorf("%w: grid_size=%d is negative", ErrInvalid, c.GridSize)
	case c.RecoveryTime < 1:
		return fmt.Errorf("%w: recovery_time=%g must be at least 1", ErrInvalid, c.RecoveryTime)
	case c.MaxSteps < 0:
		return fmt.Errorf("%w: max_steps=%d is negative", ErrInvalid, c.MaxSteps)
	case c.Runs < 0:
		return fmt.Errorf("%w: runs=%d is negative", ErrInvalid, c.Runs)
	case c.Parallelism < 0:
		return fmt.Errorf("%w: parallelism=%d is negative", ErrInvalid, c.Parallelism)
	case strings.ContainsAny(c.Label, `/\`):
		return fmt.Errorf("%w: label %q may not contain path separators", ErrInvalid, c.Label)
	}
	return nil
}

// Params converts the percent-based settings into engine parameters.
func (c *Config) Params() sim.Params {
	return sim.Params{
		GridSize:         c.GridSize,
		Density:          c.Density / 100,
		InitInfPct:       c.InitInfected / 100,
		InfProb:          c.InfectionProb / 100,
		RecTimeMean:      c.RecoveryTime,
		MortRate:         c.Mortality / 100,
		CDCThresholdPct:  c.CDCThreshold / 100,
		NonCompliancePct: c.NonCompliance / 100,
		Distancing:       c.Distancing,
	}.Normalize()
}
