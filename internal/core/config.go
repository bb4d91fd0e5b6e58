package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config enumerates every SAT-encoding and search-control option described
// in the external-interfaces surface: which clause groups are emitted, which
// at-most-one/transport encoding variants are active, and the resource
// ceilings the driver enforces.
type Config struct {
	Prep bool    `yaml:"prep"`
	F    float64 `yaml:"f"`
	AMO  bool    `yaml:"amo"`

	EdgeVars bool `yaml:"edge_vars"`
	MoveVars bool `yaml:"move_vars"`

	FixedAgent     bool `yaml:"fixed_agent"`
	FixedContainer bool `yaml:"fixed_container"`

	EdgeReservation bool `yaml:"edge_reservation"`
	Transport       bool `yaml:"transport"`

	NThreads int  `yaml:"n_threads"`
	TimeoutS int  `yaml:"timeout_s"`
	Log      bool `yaml:"log"`

	MaxLiterals int `yaml:"max_literals"`
	MaxT        int `yaml:"max_t"`
}

// DefaultConfig returns the preset matching the source's default Config
// constructor: sequential AMO, direct transport/edge-reservation encodings,
// preprocessing on, f=2.0.
func DefaultConfig() Config {
	return Config{
		Prep:            true,
		F:               2.0,
		AMO:             true,
		EdgeReservation: true,
		Transport:       true,
		NThreads:        4,
		TimeoutS:        600,
		Log:             true,
		MaxLiterals:     1_000_000_000,
		MaxT:            256,
	}
}

// Validate checks the mutual-exclusion rules the encoding builder depends
// on, returning ErrInvalidConfig (wrapped with the offending combination)
// if violated. Checked once, at solve start, before any clause is emitted.
func (c Config) Validate() error {
	if c.MoveVars && !c.EdgeVars {
		return fmt.Errorf("%w: move_vars requires edge_vars", ErrInvalidConfig)
	}
	if (c.FixedAgent || c.FixedContainer) && (c.EdgeVars || c.MoveVars) {
		return fmt.Errorf("%w: fixed_agent/fixed_container is mutually exclusive with edge_vars/move_vars", ErrInvalidConfig)
	}
	return nil
}

// LoadConfigFile reads a YAML-encoded Config from path, starting from
// DefaultConfig so an omitted field keeps its default rather than
// zero-valuing to false/0.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("core: reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("core: parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfigFile writes cfg to path as YAML.
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("core: marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("core: writing config %s: %w", path, err)
	}
	return nil
}

// Fingerprint is a compact cfg identity string used by the benchmark CSV's
// config column: one letter per enabled boolean encoding option (the
// defaults included, so DefaultConfig gives "psrt"), plus the growth factor.
func (c Config) Fingerprint() string {
	flags := ""
	mark := func(on bool, letter string) {
		if on {
			flags += letter
		}
	}
	mark(c.Prep, "p")
	mark(c.AMO, "s")
	mark(c.EdgeVars, "e")
	mark(c.MoveVars, "m")
	mark(c.FixedAgent, "a")
	mark(c.FixedContainer, "c")
	mark(c.EdgeReservation, "r")
	mark(c.Transport, "t")
	return fmt.Sprintf("%s/f%.1f", flags, c.F)
}

// EncodingPreset mirrors the source's constexpr-preset Config constructor:
// preset 0 selects binomial AMO with the direct transport/edge-reservation
// encodings; preset 2 selects edge_vars; preset 3 layers move_vars on top of
// edge_vars. Any other preset returns DefaultConfig unchanged.
func EncodingPreset(preset int) Config {
	cfg := DefaultConfig()
	switch preset {
	case 0:
		cfg.AMO = false
	case 2:
		cfg.EdgeVars = true
	case 3:
		cfg.EdgeVars = true
		cfg.MoveVars = true
	}
	return cfg
}
