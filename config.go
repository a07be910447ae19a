package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk run configuration. Command-line flags override it.
type Config struct {
	Qubits          int             `yaml:"qubits" validate:"min=1,max=26"`
	Marked          []int           `yaml:"marked" validate:"dive,min=0"`
	Shots           int             `yaml:"shots"`
	Seed            *uint64         `yaml:"seed,omitempty"`
	TopK            int             `yaml:"top_k" validate:"min=0"`
	Workers         int             `yaml:"workers" validate:"min=1,max=256"`
	IterationPolicy IterationPolicy `yaml:"iteration_policy" validate:"oneof=known upper-bound"`
	Log             LogConfig       `yaml:"log"`
	MetricsAddr     string          `yaml:"metrics_addr,omitempty" validate:"omitempty,hostname_port"`
}

// LogConfig selects log level, encoding and destination.
type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
	File   string `yaml:"file,omitempty"`
}

// DefaultConfig is the six-qubit, two-paper search.
func DefaultConfig() Config {
	return Config{
		Qubits:          6,
		Marked:          []int{1, 42},
		Shots:           1024,
		TopK:            5,
		Workers:         1,
		IterationPolicy: PolicyKnown,
		Log:             LogConfig{Level: "info", Format: "text"},
	}
}

// preset is a named register size and marked set.
type preset struct {
	qubits int
	marked []int
}

var presets = map[string]preset{
	// six qubits, papers 1 and 42
	"two-papers": {qubits: 6, marked: []int{1, 42}},
	// 100 papers padded to 128 states, five relevant
	"scholar": {qubits: 7, marked: []int{51, 42, 28, 102, 75}},
}

// PresetNames lists the presets ApplyPreset accepts, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ApplyPreset replaces the register size and marked set with a named preset.
func (c *Config) ApplyPreset(name string) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("%w: unknown preset %q (have %s)", ErrInvalidConfig, name, strings.Join(PresetNames(), ", "))
	}
	c.Qubits = p.qubits
	c.Marked = slices.Clone(p.marked)
	return nil
}

// LoadConfig reads a YAML file over the defaults and validates the result.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and that every marked index fits the register.
// Errors wrap ErrInvalidConfig and, where one applies, the domain sentinel.
func (c Config) Validate() error {
	if c.Shots < 0 {
		return fmt.Errorf("%w: %w: %d", ErrInvalidConfig, ErrInvalidShotCount, c.Shots)
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := NewMarkedSet(c.Qubits, c.Marked); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Request converts the config into a simulator request.
func (c Config) Request() Request {
	return Request{
		NumQubits: c.Qubits,
		Marked:    c.Marked,
		Shots:     c.Shots,
		Seed:      c.Seed,
		Workers:   c.Workers,
		Policy:    c.IterationPolicy,
	}
}
