// SPDX-License-Identifier: MIT

// Package config holds the settings of a rowmul run, loaded from YAML and
// overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/rowmul/fabric"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Transports for the message-passing backend.
const (
	TransportLocal = "local"
	TransportTCP   = "tcp"
)

// Initializers.
const (
	InitSequential = "sequential"
	InitConstant   = "constant"
)

var (
	backends   = []string{fabric.BackendSharedMemory.String(), fabric.BackendMessagePassing.String()}
	transports = []string{TransportLocal, TransportTCP}
	inits      = []string{InitSequential, InitConstant}
)

// Config is one run's settings.
type Config struct {
	Backend   string `yaml:"backend"`
	Transport string `yaml:"transport"`

	// Size is N: A and B are N×N.
	Size int `yaml:"size"`

	// Workers is P: shared-memory tasks, or ranks of a message-passing world.
	Workers int `yaml:"workers"`

	// Pool is the shared-memory goroutine count. 0 selects GOMAXPROCS.
	Pool int `yaml:"pool"`

	Init   string `yaml:"init"`
	AValue int32  `yaml:"a_value"`
	BValue int32  `yaml:"b_value"`

	ReplicateA bool `yaml:"replicate_a"`

	// Addr and Rank place this process in a tcp world.
	Addr string `yaml:"addr"`
	Rank int    `yaml:"rank"`

	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the settings of the classic 4×4 sequential run.
func Default() Config {
	return Config{
		Backend:   fabric.BackendSharedMemory.String(),
		Transport: TransportLocal,
		Size:      4,
		Workers:   4,
		Init:      InitSequential,
		AValue:    1,
		BValue:    2,
		Addr:      "127.0.0.1:7447",
		Timeout:   time.Minute,
	}
}

// Load reads a YAML file over Default. Keys absent from the file keep their
// default value. The result is not validated: callers apply their overrides
// first and then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load(%s): %w", path, err)
	}

	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c Config) Validate() error {
	var errs []error
	if !lo.Contains(backends, c.Backend) {
		errs = append(errs, fmt.Errorf("backend %q not in %v", c.Backend, backends))
	}
	if !lo.Contains(transports, c.Transport) {
		errs = append(errs, fmt.Errorf("transport %q not in %v", c.Transport, transports))
	}
	if !lo.Contains(inits, c.Init) {
		errs = append(errs, fmt.Errorf("init %q not in %v", c.Init, inits))
	}
	if c.Size <= 0 {
		errs = append(errs, fmt.Errorf("size=%d must be positive", c.Size))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers=%d must be positive", c.Workers))
	}
	if c.Pool < 0 {
		errs = append(errs, fmt.Errorf("pool=%d must not be negative", c.Pool))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout=%v must not be negative", c.Timeout))
	}
	if c.Backend == fabric.BackendMessagePassing.String() && c.Transport == TransportTCP {
		if c.Rank < 0 || c.Rank >= c.Workers {
			errs = append(errs, fmt.Errorf("rank=%d not in [0,%d)", c.Rank, c.Workers))
		}
		if c.Addr == "" {
			errs = append(errs, errors.New("addr is required for the tcp transport"))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
