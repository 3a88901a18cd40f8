package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MatrixEditor/hiktools/internal/sadp"
)

// Config holds the scan settings for the sadp-scan harness.
type Config struct {
	// Interface is the name of the interface to scan on. Empty selects the
	// first discovered non-loopback interface.
	Interface string `yaml:"interface"`

	// EtherType overrides the protocol number the raw socket is opened for.
	// Zero means the SADP EtherType; changing it is only useful against
	// captures replayed with a rewritten protocol field.
	EtherType uint16 `yaml:"ether_type"`

	// CounterSeed seeds the sequence counter. Zero selects a random seed
	// per run, matching the vendor tool's session behavior.
	CounterSeed uint32 `yaml:"counter_seed"`

	// ScanWindowSeconds is how long to collect responses after the inquiry
	// is sent.
	ScanWindowSeconds int `yaml:"scan_window_seconds"`

	// LogLevel is the zap level ("debug", "info", "warn", "error"); empty
	// defers to HIKTOOLS_LOG_LEVEL.
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		EtherType:         sadp.EtherType,
		ScanWindowSeconds: 5,
	}
}

// Load reads the configuration at path, layered over Default. A missing
// file is not an error; it yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.EtherType == 0 {
		cfg.EtherType = sadp.EtherType
	}
	if cfg.ScanWindowSeconds <= 0 {
		cfg.ScanWindowSeconds = Default().ScanWindowSeconds
	}
	return cfg, nil
}

// ScanWindow returns the response collection window as a duration.
func (c *Config) ScanWindow() time.Duration {
	return time.Duration(c.ScanWindowSeconds) * time.Second
}
