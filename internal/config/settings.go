package config

import (
	"fmt"
	"time"
)

const (
	DefaultBatches  = 100
	DefaultAttempts = 1000
	DefaultAddr     = ":8080"
	DefaultReload   = 2 * time.Second
	DefaultFormat   = "table"
)

// Settings are the resolved run settings.
type Settings struct {
	Data     string        `json:"data" env:"CAPTURESIM_DATA_DIR"` // "" uses the embedded catalogs
	Overlay  string        `json:"overlay" env:"CAPTURESIM_OVERLAY"`
	Seed     uint64        `json:"seed" env:"CAPTURESIM_SEED"`
	Workers  int           `json:"workers" env:"CAPTURESIM_WORKERS"` // <= 0 means GOMAXPROCS
	Batches  int           `json:"batches" env:"CAPTURESIM_BATCHES"`
	Attempts int           `json:"attempts" env:"CAPTURESIM_ATTEMPTS"`
	Noise    float64       `json:"noise" env:"CAPTURESIM_NOISE"`
	Format   string        `json:"format" env:"CAPTURESIM_FORMAT"`
	Addr     string        `json:"addr" env:"CAPTURESIM_ADDR"`
	Reload   time.Duration `json:"reload" env:"CAPTURESIM_RELOAD"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Batches:  DefaultBatches,
		Attempts: DefaultAttempts,
		Format:   DefaultFormat,
		Addr:     DefaultAddr,
		Reload:   DefaultReload,
	}
}

// Resolve layers defaults, the TOML file at path and the environment.
func Resolve(path string) (Settings, error) {
	s := Defaults()
	fc, err := LoadConfig(path)
	if err != nil {
		return Settings{}, err
	}
	if err := fc.Apply(&s); err != nil {
		return Settings{}, err
	}
	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks ranges that do not depend on the catalog.
func (s Settings) Validate() error {
	if s.Batches < 1 {
		return fmt.Errorf("batches must be >= 1, got %d", s.Batches)
	}
	if s.Attempts < 1 {
		return fmt.Errorf("attempts must be >= 1, got %d", s.Attempts)
	}
	if s.Noise < 0 || s.Noise > 1 {
		return fmt.Errorf("noise must be between 0 and 1, got %v", s.Noise)
	}
	switch s.Format {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("format must be table, csv or json, got %q", s.Format)
	}
	if s.Reload < 0 {
		return fmt.Errorf("reload interval must be >= 0, got %v", s.Reload)
	}
	return nil
}

// Template is a commented config file listing every key.
func Template() string {
	return fmt.Sprintf(`# capturesim configuration
# Uncomment a value to enable it. Environment variables and CLI flags
# override config values.

[run]
# data = "./data"        # Catalog directory (default: embedded catalogs)
# overlay = ""           # Catalog overlay under <data>/overlays
# seed = 0               # Run seed; 0 draws a random seed
# workers = 0            # Parallel workers; 0 uses all CPUs
# batches = %d          # Batches per configuration
# attempts = %d        # Attempts per batch
# noise = 0.0            # Per-attempt probability noise (0-1)
# format = %q       # table, csv or json

[serve]
# addr = %q         # Listen address
# reload = %q           # Catalog poll interval; "0" disables hot reload
`, DefaultBatches, DefaultAttempts, DefaultFormat, DefaultAddr, DefaultReload.String())
}
