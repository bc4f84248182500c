// Package config resolves run settings from defaults, a TOML file and the
// environment. Command-line flags are layered on top by the CLI.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Run   RunConfig   `toml:"run"`
	Serve ServeConfig `toml:"serve"`
}

// RunConfig maps experiment settings.
type RunConfig struct {
	Data     *string  `toml:"data"`
	Overlay  *string  `toml:"overlay"`
	Seed     *uint64  `toml:"seed"`
	Workers  *int     `toml:"workers"`
	Batches  *int     `toml:"batches"`
	Attempts *int     `toml:"attempts"`
	Noise    *float64 `toml:"noise"`
	Format   *string  `toml:"format"`
}

// ServeConfig maps HTTP server settings.
type ServeConfig struct {
	Addr   *string `toml:"addr"`
	Reload *string `toml:"reload"` // duration, e.g. "2s"; "0" disables hot reload
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply copies every value present in the file onto s.
func (f FileConfig) Apply(s *Settings) error {
	setIf(&s.Data, f.Run.Data)
	setIf(&s.Overlay, f.Run.Overlay)
	setIf(&s.Seed, f.Run.Seed)
	setIf(&s.Workers, f.Run.Workers)
	setIf(&s.Batches, f.Run.Batches)
	setIf(&s.Attempts, f.Run.Attempts)
	setIf(&s.Noise, f.Run.Noise)
	setIf(&s.Format, f.Run.Format)
	setIf(&s.Addr, f.Serve.Addr)
	if f.Serve.Reload != nil {
		d, err := time.ParseDuration(*f.Serve.Reload)
		if err != nil {
			return fmt.Errorf("serve.reload: %w", err)
		}
		s.Reload = d
	}
	return nil
}

func setIf[T any](target *T, value *T) {
	if value != nil {
		*target = *value
	}
}
