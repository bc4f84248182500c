package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Paths locates catalog files under a base directory:
//
//	<base>/pokemon.{json,yaml,yml}
//	<base>/pokeball.{json,yaml,yml}
//	<base>/overlays/<name>/pokemon.* and pokeball.*  (optional)
type Paths struct {
	BaseDir string
}

const (
	speciesStem = "pokemon"
	deviceStem  = "pokeball"
)

func (p Paths) SpeciesPath() string { return findFile(p.BaseDir, speciesStem) }
func (p Paths) DevicePath() string  { return findFile(p.BaseDir, deviceStem) }

func (p Paths) OverlayDir(name string) string {
	return filepath.Join(p.BaseDir, "overlays", name)
}

// Files lists the catalog files that exist for the overlay ("" for base only).
func (p Paths) Files(overlay string) []string {
	var out []string
	dirs := []string{p.BaseDir}
	if overlay != "" {
		dirs = append(dirs, p.OverlayDir(overlay))
	}
	for _, dir := range dirs {
		for _, stem := range []string{speciesStem, deviceStem} {
			if path := findFile(dir, stem); path != "" {
				out = append(out, path)
			}
		}
	}
	return out
}

// findFile returns the first existing <dir>/<stem>.{json,yaml,yml}, or "".
func findFile(dir, stem string) string {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(dir, stem+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Loader reads catalog files and merges base <- overlay. Built catalogs are
// cached per overlay until Invalidate.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]*Catalog // key: overlay name, "" for base
}

// NewLoader creates a loader for the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]*Catalog),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// Load returns the validated catalog for the overlay ("" loads the base only).
// The base species and device files must exist; overlay files are optional.
func (l *Loader) Load(overlay string) (*Catalog, error) {
	l.mu.RLock()
	if c, ok := l.cache[overlay]; ok {
		l.mu.RUnlock()
		return c, nil
	}
	l.mu.RUnlock()

	raw, err := l.LoadMerged(overlay)
	if err != nil {
		return nil, err
	}
	c, err := Build(raw)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[overlay] = c
	l.mu.Unlock()
	return c, nil
}

// LoadMerged reads and merges the raw records without validating them.
func (l *Loader) LoadMerged(overlay string) (RawCatalog, error) {
	speciesPath := l.paths.SpeciesPath()
	if speciesPath == "" {
		return RawCatalog{}, fmt.Errorf("species catalog %s.{json,yaml} not found in %s: %w", speciesStem, l.paths.BaseDir, os.ErrNotExist)
	}
	devicePath := l.paths.DevicePath()
	if devicePath == "" {
		return RawCatalog{}, fmt.Errorf("device catalog %s.{json,yaml} not found in %s: %w", deviceStem, l.paths.BaseDir, os.ErrNotExist)
	}

	var merged RawCatalog
	if err := readRecords(speciesPath, &merged.Species); err != nil {
		return RawCatalog{}, fmt.Errorf("read species: %w", err)
	}
	if err := readRecords(devicePath, &merged.Devices); err != nil {
		return RawCatalog{}, fmt.Errorf("read devices: %w", err)
	}

	if overlay != "" {
		dir := l.paths.OverlayDir(overlay)
		var over RawCatalog
		if path := findFile(dir, speciesStem); path != "" {
			if err := readRecords(path, &over.Species); err != nil {
				return RawCatalog{}, fmt.Errorf("read overlay species: %w", err)
			}
		}
		if path := findFile(dir, deviceStem); path != "" {
			if err := readRecords(path, &over.Devices); err != nil {
				return RawCatalog{}, fmt.Errorf("read overlay devices: %w", err)
			}
		}
		merged = mergeRaw(merged, over)
	}
	return merged, nil
}

// Invalidate clears the cache. Call after the watcher reports a change.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*Catalog)
}

// readRecords decodes a JSON or YAML object into out. JSON is valid YAML, so
// one decoder serves both.
func readRecords[T any](path string, out *map[string]T) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if *out == nil {
		*out = map[string]T{}
	}
	return nil
}

// Decode parses in-memory species and device documents. Handy for tests and
// for catalogs shipped with a request body.
func Decode(species, devices []byte) (*Catalog, error) {
	var raw RawCatalog
	if err := yaml.Unmarshal(species, &raw.Species); err != nil {
		return nil, fmt.Errorf("decode species: %w", err)
	}
	if err := yaml.Unmarshal(devices, &raw.Devices); err != nil {
		return nil, fmt.Errorf("decode devices: %w", err)
	}
	return Build(raw)
}

// mergeRaw overlays b onto a: records with a new id are added; for existing ids
// non-nil fields of b replace those of a. Slices in b replace slices in a.
func mergeRaw(a, b RawCatalog) RawCatalog {
	out := RawCatalog{
		Species: make(map[string]SpeciesRecord, len(a.Species)+len(b.Species)),
		Devices: make(map[string]DeviceRecord, len(a.Devices)+len(b.Devices)),
	}
	for id, r := range a.Species {
		out.Species[id] = r
	}
	for id, r := range a.Devices {
		out.Devices[id] = r
	}

	for id, r := range b.Species {
		base, ok := out.Species[id]
		if !ok {
			out.Species[id] = r
			continue
		}
		if r.PokedexNumber != nil {
			base.PokedexNumber = r.PokedexNumber
		}
		if len(r.Types) > 0 {
			base.Types = append([]string(nil), r.Types...)
		}
		if len(r.Stats) > 0 {
			base.Stats = append([]int(nil), r.Stats...)
		}
		if r.CatchRate != nil {
			base.CatchRate = r.CatchRate
		}
		if r.Weight != nil {
			base.Weight = r.Weight
		}
		out.Species[id] = base
	}

	for id, r := range b.Devices {
		base, ok := out.Devices[id]
		if !ok {
			out.Devices[id] = r
			continue
		}
		if r.Multiplier != nil {
			base.Multiplier = r.Multiplier
		}
		if r.Cost != nil {
			base.Cost = r.Cost
		}
		if r.Bundle != nil {
			c := *r.Bundle
			base.Bundle = &c
		}
		out.Devices[id] = base
	}
	return out
}

// IsNotExist reports whether err means a catalog file is missing.
func IsNotExist(err error) bool { return errors.Is(err, os.ErrNotExist) }
