package experiment

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xtding233/capturesim/internal/capture"
)

func TestSweepConfigsOrder(t *testing.T) {
	s := Sweep{
		Species:  []string{"onix", "snorlax"},
		Devices:  []string{"pokeball"},
		Statuses: []capture.Status{capture.StatusNone, capture.StatusSleep},
		Levels:   []int{50},
		Health:   []float64{0, 1},
	}
	cfgs, err := s.Configs()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfgs) != 8 {
		t.Fatalf("expected 8 configs, got %d", len(cfgs))
	}
	want := []Config{
		{Species: "onix", Device: "pokeball", Status: capture.StatusNone, Level: 50, Health: 0},
		{Species: "onix", Device: "pokeball", Status: capture.StatusNone, Level: 50, Health: 1},
		{Species: "onix", Device: "pokeball", Status: capture.StatusSleep, Level: 50, Health: 0},
	}
	if !reflect.DeepEqual(cfgs[:3], want) {
		t.Fatalf("unexpected order: %+v", cfgs[:3])
	}
	if cfgs[4].Species != "snorlax" {
		t.Fatalf("species must be the outermost dimension: %+v", cfgs[4])
	}
}

func TestSweepEmptyDimension(t *testing.T) {
	s := HealthSweep([]string{"onix"}, nil)
	if _, err := s.Configs(); !errors.Is(err, capture.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestRanges(t *testing.T) {
	if got := LevelRange(10, 100, 5); len(got) != 19 || got[0] != 10 || got[18] != 100 {
		t.Fatalf("unexpected levels: %v", got)
	}
	if got := DefaultLevels(); len(got) != 20 || got[0] != 1 || got[1] != 10 {
		t.Fatalf("unexpected default levels: %v", got)
	}
	if got := LevelRange(7, 7, 0); !reflect.DeepEqual(got, []int{7}) {
		t.Fatalf("zero step: %v", got)
	}
	hp := HealthRange(0, 0.95, 0.05)
	if len(hp) != 20 || hp[0] != 0 || hp[19] != 0.95 || hp[3] != 0.15 {
		t.Fatalf("unexpected health range: %v", hp)
	}
}

func TestPresets(t *testing.T) {
	sp, dev := []string{"onix"}, []string{"pokeball"}
	cases := []struct {
		s    Sweep
		want int
	}{
		{StatusSweep(sp, dev), 6},
		{HealthSweep(sp, dev), 20},
		{LevelSweep(sp, dev), 20},
		{DeviceSweep(sp, []string{"pokeball", "ultraball"}), 2},
	}
	for i, tc := range cases {
		cfgs, err := tc.s.Configs()
		if err != nil {
			t.Fatal(err)
		}
		if len(cfgs) != tc.want {
			t.Fatalf("preset %d: expected %d configs, got %d", i, tc.want, len(cfgs))
		}
	}
	if s := PresetFor(DimLevel, sp, dev); len(s.Levels) != 20 {
		t.Fatalf("PresetFor(level) returned %+v", s)
	}
}

func TestDimension(t *testing.T) {
	d, err := ParseDimension("hp")
	if err != nil || d != DimHealth {
		t.Fatalf("hp alias: %v %v", d, err)
	}
	if _, err := ParseDimension("weather"); !errors.Is(err, capture.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	cfg := Config{Species: "onix", Device: "ultraball", Status: capture.StatusBurn, Level: 35, Health: 0.25}
	for dim, want := range map[Dimension]string{
		DimSpecies: "onix", DimDevice: "ultraball", DimStatus: "BURN", DimLevel: "35", DimHealth: "0.25",
	} {
		if got := dim.Value(cfg); got != want {
			t.Fatalf("%s: expected %q, got %q", dim, want, got)
		}
	}
}

func TestParseSweepMapping(t *testing.T) {
	doc := []byte(`
batches: 20
attempts: 50
experiments:
  - pokemon: onix
    status: [sleep, none]
    hp_min: 0.1
    hp_max: 0.3
  - species: [snorlax]
    devices: ultraball
    level_min: 10
    level_max: 30
    level_step: 10
    hp_min: 0
    hp_max: 0.5
    hp_step: 0.25
`)
	f, err := ParseSweep(doc)
	if err != nil {
		t.Fatal(err)
	}
	if f.Batches != 20 || f.Attempts != 50 || len(f.Experiments) != 2 {
		t.Fatalf("unexpected file: %+v", f)
	}
	cfgs, err := f.Configs([]string{"pokeball", "ultraball"})
	if err != nil {
		t.Fatal(err)
	}
	// onix: 2 devices x 2 statuses x 20 default levels x 1 midpoint
	// snorlax: 1 device x 1 status x 3 levels x 3 health values
	if len(cfgs) != 80+9 {
		t.Fatalf("expected 89 configs, got %d", len(cfgs))
	}
	if math.Abs(cfgs[0].Health-0.2) > 1e-12 || cfgs[0].Status != capture.StatusSleep {
		t.Fatalf("unexpected first config: %+v", cfgs[0])
	}
	last := cfgs[len(cfgs)-1]
	if last.Species != "snorlax" || last.Device != "ultraball" || last.Level != 30 || last.Health != 0.5 {
		t.Fatalf("unexpected last config: %+v", last)
	}
}

func TestParseSweepList(t *testing.T) {
	f, err := ParseSweep([]byte(`[{"species": "jolteon", "levels": [100], "health": [1]}]`))
	if err != nil {
		t.Fatal(err)
	}
	cfgs, err := f.Configs([]string{"pokeball"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfgs) != 1 || cfgs[0] != baseline() {
		t.Fatalf("unexpected configs: %+v", cfgs)
	}
}

func TestSweepLevelRangeWithoutStep(t *testing.T) {
	f, err := ParseSweep([]byte("experiments:\n  - pokemon: onix\n    level_min: 10\n    level_max: 14\n"))
	if err != nil {
		t.Fatal(err)
	}
	s, err := f.Experiments[0].Sweep([]string{"pokeball"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{10, 11, 12, 13, 14}; !reflect.DeepEqual(s.Levels, want) {
		t.Fatalf("levels = %v, want %v", s.Levels, want)
	}
}

func TestParseSweepErrors(t *testing.T) {
	for name, doc := range map[string]string{
		"empty":          ``,
		"no experiments": `batches: 3`,
		"bad status":     `[{species: onix, status: dazed}]`,
		"inverted hp":    `[{species: onix, hp_min: 0.8, hp_max: 0.2}]`,
		"negative step":  `[{species: onix, level_min: 10, level_max: 50, level_step: -5}]`,
	} {
		f, err := ParseSweep([]byte(doc))
		if err == nil {
			_, err = f.Configs([]string{"pokeball"})
		}
		if err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestLoadSweep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	if err := os.WriteFile(path, []byte("- species: onix\n  levels: [5]\n  health: [0]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := LoadSweep(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Experiments) != 1 || f.Experiments[0].Species[0] != "onix" {
		t.Fatalf("unexpected file: %+v", f)
	}
	if _, err := LoadSweep(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
