package capture

import (
	"errors"
	"testing"
)

func TestClassicMaxHPMonotonicInLevel(t *testing.T) {
	for _, base := range []int{1, 35, 65, 160, 255} {
		prev := 0
		for level := MinLevel; level <= MaxLevel; level++ {
			hp := ClassicMaxHP(base, level)
			if hp < prev {
				t.Fatalf("base %d: hp dropped at level %d (%d < %d)", base, level, hp, prev)
			}
			prev = hp
		}
	}
	if got := ClassicMaxHP(65, 100); got != 271 {
		t.Fatalf("expected 271, got %d", got)
	}
	if got := ClassicMaxHP(45, 50); got != 120 {
		t.Fatalf("expected 120, got %d", got)
	}
}

func TestCreateDerivesHP(t *testing.T) {
	f := NewFactory(testSpecies())
	c, err := f.Create("jolteon", 100, StatusNone, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxHP() != 271 {
		t.Fatalf("expected max hp 271, got %d", c.MaxHP())
	}
	if c.CurrentHP() != 136 {
		t.Fatalf("expected current hp 136, got %d", c.CurrentHP())
	}
	if c.Species().ID != "jolteon" || c.Level() != 100 || c.Status() != StatusNone {
		t.Fatalf("unexpected creature: %+v", c)
	}
	if c.Stats().Speed != ClassicStat(130, 100) {
		t.Fatalf("unexpected speed %d", c.Stats().Speed)
	}

	zero, err := f.Create("jolteon", 100, StatusSleep, 0)
	if err != nil {
		t.Fatal(err)
	}
	if zero.CurrentHP() != 0 || zero.HealthFraction() != 0 {
		t.Fatalf("health 0 must give 0 hp, got %d", zero.CurrentHP())
	}
	full, _ := f.Create("jolteon", 1, StatusNone, 1)
	if full.CurrentHP() != full.MaxHP() {
		t.Fatalf("health 1 must give max hp, got %d/%d", full.CurrentHP(), full.MaxHP())
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	f := NewFactory(testSpecies())
	cases := []struct {
		name    string
		species string
		level   int
		status  Status
		health  float64
		want    error
	}{
		{"level 0", "jolteon", 0, StatusNone, 1, ErrInvalidArgument},
		{"level 101", "jolteon", 101, StatusNone, 1, ErrInvalidArgument},
		{"health below 0", "jolteon", 50, StatusNone, -0.01, ErrInvalidArgument},
		{"health above 1", "jolteon", 50, StatusNone, 1.01, ErrInvalidArgument},
		{"unknown status", "jolteon", 50, Status(99), 1, ErrInvalidArgument},
		{"unknown species", "missingno", 50, StatusNone, 1, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.Create(tc.species, tc.level, tc.status, tc.health)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestWithHPFormula(t *testing.T) {
	f := NewFactory(testSpecies()).WithHPFormula(func(base, level int) int { return base * level })
	c, err := f.Create("caterpie", 2, StatusNone, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c.MaxHP() != 90 {
		t.Fatalf("expected custom max hp 90, got %d", c.MaxHP())
	}
}
