package capture

import "fmt"

// Factory builds Creatures from a species catalog. It holds no mutable state
// and may be shared across goroutines.
type Factory struct {
	species SpeciesLookup
	maxHP   HPFormula
}

// NewFactory creates a factory using ClassicMaxHP.
func NewFactory(species SpeciesLookup) *Factory {
	return &Factory{species: species, maxHP: ClassicMaxHP}
}

// WithHPFormula returns a copy of f that derives maximum HP with formula.
func (f *Factory) WithHPFormula(formula HPFormula) *Factory {
	cp := *f
	if formula != nil {
		cp.maxHP = formula
	}
	return &cp
}

// Create derives a Creature for the species at the given level, status and
// health fraction. Out-of-range level or health is rejected, never clamped.
//   - unknown species => ErrNotFound
//   - level outside [1,100], health outside [0,1], unknown status => ErrInvalidArgument
func (f *Factory) Create(speciesID string, level int, status Status, healthFraction float64) (Creature, error) {
	sp, ok := f.species.Species(speciesID)
	if !ok || sp == nil {
		return Creature{}, fmt.Errorf("species %q: %w", speciesID, ErrNotFound)
	}
	if err := validateLevel(level); err != nil {
		return Creature{}, err
	}
	if !status.valid() {
		return Creature{}, fmt.Errorf("status %d: %w", int(status), ErrInvalidArgument)
	}
	if err := validateFraction("health fraction", healthFraction); err != nil {
		return Creature{}, err
	}

	maxHP := f.maxHP(sp.Base.HP, level)
	if maxHP < 1 {
		maxHP = 1
	}
	return Creature{
		species:   sp,
		level:     level,
		status:    status,
		maxHP:     maxHP,
		currentHP: currentHPFor(maxHP, healthFraction),
		stats: Stats{
			Attack:  ClassicStat(sp.Base.Attack, level),
			Defense: ClassicStat(sp.Base.Defense, level),
			Speed:   ClassicStat(sp.Base.Speed, level),
		},
	}, nil
}
