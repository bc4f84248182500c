package experiment

import "github.com/xtding233/capturesim/internal/capture"

// Standard analysis grids. Every preset varies one dimension and fixes the rest.

// DefaultLevels is level 1 then 10..100 in steps of 5.
func DefaultLevels() []int {
	return append([]int{1}, LevelRange(10, 100, 5)...)
}

// StatusSweep varies status at level 100 and zero health.
func StatusSweep(species, devices []string) Sweep {
	return Sweep{
		Species:  species,
		Devices:  devices,
		Statuses: capture.Statuses(),
		Levels:   []int{100},
		Health:   []float64{0},
	}
}

// HealthSweep varies health 0..0.95 in 0.05 steps at level 100, no status.
func HealthSweep(species, devices []string) Sweep {
	return Sweep{
		Species:  species,
		Devices:  devices,
		Statuses: []capture.Status{capture.StatusNone},
		Levels:   []int{100},
		Health:   HealthRange(0, 0.95, 0.05),
	}
}

// LevelSweep varies level over DefaultLevels at half health, no status.
func LevelSweep(species, devices []string) Sweep {
	return Sweep{
		Species:  species,
		Devices:  devices,
		Statuses: []capture.Status{capture.StatusNone},
		Levels:   DefaultLevels(),
		Health:   []float64{0.5},
	}
}

// DeviceSweep compares devices at level 100, full health, no status.
func DeviceSweep(species, devices []string) Sweep {
	return Sweep{
		Species:  species,
		Devices:  devices,
		Statuses: []capture.Status{capture.StatusNone},
		Levels:   []int{100},
		Health:   []float64{1},
	}
}

// PresetFor returns the preset that varies d. DimSpecies maps to DeviceSweep,
// whose rows already span every species.
func PresetFor(d Dimension, species, devices []string) Sweep {
	switch d {
	case DimStatus:
		return StatusSweep(species, devices)
	case DimHealth:
		return HealthSweep(species, devices)
	case DimLevel:
		return LevelSweep(species, devices)
	}
	return DeviceSweep(species, devices)
}
