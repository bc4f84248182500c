package experiment

import (
	"fmt"
	"math"
	"strconv"

	"github.com/xtding233/capturesim/internal/capture"
)

// Sweep is a cartesian product of parameter values.
type Sweep struct {
	Species  []string
	Devices  []string
	Statuses []capture.Status
	Levels   []int
	Health   []float64
}

// Configs expands the sweep in species -> device -> status -> level -> health
// order. Every dimension needs at least one value.
func (s Sweep) Configs() ([]Config, error) {
	switch {
	case len(s.Species) == 0:
		return nil, fmt.Errorf("sweep has no species: %w", capture.ErrInvalidArgument)
	case len(s.Devices) == 0:
		return nil, fmt.Errorf("sweep has no devices: %w", capture.ErrInvalidArgument)
	case len(s.Statuses) == 0:
		return nil, fmt.Errorf("sweep has no statuses: %w", capture.ErrInvalidArgument)
	case len(s.Levels) == 0:
		return nil, fmt.Errorf("sweep has no levels: %w", capture.ErrInvalidArgument)
	case len(s.Health) == 0:
		return nil, fmt.Errorf("sweep has no health values: %w", capture.ErrInvalidArgument)
	}
	out := make([]Config, 0, len(s.Species)*len(s.Devices)*len(s.Statuses)*len(s.Levels)*len(s.Health))
	for _, sp := range s.Species {
		for _, d := range s.Devices {
			for _, st := range s.Statuses {
				for _, lv := range s.Levels {
					for _, hp := range s.Health {
						out = append(out, Config{Species: sp, Level: lv, Status: st, Health: hp, Device: d})
					}
				}
			}
		}
	}
	return out, nil
}

// LevelRange returns min, min+step, ... up to and including max when it lands
// on a step. step <= 0 yields just min.
func LevelRange(min, max, step int) []int {
	if step <= 0 || max < min {
		return []int{min}
	}
	var out []int
	for lv := min; lv <= max; lv += step {
		out = append(out, lv)
	}
	return out
}

// HealthRange returns evenly spaced fractions from min to max inclusive.
// Values are rounded to 1e-9 so 0.1-steps print cleanly.
func HealthRange(min, max, step float64) []float64 {
	if step <= 0 || max < min {
		return []float64{min}
	}
	n := int(math.Floor((max-min)/step + 1e-9))
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, math.Round((min+float64(i)*step)*1e9)/1e9)
	}
	return out
}

// Dimension names a swept parameter, for pivoting results.
type Dimension string

const (
	DimSpecies Dimension = "species"
	DimDevice  Dimension = "device"
	DimStatus  Dimension = "status"
	DimLevel   Dimension = "level"
	DimHealth  Dimension = "health"
)

// ParseDimension accepts the dimension names above ("hp" is an alias of health).
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimSpecies, DimDevice, DimStatus, DimLevel, DimHealth:
		return Dimension(s), nil
	case "hp":
		return DimHealth, nil
	}
	return "", fmt.Errorf("dimension %q: %w", s, capture.ErrInvalidArgument)
}

// Value formats the configuration's value along d.
func (d Dimension) Value(c Config) string {
	switch d {
	case DimSpecies:
		return c.Species
	case DimDevice:
		return c.Device
	case DimStatus:
		return c.Status.String()
	case DimLevel:
		return strconv.Itoa(c.Level)
	case DimHealth:
		return strconv.FormatFloat(c.Health, 'f', -1, 64)
	}
	return ""
}
