package capture

import (
	"fmt"
	"math"
)

const (
	MinLevel = 1
	MaxLevel = 100
)

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}

func validateLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("level %d outside [%d,%d]: %w", level, MinLevel, MaxLevel, ErrInvalidArgument)
	}
	return nil
}

func validateFraction(name string, f float64) error {
	if math.IsNaN(f) || f < 0 || f > 1 {
		return fmt.Errorf("%s %v outside [0,1]: %w", name, f, ErrInvalidArgument)
	}
	return nil
}
