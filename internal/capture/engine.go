package capture

import (
	"fmt"
	"math"
)

// Outcome is the result of one capture attempt.
type Outcome struct {
	Success     bool
	Probability float64 // probability used for the draw, after noise and clamping
}

// CaptureValue is the raw classic capture value
//
//	a = 1 + (3*maxHP - 2*currentHP) * catchRate * device * status
//
// It is non-increasing in currentHP and non-decreasing in both multipliers.
func CaptureValue(maxHP, currentHP int, catchRate, device, status float64) float64 {
	return 1 + float64(3*maxHP-2*currentHP)*catchRate*device*status
}

// CaptureProbability converts the raw value to a probability and clamps it to
// [0,1]: a weak target with a strong device and status can exceed 1.
func CaptureProbability(maxHP, currentHP int, catchRate, device, status float64) float64 {
	return clamp01(rawProbability(maxHP, currentHP, catchRate, device, status))
}

// rawProbability is a / (3*maxHP) / 256 before clamping.
func rawProbability(maxHP, currentHP int, catchRate, device, status float64) float64 {
	if maxHP <= 0 {
		return 0
	}
	a := CaptureValue(maxHP, currentHP, catchRate, device, status)
	return a / float64(3*maxHP) / 256
}

// Engine computes capture probabilities and samples attempts. Attempts are
// stateless: the status and device bonus apply exactly once per call.
type Engine struct {
	devices DeviceLookup
	// Noise, when > 0, scales p by 1 + U(-Noise, +Noise) before the draw.
	Noise float64
}

// NewEngine returns an engine over the device catalog.
func NewEngine(devices DeviceLookup) *Engine {
	return &Engine{devices: devices}
}

// WithNoise returns a copy of e with the given noise amplitude.
func (e *Engine) WithNoise(noise float64) (*Engine, error) {
	if math.IsNaN(noise) || noise < 0 || noise > 1 {
		return nil, fmt.Errorf("noise %v outside [0,1]: %w", noise, ErrInvalidArgument)
	}
	cp := *e
	cp.Noise = noise
	return &cp, nil
}

func (e *Engine) device(kind string) (Device, error) {
	d, ok := e.devices.Device(kind)
	if !ok {
		return Device{}, fmt.Errorf("device %q: %w", kind, ErrNotFound)
	}
	return d, nil
}

// Probability returns the deterministic, unperturbed capture probability.
func (e *Engine) Probability(c Creature, kind string) (float64, error) {
	d, err := e.device(kind)
	if err != nil {
		return 0, err
	}
	return clamp01(rawFor(c, d)), nil
}

func rawFor(c Creature, d Device) float64 {
	var rate float64
	if c.species != nil {
		rate = c.species.CatchRate
	}
	return rawProbability(c.maxHP, c.currentHP, rate, d.Multiplier, c.status.Multiplier())
}

// Attempt throws one device at c. With Noise set, one sample perturbs the raw
// (unclamped) probability and a second decides the outcome; the perturbed
// value is clamped again before the draw and returned.
// A nil rng falls back to DefaultRNG.
func (e *Engine) Attempt(c Creature, kind string, rng RandomSource) (Outcome, error) {
	d, err := e.device(kind)
	if err != nil {
		return Outcome{}, err
	}
	if math.IsNaN(e.Noise) || e.Noise < 0 || e.Noise > 1 {
		return Outcome{}, fmt.Errorf("noise %v outside [0,1]: %w", e.Noise, ErrInvalidArgument)
	}
	if rng == nil {
		rng = DefaultRNG()
	}

	p := rawFor(c, d)
	if e.Noise > 0 {
		p *= 1 + (rng.Float64()*2-1)*e.Noise
	}
	p = clamp01(p)
	ok, err := Draw(p, rng)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Success: ok, Probability: p}, nil
}
