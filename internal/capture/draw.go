package capture

// Draw samples one Bernoulli outcome at probability p.
// p <= 0 never succeeds, p >= 1 always succeeds; otherwise rng.Float64() < p.
// The boundary cases consume no randomness.
func Draw(p float64, rng RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}

// clamp01 bounds a derived probability to [0,1].
func clamp01(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
