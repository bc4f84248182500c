package capture

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// RandomSource abstracts the uniform sampler used for capture draws.
type RandomSource interface {
	Float64() float64 // [0, 1)
}

// crypto random: used when the caller does not inject a source
type cryptoRNG struct{}

func (cryptoRNG) Float64() float64 {
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		// fall back to math/rand/v2
		return rand.Float64()
	}

	// top 53 bits => [0, 1)
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

// DefaultRNG returns a non-reproducible source.
func DefaultRNG() RandomSource { return cryptoRNG{} }

// Replicable RNG (experiments, tests)
type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns a PCG-backed source. The same seed yields the same sequence.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

// NewStreamRNG returns a PCG source for one stream of a seeded run.
// Distinct streams under the same seed are independent, so parallel workers
// never share a generator and the result does not depend on scheduling.
func NewStreamRNG(seed, stream uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(splitmix(seed), splitmix(stream^0x9e3779b97f4a7c15)))}
}

func (s *seededRNG) Float64() float64 { return s.r.Float64() }

// splitmix spreads nearby integers (stream 0, 1, 2...) across the state space.
func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// NewSeed draws a run seed from crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := cryptoRand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
