// Package experiment repeats capture attempts over parameter sweeps and
// aggregates them into mean / standard deviation estimates.
package experiment

import (
	"context"
	"fmt"
	"hash/fnv"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/xtding233/capturesim/internal/capture"
)

// Config is one point of a sweep.
type Config struct {
	Species string         `json:"species" yaml:"species"`
	Level   int            `json:"level" yaml:"level"`
	Status  capture.Status `json:"status" yaml:"status"`
	Health  float64        `json:"health" yaml:"health"`
	Device  string         `json:"device" yaml:"device"`
}

// Key identifies the configuration. Equal keys draw identical random streams;
// catalogs reject ids containing "/", so distinct configurations never share one.
func (c Config) Key() string {
	return c.Species + "/" + c.Device + "/" + c.Status.String() + "/" +
		strconv.Itoa(c.Level) + "/" + strconv.FormatFloat(c.Health, 'g', -1, 64)
}

// Result is the estimate for one configuration.
//
// Mean and StdDev are taken across batch hit fractions, so StdDev measures
// batch-to-batch estimation noise, not the Bernoulli spread of one attempt.
type Result struct {
	Config           Config  `json:"config"`
	Mean             float64 `json:"mean"`
	StdDev           float64 `json:"std_dev"`
	Probability      float64 `json:"probability"` // analytic p, before noise
	Batches          int     `json:"batches"`
	AttemptsPerBatch int     `json:"attempts_per_batch"`
	Stats            Stats   `json:"stats"`
}

// Harness runs independent capture trials in parallel.
//
// # Determinism
//
// Every (configuration, batch) pair draws from its own PCG stream derived from
// Seed and the configuration key, so results depend only on Seed and the
// inputs: never on Workers, scheduling, or the position of a configuration in
// the list.
type Harness struct {
	Factory *capture.Factory
	Engine  *capture.Engine
	Workers int    // <= 0 means GOMAXPROCS
	Seed    uint64 // run seed
}

// NewHarness returns a harness with GOMAXPROCS workers and seed 0.
func NewHarness(factory *capture.Factory, engine *capture.Engine) *Harness {
	return &Harness{Factory: factory, Engine: engine}
}

func (h *Harness) workers() int {
	if h.Workers > 0 {
		return h.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Check builds the configuration's creature and analytic probability without
// sampling. Callers that prefer to skip bad configurations filter with it.
func (h *Harness) Check(cfg Config) (float64, error) {
	c, err := h.Factory.Create(cfg.Species, cfg.Level, cfg.Status, cfg.Health)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", cfg.Key(), err)
	}
	p, err := h.Engine.Probability(c, cfg.Device)
	if err != nil {
		return 0, fmt.Errorf("config %s: %w", cfg.Key(), err)
	}
	return p, nil
}

// Run estimates every configuration with batches x attemptsPerBatch attempts and
// returns results in input order. Each batch builds a fresh creature and
// records its hit fraction; the first failing configuration aborts the run.
// Cancelling ctx stops scheduling new batches and Run returns ctx.Err().
func (h *Harness) Run(ctx context.Context, configs []Config, batches, attemptsPerBatch int) ([]Result, error) {
	if batches < 1 {
		return nil, fmt.Errorf("batches %d must be >= 1: %w", batches, capture.ErrInvalidArgument)
	}
	if attemptsPerBatch < 1 {
		return nil, fmt.Errorf("attempts per batch %d must be >= 1: %w", attemptsPerBatch, capture.ErrInvalidArgument)
	}

	probs := make([]float64, len(configs))
	for i, cfg := range configs {
		p, err := h.Check(cfg)
		if err != nil {
			return nil, err
		}
		probs[i] = p
	}

	samples := make([][]float64, len(configs))
	for i := range samples {
		samples[i] = make([]float64, batches)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers())
schedule:
	for ci := range configs {
		cfg := configs[ci]
		for b := 0; b < batches; b++ {
			if gctx.Err() != nil {
				break schedule
			}
			out := &samples[ci][b]
			stream := streamFor(cfg, b)
			g.Go(func() error {
				frac, err := h.runBatch(cfg, attemptsPerBatch, capture.NewStreamRNG(h.Seed, stream))
				if err != nil {
					return err
				}
				*out = frac
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]Result, len(configs))
	for i, cfg := range configs {
		st := calcStats(samples[i])
		results[i] = Result{
			Config:           cfg,
			Mean:             st.Mean,
			StdDev:           st.StdDev,
			Probability:      probs[i],
			Batches:          batches,
			AttemptsPerBatch: attemptsPerBatch,
			Stats:            st,
		}
	}
	return results, nil
}

// runBatch returns the hit fraction of one batch on a fresh creature.
func (h *Harness) runBatch(cfg Config, attempts int, rng capture.RandomSource) (float64, error) {
	c, err := h.Factory.Create(cfg.Species, cfg.Level, cfg.Status, cfg.Health)
	if err != nil {
		return 0, err
	}
	hits := 0
	for i := 0; i < attempts; i++ {
		out, err := h.Engine.Attempt(c, cfg.Device, rng)
		if err != nil {
			return 0, err
		}
		if out.Success {
			hits++
		}
	}
	return float64(hits) / float64(attempts), nil
}

// streamFor hashes the configuration key and a unit index (batch or chunk)
// into a stream id.
func streamFor(cfg Config, unit int) uint64 {
	f := fnv.New64a()
	_, _ = f.Write([]byte(cfg.Key()))
	_, _ = f.Write([]byte{'#'})
	_, _ = f.Write([]byte(strconv.Itoa(unit)))
	return f.Sum64()
}
