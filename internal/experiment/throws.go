package experiment

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/xtding233/capturesim/internal/capture"
)

// trialsPerChunk fixes how trials are split into random streams, so the
// output does not depend on the worker count.
const trialsPerChunk = 256

// ThrowsResult describes how many throws it takes to capture a target.
type ThrowsResult struct {
	Config      Config  `json:"config"`
	Probability float64 `json:"probability"` // analytic per-throw p
	Expected    float64 `json:"expected"`    // 1/p, geometric mean
	Trials      int     `json:"trials"`
	MaxThrows   int     `json:"max_throws"`
	Censored    int     `json:"censored"` // trials that never captured within MaxThrows
	Stats       Stats   `json:"stats"`
}

// ThrowsToCapture repeats "throw until the first capture" trials. A trial that
// has not captured after maxThrows throws is recorded as maxThrows and counted
// in Censored.
func (h *Harness) ThrowsToCapture(ctx context.Context, cfg Config, trials, maxThrows int) (ThrowsResult, error) {
	if trials < 1 {
		return ThrowsResult{}, fmt.Errorf("trials %d must be >= 1: %w", trials, capture.ErrInvalidArgument)
	}
	if maxThrows < 1 {
		return ThrowsResult{}, fmt.Errorf("max throws %d must be >= 1: %w", maxThrows, capture.ErrInvalidArgument)
	}
	p, err := h.Check(cfg)
	if err != nil {
		return ThrowsResult{}, err
	}

	samples := make([]float64, trials)
	censored := make([]int, (trials+trialsPerChunk-1)/trialsPerChunk)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.workers())
	for chunk := range censored {
		if gctx.Err() != nil {
			break
		}
		lo := chunk * trialsPerChunk
		hi := min(lo+trialsPerChunk, trials)
		stream := streamFor(cfg, chunk)
		g.Go(func() error {
			rng := capture.NewStreamRNG(h.Seed, stream)
			for i := lo; i < hi; i++ {
				n, ok, err := h.throwUntilCapture(cfg, maxThrows, rng)
				if err != nil {
					return err
				}
				samples[i] = float64(n)
				if !ok {
					censored[chunk]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ThrowsResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return ThrowsResult{}, err
	}

	total := 0
	for _, c := range censored {
		total += c
	}
	expected := 0.0
	if p > 0 {
		expected = 1 / p
	}
	return ThrowsResult{
		Config:      cfg,
		Probability: p,
		Expected:    expected,
		Trials:      trials,
		MaxThrows:   maxThrows,
		Censored:    total,
		Stats:       calcStats(samples),
	}, nil
}

func (h *Harness) throwUntilCapture(cfg Config, maxThrows int, rng capture.RandomSource) (int, bool, error) {
	c, err := h.Factory.Create(cfg.Species, cfg.Level, cfg.Status, cfg.Health)
	if err != nil {
		return 0, false, err
	}
	for n := 1; n <= maxThrows; n++ {
		out, err := h.Engine.Attempt(c, cfg.Device, rng)
		if err != nil {
			return 0, false, err
		}
		if out.Success {
			return n, true, nil
		}
	}
	return maxThrows, false, nil
}
