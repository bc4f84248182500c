package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/xtding233/capturesim/internal/capture"
)

func TestThrowsToCaptureMatchesGeometric(t *testing.T) {
	h := testHarness(t, 21, 4)
	cfg := Config{Species: "onix", Level: 100, Status: capture.StatusSleep, Health: 0, Device: "pokeball"}
	res, err := h.ThrowsToCapture(context.Background(), cfg, 5000, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if res.Censored != 0 {
		t.Fatalf("unexpected censored trials: %d", res.Censored)
	}
	if math.Abs(res.Expected-1/res.Probability) > 1e-12 {
		t.Fatalf("expected 1/p, got %v", res.Expected)
	}
	// geometric sd = sqrt(1-p)/p; 5 standard errors
	tol := 5 * math.Sqrt(1-res.Probability) / res.Probability / math.Sqrt(5000)
	if math.Abs(res.Stats.Mean-res.Expected) > tol {
		t.Fatalf("mean throws %v, expected %v +- %v", res.Stats.Mean, res.Expected, tol)
	}
	if res.Stats.Min < 1 {
		t.Fatalf("a capture needs at least one throw, got %v", res.Stats.Min)
	}
}

func TestThrowsToCaptureCensors(t *testing.T) {
	h := testHarness(t, 1, 2)
	cfg := Config{Species: "mewtwo", Level: 100, Status: capture.StatusNone, Health: 1, Device: "pokeball"}
	res, err := h.ThrowsToCapture(context.Background(), cfg, 300, 3)
	if err != nil {
		t.Fatal(err)
	}
	// p is about 0.004, so most trials run out of throws
	if res.Censored < 250 {
		t.Fatalf("expected most trials censored, got %d", res.Censored)
	}
	if res.Stats.Max != 3 {
		t.Fatalf("censored trials must count as max throws, got %v", res.Stats.Max)
	}
}

func TestThrowsToCaptureDeterministic(t *testing.T) {
	cfg := baseline()
	a, err := testHarness(t, 8, 1).ThrowsToCapture(context.Background(), cfg, 1000, 200)
	if err != nil {
		t.Fatal(err)
	}
	b, err := testHarness(t, 8, 6).ThrowsToCapture(context.Background(), cfg, 1000, 200)
	if err != nil {
		t.Fatal(err)
	}
	if a.Stats.Mean != b.Stats.Mean || a.Censored != b.Censored {
		t.Fatalf("worker count changed result: %v vs %v", a.Stats.Mean, b.Stats.Mean)
	}
}

func TestThrowsToCaptureArguments(t *testing.T) {
	h := testHarness(t, 0, 1)
	if _, err := h.ThrowsToCapture(context.Background(), baseline(), 0, 10); !errors.Is(err, capture.ErrInvalidArgument) {
		t.Fatalf("trials=0: %v", err)
	}
	if _, err := h.ThrowsToCapture(context.Background(), baseline(), 10, 0); !errors.Is(err, capture.ErrInvalidArgument) {
		t.Fatalf("maxThrows=0: %v", err)
	}
	cfg := baseline()
	cfg.Species = "missingno"
	if _, err := h.ThrowsToCapture(context.Background(), cfg, 10, 10); !errors.Is(err, capture.ErrNotFound) {
		t.Fatalf("unknown species: %v", err)
	}
}
