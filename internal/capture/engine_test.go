package capture

import (
	"errors"
	"math"
	"sort"
	"testing"
)

func TestBaselineProbability(t *testing.T) {
	f := NewFactory(testSpecies())
	e := NewEngine(testDevices())
	c, err := f.Create("jolteon", 100, StatusNone, 1)
	if err != nil {
		t.Fatal(err)
	}
	p, err := e.Probability(c, "pokeball")
	if err != nil {
		t.Fatal(err)
	}
	// (1 + 271*45) / 813 / 256
	want := (1 + 271.0*45) / 813 / 256
	if math.Abs(p-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, p)
	}
	if math.Abs(p-0.0586) > 0.01 {
		t.Fatalf("baseline %v not near 0.0586", p)
	}
}

func TestProbabilityClampsToOne(t *testing.T) {
	species := testSpecies()
	f := NewFactory(species)
	e := NewEngine(testDevices())
	for id := range species {
		for _, level := range []int{1, 50, 100} {
			c, err := f.Create(id, level, StatusSleep, 0)
			if err != nil {
				t.Fatal(err)
			}
			p, err := e.Probability(c, "masterball")
			if err != nil {
				t.Fatal(err)
			}
			if p != 1.0 {
				t.Fatalf("%s level %d: expected p=1, got %v", id, level, p)
			}
		}
	}
}

func TestProbabilityNonIncreasingInHealth(t *testing.T) {
	f := NewFactory(testSpecies())
	e := NewEngine(testDevices())
	for _, id := range []string{"jolteon", "snorlax", "mewtwo", "caterpie"} {
		for _, ball := range []string{"pokeball", "ultraball"} {
			prev := math.Inf(1)
			for step := 0; step <= 100; step += 5 {
				c, err := f.Create(id, 50, StatusNone, float64(step)/100)
				if err != nil {
					t.Fatal(err)
				}
				p, err := e.Probability(c, ball)
				if err != nil {
					t.Fatal(err)
				}
				if p > prev {
					t.Fatalf("%s/%s: p rose at health %d%% (%v > %v)", id, ball, step, p, prev)
				}
				prev = p
			}
		}
	}
}

func TestProbabilityNonDecreasingInStatus(t *testing.T) {
	statuses := Statuses()
	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].Multiplier() < statuses[j].Multiplier()
	})
	if statuses[0] != StatusNone {
		t.Fatalf("NONE must carry the weakest bonus")
	}

	f := NewFactory(testSpecies())
	e := NewEngine(testDevices())
	prev := -1.0
	for _, s := range statuses {
		c, err := f.Create("snorlax", 70, s, 0.3)
		if err != nil {
			t.Fatal(err)
		}
		p, err := e.Probability(c, "pokeball")
		if err != nil {
			t.Fatal(err)
		}
		if p < prev {
			t.Fatalf("p fell at %v (%v < %v)", s, p, prev)
		}
		prev = p
	}
}

func TestProbabilityNonDecreasingInDevice(t *testing.T) {
	c, err := NewFactory(testSpecies()).Create("onix", 40, StatusNone, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	e := NewEngine(testDevices())
	prev := -1.0
	for _, ball := range []string{"pokeball", "fastball", "ultraball", "masterball"} {
		p, err := e.Probability(c, ball)
		if err != nil {
			t.Fatal(err)
		}
		if p < prev {
			t.Fatalf("p fell at %s (%v < %v)", ball, p, prev)
		}
		prev = p
	}
}

func TestAttemptDeterministic(t *testing.T) {
	c, err := NewFactory(testSpecies()).Create("jolteon", 30, StatusParalysis, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	for _, noise := range []float64{0, 0.15} {
		e, err := NewEngine(testDevices()).WithNoise(noise)
		if err != nil {
			t.Fatal(err)
		}
		a, b := NewSeededRNG(99), NewSeededRNG(99)
		for i := 0; i < 500; i++ {
			x, err := e.Attempt(c, "ultraball", a)
			if err != nil {
				t.Fatal(err)
			}
			y, err := e.Attempt(c, "ultraball", b)
			if err != nil {
				t.Fatal(err)
			}
			if x != y {
				t.Fatalf("noise %v attempt %d: %+v vs %+v", noise, i, x, y)
			}
		}
	}
}

func TestAttemptNoiseBounds(t *testing.T) {
	c, err := NewFactory(testSpecies()).Create("snorlax", 50, StatusNone, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	base := NewEngine(testDevices())
	p0, _ := base.Probability(c, "pokeball")

	plain, err := base.Attempt(c, "pokeball", NewSeededRNG(1))
	if err != nil {
		t.Fatal(err)
	}
	if plain.Probability != p0 {
		t.Fatalf("without noise p must equal analytic %v, got %v", p0, plain.Probability)
	}

	noisy, _ := base.WithNoise(0.15)
	rng := NewSeededRNG(5)
	for i := 0; i < 1000; i++ {
		out, err := noisy.Attempt(c, "pokeball", rng)
		if err != nil {
			t.Fatal(err)
		}
		if out.Probability < p0*0.85-1e-12 || out.Probability > p0*1.15+1e-12 {
			t.Fatalf("noisy p %v outside ±15%% of %v", out.Probability, p0)
		}
	}

	sure, _ := NewFactory(testSpecies()).Create("caterpie", 5, StatusSleep, 0)
	for i := 0; i < 100; i++ {
		out, err := noisy.Attempt(sure, "masterball", rng)
		if err != nil {
			t.Fatal(err)
		}
		if out.Probability != 1 || !out.Success {
			t.Fatalf("re-clamped p must stay 1 and succeed, got %+v", out)
		}
	}
}

func TestAttemptErrors(t *testing.T) {
	c, _ := NewFactory(testSpecies()).Create("jolteon", 10, StatusNone, 1)
	e := NewEngine(testDevices())
	if _, err := e.Attempt(c, "netball", NewSeededRNG(1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := e.Probability(c, "netball"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := e.WithNoise(1.5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	bad := &Engine{devices: testDevices(), Noise: -1}
	if _, err := bad.Attempt(c, "pokeball", nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCaptureValueMonotonic(t *testing.T) {
	if CaptureValue(100, 0, 45, 1, 1) < CaptureValue(100, 100, 45, 1, 1) {
		t.Fatalf("lower hp must not lower the capture value")
	}
	if CaptureValue(100, 50, 45, 2, 1) < CaptureValue(100, 50, 45, 1, 1) {
		t.Fatalf("stronger device must not lower the capture value")
	}
	if CaptureProbability(0, 0, 45, 1, 1) != 0 {
		t.Fatalf("zero max hp must give 0")
	}
}
