package capture

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses() {
		got, err := ParseStatus(s.String())
		if err != nil || got != s {
			t.Fatalf("round trip %v: got %v err %v", s, got, err)
		}
	}
	got, err := ParseStatus(" sleep ")
	if err != nil || got != StatusSleep {
		t.Fatalf("expected SLEEP, got %v err %v", got, err)
	}
	if _, err := ParseStatus("confused"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusMultipliers(t *testing.T) {
	want := map[Status]float64{
		StatusNone: 1, StatusBurn: 1.5, StatusFreeze: 2,
		StatusParalysis: 1.5, StatusPoison: 1.5, StatusSleep: 2,
	}
	for s, m := range want {
		if s.Multiplier() != m {
			t.Fatalf("%v multiplier = %v, want %v", s, s.Multiplier(), m)
		}
	}
}

func TestStatusText(t *testing.T) {
	var s Status
	if err := s.UnmarshalText([]byte("freeze")); err != nil {
		t.Fatal(err)
	}
	b, err := s.MarshalText()
	if err != nil || string(b) != "FREEZE" {
		t.Fatalf("expected FREEZE, got %q err %v", b, err)
	}
	if _, err := Status(42).MarshalText(); err == nil {
		t.Fatalf("invalid status must not marshal")
	}
}
