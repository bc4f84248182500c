package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/xtding233/capturesim/internal/capture"
	"github.com/xtding233/capturesim/internal/experiment"
)

func TestBestDevices(t *testing.T) {
	prices := map[string]int{"pokeball": 200, "ultraball": 1200, "masterball": 0}
	price := func(d string) (int, bool) {
		p, ok := prices[d]
		return p, ok
	}
	results := []experiment.Result{
		result("onix", "pokeball", capture.StatusNone, 0.1, 0.01),
		result("onix", "ultraball", capture.StatusNone, 0.5, 0.01),
		result("onix", "masterball", capture.StatusNone, 1, 0),
		result("onix", "pokeball", capture.StatusSleep, 0.1, 0.01),
		result("onix", "ultraball", capture.StatusSleep, 0.9, 0.01),
		result("onix", "fastball", capture.StatusSleep, 1, 0), // unpriced
	}
	cells := BestDevices(results, price)
	if len(cells) != 2 {
		t.Fatalf("expected one cell per status, got %+v", cells)
	}
	if cells[0].Config.Device != "pokeball" || cells[0].Config.Status != capture.StatusNone {
		t.Fatalf("NONE: expected pokeball, got %+v", cells[0])
	}
	if math.Abs(cells[0].Efficiency-0.1/200) > 1e-15 {
		t.Fatalf("unexpected efficiency %v", cells[0].Efficiency)
	}
	if cells[1].Config.Device != "ultraball" || cells[1].Price != 1200 {
		t.Fatalf("SLEEP: expected ultraball, got %+v", cells[1])
	}

	var buf bytes.Buffer
	if err := BestDeviceTable(&buf, cells); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "NONE") || !strings.Contains(lines[2], "ultraball") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
}

func TestLevelSpreads(t *testing.T) {
	at := func(level int, health, mean float64) experiment.Result {
		r := result("onix", "pokeball", capture.StatusNone, mean, 0)
		r.Config.Level = level
		r.Config.Health = health
		return r
	}
	results := []experiment.Result{
		at(10, 0, 0.1),
		at(20, 0, 0.2),
		at(30, 0, 0.3),
		at(10, 1, 0.05), // a single level has no spread
	}
	spreads := LevelSpreads(results)
	if len(spreads) != 1 {
		t.Fatalf("expected one spread, got %+v", spreads)
	}
	s := spreads[0]
	if s.Levels != 3 || s.Config.Level != 0 || math.Abs(s.Mean-0.2) > 1e-12 || math.Abs(s.StdDev-0.1) > 1e-12 {
		t.Fatalf("unexpected spread %+v", s)
	}

	var buf bytes.Buffer
	if err := SpreadTable(&buf, spreads); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "0.1000") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
}
