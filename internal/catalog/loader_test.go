package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const baseSpecies = `{
  "jolteon": {"type": ["electric", "none"], "stats": [65, 65, 60, 110, 95, 130], "catch_rate": 45, "weight": 24.5},
  "onix": {"type": ["rock", "ground"], "stats": [35, 45, 160, 30, 45, 70], "catch_rate": 45}
}`

const baseDevices = `
pokeball:
  multiplier: 1
  cost: 200
ultraball:
  multiplier: 2
  cost: 800
`

func TestLoaderMixedFormats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pokemon.json"), baseSpecies)
	writeFile(t, filepath.Join(dir, "pokeball.yaml"), baseDevices)

	l := NewLoader(dir)
	c, err := l.Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c.SpeciesIDs()) != 2 || len(c.DeviceIDs()) != 2 {
		t.Fatalf("unexpected catalog sizes: %v %v", c.SpeciesIDs(), c.DeviceIDs())
	}
	again, err := l.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if again != c {
		t.Fatalf("expected cached catalog")
	}
	l.Invalidate()
	fresh, err := l.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if fresh == c {
		t.Fatalf("expected a rebuilt catalog after Invalidate")
	}
}

func TestLoaderOverlay(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pokemon.json"), baseSpecies)
	writeFile(t, filepath.Join(dir, "pokeball.yaml"), baseDevices)
	writeFile(t, filepath.Join(dir, "overlays", "hard", "pokemon.yaml"), `
jolteon:
  catch_rate: 5
caterpie:
  type: [bug]
  stats: [45, 30, 35]
  catch_rate: 255
`)
	writeFile(t, filepath.Join(dir, "overlays", "hard", "pokeball.json"), `{"ultraball": {"cost": 1200}}`)

	c, err := NewLoader(dir).Load("hard")
	if err != nil {
		t.Fatalf("load overlay: %v", err)
	}
	j, _ := c.Species("jolteon")
	if j.CatchRate != 5 || j.Base.HP != 65 {
		t.Fatalf("overlay must override catch rate only, got %+v", j)
	}
	if _, ok := c.Species("caterpie"); !ok {
		t.Fatalf("overlay species must be added")
	}
	u, _ := c.Device("ultraball")
	if u.Cost != 1200 || u.Multiplier != 2 {
		t.Fatalf("unexpected ultraball: %+v", u)
	}

	files := NewLoader(dir).Paths().Files("hard")
	if len(files) != 4 {
		t.Fatalf("expected 4 catalog files, got %v", files)
	}
}

func TestLoaderMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := NewLoader(dir).Load("")
	if !IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	writeFile(t, filepath.Join(dir, "pokemon.json"), baseSpecies)
	if _, err := NewLoader(dir).Load(""); !IsNotExist(err) {
		t.Fatalf("missing device file must fail, got %v", err)
	}
}

func TestLoaderRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "pokemon.json"), `{"broken": {"type": ["fire"], "stats": [1, 1, 1]}}`)
	writeFile(t, filepath.Join(dir, "pokeball.json"), `{"pokeball": {"multiplier": 1}}`)
	if _, err := NewLoader(dir).Load(""); err == nil {
		t.Fatalf("missing catch_rate must fail validation")
	}
}
