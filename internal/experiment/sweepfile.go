package experiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/capturesim/internal/capture"
)

// SweepFile is a YAML or JSON experiment description. The document is either
// a mapping
//
//	batches: 100
//	attempts: 1000
//	experiments:
//	  - pokemon: onix
//	    status: [sleep, none]
//	    hp_min: 0.1
//	    hp_max: 0.3
//
// or a bare list of experiments.
type SweepFile struct {
	Batches     int          `yaml:"batches"`
	Attempts    int          `yaml:"attempts"`
	Experiments []SweepEntry `yaml:"experiments"`
}

// SweepEntry is one experiment block. Scalars are accepted where lists are
// expected. Missing dimensions take defaults: every device, no status, levels
// 1 and 10..100 step 5, half health.
type SweepEntry struct {
	Species   stringList `yaml:"species"`
	Pokemon   stringList `yaml:"pokemon"`
	Devices   stringList `yaml:"devices"`
	Status    stringList `yaml:"status"`
	Levels    []int      `yaml:"levels"`
	LevelMin  *int       `yaml:"level_min"`
	LevelMax  *int       `yaml:"level_max"`
	LevelStep int        `yaml:"level_step"` // 0 means 1
	Health    []float64  `yaml:"health"`
	HPMin     *float64   `yaml:"hp_min"`
	HPMax     *float64   `yaml:"hp_max"`
	HPStep    float64    `yaml:"hp_step"`
}

// stringList decodes either a scalar or a sequence of scalars.
type stringList []string

func (l *stringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		*l = stringList{n.Value}
		return nil
	case yaml.SequenceNode:
		var out []string
		if err := n.Decode(&out); err != nil {
			return err
		}
		*l = out
		return nil
	}
	return fmt.Errorf("line %d: expected string or list", n.Line)
}

// LoadSweep reads a sweep file from disk.
func LoadSweep(path string) (SweepFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SweepFile{}, err
	}
	f, err := ParseSweep(b)
	if err != nil {
		return SweepFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseSweep decodes an in-memory sweep document.
func ParseSweep(b []byte) (SweepFile, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return SweepFile{}, err
	}
	if len(root.Content) == 0 {
		return SweepFile{}, fmt.Errorf("empty sweep file: %w", capture.ErrInvalidArgument)
	}
	doc := root.Content[0]

	var f SweepFile
	if doc.Kind == yaml.SequenceNode {
		if err := doc.Decode(&f.Experiments); err != nil {
			return SweepFile{}, err
		}
	} else if err := doc.Decode(&f); err != nil {
		return SweepFile{}, err
	}
	if len(f.Experiments) == 0 {
		return SweepFile{}, fmt.Errorf("sweep file has no experiments: %w", capture.ErrInvalidArgument)
	}
	return f, nil
}

// Configs expands every experiment into configurations, in file order.
// allDevices fills in entries that name no device.
func (f SweepFile) Configs(allDevices []string) ([]Config, error) {
	var out []Config
	for i, e := range f.Experiments {
		s, err := e.Sweep(allDevices)
		if err != nil {
			return nil, fmt.Errorf("experiment %d: %w", i+1, err)
		}
		cfgs, err := s.Configs()
		if err != nil {
			return nil, fmt.Errorf("experiment %d: %w", i+1, err)
		}
		out = append(out, cfgs...)
	}
	return out, nil
}

// Sweep resolves the entry's ranges and defaults.
func (e SweepEntry) Sweep(allDevices []string) (Sweep, error) {
	s := Sweep{
		Species: append(append([]string(nil), e.Species...), e.Pokemon...),
		Devices: e.Devices,
	}
	if len(s.Devices) == 0 {
		s.Devices = allDevices
	}

	for _, name := range e.Status {
		st, err := capture.ParseStatus(name)
		if err != nil {
			return Sweep{}, err
		}
		s.Statuses = append(s.Statuses, st)
	}
	if len(s.Statuses) == 0 {
		s.Statuses = []capture.Status{capture.StatusNone}
	}

	switch {
	case len(e.Levels) > 0:
		s.Levels = e.Levels
	case e.LevelMin != nil || e.LevelMax != nil:
		lo, hi := capture.MinLevel, capture.MaxLevel
		if e.LevelMin != nil {
			lo = *e.LevelMin
		}
		if e.LevelMax != nil {
			hi = *e.LevelMax
		}
		if hi < lo {
			return Sweep{}, fmt.Errorf("level_max %d < level_min %d: %w", hi, lo, capture.ErrInvalidArgument)
		}
		step := e.LevelStep
		switch {
		case step < 0:
			return Sweep{}, fmt.Errorf("level_step %d must be positive: %w", step, capture.ErrInvalidArgument)
		case step == 0:
			step = 1
		}
		s.Levels = LevelRange(lo, hi, step)
	default:
		s.Levels = DefaultLevels()
	}

	switch {
	case len(e.Health) > 0:
		s.Health = e.Health
	case e.HPMin != nil || e.HPMax != nil:
		lo, hi := 0.0, 1.0
		if e.HPMin != nil {
			lo = *e.HPMin
		}
		if e.HPMax != nil {
			hi = *e.HPMax
		}
		if hi < lo {
			return Sweep{}, fmt.Errorf("hp_max %v < hp_min %v: %w", hi, lo, capture.ErrInvalidArgument)
		}
		if e.HPStep > 0 {
			s.Health = HealthRange(lo, hi, e.HPStep)
		} else {
			// a bare range stands for its midpoint
			s.Health = []float64{(lo + hi) / 2}
		}
	default:
		s.Health = []float64{0.5}
	}
	return s, nil
}
