package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xtding233/capturesim/internal/capture"
	"github.com/xtding233/capturesim/internal/experiment"
)

const statusHelp = "status condition: none, burn, freeze, paralysis, poison, sleep"

// target holds the single-creature flags.
type target struct {
	level  int
	status string
	health float64
}

func (t *target) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&t.level, "level", capture.MaxLevel, "creature level (1-100)")
	cmd.Flags().StringVar(&t.status, "status", "none", statusHelp)
	cmd.Flags().Float64Var(&t.health, "health", 1, "current HP as a fraction of max HP (0-1)")
}

func (t target) config(species, device string) (experiment.Config, error) {
	st, err := capture.ParseStatus(t.status)
	if err != nil {
		return experiment.Config{}, err
	}
	return experiment.Config{Species: species, Device: device, Status: st, Level: t.level, Health: t.health}, nil
}

// grid holds list-valued flags that expand into a Sweep.
type grid struct {
	species  []string
	devices  []string
	statuses []string
	levels   []int
	health   []string
}

func (g *grid) bind(cmd *cobra.Command, withDevices bool) {
	f := cmd.Flags()
	f.StringSliceVar(&g.species, "species", nil, "species ids (default: all)")
	if withDevices {
		f.StringSliceVar(&g.devices, "device", nil, "device ids (default: all)")
	}
	f.StringSliceVar(&g.statuses, "status", []string{"none"}, statusHelp)
	f.IntSliceVar(&g.levels, "level", []int{capture.MaxLevel}, "creature levels (1-100)")
	f.StringSliceVar(&g.health, "health", []string{"1"}, "health fractions (0-1)")
}

func (g grid) sweep(a *app) (experiment.Sweep, error) {
	s := experiment.Sweep{
		Species: orAll(g.species, a.cat.SpeciesIDs()),
		Devices: orAll(g.devices, a.cat.DeviceIDs()),
		Levels:  g.levels,
	}
	statuses, err := parseStatuses(g.statuses)
	if err != nil {
		return experiment.Sweep{}, err
	}
	s.Statuses = statuses
	for _, v := range g.health {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return experiment.Sweep{}, fmt.Errorf("invalid --health value %q", v)
		}
		s.Health = append(s.Health, h)
	}
	return s, nil
}

func parseStatuses(names []string) ([]capture.Status, error) {
	out := make([]capture.Status, 0, len(names))
	for _, name := range names {
		st, err := capture.ParseStatus(name)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func orAll(values, all []string) []string {
	if len(values) == 0 {
		return all
	}
	return values
}

// requireDevice checks a device id early, so typos fail before a long run.
func (a *app) requireDevice(id string) error {
	if _, ok := a.cat.Device(id); !ok {
		return fmt.Errorf("device %q: %w", id, capture.ErrNotFound)
	}
	return nil
}
