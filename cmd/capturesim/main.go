// Package main provides the CLI entrypoint for capturesim.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xtding233/capturesim/data"
	"github.com/xtding233/capturesim/internal/capture"
	"github.com/xtding233/capturesim/internal/catalog"
	"github.com/xtding233/capturesim/internal/config"
	"github.com/xtding233/capturesim/internal/experiment"
	"github.com/xtding233/capturesim/internal/report"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("capturesim: ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// app carries resolved settings and the loaded catalog between the root
// command and its subcommands.
type app struct {
	configPath string
	flags      config.Settings // raw flag values; applied only when changed
	settings   config.Settings

	loader *catalog.Loader // nil when running on the embedded catalogs
	cat    *catalog.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "capturesim",
		Short:         "Capture probability calculator and Monte-Carlo simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	def := config.Defaults()
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultConfigPath(), "TOML config file")
	pf.StringVar(&a.flags.Data, "data", "", "catalog directory (default: embedded catalogs)")
	pf.StringVar(&a.flags.Overlay, "overlay", "", "catalog overlay under <data>/overlays")
	pf.Uint64Var(&a.flags.Seed, "seed", 0, "run seed; 0 draws a random seed")
	pf.IntVar(&a.flags.Workers, "workers", 0, "parallel workers; 0 uses all CPUs")
	pf.IntVar(&a.flags.Batches, "batches", def.Batches, "batches per configuration")
	pf.IntVar(&a.flags.Attempts, "attempts", def.Attempts, "attempts per batch")
	pf.Float64Var(&a.flags.Noise, "noise", 0, "per-attempt probability noise (0-1)")
	pf.StringVarP(&a.flags.Format, "format", "f", def.Format, "output format: table, csv or json")

	root.AddCommand(newProbabilityCmd(a))
	root.AddCommand(newEstimateCmd(a))
	root.AddCommand(newEffectivenessCmd(a))
	root.AddCommand(newBestCmd(a))
	root.AddCommand(newSweepCmd(a))
	root.AddCommand(newRunCmd(a))
	root.AddCommand(newThrowsCmd(a))
	root.AddCommand(newPlanCmd(a))
	root.AddCommand(newServeCmd(a))
	root.AddCommand(newCatalogCmd(a))
	root.AddCommand(newConfigCmd(a))
	return root
}

// setup resolves settings (defaults < file < env < flags) and loads the catalog.
func (a *app) setup(cmd *cobra.Command) error {
	s, err := config.Resolve(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	override(flags.Changed("data"), &s.Data, a.flags.Data)
	override(flags.Changed("overlay"), &s.Overlay, a.flags.Overlay)
	override(flags.Changed("seed"), &s.Seed, a.flags.Seed)
	override(flags.Changed("workers"), &s.Workers, a.flags.Workers)
	override(flags.Changed("batches"), &s.Batches, a.flags.Batches)
	override(flags.Changed("attempts"), &s.Attempts, a.flags.Attempts)
	override(flags.Changed("noise"), &s.Noise, a.flags.Noise)
	override(flags.Changed("format"), &s.Format, a.flags.Format)
	override(flags.Changed("addr"), &s.Addr, a.flags.Addr)
	override(flags.Changed("reload"), &s.Reload, a.flags.Reload)
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Seed == 0 {
		seed, err := capture.NewSeed()
		if err != nil {
			return err
		}
		s.Seed = seed
	}
	a.settings = s

	if cmd.Name() == "config" {
		return nil
	}
	return a.loadCatalog()
}

func override[T any](changed bool, target *T, value T) {
	if changed {
		*target = value
	}
}

func (a *app) loadCatalog() error {
	if a.settings.Data == "" {
		if a.settings.Overlay != "" {
			return errors.New("--overlay requires --data")
		}
		c, err := catalog.Decode(data.Species, data.Devices)
		if err != nil {
			return fmt.Errorf("embedded catalog: %w", err)
		}
		a.cat = c
		return nil
	}
	a.loader = catalog.NewLoader(a.settings.Data)
	c, err := a.loader.Load(a.settings.Overlay)
	if err != nil {
		if catalog.IsNotExist(err) {
			log.Printf("expected pokemon.json and pokeball.json (or .yaml) in %s", a.settings.Data)
		}
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	a.cat = c
	return nil
}

func (a *app) engine() (*capture.Engine, error) {
	return capture.NewEngine(a.cat).WithNoise(a.settings.Noise)
}

func (a *app) harness() (*experiment.Harness, error) {
	e, err := a.engine()
	if err != nil {
		return nil, err
	}
	h := experiment.NewHarness(capture.NewFactory(a.cat), e)
	h.Seed = a.settings.Seed
	h.Workers = a.settings.Workers
	return h, nil
}

// runResults runs the harness and logs the seed so the run can be repeated.
func (a *app) runResults(cmd *cobra.Command, cfgs []experiment.Config, batches, attempts int) ([]experiment.Result, error) {
	h, err := a.harness()
	if err != nil {
		return nil, err
	}
	log.Printf("seed %d: %d configurations x %d batches x %d attempts", h.Seed, len(cfgs), batches, attempts)
	return h.Run(cmd.Context(), cfgs, batches, attempts)
}

// emit writes results in the configured format; table uses render.
func (a *app) emit(w io.Writer, v any, results []experiment.Result, render func(io.Writer) error) error {
	switch a.settings.Format {
	case "json":
		return report.WriteJSON(w, v)
	case "csv":
		if results == nil {
			return fmt.Errorf("csv output is not available for this command")
		}
		return report.WriteCSV(w, results)
	}
	return render(w)
}
