package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xtding233/capturesim/internal/capture"
	"github.com/xtding233/capturesim/internal/config"
	"github.com/xtding233/capturesim/internal/experiment"
	"github.com/xtding233/capturesim/internal/pricing"
	"github.com/xtding233/capturesim/internal/report"
)

type probabilityRow struct {
	Species        string         `json:"species"`
	Device         string         `json:"device"`
	Level          int            `json:"level"`
	Status         capture.Status `json:"status"`
	MaxHP          int            `json:"max_hp"`
	CurrentHP      int            `json:"current_hp"`
	Probability    float64        `json:"probability"`
	ExpectedThrows float64        `json:"expected_throws,omitempty"` // omitted when p = 0
	ExpectedCost   float64        `json:"expected_cost,omitempty"`
}

func newProbabilityCmd(a *app) *cobra.Command {
	var t target
	cmd := &cobra.Command{
		Use:   "probability [species [device]]",
		Short: "Show analytic capture probabilities",
		Long: "Without arguments, prints every species against every device.\n" +
			"With a species, prints its creature against each device, or only the given device.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbability(cmd, a, t, args)
		},
	}
	t.bind(cmd)
	return cmd
}

func runProbability(cmd *cobra.Command, a *app, t target, args []string) error {
	species := a.cat.SpeciesIDs()
	devices := a.cat.DeviceIDs()
	if len(args) > 0 {
		species = args[:1]
	}
	if len(args) > 1 {
		devices = args[1:2]
	}

	factory := capture.NewFactory(a.cat)
	engine := capture.NewEngine(a.cat)
	rows := make([]probabilityRow, 0, len(species)*len(devices))
	for _, sp := range species {
		for _, d := range devices {
			cfg, err := t.config(sp, d)
			if err != nil {
				return err
			}
			c, err := factory.Create(cfg.Species, cfg.Level, cfg.Status, cfg.Health)
			if err != nil {
				return err
			}
			p, err := engine.Probability(c, d)
			if err != nil {
				return err
			}
			row := probabilityRow{
				Species: sp, Device: d, Level: cfg.Level, Status: cfg.Status,
				MaxHP: c.MaxHP(), CurrentHP: c.CurrentHP(), Probability: p,
			}
			if p > 0 {
				row.ExpectedThrows = pricing.ExpectedThrows(p)
				if price, ok := a.cat.Price(d); ok {
					row.ExpectedCost = pricing.ExpectedCostPerCapture(price.Unit, p)
				}
			}
			rows = append(rows, row)
		}
	}

	w := cmd.OutOrStdout()
	if a.settings.Format == "json" {
		return report.WriteJSON(w, rows)
	}
	if len(args) == 0 {
		lookup := make(map[[2]string]float64, len(rows))
		for _, r := range rows {
			lookup[[2]string{r.Species, r.Device}] = r.Probability
		}
		return report.ProbabilityTable(w, species, devices, func(sp, d string) (float64, error) {
			return lookup[[2]string{sp, d}], nil
		})
	}
	headers := []string{"Species", "Device", "Level", "Status", "HP", "p", "E[throws]", "E[cost]"}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			r.Species, r.Device, strconv.Itoa(r.Level), r.Status.String(),
			fmt.Sprintf("%d/%d", r.CurrentHP, r.MaxHP),
			strconv.FormatFloat(r.Probability, 'f', 4, 64),
			finite(r.ExpectedThrows, 1),
			finite(r.ExpectedCost, 0),
		})
	}
	return writeTable(w, a.settings.Format, headers, table, 2)
}

// finite formats v, printing ∞ for the zero placeholder of an impossible capture.
func finite(v float64, prec int) string {
	if v == 0 || math.IsInf(v, 1) {
		return "∞"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// writeTable prints headers and rows as an aligned table or as CSV.
func writeTable(w io.Writer, format string, headers []string, rows [][]string, numericFrom int) error {
	if format == "csv" {
		return report.WriteRecords(w, headers, rows)
	}
	right := map[int]bool{}
	for i := numericFrom; i < len(headers); i++ {
		right[i] = true
	}
	return report.WriteTable(w, headers, rows, right)
}

func newEstimateCmd(a *app) *cobra.Command {
	var g grid
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate capture rates by simulation",
		Long: "Runs batches x attempts simulated throws for every combination of the\n" +
			"given species, devices, statuses, levels and health fractions.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := g.sweep(a)
			if err != nil {
				return err
			}
			cfgs, err := s.Configs()
			if err != nil {
				return err
			}
			results, err := a.runResults(cmd, cfgs, a.settings.Batches, a.settings.Attempts)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), results, results, func(w io.Writer) error {
				return report.ResultsTable(w, results)
			})
		},
	}
	g.bind(cmd, true)
	return cmd
}

func newEffectivenessCmd(a *app) *cobra.Command {
	var g grid
	var base string
	cmd := &cobra.Command{
		Use:   "effectiveness",
		Short: "Compare every device against a basic device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireDevice(base); err != nil {
				return err
			}
			s, err := g.sweep(a)
			if err != nil {
				return err
			}
			cfgs, err := s.Configs()
			if err != nil {
				return err
			}
			results, err := a.runResults(cmd, cfgs, a.settings.Batches, a.settings.Attempts)
			if err != nil {
				return err
			}
			type effRow struct {
				report.Effectiveness
				Ratio string `json:"ratio"`
			}
			var rows []effRow
			for _, e := range report.Effectivenesses(results, base) {
				rows = append(rows, effRow{Effectiveness: e, Ratio: report.Ratio(e.Ratio)})
			}
			return a.emit(cmd.OutOrStdout(), rows, results, func(w io.Writer) error {
				return report.EffectivenessTable(w, results, base)
			})
		},
	}
	g.bind(cmd, false)
	cmd.Flags().StringVar(&base, "base", "pokeball", "device every other device is compared against")
	return cmd
}

func newBestCmd(a *app) *cobra.Command {
	var (
		level    int
		devices  []string
		statuses []string
		health   []string
		spread   bool
	)
	cmd := &cobra.Command{
		Use:   "best <species>",
		Short: "Find the most cost-efficient device per status and health",
		Long: "Scores each device by simulated capture rate divided by its price and\n" +
			"prints the winner for every status and health fraction at --level.\n" +
			"With --spread, prints instead how much each device's capture rate\n" +
			"varies across levels 1 and 10..100.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := grid{species: args[:1], devices: devices, statuses: statuses, levels: []int{level}, health: health}
			s, err := g.sweep(a)
			if err != nil {
				return err
			}
			if spread {
				s.Levels = experiment.DefaultLevels()
			}
			cfgs, err := s.Configs()
			if err != nil {
				return err
			}
			results, err := a.runResults(cmd, cfgs, a.settings.Batches, a.settings.Attempts)
			if err != nil {
				return err
			}

			if spread {
				spreads := report.LevelSpreads(results)
				return a.emit(cmd.OutOrStdout(), spreads, results, func(w io.Writer) error {
					groups, order := groupSpreads(spreads)
					for i, d := range order {
						if i > 0 {
							fmt.Fprintln(w)
						}
						fmt.Fprintf(w, "device: %s\n", d)
						if err := report.SpreadTable(w, groups[d]); err != nil {
							return err
						}
					}
					return nil
				})
			}
			cells := report.BestDevices(results, func(d string) (int, bool) {
				p, ok := a.cat.Price(d)
				return p.Unit, ok
			})
			return a.emit(cmd.OutOrStdout(), cells, results, func(w io.Writer) error {
				fmt.Fprintf(w, "%s at level %d, captures per 100 spent\n", args[0], level)
				return report.BestDeviceTable(w, cells)
			})
		},
	}
	cmd.Flags().IntVar(&level, "level", 50, "creature level (1-100)")
	cmd.Flags().StringSliceVar(&devices, "device", nil, "devices to compare (default: all)")
	cmd.Flags().StringSliceVar(&statuses, "status", statusNames(), statusHelp)
	cmd.Flags().StringSliceVar(&health, "health", healthSteps(), "health fractions (0-1)")
	cmd.Flags().BoolVar(&spread, "spread", false, "show the std dev across levels instead")
	return cmd
}

func statusNames() []string {
	var out []string
	for _, st := range capture.Statuses() {
		out = append(out, strings.ToLower(st.String()))
	}
	return out
}

// healthSteps is 0, 0.1, ..., 1.
func healthSteps() []string {
	var out []string
	for _, h := range experiment.HealthRange(0, 1, 0.1) {
		out = append(out, strconv.FormatFloat(h, 'f', -1, 64))
	}
	return out
}

func groupSpreads(spreads []report.Spread) (map[string][]report.Spread, []string) {
	groups := map[string][]report.Spread{}
	var order []string
	for _, s := range spreads {
		d := s.Config.Device
		if _, ok := groups[d]; !ok {
			order = append(order, d)
		}
		groups[d] = append(groups[d], s)
	}
	return groups, order
}

func newSweepCmd(a *app) *cobra.Command {
	var (
		vary    string
		species []string
		devices []string
		chart   bool
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Vary one parameter over its standard range",
		Long: "Standard analyses:\n" +
			"  status  every status at level 100 and zero health\n" +
			"  health  health 0..0.95 in 0.05 steps at level 100\n" +
			"  level   level 1 and 10..100 in steps of 5 at half health\n" +
			"  device  every device at level 100 and full health",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dim, err := experiment.ParseDimension(vary)
			if err != nil {
				return err
			}
			sp := orAll(species, a.cat.SpeciesIDs())
			devs := devices
			if dim == experiment.DimDevice || dim == experiment.DimSpecies {
				devs = orAll(devs, a.cat.DeviceIDs())
			} else if len(devs) == 0 {
				devs = []string{"pokeball"}
			}
			cfgs, err := experiment.PresetFor(dim, sp, devs).Configs()
			if err != nil {
				return err
			}
			results, err := a.runResults(cmd, cfgs, a.settings.Batches, a.settings.Attempts)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), results, results, func(w io.Writer) error {
				if chart {
					return sweepChart(w, results, dim)
				}
				return sweepTables(w, results, dim)
			})
		},
	}
	cmd.Flags().StringVar(&vary, "vary", "", "parameter to vary: status, level, health or device")
	cmd.Flags().StringSliceVar(&species, "species", nil, "species ids (default: all)")
	cmd.Flags().StringSliceVar(&devices, "device", nil, "device ids (default: pokeball, or all when varying device)")
	cmd.Flags().BoolVar(&chart, "chart", false, "draw bars instead of a table")
	_ = cmd.MarkFlagRequired("vary")
	return cmd
}

// sweepTables prints one pivot per device when the varied parameter is not
// the device itself.
func sweepTables(w io.Writer, results []experiment.Result, dim experiment.Dimension) error {
	if dim == experiment.DimDevice || dim == experiment.DimSpecies {
		return report.PivotTable(w, results, experiment.DimDevice, experiment.DimSpecies)
	}
	groups, order := groupBy(results, experiment.DimDevice)
	for i, d := range order {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "device: %s\n", d)
		if err := report.PivotTable(w, groups[d], dim, experiment.DimSpecies); err != nil {
			return err
		}
	}
	return nil
}

func sweepChart(w io.Writer, results []experiment.Result, dim experiment.Dimension) error {
	label := dim
	if dim == experiment.DimSpecies {
		label = experiment.DimDevice
	}
	groups, order := groupBy(results, experiment.DimSpecies)
	for i, sp := range order {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", sp)
		if err := report.Bars(w, report.BarsFromResults(groups[sp], label), 0); err != nil {
			return err
		}
	}
	return nil
}

func groupBy(results []experiment.Result, dim experiment.Dimension) (map[string][]experiment.Result, []string) {
	groups := map[string][]experiment.Result{}
	var order []string
	for _, r := range results {
		k := dim.Value(r.Config)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}
	return groups, order
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <sweep-file>",
		Short: "Run the experiments described in a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := experiment.LoadSweep(args[0])
			if err != nil {
				return err
			}
			cfgs, err := f.Configs(a.cat.DeviceIDs())
			if err != nil {
				return err
			}
			batches, attempts := a.settings.Batches, a.settings.Attempts
			if f.Batches > 0 && !cmd.Flags().Changed("batches") {
				batches = f.Batches
			}
			if f.Attempts > 0 && !cmd.Flags().Changed("attempts") {
				attempts = f.Attempts
			}
			results, err := a.runResults(cmd, cfgs, batches, attempts)
			if err != nil {
				return err
			}
			return a.emit(cmd.OutOrStdout(), results, results, func(w io.Writer) error {
				return report.ResultsTable(w, results)
			})
		},
	}
}

func newThrowsCmd(a *app) *cobra.Command {
	var (
		t         target
		trials    int
		maxThrows int
	)
	cmd := &cobra.Command{
		Use:   "throws <species> <device>",
		Short: "Simulate how many throws a capture takes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := t.config(args[0], args[1])
			if err != nil {
				return err
			}
			h, err := a.harness()
			if err != nil {
				return err
			}
			res, err := h.ThrowsToCapture(cmd.Context(), cfg, trials, maxThrows)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if a.settings.Format == "json" {
				return report.WriteJSON(w, res)
			}
			st := res.Stats
			cost, p90Cost := "-", "-"
			if price, ok := a.cat.Price(cfg.Device); ok {
				cost = finite(pricing.ExpectedCostPerCapture(price.Unit, res.Probability), 0)
				p90Cost = strconv.Itoa(price.ForThrows(int(math.Ceil(st.P90))))
			}
			rows := [][]string{
				{"p", strconv.FormatFloat(res.Probability, 'f', 4, 64)},
				{"expected throws", finite(res.Expected, 2)},
				{"expected cost", cost},
				{"cost of p90 throws", p90Cost},
				{"capture within 10 throws", report.Percent(pricing.SuccessWithin(res.Probability, 10))},
				{"mean throws", strconv.FormatFloat(st.Mean, 'f', 2, 64)},
				{"std dev", strconv.FormatFloat(st.StdDev, 'f', 2, 64)},
				{"p50 / p90 / p99", fmt.Sprintf("%g / %g / %g", st.P50, st.P90, st.P99)},
				{"max", strconv.FormatFloat(st.Max, 'f', 0, 64)},
				{"censored", fmt.Sprintf("%d of %d (cap %d)", res.Censored, res.Trials, res.MaxThrows)},
			}
			return writeTable(w, a.settings.Format, []string{"Metric", "Value"}, rows, 1)
		},
	}
	t.bind(cmd)
	cmd.Flags().IntVar(&trials, "trials", 10000, "number of throw-until-capture trials")
	cmd.Flags().IntVar(&maxThrows, "max", 1000, "give up a trial after this many throws")
	return cmd
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		t          target
		devices    []string
		confidence float64
		budget     int
	)
	cmd := &cobra.Command{
		Use:   "plan <species>",
		Short: "Plan the cheapest device purchase for a capture",
		Long: "Finds the cheapest mix of devices whose chance of at least one capture\n" +
			"reaches --confidence, or with --budget the best chance within the budget.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if confidence < 0 || confidence > 1 {
				return fmt.Errorf("--confidence must be between 0 and 1")
			}
			factory := capture.NewFactory(a.cat)
			engine := capture.NewEngine(a.cat)
			var options []pricing.Option
			for _, d := range orAll(devices, a.cat.DeviceIDs()) {
				cfg, err := t.config(args[0], d)
				if err != nil {
					return err
				}
				c, err := factory.Create(cfg.Species, cfg.Level, cfg.Status, cfg.Health)
				if err != nil {
					return err
				}
				p, err := engine.Probability(c, d)
				if err != nil {
					return err
				}
				price, _ := a.cat.Price(d)
				options = append(options, pricing.Option{DeviceID: d, Probability: p, Price: price})
			}

			var (
				plan pricing.Plan
				err  error
			)
			if cmd.Flags().Changed("budget") {
				plan, err = pricing.MaxConfidenceUnderBudget(options, budget)
			} else {
				plan, err = pricing.MinCostForConfidence(options, confidence)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if a.settings.Format == "json" {
				return report.WriteJSON(w, plan)
			}
			rows := make([][]string, 0, len(plan.Purchases)+1)
			for _, p := range plan.Purchases {
				unit := "single"
				if p.Bundle {
					unit = fmt.Sprintf("bundle of %d", p.Throws)
				}
				rows = append(rows, []string{p.DeviceID, unit, strconv.Itoa(p.Qty), strconv.Itoa(p.UnitPrice), strconv.Itoa(p.Subtotal)})
			}
			rows = append(rows, []string{"total", fmt.Sprintf("%d throws", plan.Throws), "", "", strconv.Itoa(plan.TotalCost)})
			if err := writeTable(w, a.settings.Format, []string{"Device", "Unit", "Qty", "Price", "Subtotal"}, rows, 2); err != nil {
				return err
			}
			if a.settings.Format == "table" {
				fmt.Fprintf(w, "capture chance: %.2f%%\n", plan.Probability*100)
			}
			return nil
		},
	}
	t.bind(cmd)
	cmd.Flags().StringSliceVar(&devices, "device", nil, "devices to consider (default: all)")
	cmd.Flags().Float64Var(&confidence, "confidence", 0.9, "target chance of at least one capture")
	cmd.Flags().IntVar(&budget, "budget", 0, "spend at most this much and maximize the capture chance")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	var initFile bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show resolved settings or create the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if initFile {
				return writeTemplate(w, a.configPath)
			}
			if a.settings.Format == "json" {
				return report.WriteJSON(w, a.settings)
			}
			s := a.settings
			data := s.Data
			if data == "" {
				data = "(embedded)"
			}
			rows := [][]string{
				{"config", a.configPath},
				{"data", data},
				{"overlay", s.Overlay},
				{"seed", strconv.FormatUint(s.Seed, 10)},
				{"workers", strconv.Itoa(s.Workers)},
				{"batches", strconv.Itoa(s.Batches)},
				{"attempts", strconv.Itoa(s.Attempts)},
				{"noise", strconv.FormatFloat(s.Noise, 'g', -1, 64)},
				{"format", s.Format},
				{"addr", s.Addr},
				{"reload", s.Reload.String()},
			}
			return writeTable(w, s.Format, []string{"Key", "Value"}, rows, 2)
		},
	}
	cmd.Flags().BoolVar(&initFile, "init", false, "write a commented config file if none exists")
	return cmd
}

func writeTemplate(w io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.Template()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	_, err := fmt.Fprintf(w, "wrote %s\n", path)
	return err
}

func newCatalogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List species and devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if a.settings.Format == "json" {
				return report.WriteJSON(w, map[string][]string{
					"species": a.cat.SpeciesIDs(),
					"devices": a.cat.DeviceIDs(),
				})
			}

			var species [][]string
			for _, id := range a.cat.SpeciesIDs() {
				sp, _ := a.cat.Species(id)
				types := make([]string, len(sp.Types))
				for i, t := range sp.Types {
					types[i] = string(t)
				}
				species = append(species, []string{
					id,
					strings.Join(types, "/"),
					strconv.FormatFloat(sp.CatchRate, 'g', -1, 64),
					strconv.Itoa(sp.Base.HP),
					strconv.FormatFloat(sp.Weight, 'f', 1, 64),
				})
			}
			if err := writeTable(w, a.settings.Format, []string{"Species", "Types", "Catch rate", "Base HP", "Weight"}, species, 2); err != nil {
				return err
			}
			fmt.Fprintln(w)

			strongest := a.cat.StrongestDevice().ID
			var devices [][]string
			for _, id := range a.cat.DeviceIDs() {
				d, _ := a.cat.Device(id)
				price, _ := a.cat.Price(id)
				bundle := "-"
				if price.BundleSize > 1 {
					bundle = fmt.Sprintf("%d for %d", price.BundleSize, price.BundlePrice)
				}
				name := id
				if id == strongest {
					name += " *"
				}
				devices = append(devices, []string{
					name,
					strconv.FormatFloat(d.Multiplier, 'g', -1, 64),
					strconv.Itoa(price.Unit),
					bundle,
				})
			}
			return writeTable(w, a.settings.Format, []string{"Device", "Multiplier", "Cost", "Bundle"}, devices, 1)
		},
	}
}
