package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xtding233/capturesim/internal/experiment"
)

const infinity = "∞"

// Percent formats a probability as a percentage with two decimals.
func Percent(v float64) string { return strconv.FormatFloat(v*100, 'f', 2, 64) + "%" }

func num(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

// ResultsTable prints one row per configuration.
func ResultsTable(w io.Writer, results []experiment.Result) error {
	headers := []string{"Species", "Device", "Status", "Level", "Health", "Mean", "Std", "p"}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		c := r.Config
		rows = append(rows, []string{
			c.Species,
			c.Device,
			c.Status.String(),
			strconv.Itoa(c.Level),
			strconv.FormatFloat(c.Health, 'f', -1, 64),
			Percent(r.Mean),
			Percent(r.StdDev),
			num(r.Probability),
		})
	}
	return WriteTable(w, headers, rows, numeric(3, len(headers)))
}

// Pivot arranges "mean ± std" cells with rowDim values down the side and
// colDim values across the top, both in first-seen order. A later result for
// an occupied cell replaces the earlier one.
func Pivot(results []experiment.Result, rowDim, colDim experiment.Dimension) (headers []string, rows [][]string) {
	g := newGrid()
	for _, r := range results {
		g.set(rowDim.Value(r.Config), colDim.Value(r.Config), Percent(r.Mean)+" ± "+Percent(r.StdDev))
	}
	return g.layout(string(rowDim))
}

// PivotTable writes Pivot's layout.
func PivotTable(w io.Writer, results []experiment.Result, rowDim, colDim experiment.Dimension) error {
	headers, rows := Pivot(results, rowDim, colDim)
	return WriteTable(w, headers, rows, numeric(1, len(headers)))
}

// Effectiveness compares a device against the basic device on the same target.
type Effectiveness struct {
	Config experiment.Config `json:"config"`
	Mean   float64           `json:"mean"`
	Base   float64           `json:"base"`
	// Ratio is Mean / Base; +Inf when the basic device never captured.
	Ratio float64 `json:"-"`
}

// Effectivenesses pairs every result with the result for the same target using
// the base device. Results using the base device, or without a base partner,
// are skipped.
func Effectivenesses(results []experiment.Result, base string) []Effectiveness {
	baseMean := map[string]float64{}
	for _, r := range results {
		if r.Config.Device == base {
			baseMean[r.Config.Key()] = r.Mean
		}
	}
	var out []Effectiveness
	for _, r := range results {
		if r.Config.Device == base {
			continue
		}
		k := r.Config
		k.Device = base
		b, ok := baseMean[k.Key()]
		if !ok {
			continue
		}
		ratio := math.Inf(1)
		if b > 0 {
			ratio = r.Mean / b
		}
		out = append(out, Effectiveness{Config: r.Config, Mean: r.Mean, Base: b, Ratio: ratio})
	}
	return out
}

// Ratio formats an effectiveness ratio.
func Ratio(v float64) string {
	if math.IsInf(v, 1) {
		return infinity
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + "x"
}

// EffectivenessTable prints each device's success rate relative to base.
func EffectivenessTable(w io.Writer, results []experiment.Result, base string) error {
	headers := []string{"Species", "Device", "Status", "Level", "Health", "Mean", base, "Ratio"}
	var rows [][]string
	for _, e := range Effectivenesses(results, base) {
		c := e.Config
		rows = append(rows, []string{
			c.Species,
			c.Device,
			c.Status.String(),
			strconv.Itoa(c.Level),
			strconv.FormatFloat(c.Health, 'f', -1, 64),
			Percent(e.Mean),
			Percent(e.Base),
			Ratio(e.Ratio),
		})
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintf(w, "No results to compare against %s.\n", base)
		return err
	}
	return WriteTable(w, headers, rows, numeric(3, len(headers)))
}

// ProbabilityFunc returns the analytic capture probability of a pairing.
type ProbabilityFunc func(species, device string) (float64, error)

// ProbabilityTable prints the analytic probability of every species and
// device pairing.
func ProbabilityTable(w io.Writer, species, devices []string, p ProbabilityFunc) error {
	headers := append([]string{"Species"}, devices...)
	rows := make([][]string, 0, len(species))
	for _, sp := range species {
		row := []string{sp}
		for _, d := range devices {
			v, err := p(sp, d)
			if err != nil {
				return fmt.Errorf("%s/%s: %w", sp, d, err)
			}
			row = append(row, Percent(v))
		}
		rows = append(rows, row)
	}
	return WriteTable(w, headers, rows, numeric(1, len(headers)))
}
