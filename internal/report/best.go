package report

import (
	"io"
	"math"
	"strconv"

	"github.com/xtding233/capturesim/internal/experiment"
)

// PriceFunc returns the single-device price of a device kind.
type PriceFunc func(device string) (int, bool)

// BestCell is the most cost-efficient device for one target.
type BestCell struct {
	Config experiment.Config `json:"config"` // Device is the winner
	Mean   float64           `json:"mean"`
	Price  int               `json:"price"`
	// Efficiency is Mean / Price: captures per unit of money.
	Efficiency float64 `json:"efficiency"`
}

// BestDevices groups results that differ only in device and keeps, per
// group, the device with the highest mean / price. Devices without a
// positive price are skipped; ties keep the earlier result. Groups appear in
// first-seen order.
func BestDevices(results []experiment.Result, price PriceFunc) []BestCell {
	var order []string
	best := map[string]BestCell{}
	for _, r := range results {
		p, ok := price(r.Config.Device)
		if !ok || p <= 0 {
			continue
		}
		k := r.Config
		k.Device = ""
		key := k.Key()
		cell := BestCell{Config: r.Config, Mean: r.Mean, Price: p, Efficiency: r.Mean / float64(p)}
		cur, seen := best[key]
		if !seen {
			order = append(order, key)
		}
		if !seen || cell.Efficiency > cur.Efficiency {
			best[key] = cell
		}
	}
	out := make([]BestCell, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

// BestDeviceTable prints the winning device per status (rows) and health
// (columns), with its efficiency in captures per 100 units of money.
func BestDeviceTable(w io.Writer, cells []BestCell) error {
	grid := newGrid()
	for _, c := range cells {
		grid.set(c.Config.Status.String(), experiment.DimHealth.Value(c.Config),
			c.Config.Device+" "+strconv.FormatFloat(c.Efficiency*100, 'f', 3, 64))
	}
	headers, rows := grid.layout("status")
	return WriteTable(w, headers, rows, numeric(1, len(headers)))
}

// Spread is the variation of a target's success rate across levels.
type Spread struct {
	Config experiment.Config `json:"config"` // Level is zero
	Levels int               `json:"levels"`
	Mean   float64           `json:"mean"`
	// StdDev is the sample (n-1) standard deviation of the per-level means.
	StdDev float64 `json:"std_dev"`
}

// LevelSpreads groups results that differ only in level. Groups with fewer
// than two levels have no spread and are dropped.
func LevelSpreads(results []experiment.Result) []Spread {
	var order []string
	groups := map[string][]float64{}
	configs := map[string]experiment.Config{}
	for _, r := range results {
		k := r.Config
		k.Level = 0
		key := k.Key()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
			configs[key] = k
		}
		groups[key] = append(groups[key], r.Mean)
	}
	var out []Spread
	for _, key := range order {
		xs := groups[key]
		if len(xs) < 2 {
			continue
		}
		mean := 0.0
		for _, x := range xs {
			mean += x
		}
		mean /= float64(len(xs))
		ss := 0.0
		for _, x := range xs {
			ss += (x - mean) * (x - mean)
		}
		out = append(out, Spread{
			Config: configs[key],
			Levels: len(xs),
			Mean:   mean,
			StdDev: math.Sqrt(ss / float64(len(xs)-1)),
		})
	}
	return out
}

// SpreadTable prints the across-level std dev per status (rows) and health
// (columns) for a single device.
func SpreadTable(w io.Writer, spreads []Spread) error {
	grid := newGrid()
	for _, s := range spreads {
		grid.set(s.Config.Status.String(), experiment.DimHealth.Value(s.Config),
			strconv.FormatFloat(s.StdDev, 'f', 4, 64))
	}
	headers, rows := grid.layout("status")
	return WriteTable(w, headers, rows, numeric(1, len(headers)))
}

// grid collects string cells keyed by row and column labels, both kept in
// first-seen order.
type grid struct {
	rows, cols []string
	rowIdx     map[string]int
	colIdx     map[string]int
	cells      map[[2]int]string
}

func newGrid() *grid {
	return &grid{rowIdx: map[string]int{}, colIdx: map[string]int{}, cells: map[[2]int]string{}}
}

func (g *grid) set(row, col, v string) {
	ri, ok := g.rowIdx[row]
	if !ok {
		ri = len(g.rows)
		g.rowIdx[row] = ri
		g.rows = append(g.rows, row)
	}
	ci, ok := g.colIdx[col]
	if !ok {
		ci = len(g.cols)
		g.colIdx[col] = ci
		g.cols = append(g.cols, col)
	}
	g.cells[[2]int{ri, ci}] = v
}

// layout returns headers and rows; empty cells print as "-".
func (g *grid) layout(corner string) ([]string, [][]string) {
	headers := append([]string{corner}, g.cols...)
	rows := make([][]string, len(g.rows))
	for ri, rk := range g.rows {
		row := make([]string, len(g.cols)+1)
		row[0] = rk
		for ci := range g.cols {
			if v, ok := g.cells[[2]int{ri, ci}]; ok {
				row[ci+1] = v
			} else {
				row[ci+1] = "-"
			}
		}
		rows[ri] = row
	}
	return headers, rows
}
