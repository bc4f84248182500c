package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/xtding233/capturesim/internal/experiment"
)

var csvHeader = []string{
	"species", "device", "status", "level", "health",
	"mean", "std_dev", "std_err", "min", "max", "probability", "batches", "attempts_per_batch",
}

// WriteCSV writes one record per result with a header row.
func WriteCSV(w io.Writer, results []experiment.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, r := range results {
		c := r.Config
		if err := cw.Write([]string{
			c.Species,
			c.Device,
			c.Status.String(),
			strconv.Itoa(c.Level),
			f(c.Health),
			f(r.Mean),
			f(r.StdDev),
			f(r.Stats.StdErr),
			f(r.Stats.Min),
			f(r.Stats.Max),
			f(r.Probability),
			strconv.Itoa(r.Batches),
			strconv.Itoa(r.AttemptsPerBatch),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteRecords writes a header row and rows as CSV.
func WriteRecords(w io.Writer, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(headers); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
