package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/xtding233/capturesim/internal/experiment"
)

const terminalWidthBackup = 80

// Bar is one labelled value in [0,1] with a symmetric error.
type Bar struct {
	Label string
	Value float64
	Err   float64
}

// BarsFromResults labels each result by dim.
func BarsFromResults(results []experiment.Result, dim experiment.Dimension) []Bar {
	bars := make([]Bar, len(results))
	for i, r := range results {
		bars[i] = Bar{Label: dim.Value(r.Config), Value: r.Mean, Err: r.StdDev}
	}
	return bars
}

// Bars draws horizontal bars scaled to [0,1]. The bar is filled with '█' up
// to Value and the band Value ± Err is marked with '├' and '┤'. width <= 0
// uses the terminal width.
func Bars(w io.Writer, bars []Bar, width int) error {
	if len(bars) == 0 {
		return nil
	}
	if width <= 0 {
		width = terminalWidth()
	}
	labelWidth := 0
	for _, b := range bars {
		labelWidth = max(labelWidth, runewidth.StringWidth(b.Label))
	}
	const suffix = len(" 100.00% ± 100.00%")
	plot := max(width-labelWidth-3-suffix, 10)

	for _, b := range bars {
		line := runewidth.FillRight(b.Label, labelWidth) + " │" + barCells(b, plot) + " " + Percent(b.Value) + " ± " + Percent(b.Err)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func barCells(b Bar, width int) string {
	cell := func(v float64) int {
		i := int(clamp(v, 0, 1)*float64(width) + 0.5)
		return min(i, width)
	}
	cells := []rune(strings.Repeat(" ", width))
	fill := cell(b.Value)
	for i := 0; i < fill; i++ {
		cells[i] = '█'
	}
	if b.Err > 0 {
		lo, hi := cell(b.Value-b.Err), cell(b.Value+b.Err)
		if lo < width {
			cells[lo] = '├'
		}
		if hi > 0 && hi-1 != lo {
			cells[hi-1] = '┤'
		}
	}
	return string(cells)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
