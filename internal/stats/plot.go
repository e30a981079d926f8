package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series is a named run of values, oldest first.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultChartHeight  = 8
	minChartWidth       = 10
	terminalWidthBackup = 80
	colorReset          = "\x1b[0m"
)

// eighths fill a cell from the bottom in 1/8 steps.
var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var palette = []string{
	"\x1b[35m", // magenta
	"\x1b[36m", // cyan
	"\x1b[33m", // yellow
	"\x1b[32m", // green
	"\x1b[34m", // blue
}

// PlotColumns renders s as a column chart of the given size. A zero width
// fits the chart to the terminal.
func PlotColumns(w io.Writer, s Series, index, width, height int, forceColor bool) error {
	if len(s.Values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	if width <= 0 {
		width = ChartWidthFor(terminalWidth(), s)
	}
	width = max(width, minChartWidth)

	values := resample(s.Values, width)
	top := 0.0
	for _, v := range values {
		top = math.Max(top, v)
	}
	if top <= 0 {
		top = 1
	}
	color := ""
	if shouldUseColor(w, forceColor) {
		color = palette[index%len(palette)]
	}
	label := axisLabel(top)
	pad := runewidth.StringWidth(label)

	if _, err := fmt.Fprintf(w, "%s (%d games, max %.0f)\n", s.Name, len(s.Values), top); err != nil {
		return err
	}
	for row := height - 1; row >= 0; row-- {
		var b strings.Builder
		switch row {
		case height - 1:
			b.WriteString(label)
		case 0:
			b.WriteString(runewidth.FillLeft("0", pad))
		default:
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(" │")
		b.WriteString(color)
		for _, v := range values {
			b.WriteRune(cellRune(v/top*float64(height), row))
		}
		if color != "" {
			b.WriteString(colorReset)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " ")); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// cellRune returns the glyph of one chart cell for a bar of level rows.
func cellRune(level float64, row int) rune {
	fill := level - float64(row)
	switch {
	case fill <= 0:
		return eighths[0]
	case fill >= 1:
		return eighths[len(eighths)-1]
	default:
		return eighths[int(math.Round(fill*8))]
	}
}

func axisLabel(top float64) string {
	return fmt.Sprintf("%.0f", top)
}

// ChartWidthFor returns the number of columns that fit in totalWidth next to the axis.
func ChartWidthFor(totalWidth int, s Series) int {
	if totalWidth <= 0 {
		return minChartWidth
	}
	top := 0.0
	for _, v := range s.Values {
		top = math.Max(top, v)
	}
	axis := runewidth.StringWidth(axisLabel(top)) + runewidth.StringWidth(" │")
	return max(totalWidth-axis, minChartWidth)
}

// resample maps values onto width columns. Longer series are averaged per
// bucket; shorter series repeat each value.
func resample(values []float64, width int) []float64 {
	if len(values) == 0 || width <= 0 {
		return nil
	}
	if len(values) <= width {
		out := make([]float64, 0, width)
		per := width / len(values)
		for _, v := range values {
			for i := 0; i < per; i++ {
				out = append(out, v)
			}
		}
		return out
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := max((i+1)*len(values)/width, start+1)
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
