// Package stats contains score statistics and text reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/memomu/internal/model"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// AverageScore returns the mean final score of a mode.
func AverageScore(s model.ModeSummary) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalScore) / float64(s.Games)
}

// PerfectRate returns the share of rounds completed perfectly.
func PerfectRate(s model.ModeSummary) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.PerfectRounds) / float64(s.Rounds)
}

// MovingAverage smooths values with a trailing mean of up to window items.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders values on a one-line block scale.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		idx := len(sparkRunes) / 2
		if hi-lo > 1e-9 {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(sparkRunes)-1)))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

func intsToFloats(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// RenderSummary prints one row per mode.
func RenderSummary(w io.Writer, sums []model.ModeSummary) error {
	if len(sums) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	cols := []column{
		{header: "Mode"},
		{header: "Games", right: true},
		{header: "Best", right: true},
		{header: "Avg", right: true},
		{header: "Perfect", right: true},
		{header: "Trend"},
	}
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		rows = append(rows, []string{
			s.Mode.Title(),
			fmt.Sprintf("%d", s.Games),
			fmt.Sprintf("%d", s.Best),
			fmt.Sprintf("%.1f", AverageScore(s)),
			fmt.Sprintf("%.0f%%", PerfectRate(s)*100),
			Sparkline(intsToFloats(s.Scores)),
		})
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(sums) > 1 {
		if top := MostPlayed(sums, 1); len(top) > 0 {
			if _, err := fmt.Fprintf(w, "Most played: %s\n", top[0].Title()); err != nil {
				return err
			}
		}
		if weak := WeakestModes(sums, 1); len(weak) > 0 {
			if _, err := fmt.Fprintf(w, "Needs practice: %s\n", weak[0].Title()); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves prints a smoothed score chart per mode.
func RenderCurves(w io.Writer, sessions []model.SessionRecord, window, totalWidth, height int, useColor bool) error {
	byMode := map[model.Mode][]float64{}
	for _, s := range sessions {
		byMode[s.Mode] = append(byMode[s.Mode], float64(s.Score))
	}
	idx := 0
	for _, m := range model.AllModes {
		values, ok := byMode[m]
		if !ok {
			continue
		}
		s := Series{Name: m.Title(), Values: MovingAverage(values, window)}
		width := 0
		if totalWidth > 0 {
			width = ChartWidthFor(totalWidth, s)
		}
		if err := PlotColumns(w, s, idx, width, height, useColor); err != nil {
			return err
		}
		idx++
	}
	return nil
}

// RenderHighScores prints the top list of each mode in modes.
func RenderHighScores(w io.Writer, scores model.HighScores, modes []model.Mode) error {
	cols := []column{
		{header: "#", right: true},
		{header: "Score", right: true},
		{header: "When"},
	}
	for _, m := range modes {
		if _, err := fmt.Fprintln(w, m.Title()); err != nil {
			return err
		}
		list := scores[m]
		if len(list) == 0 {
			if _, err := fmt.Fprintln(w, "  no scores yet"); err != nil {
				return err
			}
			continue
		}
		rows := make([][]string, 0, len(list))
		for i, e := range list {
			rows = append(rows, []string{fmt.Sprintf("%d", i+1), fmt.Sprintf("%d", e.Score), formatWhen(e.Timestamp)})
		}
		for _, line := range formatTable(cols, rows) {
			if _, err := fmt.Fprintln(w, "  "+line); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenderLastGame prints the round history of rec.
func RenderLastGame(w io.Writer, rec model.SessionRecord) error {
	if rec.ID == "" {
		return nil
	}
	title := fmt.Sprintf("Last game: %s, %d points", rec.Mode.Title(), rec.Score)
	if rec.Mode == model.ModeBattle {
		title += fmt.Sprintf(" vs %d", rec.OpponentScore)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	cols := []column{
		{header: "Round", right: true},
		{header: "Points", right: true},
		{header: "Found", right: true},
		{header: "Time", right: true},
		{header: "Result"},
	}
	rows := make([][]string, 0, len(rec.Rounds))
	for _, r := range rec.Rounds {
		result := string(r.Outcome)
		if r.Perfect {
			result = "perfect"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.RoundNumber),
			fmt.Sprintf("%d", r.Points),
			fmt.Sprintf("%d/%d", r.Found, r.TargetCount),
			fmt.Sprintf("%.1fs", r.TimeUsed.Seconds()),
			result,
		})
	}
	for _, line := range formatTable(cols, rows) {
		if _, err := fmt.Fprintln(w, "  "+line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func formatWhen(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04")
}
