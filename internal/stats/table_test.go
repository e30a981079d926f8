package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	cols := []column{{header: "Mode"}, {header: "Best", right: true}, {header: "Trend"}}
	rows := [][]string{
		{"Battle", "12", "▁█"},
		{"Monluck", "5"},
	}
	lines := formatTable(cols, rows)
	want := []string{
		"Mode     Best  Trend",
		"Battle     12  ▁█",
		"Monluck     5",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q want %q", i, lines[i], want[i])
		}
	}
}
