package stats

import (
	"sort"

	"github.com/verte-zerg/memomu/internal/model"
)

// WeakestModes returns up to n modes with the lowest perfect-round rate.
// Modes without recorded rounds are skipped.
func WeakestModes(sums []model.ModeSummary, n int) []model.Mode {
	candidates := make([]model.ModeSummary, 0, len(sums))
	for _, s := range sums {
		if s.Rounds > 0 {
			candidates = append(candidates, s)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return PerfectRate(candidates[i]) < PerfectRate(candidates[j])
	})
	if n <= 0 || n > len(candidates) {
		n = len(candidates)
	}
	out := make([]model.Mode, 0, n)
	for _, s := range candidates[:n] {
		out = append(out, s.Mode)
	}
	return out
}
