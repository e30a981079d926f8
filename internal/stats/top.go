package stats

import (
	"sort"

	"github.com/verte-zerg/memomu/internal/model"
)

// MostPlayed returns up to n modes ordered by games played, then menu order.
func MostPlayed(sums []model.ModeSummary, n int) []model.Mode {
	if n <= 0 || len(sums) == 0 {
		return nil
	}
	sorted := append([]model.ModeSummary(nil), sums...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Games > sorted[j].Games
	})
	n = min(n, len(sorted))
	out := make([]model.Mode, 0, n)
	for _, s := range sorted[:n] {
		out = append(out, s.Mode)
	}
	return out
}
