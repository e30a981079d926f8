package score

import (
	"slices"
	"sort"
	"time"

	"github.com/verte-zerg/memomu/internal/model"
)

// MaxEntries is the length of each mode's list.
const MaxEntries = 10

// Board keeps the per-mode top lists, each sorted descending.
type Board struct {
	scores model.HighScores
}

// NewBoard normalizes loaded scores; nil yields empty lists for every mode.
func NewBoard(loaded model.HighScores) *Board {
	b := &Board{scores: model.HighScores{}}
	for _, m := range model.AllModes {
		b.scores[m] = normalize(loaded[m])
	}
	return b
}

// Submit inserts a score and returns its 1-based rank, or 0 when it fell off the list.
// A score ties below every equal score already on the list.
func (b *Board) Submit(mode model.Mode, score int, at time.Time) int {
	entry := model.HighScoreEntry{Score: score, Timestamp: at.UTC().Format(time.RFC3339Nano)}
	list := b.scores[mode]
	idx := sort.Search(len(list), func(i int) bool {
		return list[i].Score < score
	})
	if idx >= MaxEntries {
		return 0
	}
	list = slices.Insert(list, idx, entry)
	if len(list) > MaxEntries {
		list = list[:MaxEntries]
	}
	b.scores[mode] = list
	return idx + 1
}

// Top returns the best score of mode, or 0.
func (b *Board) Top(mode model.Mode) int {
	list := b.scores[mode]
	if len(list) == 0 {
		return 0
	}
	return list[0].Score
}

// List returns a copy of mode's entries.
func (b *Board) List(mode model.Mode) []model.HighScoreEntry {
	return append([]model.HighScoreEntry(nil), b.scores[mode]...)
}

// Snapshot returns a deep copy of every list.
func (b *Board) Snapshot() model.HighScores {
	out := model.HighScores{}
	for m, list := range b.scores {
		out[m] = append([]model.HighScoreEntry{}, list...)
	}
	return out
}

func normalize(list []model.HighScoreEntry) []model.HighScoreEntry {
	out := append([]model.HighScoreEntry{}, list...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > MaxEntries {
		out = out[:MaxEntries]
	}
	return out
}
