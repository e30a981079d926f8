package score

import (
	"testing"
	"time"

	"github.com/verte-zerg/memomu/internal/model"
)

func TestBoardKeepsTopTenDescending(t *testing.T) {
	b := NewBoard(nil)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	for i := 1; i <= 12; i++ {
		b.Submit(model.ModeMemomu, i*3, at.Add(time.Duration(i)*time.Minute))
	}
	list := b.List(model.ModeMemomu)
	if len(list) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Score < list[i].Score {
			t.Fatalf("list not descending at %d: %v", i, list)
		}
	}
	if b.Top(model.ModeMemomu) != 36 {
		t.Fatalf("unexpected top score %d", b.Top(model.ModeMemomu))
	}
	if rank := b.Submit(model.ModeMemomu, 1, at); rank != 0 {
		t.Fatalf("a score below the list should not rank, got %d", rank)
	}
	if rank := b.Submit(model.ModeMemomu, 100, at); rank != 1 {
		t.Fatalf("expected rank 1, got %d", rank)
	}
}

func TestBoardTiesRankBelowEqualEntries(t *testing.T) {
	b := NewBoard(nil)
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	if rank := b.Submit(model.ModeClassic, 20, at); rank != 1 {
		t.Fatalf("expected rank 1, got %d", rank)
	}
	if rank := b.Submit(model.ModeClassic, 20, at); rank != 2 {
		t.Fatalf("identical entry should rank 2, got %d", rank)
	}
	if rank := b.Submit(model.ModeClassic, 25, at); rank != 1 {
		t.Fatalf("expected rank 1, got %d", rank)
	}
	for i := 0; i < 7; i++ {
		b.Submit(model.ModeClassic, 30, at)
	}
	if rank := b.Submit(model.ModeClassic, 20, at); rank != 0 {
		t.Fatalf("tie at the bottom of a full list should not rank, got %d", rank)
	}
	if got := len(b.List(model.ModeClassic)); got != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, got)
	}
}

func TestBoardEmptyModes(t *testing.T) {
	b := NewBoard(model.HighScores{model.ModeMusic: {{Score: 4, Timestamp: "t"}}})
	if b.Top(model.ModeBattle) != 0 {
		t.Fatalf("empty mode must report 0")
	}
	snap := b.Snapshot()
	for _, m := range model.AllModes {
		if _, ok := snap[m]; !ok {
			t.Fatalf("snapshot missing mode %s", m)
		}
	}
	snap[model.ModeMusic][0].Score = 99
	if b.Top(model.ModeMusic) != 4 {
		t.Fatalf("snapshot must not alias board state")
	}
}

func TestNewBoardNormalizesLoadedLists(t *testing.T) {
	var loaded []model.HighScoreEntry
	for i := 0; i < 15; i++ {
		loaded = append(loaded, model.HighScoreEntry{Score: i})
	}
	b := NewBoard(model.HighScores{model.ModeClassic: loaded})
	list := b.List(model.ModeClassic)
	if len(list) != MaxEntries || list[0].Score != 14 || list[9].Score != 5 {
		t.Fatalf("unexpected normalized list %v", list)
	}
}
