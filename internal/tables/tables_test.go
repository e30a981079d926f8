package tables

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/memomu/internal/model"
)

func TestDefaultTablesCoverAllModes(t *testing.T) {
	tbl, err := Default()
	if err != nil {
		t.Fatalf("default tables: %v", err)
	}
	for _, m := range model.AllModes {
		if _, ok := tbl[m]; !ok {
			t.Fatalf("missing table for %s", m)
		}
	}
}

func TestMusicBands(t *testing.T) {
	tbl, err := Default()
	if err != nil {
		t.Fatalf("default tables: %v", err)
	}
	music := tbl[model.ModeMusic]
	cases := []struct {
		round, targets, reps int
		limit                float64
		tier                 string
	}{
		{1, 3, 1, 10, "easy"},
		{3, 4, 1, 10, "easy"},
		{4, 5, 2, 15, "medium"},
		{7, 5, 2, 15, "medium"},
		{8, 6, 3, 20, "pro"},
		{10, 8, 3, 20, "pro"},
	}
	for _, tc := range cases {
		b, err := music.Band(tc.round)
		if err != nil {
			t.Fatalf("band %d: %v", tc.round, err)
		}
		if b.Targets != tc.targets || b.Repetitions != tc.reps || b.TimeLimitSeconds != tc.limit || b.Tier != tc.tier {
			t.Fatalf("round %d: unexpected band %+v", tc.round, b)
		}
	}
	if _, err := music.Band(11); !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration for round 11, got %v", err)
	}
}

func TestClassicGridPerRound(t *testing.T) {
	tbl, err := Default()
	if err != nil {
		t.Fatalf("default tables: %v", err)
	}
	classic := tbl[model.ModeClassic]
	b, _ := classic.Band(4)
	if g := classic.GridFor(b); g.Rows != 5 || g.Cols != 5 || b.Targets != 12 {
		t.Fatalf("unexpected round 4 grid %+v with %d pairs", g, b.Targets)
	}
	if n := len(classic.ContentPool()); n != 34 {
		t.Fatalf("expected 34 classic images, got %d", n)
	}
}

func TestPoolIDsOffset(t *testing.T) {
	ids := Pool{Prefix: "battle", Size: 3, Offset: 14}.IDs()
	if len(ids) != 3 || ids[0] != "battle14" || ids[2] != "battle16" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestParseRejectsOversizedBand(t *testing.T) {
	doc := []byte(`
memomu:
  max_rounds: 1
  grid: {rows: 2, cols: 2}
  pool: {prefix: mmimg, size: 30}
  target_source: distinct
  matching: unordered
  policy: budgeted
  playback: flash-all
  rounds:
    - {from: 1, to: 1, targets: 5}
`)
	if _, err := Parse(doc); !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Fatalf("expected invalid configuration, got %v", err)
	}
}

func TestLoadOverridesSingleMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	doc := `
monluck:
  max_rounds: 1
  grid: {rows: 2, cols: 3}
  target_source: repeat
  repeat_content: monad
  decoy_pool: {prefix: classic, size: 33}
  matching: unordered
  policy: budgeted
  playback: none
  rounds:
    - {from: 1, to: 1, targets: 2}
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write tables: %v", err)
	}
	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if g := tbl[model.ModeMonluck].Grid; g.Cells() != 6 {
		t.Fatalf("override not applied: %+v", g)
	}
	if tbl[model.ModeMusic].MaxRounds != 10 {
		t.Fatalf("expected music defaults to survive")
	}
}
