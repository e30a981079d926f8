package generator

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/verte-zerg/memomu/internal/model"
	"github.com/verte-zerg/memomu/internal/random"
	"github.com/verte-zerg/memomu/internal/tables"
)

func defaultTables(t *testing.T) tables.Tables {
	t.Helper()
	tbl, err := tables.Default()
	if err != nil {
		t.Fatalf("default tables: %v", err)
	}
	return tbl
}

func TestMusicSessionPool(t *testing.T) {
	tbl := defaultTables(t)
	g := New(random.New(1))
	sp, err := g.NewSessionPool(tbl[model.ModeMusic])
	if err != nil {
		t.Fatalf("session pool: %v", err)
	}
	if len(sp.Assigned) != 8 || len(sp.Decoys) != 10 {
		t.Fatalf("expected 8 assigned and 10 decoys, got %d and %d", len(sp.Assigned), len(sp.Decoys))
	}
	notes := map[string]bool{}
	for _, id := range sp.Assigned {
		note, ok := sp.Sounds[id]
		if !ok {
			t.Fatalf("assigned image %s has no note", id)
		}
		notes[note] = true
		if slices.Contains(sp.Decoys, id) {
			t.Fatalf("assigned image %s also in decoys", id)
		}
	}
	if len(notes) != 8 {
		t.Fatalf("expected 8 distinct notes, got %d", len(notes))
	}
}

func TestRoundConfigValidAllModes(t *testing.T) {
	tbl := defaultTables(t)
	for _, mode := range model.AllModes {
		table := tbl[mode]
		for seed := int64(1); seed <= 20; seed++ {
			g := New(random.New(seed))
			sp, err := g.NewSessionPool(table)
			if err != nil {
				t.Fatalf("%s: session pool: %v", mode, err)
			}
			if mode == model.ModeBattle {
				sp.Repeat = "avatar3"
			}
			for round := 1; round <= table.MaxRounds; round++ {
				cfg, err := g.Configure(mode, table, round, sp)
				if err != nil {
					t.Fatalf("%s round %d: %v", mode, round, err)
				}
				if len(cfg.Tiles) != cfg.Grid.Cells() {
					t.Fatalf("%s round %d: %d tiles for %d cells", mode, round, len(cfg.Tiles), cfg.Grid.Cells())
				}
				targetSet := map[model.ContentID]bool{}
				for _, id := range cfg.TargetSequence {
					targetSet[id] = true
				}
				for i, tile := range cfg.Tiles {
					if tile.Decoy && targetSet[tile.Content] {
						t.Fatalf("%s round %d: decoy tile %d reuses target content %s", mode, round, i, tile.Content)
					}
				}
			}
		}
	}
}

func TestMusicRoundOne(t *testing.T) {
	tbl := defaultTables(t)
	g := New(random.New(5))
	table := tbl[model.ModeMusic]
	sp, _ := g.NewSessionPool(table)
	cfg, err := g.Configure(model.ModeMusic, table, 1, sp)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if cfg.TargetCount != 3 || cfg.Repetitions != 1 || cfg.TimeLimit != 10*time.Second {
		t.Fatalf("unexpected round 1 parameters: %+v", cfg)
	}
	if !slices.Equal(cfg.TargetSequence, sp.Assigned[:3]) {
		t.Fatalf("expected first three assigned images, got %v", cfg.TargetSequence)
	}
	if slices.Equal(cfg.DecoySequence, cfg.TargetSequence) {
		t.Fatalf("decoy sequence must differ from target order")
	}
	a := slices.Clone(cfg.DecoySequence)
	b := slices.Clone(cfg.TargetSequence)
	slices.Sort(a)
	slices.Sort(b)
	if !slices.Equal(a, b) {
		t.Fatalf("decoy sequence must reuse target content: %v vs %v", cfg.DecoySequence, cfg.TargetSequence)
	}
	if cfg.Matching != model.MatchOrdered || cfg.Policy.Kind != model.PolicyStrict {
		t.Fatalf("unexpected rules %s/%s", cfg.Matching, cfg.Policy.Kind)
	}
}

func TestMemomuBudgetAndLimit(t *testing.T) {
	tbl := defaultTables(t)
	g := New(random.New(8))
	table := tbl[model.ModeMemomu]
	sp, _ := g.NewSessionPool(table)
	cfg, err := g.Configure(model.ModeMemomu, table, 4, sp)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	if cfg.TargetCount != 4 || cfg.ClickBudget != 5 || cfg.TimeLimit != 10*time.Second {
		t.Fatalf("unexpected round 4 parameters: count=%d budget=%d limit=%s", cfg.TargetCount, cfg.ClickBudget, cfg.TimeLimit)
	}
	if got := len(cfg.TargetTiles()); got != 4 {
		t.Fatalf("expected 4 target tiles among 30, got %d", got)
	}
}

func TestClassicOddGridHasSingleExtra(t *testing.T) {
	tbl := defaultTables(t)
	g := New(random.New(11))
	table := tbl[model.ModeClassic]
	sp, _ := g.NewSessionPool(table)
	cfg, err := g.Configure(model.ModeClassic, table, 4, sp)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	counts := map[model.ContentID]int{}
	decoys := 0
	for _, tile := range cfg.Tiles {
		counts[tile.Content]++
		if tile.Decoy {
			decoys++
		}
	}
	if decoys != 1 {
		t.Fatalf("expected one unmatched tile, got %d", decoys)
	}
	for _, id := range cfg.TargetSequence {
		if counts[id] != 2 {
			t.Fatalf("pair %s appears %d times", id, counts[id])
		}
	}
}

func TestBattleBlankDecoysEarlyRounds(t *testing.T) {
	tbl := defaultTables(t)
	g := New(random.New(2))
	table := tbl[model.ModeBattle]
	sp, _ := g.NewSessionPool(table)
	sp.Repeat = "avatar1"
	early, err := g.Configure(model.ModeBattle, table, 1, sp)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	late, err := g.Configure(model.ModeBattle, table, 3, sp)
	if err != nil {
		t.Fatalf("configure: %v", err)
	}
	for _, tile := range early.Tiles {
		if tile.Decoy && tile.Content != model.Blank {
			t.Fatalf("round 1 decoy should be blank, got %s", tile.Content)
		}
	}
	for _, tile := range late.Tiles {
		if tile.Decoy && tile.Content == model.Blank {
			t.Fatalf("round 3 decoys should show battle images")
		}
	}
	if early.TargetCount < 1 || early.TargetCount > 5 {
		t.Fatalf("avatar count %d outside [1,5]", early.TargetCount)
	}
}

func TestMisleadOrder(t *testing.T) {
	g := New(random.New(4))
	seq := []model.ContentID{"a", "b"}
	for i := 0; i < 50; i++ {
		if out := g.MisleadOrder(seq); slices.Equal(out, seq) {
			t.Fatalf("mislead order equals target order")
		}
	}
	same := []model.ContentID{"a", "a", "a"}
	if out := g.MisleadOrder(same); !slices.Equal(out, same) {
		t.Fatalf("identical items keep their order, got %v", out)
	}
	single := []model.ContentID{"a"}
	if out := g.MisleadOrder(single); !slices.Equal(out, single) {
		t.Fatalf("single item keeps its order, got %v", out)
	}
}

func TestConfigureRejectsImpossibleTable(t *testing.T) {
	table := tables.ModeTable{
		MaxRounds:    1,
		Grid:         model.GridSize{Rows: 1, Cols: 2},
		Pool:         tables.Pool{Prefix: "img", Size: 5},
		TargetSource: tables.SourceDistinct,
		Matching:     model.MatchUnordered,
		Policy:       model.PolicyBudgeted,
		Playback:     tables.PlaybackNone,
		Rounds:       []tables.Band{{From: 1, To: 1, Targets: 3}},
	}
	g := New(random.New(1))
	sp, _ := g.NewSessionPool(table)
	if _, err := g.Configure(model.ModeMemomu, table, 1, sp); !errors.Is(err, model.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}
