// Package generator builds randomized round configurations.
package generator

import (
	"fmt"
	"slices"
	"time"

	"github.com/verte-zerg/memomu/internal/model"
	"github.com/verte-zerg/memomu/internal/random"
	"github.com/verte-zerg/memomu/internal/tables"
)

const misleadRetries = 16

// Generator produces round configurations from difficulty tables.
type Generator struct {
	src *random.Source
}

// New returns a Generator drawing from src.
func New(src *random.Source) *Generator {
	return &Generator{src: src}
}

// SessionPool is the content assigned once per session.
type SessionPool struct {
	Assigned []model.ContentID
	Decoys   []model.ContentID
	Sounds   map[model.ContentID]string
	Repeat   model.ContentID
}

// NewSessionPool picks the session's candidate contents. When the table has
// a pick size, that many contents are sampled and the rest become decoys.
func (g *Generator) NewSessionPool(t tables.ModeTable) (SessionPool, error) {
	pool := t.ContentPool()
	sp := SessionPool{
		Sounds: map[model.ContentID]string{},
		Repeat: t.RepeatContent,
	}
	if t.Pick > 0 {
		idx, err := random.SampleDistinct(g.src, len(pool), t.Pick)
		if err != nil {
			return SessionPool{}, err
		}
		used := make(map[int]bool, len(idx))
		for i, j := range idx {
			sp.Assigned = append(sp.Assigned, pool[j])
			used[j] = true
			if t.SoundPrefix != "" {
				sp.Sounds[pool[j]] = fmt.Sprintf("%s%d", t.SoundPrefix, i+1)
			}
		}
		for j, id := range pool {
			if !used[j] {
				sp.Decoys = append(sp.Decoys, id)
			}
		}
		return sp, nil
	}
	sp.Assigned = pool
	if t.DecoyPool.Size > 0 {
		sp.Decoys = t.DecoyPool.IDs()
	}
	return sp, nil
}

// Configure builds the config of one round.
func (g *Generator) Configure(mode model.Mode, t tables.ModeTable, round int, sp SessionPool) (model.RoundConfig, error) {
	band, err := t.Band(round)
	if err != nil {
		return model.RoundConfig{}, err
	}
	grid := t.GridFor(band)
	count := band.Targets
	if band.MinTargets > 0 && band.MinTargets < band.Targets {
		count = band.MinTargets + g.src.Intn(band.Targets-band.MinTargets+1)
	}

	targets, decoyPool, err := g.targets(t, count, sp)
	if err != nil {
		return model.RoundConfig{}, err
	}

	cfg := model.RoundConfig{
		Mode:           mode,
		RoundNumber:    round,
		Tier:           band.Tier,
		TargetCount:    count,
		Repetitions:    max(1, band.Repetitions),
		TimeLimit:      secondsToDuration(band.TimeLimitSeconds),
		Grid:           grid,
		TargetSequence: targets,
		Matching:       t.Matching,
		Policy:         t.MistakePolicy(),
	}
	if band.ClickBudgetExtra > 0 {
		cfg.ClickBudget = count + band.ClickBudgetExtra
	}
	if t.Playback == tables.PlaybackSequenceMislead {
		cfg.DecoySequence = g.MisleadOrder(targets)
	}

	tiles, err := g.place(cfg, decoyPool, band.BlankDecoys)
	if err != nil {
		return model.RoundConfig{}, err
	}
	cfg.Tiles = tiles
	if err := cfg.Validate(); err != nil {
		return model.RoundConfig{}, err
	}
	return cfg, nil
}

func (g *Generator) targets(t tables.ModeTable, count int, sp SessionPool) ([]model.ContentID, []model.ContentID, error) {
	switch t.TargetSource {
	case tables.SourceCycle:
		if len(sp.Assigned) == 0 {
			return nil, nil, fmt.Errorf("%w: empty session pool", model.ErrInvalidConfiguration)
		}
		out := make([]model.ContentID, count)
		for i := range out {
			out[i] = sp.Assigned[i%len(sp.Assigned)]
		}
		return out, sp.Decoys, nil
	case tables.SourceDistinct:
		idx, err := random.SampleDistinct(g.src, len(sp.Assigned), count)
		if err != nil {
			return nil, nil, err
		}
		chosen := make(map[int]bool, count)
		out := make([]model.ContentID, 0, count)
		for _, j := range idx {
			out = append(out, sp.Assigned[j])
			chosen[j] = true
		}
		var rest []model.ContentID
		for j, id := range sp.Assigned {
			if !chosen[j] {
				rest = append(rest, id)
			}
		}
		return out, rest, nil
	case tables.SourceRepeat:
		out := make([]model.ContentID, count)
		for i := range out {
			out[i] = sp.Repeat
		}
		return out, sp.Decoys, nil
	case tables.SourcePairs:
		if count > len(sp.Assigned) {
			return nil, nil, fmt.Errorf("%w: %d pairs from %d images", model.ErrInvalidConfiguration, count, len(sp.Assigned))
		}
		shuffled := random.Shuffle(g.src, sp.Assigned)
		return shuffled[:count], shuffled[count:], nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown target source %q", model.ErrInvalidConfiguration, t.TargetSource)
	}
}

// place puts target tiles at distinct random positions and fills the rest with decoys.
func (g *Generator) place(cfg model.RoundConfig, decoyPool []model.ContentID, blank bool) ([]model.Tile, error) {
	cells := cfg.Grid.Cells()
	var placed []model.ContentID
	for _, id := range cfg.TargetSequence {
		for i := 0; i < cfg.Multiplicity(); i++ {
			placed = append(placed, id)
		}
	}
	positions, err := random.SampleDistinct(g.src, cells, len(placed))
	if err != nil {
		return nil, err
	}
	tiles := make([]model.Tile, cells)
	taken := make([]bool, cells)
	for i, pos := range positions {
		tiles[pos] = model.Tile{Content: placed[i]}
		taken[pos] = true
	}

	remaining := cells - len(placed)
	if remaining == 0 {
		return tiles, nil
	}
	if !blank && len(decoyPool) == 0 {
		return nil, fmt.Errorf("%w: no decoy content for %d tiles", model.ErrInvalidConfiguration, remaining)
	}
	// Pair decoys must stay unique so no decoy can form a pair.
	if cfg.Matching == model.MatchPairs && remaining > len(decoyPool) {
		return nil, fmt.Errorf("%w: %d unmatched tiles need distinct decoys, pool has %d", model.ErrInvalidConfiguration, remaining, len(decoyPool))
	}
	next := 0
	for pos := range tiles {
		if taken[pos] {
			continue
		}
		var id model.ContentID
		switch {
		case blank:
			id = model.Blank
		case cfg.Matching == model.MatchPairs:
			id = decoyPool[next]
			next++
		default:
			id = random.Pick(g.src, decoyPool)
		}
		tiles[pos] = model.Tile{Content: id, Decoy: true}
	}
	return tiles, nil
}

// MisleadOrder reshuffles seq for the misleading phase. The shuffle is retried
// while it equals seq; if it still does and seq has two distinct items, it is
// rotated by one.
func (g *Generator) MisleadOrder(seq []model.ContentID) []model.ContentID {
	if len(seq) < 2 {
		return slices.Clone(seq)
	}
	for i := 0; i < misleadRetries; i++ {
		out := random.Shuffle(g.src, seq)
		if !slices.Equal(out, seq) {
			return out
		}
	}
	out := append(slices.Clone(seq[1:]), seq[0])
	return out
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
