// Package tables holds the per-mode difficulty tables as data.
package tables

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/memomu/internal/model"
)

//go:embed tables.yaml
var defaultTables []byte

// Playback kinds.
const (
	PlaybackSequenceMislead = "sequence-mislead"
	PlaybackFlashAll        = "flash-all"
	PlaybackNone            = "none"
)

// Target sources.
const (
	SourceCycle    = "cycle"
	SourceDistinct = "distinct"
	SourceRepeat   = "repeat"
	SourcePairs    = "pairs"
)

// Pool describes a family of content IDs: prefix+offset .. prefix+offset+size-1.
type Pool struct {
	Prefix string `yaml:"prefix"`
	Size   int    `yaml:"size"`
	Offset int    `yaml:"offset"`
}

// IDs expands the pool into content IDs.
func (p Pool) IDs() []model.ContentID {
	start := p.Offset
	if start == 0 {
		start = 1
	}
	out := make([]model.ContentID, 0, p.Size)
	for i := 0; i < p.Size; i++ {
		out = append(out, model.ContentID(fmt.Sprintf("%s%d", p.Prefix, start+i)))
	}
	return out
}

// Timing holds phase durations in milliseconds.
type Timing struct {
	IntroMs     int `yaml:"intro_ms"`
	HighlightMs int `yaml:"highlight_ms"`
	GapMs       int `yaml:"gap_ms"`
	PostPhaseMs int `yaml:"post_phase_ms"`
	FlashMs     int `yaml:"flash_ms"`
	CompareMs   int `yaml:"compare_ms"`
	CountdownMs int `yaml:"countdown_ms"`
	ResolveMs   int `yaml:"resolve_ms"`
}

// Ms converts a millisecond field to a duration.
func Ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

// Band is an inclusive range of rounds sharing difficulty parameters.
type Band struct {
	From             int     `yaml:"from"`
	To               int     `yaml:"to"`
	Tier             string  `yaml:"tier"`
	Targets          int     `yaml:"targets"`
	MinTargets       int     `yaml:"min_targets"`
	Repetitions      int     `yaml:"repetitions"`
	TimeLimitSeconds float64 `yaml:"time_limit_seconds"`
	ClickBudgetExtra int     `yaml:"click_budget_extra"`
	Rows             int     `yaml:"rows"`
	Cols             int     `yaml:"cols"`
	BlankDecoys      bool    `yaml:"blank_decoys"`
}

// ModeTable is the full difficulty description of one mode.
type ModeTable struct {
	MaxRounds     int               `yaml:"max_rounds"`
	Grid          model.GridSize    `yaml:"grid"`
	Pool          Pool              `yaml:"pool"`
	ExtraContent  []model.ContentID `yaml:"extra_content"`
	Pick          int               `yaml:"pick"`
	SoundPrefix   string            `yaml:"sound_prefix"`
	TargetSource  string            `yaml:"target_source"`
	RepeatContent model.ContentID   `yaml:"repeat_content"`
	DecoyPool     Pool              `yaml:"decoy_pool"`
	Matching      model.Matching    `yaml:"matching"`
	Policy        model.PolicyKind  `yaml:"policy"`
	MaxMistakes   int               `yaml:"max_mistakes"`
	FailEndsGame  bool              `yaml:"fail_ends_game"`
	Playback      string            `yaml:"playback"`
	RevealOnInput bool              `yaml:"reveal_on_input"`
	Timing        Timing            `yaml:"timing"`
	Rounds        []Band            `yaml:"rounds"`
}

// Tables maps each mode to its table.
type Tables map[model.Mode]ModeTable

// Default returns the built-in tables.
func Default() (Tables, error) {
	return Parse(defaultTables)
}

// Load reads tables from path; an empty path yields the defaults.
// Modes missing from the file keep their defaults.
func Load(path string) (Tables, error) {
	base, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}
	override, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for mode, table := range override {
		base[mode] = table
	}
	return base, nil
}

// Parse decodes and validates a YAML tables document.
func Parse(data []byte) (Tables, error) {
	var raw map[string]ModeTable
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode tables: %w", err)
	}
	out := Tables{}
	for name, table := range raw {
		mode, err := model.ParseMode(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidConfiguration, err)
		}
		if err := table.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[mode] = table
	}
	return out, nil
}

// Band returns the band covering round.
func (t ModeTable) Band(round int) (Band, error) {
	for _, b := range t.Rounds {
		if round >= b.From && round <= b.To {
			return b, nil
		}
	}
	return Band{}, fmt.Errorf("%w: no band for round %d", model.ErrInvalidConfiguration, round)
}

// GridFor returns the grid used in a band.
func (t ModeTable) GridFor(b Band) model.GridSize {
	if b.Rows > 0 && b.Cols > 0 {
		return model.GridSize{Rows: b.Rows, Cols: b.Cols}
	}
	return t.Grid
}

// ContentPool returns the target content pool of the mode.
func (t ModeTable) ContentPool() []model.ContentID {
	ids := t.Pool.IDs()
	return append(ids, t.ExtraContent...)
}

// MistakePolicy returns the mode's policy.
func (t ModeTable) MistakePolicy() model.MistakePolicy {
	return model.MistakePolicy{Kind: t.Policy, MaxMistakes: t.MaxMistakes}
}

// Validate rejects tables that would request more targets than cells or pool entries.
func (t ModeTable) Validate() error {
	if t.MaxRounds <= 0 {
		return fmt.Errorf("%w: max_rounds must be > 0", model.ErrInvalidConfiguration)
	}
	switch t.Matching {
	case model.MatchOrdered, model.MatchUnordered, model.MatchPairs:
	default:
		return fmt.Errorf("%w: unknown matching %q", model.ErrInvalidConfiguration, t.Matching)
	}
	switch t.Policy {
	case model.PolicyStrict, model.PolicyBudgeted:
	default:
		return fmt.Errorf("%w: unknown policy %q", model.ErrInvalidConfiguration, t.Policy)
	}
	switch t.Playback {
	case PlaybackSequenceMislead, PlaybackFlashAll, PlaybackNone:
	default:
		return fmt.Errorf("%w: unknown playback %q", model.ErrInvalidConfiguration, t.Playback)
	}
	poolSize := len(t.ContentPool())
	if t.Pick > poolSize {
		return fmt.Errorf("%w: pick %d exceeds pool of %d", model.ErrInvalidConfiguration, t.Pick, poolSize)
	}
	for round := 1; round <= t.MaxRounds; round++ {
		b, err := t.Band(round)
		if err != nil {
			return err
		}
		if b.Targets <= 0 || b.MinTargets > b.Targets {
			return fmt.Errorf("%w: round %d has invalid target count", model.ErrInvalidConfiguration, round)
		}
		cells := t.GridFor(b).Cells()
		need := b.Targets
		if t.TargetSource == SourcePairs {
			need = 2 * b.Targets
		}
		if need > cells {
			return fmt.Errorf("%w: round %d needs %d tiles, grid has %d", model.ErrInvalidConfiguration, round, need, cells)
		}
		switch t.TargetSource {
		case SourceCycle:
			if t.Pick <= 0 {
				return fmt.Errorf("%w: cycle source needs pick > 0", model.ErrInvalidConfiguration)
			}
		case SourceDistinct, SourcePairs:
			if b.Targets > poolSize {
				return fmt.Errorf("%w: round %d needs %d distinct contents, pool has %d", model.ErrInvalidConfiguration, round, b.Targets, poolSize)
			}
			if t.TargetSource == SourcePairs && cells-need > poolSize-b.Targets {
				return fmt.Errorf("%w: round %d leaves %d unmatched tiles, pool has %d spare images", model.ErrInvalidConfiguration, round, cells-need, poolSize-b.Targets)
			}
		case SourceRepeat:
			if t.RepeatContent == "" {
				return fmt.Errorf("%w: repeat source needs repeat_content", model.ErrInvalidConfiguration)
			}
		default:
			return fmt.Errorf("%w: unknown target source %q", model.ErrInvalidConfiguration, t.TargetSource)
		}
	}
	return nil
}
