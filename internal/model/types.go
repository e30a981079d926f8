// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// Mode identifies a minigame.
type Mode string

// Supported modes.
const (
	ModeMusic   Mode = "music"
	ModeClassic Mode = "classic"
	ModeMemomu  Mode = "memomu"
	ModeMonluck Mode = "monluck"
	ModeBattle  Mode = "battle"
)

// AllModes lists modes in menu order.
var AllModes = []Mode{ModeMusic, ModeClassic, ModeMemomu, ModeMonluck, ModeBattle}

// ParseMode converts a CLI or config value into a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range AllModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Title returns the display name of the mode.
func (m Mode) Title() string {
	switch m {
	case ModeMusic:
		return "Music Memory"
	case ModeClassic:
		return "Classic Memory"
	case ModeMemomu:
		return "MEMOMU Memory"
	case ModeMonluck:
		return "Monluck"
	case ModeBattle:
		return "Battle"
	default:
		return string(m)
	}
}

// ContentID names a selectable unit of content, never an asset path.
type ContentID string

// Blank marks a tile that shows nothing.
const Blank ContentID = "blank"

// Matching describes how input is compared against the target.
type Matching string

// Matching kinds.
const (
	MatchOrdered   Matching = "ordered"
	MatchUnordered Matching = "unordered"
	MatchPairs     Matching = "pairs"
)

// PolicyKind selects how mistakes are treated.
type PolicyKind string

// Policy kinds.
const (
	PolicyStrict   PolicyKind = "strict"
	PolicyBudgeted PolicyKind = "budgeted"
)

// MistakePolicy is strict-single-mistake or budgeted-mistakes(max).
// MaxMistakes <= 0 on a budgeted policy means only the click budget limits mistakes.
type MistakePolicy struct {
	Kind        PolicyKind
	MaxMistakes int
}

// GridSize is the board shape.
type GridSize struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// Cells returns the number of tiles.
func (g GridSize) Cells() int {
	return g.Rows * g.Cols
}

// Tile is one grid position in a round.
type Tile struct {
	Content ContentID
	Decoy   bool
}

// RoundConfig is the immutable per-round descriptor.
type RoundConfig struct {
	Mode           Mode
	RoundNumber    int
	Tier           string
	TargetCount    int
	Repetitions    int
	TimeLimit      time.Duration
	Grid           GridSize
	TargetSequence []ContentID
	DecoySequence  []ContentID
	Tiles          []Tile
	ClickBudget    int
	Matching       Matching
	Policy         MistakePolicy
}

// Multiplicity returns how many tiles carry each target content.
func (c RoundConfig) Multiplicity() int {
	if c.Matching == MatchPairs {
		return 2
	}
	return 1
}

// TargetTiles returns the non-decoy tile indices in ascending order.
func (c RoundConfig) TargetTiles() []int {
	out := make([]int, 0, c.TargetCount*c.Multiplicity())
	for i, t := range c.Tiles {
		if !t.Decoy {
			out = append(out, i)
		}
	}
	return out
}

// Validate checks the tile assignment against the target sequence.
func (c RoundConfig) Validate() error {
	if len(c.Tiles) != c.Grid.Cells() {
		return fmt.Errorf("%w: %d tiles for %dx%d grid", ErrInvalidConfiguration, len(c.Tiles), c.Grid.Rows, c.Grid.Cols)
	}
	if len(c.TargetSequence) != c.TargetCount {
		return fmt.Errorf("%w: target sequence has %d items, want %d", ErrInvalidConfiguration, len(c.TargetSequence), c.TargetCount)
	}
	want := map[ContentID]int{}
	for _, id := range c.TargetSequence {
		want[id] += c.Multiplicity()
	}
	got := map[ContentID]int{}
	for i, t := range c.Tiles {
		if t.Content == "" {
			return fmt.Errorf("%w: tile %d is empty", ErrInvalidConfiguration, i)
		}
		if !t.Decoy {
			got[t.Content]++
		}
	}
	if len(got) != len(want) {
		return fmt.Errorf("%w: target tiles do not match target sequence", ErrInvalidConfiguration)
	}
	for id, n := range want {
		if got[id] != n {
			return fmt.Errorf("%w: content %s placed %d times, want %d", ErrInvalidConfiguration, id, got[id], n)
		}
	}
	return nil
}

// Phase is a named stage within a round.
type Phase string

// Phases shared across modes.
const (
	PhaseNone      Phase = ""
	PhaseIntro     Phase = "intro"
	PhaseCountdown Phase = "countdown"
	PhaseMemorize  Phase = "memorize"
	PhaseMislead   Phase = "mislead"
	PhaseFlash     Phase = "flash"
	PhaseInput     Phase = "input"
	PhaseResolved  Phase = "resolved"
)

// Feedback colors a tile after a selection.
type Feedback string

// Tile feedback values.
const (
	FeedbackNone    Feedback = ""
	FeedbackCorrect Feedback = "correct"
	FeedbackWrong   Feedback = "wrong"
)

// TileFlags is the runtime state of a tile.
type TileFlags struct {
	Revealed    bool
	Highlighted bool
	Selected    bool
	Matched     bool
	Feedback    Feedback
}

// PhaseState is the mutable per-session phase data.
type PhaseState struct {
	Phase      Phase
	StartedAt  time.Time
	Tiles      []TileFlags
	Resolved   bool
	Locked     bool
	Message    string
	Generation uint64
}

// Reset clears the phase state for a new round.
func (p *PhaseState) Reset(tiles int) {
	p.Phase = PhaseNone
	p.StartedAt = time.Time{}
	p.Tiles = make([]TileFlags, tiles)
	p.Resolved = false
	p.Locked = false
	p.Message = ""
}

// ClearHighlights hides every highlighted tile.
func (p *PhaseState) ClearHighlights() {
	for i := range p.Tiles {
		p.Tiles[i].Highlighted = false
		if !p.Tiles[i].Selected && !p.Tiles[i].Matched {
			p.Tiles[i].Revealed = false
		}
	}
}

// InputProgress tracks player input within a round.
type InputProgress struct {
	Accepted     []ContentID
	AcceptedIdx  []int
	Selected     map[int]bool
	MistakeCount int
	ClicksUsed   int
	ClickBudget  int
	Attempts     int
	PendingTile  int
}

// NewInputProgress returns empty progress with the given budget.
func NewInputProgress(budget int) InputProgress {
	return InputProgress{
		Selected:    map[int]bool{},
		ClickBudget: budget,
		PendingTile: -1,
	}
}

// Found returns the number of accepted selections.
func (p InputProgress) Found() int {
	return len(p.Accepted)
}

// Outcome classifies how a round ended.
type Outcome string

// Round outcomes.
const (
	OutcomeCompleted         Outcome = "completed"
	OutcomeFailedMistake     Outcome = "failed-mistake"
	OutcomeFailedTimeout     Outcome = "failed-timeout"
	OutcomeFailedClickBudget Outcome = "failed-click-budget"
)

// Failed reports whether the outcome is not a completion.
func (o Outcome) Failed() bool {
	return o != OutcomeCompleted
}

// RoundResult is appended once per resolved round.
type RoundResult struct {
	RoundNumber    int
	Points         int
	OpponentPoints int
	Perfect        bool
	TimeUsed       time.Duration
	Outcome        Outcome
	Found          int
	TargetCount    int
}

// SessionTotals is owned by the session controller.
type SessionTotals struct {
	Score         int
	OpponentScore int
	CurrentRound  int
	MaxRounds     int
	GameComplete  bool
}

// HighScoreEntry is one persisted high score.
type HighScoreEntry struct {
	Score     int
	Timestamp string
}

// HighScores maps each mode to its descending top list.
type HighScores map[Mode][]HighScoreEntry

// SessionRecord is a completed game written to the store.
type SessionRecord struct {
	ID            string
	Mode          Mode
	StartedAt     time.Time
	EndedAt       time.Time
	Score         int
	OpponentScore int
	Rounds        []RoundResult
}

// ModeSummary aggregates stored sessions of one mode.
type ModeSummary struct {
	Mode          Mode
	Games         int
	Best          int
	TotalScore    int
	Rounds        int
	PerfectRounds int
	Scores        []int
}

// StatsConfig selects sessions for the stats report.
type StatsConfig struct {
	Mode   Mode
	Last   int
	Window int
	Since  *time.Time
}
