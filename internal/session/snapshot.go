package session

import (
	"time"

	"github.com/verte-zerg/memomu/internal/model"
)

// TileView is what a renderer may show of one tile.
type TileView struct {
	Content model.ContentID
	Flags   model.TileFlags
}

// Visible reports whether the tile face is shown.
func (t TileView) Visible() bool {
	return t.Flags.Revealed || t.Flags.Highlighted || t.Flags.Matched
}

// Snapshot is a read-only copy of the session for renderers.
type Snapshot struct {
	Mode          model.Mode
	State         State
	Phase         model.Phase
	Message       string
	Round         int
	MaxRounds     int
	Tier          string
	Grid          model.GridSize
	Tiles         []TileView
	Score         int
	OpponentScore int
	TopScore      int
	Rank          int
	Found         int
	TargetCount   int
	ClicksUsed    int
	ClickBudget   int
	Mistakes      int
	TimeLimit     time.Duration
	TimeRemaining time.Duration
	Locked        bool
	GameComplete  bool
	History       []model.RoundResult
	Player        string
	Opponent      string
}

// Snapshot returns the current view. Score includes live points of an unresolved round.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Mode:          c.opts.Mode,
		State:         c.state,
		Phase:         c.phase.Phase,
		Message:       c.phase.Message,
		Round:         c.totals.CurrentRound,
		MaxRounds:     c.totals.MaxRounds,
		Tier:          c.cfg.Tier,
		Grid:          c.cfg.Grid,
		Score:         c.totals.Score,
		OpponentScore: c.totals.OpponentScore,
		TopScore:      c.board.Top(c.opts.Mode),
		Rank:          c.rank,
		Found:         c.progress.Found(),
		TargetCount:   c.cfg.TargetCount,
		ClicksUsed:    c.progress.ClicksUsed,
		ClickBudget:   c.progress.ClickBudget,
		Mistakes:      c.progress.MistakeCount,
		TimeLimit:     c.countdown.Limit(),
		TimeRemaining: c.countdown.Remaining(c.loop.Now()),
		Locked:        c.phase.Locked,
		GameComplete:  c.totals.GameComplete,
		History:       c.History(),
	}
	if c.state == StateAwaitingInput && !c.phase.Resolved {
		s.Score += c.rules.Live(c.progress.Found())
	}
	s.Tiles = make([]TileView, len(c.cfg.Tiles))
	for i, t := range c.cfg.Tiles {
		s.Tiles[i] = TileView{Content: t.Content}
		if i < len(c.phase.Tiles) {
			s.Tiles[i].Flags = c.phase.Tiles[i]
		}
	}
	if c.player >= 0 {
		s.Player = AvatarNames[c.player]
	}
	if c.opponent >= 0 {
		s.Opponent = AvatarNames[c.opponent]
	}
	return s
}

// BattleResult classifies a finished battle; it is empty for other modes.
func (s Snapshot) BattleResult() string {
	if s.Mode != model.ModeBattle || !s.GameComplete {
		return ""
	}
	return BattleOutcome(s.Score, s.OpponentScore)
}
