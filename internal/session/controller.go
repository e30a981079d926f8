// Package session drives one game session through rounds and phases.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/memomu/internal/generator"
	"github.com/verte-zerg/memomu/internal/model"
	"github.com/verte-zerg/memomu/internal/random"
	"github.com/verte-zerg/memomu/internal/scheduler"
	"github.com/verte-zerg/memomu/internal/score"
	"github.com/verte-zerg/memomu/internal/tables"
	"github.com/verte-zerg/memomu/internal/validator"
)

// State is the session-level state.
type State string

// Session states.
const (
	StateIdle          State = "idle"
	StateRoundSetup    State = "round-setup"
	StatePlayback      State = "phase-playback"
	StateAwaitingInput State = "awaiting-input"
	StateRoundResolved State = "round-resolved"
	StateGameComplete  State = "game-complete"
)

// Sound ids played on round events.
const (
	SoundHit    = "yupi"
	SoundMiss   = "kuku"
	SoundFail   = "buuuu"
	SoundFinish = "yupi"
)

// Options configures a Controller. Table, Source and Loop are required.
type Options struct {
	Mode        model.Mode
	Table       tables.ModeTable
	Source      *random.Source
	Loop        *scheduler.Loop
	Board       *score.Board
	Renderer    Renderer
	Audio       Audio
	Persistence Persistence
	Navigator   Navigator
	Logf        func(format string, args ...any)
	Context     context.Context
	// Highlight and Gap override the table's playback timing when > 0.
	Highlight time.Duration
	Gap       time.Duration
	// Avatar is the player's battle avatar; a negative value picks one at random.
	Avatar int
}

// Controller owns SessionTotals, PhaseState and InputProgress of one mode.
// All methods run on the host loop goroutine.
type Controller struct {
	opts     Options
	table    tables.ModeTable
	gen      *generator.Generator
	src      *random.Source
	loop     *scheduler.Loop
	sched    *scheduler.Scheduler
	rules    score.Rules
	board    *score.Board
	renderer Renderer
	audio    Audio
	nav      Navigator
	logf     func(format string, args ...any)
	ctx      context.Context

	state     State
	pool      generator.SessionPool
	cfg       model.RoundConfig
	phase     model.PhaseState
	progress  model.InputProgress
	matched   []bool
	countdown *scheduler.Countdown
	totals    model.SessionTotals
	history   []model.RoundResult

	sessionID  string
	startedAt  time.Time
	rank       int
	player     int
	opponent   int
	opponentAt time.Duration
	doubles    int
}

// New returns an idle controller.
func New(opts Options) (*Controller, error) {
	if opts.Source == nil || opts.Loop == nil {
		return nil, fmt.Errorf("session: source and loop are required")
	}
	if err := opts.Table.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", opts.Mode, err)
	}
	c := &Controller{
		opts:     opts,
		table:    opts.Table,
		gen:      generator.New(opts.Source),
		src:      opts.Source,
		loop:     opts.Loop,
		sched:    scheduler.New(opts.Loop),
		rules:    score.ForMode(opts.Mode),
		board:    opts.Board,
		renderer: opts.Renderer,
		audio:    opts.Audio,
		nav:      opts.Navigator,
		logf:     opts.Logf,
		ctx:      opts.Context,
		state:    StateIdle,
		player:   -1,
		opponent: -1,
	}
	if c.board == nil {
		c.board = score.NewBoard(nil)
	}
	if c.renderer == nil {
		c.renderer = nopRenderer{}
	}
	if c.audio == nil {
		c.audio = nopAudio{}
	}
	if c.nav == nil {
		c.nav = nopNavigator{}
	}
	if c.logf == nil {
		c.logf = logErrf
	}
	if c.ctx == nil {
		c.ctx = context.Background()
	}
	return c, nil
}

// Mode returns the controller's mode.
func (c *Controller) Mode() model.Mode {
	return c.opts.Mode
}

// State returns the session state.
func (c *Controller) State() State {
	return c.state
}

// Totals returns a copy of the session totals.
func (c *Controller) Totals() model.SessionTotals {
	return c.totals
}

// History returns a copy of the resolved rounds.
func (c *Controller) History() []model.RoundResult {
	return append([]model.RoundResult(nil), c.history...)
}

// Round returns the current round config.
func (c *Controller) Round() model.RoundConfig {
	return c.cfg
}

// DoubleResolutions counts resolve attempts on an already resolved round.
func (c *Controller) DoubleResolutions() int {
	return c.doubles
}

// StaleCallbacks counts deferred callbacks dropped after invalidation.
func (c *Controller) StaleCallbacks() int {
	return c.sched.Stale()
}

// Start begins a new session at round 1.
func (c *Controller) Start() error {
	c.teardown()
	pool, err := c.gen.NewSessionPool(c.table)
	if err != nil {
		return fmt.Errorf("session %s: %w", c.opts.Mode, err)
	}
	c.pool = pool
	c.totals = model.SessionTotals{MaxRounds: c.table.MaxRounds}
	c.history = nil
	c.rank = 0
	c.sessionID = uuid.NewString()
	c.startedAt = c.loop.Now()
	if c.opts.Mode == model.ModeBattle {
		c.player = c.opts.Avatar
		if c.player < 0 || c.player >= len(AvatarNames) {
			c.player = c.src.Intn(len(AvatarNames))
		}
		c.opponent = pickOpponent(c.src, c.player)
	}
	return c.startRound(1)
}

// Restart tears down the running session and starts the same mode again.
func (c *Controller) Restart() error {
	return c.Start()
}

// Quit abandons the session. Quitting an unfinished battle forfeits it.
func (c *Controller) Quit() {
	wasRunning := c.state != StateIdle && c.state != StateGameComplete
	c.teardown()
	if wasRunning && c.opts.Mode == model.ModeBattle {
		c.totals.Score = forfeitPlayer
		c.totals.OpponentScore = forfeitOpponent
	}
	c.state = StateIdle
	c.nav.OnQuit(c.opts.Mode)
	c.render()
}

func (c *Controller) teardown() {
	c.sched.Invalidate()
	c.countdown.Stop()
	c.countdown = nil
	c.phase.Reset(len(c.cfg.Tiles))
	c.state = StateIdle
}

// Tick advances the loop clock to now and fires due callbacks.
func (c *Controller) Tick(now time.Time) {
	if c.loop.Advance(now) > 0 {
		c.render()
	}
	if c.state == StateAwaitingInput {
		c.countdown.Check(c.loop.Now())
	}
}

func (c *Controller) startRound(n int) error {
	c.state = StateRoundSetup
	cfg, err := c.gen.Configure(c.opts.Mode, c.table, n, c.pool)
	if err != nil {
		c.logf("failed to configure round %d: %v\n", n, err)
		c.state = StateIdle
		return fmt.Errorf("round %d: %w", n, err)
	}
	c.cfg = cfg
	c.progress = model.NewInputProgress(cfg.ClickBudget)
	c.matched = make([]bool, len(cfg.Tiles))
	c.phase.Reset(len(cfg.Tiles))
	c.totals.CurrentRound = n
	if n > 1 {
		c.nav.OnRoundAdvance(c.opts.Mode, n)
	}
	c.beginPlayback()
	return nil
}

func (c *Controller) setPhase(p model.Phase, msg string) {
	c.phase.Phase = p
	c.phase.StartedAt = c.loop.Now()
	c.phase.Message = msg
	c.phase.Generation = c.sched.Generation()
	c.render()
}

func (c *Controller) beginPlayback() {
	c.state = StatePlayback
	timing := c.table.Timing
	switch c.table.Playback {
	case tables.PlaybackSequenceMislead:
		c.setPhase(model.PhaseIntro, "Memorize the melody")
		c.sched.Defer(tables.Ms(timing.IntroMs), func() {
			c.setPhase(model.PhaseMemorize, "Memorize the melody")
			c.play(c.cfg.TargetSequence, func() {
				c.sched.Defer(tables.Ms(timing.PostPhaseMs), func() {
					c.setPhase(model.PhaseIntro, "Don't get yourself fooled")
					c.sched.Defer(tables.Ms(timing.IntroMs), func() {
						c.setPhase(model.PhaseMislead, "Don't get yourself fooled")
						c.play(c.cfg.DecoySequence, func() {
							c.sched.Defer(tables.Ms(timing.PostPhaseMs), c.enterInput)
						})
					})
				})
			})
		})
	case tables.PlaybackFlashAll:
		if c.cfg.RoundNumber == 1 && timing.CountdownMs > 0 {
			c.setPhase(model.PhaseCountdown, "Get ready")
			c.sched.Defer(tables.Ms(timing.CountdownMs), c.flash)
			return
		}
		c.setPhase(model.PhaseIntro, fmt.Sprintf("Round %d", c.cfg.RoundNumber))
		c.sched.Defer(tables.Ms(timing.IntroMs), c.flash)
	default:
		c.setPhase(model.PhaseIntro, fmt.Sprintf("Round %d", c.cfg.RoundNumber))
		c.sched.Defer(tables.Ms(timing.IntroMs), c.enterInput)
	}
}

func (c *Controller) play(seq []model.ContentID, done func()) {
	highlight := tables.Ms(c.table.Timing.HighlightMs)
	if c.opts.Highlight > 0 {
		highlight = c.opts.Highlight
	}
	gap := tables.Ms(c.table.Timing.GapMs)
	if c.opts.Gap > 0 {
		gap = c.opts.Gap
	}
	c.sched.PlaySequence(scheduler.Playback{
		Steps:     scheduler.Repeat(seq, c.cfg.Repetitions),
		Highlight: highlight,
		Gap:       gap,
		OnVisible: func(_ int, id model.ContentID) {
			if i := c.tileOf(id); i >= 0 {
				c.phase.Tiles[i].Highlighted = true
				c.phase.Tiles[i].Revealed = true
			}
			c.playSound(c.pool.Sounds[id])
			c.render()
		},
		OnHidden: func(int, model.ContentID) {
			c.phase.ClearHighlights()
			c.render()
		},
		OnDone: done,
	})
}

// tileOf returns the first target tile holding id.
func (c *Controller) tileOf(id model.ContentID) int {
	for i, t := range c.cfg.Tiles {
		if !t.Decoy && t.Content == id {
			return i
		}
	}
	return -1
}

func (c *Controller) flash() {
	c.setPhase(model.PhaseFlash, "Remember the positions")
	for _, i := range c.cfg.TargetTiles() {
		c.phase.Tiles[i].Highlighted = true
		c.phase.Tiles[i].Revealed = true
	}
	c.render()
	c.sched.Defer(tables.Ms(c.table.Timing.FlashMs), func() {
		c.phase.ClearHighlights()
		c.enterInput()
	})
}

func (c *Controller) enterInput() {
	c.state = StateAwaitingInput
	if c.table.RevealOnInput {
		for i := range c.phase.Tiles {
			c.phase.Tiles[i].Revealed = true
		}
	}
	limit := c.cfg.TimeLimit
	if c.opts.Mode == model.ModeBattle {
		c.opponentAt = opponentFinish(c.src, c.cfg.TargetCount)
		if limit <= 0 || c.opponentAt < limit {
			limit = c.opponentAt
		}
	}
	c.countdown = c.sched.StartCountdown(limit, func() {
		c.resolve(model.OutcomeFailedTimeout, false)
	})
	c.setPhase(model.PhaseInput, "Your turn")
}

// OnTileClicked applies a tile selection. Clicks outside the input phase,
// after resolution or while a pair is being compared are ignored and
// reported as DuplicateIgnored.
func (c *Controller) OnTileClicked(tile int) validator.Outcome {
	if c.state == StateAwaitingInput {
		c.countdown.Check(c.loop.Now())
	}
	if c.state != StateAwaitingInput || c.phase.Resolved || c.phase.Locked {
		return validator.DuplicateIgnored
	}
	if c.cfg.Matching == model.MatchPairs {
		return c.flip(tile)
	}

	res := validator.HandleSelection(tile, c.cfg, &c.progress)
	switch res.Outcome {
	case validator.Accepted:
		c.mark(tile, model.FeedbackCorrect)
		if sound, ok := c.pool.Sounds[res.Content]; ok {
			c.playSound(sound)
		} else {
			c.playSound(SoundHit)
		}
	case validator.Mistake:
		c.mark(tile, model.FeedbackWrong)
		if res.Ends() {
			c.playSound(SoundFail)
		} else {
			c.playSound(SoundMiss)
		}
	default:
		return res.Outcome
	}
	if res.Ends() {
		c.resolve(res.End, res.Perfect)
	} else {
		c.render()
	}
	return res.Outcome
}

func (c *Controller) mark(tile int, fb model.Feedback) {
	t := &c.phase.Tiles[tile]
	t.Selected = true
	t.Revealed = true
	t.Feedback = fb
}

func (c *Controller) flip(tile int) validator.Outcome {
	first := c.progress.PendingTile
	res := validator.HandleFlip(tile, c.cfg, &c.progress, c.matched)
	if res.Outcome != validator.Pending {
		return res.Outcome
	}
	c.phase.Tiles[tile].Revealed = true
	c.phase.Tiles[tile].Selected = true
	if first >= 0 {
		c.phase.Locked = true
		c.sched.Defer(tables.Ms(c.table.Timing.CompareMs), func() {
			c.comparePair(first, tile)
		})
	}
	c.render()
	return res.Outcome
}

func (c *Controller) comparePair(first, second int) {
	c.phase.Locked = false
	res := validator.ResolvePair(second, c.cfg, &c.progress, c.matched)
	for _, i := range []int{first, second} {
		t := &c.phase.Tiles[i]
		t.Selected = false
		if res.Outcome == validator.Accepted {
			t.Matched = true
			t.Feedback = model.FeedbackCorrect
			continue
		}
		t.Revealed = false
	}
	if res.Outcome == validator.Accepted {
		c.playSound(SoundHit)
	} else {
		c.playSound(SoundMiss)
	}
	if res.Ends() {
		c.resolve(res.End, res.Perfect)
		return
	}
	c.render()
}

// resolve settles the current round exactly once.
func (c *Controller) resolve(outcome model.Outcome, perfect bool) {
	if c.phase.Resolved {
		c.doubles++
		return
	}
	c.phase.Resolved = true
	now := c.loop.Now()
	used := c.countdown.Elapsed(now)
	remaining := c.countdown.Remaining(now)
	if outcome == model.OutcomeFailedTimeout {
		used = c.countdown.Limit()
		remaining = 0
	}
	c.countdown.Stop()
	c.sched.Invalidate()

	points, opponent := c.rules.Settle(score.Round{
		Config:        c.cfg,
		Outcome:       outcome,
		Perfect:       perfect,
		Found:         c.progress.Found(),
		TimeUsed:      used,
		TimeRemaining: remaining,
	})
	c.totals.Score += points
	c.totals.OpponentScore += opponent
	c.history = append(c.history, model.RoundResult{
		RoundNumber:    c.cfg.RoundNumber,
		Points:         points,
		OpponentPoints: opponent,
		Perfect:        perfect && outcome == model.OutcomeCompleted,
		TimeUsed:       used,
		Outcome:        outcome,
		Found:          c.progress.Found(),
		TargetCount:    c.cfg.TargetCount,
	})
	if outcome.Failed() {
		c.playSound(SoundFail)
	} else {
		c.playSound(SoundFinish)
	}

	last := c.cfg.RoundNumber >= c.totals.MaxRounds || (outcome.Failed() && c.table.FailEndsGame)
	c.state = StateRoundResolved
	c.setPhase(model.PhaseResolved, resultMessage(c.opts.Mode, outcome, perfect, points))
	next := c.cfg.RoundNumber + 1
	c.sched.Defer(tables.Ms(c.table.Timing.ResolveMs), func() {
		if last {
			c.complete()
			return
		}
		if err := c.startRound(next); err != nil {
			c.complete()
		}
	})
}

func resultMessage(mode model.Mode, outcome model.Outcome, perfect bool, points int) string {
	switch outcome {
	case model.OutcomeCompleted:
		if mode == model.ModeBattle {
			return "You win the round!"
		}
		if perfect {
			return fmt.Sprintf("Perfect! +%d", points)
		}
		return fmt.Sprintf("Round complete +%d", points)
	case model.OutcomeFailedTimeout:
		if mode == model.ModeBattle {
			return "Too slow!"
		}
		return "Time's up!"
	case model.OutcomeFailedClickBudget:
		return "Out of clicks!"
	default:
		return "Wrong tile!"
	}
}

func (c *Controller) complete() {
	c.sched.Invalidate()
	c.state = StateGameComplete
	c.totals.GameComplete = true
	c.rank = c.board.Submit(c.opts.Mode, c.totals.Score, c.loop.Now())
	if p := c.opts.Persistence; p != nil {
		if err := p.SaveHighScores(c.ctx, c.board.Snapshot()); err != nil {
			c.logf("failed to save high scores: %v\n", err)
		}
		rec := model.SessionRecord{
			ID:            c.sessionID,
			Mode:          c.opts.Mode,
			StartedAt:     c.startedAt,
			EndedAt:       c.loop.Now(),
			Score:         c.totals.Score,
			OpponentScore: c.totals.OpponentScore,
			Rounds:        c.History(),
		}
		if err := p.SaveSession(c.ctx, rec); err != nil {
			c.logf("failed to save session: %v\n", err)
		}
	}
	c.setPhase(model.PhaseResolved, "Game over")
	c.nav.OnGameComplete(c.opts.Mode, c.totals.Score)
}

func (c *Controller) playSound(id string) {
	if id == "" {
		return
	}
	if err := c.audio.Play(id); err != nil {
		// Missing sounds are not fatal.
		_ = err
	}
}

func (c *Controller) render() {
	c.renderer.Render(c.Snapshot())
}
