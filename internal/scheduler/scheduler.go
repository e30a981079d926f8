package scheduler

import (
	"time"

	"github.com/verte-zerg/memomu/internal/model"
)

// Scheduler defers callbacks behind a generation token. Invalidate drops every
// callback scheduled before it; a dropped callback fires as a no-op.
type Scheduler struct {
	loop       *Loop
	generation uint64
	stale      int
}

// New returns a Scheduler on loop.
func New(loop *Loop) *Scheduler {
	return &Scheduler{loop: loop, generation: 1}
}

// Now returns the loop clock.
func (s *Scheduler) Now() time.Time {
	return s.loop.Now()
}

// Generation returns the current token.
func (s *Scheduler) Generation() uint64 {
	return s.generation
}

// Invalidate supersedes every outstanding callback.
func (s *Scheduler) Invalidate() {
	s.generation++
}

// Stale returns how many superseded callbacks have fired and been discarded.
func (s *Scheduler) Stale() int {
	return s.stale
}

// Defer runs fn after d unless the scheduler is invalidated first.
func (s *Scheduler) Defer(d time.Duration, fn func()) {
	gen := s.generation
	s.loop.After(d, func() {
		if gen != s.generation {
			s.stale++
			return
		}
		fn()
	})
}

// Repeat concatenates seq n times.
func Repeat(seq []model.ContentID, n int) []model.ContentID {
	out := make([]model.ContentID, 0, len(seq)*max(n, 0))
	for i := 0; i < n; i++ {
		out = append(out, seq...)
	}
	return out
}

// Playback describes one sequence to play.
type Playback struct {
	Steps     []model.ContentID
	Highlight time.Duration
	Gap       time.Duration
	OnVisible func(step int, id model.ContentID)
	OnHidden  func(step int, id model.ContentID)
	OnDone    func()
}

type stepStage int

const (
	stageShow stepStage = iota
	stageHide
	stageDone
)

// playback walks show -> hide -> next as named transitions.
type playback struct {
	s     *Scheduler
	p     Playback
	index int
	stage stepStage
}

// PlaySequence plays p step by step. Step N+1 is never shown before step N is hidden.
func (s *Scheduler) PlaySequence(p Playback) {
	pb := &playback{s: s, p: p}
	pb.run()
}

func (pb *playback) run() {
	switch pb.stage {
	case stageShow:
		if pb.index >= len(pb.p.Steps) {
			pb.stage = stageDone
			pb.run()
			return
		}
		if pb.p.OnVisible != nil {
			pb.p.OnVisible(pb.index, pb.p.Steps[pb.index])
		}
		pb.stage = stageHide
		pb.s.Defer(pb.p.Highlight, pb.run)
	case stageHide:
		if pb.p.OnHidden != nil {
			pb.p.OnHidden(pb.index, pb.p.Steps[pb.index])
		}
		pb.index++
		pb.stage = stageShow
		pb.s.Defer(pb.p.Gap, pb.run)
	case stageDone:
		if pb.p.OnDone != nil {
			pb.p.OnDone()
		}
	}
}

// Countdown is a phase time limit that fires at most once.
type Countdown struct {
	s        *Scheduler
	start    time.Time
	limit    time.Duration
	onExpire func()
	done     bool
	stopped  time.Time
}

// StartCountdown arms a countdown of limit. A zero limit never expires.
func (s *Scheduler) StartCountdown(limit time.Duration, onExpire func()) *Countdown {
	c := &Countdown{s: s, start: s.Now(), limit: limit, onExpire: onExpire}
	if limit > 0 {
		s.Defer(limit, c.expire)
	}
	return c
}

// Remaining returns the time left at now.
func (c *Countdown) Remaining(now time.Time) time.Duration {
	if c == nil || c.limit <= 0 {
		return 0
	}
	left := c.limit - c.until(now).Sub(c.start)
	if left < 0 {
		return 0
	}
	return left
}

// Elapsed returns time since the countdown started.
func (c *Countdown) Elapsed(now time.Time) time.Duration {
	if c == nil {
		return 0
	}
	return c.until(now).Sub(c.start)
}

// Limit returns the configured limit.
func (c *Countdown) Limit() time.Duration {
	if c == nil {
		return 0
	}
	return c.limit
}

// Check fires the countdown if its limit has passed at now.
func (c *Countdown) Check(now time.Time) {
	if c == nil || c.limit <= 0 {
		return
	}
	if now.Sub(c.start) >= c.limit {
		c.expire()
	}
}

// Stop disarms the countdown without firing it and freezes its clock.
func (c *Countdown) Stop() {
	if c != nil && !c.done {
		c.done = true
		c.stopped = c.s.Now()
	}
}

// until clamps now to the moment the countdown stopped.
func (c *Countdown) until(now time.Time) time.Time {
	if !c.stopped.IsZero() && c.stopped.Before(now) {
		return c.stopped
	}
	return now
}

func (c *Countdown) expire() {
	if c.done {
		return
	}
	c.done = true
	c.stopped = c.start.Add(c.limit)
	if c.onExpire != nil {
		c.onExpire()
	}
}
