// Package score computes round points and keeps the high-score board.
package score

import (
	"math"
	"time"

	"github.com/verte-zerg/memomu/internal/model"
)

// Bonus selects the bonus paid for a perfect completion.
type Bonus int

// Bonus kinds.
const (
	BonusNone Bonus = iota
	// BonusTargetCount pays targetCount.
	BonusTargetCount
	// BonusRoundPlusTime pays roundNumber + floor(timeRemaining).
	BonusRoundPlusTime
	// BonusFirstFinish pays a flat 2 for finishing before the opponent.
	BonusFirstFinish
)

// Rules is the scoring table of one mode.
type Rules struct {
	// Base is paid per correct find, live and at settlement.
	Base int
	// Bonus is paid on perfect completion.
	Bonus Bonus
	// TimeMultiplied pays floor(max(0, limit-used) * round) on any outcome.
	TimeMultiplied bool
	// FailCredit pays one point per find on a failed round even when Base is 0.
	FailCredit bool
	// Opponent enables opponent points.
	Opponent bool
}

// ForMode returns the scoring table of mode.
func ForMode(mode model.Mode) Rules {
	switch mode {
	case model.ModeMusic:
		return Rules{Base: 1, Bonus: BonusTargetCount, FailCredit: true}
	case model.ModeClassic:
		return Rules{Base: 1, TimeMultiplied: true, FailCredit: true}
	case model.ModeMemomu:
		return Rules{Bonus: BonusRoundPlusTime, FailCredit: true}
	case model.ModeMonluck:
		return Rules{Base: 1, FailCredit: true}
	case model.ModeBattle:
		return Rules{Base: 1, Bonus: BonusFirstFinish, FailCredit: true, Opponent: true}
	default:
		return Rules{Base: 1, FailCredit: true}
	}
}

// Round carries what settlement needs to know about a resolved round.
type Round struct {
	Config        model.RoundConfig
	Outcome       model.Outcome
	Perfect       bool
	Found         int
	TimeUsed      time.Duration
	TimeRemaining time.Duration
}

// Live returns the points shown while a round is still running.
func (r Rules) Live(found int) int {
	return r.Base * found
}

// Settle returns the player's and the opponent's points for a round.
func (r Rules) Settle(rd Round) (int, int) {
	found := min(max(rd.Found, 0), rd.Config.TargetCount)
	points := r.Base * found
	if rd.Outcome.Failed() && r.FailCredit {
		points = found
	}
	if rd.Outcome == model.OutcomeCompleted && rd.Perfect {
		points += r.bonus(rd)
	}
	if r.TimeMultiplied {
		points += TimeBonus(rd.Config.TimeLimit, rd.TimeUsed, rd.Config.RoundNumber)
	}

	opponent := 0
	if r.Opponent {
		opponent = rd.Config.TargetCount
		if rd.Outcome.Failed() {
			opponent++
		}
	}
	return max(points, 0), opponent
}

func (r Rules) bonus(rd Round) int {
	switch r.Bonus {
	case BonusTargetCount:
		return rd.Config.TargetCount
	case BonusRoundPlusTime:
		return rd.Config.RoundNumber + int(math.Floor(rd.TimeRemaining.Seconds()))
	case BonusFirstFinish:
		return 2
	default:
		return 0
	}
}

// TimeBonus returns floor(max(0, limit-used) * multiplier).
func TimeBonus(limit, used time.Duration, multiplier int) int {
	left := (limit - used).Seconds()
	if left <= 0 {
		return 0
	}
	return int(math.Floor(left * float64(multiplier)))
}
