// Package validator classifies tile selections against a round's target.
package validator

import "github.com/verte-zerg/memomu/internal/model"

// Outcome classifies one selection.
type Outcome string

// Selection outcomes.
const (
	Accepted         Outcome = "accepted"
	Mistake          Outcome = "mistake"
	DuplicateIgnored Outcome = "duplicate-ignored"
	Pending          Outcome = "pending"
)

// Result is the effect of one selection on the round.
type Result struct {
	Outcome Outcome
	Tile    int
	Content model.ContentID
	// End is set when the selection resolves the round.
	End     model.Outcome
	Perfect bool
}

// Ends reports whether the selection resolved the round.
func (r Result) Ends() bool {
	return r.End != ""
}

// HandleSelection applies a tile selection to progress for ordered and
// unordered rounds. Pair rounds use HandleFlip.
func HandleSelection(tile int, cfg model.RoundConfig, p *model.InputProgress) Result {
	if tile < 0 || tile >= len(cfg.Tiles) || p.Selected[tile] {
		return Result{Outcome: DuplicateIgnored, Tile: tile}
	}
	if p.Selected == nil {
		p.Selected = map[int]bool{}
	}
	p.Selected[tile] = true
	p.ClicksUsed++
	content := cfg.Tiles[tile].Content

	ok := !cfg.Tiles[tile].Decoy
	if ok && cfg.Matching == model.MatchOrdered {
		next := len(p.Accepted)
		ok = next < len(cfg.TargetSequence) && cfg.TargetSequence[next] == content
	}

	res := Result{Tile: tile, Content: content}
	if ok {
		p.Accepted = append(p.Accepted, content)
		p.AcceptedIdx = append(p.AcceptedIdx, tile)
		res.Outcome = Accepted
		if len(p.Accepted) == cfg.TargetCount {
			res.End = model.OutcomeCompleted
			res.Perfect = isPerfect(cfg, p)
			return res
		}
	} else {
		p.MistakeCount++
		res.Outcome = Mistake
		if mistakeEnds(cfg.Policy, p) {
			res.End = model.OutcomeFailedMistake
			return res
		}
	}
	if p.ClickBudget > 0 && p.ClicksUsed >= p.ClickBudget {
		res.End = model.OutcomeFailedClickBudget
	}
	return res
}

func mistakeEnds(policy model.MistakePolicy, p *model.InputProgress) bool {
	switch policy.Kind {
	case model.PolicyStrict:
		return true
	case model.PolicyBudgeted:
		return policy.MaxMistakes > 0 && p.MistakeCount > policy.MaxMistakes
	default:
		return true
	}
}

func isPerfect(cfg model.RoundConfig, p *model.InputProgress) bool {
	if p.MistakeCount > 0 {
		return false
	}
	if cfg.Policy.Kind == model.PolicyBudgeted && cfg.ClickBudget > 0 {
		return p.ClicksUsed == cfg.TargetCount
	}
	return true
}

// HandleFlip applies a tile flip in a pair round. The first flip of an attempt
// is Pending; the second returns Pending with the pair to compare, and the
// caller settles it with ResolvePair after the compare delay.
func HandleFlip(tile int, cfg model.RoundConfig, p *model.InputProgress, matched []bool) Result {
	if tile < 0 || tile >= len(cfg.Tiles) || p.Selected[tile] || (tile < len(matched) && matched[tile]) {
		return Result{Outcome: DuplicateIgnored, Tile: tile}
	}
	if p.Selected == nil {
		p.Selected = map[int]bool{}
	}
	p.Selected[tile] = true
	p.ClicksUsed++
	res := Result{Outcome: Pending, Tile: tile, Content: cfg.Tiles[tile].Content}
	if p.PendingTile < 0 {
		p.PendingTile = tile
		return res
	}
	p.Attempts++
	return res
}

// ResolvePair settles the attempt between the pending tile and second.
// A match marks both tiles matched; a miss unselects both.
func ResolvePair(second int, cfg model.RoundConfig, p *model.InputProgress, matched []bool) Result {
	first := p.PendingTile
	p.PendingTile = -1
	delete(p.Selected, first)
	delete(p.Selected, second)

	a, b := cfg.Tiles[first], cfg.Tiles[second]
	if !a.Decoy && !b.Decoy && a.Content == b.Content {
		matched[first] = true
		matched[second] = true
		p.Accepted = append(p.Accepted, a.Content)
		p.AcceptedIdx = append(p.AcceptedIdx, first, second)
		res := Result{Outcome: Accepted, Tile: second, Content: a.Content}
		if len(p.Accepted) >= cfg.TargetCount {
			res.End = model.OutcomeCompleted
			res.Perfect = p.MistakeCount == 0
		}
		return res
	}
	p.MistakeCount++
	res := Result{Outcome: Mistake, Tile: second, Content: b.Content}
	if mistakeEnds(cfg.Policy, p) {
		res.End = model.OutcomeFailedMistake
	}
	return res
}
