package tui

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/memomu/internal/model"
	"github.com/verte-zerg/memomu/internal/tables"
)

var modeRules = map[model.Mode][]string{
	model.ModeMusic: {
		"Watch the tiles light up and listen to their notes.",
		"A second, misleading sequence follows. Ignore it.",
		"Repeat the first sequence in order.",
		"Each correct tile scores 1. A perfect round adds the sequence length.",
		"One wrong tile ends the game.",
	},
	model.ModeClassic: {
		"Flip two tiles at a time to find matching pairs.",
		"Each pair scores 1.",
		"Time left at the end of a round is multiplied by the round number.",
	},
	model.ModeMemomu: {
		"Memorize the flashed tiles. Some content appears more than once.",
		"Find every target within the click budget and time limit.",
		"A perfect round pays the round number plus the seconds left.",
		"A failed round pays one point per find. Running out of clicks ends the game.",
	},
	model.ModeMonluck: {
		"Five monads hide on the board. Find them all.",
		"Each monad scores 1.",
	},
	model.ModeBattle: {
		"You and a rival race to find your avatar on the board.",
		"Each find scores 1. Finishing first adds 2.",
		"The rival scores by finding theirs; a failed round gives them one extra.",
		"Quitting forfeits the battle.",
	},
}

// rulesText describes mode and its table for the rules screen.
func rulesText(mode model.Mode, t tables.ModeTable) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(mode.Title()))
	b.WriteString("\n\n")
	for _, line := range modeRules[mode] {
		b.WriteString("• " + line + "\n")
	}
	if t.MaxRounds > 0 {
		fmt.Fprintf(&b, "\n%d rounds\n", t.MaxRounds)
	}
	if t.MaxMistakes > 0 {
		fmt.Fprintf(&b, "%d mistakes allowed per round\n", t.MaxMistakes)
	}
	for _, band := range t.Rounds {
		fmt.Fprintf(&b, "%s\n", mutedStyle.Render(bandLine(band)))
	}
	return b.String()
}

func bandLine(band tables.Band) string {
	parts := []string{fmt.Sprintf("rounds %d-%d", band.From, band.To)}
	if band.Tier != "" {
		parts = append(parts, band.Tier)
	}
	if band.Targets > 0 {
		parts = append(parts, fmt.Sprintf("%d targets", band.Targets))
	}
	if band.TimeLimitSeconds > 0 {
		parts = append(parts, fmt.Sprintf("%.0fs", band.TimeLimitSeconds))
	}
	if band.ClickBudgetExtra > 0 {
		parts = append(parts, fmt.Sprintf("+%d clicks", band.ClickBudgetExtra))
	}
	return strings.Join(parts, ", ")
}

func (m *Model) viewRules() string {
	return m.rules.View()
}
