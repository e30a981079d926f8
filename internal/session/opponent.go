package session

import (
	"time"

	"github.com/verte-zerg/memomu/internal/random"
)

// AvatarNames lists the battle avatars.
var AvatarNames = []string{
	"molandak", "moyaki", "lyraffe", "chog", "skrumpey", "spiky nad", "potato",
	"mouch", "lazy", "sloth", "bobr", "baba", "DAK",
}

// forfeit scores applied when the player quits a battle.
const (
	forfeitPlayer   = 0
	forfeitOpponent = 99
)

// Result of a finished battle.
const (
	BattleWin  = "win"
	BattleLose = "lose"
	BattleDraw = "draw"
)

// pickOpponent returns a random avatar different from player.
func pickOpponent(src *random.Source, player int) int {
	idx := src.Intn(len(AvatarNames) - 1)
	if idx >= player {
		idx++
	}
	return idx
}

// opponentFinish draws how long the opponent needs to find k avatars.
func opponentFinish(src *random.Source, k int) time.Duration {
	perTile := src.Float64()*0.6 + 0.5
	secs := perTile*float64(k) + src.Float64()
	return time.Duration(secs * float64(time.Second))
}

// BattleOutcome classifies final scores.
func BattleOutcome(player, opponent int) string {
	switch {
	case player > opponent:
		return BattleWin
	case player < opponent:
		return BattleLose
	default:
		return BattleDraw
	}
}
