package session

import (
	"context"
	"fmt"
	"os"

	"github.com/verte-zerg/memomu/internal/model"
	"github.com/verte-zerg/memomu/internal/score"
)

// Renderer consumes snapshots; it never mutates the session.
type Renderer interface {
	Render(Snapshot)
}

// Audio plays a sound by id. Unknown ids return model.ErrMissingAsset.
type Audio interface {
	Play(id string) error
}

// Persistence loads and saves high scores and finished sessions.
type Persistence interface {
	LoadHighScores(ctx context.Context) (model.HighScores, error)
	SaveHighScores(ctx context.Context, scores model.HighScores) error
	SaveSession(ctx context.Context, rec model.SessionRecord) error
}

// Navigator receives the signals that leave the session machine.
type Navigator interface {
	OnRoundAdvance(mode model.Mode, round int)
	OnGameComplete(mode model.Mode, finalScore int)
	OnQuit(mode model.Mode)
}

// LoadBoard reads high scores through p. A failure is logged and yields empty lists.
func LoadBoard(ctx context.Context, p Persistence, logf func(string, ...any)) *score.Board {
	if p == nil {
		return score.NewBoard(nil)
	}
	loaded, err := p.LoadHighScores(ctx)
	if err != nil {
		if logf != nil {
			logf("failed to load high scores: %v\n", err)
		}
		return score.NewBoard(nil)
	}
	return score.NewBoard(loaded)
}

type nopRenderer struct{}

func (nopRenderer) Render(Snapshot) {}

type nopAudio struct{}

func (nopAudio) Play(string) error { return nil }

type nopNavigator struct{}

func (nopNavigator) OnRoundAdvance(model.Mode, int) {}
func (nopNavigator) OnGameComplete(model.Mode, int) {}
func (nopNavigator) OnQuit(model.Mode)              {}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
