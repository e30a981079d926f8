package stats

import (
	"context"

	"github.com/verte-zerg/memomu/internal/model"
	"github.com/verte-zerg/memomu/internal/store"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Sessions   []model.SessionRecord
	Summaries  []model.ModeSummary
	HighScores model.HighScores
	// LastGame is the newest selected session with its rounds.
	LastGame model.SessionRecord
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	filter := store.Filter{Mode: cfg.Mode, Since: cfg.Since}
	sessions, err := st.ListSessions(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	sums, err := st.Summaries(ctx, filter)
	if err != nil {
		return Report{}, err
	}
	scores, err := st.LoadHighScores(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		Sessions:   sessions,
		Summaries:  sums,
		HighScores: scores,
	}
	if len(sessions) > 0 {
		last := sessions[len(sessions)-1]
		rounds, err := st.ListRounds(ctx, last.ID)
		if err != nil {
			return Report{}, err
		}
		last.Rounds = rounds
		report.LastGame = last
	}
	return report, nil
}
