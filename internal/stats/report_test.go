package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/memomu/internal/model"
	"github.com/verte-zerg/memomu/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "memomu.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		rec := model.SessionRecord{
			ID:        uuid.NewString(),
			Mode:      model.ModeClassic,
			StartedAt: start,
			EndedAt:   start.Add(30 * time.Second),
			Score:     10 * (i + 1),
			Rounds: []model.RoundResult{
				{RoundNumber: 1, Points: 10 * (i + 1), Perfect: i == 2, Outcome: model.OutcomeCompleted, Found: 6, TargetCount: 6},
			},
		}
		if err := st.SaveSession(ctx, rec); err != nil {
			t.Fatalf("save session: %v", err)
		}
		ids = append(ids, rec.ID)
	}
	if err := st.SaveHighScores(ctx, model.HighScores{model.ModeClassic: {{Score: 30, Timestamp: "x"}}}); err != nil {
		t.Fatalf("save scores: %v", err)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{Mode: model.ModeClassic, Last: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].ID != ids[1] || report.Sessions[1].ID != ids[2] {
		t.Fatalf("unexpected sessions: %+v", report.Sessions)
	}
	if len(report.Summaries) != 1 || report.Summaries[0].Games != 3 || report.Summaries[0].PerfectRounds != 1 {
		t.Fatalf("unexpected summaries: %+v", report.Summaries)
	}
	if report.LastGame.ID != ids[2] || len(report.LastGame.Rounds) != 1 || !report.LastGame.Rounds[0].Perfect {
		t.Fatalf("unexpected last game: %+v", report.LastGame)
	}
	if len(report.HighScores[model.ModeClassic]) != 1 {
		t.Fatalf("expected stored high scores in report")
	}
}
