package score

import (
	"testing"
	"time"

	"github.com/verte-zerg/memomu/internal/model"
)

func TestSettle(t *testing.T) {
	cases := []struct {
		name         string
		mode         model.Mode
		round        Round
		wantPoints   int
		wantOpponent int
	}{
		{
			name: "music perfect round one",
			mode: model.ModeMusic,
			round: Round{
				Config:  model.RoundConfig{RoundNumber: 1, TargetCount: 3},
				Outcome: model.OutcomeCompleted, Perfect: true, Found: 3,
			},
			wantPoints: 6,
		},
		{
			name: "music failed keeps partial credit",
			mode: model.ModeMusic,
			round: Round{
				Config:  model.RoundConfig{RoundNumber: 4, TargetCount: 5},
				Outcome: model.OutcomeFailedMistake, Found: 2,
			},
			wantPoints: 2,
		},
		{
			name: "memomu perfect pays round plus floor of time left",
			mode: model.ModeMemomu,
			round: Round{
				Config:  model.RoundConfig{RoundNumber: 4, TargetCount: 4},
				Outcome: model.OutcomeCompleted, Perfect: true, Found: 4,
				TimeRemaining: 7900 * time.Millisecond,
			},
			wantPoints: 11,
		},
		{
			name: "memomu imperfect completion pays nothing",
			mode: model.ModeMemomu,
			round: Round{
				Config:  model.RoundConfig{RoundNumber: 4, TargetCount: 4},
				Outcome: model.OutcomeCompleted, Found: 4,
				TimeRemaining: 5 * time.Second,
			},
			wantPoints: 0,
		},
		{
			name: "memomu timeout credits finds",
			mode: model.ModeMemomu,
			round: Round{
				Config:  model.RoundConfig{RoundNumber: 6, TargetCount: 6},
				Outcome: model.OutcomeFailedTimeout, Found: 3,
			},
			wantPoints: 3,
		},
		{
			name: "classic pairs plus multiplied time",
			mode: model.ModeClassic,
			round: Round{
				Config:   model.RoundConfig{RoundNumber: 3, TargetCount: 10, TimeLimit: 30 * time.Second},
				Outcome:  model.OutcomeCompleted, Perfect: false, Found: 10,
				TimeUsed: 20500 * time.Millisecond,
			},
			wantPoints: 10 + 28,
		},
		{
			name: "classic timeout has no time bonus",
			mode: model.ModeClassic,
			round: Round{
				Config:   model.RoundConfig{RoundNumber: 2, TargetCount: 8, TimeLimit: 30 * time.Second},
				Outcome:  model.OutcomeFailedTimeout, Found: 5,
				TimeUsed: 30 * time.Second,
			},
			wantPoints: 5,
		},
		{
			name: "battle first finish",
			mode: model.ModeBattle,
			round: Round{
				Config:  model.RoundConfig{RoundNumber: 1, TargetCount: 3},
				Outcome: model.OutcomeCompleted, Perfect: true, Found: 3,
			},
			wantPoints:   5,
			wantOpponent: 3,
		},
		{
			name: "battle mistake",
			mode: model.ModeBattle,
			round: Round{
				Config:  model.RoundConfig{RoundNumber: 2, TargetCount: 4},
				Outcome: model.OutcomeFailedMistake, Found: 1,
			},
			wantPoints:   1,
			wantOpponent: 5,
		},
		{
			name: "found is clamped to the target count",
			mode: model.ModeMonluck,
			round: Round{
				Config:  model.RoundConfig{RoundNumber: 1, TargetCount: 5},
				Outcome: model.OutcomeFailedTimeout, Found: 9,
			},
			wantPoints: 5,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			points, opponent := ForMode(tc.mode).Settle(tc.round)
			if points != tc.wantPoints || opponent != tc.wantOpponent {
				t.Fatalf("got %d/%d, want %d/%d", points, opponent, tc.wantPoints, tc.wantOpponent)
			}
		})
	}
}

func TestLiveNeverExceedsSettlement(t *testing.T) {
	for _, mode := range model.AllModes {
		rules := ForMode(mode)
		cfg := model.RoundConfig{RoundNumber: 3, TargetCount: 4, TimeLimit: 10 * time.Second}
		for found := 0; found <= cfg.TargetCount; found++ {
			for _, outcome := range []model.Outcome{model.OutcomeFailedMistake, model.OutcomeFailedTimeout} {
				settled, _ := rules.Settle(Round{Config: cfg, Outcome: outcome, Found: found, TimeUsed: cfg.TimeLimit})
				if settled < rules.Live(found) {
					t.Fatalf("%s: settlement %d below live %d", mode, settled, rules.Live(found))
				}
			}
		}
	}
}

func TestTimeBonus(t *testing.T) {
	if got := TimeBonus(30*time.Second, 40*time.Second, 5); got != 0 {
		t.Fatalf("overtime must pay 0, got %d", got)
	}
	if got := TimeBonus(30*time.Second, 27500*time.Millisecond, 2); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}
