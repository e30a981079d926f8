package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/memomu/internal/assets"
	"github.com/verte-zerg/memomu/internal/model"
	"github.com/verte-zerg/memomu/internal/session"
	"github.com/verte-zerg/memomu/internal/tables"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	tbl, err := tables.Default()
	if err != nil {
		t.Fatalf("default tables: %v", err)
	}
	return NewModel(Options{
		Tables: tbl,
		Seed:   3,
		Audio:  assets.NewAudio(&bytes.Buffer{}, true),
		Avatar: -1,
	})
}

func press(m *Model, msg tea.KeyMsg) {
	m.Update(msg)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMoveCursor(t *testing.T) {
	tests := []struct {
		name             string
		cur, delta, size int
		want             int
	}{
		{name: "right", cur: 0, delta: 1, size: 9, want: 1},
		{name: "down", cur: 1, delta: 3, size: 9, want: 4},
		{name: "top edge", cur: 1, delta: -3, size: 9, want: 1},
		{name: "bottom edge", cur: 7, delta: 3, size: 9, want: 7},
		{name: "left edge", cur: 0, delta: -1, size: 9, want: 0},
		{name: "empty", cur: 0, delta: 1, size: 0, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := moveCursor(tc.cur, tc.delta, tc.size); got != tc.want {
				t.Fatalf("moveCursor(%d, %d, %d) = %d, want %d", tc.cur, tc.delta, tc.size, got, tc.want)
			}
		})
	}
}

func helpKeys(h helpFor) []string {
	out := make([]string, 0, len(h.short))
	for _, b := range h.short {
		out = append(out, b.Help().Key)
	}
	return out
}

func TestFooterKeysPerScreen(t *testing.T) {
	m := newTestModel(t)
	if diff := cmp.Diff([]string{"↑/k", "↓/j", "enter", "?", "s", "v", "esc"}, helpKeys(m.footerKeys())); diff != "" {
		t.Fatalf("menu keys mismatch (-want +got):\n%s", diff)
	}
	m.screen = screenGame
	m.snap = session.Snapshot{GameComplete: true}
	if diff := cmp.Diff([]string{"r", "m"}, helpKeys(m.footerKeys())); diff != "" {
		t.Fatalf("game over keys mismatch (-want +got):\n%s", diff)
	}
}

func TestMenuNavigationStartsGame(t *testing.T) {
	m := newTestModel(t)
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	if m.menuIndex != 2 {
		t.Fatalf("expected menu index 2, got %d", m.menuIndex)
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenGame {
		t.Fatalf("expected game screen, got %v (err %q)", m.screen, m.errMsg)
	}
	if m.ctrl.Mode() != model.ModeMemomu {
		t.Fatalf("expected memomu game, got %s", m.ctrl.Mode())
	}
	if !m.ticking {
		t.Fatalf("expected frame ticks to be scheduled")
	}

	m.Update(tickMsg(time.Now().Add(time.Second)))
	if m.snap.Mode != model.ModeMemomu || m.snap.Round != 1 {
		t.Fatalf("unexpected snapshot after tick: mode %s round %d", m.snap.Mode, m.snap.Round)
	}
	if !strings.Contains(m.View(), "MEMOMU Memory") {
		t.Fatalf("expected mode title in view")
	}

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenMenu {
		t.Fatalf("expected menu after quitting, got %v", m.screen)
	}
	if m.ctrl.State() != session.StateIdle {
		t.Fatalf("expected idle controller, got %v", m.ctrl.State())
	}
}

func TestRulesAndScoresScreens(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	press(m, runes("?"))
	if m.screen != screenRules {
		t.Fatalf("expected rules screen, got %v", m.screen)
	}
	if !strings.Contains(m.View(), "Music Memory") {
		t.Fatalf("expected rules to name the mode")
	}
	press(m, tea.KeyMsg{Type: tea.KeyEsc})

	m.board.Submit(model.ModeClassic, 17, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	press(m, runes("s"))
	if m.screen != screenScores {
		t.Fatalf("expected scores screen, got %v", m.screen)
	}
	if len(m.scores.Rows()) != 0 {
		t.Fatalf("expected no music scores, got %v", m.scores.Rows())
	}
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	rows := m.scores.Rows()
	if len(rows) != 1 || rows[0][1] != "17" {
		t.Fatalf("unexpected classic rows: %v", rows)
	}
}

func TestMuteToggle(t *testing.T) {
	m := newTestModel(t)
	press(m, runes("v"))
	if m.opts.Audio.Muted() {
		t.Fatalf("expected sound on after toggle")
	}
	if !strings.Contains(m.viewMenu(), "sound on") {
		t.Fatalf("expected menu to show sound on")
	}
}

func TestStatusLine(t *testing.T) {
	s := session.Snapshot{
		Mode:          model.ModeBattle,
		Round:         2,
		MaxRounds:     10,
		Score:         5,
		OpponentScore: 4,
		Opponent:      "chog",
		TargetCount:   3,
		Found:         1,
		TimeLimit:     5 * time.Second,
		TimeRemaining: 2500 * time.Millisecond,
	}
	line := statusLine(s)
	for _, want := range []string{"Battle", "2/10", "chog", "found 1/3", "time 2.5s"} {
		if !strings.Contains(line, want) {
			t.Fatalf("status line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "clicks") {
		t.Fatalf("status line %q should not show clicks without a budget", line)
	}
}

func TestTileFace(t *testing.T) {
	_, face := tileFace(session.TileView{Content: "img1"}, "")
	if face != hiddenFace {
		t.Fatalf("expected hidden face, got %q", face)
	}
	style, face := tileFace(session.TileView{Content: "img1", Flags: model.TileFlags{Highlighted: true}}, "")
	if strings.TrimSpace(face) != "♠" {
		t.Fatalf("expected glyph, got %q", face)
	}
	if style.GetBorderTopForeground() != highlightedTile.GetBorderTopForeground() {
		t.Fatalf("expected highlighted style")
	}
	style, _ = tileFace(session.TileView{Content: "img1", Flags: model.TileFlags{Revealed: true, Feedback: model.FeedbackWrong}}, "")
	if style.GetBorderTopForeground() != wrongTile.GetBorderTopForeground() {
		t.Fatalf("expected wrong style")
	}
	_, face = tileFace(session.TileView{Content: "avatar", Flags: model.TileFlags{Revealed: true}}, "spiky nad")
	if face != "spiky" {
		t.Fatalf("expected truncated player name, got %q", face)
	}
}

func TestQuitKeyQuitsProgram(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyCtrlC}, m.keys.Quit) {
		t.Fatalf("ctrl+c should match quit binding")
	}
}
