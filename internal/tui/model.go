// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/memomu/internal/assets"
	"github.com/verte-zerg/memomu/internal/model"
	"github.com/verte-zerg/memomu/internal/random"
	"github.com/verte-zerg/memomu/internal/scheduler"
	"github.com/verte-zerg/memomu/internal/score"
	"github.com/verte-zerg/memomu/internal/session"
	"github.com/verte-zerg/memomu/internal/store"
	"github.com/verte-zerg/memomu/internal/tables"
)

// frameInterval is how often the session loop is advanced.
const frameInterval = 50 * time.Millisecond

type screen int

const (
	screenMenu screen = iota
	screenRules
	screenGame
	screenScores
)

type tickMsg time.Time

// Options configures the game UI.
type Options struct {
	Tables    tables.Tables
	Store     *store.Store
	Seed      int64
	Audio     *assets.Audio
	Highlight time.Duration
	Gap       time.Duration
	// Avatar is the battle avatar index; negative picks one per game.
	Avatar int
	// Mode starts a game right away when set.
	Mode model.Mode
}

// Model implements the Bubble Tea game UI.
type Model struct {
	opts  Options
	src   *random.Source
	board *score.Board
	keys  keyMap
	help  help.Model

	screen    screen
	menuIndex int
	mode      model.Mode

	ctrl    *session.Controller
	snap    session.Snapshot
	cursor  int
	ticking bool
	errMsg  string

	rules      viewport.Model
	scores     table.Model
	scoreIndex int

	width  int
	height int
}

// NewModel constructs the game UI and loads the high-score board.
func NewModel(opts Options) *Model {
	m := &Model{
		opts:   opts,
		src:    random.New(opts.Seed),
		keys:   defaultKeys(),
		help:   help.New(),
		rules:  viewport.New(0, 0),
		scores: newScoreTable(),
	}
	m.board = session.LoadBoard(context.Background(), m.persistence(), logErrf)
	if opts.Mode != "" {
		for i, mode := range model.AllModes {
			if mode == opts.Mode {
				m.menuIndex = i
			}
		}
	}
	return m
}

// persistence returns the store as a session collaborator, or nil.
func (m *Model) persistence() session.Persistence {
	if m.opts.Store == nil {
		return nil
	}
	return m.opts.Store
}

func (m *Model) audio() session.Audio {
	if m.opts.Audio == nil {
		return nil
	}
	return m.opts.Audio
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.opts.Mode != "" {
		return m.startGame(m.opts.Mode)
	}
	return nil
}

// Render implements session.Renderer.
func (m *Model) Render(s session.Snapshot) {
	m.snap = s
}

// OnRoundAdvance implements session.Navigator.
func (m *Model) OnRoundAdvance(model.Mode, int) {
	if m.cursor >= len(m.snap.Tiles) {
		m.cursor = 0
	}
}

// OnGameComplete implements session.Navigator.
func (m *Model) OnGameComplete(mode model.Mode, finalScore int) {
	m.refreshScores()
}

// OnQuit implements session.Navigator.
func (m *Model) OnQuit(model.Mode) {
	m.screen = screenMenu
	m.ticking = false
}

func (m *Model) startGame(mode model.Mode) tea.Cmd {
	mt, ok := m.opts.Tables[mode]
	if !ok {
		m.errMsg = fmt.Sprintf("no table for mode %s", mode)
		return nil
	}
	ctrl, err := session.New(session.Options{
		Mode:        mode,
		Table:       mt,
		Source:      m.src,
		Loop:        scheduler.NewLoop(time.Now()),
		Board:       m.board,
		Renderer:    m,
		Audio:       m.audio(),
		Persistence: m.persistence(),
		Navigator:   m,
		Logf:        logErrf,
		Highlight:   m.opts.Highlight,
		Gap:         m.opts.Gap,
		Avatar:      m.opts.Avatar,
	})
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.ctrl = ctrl
	m.mode = mode
	m.cursor = 0
	m.errMsg = ""
	if err := ctrl.Start(); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.screen = screenGame
	return m.ensureTicking()
}

func (m *Model) ensureTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.rules.Width = msg.Width
		m.rules.Height = max(1, msg.Height-4)
		m.scores.SetHeight(max(3, msg.Height-6))
		return m, nil
	case tickMsg:
		if m.screen != screenGame || m.ctrl == nil {
			m.ticking = false
			return m, nil
		}
		m.ctrl.Tick(time.Time(msg))
		m.snap = m.ctrl.Snapshot()
		return m, tick()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			if m.ctrl != nil && m.screen == screenGame && !m.snap.GameComplete {
				m.ctrl.Quit()
			}
			return m, tea.Quit
		}
		switch m.screen {
		case screenMenu:
			return m.updateMenu(msg)
		case screenRules:
			return m.updateRules(msg)
		case screenScores:
			return m.updateScores(msg)
		default:
			return m.updateGame(msg)
		}
	}
	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.menuIndex = (m.menuIndex + len(model.AllModes) - 1) % len(model.AllModes)
	case key.Matches(msg, m.keys.Down):
		m.menuIndex = (m.menuIndex + 1) % len(model.AllModes)
	case key.Matches(msg, m.keys.Select):
		return m, m.startGame(model.AllModes[m.menuIndex])
	case key.Matches(msg, m.keys.Rules):
		m.mode = model.AllModes[m.menuIndex]
		m.rules.SetContent(rulesText(m.mode, m.opts.Tables[m.mode]))
		m.rules.GotoTop()
		m.screen = screenRules
	case key.Matches(msg, m.keys.Scores):
		m.scoreIndex = m.menuIndex
		m.refreshScores()
		m.scores.Focus()
		m.screen = screenScores
	case key.Matches(msg, m.keys.Mute):
		m.toggleSound()
	case key.Matches(msg, m.keys.Back):
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) updateRules(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		return m, m.startGame(m.mode)
	case key.Matches(msg, m.keys.Back):
		m.screen = screenMenu
		return m, nil
	}
	var cmd tea.Cmd
	m.rules, cmd = m.rules.Update(msg)
	return m, cmd
}

func (m *Model) updateScores(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.scoreIndex = (m.scoreIndex + len(model.AllModes) - 1) % len(model.AllModes)
		m.refreshScores()
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.scoreIndex = (m.scoreIndex + 1) % len(model.AllModes)
		m.refreshScores()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.scores.Blur()
		m.screen = screenMenu
		return m, nil
	}
	var cmd tea.Cmd
	m.scores, cmd = m.scores.Update(msg)
	return m, cmd
}

func (m *Model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl == nil {
		m.screen = screenMenu
		return m, nil
	}
	if m.snap.GameComplete {
		switch {
		case key.Matches(msg, m.keys.Restart):
			if err := m.ctrl.Restart(); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.cursor = 0
			return m, m.ensureTicking()
		case key.Matches(msg, m.keys.Menu), key.Matches(msg, m.keys.Back):
			m.screen = screenMenu
			m.ticking = false
		}
		return m, nil
	}
	cols := max(1, m.snap.Grid.Cols)
	tiles := len(m.snap.Tiles)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor = moveCursor(m.cursor, -cols, tiles)
	case key.Matches(msg, m.keys.Down):
		m.cursor = moveCursor(m.cursor, cols, tiles)
	case key.Matches(msg, m.keys.Left):
		m.cursor = moveCursor(m.cursor, -1, tiles)
	case key.Matches(msg, m.keys.Right):
		m.cursor = moveCursor(m.cursor, 1, tiles)
	case key.Matches(msg, m.keys.Select):
		m.ctrl.OnTileClicked(m.cursor)
	case key.Matches(msg, m.keys.Mute):
		m.toggleSound()
	case key.Matches(msg, m.keys.Back):
		m.ctrl.Quit()
		return m, nil
	}
	m.snap = m.ctrl.Snapshot()
	return m, nil
}

// moveCursor steps within [0, n) and stays put at the edges.
func moveCursor(cur, delta, n int) int {
	next := cur + delta
	if next < 0 || next >= n {
		return cur
	}
	return next
}

func (m *Model) toggleSound() {
	if m.opts.Audio != nil {
		m.opts.Audio.SetMuted(!m.opts.Audio.Muted())
	}
}

func (m *Model) refreshScores() {
	mode := model.AllModes[m.scoreIndex%len(model.AllModes)]
	m.scores.SetRows(scoreRows(m.board.List(mode)))
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.screen {
	case screenRules:
		body = m.viewRules()
	case screenScores:
		body = m.viewScores()
	case screenGame:
		body = m.viewGame()
	default:
		body = m.viewMenu()
	}
	footer := footerStyle.Render(m.help.View(m.footerKeys()))
	if m.errMsg != "" {
		footer = errorStyle.Render(m.errMsg) + "\n" + footer
	}
	return place(m.width, m.height, body, footer)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
