package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/memomu/internal/assets"
	"github.com/verte-zerg/memomu/internal/model"
	"github.com/verte-zerg/memomu/internal/session"
)

const (
	cellWidth  = 5
	hiddenFace = "  ·  "
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7AC6")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	menuActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF7AC6")).Bold(true)
	menuInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))

	tileStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Foreground(lipgloss.Color("#F0F0F0"))
	hiddenTile      = tileStyle.Foreground(lipgloss.Color("#4A4A4A"))
	highlightedTile = tileStyle.BorderForeground(lipgloss.Color("#FFD166")).Foreground(lipgloss.Color("#FFD166"))
	correctTile     = tileStyle.BorderForeground(lipgloss.Color("#52C41A"))
	wrongTile       = tileStyle.BorderForeground(lipgloss.Color("#FF4D4F"))
	matchedTile     = tileStyle.BorderForeground(lipgloss.Color("#8C8C8C")).Foreground(lipgloss.Color("#8C8C8C"))
	cursorBorder    = lipgloss.Color("#FF7AC6")

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#FF7AC6")).
			Padding(0, 2)
)

// place centers body on the screen and pins footer to the last line.
func place(width, height int, body, footer string) string {
	if width == 0 || height == 0 {
		return body + "\n" + footer
	}
	footerHeight := lipgloss.Height(footer)
	if height <= footerHeight+1 {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
	}
	top := lipgloss.Place(width, height-footerHeight, lipgloss.Center, lipgloss.Center, body)
	bottom := lipgloss.Place(width, footerHeight, lipgloss.Center, lipgloss.Center, footer)
	return top + "\n" + bottom
}

func (m *Model) viewMenu() string {
	lines := []string{titleStyle.Render("MEMOMU"), ""}
	for i, mode := range model.AllModes {
		label := "  " + mode.Title()
		style := menuInactive
		if i == m.menuIndex {
			label = "› " + mode.Title()
			style = menuActive
		}
		line := style.Render(label)
		if top := m.board.Top(mode); top > 0 {
			line += mutedStyle.Render(fmt.Sprintf("  best %d", top))
		}
		lines = append(lines, line)
	}
	sound := "on"
	if m.opts.Audio == nil || m.opts.Audio.Muted() {
		sound = "off"
	}
	lines = append(lines, "", mutedStyle.Render("sound "+sound))
	return strings.Join(lines, "\n")
}

func (m *Model) viewGame() string {
	if m.ctrl == nil {
		return ""
	}
	s := m.snap
	parts := []string{
		statusLine(s),
		mutedStyle.Render(phaseLine(s)),
		"",
		m.renderGrid(),
	}
	body := strings.Join(parts, "\n")
	if s.GameComplete {
		return lipgloss.JoinVertical(lipgloss.Center, body, "", m.renderOverlay())
	}
	return body
}

// statusLine summarizes round, score and the mode's limits.
func statusLine(s session.Snapshot) string {
	fields := []string{
		titleStyle.Render(s.Mode.Title()),
		fmt.Sprintf("round %s", valueStyle.Render(fmt.Sprintf("%d/%d", s.Round, s.MaxRounds))),
		fmt.Sprintf("score %s", valueStyle.Render(fmt.Sprintf("%d", s.Score))),
	}
	if s.Mode == model.ModeBattle {
		fields = append(fields, fmt.Sprintf("%s %s", s.Opponent, valueStyle.Render(fmt.Sprintf("%d", s.OpponentScore))))
	}
	if s.TopScore > 0 {
		fields = append(fields, fmt.Sprintf("best %d", s.TopScore))
	}
	if s.TargetCount > 0 {
		fields = append(fields, fmt.Sprintf("found %d/%d", s.Found, s.TargetCount))
	}
	if s.ClickBudget > 0 {
		fields = append(fields, fmt.Sprintf("clicks %d/%d", s.ClicksUsed, s.ClickBudget))
	}
	if s.TimeLimit > 0 {
		fields = append(fields, fmt.Sprintf("time %s", formatSeconds(s.TimeRemaining)))
	}
	return strings.Join(fields, "  ")
}

func phaseLine(s session.Snapshot) string {
	if s.Message != "" {
		return s.Message
	}
	if s.Tier != "" {
		return s.Tier
	}
	return string(s.Phase)
}

func formatSeconds(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func (m *Model) renderGrid() string {
	s := m.snap
	cols := max(1, s.Grid.Cols)
	rows := make([]string, 0, s.Grid.Rows)
	for start := 0; start < len(s.Tiles); start += cols {
		end := min(start+cols, len(s.Tiles))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, m.renderTile(i, s.Tiles[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderTile(i int, t session.TileView) string {
	style, face := tileFace(t, m.snap.Player)
	if i == m.cursor && !m.snap.GameComplete {
		style = style.BorderForeground(cursorBorder)
	}
	return style.Render(face)
}

// tileFace picks the style and text of a tile. Hidden tiles show a dot.
func tileFace(t session.TileView, player string) (lipgloss.Style, string) {
	if !t.Visible() {
		return hiddenTile, hiddenFace
	}
	face := assets.Cell(t.Content, cellWidth)
	if t.Content == "avatar" && player != "" {
		face = runewidth.FillRight(runewidth.Truncate(player, cellWidth, ""), cellWidth)
	}
	switch {
	case t.Flags.Feedback == model.FeedbackWrong:
		return wrongTile, face
	case t.Flags.Feedback == model.FeedbackCorrect:
		return correctTile, face
	case t.Flags.Highlighted:
		return highlightedTile, face
	case t.Flags.Matched:
		return matchedTile, face
	default:
		return tileStyle, face
	}
}

func (m *Model) renderOverlay() string {
	s := m.snap
	lines := []string{
		titleStyle.Render("Game over"),
		fmt.Sprintf("Final score %s", valueStyle.Render(fmt.Sprintf("%d", s.Score))),
	}
	if s.Rank > 0 {
		lines = append(lines, fmt.Sprintf("High score #%d", s.Rank))
	}
	switch s.BattleResult() {
	case session.BattleWin:
		lines = append(lines, fmt.Sprintf("%s beats %s %d:%d", s.Player, s.Opponent, s.Score, s.OpponentScore))
	case session.BattleLose:
		lines = append(lines, fmt.Sprintf("%s beats %s %d:%d", s.Opponent, s.Player, s.OpponentScore, s.Score))
	case session.BattleDraw:
		lines = append(lines, fmt.Sprintf("Draw %d:%d", s.Score, s.OpponentScore))
	}
	if len(s.History) > 0 {
		lines = append(lines, "", historyTable(s.Mode, s.History).View())
	}
	return overlayStyle.Render(strings.Join(lines, "\n"))
}

func historyTable(mode model.Mode, history []model.RoundResult) table.Model {
	cols := []table.Column{
		{Title: "Round", Width: 5},
		{Title: "Points", Width: 6},
		{Title: "Found", Width: 7},
		{Title: "Result", Width: 20},
	}
	if mode == model.ModeBattle {
		cols = append(cols, table.Column{Title: "Rival", Width: 5})
	}
	rows := make([]table.Row, 0, len(history))
	for _, r := range history {
		result := string(r.Outcome)
		if r.Perfect {
			result = "perfect"
		}
		row := table.Row{
			fmt.Sprintf("%d", r.RoundNumber),
			fmt.Sprintf("%d", r.Points),
			fmt.Sprintf("%d/%d", r.Found, r.TargetCount),
			result,
		}
		if mode == model.ModeBattle {
			row = append(row, fmt.Sprintf("%d", r.OpponentPoints))
		}
		rows = append(rows, row)
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(min(len(rows), 10)+1),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#FF7AC6")).
		Bold(true)
	return styles
}
