package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/memomu/internal/model"
)

func newScoreTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Score", Width: 6},
			{Title: "When", Width: 16},
		}),
		table.WithHeight(11),
	)
	t.SetStyles(tableStyles())
	return t
}

func scoreRows(list []model.HighScoreEntry) []table.Row {
	rows := make([]table.Row, 0, len(list))
	for i, e := range list {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", e.Score),
			formatWhen(e.Timestamp),
		})
	}
	return rows
}

func formatWhen(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (m *Model) viewScores() string {
	tabs := make([]string, 0, len(model.AllModes))
	for i, mode := range model.AllModes {
		if i == m.scoreIndex {
			tabs = append(tabs, menuActive.Render(mode.Title()))
			continue
		}
		tabs = append(tabs, menuInactive.Render(mode.Title()))
	}
	body := m.scores.View()
	if len(m.scores.Rows()) == 0 {
		body = mutedStyle.Render("no scores yet")
	}
	return lipgloss.JoinVertical(lipgloss.Center, strings.Join(tabs, "  "), "", body)
}
