package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Select  key.Binding
	Back    key.Binding
	Restart key.Binding
	Menu    key.Binding
	Scores  key.Binding
	Rules   key.Binding
	Mute    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Select:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Back:    key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Menu:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Scores:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "high scores")),
		Rules:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "rules")),
		Mute:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "sound")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// helpFor is the key.Map shown in the footer for one screen.
type helpFor struct {
	short []key.Binding
}

func (h helpFor) ShortHelp() []key.Binding {
	return h.short
}

func (h helpFor) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.short}
}

func (m *Model) footerKeys() helpFor {
	k := m.keys
	switch m.screen {
	case screenMenu:
		return helpFor{short: []key.Binding{k.Up, k.Down, k.Select, k.Rules, k.Scores, k.Mute, k.Back}}
	case screenRules:
		return helpFor{short: []key.Binding{k.Up, k.Down, k.Select, k.Back}}
	case screenScores:
		return helpFor{short: []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Back}}
	default:
		if m.snap.GameComplete {
			return helpFor{short: []key.Binding{k.Restart, k.Menu}}
		}
		return helpFor{short: []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Select, k.Mute, k.Back}}
	}
}
