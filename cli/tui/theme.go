package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles used by the shell
type Theme struct {
	TitleStyle     lipgloss.Style
	PromptStyle    lipgloss.Style
	InputStyle     lipgloss.Style
	OutputStyle    lipgloss.Style
	NullStyle      lipgloss.Style
	ErrorStyle     lipgloss.Style
	StatusBarStyle lipgloss.Style
	HelpStyle      lipgloss.Style
	BorderStyle    lipgloss.Style
}

func DefaultTheme() *Theme {
	return &Theme{
		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1),
		PromptStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")),
		InputStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DDDDDD")),
		OutputStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8CC8C")),
		NullStyle: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#777777")),
		ErrorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F87")),
		StatusBarStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C1C6B2")).
			Background(lipgloss.Color("#353533")).
			Padding(0, 1),
		HelpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		BorderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1),
	}
}

// KeyMap defines the key bindings of the shell
type KeyMap struct {
	Submit     key.Binding
	Cancel     key.Binding
	Previous   key.Binding
	Next       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Clear      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear input"),
		),
		Previous: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous command"),
		),
		Next: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next command"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "older output"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "newer output"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear output"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Previous, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Cancel, k.Previous, k.Next},
		{k.ScrollUp, k.ScrollDown, k.Clear},
		{k.Help, k.Quit},
	}
}
