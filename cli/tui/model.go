package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwantia/litedb/cmd"
)

// Mode represents the current interaction mode
type Mode int

const (
	ModeShell Mode = iota
	ModeHelp
)

// Entry is one executed command together with its result.
type Entry struct {
	Input  string
	Result *cmd.Result
}

// Model represents the state of the shell
type Model struct {
	// Core components
	ctx        context.Context
	dispatcher *cmd.Dispatcher
	title      string
	theme      *Theme
	keys       KeyMap
	help       help.Model

	// Output state
	entries []*Entry
	offset  int

	// Input state
	mode      Mode
	textInput textinput.Model
	history   []string
	recall    int

	// View state
	width  int
	height int

	// Status
	statusMsg string
	errorMsg  string
	running   bool
}

// NewModel creates a new shell model
func NewModel(ctx context.Context, dispatcher *cmd.Dispatcher, title string) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter command..."
	ti.CharLimit = 4096
	ti.Focus()

	return &Model{
		ctx:        ctx,
		dispatcher: dispatcher,
		title:      title,
		theme:      DefaultTheme(),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		textInput:  ti,
	}
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.textInput.Width = max(msg.Width-6, 10)
		return m, nil

	case commandExecutedMsg:
		m.running = false
		m.entries = append(m.entries, &Entry{Input: msg.input, Result: msg.result})
		m.offset = 0

		if msg.result.Kind == cmd.ResultError {
			m.errorMsg = msg.result.Error
			m.statusMsg = ""
		} else {
			m.errorMsg = ""
			m.statusMsg = "Returned " + msg.result.Kind.String()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	var teaCmd tea.Cmd
	m.textInput, teaCmd = m.textInput.Update(msg)
	return m, teaCmd
}

// handleKeyPress processes keyboard input based on current mode
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Cancel) {
			m.mode = ModeShell
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m, m.submitInput()

	case key.Matches(msg, m.keys.Cancel):
		m.textInput.SetValue("")
		m.recall = len(m.history)
		return m, nil

	case key.Matches(msg, m.keys.Previous):
		m.recallHistory(-1)
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.recallHistory(1)
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp):
		if m.offset < len(m.entries)-1 {
			m.offset++
		}
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		if m.offset > 0 {
			m.offset--
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.entries = nil
		m.offset = 0
		m.statusMsg = "Cleared"
		return m, nil
	}

	var teaCmd tea.Cmd
	m.textInput, teaCmd = m.textInput.Update(msg)
	return m, teaCmd
}

// submitInput executes the current input line
func (m *Model) submitInput() tea.Cmd {
	value := strings.TrimSpace(m.textInput.Value())
	m.textInput.SetValue("")

	if value == "" || m.running {
		return nil
	}

	m.history = append(m.history, value)
	m.recall = len(m.history)
	m.running = true
	m.statusMsg = "Running..."

	return m.executeCommand(value)
}

// recallHistory moves through previously submitted lines
func (m *Model) recallHistory(delta int) {
	if len(m.history) == 0 {
		return
	}

	m.recall = min(max(m.recall+delta, 0), len(m.history))
	if m.recall == len(m.history) {
		m.textInput.SetValue("")
		return
	}

	m.textInput.SetValue(m.history[m.recall])
	m.textInput.CursorEnd()
}

// getVisibleLines returns how many output lines can be displayed
func (m *Model) getVisibleLines() int {
	// Reserve space for title, input, status bar and help
	reserved := 8
	available := m.height - reserved
	if available < 5 {
		return 5
	}
	return available
}

type commandExecutedMsg struct {
	input  string
	result *cmd.Result
}

func (m *Model) executeCommand(line string) tea.Cmd {
	return func() tea.Msg {
		return commandExecutedMsg{
			input:  line,
			result: m.dispatcher.Run(m.ctx, line),
		}
	}
}
