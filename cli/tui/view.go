package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwantia/litedb/cmd"
)

// View renders the TUI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeHelp:
		return m.renderHelp()
	default:
		return m.renderMain()
	}
}

// renderMain renders the shell view
func (m *Model) renderMain() string {
	sections := []string{
		m.renderTitle(),
		m.renderOutput(),
		m.renderInput(),
		m.renderStatus(),
		m.renderHelpBar(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderTitle() string {
	return m.theme.TitleStyle.Render(fmt.Sprintf("litedb shell - %s", m.title))
}

// renderOutput renders the latest results, newest at the bottom
func (m *Model) renderOutput() string {
	visibleLines := m.getVisibleLines()

	var lines []string
	end := len(m.entries) - m.offset
	for i := end - 1; i >= 0 && len(lines) < visibleLines; i-- {
		lines = append(m.renderEntry(m.entries[i]), lines...)
	}
	if len(lines) > visibleLines {
		lines = lines[len(lines)-visibleLines:]
	}
	if len(lines) == 0 {
		lines = []string{m.theme.NullStyle.Render("(no commands executed)")}
	}

	return m.theme.BorderStyle.
		Width(m.width - 4).
		Height(visibleLines).
		Render(strings.Join(lines, "\n"))
}

// renderEntry renders one executed command and its result
func (m *Model) renderEntry(entry *Entry) []string {
	lines := []string{m.theme.PromptStyle.Render("> ") + m.theme.InputStyle.Render(entry.Input)}

	style := m.theme.OutputStyle
	switch entry.Result.Kind {
	case cmd.ResultNull:
		style = m.theme.NullStyle
	case cmd.ResultError:
		style = m.theme.ErrorStyle
	}

	for _, line := range strings.Split(entry.Result.Render(), "\n") {
		lines = append(lines, style.Render(line))
	}
	return lines
}

func (m *Model) renderInput() string {
	return m.theme.PromptStyle.Render("> ") + m.textInput.View()
}

// renderStatus renders the status bar
func (m *Model) renderStatus() string {
	left := fmt.Sprintf("%d commands", len(m.entries))
	if m.offset > 0 {
		left = fmt.Sprintf("%s (scrolled %d)", left, m.offset)
	}

	right := ""
	if m.errorMsg != "" {
		right = m.theme.ErrorStyle.Render(m.errorMsg)
	} else if m.statusMsg != "" {
		right = m.statusMsg
	}

	spacing := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-4, 0)

	statusLine := left + strings.Repeat(" ", spacing) + right
	return m.theme.StatusBarStyle.Width(m.width).Render(statusLine)
}

func (m *Model) renderHelpBar() string {
	return m.theme.HelpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
}

// renderHelp renders the full help screen
func (m *Model) renderHelp() string {
	var sections []string

	sections = append(sections, m.theme.TitleStyle.Render("litedb shell - Help"))
	sections = append(sections, "")

	sections = append(sections, m.theme.TitleStyle.Render("Commands:"))
	for _, c := range m.dispatcher.List() {
		sections = append(sections, fmt.Sprintf("  %-32s %s", c.Usage(), c.Description()))
	}
	sections = append(sections, "")

	sections = append(sections, m.theme.TitleStyle.Render("Keys:"))
	sections = append(sections, m.help.FullHelpView(m.keys.FullHelp()))
	sections = append(sections, "")

	sections = append(sections, m.theme.HelpStyle.Render("Press F1 or Esc to return"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
