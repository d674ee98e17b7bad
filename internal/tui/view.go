package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Margin(0, 1)

	problemStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func (m PickerModel) View() string {
	if m.chosen >= 0 || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Available network interfaces:"))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(m.table.View()))
	b.WriteString("\nEnter the number of the interface you want to use: ")
	b.WriteString(m.input.View())
	if m.problem != "" {
		b.WriteString("\n")
		b.WriteString(problemStyle.Render(m.problem))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ move • enter select • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m ConfirmModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return m.prompt + " " + m.input.View() + "\n"
}
