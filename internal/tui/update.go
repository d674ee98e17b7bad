package tui

import (
	"strconv"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "backspace":
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		if msg.Type == tea.KeyRunes && allDigits(msg.Runes) {
			m.problem = ""
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		if msg.Type == tea.KeyRunes && !isNavigation(msg.String()) {
			m.problem = invalidNumber
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// submit picks the typed index, or the highlighted row when nothing was typed.
func (m PickerModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		m.chosen = m.table.Cursor()
		return m, tea.Quit
	}

	idx, err := strconv.Atoi(text)
	m.input.Reset()
	switch {
	case err != nil:
		m.problem = invalidNumber
		return m, nil
	case idx < 0 || idx >= len(m.interfaces):
		m.problem = invalidIndex
		return m, nil
	}
	m.chosen = idx
	return m, tea.Quit
}

func allDigits(rs []rune) bool {
	if len(rs) == 0 {
		return false
	}
	for _, r := range rs {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isNavigation(key string) bool {
	switch key {
	case "j", "k", "g", "G", "b", "f", "d", "u":
		return true
	}
	return false
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			m.done = true
			m.answer = strings.ToLower(strings.TrimSpace(m.input.Value())) == "y"
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
