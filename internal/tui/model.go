// Package tui holds the interactive prompts shown between capture sessions.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"framewatch/internal/capture"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the operator quits a prompt.
var ErrAborted = errors.New("tui: prompt aborted")

const (
	invalidNumber = "Invalid input. Please enter a number."
	invalidIndex  = "Invalid interface index. Please try again."
)

// PickerModel lists capture interfaces and lets the operator pick one by
// number or by moving the cursor.
type PickerModel struct {
	interfaces []capture.Interface
	table      table.Model
	input      textinput.Model
	chosen     int
	aborted    bool
	problem    string
}

// NewPickerModel builds the picker for ifaces.
func NewPickerModel(ifaces []capture.Interface) PickerModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Interface", Width: 20},
		{Title: "Description", Width: 30},
		{Title: "Addresses", Width: 36},
	}

	rows := make([]table.Row, len(ifaces))
	for i, ifi := range ifaces {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i),
			ifi.Name,
			ifi.Description,
			strings.Join(ifi.Addresses, ", "),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 12)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	in := textinput.New()
	in.Placeholder = "number"
	in.CharLimit = 4
	in.Width = 6
	in.Focus()

	return PickerModel{
		interfaces: ifaces,
		table:      t,
		input:      in,
		chosen:     -1,
	}
}

func (m PickerModel) Init() tea.Cmd {
	return textinput.Blink
}

// Chosen returns the selected interface, if any.
func (m PickerModel) Chosen() (capture.Interface, bool) {
	if m.chosen < 0 {
		return capture.Interface{}, false
	}
	return m.interfaces[m.chosen], true
}

// SelectInterface runs the picker and returns the operator's choice.
func SelectInterface(ifaces []capture.Interface, opts ...tea.ProgramOption) (capture.Interface, error) {
	if len(ifaces) == 0 {
		return capture.Interface{}, errors.New("tui: no interfaces to choose from")
	}
	final, err := tea.NewProgram(NewPickerModel(ifaces), opts...).Run()
	if err != nil {
		return capture.Interface{}, fmt.Errorf("run interface picker: %w", err)
	}
	m := final.(PickerModel)
	if ifi, ok := m.Chosen(); ok {
		return ifi, nil
	}
	return capture.Interface{}, ErrAborted
}

// ConfirmModel asks a yes/no question answered with a line of text.
type ConfirmModel struct {
	prompt  string
	input   textinput.Model
	answer  bool
	done    bool
	aborted bool
}

// NewConfirmModel builds a prompt; only "y" (any case) counts as yes.
func NewConfirmModel(prompt string) ConfirmModel {
	in := textinput.New()
	in.CharLimit = 8
	in.Width = 8
	in.Focus()
	return ConfirmModel{prompt: prompt, input: in}
}

func (m ConfirmModel) Init() tea.Cmd {
	return textinput.Blink
}

// Answer reports the operator's answer once the prompt is done.
func (m ConfirmModel) Answer() bool {
	return m.done && m.answer
}

// Confirm runs a yes/no prompt.
func Confirm(prompt string, opts ...tea.ProgramOption) (bool, error) {
	final, err := tea.NewProgram(NewConfirmModel(prompt), opts...).Run()
	if err != nil {
		return false, fmt.Errorf("run prompt: %w", err)
	}
	m := final.(ConfirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.Answer(), nil
}
