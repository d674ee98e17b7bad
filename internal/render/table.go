// Package render writes display records to the terminal as table rows.
package render

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"framewatch/internal/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"
)

// Column titles, in display order.
var Columns = []string{"Time", "Source", "Destination", "Type/Protocol", "Details", "Length"}

// Minimum column widths keep rows from successive calls aligned.
var minWidths = []int{23, 17, 17, 14, 28, 6}

const columnGap = 2

var columnColors = []lipgloss.Color{
	lipgloss.Color("15"), // white
	lipgloss.Color("2"),  // green
	lipgloss.Color("4"),  // blue
	lipgloss.Color("3"),  // yellow
	lipgloss.Color("5"),  // magenta
	lipgloss.Color("6"),  // cyan
}

// Table renders records, notices and errors to one writer.
type Table struct {
	mu sync.Mutex
	w  io.Writer
	r  *lipgloss.Renderer

	noticeStyle lipgloss.Style
	errorStyle  lipgloss.Style
	boxStyle    lipgloss.Style
	titleStyle  lipgloss.Style
}

// Option configures a Table.
type Option func(*Table)

// WithoutColor strips all styling regardless of the terminal.
func WithoutColor() Option {
	return func(t *Table) {
		t.r.SetColorProfile(termenv.Ascii)
	}
}

// New returns a Table writing to w. Colors follow the capabilities of w.
func New(w io.Writer, opts ...Option) *Table {
	t := &Table{w: w, r: lipgloss.NewRenderer(w)}
	for _, opt := range opts {
		opt(t)
	}
	t.noticeStyle = t.r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFF7DB"))
	t.errorStyle = t.r.NewStyle().Foreground(lipgloss.Color("9"))
	t.titleStyle = t.r.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color("#7D56F4")).
		Padding(0, 1)
	t.boxStyle = t.r.NewStyle().
		Foreground(lipgloss.Color("#FFF7DB")).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Margin(0, 1)
	return t
}

// Render writes the column titles followed by one row for rec.
func (t *Table) Render(rec models.DisplayRecord) {
	t.write(t.build([]string{
		rec.Timestamp,
		rec.Source,
		rec.Destination,
		protocolCell(rec),
		rec.Details,
		strconv.Itoa(rec.Length),
	}))
}

// protocolCell omits the tag of placeholder records, which was never decoded.
func protocolCell(rec models.DisplayRecord) string {
	if rec.Malformed {
		return rec.Protocol.Label
	}
	return rec.Protocol.String()
}

// Notice writes an operator message such as a pause notice.
func (t *Table) Notice(msg string) {
	t.write(t.noticeStyle.Render(msg))
}

// Failure writes an operator visible error line.
func (t *Table) Failure(err error) {
	t.write(t.errorStyle.Render(fmt.Sprintf("An error occurred while reading: %v", err)))
}

// Printf writes an unstyled line.
func (t *Table) Printf(format string, args ...any) {
	t.write(fmt.Sprintf(format, args...))
}

func (t *Table) build(row []string) string {
	widths := make([]int, len(Columns))
	for i, title := range Columns {
		widths[i] = max(minWidths[i], lipgloss.Width(title), lipgloss.Width(row[i])) + columnGap
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(r, c int) lipgloss.Style {
			s := t.r.NewStyle().Width(widths[c]).Foreground(columnColors[c])
			if r == table.HeaderRow {
				s = s.Bold(true)
			}
			return s
		}).
		Headers(Columns...).
		Row(row...)
	return tbl.Render()
}

func (t *Table) write(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.w, s+"\n")
}
