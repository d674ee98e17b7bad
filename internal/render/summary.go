package render

import (
	"fmt"
	"strings"
	"time"

	"framewatch/internal/analysis"

	"github.com/charmbracelet/lipgloss"
)

const summaryProtocols = 5

// Summary writes the end of session statistics for iface.
func (t *Table) Summary(iface string, snap analysis.Snapshot) {
	heading := fmt.Sprintf("Session summary - %s", iface)
	if !snap.Started.IsZero() {
		heading += fmt.Sprintf(" (started %s)", snap.Started.Local().Format("15:04:05"))
	}
	title := t.titleStyle.Render(heading)

	totals := fmt.Sprintf("Frames: %d\nBytes: %s\nDuration: %s\nBandwidth: %s\nFrame Rate: %.2f FPS\nMalformed: %d\nDiscarded while paused: %d",
		snap.Frames, formatBytes(snap.Bytes), snap.Elapsed.Round(time.Millisecond),
		formatBps(snap.Bandwidth), snap.FrameRate,
		snap.Malformed, snap.Discarded)
	totalsBox := t.boxStyle.Render(totals)

	var protoStrs []string
	limit := min(summaryProtocols, len(snap.Protocols))
	for i := 0; i < limit; i++ {
		p := snap.Protocols[i]
		protoStrs = append(protoStrs, fmt.Sprintf("%s: %d", p.Protocol, p.Count))
	}
	if len(protoStrs) == 0 {
		protoStrs = append(protoStrs, "No frames captured.")
	}
	protoBox := t.boxStyle.Render("Protocols:\n" + strings.Join(protoStrs, "\n"))

	var talkerStrs []string
	for _, a := range snap.TopTalkers {
		talkerStrs = append(talkerStrs, fmt.Sprintf("%s  %s", a.Address, formatBytes(int64(a.Bytes))))
	}
	if len(talkerStrs) == 0 {
		talkerStrs = append(talkerStrs, "-")
	}
	talkersBox := t.boxStyle.Render("Top talkers:\n" + strings.Join(talkerStrs, "\n"))

	row := lipgloss.JoinHorizontal(lipgloss.Top, totalsBox, protoBox, talkersBox)
	body := lipgloss.JoinVertical(lipgloss.Left, title, row)

	if len(snap.Alerts) > 0 {
		var alertStrs []string
		for _, a := range snap.Alerts {
			alertStrs = append(alertStrs, fmt.Sprintf("%s %s: %s",
				a.Timestamp.Format("15:04:05"), a.Type, a.Message))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, body,
			t.boxStyle.Render("Alerts:\n"+strings.Join(alertStrs, "\n")))
	}
	t.write(body)
}

func formatBps(bps float64) string {
	if bps >= 1e6 {
		return fmt.Sprintf("%.2f Mbps", bps/1e6)
	}
	if bps >= 1e3 {
		return fmt.Sprintf("%.2f Kbps", bps/1e3)
	}
	return fmt.Sprintf("%.2f bps", bps)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
