package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"framewatch/internal/analysis"
	"framewatch/internal/models"

	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(details string) models.DisplayRecord {
	return models.DisplayRecord{
		Timestamp:   "2026-10-15 09:30:01.123",
		Source:      "02:00:00:00:00:01",
		Destination: "02:00:00:00:00:02",
		Protocol:    models.Protocol{Tag: layers.EthernetTypeIPv4, Label: "IPv4"},
		Details:     details,
		Length:      74,
	}
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
}

func TestRenderWritesHeaderAboveEveryRow(t *testing.T) {
	buf := &bytes.Buffer{}
	tbl := New(buf, WithoutColor())

	tbl.Render(sampleRecord("IPv4 10.0.0.1 -> 10.0.0.2"))
	tbl.Render(sampleRecord("ARP"))

	out := lines(buf)
	require.Len(t, out, 4)
	assert.Equal(t, out[0], out[2], "header must repeat unchanged")
	assert.Equal(t, Columns, strings.Fields(out[0]))
	assert.Contains(t, out[1], "IPv4 10.0.0.1 -> 10.0.0.2")
	assert.Contains(t, out[1], "IPv4 (0x0800)")
	assert.Contains(t, out[3], "ARP")
}

func TestColumnsAlign(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf, WithoutColor()).Render(sampleRecord("IPv4 10.0.0.1 -> 10.0.0.2"))

	out := lines(buf)
	require.Len(t, out, 2)
	header, row := out[0], out[1]
	for title, value := range map[string]string{
		"Source":        "02:00:00:00:00:01",
		"Destination":   "02:00:00:00:00:02",
		"Type/Protocol": "IPv4 (0x0800)",
		"Details":       "IPv4 10.0.0.1",
		"Length":        "74",
	} {
		assert.Equal(t, strings.Index(header, title), strings.Index(row, value), title)
	}
}

func TestPlaceholderShowsLabelWithoutTag(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf, WithoutColor()).Render(models.DisplayRecord{
		Timestamp:   "2026-10-15 09:30:01.123",
		Source:      "-",
		Destination: "-",
		Protocol:    models.Protocol{Label: "Unrecognized"},
		Details:     "Unrecognized frame",
		Length:      2,
		Malformed:   true,
	})

	out := lines(buf)
	require.Len(t, out, 2)
	assert.Contains(t, out[1], "Unrecognized ")
	assert.NotContains(t, out[1], "0x0000")
}

func TestLongCellsAreNotWrapped(t *testing.T) {
	buf := &bytes.Buffer{}
	long := "IPv4 255.255.255.255 -> 255.255.255.255 with extra text"
	New(buf, WithoutColor()).Render(sampleRecord(long))

	out := lines(buf)
	require.Len(t, out, 2)
	assert.Contains(t, out[1], long)
}

func TestNoticeAndFailure(t *testing.T) {
	buf := &bytes.Buffer{}
	tbl := New(buf, WithoutColor())

	tbl.Notice("Paused. Press Enter to resume.")
	tbl.Failure(errors.New("device gone"))
	tbl.Printf("Using interface: %s", "eth0")

	assert.Equal(t, []string{
		"Paused. Press Enter to resume.",
		"An error occurred while reading: device gone",
		"Using interface: eth0",
	}, lines(buf))
}

func TestSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf, WithoutColor()).Summary("eth0", analysis.Snapshot{
		Started:   time.Date(2026, 1, 1, 12, 0, 0, 0, time.Local),
		Elapsed:   1500 * time.Millisecond,
		Frames:    3,
		Bytes:     2048,
		FrameRate: 2,
		Bandwidth: 10923,
		Discarded: 1,
		Protocols: []analysis.ProtocolStat{{Protocol: "IPv4", Count: 2}, {Protocol: "ARP", Count: 1}},
		TopTalkers: []analysis.AddressStat{
			{Address: "02:00:00:00:00:01", Bytes: 2000},
		},
		Alerts: []analysis.Alert{{
			Type:      analysis.AnomalyBroadcastStorm,
			Message:   "Broadcast storm detected",
			Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "Session summary - eth0 (started 12:00:00)")
	assert.Contains(t, out, "Bandwidth: 10.92 Kbps")
	assert.Contains(t, out, "Frame Rate: 2.00 FPS")
	assert.Contains(t, out, "Frames: 3")
	assert.Contains(t, out, "Bytes: 2.0 KB")
	assert.Contains(t, out, "Discarded while paused: 1")
	assert.Contains(t, out, "IPv4: 2")
	assert.Contains(t, out, "02:00:00:00:00:01")
	assert.Contains(t, out, "BROADCAST_STORM")
}

func TestSummaryWithoutFrames(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf, WithoutColor()).Summary("lo", analysis.Snapshot{})

	assert.Contains(t, buf.String(), "No frames captured.")
	assert.NotContains(t, buf.String(), "started")
}

func TestFormatBps(t *testing.T) {
	assert.Equal(t, "512.00 bps", formatBps(512))
	assert.Equal(t, "1.50 Kbps", formatBps(1500))
	assert.Equal(t, "2.00 Mbps", formatBps(2e6))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "1.0 MB", formatBytes(1<<20))
}
