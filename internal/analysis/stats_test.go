package analysis

import (
	"testing"
	"time"

	"framewatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func record(src, proto string, length int) models.DisplayRecord {
	return models.DisplayRecord{
		Source:   src,
		Protocol: models.Protocol{Label: proto},
		Length:   length,
	}
}

func TestProcessRecordAggregates(t *testing.T) {
	s := NewTrafficStats()

	s.ProcessRecord(record("02:00:00:00:00:01", "IPv4", 100))
	s.ProcessRecord(record("02:00:00:00:00:01", "IPv4", 60))
	s.ProcessRecord(record("02:00:00:00:00:02", "ARP", 42))
	s.ProcessRecord(models.DisplayRecord{Source: "-", Protocol: models.Protocol{Label: "Unrecognized"}, Length: 2, Malformed: true})
	s.ProcessRecord(record("02:00:00:00:00:03", "", 10))

	snap := s.Snapshot(10)
	assert.Equal(t, int64(5), snap.Frames)
	assert.Equal(t, int64(214), snap.Bytes)
	assert.Equal(t, int64(1), snap.Malformed)

	require.Len(t, snap.Protocols, 4)
	assert.Equal(t, ProtocolStat{Protocol: "IPv4", Count: 2}, snap.Protocols[0])
	assert.Contains(t, snap.Protocols, ProtocolStat{Protocol: "Unknown", Count: 1})

	assert.Equal(t, []AddressStat{
		{Address: "02:00:00:00:00:01", Bytes: 160},
		{Address: "02:00:00:00:00:02", Bytes: 42},
		{Address: "02:00:00:00:00:03", Bytes: 10},
	}, snap.TopTalkers)
}

func TestSnapshotLimitsTopTalkers(t *testing.T) {
	s := NewTrafficStats()
	s.ProcessRecord(record("a", "IPv4", 3))
	s.ProcessRecord(record("b", "IPv4", 2))
	s.ProcessRecord(record("c", "IPv4", 1))

	top := s.Snapshot(2).TopTalkers
	require.Len(t, top, 2)
	assert.Equal(t, "a", top[0].Address)
	assert.Equal(t, "b", top[1].Address)
}

func TestRecordDiscarded(t *testing.T) {
	s := NewTrafficStats()
	s.RecordDiscarded(0)
	s.RecordDiscarded(3)

	assert.Equal(t, int64(3), s.Snapshot(0).Discarded)
}

func TestSnapshotAverageRates(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	s := newTrafficStats(clock.now)

	s.ProcessRecord(record("a", "IPv4", 125))
	s.ProcessRecord(record("a", "IPv4", 125))
	clock.t = clock.t.Add(2 * time.Second)

	snap := s.Snapshot(1)
	assert.Equal(t, start, snap.Started)
	assert.Equal(t, 2*time.Second, snap.Elapsed)
	assert.InDelta(t, 1000.0, snap.Bandwidth, 0.001)
	assert.InDelta(t, 1.0, snap.FrameRate, 0.001)
}

func TestSnapshotRatesZeroWithoutElapsedTime(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := newTrafficStats(clock.now)
	s.ProcessRecord(record("a", "IPv4", 60))

	snap := s.Snapshot(1)
	assert.Zero(t, snap.FrameRate)
	assert.Zero(t, snap.Bandwidth)
}
