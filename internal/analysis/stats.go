package analysis

import (
	"sort"
	"sync"
	"time"

	"framewatch/internal/models"
)

// AddressStat holds the byte count seen from one link-layer address.
type AddressStat struct {
	Address string
	Bytes   int
}

// ProtocolStat holds the frame count for one protocol label.
type ProtocolStat struct {
	Protocol string
	Count    int64
}

// Snapshot is a point in time copy of a session's statistics.
// FrameRate (frames/s) and Bandwidth (bits/s) are averages since Started.
type Snapshot struct {
	Started    time.Time
	Elapsed    time.Duration
	Frames     int64
	Bytes      int64
	FrameRate  float64
	Bandwidth  float64
	Malformed  int64
	Discarded  int64
	Protocols  []ProtocolStat
	TopTalkers []AddressStat
	Alerts     []Alert
}

// TrafficStats tracks statistics for one capture session.
type TrafficStats struct {
	mu             sync.Mutex
	started        time.Time
	totalFrames    int64
	totalBytes     int64
	malformed      int64
	discarded      int64
	addressBytes   map[string]int
	protocolCounts map[string]int64

	anomalyDetector *AnomalyDetector
	now             func() time.Time
}

// NewTrafficStats creates a new TrafficStats instance.
func NewTrafficStats() *TrafficStats {
	return newTrafficStats(time.Now)
}

func newTrafficStats(now func() time.Time) *TrafficStats {
	start := now()
	return &TrafficStats{
		started:         start,
		addressBytes:    make(map[string]int),
		protocolCounts:  make(map[string]int64),
		anomalyDetector: NewAnomalyDetector(DefaultConfig()),
		now:             now,
	}
}

// ProcessRecord updates stats with a rendered record.
func (s *TrafficStats) ProcessRecord(rec models.DisplayRecord) {
	s.mu.Lock()
	now := s.now()

	s.totalFrames++
	s.totalBytes += int64(rec.Length)

	if rec.Malformed {
		s.malformed++
	} else {
		s.addressBytes[rec.Source] += rec.Length
	}

	proto := rec.Protocol.Label
	if proto == "" {
		proto = "Unknown"
	}
	s.protocolCounts[proto]++
	s.mu.Unlock()

	// The detector has its own mutex.
	s.anomalyDetector.ProcessRecord(rec, now)
}

// RecordDiscarded counts records that were buffered but never rendered.
func (s *TrafficStats) RecordDiscarded(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discarded += int64(n)
}

func (s *TrafficStats) topTalkersLocked(limit int) []AddressStat {
	stats := make([]AddressStat, 0, len(s.addressBytes))
	for addr, bytes := range s.addressBytes {
		stats = append(stats, AddressStat{Address: addr, Bytes: bytes})
	}

	// Ties break on address so output is stable.
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Bytes != stats[j].Bytes {
			return stats[i].Bytes > stats[j].Bytes
		}
		return stats[i].Address < stats[j].Address
	})

	if limit >= 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

func (s *TrafficStats) protocolStatsLocked() []ProtocolStat {
	stats := make([]ProtocolStat, 0, len(s.protocolCounts))
	for proto, count := range s.protocolCounts {
		stats = append(stats, ProtocolStat{Protocol: proto, Count: count})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Protocol < stats[j].Protocol
	})

	return stats
}

// Snapshot returns a copy of the current statistics with up to
// topN talkers.
func (s *TrafficStats) Snapshot(topN int) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := s.now().Sub(s.started)
	var fps, bps float64
	if secs := elapsed.Seconds(); secs > 0 {
		fps = float64(s.totalFrames) / secs
		bps = float64(s.totalBytes) * 8 / secs
	}

	return Snapshot{
		Started:    s.started,
		Elapsed:    elapsed,
		Frames:     s.totalFrames,
		Bytes:      s.totalBytes,
		FrameRate:  fps,
		Bandwidth:  bps,
		Malformed:  s.malformed,
		Discarded:  s.discarded,
		Protocols:  s.protocolStatsLocked(),
		TopTalkers: s.topTalkersLocked(topN),
		Alerts:     s.anomalyDetector.GetRecentAlerts(5),
	}
}
