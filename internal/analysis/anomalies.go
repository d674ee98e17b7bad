package analysis

import (
	"fmt"
	"sync"
	"time"

	"framewatch/internal/models"
)

// AnomalyType represents the type of anomaly detected.
type AnomalyType string

const (
	AnomalyBroadcastStorm AnomalyType = "BROADCAST_STORM"
	AnomalyFlood          AnomalyType = "SOURCE_FLOOD"
)

const broadcastAddress = "ff:ff:ff:ff:ff:ff"

// Config holds configuration for the anomaly detector.
type Config struct {
	BroadcastThreshold int           // Broadcast frames per second
	FloodThreshold     int           // Frames per second from one source address
	CleanupInterval    time.Duration // Interval for memory cleanup
	DataRetention      time.Duration // How long to keep per-source windows
	MaxAlerts          int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		BroadcastThreshold: 50,
		FloodThreshold:     500,
		CleanupInterval:    1 * time.Minute,
		DataRetention:      5 * time.Minute,
		MaxAlerts:          20,
	}
}

// Alert represents a detected traffic anomaly.
type Alert struct {
	Type      AnomalyType
	Source    string
	Message   string
	Timestamp time.Time
}

type window struct {
	start time.Time
	count int
}

// AnomalyDetector watches rendered records for suspicious link-layer patterns.
type AnomalyDetector struct {
	mu sync.Mutex

	config Config

	broadcast window
	sources   map[string]*window

	alerts      []Alert
	lastCleanup time.Time
}

// NewAnomalyDetector creates a new anomaly detection engine.
func NewAnomalyDetector(cfg Config) *AnomalyDetector {
	if cfg.MaxAlerts <= 0 {
		cfg.MaxAlerts = DefaultConfig().MaxAlerts
	}
	return &AnomalyDetector{
		config:  cfg,
		sources: make(map[string]*window),
	}
}

// ProcessRecord checks one record against every rule.
func (ad *AnomalyDetector) ProcessRecord(rec models.DisplayRecord, now time.Time) {
	if rec.Malformed {
		return
	}

	ad.mu.Lock()
	defer ad.mu.Unlock()

	if ad.lastCleanup.IsZero() {
		ad.lastCleanup = now
	}
	if now.Sub(ad.lastCleanup) > ad.config.CleanupInterval {
		ad.cleanup(now)
		ad.lastCleanup = now
	}

	ad.detectBroadcastStorm(rec, now)
	ad.detectFlood(rec, now)
}

// cleanup drops source windows that have gone quiet.
func (ad *AnomalyDetector) cleanup(now time.Time) {
	for src, w := range ad.sources {
		if now.Sub(w.start) > ad.config.DataRetention {
			delete(ad.sources, src)
		}
	}
}

func (ad *AnomalyDetector) detectBroadcastStorm(rec models.DisplayRecord, now time.Time) {
	if rec.Destination != broadcastAddress {
		return
	}
	if now.Sub(ad.broadcast.start) > time.Second {
		ad.broadcast = window{start: now}
	}
	ad.broadcast.count++

	if ad.broadcast.count > ad.config.BroadcastThreshold {
		ad.addAlert(Alert{
			Type:      AnomalyBroadcastStorm,
			Source:    "Network",
			Message:   fmt.Sprintf("Broadcast storm detected: %d broadcasts in 1 second", ad.broadcast.count),
			Timestamp: now,
		})
		ad.broadcast = window{start: now}
	}
}

func (ad *AnomalyDetector) detectFlood(rec models.DisplayRecord, now time.Time) {
	w, ok := ad.sources[rec.Source]
	if !ok {
		w = &window{start: now}
		ad.sources[rec.Source] = w
	}
	if now.Sub(w.start) > time.Second {
		*w = window{start: now}
	}
	w.count++

	if w.count > ad.config.FloodThreshold {
		ad.addAlert(Alert{
			Type:      AnomalyFlood,
			Source:    rec.Source,
			Message:   fmt.Sprintf("High frame rate from %s: %d fps", rec.Source, w.count),
			Timestamp: now,
		})
		*w = window{start: now}
	}
}

// addAlert appends to the bounded alert history.
func (ad *AnomalyDetector) addAlert(alert Alert) {
	ad.alerts = append(ad.alerts, alert)
	if len(ad.alerts) > ad.config.MaxAlerts {
		ad.alerts = ad.alerts[len(ad.alerts)-ad.config.MaxAlerts:]
	}
}

// GetRecentAlerts returns up to limit of the newest alerts, oldest first.
func (ad *AnomalyDetector) GetRecentAlerts(limit int) []Alert {
	ad.mu.Lock()
	defer ad.mu.Unlock()

	start := 0
	if len(ad.alerts) > limit {
		start = len(ad.alerts) - limit
	}
	result := make([]Alert, len(ad.alerts)-start)
	copy(result, ad.alerts[start:])
	return result
}
