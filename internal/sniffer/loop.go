// Package sniffer runs the capture, pause and display loop for one
// capture session.
package sniffer

import (
	"context"
	"errors"
	"time"

	"framewatch/internal/capture"
	"framewatch/internal/decode"
	"framewatch/internal/keyboard"
	"framewatch/internal/models"

	"go.uber.org/zap"
)

const (
	PausedNotice  = "Paused. Press Enter to resume."
	ResumedNotice = "Resumed. Press Enter to pause."
	ClosedNotice  = "Capture source closed."

	// DefaultIdleInterval is how long a paused loop waits between
	// keyboard polls.
	DefaultIdleInterval = 100 * time.Millisecond
)

// Display receives everything the loop shows the operator.
type Display interface {
	Render(rec models.DisplayRecord)
	Notice(msg string)
	Failure(err error)
}

// Stats observes rendered and discarded records.
type Stats interface {
	ProcessRecord(rec models.DisplayRecord)
	RecordDiscarded(n int)
}

// Config controls the loop behavior.
type Config struct {
	// IdleInterval is the sleep between keyboard polls while paused.
	// Defaults to DefaultIdleInterval if unset or <= 0.
	IdleInterval time.Duration
	// Stats is optional.
	Stats  Stats
	Logger *zap.Logger
}

func applyDefaults(cfg *Config) Config {
	var out Config
	if cfg != nil {
		out = *cfg
	}
	if out.IdleInterval <= 0 {
		out.IdleInterval = DefaultIdleInterval
	}
	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}
	return out
}

// PauseState is the pause flag and the records deferred while it is set.
// It belongs to exactly one running loop.
type PauseState struct {
	paused bool
	buffer []models.DisplayRecord
}

// Paused reports whether rendering is suspended.
func (s *PauseState) Paused() bool { return s.paused }

// Buffered returns the number of deferred records.
func (s *PauseState) Buffered() int { return len(s.buffer) }

// Loop multiplexes the keyboard queue and the frame source.
type Loop struct {
	source  capture.FrameSource
	builder *decode.Builder
	keys    *keyboard.Queue
	display Display
	cfg     Config
}

// New wires a loop. The loop does not own source or keys; the caller
// closes them after Run returns.
func New(source capture.FrameSource, builder *decode.Builder, keys *keyboard.Queue, display Display, cfg *Config) *Loop {
	if builder == nil {
		builder = decode.NewBuilder(nil)
	}
	return &Loop{
		source:  source,
		builder: builder,
		keys:    keys,
		display: display,
		cfg:     applyDefaults(cfg),
	}
}

// Run loops until the keyboard queue closes, the frame source reports
// that it is closed, or ctx is done. Records still buffered when Run
// returns are discarded. Run returns ctx.Err() when ctx ended the
// session and nil otherwise.
func (l *Loop) Run(ctx context.Context) error {
	st := &PauseState{}
	defer l.discard(st)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if l.tick(ctx, st) {
			return nil
		}
	}
}

// tick runs one iteration and reports whether the session is over.
func (l *Loop) tick(ctx context.Context, st *PauseState) bool {
	if l.drainKeys(st) {
		return true
	}

	if st.paused {
		l.idle(ctx)
		return false
	}

	frame, err := l.source.Next()
	switch {
	case err == nil:
	case errors.Is(err, capture.ErrReadTimeout):
		return false
	case errors.Is(err, capture.ErrSourceClosed):
		l.display.Notice(ClosedNotice)
		return true
	default:
		l.cfg.Logger.Debug("frame read failed", zap.Error(err))
		l.display.Failure(err)
		return false
	}

	rec := l.builder.Build(frame)
	if rec.Malformed {
		l.cfg.Logger.Debug("undecodable frame", zap.Int("length", rec.Length))
	}

	// Enter may have been pressed while the read was blocked.
	closed := l.drainKeys(st)
	if st.paused {
		st.buffer = append(st.buffer, rec)
	} else {
		l.render(rec)
	}
	return closed
}

// drainKeys applies every pending key event and reports whether the
// keyboard queue is closed.
func (l *Loop) drainKeys(st *PauseState) bool {
	for {
		ev, status := l.keys.TryTake()
		switch status {
		case keyboard.Empty:
			return false
		case keyboard.Closed:
			return true
		}
		if ev.Key == keyboard.KeyEnter {
			l.toggle(st)
		}
	}
}

func (l *Loop) toggle(st *PauseState) {
	st.paused = !st.paused
	if st.paused {
		l.display.Notice(PausedNotice)
		return
	}

	l.display.Notice(ResumedNotice)
	for _, rec := range st.buffer {
		l.render(rec)
	}
	st.buffer = nil
}

func (l *Loop) render(rec models.DisplayRecord) {
	l.display.Render(rec)
	if l.cfg.Stats != nil {
		l.cfg.Stats.ProcessRecord(rec)
	}
}

func (l *Loop) idle(ctx context.Context) {
	t := time.NewTimer(l.cfg.IdleInterval)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (l *Loop) discard(st *PauseState) {
	n := len(st.buffer)
	if n == 0 {
		return
	}
	l.cfg.Logger.Info("discarding buffered records", zap.Int("count", n))
	if l.cfg.Stats != nil {
		l.cfg.Stats.RecordDiscarded(n)
	}
	st.buffer = nil
}
