package keyboard

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/muesli/cancelreader"
	"go.uber.org/zap"
)

// Watcher reads key presses from a terminal and pushes them onto a Queue.
type Watcher struct {
	in     cancelreader.CancelReader
	queue  *Queue
	logger *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher wraps in so that Stop can interrupt a blocked read. Only
// pollable files (a terminal's stdin) support that; for other readers Stop
// returns without waiting and the goroutine exits on the next byte or EOF.
func NewWatcher(in io.Reader, queue *Queue, logger *zap.Logger) (*Watcher, error) {
	r, err := cancelreader.NewReader(in)
	if err != nil {
		// Regular files and pipes cannot be polled; read them without
		// cancellation support.
		r, err = cancelreader.NewReader(struct{ io.Reader }{in})
		if err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		in:     r,
		queue:  queue,
		logger: logger,
		done:   make(chan struct{}),
	}, nil
}

// Start runs the watcher in a background goroutine.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	go w.run(ctx)
}

// run forwards key presses until the input ends, then closes the queue.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer w.queue.Close()

	br := bufio.NewReader(w.in)
	for {
		r, _, err := br.ReadRune()
		if err != nil {
			switch {
			case errors.Is(err, cancelreader.ErrCanceled):
				w.logger.Debug("keyboard watcher canceled")
			case errors.Is(err, io.EOF):
				w.logger.Debug("keyboard input closed")
			default:
				w.logger.Warn("keyboard read failed", zap.Error(err))
			}
			return
		}
		if err := w.queue.Push(ctx, eventFor(r)); err != nil {
			return
		}
	}
}

// Stop interrupts the watcher and, when the read could be canceled, waits
// for it to exit. The underlying input is left open for whoever reads it next.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		w.in.Close()
		return
	}
	w.cancel()
	if !w.in.Cancel() {
		w.logger.Debug("keyboard read not cancelable, leaving watcher to exit on input")
		return
	}
	<-w.done
	w.in.Close()
}

// Done is closed once the watcher has exited and the queue is closed.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func eventFor(r rune) Event {
	if r == '\n' || r == '\r' {
		return Event{Key: KeyEnter, Rune: r}
	}
	return Event{Key: KeyRune, Rune: r}
}
