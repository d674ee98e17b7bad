// Package capture reads raw link-layer frames from a live interface.
package capture

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/gopacket/pcap"
	"go.uber.org/zap"
)

var (
	// ErrReadTimeout is returned by Next when a read timeout is configured
	// and no frame arrived within it. It is not a capture failure.
	ErrReadTimeout = errors.New("capture: read timeout")
	// ErrSourceClosed is returned once the handle can yield no more frames.
	ErrSourceClosed = errors.New("capture: source closed")
)

// FrameSource yields one raw frame per call, blocking until one arrives.
type FrameSource interface {
	Next() ([]byte, error)
}

// Config controls how a live handle is opened.
type Config struct {
	Interface string
	// SnapLen is the maximum number of bytes kept per frame.
	// Defaults to 1600 if unset or <= 0.
	SnapLen int
	Promisc bool
	// ReadTimeout bounds how long Next waits for a frame.
	// Zero or negative blocks forever.
	ReadTimeout time.Duration
}

// Counters are the driver level totals reported by libpcap.
type Counters struct {
	Received         int
	Dropped          int
	InterfaceDropped int
}

// Handle is an open capture session on one interface.
type Handle struct {
	name   string
	handle *pcap.Handle
	logger *zap.Logger
}

// Open starts a live capture on cfg.Interface.
func Open(cfg Config, logger *zap.Logger) (*Handle, error) {
	if cfg.Interface == "" {
		return nil, errors.New("capture: no interface given")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	snaplen := cfg.SnapLen
	if snaplen <= 0 {
		snaplen = 1600
	}
	timeout := pcap.BlockForever
	if cfg.ReadTimeout > 0 {
		timeout = cfg.ReadTimeout
	}

	h, err := pcap.OpenLive(cfg.Interface, int32(snaplen), cfg.Promisc, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to open interface %q: %w", cfg.Interface, err)
	}
	logger.Debug("capture handle opened",
		zap.String("interface", cfg.Interface),
		zap.Int("snaplen", snaplen),
		zap.Bool("promisc", cfg.Promisc),
		zap.Stringer("link_type", h.LinkType()),
	)
	return &Handle{name: cfg.Interface, handle: h, logger: logger}, nil
}

// Name returns the interface the handle captures on.
func (h *Handle) Name() string {
	return h.name
}

// Next returns the next captured frame. The returned slice is owned by
// the caller.
func (h *Handle) Next() ([]byte, error) {
	data, _, err := h.handle.ReadPacketData()
	if err != nil {
		return nil, h.translate(err)
	}
	return data, nil
}

func (h *Handle) translate(err error) error {
	switch {
	case errors.Is(err, pcap.NextErrorTimeoutExpired):
		return ErrReadTimeout
	case errors.Is(err, io.EOF), errors.Is(err, pcap.NextErrorNoMorePackets):
		return ErrSourceClosed
	default:
		return fmt.Errorf("read frame on %s: %w", h.name, err)
	}
}

// Stats returns the libpcap counters for this handle.
func (h *Handle) Stats() (Counters, error) {
	st, err := h.handle.Stats()
	if err != nil {
		return Counters{}, fmt.Errorf("pcap stats on %s: %w", h.name, err)
	}
	return Counters{
		Received:         st.PacketsReceived,
		Dropped:          st.PacketsDropped,
		InterfaceDropped: st.PacketsIfDropped,
	}, nil
}

// Close releases the handle.
func (h *Handle) Close() {
	h.handle.Close()
	h.logger.Debug("capture handle closed", zap.String("interface", h.name))
}
