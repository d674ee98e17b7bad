package decode

import (
	"fmt"
	"time"

	"framewatch/internal/models"

	"github.com/google/gopacket/layers"
)

const (
	// UnrecognizedLabel is the protocol label of a placeholder record.
	UnrecognizedLabel = "Unrecognized"
	// UnrecognizedDetails is the details text of a placeholder record.
	UnrecognizedDetails = "Unrecognized frame"
	// MalformedIPv4Details replaces the address summary when the inner
	// IPv4 header cannot be parsed.
	MalformedIPv4Details = "IPv4 (malformed header)"

	unknownAddress = "-"
)

// Builder constructs display records from raw frames.
type Builder struct {
	decoder HeaderDecoder
	now     func() time.Time
}

// NewBuilder returns a Builder using the given decoder. A nil decoder
// selects the gopacket decoder.
func NewBuilder(decoder HeaderDecoder) *Builder {
	if decoder == nil {
		decoder = &Gopacket{}
	}
	return &Builder{decoder: decoder, now: time.Now}
}

// WithClock replaces the clock used for record timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build decodes frame into a DisplayRecord. It never fails: frames whose
// link-layer header cannot be decoded yield a placeholder record.
func (b *Builder) Build(frame []byte) (rec models.DisplayRecord) {
	rec = models.DisplayRecord{
		Timestamp: b.now().Local().Format(models.TimestampLayout),
		Length:    len(frame),
	}
	// A decoder panic on hostile input still produces a record.
	defer func() {
		if r := recover(); r != nil {
			rec = placeholder(rec)
		}
	}()

	link, err := b.decoder.DecodeLinkLayer(frame)
	if err != nil {
		return placeholder(rec)
	}

	rec.Source = link.Source.String()
	rec.Destination = link.Destination.String()
	rec.Protocol = models.Protocol{Tag: link.EtherType, Label: link.EtherType.String()}

	if link.EtherType != layers.EthernetTypeIPv4 {
		rec.Details = rec.Protocol.Label
		return rec
	}

	ip, err := b.decoder.DecodeIPv4(link.Payload)
	if err != nil {
		rec.Details = MalformedIPv4Details
		return rec
	}
	rec.Details = fmt.Sprintf("IPv4 %s -> %s", ip.Source, ip.Destination)
	return rec
}

func placeholder(rec models.DisplayRecord) models.DisplayRecord {
	return models.DisplayRecord{
		Timestamp:   rec.Timestamp,
		Source:      unknownAddress,
		Destination: unknownAddress,
		Protocol:    models.Protocol{Label: UnrecognizedLabel},
		Details:     UnrecognizedDetails,
		Length:      rec.Length,
		Malformed:   true,
	}
}
