package models

import (
	"fmt"

	"github.com/google/gopacket/layers"
)

// TimestampLayout is the fixed, millisecond precision format of DisplayRecord.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05.000"

// Protocol is a decoded ethertype: the raw tag plus its readable label.
type Protocol struct {
	Tag   layers.EthernetType
	Label string
}

// String renders the protocol as "Label (0xNNNN)".
func (p Protocol) String() string {
	return fmt.Sprintf("%s (0x%04x)", p.Label, uint16(p.Tag))
}

// DisplayRecord holds the fully decoded summary of one captured frame.
// It is built once and never mutated, so it can sit in a pause buffer
// without any further decoding work.
type DisplayRecord struct {
	Timestamp   string
	Source      string
	Destination string
	Protocol    Protocol
	Details     string
	Length      int

	// Malformed marks a placeholder built for a frame whose link-layer
	// header could not be decoded.
	Malformed bool
}
