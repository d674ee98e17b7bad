// Package decode turns raw link-layer frames into display records.
package decode

import (
	"errors"
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ErrMalformed is wrapped by every header decoding failure.
var ErrMalformed = errors.New("malformed header")

// LinkHeader is the part of a link-layer header the record needs.
type LinkHeader struct {
	Source      net.HardwareAddr
	Destination net.HardwareAddr
	EtherType   layers.EthernetType
	Payload     []byte
}

// NetworkHeader holds the addresses of an encapsulated IPv4 header.
type NetworkHeader struct {
	Source      net.IP
	Destination net.IP
}

// HeaderDecoder extracts link and network header fields from raw bytes.
type HeaderDecoder interface {
	DecodeLinkLayer(data []byte) (LinkHeader, error)
	DecodeIPv4(payload []byte) (NetworkHeader, error)
}

// Gopacket decodes headers with the gopacket layer decoders.
// The zero value is ready to use; it is not safe for concurrent use.
type Gopacket struct {
	eth layers.Ethernet
	ip4 layers.IPv4
}

// DecodeLinkLayer parses an Ethernet II header.
func (g *Gopacket) DecodeLinkLayer(data []byte) (LinkHeader, error) {
	if err := g.eth.DecodeFromBytes(data, gopacket.NilDecodeFeedback); err != nil {
		return LinkHeader{}, fmt.Errorf("%w: ethernet: %v", ErrMalformed, err)
	}
	return LinkHeader{
		Source:      g.eth.SrcMAC,
		Destination: g.eth.DstMAC,
		EtherType:   g.eth.EthernetType,
		Payload:     g.eth.Payload,
	}, nil
}

// DecodeIPv4 parses an IPv4 header out of an Ethernet payload.
func (g *Gopacket) DecodeIPv4(payload []byte) (NetworkHeader, error) {
	if err := g.ip4.DecodeFromBytes(payload, gopacket.NilDecodeFeedback); err != nil {
		return NetworkHeader{}, fmt.Errorf("%w: ipv4: %v", ErrMalformed, err)
	}
	return NetworkHeader{
		Source:      g.ip4.SrcIP,
		Destination: g.ip4.DstIP,
	}, nil
}
