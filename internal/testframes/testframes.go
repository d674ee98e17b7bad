// Package testframes serializes Ethernet frames for tests.
package testframes

import (
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

var (
	// HostMAC and PeerMAC are the link addresses used by every frame built here.
	HostMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	PeerMAC = net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02}
)

// IPv4 builds an Ethernet frame carrying an IPv4/UDP datagram from src to dst.
func IPv4(src, dst string) []byte {
	eth := layers.Ethernet{
		SrcMAC:       HostMAC,
		DstMAC:       PeerMAC,
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.ParseIP(src).To4(),
		DstIP:    net.ParseIP(dst).To4(),
	}
	udp := layers.UDP{SrcPort: 40000, DstPort: 53}
	if err := udp.SetNetworkLayerForChecksum(&ip); err != nil {
		panic(err)
	}
	return serialize(&eth, &ip, &udp, gopacket.Payload([]byte("ping")))
}

// ARP builds a broadcast ARP request for dst sent from src.
func ARP(src, dst string) []byte {
	eth := layers.Ethernet{
		SrcMAC:       HostMAC,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}
	arp := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(HostMAC),
		SourceProtAddress: []byte(net.ParseIP(src).To4()),
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    []byte(net.ParseIP(dst).To4()),
	}
	return serialize(&eth, &arp)
}

// IPv4Truncated builds a frame tagged IPv4 whose payload is too short to
// hold an IPv4 header. It is assembled by hand since serialization pads
// Ethernet frames to the 60 byte minimum.
func IPv4Truncated() []byte {
	frame := make([]byte, 0, 17)
	frame = append(frame, PeerMAC...)
	frame = append(frame, HostMAC...)
	frame = append(frame, 0x08, 0x00)
	return append(frame, 0x45, 0x00, 0x00)
}

func serialize(l ...gopacket.SerializableLayer) []byte {
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}
	if err := gopacket.SerializeLayers(buf, opts, l...); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
