package capture

import (
	"fmt"

	"github.com/google/gopacket/pcap"
)

// Interface describes one capture device.
type Interface struct {
	Name        string
	Description string
	Addresses   []string
}

// Interfaces lists the devices libpcap can capture on, in the order
// libpcap reports them.
func Interfaces() ([]Interface, error) {
	devs, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("could not list interfaces: %w", err)
	}
	return fromDevices(devs), nil
}

func fromDevices(devs []pcap.Interface) []Interface {
	out := make([]Interface, 0, len(devs))
	for _, d := range devs {
		ifi := Interface{
			Name:        d.Name,
			Description: d.Description,
		}
		for _, a := range d.Addresses {
			if a.IP == nil {
				continue
			}
			ifi.Addresses = append(ifi.Addresses, a.IP.String())
		}
		out = append(out, ifi)
	}
	return out
}
