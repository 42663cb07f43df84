// Package capture is the boundary to the live capture/injection
// mechanism. The rest of the module talks to a Handle, never to pcap
// directly, so the live paths can be exercised with fake handles.
package capture

import (
	"errors"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcap"
)

const snaplen = 65536

// Handle is the subset of *pcap.Handle the module needs: read the next
// captured frame, inject a frame, release the capture.
type Handle interface {
	ReadPacketData() (data []byte, ci gopacket.CaptureInfo, err error)
	WritePacketData(data []byte) error
	Close()
}

// Opener opens a capture on a device with a BPF filter applied.
type Opener func(device, filter string, promisc bool) (Handle, error)

// OpenLive opens a pcap capture on device. The filter is applied
// before the handle is returned, so frames matching it are collected
// from this point on.
func OpenLive(device, filter string, promisc bool) (Handle, error) {
	h, err := pcap.OpenLive(device, snaplen, promisc, pcap.BlockForever)
	if err != nil {
		return nil, err
	}
	if filter != "" {
		if err := h.SetBPFFilter(filter); err != nil {
			h.Close()
			return nil, fmt.Errorf("capture: applying filter %q: %w", filter, err)
		}
	}
	return h, nil
}

// DefaultDevice returns the first capturable device that has a
// non-loopback address assigned.
func DefaultDevice() (string, error) {
	devs, err := pcap.FindAllDevs()
	if err != nil {
		return "", err
	}
	for _, dev := range devs {
		for _, addr := range dev.Addresses {
			if addr.IP != nil && !addr.IP.IsLoopback() {
				return dev.Name, nil
			}
		}
	}
	return "", errors.New("capture: no default device found")
}
