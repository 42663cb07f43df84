package arp

import (
	"net"
	"net/netip"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// NewRequest builds a broadcast ARP request asking who holds target.
// The target hardware address is left zeroed, as the protocol requires.
func NewRequest(srcMAC net.HardwareAddr, srcIP, target netip.Addr) ([]byte, error) {
	src := srcIP.As4()
	dst := target.As4()

	eth := layers.Ethernet{
		SrcMAC:       srcMAC,
		DstMAC:       net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
		EthernetType: layers.EthernetTypeARP,
	}

	req := layers.ARP{
		AddrType:          layers.LinkTypeEthernet,
		Protocol:          layers.EthernetTypeIPv4,
		HwAddressSize:     6,
		ProtAddressSize:   4,
		Operation:         layers.ARPRequest,
		SourceHwAddress:   []byte(srcMAC),
		SourceProtAddress: src[:],
		DstHwAddress:      []byte{0, 0, 0, 0, 0, 0},
		DstProtAddress:    dst[:],
	}

	buffer := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{}

	if err := gopacket.SerializeLayers(buffer, opts, &eth, &req); err != nil {
		return nil, err
	}

	return buffer.Bytes(), nil
}

// SenderOf returns the sender MAC of an ARP reply whose sender IP
// equals target. Matching is by sender IP only; any reply claiming the
// target address is treated as authoritative.
func SenderOf(pkt gopacket.Packet, target netip.Addr) (net.HardwareAddr, bool) {
	arpLayer := pkt.Layer(layers.LayerTypeARP)
	if arpLayer == nil {
		return nil, false
	}

	reply := arpLayer.(*layers.ARP)
	if reply.Operation != layers.ARPReply {
		return nil, false
	}

	sender, ok := netip.AddrFromSlice(reply.SourceProtAddress)
	if !ok || sender.Unmap() != target.Unmap() {
		return nil, false
	}

	return net.HardwareAddr(reply.SourceHwAddress), true
}
