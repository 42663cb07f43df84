//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package arpcache

import (
	"errors"
	"net"
	"net/netip"

	"github.com/juruen/goarp/arp"
)

// getKernelTable retrieves the kernel ARP table entries.
// Variable for mocking in tests.
var getKernelTable = func() ([]arp.Entry, error) {
	return arp.DumpArpTable()
}

// KernelLookup checks the kernel ARP table for ip and returns the
// bound MAC address if present. The BSD sysctl interface does not
// filter by interface, so the iface argument is ignored here.
func KernelLookup(ip netip.Addr, _ *net.Interface) (net.HardwareAddr, error) {
	entries, err := getKernelTable()
	if err != nil {
		return nil, err
	}

	target := net.IP(ip.AsSlice())
	for _, entry := range entries {
		if entry.IPAddr.Equal(target) {
			return entry.HwAddr, nil
		}
	}
	return nil, errors.New("arpcache: no kernel ARP entry found")
}
