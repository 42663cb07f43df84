//go:build linux

package arpcache

import (
	"errors"
	"net"
	"net/netip"

	"github.com/jsimonetti/rtnetlink/rtnl"
	"golang.org/x/sys/unix"
)

// getNeighbours retrieves the IPv4 kernel neighbour table for an
// interface. Variable for mocking in tests.
var getNeighbours = func(iface *net.Interface) ([]*rtnl.Neigh, error) {
	c, err := rtnl.Dial(nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	return c.Neighbours(iface, unix.AF_INET)
}

// KernelLookup checks the kernel neighbour table for ip on the
// provided interface and returns the bound MAC address if present.
func KernelLookup(ip netip.Addr, iface *net.Interface) (net.HardwareAddr, error) {
	neighbours, err := getNeighbours(iface)
	if err != nil {
		return nil, err
	}

	target := net.IP(ip.AsSlice())
	for _, n := range neighbours {
		if n.IP.Equal(target) && len(n.HwAddr) > 0 {
			return n.HwAddr, nil
		}
	}
	return nil, errors.New("arpcache: no kernel neighbour entry found")
}
