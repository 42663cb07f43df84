//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package arpcache

import (
	"fmt"
	"net"
	"net/netip"
	"runtime"
)

// KernelLookup is unavailable on this platform; callers fall back to
// the textual ARP table or a live probe.
func KernelLookup(_ netip.Addr, _ *net.Interface) (net.HardwareAddr, error) {
	return nil, fmt.Errorf("arpcache: kernel ARP lookup not supported on %s", runtime.GOOS)
}
