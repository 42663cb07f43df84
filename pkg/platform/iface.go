package platform

import (
	"fmt"
	"net"
	"net/netip"
)

// IfaceAddr is one (interface, family, address) tuple from the host's
// interface enumeration.
type IfaceAddr struct {
	Name   string
	Family string // "inet" or "inet6"
	Addr   netip.Addr
}

// Interfaces enumerates every configured address on the host.
func Interfaces() ([]IfaceAddr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var out []IfaceAddr
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			a, ok := netip.AddrFromSlice(ipNet.IP)
			if !ok {
				continue
			}
			a = a.Unmap()
			family := "inet6"
			if a.Is4() {
				family = "inet"
			}
			out = append(out, IfaceAddr{Name: ifc.Name, Family: family, Addr: a})
		}
	}
	return out, nil
}

// Identity returns the link-layer address and first IPv4 address of
// the named interface, the defaults used when probing.
func Identity(name string) (net.HardwareAddr, netip.Addr, error) {
	ifc, err := net.InterfaceByName(name)
	if err != nil {
		return nil, netip.Addr{}, err
	}
	addrs, err := ifc.Addrs()
	if err != nil {
		return nil, netip.Addr{}, err
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if v4 := ipNet.IP.To4(); v4 != nil {
			a, _ := netip.AddrFromSlice(v4)
			return ifc.HardwareAddr, a, nil
		}
	}
	return ifc.HardwareAddr, netip.Addr{}, fmt.Errorf("platform: no IPv4 address on %s", name)
}

// IsLoopback reports whether the named interface is a loopback
// interface. Unknown interfaces are not loopbacks.
func IsLoopback(name string) bool {
	ifc, err := net.InterfaceByName(name)
	if err != nil {
		return false
	}
	return ifc.Flags&net.FlagLoopback != 0
}

// IsEthernet reports whether the named interface uses Ethernet
// framing. Point-to-point and loopback interfaces, and interfaces
// without a hardware address, do not.
func IsEthernet(name string) bool {
	ifc, err := net.InterfaceByName(name)
	if err != nil {
		return false
	}
	if ifc.Flags&(net.FlagPointToPoint|net.FlagLoopback) != 0 {
		return false
	}
	return len(ifc.HardwareAddr) > 0
}
