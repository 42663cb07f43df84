package platform

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/jackpal/gateway"

	"github.com/veidt/netident/pkg/capture"
)

// dialProbeAddr is an address in TEST-NET-1. Dialing UDP performs the
// kernel route lookup without emitting a packet.
const dialProbeAddr = "192.0.2.1:9"

// DefaultInterface determines the interface a newly opened UDP socket
// would route through to reach an external address. It matches the
// chosen local address against the enumerated interfaces, then tries
// the default-gateway-facing address, and finally asks the capture
// library for a default device.
func (a *Adapter) DefaultInterface() (string, error) {
	if name, err := dialInterface(); err == nil {
		return name, nil
	} else {
		slog.Debug("Dial-based interface detection failed", "error", err)
	}

	if name, err := gatewayInterface(); err == nil {
		return name, nil
	} else {
		slog.Debug("Gateway-based interface detection failed", "error", err)
	}

	if name, err := capture.DefaultDevice(); err == nil {
		return name, nil
	} else {
		slog.Debug("Capture default device lookup failed", "error", err)
	}

	return "", ErrNoRoute
}

func dialInterface() (string, error) {
	conn, err := net.Dial("udp4", dialProbeAddr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	local := conn.LocalAddr().(*net.UDPAddr).IP
	return interfaceByAddr(local)
}

func gatewayInterface() (string, error) {
	local, err := gateway.DiscoverInterface()
	if err != nil {
		return "", err
	}
	return interfaceByAddr(local)
}

// interfaceByAddr finds the interface that carries the given local
// address.
func interfaceByAddr(local net.IP) (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
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
			if ipNet.IP.Equal(local) {
				return ifc.Name, nil
			}
		}
	}
	return "", fmt.Errorf("platform: no interface carries %s", local)
}
