// Package arp resolves IPv4 addresses to MAC addresses, consulting the
// cache and the kernel first and falling back to a live probe.
package arp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/veidt/netident/pkg/arpcache"
	"github.com/veidt/netident/pkg/capture"
	"github.com/veidt/netident/pkg/platform"
)

const (
	// DefaultTimeout bounds a live probe when Options.Timeout is unset.
	DefaultTimeout = 3 * time.Second

	// pollInterval is the cadence at which the deadline is checked
	// while waiting for a matching reply.
	pollInterval = 100 * time.Millisecond
)

// ErrTimeout is returned when no matching reply arrived within the
// timeout. It is a hard boundary; the caller decides whether to retry.
var ErrTimeout = errors.New("arp: resolution timed out")

// Options adjust a single Resolve call. Zero values select defaults:
// the adapter's default interface, that interface's own identity and
// DefaultTimeout.
type Options struct {
	Iface       string
	SourceMAC   net.HardwareAddr
	SourceIP    netip.Addr
	Timeout     time.Duration
	BypassCache bool
}

// Resolver answers "which MAC holds this IP" for the local segment.
type Resolver struct {
	cache   *arpcache.Cache
	adapter *platform.Adapter
	open    capture.Opener
}

// NewResolver returns a Resolver backed by the given cache.
func NewResolver(cache *arpcache.Cache, adapter *platform.Adapter) *Resolver {
	return &Resolver{
		cache:   cache,
		adapter: adapter,
		open:    capture.OpenLive,
	}
}

// Resolve returns the MAC address behind target. Unless BypassCache is
// set, the cache and the kernel table are consulted before a live
// probe: inject one broadcast request, capture the matching reply,
// enforce the timeout. A successful live result is recorded into the
// cache.
func (r *Resolver) Resolve(ctx context.Context, target netip.Addr, opts Options) (net.HardwareAddr, error) {
	target = target.Unmap()
	if !target.Is4() {
		return nil, fmt.Errorf("arp: target %s is not an IPv4 address", target)
	}
	if opts.SourceIP.IsValid() {
		opts.SourceIP = opts.SourceIP.Unmap()
		if !opts.SourceIP.Is4() {
			return nil, fmt.Errorf("arp: source %s is not an IPv4 address", opts.SourceIP)
		}
	}

	if !opts.BypassCache {
		if e, ok := r.cache.Lookup(target); ok {
			slog.Debug("ARP cache hit", "target", target, "mac", e.MAC)
			return e.MAC, nil
		}
	}

	iface := opts.Iface
	if iface == "" {
		name, err := r.adapter.DefaultInterface()
		if err != nil {
			return nil, err
		}
		iface = name
	}

	if !opts.BypassCache {
		if ifc, err := net.InterfaceByName(iface); err == nil {
			if mac, err := arpcache.KernelLookup(target, ifc); err == nil {
				r.cache.Record(arpcache.Entry{IP: target, MAC: mac, Iface: iface})
				return mac, nil
			}
		}
	}

	srcMAC, srcIP := opts.SourceMAC, opts.SourceIP
	if srcMAC == nil || !srcIP.IsValid() {
		mac, ip, err := platform.Identity(iface)
		if err != nil {
			return nil, err
		}
		if srcMAC == nil {
			srcMAC = mac
		}
		if !srcIP.IsValid() {
			srcIP = ip
		}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	mac, err := r.probe(ctx, iface, target, srcMAC, srcIP, timeout)
	if err != nil {
		return nil, err
	}
	r.cache.Record(arpcache.Entry{IP: target, MAC: mac, Iface: iface})
	return mac, nil
}

// probe injects one ARP request and waits for a reply whose sender IP
// is target. The capture is armed before injection and is always
// released, joining the receiver, on every exit path.
func (r *Resolver) probe(ctx context.Context, iface string, target netip.Addr, srcMAC net.HardwareAddr, srcIP netip.Addr, timeout time.Duration) (net.HardwareAddr, error) {
	filter := fmt.Sprintf("arp and src host %s and ether dst %s", target, srcMAC)
	handle, err := r.open(iface, filter, false)
	if err != nil {
		return nil, err
	}

	macChan := make(chan net.HardwareAddr, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			data, _, err := handle.ReadPacketData()
			if err != nil {
				// Handle closed or capture failed; either way the
				// rendezvous in the select below decides the outcome.
				return
			}
			pkt := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default)
			if mac, ok := SenderOf(pkt, target); ok {
				macChan <- mac
				return
			}
		}
	}()

	request, err := NewRequest(srcMAC, srcIP, target)
	if err == nil {
		err = handle.WritePacketData(request)
	}
	if err != nil {
		handle.Close()
		<-done
		return nil, err
	}

	slog.Debug("ARP request injected", "iface", iface, "target", target, "timeout", timeout)

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var (
		mac  net.HardwareAddr
		rerr error
	)
loop:
	for {
		select {
		case mac = <-macChan:
			break loop
		case <-ctx.Done():
			rerr = ctx.Err()
			break loop
		case <-ticker.C:
			if time.Now().After(deadline) {
				rerr = fmt.Errorf("%w: no reply from %s within %s", ErrTimeout, target, timeout)
				break loop
			}
		}
	}

	handle.Close()
	<-done
	return mac, rerr
}
