// Package whoami discovers the local host's own link and IP identity
// on an interface by sending a uniquely tagged UDP datagram and
// capturing it back off the wire.
package whoami

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/veidt/netident/pkg/capture"
	"github.com/veidt/netident/pkg/platform"
)

// DefaultTimeout bounds a probe when Options.Timeout is unset.
const DefaultTimeout = time.Second

var (
	// ErrMismatch is returned when a frame passed the capture filter
	// but its payload differs from the probe. Something else is
	// emitting traffic that looks like ours; treated as an anomaly and
	// never retried.
	ErrMismatch = errors.New("whoami: captured payload does not match probe")

	// ErrTimeout is returned when the probe was never captured.
	ErrTimeout = errors.New("whoami: probe not captured before timeout")
)

// Result is the local identity extracted from the captured probe. The
// destination MAC faces the gateway (or is unset on loopback captures).
type Result struct {
	Iface      string
	SrcMAC     net.HardwareAddr
	GatewayMAC net.HardwareAddr
	SrcIP      netip.Addr
}

// Options adjust a single Discover call. Zero values select defaults:
// the adapter's default interface, a pseudo-random target and
// DefaultTimeout.
type Options struct {
	Iface   string
	Target  netip.Addr
	Timeout time.Duration
}

// probe lifecycle states, for diagnostics.
type state int

const (
	stateIdle state = iota
	stateListening
	stateProbeSent
	stateMatched
	stateMismatched
	stateTimedOut
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateListening:
		return "listening"
	case stateProbeSent:
		return "probe-sent"
	case stateMatched:
		return "matched"
	case stateMismatched:
		return "mismatched"
	case stateTimedOut:
		return "timed-out"
	}
	return "unknown"
}

// Prober performs the probe-and-capture discovery.
type Prober struct {
	adapter    *platform.Adapter
	open       capture.Opener
	sendUDP    func(dst netip.AddrPort, payload []byte) error
	isLoopback func(iface string) bool
}

// NewProber returns a Prober using live capture and a plain UDP socket
// for the probe send.
func NewProber(adapter *platform.Adapter) *Prober {
	return &Prober{
		adapter:    adapter,
		open:       capture.OpenLive,
		sendUDP:    sendUDP,
		isLoopback: platform.IsLoopback,
	}
}

// sendUDP fires the probe datagram. The send is best-effort: it is not
// expected to reach anything, its only purpose is to make the OS emit
// a frame carrying the host's true identity.
func sendUDP(dst netip.AddrPort, payload []byte) error {
	conn, err := net.DialUDP("udp4", nil, net.UDPAddrFromAddrPort(dst))
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Write(payload)
	return err
}

// Discover determines the local identity on the chosen interface. The
// capture is fully armed before the probe is sent, so a fast loopback
// echo cannot be missed. The result is only returned after the capture
// goroutine has finished.
func (p *Prober) Discover(ctx context.Context, opts Options) (Result, error) {
	st := stateIdle

	iface := opts.Iface
	if iface == "" {
		name, err := p.adapter.DefaultInterface()
		if err != nil {
			return Result{}, err
		}
		iface = name
	}

	target := opts.Target
	if !target.IsValid() {
		target = randomTarget()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	port := randomPort()
	payload := newPayload()

	// On a loopback interface the datagram never leaves the host, so
	// both the capture and the send have to use the loopback address;
	// a frame toward the random target would never pass the filter.
	if p.isLoopback(iface) {
		target = netip.MustParseAddr("127.0.0.1")
	}
	filter := fmt.Sprintf("udp and dst port %d and dst host %s", port, target)

	handle, err := p.open(iface, filter, false)
	if err != nil {
		return Result{}, err
	}
	st = stateListening
	slog.Debug("Identity probe armed", "state", st, "iface", iface, "target", target, "port", port)

	type outcome struct {
		res Result
		err error
	}
	outChan := make(chan outcome, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			data, _, err := handle.ReadPacketData()
			if err != nil {
				// Handle closed; the select below reports the timeout.
				return
			}
			pkt := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default)
			udpLayer := pkt.Layer(layers.LayerTypeUDP)
			if udpLayer == nil {
				continue
			}
			got := udpLayer.(*layers.UDP).Payload
			if !bytes.Equal(got, payload) {
				outChan <- outcome{err: fmt.Errorf("%w: got %d bytes on %s", ErrMismatch, len(got), iface)}
				return
			}
			outChan <- outcome{res: extractIdentity(pkt, iface)}
			return
		}
	}()

	if err := p.sendUDP(netip.AddrPortFrom(target, port), payload); err != nil {
		handle.Close()
		<-done
		return Result{}, err
	}
	st = stateProbeSent
	slog.Debug("Identity probe sent", "state", st, "payload_len", len(payload))

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var out outcome
	select {
	case out = <-outChan:
	case <-ctx.Done():
		out.err = ctx.Err()
	case <-timer.C:
		out.err = fmt.Errorf("%w: nothing on %s after %s", ErrTimeout, iface, timeout)
	}

	handle.Close()
	<-done

	switch {
	case out.err == nil:
		st = stateMatched
	case errors.Is(out.err, ErrMismatch):
		st = stateMismatched
	case errors.Is(out.err, ErrTimeout):
		st = stateTimedOut
	}
	slog.Debug("Identity probe finished", "state", st, "error", out.err)

	return out.res, out.err
}

// extractIdentity pulls the local identity out of the captured probe
// frame. Loopback captures have no Ethernet layer; the MAC fields stay
// unset there.
func extractIdentity(pkt gopacket.Packet, iface string) Result {
	res := Result{Iface: iface}
	if ethLayer := pkt.Layer(layers.LayerTypeEthernet); ethLayer != nil {
		eth := ethLayer.(*layers.Ethernet)
		res.SrcMAC = eth.SrcMAC
		res.GatewayMAC = eth.DstMAC
	}
	if ipLayer := pkt.Layer(layers.LayerTypeIPv4); ipLayer != nil {
		ip := ipLayer.(*layers.IPv4)
		if a, ok := netip.AddrFromSlice(ip.SrcIP.To4()); ok {
			res.SrcIP = a
		}
	}
	return res
}
