package whoami

import (
	"fmt"
	"math/rand/v2"
	"net/netip"
	"time"
)

// payloadTag marks probe datagrams as ours. The timestamp and nonce
// make each probe unique so stray traffic can never masquerade as it.
const payloadTag = "netident-whoami"

// probeBlock is the first octet of the /8 the probe is aimed at. The
// block is not assigned, so the throwaway datagram bothers no real
// host; it only has to be routable enough for the OS to emit a frame.
const probeBlock = 177

func newPayload() []byte {
	return fmt.Appendf(nil, "%s %d %016x", payloadTag, time.Now().UnixNano(), rand.Uint64())
}

// randomTarget draws a pseudo-random address from the probe block.
func randomTarget() netip.Addr {
	return netip.AddrFrom4([4]byte{
		probeBlock,
		byte(rand.IntN(256)),
		byte(rand.IntN(256)),
		byte(1 + rand.IntN(254)),
	})
}

// randomPort picks a fresh high port for the probe's capture filter.
func randomPort() uint16 {
	return uint16(50000 + rand.IntN(15000))
}
