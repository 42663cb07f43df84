package ifconfig

import (
	"encoding/binary"
	"fmt"
	"net"
	"net/netip"
	"regexp"
	"strconv"
	"strings"
)

// grammar holds the field patterns for one platform's status output.
// Patterns are tried in order, the first match wins, so a grammar can
// cover several vintages of the same tool (net-tools vs iproute2-era
// ifconfig on Linux, for instance).
type grammar struct {
	mac      []*regexp.Regexp // one capture group: the link-layer address
	ipv4     []*regexp.Regexp // two capture groups: address, mask
	ipv6     []*regexp.Regexp // two capture groups: address, prefix length
	maskBits func(string) (int, error)
}

var grammars = map[OS]grammar{
	Linux: {
		mac: []*regexp.Regexp{
			regexp.MustCompile(`(?:HWaddr|ether)\s+([0-9A-Fa-f]{2}(?::[0-9A-Fa-f]{2}){5})`),
		},
		ipv4: []*regexp.Regexp{
			regexp.MustCompile(`inet (?:addr:)?(\d+\.\d+\.\d+\.\d+)\s+.*(?:Mask:|netmask )(\d+\.\d+\.\d+\.\d+)`),
		},
		ipv6: []*regexp.Regexp{
			regexp.MustCompile(`inet6 addr:\s*([0-9A-Fa-f:]+)/(\d+)`),
			regexp.MustCompile(`inet6 ([0-9A-Fa-f:]+)(?:%[0-9A-Za-z]+)?\s+prefixlen (\d+)`),
		},
		maskBits: dottedMaskBits,
	},
	Darwin: {
		mac: []*regexp.Regexp{
			regexp.MustCompile(`ether ([0-9A-Fa-f]{2}(?::[0-9A-Fa-f]{2}){5})`),
		},
		ipv4: []*regexp.Regexp{
			regexp.MustCompile(`inet (\d+\.\d+\.\d+\.\d+) netmask (0x[0-9A-Fa-f]{8})`),
		},
		ipv6: []*regexp.Regexp{
			regexp.MustCompile(`inet6 ([0-9A-Fa-f:]+)(?:%[0-9A-Za-z]+)? prefixlen (\d+)`),
		},
		maskBits: hexMaskBits,
	},
	FreeBSD: {
		mac: []*regexp.Regexp{
			regexp.MustCompile(`ether ([0-9A-Fa-f]{2}(?::[0-9A-Fa-f]{2}){5})`),
		},
		ipv4: []*regexp.Regexp{
			regexp.MustCompile(`inet (\d+\.\d+\.\d+\.\d+) netmask (0x[0-9A-Fa-f]{8})`),
		},
		ipv6: []*regexp.Regexp{
			regexp.MustCompile(`inet6 ([0-9A-Fa-f:]+)(?:%[0-9A-Za-z]+)? prefixlen (\d+)`),
		},
		maskBits: hexMaskBits,
	},
	OpenBSD: {
		mac: []*regexp.Regexp{
			regexp.MustCompile(`lladdr ([0-9A-Fa-f]{2}(?::[0-9A-Fa-f]{2}){5})`),
		},
		ipv4: []*regexp.Regexp{
			regexp.MustCompile(`inet (\d+\.\d+\.\d+\.\d+) netmask (0x[0-9A-Fa-f]{8})`),
		},
		ipv6: []*regexp.Regexp{
			regexp.MustCompile(`inet6 ([0-9A-Fa-f:]+)(?:%[0-9A-Za-z]+)? prefixlen (\d+)`),
		},
		maskBits: hexMaskBits,
	},
}

// Parse extracts the canonical configuration of iface from the raw
// status text of the given platform. It fails with ErrInvalidName for
// unsafe interface names, ErrUnsupportedPlatform for unknown OS tags
// and *ParseError when the text holds no section for iface. Fields the
// grammar cannot match are left unset, not treated as fatal.
func Parse(os OS, text, iface string) (Config, error) {
	if err := ValidName(iface); err != nil {
		return Config{}, err
	}
	g, ok := grammars[os]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, os)
	}

	section, ok := extractSection(text, iface)
	if !ok {
		return Config{}, &ParseError{Iface: iface, OS: os}
	}

	cfg := Config{Name: iface}

	for _, re := range g.mac {
		m := re.FindStringSubmatch(section)
		if m == nil {
			continue
		}
		if hw, err := net.ParseMAC(m[1]); err == nil {
			cfg.MAC = hw
			break
		}
	}

	for _, re := range g.ipv4 {
		m := re.FindStringSubmatch(section)
		if m == nil {
			continue
		}
		addr, err := netip.ParseAddr(m[1])
		if err != nil || !addr.Is4() {
			continue
		}
		bits, err := g.maskBits(m[2])
		if err != nil {
			continue
		}
		cfg.IPv4 = netip.PrefixFrom(addr, bits)
		break
	}

	for _, re := range g.ipv6 {
		m := re.FindStringSubmatch(section)
		if m == nil {
			continue
		}
		addr, err := netip.ParseAddr(m[1])
		if err != nil || !addr.Is6() {
			continue
		}
		bits, err := strconv.Atoi(m[2])
		if err != nil || bits < 0 || bits > 128 {
			continue
		}
		cfg.IPv6 = netip.PrefixFrom(addr, bits)
		break
	}

	return cfg, nil
}

// extractSection returns the block of text belonging to iface: the
// line the interface name starts plus every indented line that follows.
func extractSection(text, iface string) (string, bool) {
	var b strings.Builder
	found := false
	for line := range strings.Lines(text) {
		if !found {
			if isSectionStart(line, iface) {
				found = true
				b.WriteString(line)
			}
			continue
		}
		trimmed := strings.TrimRight(line, "\n")
		if trimmed == "" || (trimmed[0] != ' ' && trimmed[0] != '\t') {
			break
		}
		b.WriteString(line)
	}
	return b.String(), found
}

func isSectionStart(line, iface string) bool {
	if !strings.HasPrefix(line, iface) {
		return false
	}
	rest := strings.TrimRight(line[len(iface):], "\n")
	return rest == "" || rest[0] == ':' || rest[0] == ' ' || rest[0] == '\t'
}

// dottedMaskBits normalizes a dotted-quad netmask to a prefix length.
func dottedMaskBits(s string) (int, error) {
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return 0, fmt.Errorf("ifconfig: bad netmask %q", s)
	}
	ones, bits := net.IPMask(ip.To4()).Size()
	if bits == 0 {
		return 0, fmt.Errorf("ifconfig: non-contiguous netmask %q", s)
	}
	return ones, nil
}

// hexMaskBits normalizes a 0x-prefixed hex netmask to a prefix length.
func hexMaskBits(s string) (int, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("ifconfig: bad netmask %q: %w", s, err)
	}
	mask := make(net.IPMask, 4)
	binary.BigEndian.PutUint32(mask, uint32(v))
	ones, bits := mask.Size()
	if bits == 0 {
		return 0, fmt.Errorf("ifconfig: non-contiguous netmask %q", s)
	}
	return ones, nil
}
