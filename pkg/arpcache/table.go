package arpcache

import (
	"log/slog"
	"net"
	"net/netip"
	"os/exec"
	"regexp"
	"strings"
)

// tableLine matches the "arp -an" output shared by Linux and the BSDs:
//
//	? (10.0.0.5) at aa:bb:cc:dd:ee:ff [ether] on eth0
//	hostname (10.0.0.5) at aa:bb:cc:dd:ee:ff on en0 ifscope [ethernet]
//
// Trailing decorations after the interface name are ignored.
var tableLine = regexp.MustCompile(`^\S+ \((\d+\.\d+\.\d+\.\d+)\) at ([0-9A-Fa-f:]+) (?:\[ether\] )?on (\S+)`)

// fetchSystemTable retrieves the raw ARP table text from the OS.
// Variable for mocking in tests.
var fetchSystemTable = func() (string, error) {
	out, err := exec.Command("arp", "-an").Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ParseTable extracts one Entry per well-formed ARP table line. Lines
// that don't match the grammar, including incomplete entries, are
// skipped and never fatal.
func ParseTable(text string) []Entry {
	var entries []Entry
	for line := range strings.Lines(text) {
		m := tableLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		ip, err := netip.ParseAddr(m[1])
		if err != nil {
			continue
		}
		mac, err := net.ParseMAC(m[2])
		if err != nil {
			slog.Debug("Skipping ARP table line with unparsable MAC", "line", strings.TrimSpace(line))
			continue
		}
		entries = append(entries, Entry{IP: ip, MAC: mac, Iface: m[3]})
	}
	return entries
}
