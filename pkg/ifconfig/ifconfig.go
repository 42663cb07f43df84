// Package ifconfig parses the textual interface-status output of the
// supported operating systems into a single canonical record.
package ifconfig

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"regexp"
)

// OS selects the parsing grammar for one platform family.
type OS string

const (
	Linux   OS = "linux"
	Darwin  OS = "darwin"
	FreeBSD OS = "freebsd"
	OpenBSD OS = "openbsd"
)

var (
	// ErrUnsupportedPlatform is returned for an OS tag without a grammar.
	ErrUnsupportedPlatform = errors.New("ifconfig: unsupported platform")

	// ErrInvalidName is returned for interface names containing anything
	// other than alphanumerics. Names are used in patterns and external
	// commands, so nothing else is allowed through.
	ErrInvalidName = errors.New("ifconfig: invalid interface name")
)

// ParseError indicates that the status text held no usable section for
// the requested interface.
type ParseError struct {
	Iface string
	OS    OS
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ifconfig: no %s section for interface %q", e.OS, e.Iface)
}

// Config is the canonical view of one interface's configuration.
// Every field except Name may be unset, an interface does not have to
// be configured for either address family.
type Config struct {
	Name string
	MAC  net.HardwareAddr // nil if the interface has no link-layer address
	IPv4 netip.Prefix     // zero value if unconfigured
	IPv6 netip.Prefix     // zero value if unconfigured
}

var ifaceNamePattern = regexp.MustCompile(`^[0-9A-Za-z]+$`)

// ValidName reports whether name is safe to interpolate into patterns
// and system commands.
func ValidName(name string) error {
	if !ifaceNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
