// Package platform normalizes the view of the running operating
// system: which parsing grammar applies, what an interface's canonical
// configuration is, and which interface outbound traffic would use.
package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/veidt/netident/pkg/ifconfig"
)

// ErrNoRoute is returned when no usable interface can be determined.
var ErrNoRoute = errors.New("platform: no usable interface found")

// Adapter is the OS-facing side of the module. The zero value is not
// usable; construct it with New.
type Adapter struct{}

func New() *Adapter {
	return &Adapter{}
}

// OS maps the running operating system to a parsing grammar tag.
func (a *Adapter) OS() (ifconfig.OS, error) {
	switch runtime.GOOS {
	case "linux":
		return ifconfig.Linux, nil
	case "darwin":
		return ifconfig.Darwin, nil
	case "freebsd", "netbsd", "dragonfly":
		return ifconfig.FreeBSD, nil
	case "openbsd":
		return ifconfig.OpenBSD, nil
	}
	return "", fmt.Errorf("%w: %s", ifconfig.ErrUnsupportedPlatform, runtime.GOOS)
}

// fetchRawStatus invokes the system interface-status command and
// returns its raw text. Variable for mocking in tests. The interface
// name must already be sanitized before this is called.
var fetchRawStatus = func(iface string) (string, error) {
	out, err := exec.Command("ifconfig", iface).Output()
	if err != nil {
		return "", fmt.Errorf("platform: ifconfig %s: %w", iface, err)
	}
	return string(out), nil
}

// QueryInterface returns the canonical configuration of the named
// interface. The name is sanitized before it reaches any external
// command; anything but alphanumerics fails with ifconfig.ErrInvalidName.
func (a *Adapter) QueryInterface(name string) (ifconfig.Config, error) {
	if err := ifconfig.ValidName(name); err != nil {
		return ifconfig.Config{}, err
	}
	osID, err := a.OS()
	if err != nil {
		return ifconfig.Config{}, err
	}
	text, err := fetchRawStatus(name)
	if err != nil {
		return ifconfig.Config{}, err
	}
	return ifconfig.Parse(osID, text, name)
}
