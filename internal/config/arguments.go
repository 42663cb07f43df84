package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/veidt/netident/internal/version"
)

type Args struct {
	// Operations (exactly one)
	Whoami  bool
	Resolve string // IPv4 address to resolve to a MAC
	Show    string // interface whose configuration to display

	// Common options
	Iface       string
	Timeout     time.Duration
	BypassCache bool

	// Output
	Json bool

	// Logging
	Log      string // log file path, empty means no logging
	LogLevel string // log level: debug, info, warn, error
}

func ParseArgs() (Args, error) {
	var args Args
	var showVersion bool

	// Set custom usage message
	flag.Usage = func() {
		println("netident - network identity discovery")
		println()
		println("Discovers the MAC behind an IPv4 address, the local host's own")
		println("link/IP identity, and an interface's canonical configuration.")
		println()
		println("Usage:")
		println("  netident [OPTIONS]")
		println()
		println("Examples:")
		println("  netident --whoami                 # discover local identity")
		println("  netident --resolve 10.0.0.5       # ARP-resolve a neighbour")
		println("  netident --show eth0 -J           # interface config as JSON")
		println()
		println("Options:")
		flag.PrintDefaults()
	}

	flag.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flag.BoolVarP(&args.Whoami, "whoami", "w", false, "Discover the local host's link/IP identity")
	flag.StringVarP(&args.Resolve, "resolve", "r", "", "Resolve an IPv4 address to a MAC address")
	flag.StringVarP(&args.Show, "show", "s", "", "Show the canonical configuration of an interface")
	flag.StringVarP(&args.Iface, "iface", "i", "", "Interface to operate on (default: auto-detected)")
	flag.DurationVarP(&args.Timeout, "timeout", "t", 0, "Probe timeout (default: 3s for resolve, 1s for whoami)")
	flag.BoolVarP(&args.BypassCache, "no-cache", "n", false, "Skip the ARP cache and always probe")
	flag.BoolVarP(&args.Json, "json", "J", false, "Write JSON output to stdout")
	flag.StringVarP(&args.Log, "log", "l", "", "Diagnostic log file (empty = no logging)")
	flag.StringVar(&args.LogLevel, "log-level", "error", "Log level: debug, info, warn, error")
	flag.Parse()

	// Handle version flag
	if showVersion {
		fmt.Println(version.FullVersion())
		os.Exit(0)
	}

	return args, Validate(args)
}

// Validate checks that the combination of arguments names exactly one
// operation with usable parameters.
func Validate(args Args) error {
	ops := 0
	if args.Whoami {
		ops++
	}
	if args.Resolve != "" {
		ops++
	}
	if args.Show != "" {
		ops++
	}

	switch {
	case ops == 0:
		return errors.New("one of --whoami, --resolve or --show is required")
	case ops > 1:
		return errors.New("--whoami, --resolve and --show are mutually exclusive")
	case args.Timeout < 0:
		return errors.New("timeout must not be negative")
	}

	if args.Resolve != "" {
		addr, err := netip.ParseAddr(args.Resolve)
		if err != nil || !addr.Unmap().Is4() {
			return fmt.Errorf("--resolve requires an IPv4 address, got %q", args.Resolve)
		}
	}

	return nil
}

// Mode returns the name of the selected operation.
func (a Args) Mode() string {
	switch {
	case a.Whoami:
		return "whoami"
	case a.Resolve != "":
		return "resolve"
	case a.Show != "":
		return "show"
	}
	return "none"
}
