package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"github.com/veidt/netident/internal/config"
	"github.com/veidt/netident/pkg/arp"
	"github.com/veidt/netident/pkg/arpcache"
	"github.com/veidt/netident/pkg/ifconfig"
	"github.com/veidt/netident/pkg/platform"
	"github.com/veidt/netident/pkg/whoami"
)

func main() {
	args, err := config.ParseArgs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Setup logging
	logFile, err := config.SetupLogging(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logging: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	slog.Debug("Starting identity discovery",
		"mode", args.Mode(),
		"iface", args.Iface,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args config.Args) error {
	adapter := platform.New()

	switch args.Mode() {
	case "whoami":
		prober := whoami.NewProber(adapter)
		res, err := prober.Discover(ctx, whoami.Options{
			Iface:   args.Iface,
			Timeout: args.Timeout,
		})
		if err != nil {
			return err
		}
		return output(args, resultFields(res))

	case "resolve":
		target, err := netip.ParseAddr(args.Resolve)
		if err != nil {
			return err
		}
		cache := arpcache.New()
		if !args.BypassCache {
			if err := cache.RefreshFromSystem(); err != nil {
				slog.Debug("System ARP table refresh failed", "error", err)
			}
		}
		resolver := arp.NewResolver(cache, adapter)
		mac, err := resolver.Resolve(ctx, target, arp.Options{
			Iface:       args.Iface,
			Timeout:     args.Timeout,
			BypassCache: args.BypassCache,
		})
		if err != nil {
			return err
		}
		return output(args, map[string]string{
			"ip":  target.String(),
			"mac": mac.String(),
		})

	case "show":
		cfg, err := adapter.QueryInterface(args.Show)
		if err != nil {
			return err
		}
		return output(args, configFields(cfg))
	}

	return fmt.Errorf("unknown mode %q", args.Mode())
}

// resultFields skips the MAC fields a loopback capture cannot provide.
func resultFields(res whoami.Result) map[string]string {
	fields := map[string]string{"iface": res.Iface}
	if res.SrcMAC != nil {
		fields["src_mac"] = res.SrcMAC.String()
	}
	if res.GatewayMAC != nil {
		fields["gateway_mac"] = res.GatewayMAC.String()
	}
	if res.SrcIP.IsValid() {
		fields["src_ip"] = res.SrcIP.String()
	}
	return fields
}

func configFields(cfg ifconfig.Config) map[string]string {
	fields := map[string]string{"iface": cfg.Name}
	if cfg.MAC != nil {
		fields["mac"] = cfg.MAC.String()
	}
	if cfg.IPv4.IsValid() {
		fields["ipv4"] = cfg.IPv4.String()
	}
	if cfg.IPv6.IsValid() {
		fields["ipv6"] = cfg.IPv6.String()
	}
	return fields
}

func output(args config.Args, fields map[string]string) error {
	if args.Json {
		enc := json.NewEncoder(os.Stdout)
		return enc.Encode(fields)
	}
	for _, key := range []string{"iface", "ip", "mac", "src_mac", "gateway_mac", "src_ip", "ipv4", "ipv6"} {
		if v, ok := fields[key]; ok && v != "" {
			fmt.Printf("%-12s %s\n", key+":", v)
		}
	}
	return nil
}
