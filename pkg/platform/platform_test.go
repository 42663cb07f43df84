package platform

import (
	"errors"
	"testing"

	"github.com/veidt/netident/pkg/ifconfig"
)

func TestAdapter_QueryInterface_SanitizesName(t *testing.T) {
	orig := fetchRawStatus
	defer func() { fetchRawStatus = orig }()

	fetched := false
	fetchRawStatus = func(iface string) (string, error) {
		fetched = true
		return "", nil
	}

	tests := []string{
		"eth0; rm -rf /",
		"eth0 && reboot",
		"eth0|cat",
		"../eth0",
		"",
	}

	a := New()
	for _, name := range tests {
		_, err := a.QueryInterface(name)
		if !errors.Is(err, ifconfig.ErrInvalidName) {
			t.Errorf("QueryInterface(%q) error = %v, want ErrInvalidName", name, err)
		}
	}
	if fetched {
		t.Error("unsafe interface name reached the raw status fetch")
	}
}

func TestAdapter_QueryInterface(t *testing.T) {
	orig := fetchRawStatus
	defer func() { fetchRawStatus = orig }()

	a := New()
	osID, err := a.OS()
	if err != nil {
		t.Skipf("unsupported test platform: %v", err)
	}

	var text string
	switch osID {
	case ifconfig.Linux:
		text = "eth0: flags=4163<UP,BROADCAST,RUNNING,MULTICAST>  mtu 1500\n" +
			"        inet 10.10.10.9  netmask 255.255.254.0  broadcast 10.10.11.255\n" +
			"        ether 00:1c:23:35:70:3b  txqueuelen 1000  (Ethernet)\n"
	case ifconfig.OpenBSD:
		text = "eth0: flags=8843<UP,BROADCAST> mtu 1500\n" +
			"\tlladdr 00:1c:23:35:70:3b\n" +
			"\tinet 10.10.10.9 netmask 0xfffffe00 broadcast 10.10.11.255\n"
	default:
		text = "eth0: flags=8863<UP,BROADCAST,RUNNING> mtu 1500\n" +
			"\tether 00:1c:23:35:70:3b\n" +
			"\tinet 10.10.10.9 netmask 0xfffffe00 broadcast 10.10.11.255\n"
	}

	fetchRawStatus = func(iface string) (string, error) { return text, nil }

	cfg, err := a.QueryInterface("eth0")
	if err != nil {
		t.Fatalf("QueryInterface() error = %v", err)
	}
	if cfg.Name != "eth0" {
		t.Errorf("Name = %q, want eth0", cfg.Name)
	}
	if cfg.MAC.String() != "00:1c:23:35:70:3b" {
		t.Errorf("MAC = %v, want 00:1c:23:35:70:3b", cfg.MAC)
	}
	if cfg.IPv4.String() != "10.10.10.9/23" {
		t.Errorf("IPv4 = %v, want 10.10.10.9/23", cfg.IPv4)
	}
}

func TestInterfaces(t *testing.T) {
	addrs, err := Interfaces()
	if err != nil {
		t.Fatalf("Interfaces() error = %v", err)
	}
	for _, a := range addrs {
		if a.Name == "" {
			t.Error("Interfaces() returned an entry without a name")
		}
		switch a.Family {
		case "inet", "inet6":
		default:
			t.Errorf("Interfaces() returned unknown family %q", a.Family)
		}
		if !a.Addr.IsValid() {
			t.Errorf("Interfaces() returned invalid address for %s", a.Name)
		}
	}
}

func TestIsLoopback_UnknownInterface(t *testing.T) {
	if IsLoopback("nosuchiface0") {
		t.Error("IsLoopback() = true for unknown interface")
	}
}

func TestIsEthernet_UnknownInterface(t *testing.T) {
	if IsEthernet("nosuchiface0") {
		t.Error("IsEthernet() = true for unknown interface")
	}
}
