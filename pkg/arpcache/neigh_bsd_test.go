//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package arpcache

import (
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/juruen/goarp/arp"
)

func TestKernelLookup_BSD(t *testing.T) {
	mac1 := net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	mac2 := net.HardwareAddr{0x55, 0x55, 0x55, 0x55, 0x55, 0x55}

	tests := []struct {
		name    string
		ip      netip.Addr
		table   []arp.Entry
		err     error
		wantMAC net.HardwareAddr
		wantErr bool
	}{
		{
			name:    "found",
			ip:      netip.MustParseAddr("192.0.2.100"),
			table:   []arp.Entry{{IPAddr: net.ParseIP("192.0.2.100"), HwAddr: mac1}},
			wantMAC: mac1,
		},
		{
			name:    "not found",
			ip:      netip.MustParseAddr("192.0.2.100"),
			table:   []arp.Entry{{IPAddr: net.ParseIP("192.0.2.200"), HwAddr: mac1}},
			wantErr: true,
		},
		{
			name:    "empty table",
			ip:      netip.MustParseAddr("192.0.2.100"),
			table:   []arp.Entry{},
			wantErr: true,
		},
		{
			name:    "table error",
			ip:      netip.MustParseAddr("192.0.2.100"),
			err:     errors.New("sysctl failed"),
			wantErr: true,
		},
		{
			name: "multiple entries",
			ip:   netip.MustParseAddr("198.51.100.5"),
			table: []arp.Entry{
				{IPAddr: net.ParseIP("198.51.100.1"), HwAddr: mac1},
				{IPAddr: net.ParseIP("198.51.100.5"), HwAddr: mac2},
			},
			wantMAC: mac2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := getKernelTable
			getKernelTable = func() ([]arp.Entry, error) { return tt.table, tt.err }
			defer func() { getKernelTable = orig }()

			mac, err := KernelLookup(tt.ip, nil)

			if (err != nil) != tt.wantErr {
				t.Errorf("KernelLookup() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && mac.String() != tt.wantMAC.String() {
				t.Errorf("KernelLookup() = %v, want %v", mac, tt.wantMAC)
			}
		})
	}
}
