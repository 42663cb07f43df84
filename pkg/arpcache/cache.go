// Package arpcache maintains an in-memory IP to MAC mapping, populated
// from the system ARP table or from live resolution results.
package arpcache

import (
	"net"
	"net/netip"

	"github.com/jellydator/ttlcache/v3"
)

// Entry is one observed IP to MAC binding and the interface it was
// seen on. Later observations for the same IP overwrite earlier ones;
// staleness is the caller's problem.
type Entry struct {
	IP    netip.Addr
	MAC   net.HardwareAddr
	Iface string
}

// Cache is the only persistent mutable state in this subsystem. The
// underlying store serializes concurrent Record/Lookup/Refresh calls.
type Cache struct {
	entries *ttlcache.Cache[netip.Addr, Entry]
}

// New returns an empty cache. Entries never expire on their own.
func New() *Cache {
	return &Cache{
		entries: ttlcache.New[netip.Addr, Entry](),
	}
}

// Lookup returns the recorded entry for ip, if any.
func (c *Cache) Lookup(ip netip.Addr) (Entry, bool) {
	item := c.entries.Get(ip)
	if item == nil {
		return Entry{}, false
	}
	return item.Value(), true
}

// Record inserts or overwrites the entry for e.IP.
func (c *Cache) Record(e Entry) {
	c.entries.Set(e.IP, e, ttlcache.NoTTL)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// RefreshFromSystem re-populates the cache from the system ARP table
// text. Malformed lines are skipped, partial data is still useful.
func (c *Cache) RefreshFromSystem() error {
	text, err := fetchSystemTable()
	if err != nil {
		return err
	}
	for _, e := range ParseTable(text) {
		c.Record(e)
	}
	return nil
}
