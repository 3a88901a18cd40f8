package netif

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/unix"
)

// Default locations of the kernel tables the registry parses.
const (
	DefaultInet6Table = "/proc/net/if_inet6"
	DefaultSysNetDir  = "/sys/class/net"
)

// Address scope bits as reported in the scope column of /proc/net/if_inet6.
// A global address has no scope bits set.
const (
	ScopeGlobal    = 0x0000
	ScopeLoopback  = 0x0010
	ScopeLinkLocal = 0x0020
	ScopeSiteLocal = 0x0040
	ScopeCompat    = 0x0080
)

// Interface is an immutable snapshot of one host network interface, taken at
// discovery time. IPv4 may be nil when the interface has no IPv4 address or
// the lookup failed; IPv6 is the raw 16-byte address from the kernel table.
type Interface struct {
	Index int
	Name  string
	MAC   net.HardwareAddr
	IPv4  net.IP
	IPv6  net.IP
	Scope uint32
}

func (i *Interface) IsGlobal() bool    { return i.Scope == ScopeGlobal }
func (i *Interface) IsLoopback() bool  { return i.Scope&ScopeLoopback != 0 }
func (i *Interface) IsLinkLocal() bool { return i.Scope&ScopeLinkLocal != 0 }
func (i *Interface) IsSiteLocal() bool { return i.Scope&ScopeSiteLocal != 0 }
func (i *Interface) IsCompat() bool    { return i.Scope&ScopeCompat != 0 }

// String returns a human-readable summary of the interface.
func (i *Interface) String() string {
	return fmt.Sprintf("%s (index %d, mac %s, ipv4 %s, ipv6 %s)",
		i.Name, i.Index, i.MAC, i.IPv4, i.IPv6)
}

// Registry discovers and caches the host's network interfaces. The zero
// value is not usable; construct one with NewRegistry. A single registry is
// safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	cache []Interface

	inet6Table  string
	sysNetDir   string
	resolveIPv4 func(name string) net.IP
}

// NewRegistry returns a registry reading the default kernel tables.
func NewRegistry() *Registry {
	return &Registry{
		inet6Table:  DefaultInet6Table,
		sysNetDir:   DefaultSysNetDir,
		resolveIPv4: ipv4Address,
	}
}

// List returns the discovered interfaces. Once the cache is populated the
// same slice content is returned on every call until Invalidate. An empty
// result means no usable interface was found; it is never an error.
func (r *Registry) List() []Interface {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.cache) == 0 {
		r.cache = r.discover()
	}
	out := make([]Interface, len(r.cache))
	copy(out, r.cache)
	return out
}

// Invalidate drops the cached interface set so the next List re-discovers.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.cache = nil
	r.mu.Unlock()
}

// discover parses the IPv6 address table. It stops at the first unreadable
// per-interface address file and returns the interfaces collected so far,
// mirroring the degradation behavior required of the registry.
func (r *Registry) discover() []Interface {
	var found []Interface

	table, err := os.Open(r.inet6Table)
	if err != nil {
		return found
	}
	defer table.Close()

	scanner := bufio.NewScanner(table)
	for scanner.Scan() {
		// Row layout: address ifindex prefixlen scope flags name
		fields := strings.Fields(scanner.Text())
		if len(fields) != 6 {
			continue
		}

		addr, err := hex.DecodeString(fields[0])
		if err != nil || len(addr) != net.IPv6len {
			continue
		}
		index, err := strconv.ParseUint(fields[1], 16, 32)
		if err != nil {
			continue
		}
		scope, err := strconv.ParseUint(fields[3], 16, 32)
		if err != nil {
			continue
		}
		name := fields[5]

		mac, err := r.hardwareAddr(name)
		if err != nil {
			return found
		}

		found = append(found, Interface{
			Index: int(index),
			Name:  name,
			MAC:   mac,
			IPv4:  r.resolveIPv4(name),
			IPv6:  net.IP(addr),
			Scope: uint32(scope),
		})
	}
	return found
}

func (r *Registry) hardwareAddr(name string) (net.HardwareAddr, error) {
	raw, err := os.ReadFile(filepath.Join(r.sysNetDir, name, "address"))
	if err != nil {
		return nil, err
	}
	mac, err := net.ParseMAC(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("bad address file for %s: %w", name, err)
	}
	return mac, nil
}

// ipv4Address resolves the IPv4 address of an interface through a
// short-lived datagram control socket. Failures yield nil; the caller
// treats a missing IPv4 address as zero.
func ipv4Address(name string) net.IP {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return nil
	}
	defer unix.Close(fd)

	ifr, err := unix.NewIfreq(name)
	if err != nil {
		return nil
	}
	if err := unix.IoctlIfreq(fd, unix.SIOCGIFADDR, ifr); err != nil {
		return nil
	}
	addr, err := ifr.Inet4Addr()
	if err != nil {
		return nil
	}
	return net.IP(addr)
}
