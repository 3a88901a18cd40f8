// Package netif enumerates the host's network interfaces from the kernel's
// IPv6 address table.
//
// SADP frames are sourced from a specific interface, so every frame needs the
// interface's MAC, IPv4 and IPv6 addresses up front. The registry reads
// /proc/net/if_inet6 for the interface index, IPv6 address and scope, the
// matching /sys/class/net/<name>/address file for the hardware address, and
// resolves the IPv4 address per interface with a short-lived SIOCGIFADDR
// ioctl.
//
// Discovery is best-effort by design: a missing address table or an
// unreadable address file yields an empty (or partial) interface list rather
// than an error, and a failed IPv4 lookup leaves the address zero. Callers
// must treat "no interfaces" as "no transport can be built".
//
// Results are cached per registry. List returns the cached set once
// populated; call Invalidate first to observe interface changes.
package netif
