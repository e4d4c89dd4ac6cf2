package domain

import "fmt"

// NetworkInterface is a point-in-time snapshot of an active network
// interface as reported by the OS. Snapshots are produced fresh on
// each enumeration and never persisted.
type NetworkInterface struct {
	// ID is the stable OS-assigned identifier (the adapter GUID on
	// Windows); it falls back to the interface name when the GUID
	// cannot be resolved. Profile scoping keys off this value.
	ID        string
	Index     int
	Name      string
	Up        bool
	IPv4Addrs []string
	IPv6Addrs []string
}

// DisplayName renders the interface for selection lists.
func (n NetworkInterface) DisplayName() string {
	return fmt.Sprintf("%s (%d)", n.Name, n.Index)
}

// HasIPv4 reports whether the interface carries at least one IPv4 address.
func (n NetworkInterface) HasIPv4() bool {
	return len(n.IPv4Addrs) > 0
}

// HasIPv6 reports whether the interface carries at least one IPv6 address.
func (n NetworkInterface) HasIPv6() bool {
	return len(n.IPv6Addrs) > 0
}

// Usable reports whether the interface can meaningfully serve DNS:
// operationally up and holding at least one address of either family.
func (n NetworkInterface) Usable() bool {
	return n.Up && (n.HasIPv4() || n.HasIPv6())
}
