package domain

import (
	"fmt"
	"net"
)

// Family identifies the IP protocol family a DNS server address belongs to.
type Family uint8

const (
	FamilyIPv4 Family = iota
	FamilyIPv6
)

// IsValid returns true if the Family is one of the two supported families.
func (f Family) IsValid() bool {
	return f == FamilyIPv4 || f == FamilyIPv6
}

// String returns the textual representation of the Family.
func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "IPv4"
	case FamilyIPv6:
		return "IPv6"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(f))
	}
}

// AddressFamily parses s as an IP literal and reports which family it
// belongs to. The second return value is false when s is not a valid
// IPv4 or IPv6 literal.
func AddressFamily(s string) (Family, bool) {
	ip := net.ParseIP(s)
	if ip == nil {
		return 0, false
	}
	if ip.To4() != nil {
		return FamilyIPv4, true
	}
	return FamilyIPv6, true
}
