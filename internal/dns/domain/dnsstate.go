package domain

import "strings"

// DNSState is the observed DNS server configuration of an interface,
// one resolver list per protocol family. An empty list means the
// family resolves via DHCP (automatic).
type DNSState struct {
	IPv4 []string
	IPv6 []string
}

// Servers returns the observed resolver list for the given family.
func (s DNSState) Servers(f Family) []string {
	if f == FamilyIPv6 {
		return s.IPv6
	}
	return s.IPv4
}

// Display renders the family's resolver list for the user, showing
// "Automatic" when no manual servers are configured.
func (s DNSState) Display(f Family) string {
	servers := s.Servers(f)
	if len(servers) == 0 {
		return "Automatic"
	}
	return strings.Join(servers, ", ")
}
