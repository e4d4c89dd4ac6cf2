package domain

// DohSettings carries the optional DNS-over-HTTPS binding for one
// protocol's servers.
type DohSettings struct {
	Enabled  bool
	Template string
}

// ProtocolSettings holds the manual DNS configuration for a single
// protocol family. Disabled settings keep their field values so a user
// toggling the protocol back on gets their previous servers back; the
// apply engine ignores everything but Enabled when it is false.
type ProtocolSettings struct {
	Enabled   bool
	Primary   string
	Secondary string
	Doh       DohSettings
}

// Addresses returns the non-empty server addresses in apply order,
// primary first.
func (s ProtocolSettings) Addresses() []string {
	var out []string
	if s.Primary != "" {
		out = append(out, s.Primary)
	}
	if s.Secondary != "" {
		out = append(out, s.Secondary)
	}
	return out
}
