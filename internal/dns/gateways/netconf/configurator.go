// Package netconf abstracts the OS network-configuration facility as a
// set of discrete DNS operations. The production implementation shells
// out to the platform utilities; the Recorder fake scripts outcomes for
// tests.
package netconf

import (
	"context"

	"github.com/haukened/dnsctl/internal/dns/domain"
)

// Configurator is the capability interface the apply engine drives.
// Every operation either succeeds or returns an error carrying the
// utility's diagnostic text; callers decide whether to continue the
// sequence.
type Configurator interface {
	// SetServers replaces the manual DNS server list for one protocol
	// family on the interface. Servers are applied in order, primary
	// first.
	SetServers(ctx context.Context, iface domain.NetworkInterface, family domain.Family, servers []string) error

	// ClearToAutomatic removes any manual DNS configuration for one
	// protocol family, returning it to DHCP-provided resolution.
	ClearToAutomatic(ctx context.Context, iface domain.NetworkInterface, family domain.Family) error

	// BindDohTemplate associates a DoH template URL with a server
	// address so queries to it upgrade to encrypted transport.
	BindDohTemplate(ctx context.Context, iface domain.NetworkInterface, family domain.Family, server, template string) error

	// FlushCache clears the system DNS resolver cache.
	FlushCache(ctx context.Context) error
}
