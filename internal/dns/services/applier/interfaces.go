package applier

import (
	"context"

	"github.com/haukened/dnsctl/internal/dns/domain"
)

// Configurator issues the discrete OS DNS configuration operations.
// Satisfied by netconf.Windows in production and netconf.Recorder in
// tests.
type Configurator interface {
	SetServers(ctx context.Context, iface domain.NetworkInterface, family domain.Family, servers []string) error
	ClearToAutomatic(ctx context.Context, iface domain.NetworkInterface, family domain.Family) error
	BindDohTemplate(ctx context.Context, iface domain.NetworkInterface, family domain.Family, server, template string) error
	FlushCache(ctx context.Context) error
}

// StateReader re-queries an interface's observed DNS configuration for
// verification. Satisfied by netquery.Registry.
type StateReader interface {
	CurrentDNS(ctx context.Context, iface domain.NetworkInterface) (domain.DNSState, error)
}
