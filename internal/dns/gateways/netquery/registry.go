// Package netquery enumerates active network interfaces and reads
// their current DNS configuration from the OS. Every call produces a
// fresh snapshot; nothing is cached.
package netquery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"

	"github.com/haukened/dnsctl/internal/dns/common/log"
	"github.com/haukened/dnsctl/internal/dns/domain"
)

// ErrNoInterfaces is returned when enumeration succeeds but no usable
// interface exists. Fatal to interface selection, not to the caller.
var ErrNoInterfaces = errors.New("no active network interfaces found")

// Windows address family identifiers as reported by
// Get-DnsClientServerAddress.
const (
	afINET  = 2
	afINET6 = 23
)

type runFunc func(ctx context.Context, name string, args ...string) (string, error)

// Registry queries the OS for interfaces and DNS state.
type Registry struct {
	shell  string
	logger log.Logger
	run    runFunc
	ifaces func() ([]net.Interface, error)
	addrs  func(net.Interface) ([]net.Addr, error)
}

// New returns a Registry backed by the local OS. An empty shell selects
// powershell.exe; a nil logger selects the global one.
func New(shell string, logger log.Logger) *Registry {
	if shell == "" {
		shell = "powershell.exe"
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Registry{
		shell:  shell,
		logger: logger,
		run:    runCommand,
		ifaces: net.Interfaces,
		addrs:  func(i net.Interface) ([]net.Addr, error) { return i.Addrs() },
	}
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		return "", fmt.Errorf("%s: %s", name, diag)
	}
	return stdout.String(), nil
}

// List enumerates interfaces that are operationally up and carry at
// least one IPv4 or IPv6 address; anything else cannot meaningfully
// serve DNS and is excluded. The result is a point-in-time snapshot.
func (r *Registry) List(ctx context.Context) ([]domain.NetworkInterface, error) {
	raw, err := r.ifaces()
	if err != nil {
		return nil, fmt.Errorf("enumerating interfaces: %w", err)
	}

	guids := r.adapterGUIDs(ctx)

	var out []domain.NetworkInterface
	for _, ifc := range raw {
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := r.addrs(ifc)
		if err != nil {
			r.logger.Warn(map[string]any{
				"interface": ifc.Name,
				"error":     err.Error(),
			}, "skipping interface, addresses unavailable")
			continue
		}

		snapshot := domain.NetworkInterface{
			ID:    ifc.Name,
			Index: ifc.Index,
			Name:  ifc.Name,
			Up:    true,
		}
		if guid, ok := guids[ifc.Index]; ok {
			snapshot.ID = guid
		}
		for _, a := range addrs {
			ip := addrIP(a)
			if ip == nil || ip.IsUnspecified() {
				continue
			}
			if ip.To4() != nil {
				snapshot.IPv4Addrs = append(snapshot.IPv4Addrs, ip.String())
			} else {
				snapshot.IPv6Addrs = append(snapshot.IPv6Addrs, ip.String())
			}
		}
		if snapshot.Usable() {
			out = append(out, snapshot)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoInterfaces
	}
	return out, nil
}

// adapterGUIDs maps interface indexes to their stable adapter GUIDs.
// Failure is non-fatal: profile scoping falls back to interface names.
func (r *Registry) adapterGUIDs(ctx context.Context) map[int]string {
	out, err := r.run(ctx, r.shell, "-NoProfile", "-NonInteractive", "-Command",
		"Get-NetAdapter | Select-Object ifIndex, InterfaceGuid | ConvertTo-Json -Compress")
	if err != nil {
		r.logger.Warn(map[string]any{"error": err.Error()}, "adapter GUID lookup failed, using interface names")
		return nil
	}

	type adapter struct {
		IfIndex       int    `json:"ifIndex"`
		InterfaceGuid string `json:"InterfaceGuid"`
	}
	adapters, err := decodeObjects[adapter](out)
	if err != nil {
		r.logger.Warn(map[string]any{"error": err.Error()}, "unparseable adapter listing, using interface names")
		return nil
	}

	guids := make(map[int]string, len(adapters))
	for _, a := range adapters {
		if a.InterfaceGuid != "" {
			guids[a.IfIndex] = strings.Trim(a.InterfaceGuid, "{}")
		}
	}
	return guids
}

// CurrentDNS reads the interface's configured DNS servers per family.
// An empty list for a family means it resolves via DHCP.
func (r *Registry) CurrentDNS(ctx context.Context, iface domain.NetworkInterface) (domain.DNSState, error) {
	out, err := r.run(ctx, r.shell, "-NoProfile", "-NonInteractive", "-Command",
		"Get-DnsClientServerAddress -InterfaceIndex "+strconv.Itoa(iface.Index)+" | ConvertTo-Json -Compress")
	if err != nil {
		return domain.DNSState{}, fmt.Errorf("querying DNS state: %w", err)
	}
	return parseDNSState(out)
}

// parseDNSState decodes Get-DnsClientServerAddress JSON output, which
// is an object for a single entry and an array otherwise.
func parseDNSState(out string) (domain.DNSState, error) {
	var state domain.DNSState

	out = strings.TrimSpace(out)
	if out == "" || out == "null" {
		return state, nil
	}

	type entry struct {
		AddressFamily   int      `json:"AddressFamily"`
		ServerAddresses []string `json:"ServerAddresses"`
	}
	entries, err := decodeObjects[entry](out)
	if err != nil {
		return state, fmt.Errorf("unparseable DNS state: %w", err)
	}

	for _, e := range entries {
		switch e.AddressFamily {
		case afINET:
			state.IPv4 = e.ServerAddresses
		case afINET6:
			state.IPv6 = e.ServerAddresses
		}
	}
	return state, nil
}

// decodeObjects accepts either a single JSON object or an array of
// them, mirroring ConvertTo-Json's shape for one vs. many results.
func decodeObjects[T any](out string) ([]T, error) {
	out = strings.TrimSpace(out)
	if strings.HasPrefix(out, "[") {
		var many []T
		if err := json.Unmarshal([]byte(out), &many); err != nil {
			return nil, err
		}
		return many, nil
	}
	var one T
	if err := json.Unmarshal([]byte(out), &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

func addrIP(a net.Addr) net.IP {
	switch v := a.(type) {
	case *net.IPNet:
		return v.IP
	case *net.IPAddr:
		return v.IP
	default:
		return nil
	}
}
