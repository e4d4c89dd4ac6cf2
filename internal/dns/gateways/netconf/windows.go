package netconf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/haukened/dnsctl/internal/dns/common/log"
	"github.com/haukened/dnsctl/internal/dns/domain"
)

// DefaultShell is the PowerShell executable used when none is configured.
const DefaultShell = "powershell.exe"

// psPrelude forces UTF-8 output and makes cmdlet errors terminate the
// script so they surface on stderr with a non-zero exit.
const psPrelude = "[Console]::OutputEncoding = [System.Text.Encoding]::UTF8; $ErrorActionPreference = 'Stop'; "

// runFunc executes an external command and returns its stdout.
// Injectable so tests can capture invocations without a Windows host.
type runFunc func(ctx context.Context, name string, args ...string) (string, error)

// Windows drives the platform DNS configuration utilities: netsh for
// per-family server lists (netsh is family-scoped, so one protocol can
// change without touching the other) and PowerShell cmdlets for DoH
// binding and cache flushing, which netsh cannot express.
type Windows struct {
	shell  string
	logger log.Logger
	run    runFunc
}

// NewWindows returns a production configurator. An empty shell selects
// DefaultShell; a nil logger selects the global one.
func NewWindows(shell string, logger log.Logger) *Windows {
	if shell == "" {
		shell = DefaultShell
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &Windows{
		shell:  shell,
		logger: logger,
		run:    runCommand,
	}
}

// runCommand executes a command, treating any non-zero exit as a
// failure whose diagnostic is the normalized stderr text.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		diag := normalizeDiagnostic(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		return "", fmt.Errorf("%s: %s", name, diag)
	}
	return stdout.String(), nil
}

// normalizeDiagnostic collapses multi-line utility output into a single
// line suitable for a structured result.
func normalizeDiagnostic(msg string) string {
	var parts []string
	for _, line := range strings.Split(msg, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

// escapePS quotes a value for embedding inside single-quoted PowerShell
// strings. Newlines are stripped outright; they have no legitimate use
// in an address or URL.
func escapePS(s string) string {
	s = strings.ReplaceAll(s, "`", "``")
	s = strings.ReplaceAll(s, "'", "''")
	s = strings.ReplaceAll(s, "\n", "")
	return strings.ReplaceAll(s, "\r", "")
}

// normalizeGUID strips the surrounding braces some enumeration paths
// include on adapter GUIDs.
func normalizeGUID(guid string) string {
	return strings.Trim(guid, "{}")
}

// familyArg maps a domain family to the netsh interface context name.
func familyArg(f domain.Family) string {
	if f == domain.FamilyIPv6 {
		return "ipv6"
	}
	return "ipv4"
}

// SetServers implements Configurator via netsh, which replaces the
// family's server list without disturbing the other family. An empty
// list degrades to ClearToAutomatic.
func (w *Windows) SetServers(ctx context.Context, iface domain.NetworkInterface, family domain.Family, servers []string) error {
	if len(servers) == 0 {
		return w.ClearToAutomatic(ctx, iface, family)
	}

	name := strconv.Itoa(iface.Index)
	_, err := w.run(ctx, "netsh", "interface", familyArg(family), "set", "dnsservers",
		"name="+name, "source=static", "address="+servers[0], "validate=no")
	if err != nil {
		return err
	}

	for i, server := range servers[1:] {
		_, err = w.run(ctx, "netsh", "interface", familyArg(family), "add", "dnsservers",
			"name="+name, "address="+server, "index="+strconv.Itoa(i+2), "validate=no")
		if err != nil {
			return err
		}
	}

	w.logger.Debug(map[string]any{
		"interface": iface.ID,
		"family":    family.String(),
		"servers":   servers,
	}, "manual DNS servers set")
	return nil
}

// ClearToAutomatic implements Configurator via netsh source=dhcp.
func (w *Windows) ClearToAutomatic(ctx context.Context, iface domain.NetworkInterface, family domain.Family) error {
	_, err := w.run(ctx, "netsh", "interface", familyArg(family), "set", "dnsservers",
		"name="+strconv.Itoa(iface.Index), "source=dhcp")
	if err != nil {
		return err
	}

	w.logger.Debug(map[string]any{
		"interface": iface.ID,
		"family":    family.String(),
	}, "DNS reset to automatic")
	return nil
}

// BindDohTemplate implements Configurator. It registers (or updates)
// the server's DoH template and then raises the per-interface DohFlags
// registry value, which is what actually turns encrypted transport on
// for the adapter.
func (w *Windows) BindDohTemplate(ctx context.Context, iface domain.NetworkInterface, family domain.Family, server, template string) error {
	addr := escapePS(server)
	tmpl := escapePS(template)

	script := fmt.Sprintf(`$addr = '%s'
$existing = Get-DnsClientDohServerAddress -ServerAddress $addr -ErrorAction SilentlyContinue
if ($existing) {
    Set-DnsClientDohServerAddress -ServerAddress $addr -DohTemplate '%s' -AllowFallbackToUdp $false -AutoUpgrade $true
} else {
    Add-DnsClientDohServerAddress -ServerAddress $addr -DohTemplate '%s' -AllowFallbackToUdp $false -AutoUpgrade $true
}`, addr, tmpl, tmpl)

	if _, err := w.runPS(ctx, script); err != nil {
		return err
	}

	if err := w.enableDohFlags(ctx, iface); err != nil {
		return fmt.Errorf("DoH template bound, enabling interface DoH failed: %w", err)
	}

	w.logger.Debug(map[string]any{
		"interface": iface.ID,
		"family":    family.String(),
		"server":    server,
		"template":  template,
	}, "DoH template bound")
	return nil
}

// enableDohFlags sets DohFlags=1 under the Dnscache service's
// interface-specific parameters, keyed by adapter GUID.
func (w *Windows) enableDohFlags(ctx context.Context, iface domain.NetworkInterface) error {
	guid := escapePS(normalizeGUID(iface.ID))

	script := fmt.Sprintf(`$regPath = 'HKLM:\SYSTEM\CurrentControlSet\Services\Dnscache\InterfaceSpecificParameters\{%s}'
if (-not (Test-Path $regPath)) {
    New-Item -Path $regPath -Force | Out-Null
}
$existing = Get-ItemProperty -Path $regPath -Name DohFlags -ErrorAction SilentlyContinue
if ($existing) {
    Set-ItemProperty -Path $regPath -Name DohFlags -Value 1 -Force
} else {
    New-ItemProperty -Path $regPath -Name DohFlags -Value 1 -PropertyType DWord -Force | Out-Null
}`, guid)

	_, err := w.runPS(ctx, script)
	return err
}

// FlushCache implements Configurator.
func (w *Windows) FlushCache(ctx context.Context) error {
	_, err := w.runPS(ctx, "Clear-DnsClientCache")
	return err
}

// runPS executes a PowerShell script fragment under the standard prelude.
func (w *Windows) runPS(ctx context.Context, script string) (string, error) {
	return w.run(ctx, w.shell, "-NoProfile", "-NonInteractive", "-Command", psPrelude+script)
}
