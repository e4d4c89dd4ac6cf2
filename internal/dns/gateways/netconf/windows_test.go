package netconf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/dnsctl/internal/dns/common/log"
	"github.com/haukened/dnsctl/internal/dns/domain"
)

type capturedCmd struct {
	name string
	args []string
}

// captureRuns swaps the configurator's runner for one that records every
// invocation and returns scripted output.
func captureRuns(w *Windows, out string, err error) *[]capturedCmd {
	var cmds []capturedCmd
	w.run = func(_ context.Context, name string, args ...string) (string, error) {
		cmds = append(cmds, capturedCmd{name: name, args: args})
		return out, err
	}
	return &cmds
}

var ethIface = domain.NetworkInterface{
	ID:    "{1B2C3D4E-0000-0000-0000-000000000000}",
	Index: 7,
	Name:  "Ethernet",
}

func TestSetServers_PrimaryThenIndexedSecondaries(t *testing.T) {
	w := NewWindows("", log.NewNoopLogger())
	cmds := captureRuns(w, "", nil)

	err := w.SetServers(context.Background(), ethIface, domain.FamilyIPv4,
		[]string{"8.8.8.8", "8.8.4.4", "1.1.1.1"})
	require.NoError(t, err)

	require.Len(t, *cmds, 3)
	assert.Equal(t, "netsh", (*cmds)[0].name)
	assert.Equal(t, []string{"interface", "ipv4", "set", "dnsservers",
		"name=7", "source=static", "address=8.8.8.8", "validate=no"}, (*cmds)[0].args)
	assert.Equal(t, []string{"interface", "ipv4", "add", "dnsservers",
		"name=7", "address=8.8.4.4", "index=2", "validate=no"}, (*cmds)[1].args)
	assert.Equal(t, []string{"interface", "ipv4", "add", "dnsservers",
		"name=7", "address=1.1.1.1", "index=3", "validate=no"}, (*cmds)[2].args)
}

func TestSetServers_IPv6UsesIPv6Context(t *testing.T) {
	w := NewWindows("", log.NewNoopLogger())
	cmds := captureRuns(w, "", nil)

	err := w.SetServers(context.Background(), ethIface, domain.FamilyIPv6, []string{"2620:fe::fe"})
	require.NoError(t, err)

	require.Len(t, *cmds, 1)
	assert.Equal(t, "ipv6", (*cmds)[0].args[1])
	assert.Contains(t, (*cmds)[0].args, "address=2620:fe::fe")
}

func TestSetServers_EmptyListClearsToAutomatic(t *testing.T) {
	w := NewWindows("", log.NewNoopLogger())
	cmds := captureRuns(w, "", nil)

	err := w.SetServers(context.Background(), ethIface, domain.FamilyIPv4, nil)
	require.NoError(t, err)

	require.Len(t, *cmds, 1)
	assert.Contains(t, (*cmds)[0].args, "source=dhcp")
}

func TestSetServers_PropagatesRunnerErrors(t *testing.T) {
	w := NewWindows("", log.NewNoopLogger())
	captureRuns(w, "", errors.New("netsh: access denied"))

	err := w.SetServers(context.Background(), ethIface, domain.FamilyIPv4, []string{"8.8.8.8"})
	assert.ErrorContains(t, err, "access denied")
}

func TestClearToAutomatic_BuildsDhcpCommand(t *testing.T) {
	w := NewWindows("", log.NewNoopLogger())
	cmds := captureRuns(w, "", nil)

	err := w.ClearToAutomatic(context.Background(), ethIface, domain.FamilyIPv6)
	require.NoError(t, err)

	require.Len(t, *cmds, 1)
	assert.Equal(t, "netsh", (*cmds)[0].name)
	assert.Equal(t, []string{"interface", "ipv6", "set", "dnsservers",
		"name=7", "source=dhcp"}, (*cmds)[0].args)
}

func TestBindDohTemplate_RegistersTemplateAndRaisesDohFlags(t *testing.T) {
	w := NewWindows("pwsh", log.NewNoopLogger())
	cmds := captureRuns(w, "", nil)

	err := w.BindDohTemplate(context.Background(), ethIface, domain.FamilyIPv4,
		"8.8.8.8", "https://dns.google/dns-query")
	require.NoError(t, err)

	require.Len(t, *cmds, 2)
	for _, c := range *cmds {
		assert.Equal(t, "pwsh", c.name)
		assert.Equal(t, []string{"-NoProfile", "-NonInteractive", "-Command"}, c.args[:3])
		assert.True(t, strings.HasPrefix(c.args[3], psPrelude))
	}

	bind := (*cmds)[0].args[3]
	assert.Contains(t, bind, "Get-DnsClientDohServerAddress -ServerAddress $addr")
	assert.Contains(t, bind, "Set-DnsClientDohServerAddress")
	assert.Contains(t, bind, "Add-DnsClientDohServerAddress")
	assert.Contains(t, bind, "'https://dns.google/dns-query'")
	assert.Contains(t, bind, "-AllowFallbackToUdp $false")
	assert.Contains(t, bind, "-AutoUpgrade $true")

	flags := (*cmds)[1].args[3]
	assert.Contains(t, flags, `Dnscache\InterfaceSpecificParameters\{1B2C3D4E-0000-0000-0000-000000000000}`)
	assert.Contains(t, flags, "DohFlags")
	assert.NotContains(t, flags, "{{", "adapter GUID braces must not be doubled")
}

func TestBindDohTemplate_EscapesSingleQuotes(t *testing.T) {
	w := NewWindows("", log.NewNoopLogger())
	cmds := captureRuns(w, "", nil)

	err := w.BindDohTemplate(context.Background(), ethIface, domain.FamilyIPv4,
		"8.8.8.8", "https://dns.example/path'); Remove-Item C:\\ #")
	require.NoError(t, err)

	bind := (*cmds)[0].args[3]
	assert.Contains(t, bind, "path''); Remove-Item")
}

func TestFlushCache_InvokesClearCmdlet(t *testing.T) {
	w := NewWindows("", log.NewNoopLogger())
	cmds := captureRuns(w, "", nil)

	require.NoError(t, w.FlushCache(context.Background()))

	require.Len(t, *cmds, 1)
	assert.Equal(t, DefaultShell, (*cmds)[0].name)
	assert.Equal(t, psPrelude+"Clear-DnsClientCache", (*cmds)[0].args[3])
}

func TestEscapePS(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"8.8.8.8", "8.8.8.8"},
		{"it's", "it''s"},
		{"a`b", "a``b"},
		{"line1\nline2", "line1line2"},
		{"cr\rlf\n", "crlf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapePS(tt.in), tt.in)
	}
}

func TestNormalizeGUID(t *testing.T) {
	assert.Equal(t, "abc-def", normalizeGUID("{abc-def}"))
	assert.Equal(t, "abc-def", normalizeGUID("abc-def"))
}

func TestNormalizeDiagnostic_CollapsesLines(t *testing.T) {
	in := "Set-DnsClientServerAddress : Access is denied\r\n\r\nAt line:1 char:1\n"
	assert.Equal(t, "Set-DnsClientServerAddress : Access is denied At line:1 char:1", normalizeDiagnostic(in))
}
