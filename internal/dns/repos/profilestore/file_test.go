package profilestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/dnsctl/internal/dns/domain"
)

func TestLoad_MissingFileIsEmptyStore(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope", "config.jsonc"))
	require.NoError(t, err)
	assert.Empty(t, s.Scopes())
}

func TestLoad_MalformedFileIsEmptyStoreWithError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"interfaces": [`), 0o644))

	s, err := Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, "malformed profile file")
	require.NotNil(t, s)
	assert.Empty(t, s.Scopes())
}

func TestLoad_ToleratesCommentsAndTrailingCommas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	src := `{
  // profiles for the office adapter
  "interfaces": [
    {
      "interface": "AAAA-1111",
      "selected": "work",
      "profiles": [
        {
          "name": "work",
          "mode": "manual",
          "ipv4": {
            "enabled": true,
            "primary": "8.8.8.8",
            "secondary": "8.8.4.4",
            "doh": {"enabled": true, "template": "https://dns.google/dns-query"},
          },
          "ipv6": {"enabled": false, "doh": {"enabled": false}},
        },
      ],
    },
  ],
}`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	p, ok := s.Selected("AAAA-1111")
	require.True(t, ok)
	assert.Equal(t, "work", p.Name)
	assert.Equal(t, domain.ModeManual, p.Mode)
	assert.Equal(t, "8.8.8.8", p.IPv4.Primary)
	assert.Equal(t, "8.8.4.4", p.IPv4.Secondary)
	assert.True(t, p.IPv4.Doh.Enabled)
	assert.Equal(t, "https://dns.google/dns-query", p.IPv4.Doh.Template)
	assert.False(t, p.IPv6.Enabled)
}

func TestLoad_DropsNamelessAndDuplicateEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	src := `{
  "interfaces": [
    {
      "interface": "AAAA-1111",
      "profiles": [
        {"name": "home", "mode": "automatic"},
        {"name": "", "mode": "automatic"},
        {"name": "home", "mode": "manual"}
      ]
    }
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	profiles := s.Profiles("AAAA-1111")
	require.Len(t, profiles, 1)
	assert.Equal(t, domain.ModeAutomatic, profiles[0].Mode, "first entry wins")
}

func TestLoad_UnknownSelectionFallsBackToFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	src := `{
  "interfaces": [
    {
      "interface": "AAAA-1111",
      "selected": "ghost",
      "profiles": [{"name": "home", "mode": "automatic"}]
    }
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	p, ok := s.Selected("AAAA-1111")
	require.True(t, ok)
	assert.Equal(t, "home", p.Name)
}

func roundTrip(t *testing.T, s *Store) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sub", "config.jsonc")
	require.NoError(t, s.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	return loaded
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		loaded := roundTrip(t, New())
		assert.Empty(t, loaded.Scopes())
	})

	t.Run("single", func(t *testing.T) {
		s := New()
		p, err := s.Create("AAAA-1111", "home")
		require.NoError(t, err)
		p.Mode = domain.ModeManual
		p.IPv6 = domain.ProtocolSettings{
			Enabled: true,
			Primary: "2620:fe::fe",
			Doh:     domain.DohSettings{Enabled: true, Template: "https://dns.quad9.net/dns-query"},
		}
		require.NoError(t, s.Update("AAAA-1111", p))

		loaded := roundTrip(t, s)
		got, ok := loaded.Find("AAAA-1111", "home")
		require.True(t, ok)
		assert.Equal(t, p, got)
	})

	t.Run("many scopes and profiles", func(t *testing.T) {
		s := New()
		for _, scope := range []string{"AAAA-1111", "BBBB-2222"} {
			for _, name := range []string{"home", "work", "travel"} {
				_, err := s.Create(scope, name)
				require.NoError(t, err)
			}
			require.NoError(t, s.Select(scope, "travel"))
		}

		loaded := roundTrip(t, s)
		assert.Equal(t, s.Scopes(), loaded.Scopes())
		for _, scope := range s.Scopes() {
			assert.Equal(t, s.Profiles(scope), loaded.Profiles(scope))
			sel, ok := loaded.Selected(scope)
			require.True(t, ok)
			assert.Equal(t, "travel", sel.Name)
		}
	})
}
