package profilestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/tailscale/hujson"

	"github.com/haukened/dnsctl/internal/dns/domain"
)

// The persisted file is comment-tolerant JSON (JSONC). Comments and
// trailing commas are stripped at load; Save writes plain JSON and
// does not preserve them.

// fileModel is the on-disk shape. It is deliberately separate from the
// domain types so the persistence format can stay stable and
// comment-tolerance stays isolated to this boundary.
type fileModel struct {
	Interfaces []scopeModel `koanf:"interfaces" json:"interfaces"`
}

type scopeModel struct {
	Interface string         `koanf:"interface" json:"interface"`
	Selected  string         `koanf:"selected" json:"selected,omitempty"`
	Profiles  []profileModel `koanf:"profiles" json:"profiles"`
}

type profileModel struct {
	Name string        `koanf:"name" json:"name"`
	Mode string        `koanf:"mode" json:"mode"`
	IPv4 protocolModel `koanf:"ipv4" json:"ipv4"`
	IPv6 protocolModel `koanf:"ipv6" json:"ipv6"`
}

type protocolModel struct {
	Enabled   bool     `koanf:"enabled" json:"enabled"`
	Primary   string   `koanf:"primary" json:"primary,omitempty"`
	Secondary string   `koanf:"secondary" json:"secondary,omitempty"`
	Doh       dohModel `koanf:"doh" json:"doh"`
}

type dohModel struct {
	Enabled  bool   `koanf:"enabled" json:"enabled"`
	Template string `koanf:"template" json:"template,omitempty"`
}

// DefaultPath returns the per-user location of the profile file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(dir, "dnsctl", "config.jsonc"), nil
}

// Load reads the profile file at path. A missing file yields an empty
// store with no error; first run and recovery are the same thing. A
// malformed file also yields an empty store, with the parse failure
// returned so the caller can surface a warning, never a crash.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return New(), fmt.Errorf("reading profile file: %w", err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return New(), fmt.Errorf("malformed profile file %s: %w", path, err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(std), kjson.Parser()); err != nil {
		return New(), fmt.Errorf("malformed profile file %s: %w", path, err)
	}

	var model fileModel
	if err := k.Unmarshal("", &model); err != nil {
		return New(), fmt.Errorf("malformed profile file %s: %w", path, err)
	}

	return fromModel(model), nil
}

// Save writes the whole store to path, creating parent directories as
// needed. The file is fully overwritten; concurrent external edits are
// not reconciled.
func (s *Store) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(s.toModel(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profiles: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing profile file: %w", err)
	}
	return nil
}

func fromModel(model fileModel) *Store {
	s := New()
	for _, scm := range model.Interfaces {
		if scm.Interface == "" {
			continue
		}
		sc := s.scopeFor(scm.Interface)
		for _, pm := range scm.Profiles {
			p, err := domain.NewProfile(pm.Name)
			if err != nil || sc.index(p.Name) >= 0 {
				continue // nameless or duplicate entries are dropped
			}
			p.Mode = domain.ParseMode(pm.Mode)
			p.IPv4 = protocolFromModel(pm.IPv4)
			p.IPv6 = protocolFromModel(pm.IPv6)
			sc.profiles = append(sc.profiles, p)
		}
		if sc.index(scm.Selected) >= 0 {
			sc.selected = scm.Selected
		} else if len(sc.profiles) > 0 {
			sc.selected = sc.profiles[0].Name
		}
	}
	return s
}

func (s *Store) toModel() fileModel {
	model := fileModel{Interfaces: []scopeModel{}}
	for _, id := range s.order {
		sc := s.scopes[id]
		scm := scopeModel{
			Interface: id,
			Selected:  sc.selected,
			Profiles:  make([]profileModel, 0, len(sc.profiles)),
		}
		for _, p := range sc.profiles {
			scm.Profiles = append(scm.Profiles, profileModel{
				Name: p.Name,
				Mode: p.Mode.String(),
				IPv4: protocolToModel(p.IPv4),
				IPv6: protocolToModel(p.IPv6),
			})
		}
		model.Interfaces = append(model.Interfaces, scm)
	}
	return model
}

func protocolFromModel(m protocolModel) domain.ProtocolSettings {
	return domain.ProtocolSettings{
		Enabled:   m.Enabled,
		Primary:   m.Primary,
		Secondary: m.Secondary,
		Doh: domain.DohSettings{
			Enabled:  m.Doh.Enabled,
			Template: m.Doh.Template,
		},
	}
}

func protocolToModel(p domain.ProtocolSettings) protocolModel {
	return protocolModel{
		Enabled:   p.Enabled,
		Primary:   p.Primary,
		Secondary: p.Secondary,
		Doh: dohModel{
			Enabled:  p.Doh.Enabled,
			Template: p.Doh.Template,
		},
	}
}
