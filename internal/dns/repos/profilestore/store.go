// Package profilestore holds the saved DNS profiles, keyed by the
// interface they belong to. The in-memory store is the working copy;
// nothing touches disk until Save is called explicitly, so a user can
// always discard edits.
package profilestore

import (
	"errors"

	"github.com/haukened/dnsctl/internal/dns/domain"
)

var (
	// ErrDuplicateName is returned when a mutation would give two
	// profiles in the same scope the same name.
	ErrDuplicateName = errors.New("a profile with that name already exists")

	// ErrProfileNotFound is returned when the named profile does not
	// exist in the scope.
	ErrProfileNotFound = errors.New("profile not found")
)

// DefaultProfileName is used when a scope has no profiles yet.
const DefaultProfileName = "Default"

// Store maps interface identity to an ordered list of profiles plus
// the name of the currently selected one. Order is display order only.
type Store struct {
	scopes map[string]*scope
	order  []string
}

type scope struct {
	selected string
	profiles []domain.Profile
}

// New returns an empty store.
func New() *Store {
	return &Store{scopes: make(map[string]*scope)}
}

func (s *Store) scopeFor(id string) *scope {
	sc, ok := s.scopes[id]
	if !ok {
		sc = &scope{}
		s.scopes[id] = sc
		s.order = append(s.order, id)
	}
	return sc
}

func (sc *scope) index(name string) int {
	for i, p := range sc.profiles {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Profiles returns a copy of the scope's profiles in display order.
func (s *Store) Profiles(scopeID string) []domain.Profile {
	sc, ok := s.scopes[scopeID]
	if !ok {
		return nil
	}
	out := make([]domain.Profile, len(sc.profiles))
	copy(out, sc.profiles)
	return out
}

// Find returns the named profile from the scope.
func (s *Store) Find(scopeID, name string) (domain.Profile, bool) {
	sc, ok := s.scopes[scopeID]
	if !ok {
		return domain.Profile{}, false
	}
	if i := sc.index(name); i >= 0 {
		return sc.profiles[i], true
	}
	return domain.Profile{}, false
}

// Create adds a new profile in the default state (automatic mode, both
// protocols disabled) and selects it when it is the scope's first.
// A duplicate name is rejected without mutating the store.
func (s *Store) Create(scopeID, name string) (domain.Profile, error) {
	p, err := domain.NewProfile(name)
	if err != nil {
		return domain.Profile{}, err
	}
	sc := s.scopeFor(scopeID)
	if sc.index(p.Name) >= 0 {
		return domain.Profile{}, ErrDuplicateName
	}
	sc.profiles = append(sc.profiles, p)
	if len(sc.profiles) == 1 {
		sc.selected = p.Name
	}
	return p, nil
}

// Delete removes the named profile. Deleting the selected profile
// moves selection to the first remaining one.
func (s *Store) Delete(scopeID, name string) error {
	sc, ok := s.scopes[scopeID]
	if !ok {
		return ErrProfileNotFound
	}
	i := sc.index(name)
	if i < 0 {
		return ErrProfileNotFound
	}
	sc.profiles = append(sc.profiles[:i], sc.profiles[i+1:]...)
	if sc.selected == name {
		sc.selected = ""
		if len(sc.profiles) > 0 {
			sc.selected = sc.profiles[0].Name
		}
	}
	return nil
}

// Rename changes a profile's name in place, preserving display order
// and selection. The new name must be unused within the scope.
func (s *Store) Rename(scopeID, oldName, newName string) error {
	renamed, err := domain.NewProfile(newName)
	if err != nil {
		return err
	}
	sc, ok := s.scopes[scopeID]
	if !ok {
		return ErrProfileNotFound
	}
	i := sc.index(oldName)
	if i < 0 {
		return ErrProfileNotFound
	}
	if renamed.Name != oldName && sc.index(renamed.Name) >= 0 {
		return ErrDuplicateName
	}
	sc.profiles[i].Name = renamed.Name
	if sc.selected == oldName {
		sc.selected = renamed.Name
	}
	return nil
}

// Update replaces the stored profile with the same name.
func (s *Store) Update(scopeID string, p domain.Profile) error {
	sc, ok := s.scopes[scopeID]
	if !ok {
		return ErrProfileNotFound
	}
	i := sc.index(p.Name)
	if i < 0 {
		return ErrProfileNotFound
	}
	sc.profiles[i] = p
	return nil
}

// Select marks the named profile as the scope's current one.
func (s *Store) Select(scopeID, name string) error {
	sc, ok := s.scopes[scopeID]
	if !ok {
		return ErrProfileNotFound
	}
	if sc.index(name) < 0 {
		return ErrProfileNotFound
	}
	sc.selected = name
	return nil
}

// Selected returns the scope's current profile, falling back to the
// first profile when no explicit selection survives.
func (s *Store) Selected(scopeID string) (domain.Profile, bool) {
	sc, ok := s.scopes[scopeID]
	if !ok || len(sc.profiles) == 0 {
		return domain.Profile{}, false
	}
	if i := sc.index(sc.selected); i >= 0 {
		return sc.profiles[i], true
	}
	return sc.profiles[0], true
}

// EnsureDefault guarantees the scope has at least one profile,
// creating an automatic-mode default when empty, and returns the
// scope's selected profile.
func (s *Store) EnsureDefault(scopeID string) (domain.Profile, error) {
	if p, ok := s.Selected(scopeID); ok {
		return p, nil
	}
	return s.Create(scopeID, DefaultProfileName)
}

// Scopes returns the interface identities with stored profiles, in
// insertion order.
func (s *Store) Scopes() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
