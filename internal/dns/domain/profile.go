package domain

import (
	"fmt"
	"strings"
)

// Profile is a named, saved DNS configuration a user can switch an
// interface to. Profiles are plain values; edits happen on copies and
// are persisted only through the profile store.
type Profile struct {
	Name string
	Mode Mode
	IPv4 ProtocolSettings
	IPv6 ProtocolSettings
}

// NewProfile constructs a profile with the given name in the default
// state: automatic mode, both protocols disabled.
func NewProfile(name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, fmt.Errorf("profile name must not be empty")
	}
	return Profile{
		Name: name,
		Mode: ModeAutomatic,
	}, nil
}

// Protocol returns the settings for the given family.
func (p Profile) Protocol(f Family) ProtocolSettings {
	if f == FamilyIPv6 {
		return p.IPv6
	}
	return p.IPv4
}
