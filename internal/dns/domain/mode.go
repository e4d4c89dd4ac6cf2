package domain

import "fmt"

// Mode selects how DNS servers are configured on an interface.
// Automatic leaves resolution to DHCP; Manual pushes user-specified
// servers per protocol.
type Mode uint8

const (
	ModeAutomatic Mode = iota
	ModeManual
)

// IsValid returns true if the Mode is a known value.
func (m Mode) IsValid() bool {
	return m == ModeAutomatic || m == ModeManual
}

// String returns the textual representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeAutomatic:
		return "automatic"
	case ModeManual:
		return "manual"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(m))
	}
}

// ParseMode converts a string name to a Mode value.
// Unknown names fall back to ModeAutomatic, the safe default.
func ParseMode(s string) Mode {
	if s == "manual" {
		return ModeManual
	}
	return ModeAutomatic
}

// MarshalText implements encoding.TextMarshaler so Mode round-trips
// through the persisted profile file as its name, not a number.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	*m = ParseMode(string(text))
	return nil
}
