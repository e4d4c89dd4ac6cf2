package domain

import (
	"fmt"
	"strings"
)

// ViolationCode classifies a single field-level validation failure.
type ViolationCode uint8

const (
	NoProtocolEnabled ViolationCode = iota
	MissingPrimary
	InvalidAddressFormat
	AddressFamilyMismatch
	InvalidSecondaryAddress
	DuplicateAddress
	MissingDohTemplate
	InvalidDohScheme
	InvalidDohURL
)

// String returns the code's name.
func (c ViolationCode) String() string {
	switch c {
	case NoProtocolEnabled:
		return "NoProtocolEnabled"
	case MissingPrimary:
		return "MissingPrimary"
	case InvalidAddressFormat:
		return "InvalidAddressFormat"
	case AddressFamilyMismatch:
		return "AddressFamilyMismatch"
	case InvalidSecondaryAddress:
		return "InvalidSecondaryAddress"
	case DuplicateAddress:
		return "DuplicateAddress"
	case MissingDohTemplate:
		return "MissingDohTemplate"
	case InvalidDohScheme:
		return "InvalidDohScheme"
	case InvalidDohURL:
		return "InvalidDohURL"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(c))
	}
}

// ValidationError is one field-level violation found in a profile.
// It is always recoverable by correcting input and never reflects OS
// interaction.
type ValidationError struct {
	Field   string
	Code    ViolationCode
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Field, e.Code, e.Message)
}

// ValidationErrors aggregates every violation found in a profile so
// callers can surface the complete list, not just the first.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether the list contains a violation with the given code.
func (e ValidationErrors) Has(code ViolationCode) bool {
	for _, v := range e {
		if v.Code == code {
			return true
		}
	}
	return false
}
