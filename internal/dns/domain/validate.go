package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks a profile against the manual-mode configuration
// rules and returns every violation found. It is pure: no I/O, no
// side effects, deterministic for a given profile.
//
// Automatic mode always validates; protocol and DoH fields are ignored
// because apply never reads them in that mode.
func Validate(p Profile) ValidationErrors {
	if p.Mode == ModeAutomatic {
		return nil
	}

	var errs ValidationErrors

	if !p.IPv4.Enabled && !p.IPv6.Enabled {
		errs = append(errs, ValidationError{
			Code:    NoProtocolEnabled,
			Message: "manual mode requires at least one protocol enabled",
		})
	}

	errs = append(errs, validateProtocol("ipv4", p.IPv4, FamilyIPv4)...)
	errs = append(errs, validateProtocol("ipv6", p.IPv6, FamilyIPv6)...)
	return errs
}

// validateProtocol checks one family's settings. Disabled settings are
// skipped entirely; their stored values are user convenience, not intent.
func validateProtocol(field string, s ProtocolSettings, f Family) ValidationErrors {
	if !s.Enabled {
		return nil
	}

	var errs ValidationErrors

	primary := strings.TrimSpace(s.Primary)
	primaryOK := false
	switch {
	case primary == "":
		errs = append(errs, ValidationError{
			Field:   field + ".primary",
			Code:    MissingPrimary,
			Message: "primary server is required when the protocol is enabled",
		})
	default:
		fam, ok := AddressFamily(primary)
		switch {
		case !ok:
			errs = append(errs, ValidationError{
				Field:   field + ".primary",
				Code:    InvalidAddressFormat,
				Message: fmt.Sprintf("%q is not a valid IP address", primary),
			})
		case fam != f:
			errs = append(errs, ValidationError{
				Field:   field + ".primary",
				Code:    AddressFamilyMismatch,
				Message: fmt.Sprintf("%q is an %s address in an %s slot", primary, fam, f),
			})
		default:
			primaryOK = true
		}
	}

	secondary := strings.TrimSpace(s.Secondary)
	if secondary != "" {
		fam, ok := AddressFamily(secondary)
		if !ok || fam != f {
			errs = append(errs, ValidationError{
				Field:   field + ".secondary",
				Code:    InvalidSecondaryAddress,
				Message: fmt.Sprintf("%q is not a valid %s address", secondary, f),
			})
		} else if primaryOK && secondary == primary {
			// A secondary equal to the primary is a no-op; reject it
			// instead of silently configuring a duplicate resolver.
			errs = append(errs, ValidationError{
				Field:   field + ".secondary",
				Code:    DuplicateAddress,
				Message: "secondary server must differ from primary",
			})
		}
	}

	if s.Doh.Enabled {
		errs = append(errs, validateDohTemplate(field, s.Doh.Template)...)
	}
	return errs
}

// validateDohTemplate checks a DoH template URL: present, https, and
// syntactically parseable. The Windows facility accepts templates with
// or without the RFC 8484 {?dns} placeholder, so its presence is not
// required here.
func validateDohTemplate(field string, template string) ValidationErrors {
	field += ".doh.template"
	template = strings.TrimSpace(template)

	if template == "" {
		return ValidationErrors{{
			Field:   field,
			Code:    MissingDohTemplate,
			Message: "DoH template is required when DoH is enabled",
		}}
	}

	u, err := url.Parse(template)
	if err != nil || u.Host == "" {
		return ValidationErrors{{
			Field:   field,
			Code:    InvalidDohURL,
			Message: fmt.Sprintf("%q is not a valid URL", template),
		}}
	}
	if u.Scheme != "https" {
		return ValidationErrors{{
			Field:   field,
			Code:    InvalidDohScheme,
			Message: "DoH template must use the https scheme",
		}}
	}
	return nil
}
