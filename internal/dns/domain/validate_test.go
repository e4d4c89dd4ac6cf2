package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func manualV4(primary, secondary string) Profile {
	return Profile{
		Name: "test",
		Mode: ModeManual,
		IPv4: ProtocolSettings{Enabled: true, Primary: primary, Secondary: secondary},
	}
}

func TestValidate_AutomaticAlwaysPasses(t *testing.T) {
	// Garbage in every ignored field must not matter in automatic mode.
	p := Profile{
		Name: "auto",
		Mode: ModeAutomatic,
		IPv4: ProtocolSettings{
			Enabled: true,
			Primary: "not-an-ip",
			Doh:     DohSettings{Enabled: true, Template: "ftp://nope"},
		},
		IPv6: ProtocolSettings{Enabled: true, Primary: "8.8.8.8"},
	}
	assert.Empty(t, Validate(p))
}

func TestValidate_ManualNoProtocolEnabled(t *testing.T) {
	p := Profile{Name: "m", Mode: ModeManual}
	errs := Validate(p)
	assert.Len(t, errs, 1)
	assert.True(t, errs.Has(NoProtocolEnabled))
}

func TestValidate_PerProtocolRules(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    []ViolationCode
	}{
		{
			name:    "valid ipv4 primary only",
			profile: manualV4("8.8.8.8", ""),
			want:    nil,
		},
		{
			name:    "valid ipv4 primary and secondary",
			profile: manualV4("8.8.8.8", "8.8.4.4"),
			want:    nil,
		},
		{
			name:    "missing primary",
			profile: manualV4("", "8.8.4.4"),
			want:    []ViolationCode{MissingPrimary},
		},
		{
			name:    "garbage primary",
			profile: manualV4("not-an-ip", ""),
			want:    []ViolationCode{InvalidAddressFormat},
		},
		{
			name:    "ipv6 literal in ipv4 slot",
			profile: manualV4("2001:4860:4860::8888", ""),
			want:    []ViolationCode{AddressFamilyMismatch},
		},
		{
			name: "ipv4 literal in ipv6 slot",
			profile: Profile{
				Name: "t",
				Mode: ModeManual,
				IPv6: ProtocolSettings{Enabled: true, Primary: "8.8.8.8"},
			},
			want: []ViolationCode{AddressFamilyMismatch},
		},
		{
			name:    "garbage secondary",
			profile: manualV4("8.8.8.8", "nope"),
			want:    []ViolationCode{InvalidSecondaryAddress},
		},
		{
			name:    "wrong family secondary",
			profile: manualV4("8.8.8.8", "::1"),
			want:    []ViolationCode{InvalidSecondaryAddress},
		},
		{
			name:    "secondary duplicates primary",
			profile: manualV4("8.8.8.8", "8.8.8.8"),
			want:    []ViolationCode{DuplicateAddress},
		},
		{
			name: "both protocols disabled plus junk primary collects everything",
			profile: Profile{
				Name: "t",
				Mode: ModeManual,
				IPv4: ProtocolSettings{Enabled: true, Primary: "junk", Secondary: "more-junk"},
			},
			want: []ViolationCode{InvalidAddressFormat, InvalidSecondaryAddress},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.profile)
			assert.Len(t, errs, len(tt.want))
			for _, code := range tt.want {
				assert.True(t, errs.Has(code), "expected violation %s in %v", code, errs)
			}
		})
	}
}

func TestValidate_DohRules(t *testing.T) {
	withDoh := func(template string) Profile {
		p := manualV4("8.8.8.8", "")
		p.IPv4.Doh = DohSettings{Enabled: true, Template: template}
		return p
	}

	tests := []struct {
		name     string
		template string
		want     []ViolationCode
	}{
		{"valid template", "https://dns.google/dns-query", nil},
		{"valid template with placeholder", "https://dns.google/dns-query{?dns}", nil},
		{"missing template", "", []ViolationCode{MissingDohTemplate}},
		{"insecure scheme", "http://dns.google/dns-query", []ViolationCode{InvalidDohScheme}},
		{"not a url", "://///", []ViolationCode{InvalidDohURL}},
		{"no host", "https://", []ViolationCode{InvalidDohURL}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(withDoh(tt.template))
			assert.Len(t, errs, len(tt.want))
			for _, code := range tt.want {
				assert.True(t, errs.Has(code), "expected violation %s in %v", code, errs)
			}
		})
	}
}

func TestValidate_AllViolationsReported(t *testing.T) {
	// Broken on both protocols at once: the caller must get the full list.
	p := Profile{
		Name: "broken",
		Mode: ModeManual,
		IPv4: ProtocolSettings{
			Enabled: true,
			Doh:     DohSettings{Enabled: true},
		},
		IPv6: ProtocolSettings{Enabled: true, Primary: "1.1.1.1"},
	}
	errs := Validate(p)
	assert.True(t, errs.Has(MissingPrimary))
	assert.True(t, errs.Has(MissingDohTemplate))
	assert.True(t, errs.Has(AddressFamilyMismatch))
	assert.Len(t, errs, 3)
}

func TestValidate_ReferenceScenario(t *testing.T) {
	// Manual IPv4 with secondary and DoH, IPv6 disabled: fully valid.
	p := Profile{
		Name: "work",
		Mode: ModeManual,
		IPv4: ProtocolSettings{
			Enabled:   true,
			Primary:   "8.8.8.8",
			Secondary: "8.8.4.4",
			Doh:       DohSettings{Enabled: true, Template: "https://dns.google/dns-query"},
		},
	}
	assert.Empty(t, Validate(p))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := Validate(Profile{Name: "m", Mode: ModeManual})
	assert.Contains(t, errs.Error(), "NoProtocolEnabled")
}
