package casdoor

import (
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// MFA types Casdoor reports in MfaProps.MfaType.
const (
	MfaTypeSMS   = "sms"
	MfaTypeEmail = "email"
	MfaTypeApp   = "app"
)

// MfaProps is one multi-factor method on a user.
type MfaProps struct {
	Enabled       bool     `json:"enabled"`
	IsPreferred   bool     `json:"isPreferred"`
	MfaType       string   `json:"mfaType"`
	Secret        string   `json:"secret,omitempty"`
	CountryCode   string   `json:"countryCode,omitempty"`
	URL           string   `json:"url,omitempty"`
	RecoveryCodes []string `json:"recoveryCodes,omitempty"`
}

// TOTPKey parses the otpauth:// URL of an authenticator-app entry.
func (m MfaProps) TOTPKey() (*otp.Key, error) {
	if m.MfaType != MfaTypeApp {
		return nil, fmt.Errorf("casdoor: mfa type %q has no totp key", m.MfaType)
	}
	if m.URL == "" {
		return nil, fmt.Errorf("casdoor: mfa entry has no otpauth url")
	}
	return otp.NewKeyFromURL(m.URL)
}

// ValidateTOTP checks code against the entry's secret at the current time.
// It is false for anything but an enabled authenticator-app entry.
func (m MfaProps) ValidateTOTP(code string) bool {
	if !m.Enabled || m.MfaType != MfaTypeApp || m.Secret == "" {
		return false
	}
	return totp.Validate(code, m.Secret)
}

// GenerateTOTPCode returns the code an authenticator would show for secret
// at t.
func GenerateTOTPCode(secret string, t time.Time) (string, error) {
	return totp.GenerateCode(secret, t)
}

// PreferredMfa returns the user's preferred enabled MFA entry, or the first
// enabled one.
func (u User) PreferredMfa() (MfaProps, bool) {
	var first *MfaProps
	for i := range u.MultiFactorAuths {
		m := &u.MultiFactorAuths[i]
		if !m.Enabled {
			continue
		}
		if m.IsPreferred {
			return *m, true
		}
		if first == nil {
			first = m
		}
	}
	if first == nil {
		return MfaProps{}, false
	}
	return *first, true
}
