package settings

import (
	"strconv"
	"strings"
)

// Configuration keys stored in the settings table.
const (
	KeyQrDurationSeconds        = "qr_duration_seconds"
	KeyQrReentryMinutes         = "qr_reentry_minutes"
	KeyMorosityToleranceDays    = "morosity_tolerance_days"
	KeyPartialPaymentsEnabled   = "partial_payments_enabled"
	KeyPartialDeadlineDays      = "partial_payments_deadline_days"
	KeyPartialGraceDays         = "partial_payments_grace_days"
	KeyPartialAllowAccess       = "partial_payments_allow_access"
	KeyRequirePaymentToActivate = "require_payment_to_activate"
)

// Defaults applied when a key is missing or unparseable. A missing setting
// is never an error.
const (
	DefaultQrDurationSeconds     = 30
	DefaultQrReentryMinutes      = 10
	DefaultMorosityToleranceDays = 5
	DefaultPartialDeadlineDays   = 15
	DefaultPartialGraceDays      = 5
)

// Store is the read side of the settings table the provider depends on.
type Store interface {
	GetValue(key string) (string, error)
}

// Provider exposes typed business settings with hard defaults. It is passed
// explicitly to every component that needs configuration; there is no global
// settings state.
type Provider struct {
	store Store
}

// NewProvider creates a settings provider over a settings store.
func NewProvider(store Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) intValue(key string, def int) int {
	raw, err := p.store.GetValue(key)
	if err != nil || raw == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

func (p *Provider) boolValue(key string, def bool) bool {
	raw, err := p.store.GetValue(key)
	if err != nil || raw == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return def
	}
}

// QrDurationSeconds is the lifetime of an issued QR token.
func (p *Provider) QrDurationSeconds() int {
	return p.intValue(KeyQrDurationSeconds, DefaultQrDurationSeconds)
}

// QrReentryMinutes is the sharing-guard cooldown between allowed entries.
func (p *Provider) QrReentryMinutes() int {
	return p.intValue(KeyQrReentryMinutes, DefaultQrReentryMinutes)
}

// MorosityToleranceDays is how many days past the end of the last membership
// a member may still enter.
func (p *Provider) MorosityToleranceDays() int {
	return p.intValue(KeyMorosityToleranceDays, DefaultMorosityToleranceDays)
}

// PartialPaymentsEnabled reports whether installment payments are in use.
// When off, the payment-access check is skipped entirely.
func (p *Provider) PartialPaymentsEnabled() bool {
	return p.boolValue(KeyPartialPaymentsEnabled, false)
}

// PartialPaymentsDeadlineDays is how long after the membership start the full
// amount is due.
func (p *Provider) PartialPaymentsDeadlineDays() int {
	return p.intValue(KeyPartialDeadlineDays, DefaultPartialDeadlineDays)
}

// PartialPaymentsGraceDays is the grace window after the deadline before a
// balance counts as overdue.
func (p *Provider) PartialPaymentsGraceDays() int {
	return p.intValue(KeyPartialGraceDays, DefaultPartialGraceDays)
}

// PartialPaymentsAllowAccess reports whether members with an open balance
// (inside the grace window) may enter.
func (p *Provider) PartialPaymentsAllowAccess() bool {
	return p.boolValue(KeyPartialAllowAccess, false)
}

// RequirePaymentToActivate reports whether new memberships start in
// pending_payment until the first payment lands.
func (p *Provider) RequirePaymentToActivate() bool {
	return p.boolValue(KeyRequirePaymentToActivate, true)
}
