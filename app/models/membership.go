package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MEMBERSHIP_STATUS_PENDING_PAYMENT = "pending_payment"
	MEMBERSHIP_STATUS_ACTIVE          = "active"
	MEMBERSHIP_STATUS_FROZEN          = "frozen"
	MEMBERSHIP_STATUS_CANCELLED       = "cancelled"
	MEMBERSHIP_STATUS_EXPIRED         = "expired"
)

// CurrentMembershipStatuses are the states that count as "the" membership of a
// member. At most one membership per member may be in one of them.
var CurrentMembershipStatuses = []string{
	MEMBERSHIP_STATUS_ACTIVE,
	MEMBERSHIP_STATUS_FROZEN,
	MEMBERSHIP_STATUS_PENDING_PAYMENT,
}

// Membership rows are append-only: transitions only change Status and the
// matching timestamp columns, rows are never deleted.
type Membership struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	MemberID     uint       `gorm:"not null;index" json:"member_id" validate:"required"`
	Member       Member     `gorm:"foreignKey:MemberID" json:"-" validate:"-"`
	PlanID       uint       `gorm:"not null;index" json:"plan_id" validate:"required"`
	Plan         Plan       `gorm:"foreignKey:PlanID" json:"-" validate:"-"`
	Status       string     `gorm:"type:varchar(50);not null;index" json:"status" validate:"oneof=pending_payment active frozen cancelled expired"`
	StartsAt     time.Time  `gorm:"not null" json:"starts_at"`
	EndsAt       time.Time  `gorm:"not null;index" json:"ends_at"`
	FrozenAt     *time.Time `gorm:"type:timestamp;default:null" json:"frozen_at"`
	FrozenDays   int        `gorm:"default:0" json:"frozen_days"`
	CancelledAt  *time.Time `gorm:"type:timestamp;default:null" json:"cancelled_at"`
	CancelReason string     `gorm:"type:varchar(255)" json:"cancel_reason"`
	// TotalAmountCents is the price snapshot taken at creation. Zero means the
	// row predates the snapshot column and the plan price applies instead.
	TotalAmountCents int64     `gorm:"not null;default:0" json:"total_amount_cents"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Membership) Validate() error {
	v := validator.New()

	return v.Struct(m)
}

// CreateMembership builds a membership from a plan, snapshotting its price.
// The initial status depends on whether a payment must land first.
func CreateMembership(member *Member, plan *Plan, startsAt time.Time, requirePayment bool) *Membership {
	status := MEMBERSHIP_STATUS_ACTIVE
	if requirePayment {
		status = MEMBERSHIP_STATUS_PENDING_PAYMENT
	}

	return &Membership{
		MemberID:         member.ID,
		PlanID:           plan.ID,
		Status:           status,
		StartsAt:         startsAt,
		EndsAt:           startsAt.AddDate(0, 0, plan.DurationDays),
		TotalAmountCents: plan.PriceCents,
	}
}

// TotalAmount resolves the amount owed, falling back to the plan price for
// rows created before the snapshot column existed.
func (m *Membership) TotalAmount() int64 {
	if m.TotalAmountCents > 0 {
		return m.TotalAmountCents
	}
	return m.Plan.PriceCents
}

// Freeze marks the membership frozen at the given time. No-op restrictions
// (only active memberships freeze) are enforced by the caller.
func (m *Membership) Freeze(at time.Time) {
	m.Status = MEMBERSHIP_STATUS_FROZEN
	m.FrozenAt = &at
}

// Unfreeze reactivates a frozen membership and extends EndsAt by the number
// of days it spent frozen, so members never lose paid days.
func (m *Membership) Unfreeze(at time.Time) {
	if m.FrozenAt != nil {
		days := int(at.Sub(*m.FrozenAt).Hours() / 24)
		if days > 0 {
			m.FrozenDays += days
			m.EndsAt = m.EndsAt.AddDate(0, 0, days)
		}
	}
	m.Status = MEMBERSHIP_STATUS_ACTIVE
	m.FrozenAt = nil
}

// Cancel marks the membership cancelled with an audit reason.
func (m *Membership) Cancel(at time.Time, reason string) {
	m.Status = MEMBERSHIP_STATUS_CANCELLED
	m.CancelledAt = &at
	m.CancelReason = reason
}
