package access

import (
	"errors"
	"fmt"
	"time"

	"github.com/gympulse/gympulse/app/models"
	"gorm.io/gorm"
)

// MemberSource resolves members for admission checks.
type MemberSource interface {
	GetByID(id uint) (*models.Member, error)
}

// MembershipSource resolves memberships for admission checks.
type MembershipSource interface {
	FindCurrentByMember(memberID uint) (*models.Membership, error)
	FindLatestByMemberAndStatuses(memberID uint, statuses []string) (*models.Membership, error)
}

// PaymentSource aggregates the payment ledger.
type PaymentSource interface {
	SumPaidByMembership(membershipID uint) (int64, error)
}

// Config is the slice of settings the engine reads.
type Config interface {
	MorosityToleranceDays() int
	PartialPaymentsEnabled() bool
	PartialPaymentsDeadlineDays() int
	PartialPaymentsGraceDays() int
	PartialPaymentsAllowAccess() bool
}

// Engine computes admission verdicts. It is strictly read-only: it never
// mutates membership or payment rows, and it never writes the access log.
// Callers own logging.
type Engine struct {
	members     MemberSource
	memberships MembershipSource
	payments    PaymentSource
	config      Config
	now         func() time.Time
}

// NewEngine creates an access decision engine from its injected sources.
func NewEngine(members MemberSource, memberships MembershipSource, payments PaymentSource, config Config) *Engine {
	return &Engine{
		members:     members,
		memberships: memberships,
		payments:    payments,
		config:      config,
		now:         time.Now,
	}
}

// Evaluate runs the ordered admission checks for a member. The first failing
// check wins and its reason is final. A nil error with a deny verdict is a
// normal policy outcome; an error is infrastructure failure or
// ErrMemberNotFound.
func (e *Engine) Evaluate(memberID uint) (*Verdict, error) {
	now := e.now()

	member, err := e.members.GetByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	if !member.Active {
		return deny(member, nil, "member is inactive"), nil
	}

	membership, err := e.memberships.FindCurrentByMember(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return deny(member, nil, "no active membership"), nil
		}
		return nil, err
	}

	state := CalculateMembershipStatus(membership.Status, membership.EndsAt, now)
	switch state.Status {
	case models.MEMBERSHIP_STATUS_EXPIRED:
		return denyWithState(member, membership, state, "membership expired"), nil
	case models.MEMBERSHIP_STATUS_FROZEN:
		return denyWithState(member, membership, state, "membership frozen"), nil
	case models.MEMBERSHIP_STATUS_CANCELLED:
		return denyWithState(member, membership, state, "membership cancelled"), nil
	}

	if membership.Status == models.MEMBERSHIP_STATUS_PENDING_PAYMENT {
		return denyWithState(member, membership, state, "membership awaiting first payment"), nil
	}

	if verdict, err := e.checkMorosity(member, membership, state, now); verdict != nil || err != nil {
		return verdict, err
	}

	info, verdict, err := e.checkPayment(member, membership, state, now)
	if verdict != nil || err != nil {
		return verdict, err
	}

	allowed := &Verdict{
		Allowed:          true,
		Reason:           "access granted",
		Member:           member,
		Membership:       membership,
		MembershipStatus: state.Status,
		DaysRemaining:    state.DaysRemaining,
		PaymentInfo:      info,
	}
	if info != nil && info.PendingCents > 0 {
		allowed.PaymentWarning = paymentWarning(info)
	}
	return allowed, nil
}

// checkMorosity denies members whose last active or expired membership
// lapsed more than the configured tolerance ago.
func (e *Engine) checkMorosity(member *models.Member, membership *models.Membership, state MembershipState, now time.Time) (*Verdict, error) {
	latest, err := e.memberships.FindLatestByMemberAndStatuses(member.ID, []string{
		models.MEMBERSHIP_STATUS_ACTIVE,
		models.MEMBERSHIP_STATUS_EXPIRED,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	daysPastDue := floorDays(now.Sub(latest.EndsAt))
	tolerance := e.config.MorosityToleranceDays()
	if daysPastDue > tolerance {
		reason := fmt.Sprintf("membership lapsed %d days ago (tolerance is %d)", daysPastDue, tolerance)
		return denyWithState(member, membership, state, reason), nil
	}
	return nil, nil
}

// checkPayment applies the payment-access rule. When partial payments are
// disabled the whole check is skipped and treated as a pass with no payment
// info attached.
func (e *Engine) checkPayment(member *models.Member, membership *models.Membership, state MembershipState, now time.Time) (*PaymentInfo, *Verdict, error) {
	if !e.config.PartialPaymentsEnabled() {
		return nil, nil, nil
	}

	paid, err := e.payments.SumPaidByMembership(membership.ID)
	if err != nil {
		return nil, nil, err
	}

	info := CalculatePaymentInfo(membership.TotalAmount(), paid, membership.StartsAt, now, PaymentPolicy{
		DeadlineDays: e.config.PartialPaymentsDeadlineDays(),
		GraceDays:    e.config.PartialPaymentsGraceDays(),
	})

	switch info.Status {
	case PaymentStatusPaid:
		return &info, nil, nil
	case PaymentStatusOverdue:
		reason := fmt.Sprintf("payment overdue (%s pending)", FormatAmount(info.PendingCents))
		v := denyWithState(member, membership, state, reason)
		v.PaymentInfo = &info
		return &info, v, nil
	}

	if e.config.PartialPaymentsAllowAccess() {
		return &info, nil, nil
	}

	var reason string
	if info.PaidCents == 0 {
		reason = fmt.Sprintf("membership has not been paid (%s pending)", FormatAmount(info.PendingCents))
	} else {
		reason = fmt.Sprintf("payment incomplete (%s pending)", FormatAmount(info.PendingCents))
	}
	v := denyWithState(member, membership, state, reason)
	v.PaymentInfo = &info
	return &info, v, nil
}

// paymentWarning builds the warning attached to allowed verdicts that still
// carry an open balance.
func paymentWarning(info *PaymentInfo) string {
	amount := FormatAmount(info.PendingCents)
	switch {
	case info.DaysUntilDeadline <= 0:
		return fmt.Sprintf("pending balance of %s (payment deadline passed)", amount)
	case info.DaysUntilDeadline <= 5:
		return fmt.Sprintf("pending balance of %s, due in %d days", amount, info.DaysUntilDeadline)
	default:
		return fmt.Sprintf("pending balance of %s", amount)
	}
}

func deny(member *models.Member, membership *models.Membership, reason string) *Verdict {
	return &Verdict{
		Allowed:    false,
		Reason:     reason,
		Member:     member,
		Membership: membership,
	}
}

func denyWithState(member *models.Member, membership *models.Membership, state MembershipState, reason string) *Verdict {
	v := deny(member, membership, reason)
	v.MembershipStatus = state.Status
	v.DaysRemaining = state.DaysRemaining
	return v
}
