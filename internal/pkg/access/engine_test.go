package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gympulse/gympulse/app/models"
)

var engineNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type engineFixture struct {
	members     *fakeMembers
	memberships *fakeMemberships
	payments    *fakePayments
	config      *fakeConfig
	engine      *Engine
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		members:     &fakeMembers{members: make(map[uint]*models.Member)},
		memberships: &fakeMemberships{current: make(map[uint]*models.Membership), history: make(map[uint][]*models.Membership)},
		payments:    &fakePayments{sums: make(map[uint]int64)},
		config:      &fakeConfig{tolerance: 5, deadlineDays: 15, graceDays: 5},
	}
	f.engine = NewEngine(f.members, f.memberships, f.payments, f.config)
	f.engine.now = func() time.Time { return engineNow }
	return f
}

func (f *engineFixture) addMember(id uint, active bool) *models.Member {
	m := &models.Member{ID: id, Name: "Test Member", Active: active}
	f.members.members[id] = m
	return m
}

func (f *engineFixture) addMembership(memberID uint, status string, startsAt, endsAt time.Time, total int64) *models.Membership {
	m := &models.Membership{
		ID:               uint(len(f.memberships.history[memberID]) + 1),
		MemberID:         memberID,
		Status:           status,
		StartsAt:         startsAt,
		EndsAt:           endsAt,
		TotalAmountCents: total,
	}
	f.memberships.history[memberID] = append(f.memberships.history[memberID], m)
	for _, s := range models.CurrentMembershipStatuses {
		if status == s {
			f.memberships.current[memberID] = m
			break
		}
	}
	return m
}

func TestEvaluateMemberNotFound(t *testing.T) {
	f := newEngineFixture()

	verdict, err := f.engine.Evaluate(99)
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.Nil(t, verdict)
}

func TestEvaluateInactiveMember(t *testing.T) {
	f := newEngineFixture()
	f.addMember(1, false)

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "member is inactive", verdict.Reason)
}

func TestEvaluateNoMembership(t *testing.T) {
	f := newEngineFixture()
	f.addMember(1, true)

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "no active membership", verdict.Reason)
}

func TestEvaluateExpiredMembership(t *testing.T) {
	f := newEngineFixture()
	f.addMember(1, true)
	// Stored active but ends_at passed: the calculator must expire it even
	// though the batch job never transitioned the row.
	f.addMembership(1, models.MEMBERSHIP_STATUS_ACTIVE, engineNow.AddDate(0, -1, 0), engineNow.AddDate(0, 0, -3), 0)

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "membership expired", verdict.Reason)
	assert.Equal(t, models.MEMBERSHIP_STATUS_EXPIRED, verdict.MembershipStatus)
	assert.Zero(t, verdict.DaysRemaining)
}

func TestEvaluateFrozenMembership(t *testing.T) {
	f := newEngineFixture()
	f.addMember(1, true)
	// Frozen with ends_at in the future stays frozen regardless of now.
	f.addMembership(1, models.MEMBERSHIP_STATUS_FROZEN, engineNow.AddDate(0, -1, 0), engineNow.AddDate(0, 0, 20), 0)

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "membership frozen", verdict.Reason)
}

func TestEvaluateCancelledMembership(t *testing.T) {
	f := newEngineFixture()
	f.addMember(1, true)
	f.addMembership(1, models.MEMBERSHIP_STATUS_CANCELLED, engineNow.AddDate(0, -1, 0), engineNow.AddDate(0, 0, 20), 0)
	// A cancelled row is not a current status; FindCurrentByMember must miss.
	delete(f.memberships.current, 1)

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "no active membership", verdict.Reason)
}

func TestEvaluatePendingFirstPayment(t *testing.T) {
	f := newEngineFixture()
	f.addMember(1, true)
	f.addMembership(1, models.MEMBERSHIP_STATUS_PENDING_PAYMENT, engineNow, engineNow.AddDate(0, 1, 0), 100000)

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, "membership awaiting first payment", verdict.Reason)
}

func TestEvaluateMorosityPassesWhileCurrent(t *testing.T) {
	f := newEngineFixture()
	f.addMember(1, true)
	// The only active/expired row ends in the future, so daysPastDue is
	// negative and the member passes.
	f.addMembership(1, models.MEMBERSHIP_STATUS_ACTIVE, engineNow.AddDate(0, 0, -10), engineNow.AddDate(0, 0, 20), 0)

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.True(t, verdict.Allowed)
}

func TestEvaluateMorosityReasonIncludesDays(t *testing.T) {
	f := newEngineFixture()
	f.addMember(1, true)
	// The latest expired membership lapsed 12 days ago, over the 5 day
	// tolerance. The current membership is healthy, so the morosity check
	// is the one that fires.
	f.addMembership(1, models.MEMBERSHIP_STATUS_EXPIRED, engineNow.AddDate(0, 0, -40), engineNow.AddDate(0, 0, -12), 0)
	f.memberships.current[1] = &models.Membership{
		ID:       7,
		MemberID: 1,
		Status:   models.MEMBERSHIP_STATUS_ACTIVE,
		StartsAt: engineNow.AddDate(0, 0, -2),
		EndsAt:   engineNow.AddDate(0, 0, 28),
	}

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Reason, "12 days")
	assert.Contains(t, verdict.Reason, "tolerance")
}

func TestEvaluatePaymentCheckSkippedWhenDisabled(t *testing.T) {
	f := newEngineFixture()
	f.config.partialEnabled = false
	f.addMember(1, true)
	m := f.addMembership(1, models.MEMBERSHIP_STATUS_ACTIVE, engineNow.AddDate(0, 0, -22), engineNow.AddDate(0, 0, 8), 100000)
	f.payments.sums[m.ID] = 0 // nothing paid, far past any deadline

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.True(t, verdict.Allowed)
	assert.Nil(t, verdict.PaymentInfo)
	assert.Empty(t, verdict.PaymentWarning)
}

func TestEvaluatePaymentOverdueDenies(t *testing.T) {
	f := newEngineFixture()
	f.config.partialEnabled = true
	f.config.allowPartial = true
	f.addMember(1, true)
	m := f.addMembership(1, models.MEMBERSHIP_STATUS_ACTIVE, engineNow.AddDate(0, 0, -22), engineNow.AddDate(0, 0, 8), 100000)
	f.payments.sums[m.ID] = 0

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Reason, "payment overdue")
	assert.NotNil(t, verdict.PaymentInfo)
	assert.True(t, verdict.PaymentInfo.Overdue)
}

func TestEvaluatePartialAllowedWithWarning(t *testing.T) {
	f := newEngineFixture()
	f.config.partialEnabled = true
	f.config.allowPartial = true
	f.addMember(1, true)
	m := f.addMembership(1, models.MEMBERSHIP_STATUS_ACTIVE, engineNow.AddDate(0, 0, -10), engineNow.AddDate(0, 0, 20), 100000)
	f.payments.sums[m.ID] = 40000

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.True(t, verdict.Allowed)
	assert.Equal(t, PaymentStatusPartial, verdict.PaymentInfo.Status)
	// Deadline is in 5 days: the warning mentions the pending amount and
	// the days remaining.
	assert.Contains(t, verdict.PaymentWarning, "$600.00")
	assert.Contains(t, verdict.PaymentWarning, "5 days")
}

func TestEvaluatePartialDeniedDistinguishesNeverPaid(t *testing.T) {
	f := newEngineFixture()
	f.config.partialEnabled = true
	f.config.allowPartial = false
	f.addMember(1, true)
	m := f.addMembership(1, models.MEMBERSHIP_STATUS_ACTIVE, engineNow.AddDate(0, 0, -10), engineNow.AddDate(0, 0, 20), 100000)

	f.payments.sums[m.ID] = 0
	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Reason, "has not been paid")

	f.payments.sums[m.ID] = 40000
	verdict, err = f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Contains(t, verdict.Reason, "payment incomplete")
}

func TestEvaluateFullyPaidNoWarning(t *testing.T) {
	f := newEngineFixture()
	f.config.partialEnabled = true
	f.addMember(1, true)
	m := f.addMembership(1, models.MEMBERSHIP_STATUS_ACTIVE, engineNow.AddDate(0, 0, -10), engineNow.AddDate(0, 0, 20), 100000)
	f.payments.sums[m.ID] = 100000

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.True(t, verdict.Allowed)
	assert.Equal(t, "access granted", verdict.Reason)
	assert.Empty(t, verdict.PaymentWarning)
}

func TestEvaluateWarningDeadlinePassed(t *testing.T) {
	f := newEngineFixture()
	f.config.partialEnabled = true
	f.config.allowPartial = true
	f.addMember(1, true)
	// 17 days in: deadline passed 2 days ago but still inside grace, so the
	// member is allowed with a deadline-passed warning.
	m := f.addMembership(1, models.MEMBERSHIP_STATUS_ACTIVE, engineNow.AddDate(0, 0, -17), engineNow.AddDate(0, 0, 13), 100000)
	f.payments.sums[m.ID] = 40000

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.True(t, verdict.Allowed)
	assert.Contains(t, verdict.PaymentWarning, "deadline passed")
}

func TestEvaluatePlanPriceFallback(t *testing.T) {
	f := newEngineFixture()
	f.config.partialEnabled = true
	f.config.allowPartial = false
	f.addMember(1, true)
	// Snapshot column empty: the plan's current price applies.
	m := f.addMembership(1, models.MEMBERSHIP_STATUS_ACTIVE, engineNow.AddDate(0, 0, -10), engineNow.AddDate(0, 0, 20), 0)
	m.Plan = models.Plan{ID: 3, PriceCents: 50000}
	f.payments.sums[m.ID] = 0

	verdict, err := f.engine.Evaluate(1)
	assert.NoError(t, err)
	assert.False(t, verdict.Allowed)
	assert.Equal(t, int64(50000), verdict.PaymentInfo.TotalCents)
}
