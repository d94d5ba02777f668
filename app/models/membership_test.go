package models

import (
	"testing"
	"time"
)

func TestCreateMembershipStatus(t *testing.T) {
	member := &Member{ID: 1}
	plan := &Plan{ID: 2, PriceCents: 50000, DurationDays: 30}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	m := CreateMembership(member, plan, start, true)
	if m.Status != MEMBERSHIP_STATUS_PENDING_PAYMENT {
		t.Fatalf("expected pending_payment, got %s", m.Status)
	}
	if !m.EndsAt.Equal(start.AddDate(0, 0, 30)) {
		t.Fatalf("unexpected ends_at: %s", m.EndsAt)
	}
	if m.TotalAmountCents != 50000 {
		t.Fatalf("expected price snapshot 50000, got %d", m.TotalAmountCents)
	}

	m = CreateMembership(member, plan, start, false)
	if m.Status != MEMBERSHIP_STATUS_ACTIVE {
		t.Fatalf("expected active, got %s", m.Status)
	}
}

func TestMembershipValidateIgnoresAssociations(t *testing.T) {
	// Association structs are populated by gorm preloads, not by callers;
	// validation must pass while they are still zero-valued.
	m := CreateMembership(&Member{ID: 1}, &Plan{ID: 2, PriceCents: 50000, DurationDays: 30}, time.Now(), false)
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreatePaymentWithoutPreloadedMember(t *testing.T) {
	membershipID := uint(7)
	p, err := CreatePayment(1, &membershipID, 25000, PAYMENT_METHOD_CARD, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.MemberID != 1 || *p.MembershipID != 7 {
		t.Fatalf("unexpected payment refs: member %d membership %v", p.MemberID, p.MembershipID)
	}
}

func TestMembershipTotalAmountFallsBackToPlan(t *testing.T) {
	m := &Membership{TotalAmountCents: 0, Plan: Plan{PriceCents: 42000}}
	if got := m.TotalAmount(); got != 42000 {
		t.Fatalf("expected plan price fallback, got %d", got)
	}

	m.TotalAmountCents = 30000
	if got := m.TotalAmount(); got != 30000 {
		t.Fatalf("expected snapshot to win, got %d", got)
	}
}

func TestMembershipFreezeUnfreezeExtendsEnd(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	m := &Membership{Status: MEMBERSHIP_STATUS_ACTIVE, StartsAt: start, EndsAt: end}

	frozenAt := start.AddDate(0, 0, 10)
	m.Freeze(frozenAt)
	if m.Status != MEMBERSHIP_STATUS_FROZEN {
		t.Fatalf("expected frozen, got %s", m.Status)
	}

	m.Unfreeze(frozenAt.AddDate(0, 0, 7))
	if m.Status != MEMBERSHIP_STATUS_ACTIVE {
		t.Fatalf("expected active, got %s", m.Status)
	}
	if m.FrozenDays != 7 {
		t.Fatalf("expected 7 frozen days, got %d", m.FrozenDays)
	}
	if !m.EndsAt.Equal(end.AddDate(0, 0, 7)) {
		t.Fatalf("expected ends_at pushed by 7 days, got %s", m.EndsAt)
	}
	if m.FrozenAt != nil {
		t.Fatal("expected frozen_at cleared")
	}
}

func TestPaymentVoid(t *testing.T) {
	p, err := CreatePayment(1, nil, 10000, PAYMENT_METHOD_CASH, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IsVoided() {
		t.Fatal("new payment must not be voided")
	}
	if p.ReceiptNumber == "" {
		t.Fatal("expected a receipt number")
	}

	p.Void(time.Now(), "typo in amount")
	if !p.IsVoided() {
		t.Fatal("expected payment to be voided")
	}
	if p.CancellationReason != "typo in amount" {
		t.Fatalf("unexpected reason: %s", p.CancellationReason)
	}
}
