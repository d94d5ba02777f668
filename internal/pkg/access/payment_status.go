package access

import (
	"time"
)

// PaymentPolicy carries the configured deadline and grace window, in days
// relative to the membership start.
type PaymentPolicy struct {
	DeadlineDays int
	GraceDays    int
}

// CalculatePaymentInfo derives the payment state of a membership from its
// total, the sum of non-voided payments and the policy. The decision order
// matters: a settled balance is always "paid" (including overpayment), and
// both the partial and the never-paid branches collapse into "overdue" once
// the grace window after the deadline has passed.
func CalculatePaymentInfo(totalCents, paidCents int64, startsAt, now time.Time, policy PaymentPolicy) PaymentInfo {
	pending := totalCents - paidCents
	if pending < 0 {
		pending = 0
	}

	deadline := startsAt.AddDate(0, 0, policy.DeadlineDays)
	daysUntil := ceilDays(deadline.Sub(now))

	var status PaymentStatus
	switch {
	case pending <= 0:
		status = PaymentStatusPaid
	case paidCents > 0 && daysUntil < -policy.GraceDays:
		status = PaymentStatusOverdue
	case paidCents > 0:
		status = PaymentStatusPartial
	case daysUntil < -policy.GraceDays:
		status = PaymentStatusOverdue
	default:
		status = PaymentStatusPending
	}

	return PaymentInfo{
		TotalCents:        totalCents,
		PaidCents:         paidCents,
		PendingCents:      pending,
		Status:            status,
		Deadline:          deadline,
		DaysUntilDeadline: daysUntil,
		Overdue:           status == PaymentStatusOverdue,
	}
}
