package access

import (
	"time"

	"github.com/gympulse/gympulse/app/models"
)

// MembershipState is the effective status of a membership at a point in
// time, derived from the stored row without trusting any batch job to have
// persisted expirations.
type MembershipState struct {
	Status        string
	DaysRemaining int
}

// CalculateMembershipStatus derives the effective status from the stored
// status and ends_at. frozen, cancelled and pending_payment are sticky:
// time alone cannot resolve them, so the stored status wins. An active
// membership past its end is expired here even if the expiry batch has not
// run yet.
func CalculateMembershipStatus(storedStatus string, endsAt time.Time, now time.Time) MembershipState {
	switch storedStatus {
	case models.MEMBERSHIP_STATUS_FROZEN,
		models.MEMBERSHIP_STATUS_CANCELLED,
		models.MEMBERSHIP_STATUS_PENDING_PAYMENT:
		days := ceilDays(endsAt.Sub(now))
		if days < 0 {
			days = 0
		}
		return MembershipState{Status: storedStatus, DaysRemaining: days}
	}

	days := ceilDays(endsAt.Sub(now))
	if days <= 0 {
		return MembershipState{Status: models.MEMBERSHIP_STATUS_EXPIRED, DaysRemaining: 0}
	}
	return MembershipState{Status: models.MEMBERSHIP_STATUS_ACTIVE, DaysRemaining: days}
}
