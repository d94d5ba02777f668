package access

import (
	"testing"
	"time"

	"github.com/gympulse/gympulse/app/models"
)

func TestCalculateMembershipStatusActive(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		endsAt   time.Time
		want     string
		wantDays int
	}{
		{name: "ends in 30 days", endsAt: now.AddDate(0, 0, 30), want: models.MEMBERSHIP_STATUS_ACTIVE, wantDays: 30},
		{name: "ends later today counts as one day", endsAt: now.Add(6 * time.Hour), want: models.MEMBERSHIP_STATUS_ACTIVE, wantDays: 1},
		{name: "ended this instant", endsAt: now, want: models.MEMBERSHIP_STATUS_EXPIRED, wantDays: 0},
		{name: "ended a week ago", endsAt: now.AddDate(0, 0, -7), want: models.MEMBERSHIP_STATUS_EXPIRED, wantDays: 0},
		{name: "ended months ago, batch never ran", endsAt: now.AddDate(0, -3, 0), want: models.MEMBERSHIP_STATUS_EXPIRED, wantDays: 0},
	}

	for _, tt := range tests {
		got := CalculateMembershipStatus(models.MEMBERSHIP_STATUS_ACTIVE, tt.endsAt, now)
		if got.Status != tt.want {
			t.Fatalf("%s: status = %q, want %q", tt.name, got.Status, tt.want)
		}
		if got.DaysRemaining != tt.wantDays {
			t.Fatalf("%s: daysRemaining = %d, want %d", tt.name, got.DaysRemaining, tt.wantDays)
		}
	}
}

func TestCalculateMembershipStatusSticky(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, status := range []string{
		models.MEMBERSHIP_STATUS_FROZEN,
		models.MEMBERSHIP_STATUS_CANCELLED,
		models.MEMBERSHIP_STATUS_PENDING_PAYMENT,
	} {
		// Sticky states hold whether ends_at is in the future or the past.
		future := CalculateMembershipStatus(status, now.AddDate(0, 0, 10), now)
		if future.Status != status {
			t.Fatalf("status %q with future ends_at resolved to %q", status, future.Status)
		}
		if future.DaysRemaining != 10 {
			t.Fatalf("status %q: daysRemaining = %d, want 10", status, future.DaysRemaining)
		}

		past := CalculateMembershipStatus(status, now.AddDate(0, 0, -10), now)
		if past.Status != status {
			t.Fatalf("status %q with past ends_at resolved to %q", status, past.Status)
		}
		if past.DaysRemaining != 0 {
			t.Fatalf("status %q: daysRemaining = %d, want 0", status, past.DaysRemaining)
		}
	}
}
