package access

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gympulse/gympulse/app/models"
)

// PaymentStatus classifies a membership's balance against its deadline.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// PaymentInfo is derived on demand from the membership snapshot, the payment
// ledger and configuration. It is never cached: recording or voiding a
// payment changes it immediately.
type PaymentInfo struct {
	TotalCents        int64         `json:"total_cents"`
	PaidCents         int64         `json:"paid_cents"`
	PendingCents      int64         `json:"pending_cents"`
	Status            PaymentStatus `json:"status"`
	Deadline          time.Time     `json:"deadline"`
	DaysUntilDeadline int           `json:"days_until_deadline"`
	Overdue           bool          `json:"overdue"`
}

// Verdict is the outcome of one admission evaluation.
type Verdict struct {
	Allowed          bool               `json:"allowed"`
	Reason           string             `json:"reason"`
	Member           *models.Member     `json:"member,omitempty"`
	Membership       *models.Membership `json:"membership,omitempty"`
	MembershipStatus string             `json:"membership_status,omitempty"`
	DaysRemaining    int                `json:"days_remaining"`
	PaymentInfo      *PaymentInfo       `json:"payment_info,omitempty"`
	PaymentWarning   string             `json:"payment_warning,omitempty"`
}

// ErrMemberNotFound is returned when an admission check references a member
// that does not exist. There is nobody to log the attempt against, so the
// caller reports it without an access log row.
var ErrMemberNotFound = errors.New("member not found")

// ErrTokenInvalid is returned when a presented QR token matches no stored
// hash. Like ErrMemberNotFound it cannot be logged against a member; the
// caller shows a generic invalid-code message.
var ErrTokenInvalid = errors.New("token not recognized")

// ceilDays rounds a duration up to whole days. A membership ending later
// today still counts as one remaining day.
func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}

// floorDays rounds a duration down to whole days.
func floorDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

// FormatAmount renders cents as a currency string for reasons and warnings.
func FormatAmount(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}
