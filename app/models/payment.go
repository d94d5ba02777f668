package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	PAYMENT_METHOD_CASH     = "cash"
	PAYMENT_METHOD_CARD     = "card"
	PAYMENT_METHOD_TRANSFER = "transfer"
)

// Payment rows are never deleted. Voiding sets CancelledAt and keeps the row
// as an audit trail; every aggregation must exclude voided rows.
type Payment struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	MemberID           uint       `gorm:"not null;index" json:"member_id" validate:"required"`
	Member             Member     `gorm:"foreignKey:MemberID" json:"-" validate:"-"`
	MembershipID       *uint      `gorm:"index" json:"membership_id"`
	AmountCents        int64      `gorm:"not null" json:"amount_cents" validate:"gt=0"`
	Method             string     `gorm:"type:varchar(50);not null" json:"method" validate:"oneof=cash card transfer"`
	ReceiptNumber      string     `gorm:"type:varchar(36);uniqueIndex" json:"receipt_number"`
	PaidAt             time.Time  `gorm:"not null" json:"paid_at"`
	CancelledAt        *time.Time `gorm:"type:timestamp;default:null" json:"cancelled_at"`
	CancellationReason string     `gorm:"type:varchar(255)" json:"cancellation_reason"`
	RecordedByID       *uint      `json:"recorded_by_id"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Payment) Validate() error {
	v := validator.New()

	return v.Struct(p)
}

// CreatePayment builds a payment with a fresh receipt number.
func CreatePayment(memberID uint, membershipID *uint, amountCents int64, method string, paidAt time.Time) (*Payment, error) {
	p := &Payment{
		MemberID:      memberID,
		MembershipID:  membershipID,
		AmountCents:   amountCents,
		Method:        method,
		ReceiptNumber: uuid.NewString(),
		PaidAt:        paidAt,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return p, nil
}

// IsVoided reports whether the payment was cancelled.
func (p *Payment) IsVoided() bool {
	return p.CancelledAt != nil
}

// Void soft-deletes the payment with an audit reason.
func (p *Payment) Void(at time.Time, reason string) {
	p.CancelledAt = &at
	p.CancellationReason = reason
}
