package models

import (
	"time"
)

const (
	ACCESS_METHOD_MANUAL = "manual"
	ACCESS_METHOD_QR     = "qr"
)

// AccessLog is the append-only record of one admission attempt, allowed or
// not. It is the system of record for attendance and audit; rows are never
// updated or deleted.
type AccessLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MemberID     uint      `gorm:"not null;index" json:"member_id"`
	Member       Member    `gorm:"foreignKey:MemberID" json:"-"`
	Method       string    `gorm:"type:varchar(20);not null" json:"method"`
	Allowed      bool      `gorm:"not null;index" json:"allowed"`
	Reason       string    `gorm:"type:varchar(255);not null" json:"reason"`
	QrTokenID    *uint     `gorm:"index" json:"qr_token_id"`
	VerifiedByID *uint     `json:"verified_by_id"`
	VerifiedBy   *User     `gorm:"foreignKey:VerifiedByID" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
