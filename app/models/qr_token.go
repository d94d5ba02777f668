package models

import (
	"time"
)

// QrToken stores only the SHA-256 digest of a check-in credential. The
// plaintext lives exactly once: in the response of the issue call.
// UsedAt is written at most once, by the conditional update in the token
// repository; it is the single-use lock for concurrent validations.
type QrToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	MemberID  uint       `gorm:"not null;index" json:"member_id"`
	Member    Member     `gorm:"foreignKey:MemberID" json:"-"`
	TokenHash string     `gorm:"type:char(64);uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null;index" json:"expires_at"`
	UsedAt    *time.Time `gorm:"type:timestamp;default:null" json:"used_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// IsExpired reports whether the token is past its expiry at the given time.
func (t *QrToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsUsed reports whether the token was already consumed.
func (t *QrToken) IsUsed() bool {
	return t.UsedAt != nil
}
