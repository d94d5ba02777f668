package repository

import (
	"time"

	"github.com/gympulse/gympulse/app/models"
	"gorm.io/gorm"
)

// qrTokenRepository implements the QrTokenRepository interface
type qrTokenRepository struct {
	db *gorm.DB
}

// NewQrTokenRepository creates a new QR token repository instance
func NewQrTokenRepository(db *gorm.DB) QrTokenRepository {
	return &qrTokenRepository{db: db}
}

// Create creates a new token row
func (r *qrTokenRepository) Create(token *models.QrToken) error {
	return r.db.Create(token).Error
}

// GetByHash retrieves a token by the hash of its secret
func (r *qrTokenRepository) GetByHash(hash string) (*models.QrToken, error) {
	var token models.QrToken
	err := r.db.Where("token_hash = ?", hash).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Consume atomically claims the token for this caller. The predicate
// `used_at IS NULL` is part of the UPDATE itself, so exactly one concurrent
// validation can win regardless of how many service instances are running;
// every other caller sees zero rows affected.
func (r *qrTokenRepository) Consume(hash string, usedAt time.Time) (bool, error) {
	result := r.db.Model(&models.QrToken{}).
		Where("token_hash = ? AND used_at IS NULL", hash).
		Update("used_at", usedAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteExpiredBefore removes tokens whose expiry is older than cutoff.
// Consumed and expired tokens are immutable in the fields that matter, so
// the sweep needs no coordination with in-flight validations.
func (r *qrTokenRepository) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", cutoff).Delete(&models.QrToken{})
	return result.RowsAffected, result.Error
}
