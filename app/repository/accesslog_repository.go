package repository

import (
	"errors"
	"time"

	"github.com/gympulse/gympulse/app/models"
	"gorm.io/gorm"
)

// accessLogRepository implements the AccessLogRepository interface
type accessLogRepository struct {
	db *gorm.DB
}

// NewAccessLogRepository creates a new access log repository instance
func NewAccessLogRepository(db *gorm.DB) AccessLogRepository {
	return &accessLogRepository{db: db}
}

// Create appends one admission attempt. Rows are never updated afterwards.
func (r *accessLogRepository) Create(log *models.AccessLog) error {
	return r.db.Create(log).Error
}

// LastAllowedAt returns when the member last entered, or nil if never.
func (r *accessLogRepository) LastAllowedAt(memberID uint) (*time.Time, error) {
	var log models.AccessLog
	err := r.db.Where("member_id = ? AND allowed = ?", memberID, true).
		Order("created_at DESC").
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &log.CreatedAt, nil
}

// ListByMember retrieves a member's admission history, most recent first
func (r *accessLogRepository) ListByMember(memberID uint, offset, limit int) ([]models.AccessLog, error) {
	var logs []models.AccessLog
	err := r.db.Where("member_id = ?", memberID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&logs).Error
	return logs, err
}

// ListRecent retrieves the most recent admission attempts across all members
func (r *accessLogRepository) ListRecent(limit int) ([]models.AccessLog, error) {
	var logs []models.AccessLog
	err := r.db.Preload("Member").
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// CountAllowedSince counts allowed entries after the given time
func (r *accessLogRepository) CountAllowedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.AccessLog{}).
		Where("allowed = ? AND created_at >= ?", true, since).
		Count(&count).Error
	return count, err
}
