package repository

import (
	"time"

	"github.com/gympulse/gympulse/app/models"
	"gorm.io/gorm"
)

// membershipRepository implements the MembershipRepository interface
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository instance
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Create creates a new membership in the database
func (r *membershipRepository) Create(membership *models.Membership) error {
	return r.db.Create(membership).Error
}

// GetByID retrieves a membership by its ID with plan and member preloaded
func (r *membershipRepository) GetByID(id uint) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.Preload("Plan").Preload("Member").First(&membership, id).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// Update persists a status transition on an existing membership
func (r *membershipRepository) Update(membership *models.Membership) error {
	return r.db.Save(membership).Error
}

// FindCurrentByMember returns the member's membership in a current status
// (active, frozen, pending_payment), plan preloaded, most recent first.
func (r *membershipRepository) FindCurrentByMember(memberID uint) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.Preload("Plan").
		Where("member_id = ? AND status IN ?", memberID, models.CurrentMembershipStatuses).
		Order("ends_at DESC").
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindLatestByMemberAndStatuses returns the most recent membership among the
// given statuses, ordered by ends_at descending.
func (r *membershipRepository) FindLatestByMemberAndStatuses(memberID uint, statuses []string) (*models.Membership, error) {
	var membership models.Membership
	err := r.db.Preload("Plan").
		Where("member_id = ? AND status IN ?", memberID, statuses).
		Order("ends_at DESC").
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListByMember retrieves the full membership history of a member
func (r *membershipRepository) ListByMember(memberID uint) ([]models.Membership, error) {
	var memberships []models.Membership
	err := r.db.Preload("Plan").
		Where("member_id = ?", memberID).
		Order("ends_at DESC").
		Find(&memberships).Error
	return memberships, err
}

// ExpireDue persists active -> expired for rows whose ends_at has passed.
// The access calculators recompute against stale statuses either way; this
// only keeps listings and reports honest.
func (r *membershipRepository) ExpireDue(now time.Time) (int64, error) {
	result := r.db.Model(&models.Membership{}).
		Where("status = ? AND ends_at <= ?", models.MEMBERSHIP_STATUS_ACTIVE, now).
		Update("status", models.MEMBERSHIP_STATUS_EXPIRED)
	return result.RowsAffected, result.Error
}

// CountByStatus returns the number of memberships in the given status
func (r *membershipRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Membership{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
