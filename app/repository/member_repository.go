package repository

import (
	"github.com/gympulse/gympulse/app/models"
	"gorm.io/gorm"
)

// memberRepository implements the MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository instance
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member in the database
func (r *memberRepository) Create(member *models.Member) error {
	return r.db.Create(member).Error
}

// GetByID retrieves a member by their ID
func (r *memberRepository) GetByID(id uint) (*models.Member, error) {
	var member models.Member
	err := r.db.First(&member, id).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// GetByMemberNumber retrieves a member by their member number
func (r *memberRepository) GetByMemberNumber(number string) (*models.Member, error) {
	var member models.Member
	err := r.db.Where("member_number = ?", number).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Update updates an existing member
func (r *memberRepository) Update(member *models.Member) error {
	return r.db.Save(member).Error
}

// List retrieves members with pagination
func (r *memberRepository) List(offset, limit int) ([]models.Member, error) {
	var members []models.Member
	err := r.db.Offset(offset).Limit(limit).Order("name ASC").Find(&members).Error
	return members, err
}

// Search searches members by name, email or member number
func (r *memberRepository) Search(query string) ([]models.Member, error) {
	var members []models.Member
	searchPattern := "%" + query + "%"
	err := r.db.Where("name LIKE ? OR email LIKE ? OR member_number LIKE ?",
		searchPattern, searchPattern, searchPattern).
		Order("name ASC").Limit(50).Find(&members).Error
	return members, err
}

// Count returns the total number of members
func (r *memberRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Count(&count).Error
	return count, err
}

// CountActive returns the number of members with the active flag set
func (r *memberRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Where("active = ?", true).Count(&count).Error
	return count, err
}
