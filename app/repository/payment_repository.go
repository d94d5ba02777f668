package repository

import (
	"github.com/gympulse/gympulse/app/models"
	"gorm.io/gorm"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create creates a new payment in the database
func (r *paymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByID retrieves a payment by its ID
func (r *paymentRepository) GetByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Update persists a void on an existing payment
func (r *paymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// ListByMembership retrieves non-voided payments for a membership
func (r *paymentRepository) ListByMembership(membershipID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("membership_id = ? AND cancelled_at IS NULL", membershipID).
		Order("paid_at DESC").
		Find(&payments).Error
	return payments, err
}

// ListByMember retrieves all payments of a member, voided included, for
// the audit view.
func (r *paymentRepository) ListByMember(memberID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("member_id = ?", memberID).
		Order("paid_at DESC").
		Find(&payments).Error
	return payments, err
}

// SumPaidByMembership totals non-voided payments for a membership. Voided
// rows must never count towards the balance.
func (r *paymentRepository) SumPaidByMembership(membershipID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.Payment{}).
		Where("membership_id = ? AND cancelled_at IS NULL", membershipID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}

// ListRecent retrieves the most recently recorded payments
func (r *paymentRepository) ListRecent(limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Preload("Member").Order("paid_at DESC").Limit(limit).Find(&payments).Error
	return payments, err
}
