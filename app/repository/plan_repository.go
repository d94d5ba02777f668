package repository

import (
	"github.com/gympulse/gympulse/app/models"
	"gorm.io/gorm"
)

// planRepository implements the PlanRepository interface
type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository instance
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// Create creates a new plan in the database
func (r *planRepository) Create(plan *models.Plan) error {
	return r.db.Create(plan).Error
}

// GetByID retrieves a plan by its ID
func (r *planRepository) GetByID(id uint) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.First(&plan, id).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Update updates an existing plan
func (r *planRepository) Update(plan *models.Plan) error {
	return r.db.Save(plan).Error
}

// List retrieves all plans
func (r *planRepository) List() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Order("price_cents ASC").Find(&plans).Error
	return plans, err
}

// ListActive retrieves plans available for new memberships
func (r *planRepository) ListActive() ([]models.Plan, error) {
	var plans []models.Plan
	err := r.db.Where("active = ?", true).Order("price_cents ASC").Find(&plans).Error
	return plans, err
}
