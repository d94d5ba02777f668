package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Plan is a catalog entry. Memberships snapshot the price at creation, so
// editing a plan never changes what an existing membership owes.
type Plan struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Description  string         `gorm:"type:text" json:"description" validate:"max=1000"`
	PriceCents   int64          `gorm:"not null" json:"price_cents" validate:"gte=0"`
	DurationDays int            `gorm:"not null" json:"duration_days" validate:"gt=0"`
	Active       bool           `gorm:"default:true" json:"active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Plan) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
