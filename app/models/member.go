package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Member struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	MemberNumber string         `gorm:"type:varchar(36);uniqueIndex" json:"member_number"`
	Name         string         `gorm:"type:varchar(150)" json:"name" validate:"required,min=2,max=150"`
	Email        string         `gorm:"type:varchar(200);index" json:"email" validate:"omitempty,email,max=200"`
	Phone        string         `gorm:"type:varchar(30)" json:"phone" validate:"max=30"`
	Active       bool           `gorm:"default:true" json:"active"`
	Notes        string         `gorm:"type:text" json:"notes" validate:"max=2000"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (m *Member) Validate() error {
	v := validator.New()

	return v.Struct(m)
}

// CreateMember builds a new active member with a fresh member number.
func CreateMember(name, email, phone string) (*Member, error) {
	m := &Member{
		MemberNumber: uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		Active:       true,
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}
