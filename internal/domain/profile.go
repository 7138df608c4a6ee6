package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is the application-level record for an authenticated identity:
// credentials, onboarding attributes, and the optional company link.
type Profile struct {
	ID                  uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email               *string        `gorm:"column:email;uniqueIndex" json:"email"`
	Phone               *string        `gorm:"column:phone;uniqueIndex" json:"phone"`
	PasswordHash        string         `gorm:"column:password_hash;not null" json:"-"`
	FirstName           *string        `gorm:"column:first_name" json:"first_name"`
	LastName            *string        `gorm:"column:last_name" json:"last_name"`
	DepartmentID        *uuid.UUID     `gorm:"column:department_id;type:uuid" json:"department_id"`
	PositionID          *uuid.UUID     `gorm:"column:position_id;type:uuid" json:"position_id"`
	CompanyID           *uuid.UUID     `gorm:"column:company_id;type:uuid" json:"company_id"`
	CompanyRole         string         `gorm:"column:company_role;not null;default:user" json:"company_role"`
	OnboardingPurpose   *string        `gorm:"column:onboarding_purpose" json:"onboarding_purpose"`
	OnboardingCompleted bool           `gorm:"column:onboarding_completed;not null;default:false" json:"onboarding_completed"`
	PreferredLanguage   *string        `gorm:"column:preferred_language" json:"preferred_language"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate sets the UUID for DBs without gen_random_uuid.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
