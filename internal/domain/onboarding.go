package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OnboardingProgress is the durable wizard progress for one profile, written
// through by the persistence bridge and deleted once onboarding completes.
// Data holds a partial OnboardingData snapshot as JSON.
type OnboardingProgress struct {
	ProfileID   uuid.UUID      `gorm:"column:profile_id;type:uuid;primaryKey" json:"profile_id"`
	CurrentStep int            `gorm:"column:current_step;not null;default:1" json:"current_step"`
	Data        datatypes.JSON `gorm:"column:data" json:"data"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (OnboardingProgress) TableName() string {
	return "onboarding"
}
