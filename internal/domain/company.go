package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is an organization a profile may be linked to. The legal identifier
// (DUNS or SIREN, 9 digits) is globally unique among companies when present.
type Company struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	LegalID     *string        `gorm:"column:legal_id;uniqueIndex" json:"legal_id"`
	LegalIDType *string        `gorm:"column:legal_id_type" json:"legal_id_type"`
	CountryID   *uuid.UUID     `gorm:"column:country_id;type:uuid" json:"country_id"`
	Address     *string        `gorm:"column:address" json:"address"`
	CreatedBy   uuid.UUID      `gorm:"column:created_by;type:uuid" json:"created_by"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Company) TableName() string {
	return "companies"
}

// BeforeCreate sets the UUID for DBs without gen_random_uuid.
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
