package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reference data: lookup lists consumed by the onboarding wizard. Name keys
// are translation keys, resolved to display strings by the frontend.

type Country struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Code    string    `gorm:"column:code;type:char(2);not null;uniqueIndex" json:"code"`
	NameKey string    `gorm:"column:name_key;not null" json:"name_key"`
}

func (Country) TableName() string {
	return "countries"
}

func (c *Country) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Department struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	NameKey string    `gorm:"column:name_key;not null;uniqueIndex" json:"name_key"`
}

func (Department) TableName() string {
	return "departments"
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type Position struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	NameKey string    `gorm:"column:name_key;not null;uniqueIndex" json:"name_key"`
}

func (Position) TableName() string {
	return "positions"
}

func (p *Position) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
