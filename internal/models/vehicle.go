package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID          string    `gorm:"type:varchar(36);primarykey" json:"id"`
	Brand       string    `gorm:"type:varchar(100);not null" json:"brand"`
	Model       string    `gorm:"type:varchar(100);not null" json:"model"`
	PlateNumber string    `gorm:"type:varchar(20)" json:"plate_number"`
	CreatedAt   time.Time `json:"created_at"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
