package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Driver struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Capacity *DriverCapacity `gorm:"foreignKey:DriverID" json:"capacity,omitempty"`
}

// DisplayName joins first and last name.
func (d Driver) DisplayName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

func (d *Driver) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
