package models

import (
	"strings"
	"time"
)

// DriverCapacity holds per-driver working limits and preferences. The limits
// are advisory: nothing in the assignment path rejects over-allocation.
type DriverCapacity struct {
	DriverID           string    `gorm:"type:varchar(36);primarykey" json:"driver_id"`
	MaxHoursPerDay     float64   `gorm:"not null" json:"max_hours_per_day"`
	MaxHoursPerWeek    float64   `gorm:"not null" json:"max_hours_per_week"`
	MaxHoursPerMonth   float64   `gorm:"not null" json:"max_hours_per_month"`
	PreferredStartTime string    `gorm:"type:varchar(5)" json:"preferred_start_time"`
	PreferredEndTime   string    `gorm:"type:varchar(5)" json:"preferred_end_time"`
	PreferredDays      string    `gorm:"type:varchar(100)" json:"preferred_days"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// WorksOn reports whether weekday is among the preferred days. An empty
// preference means every day.
func (c DriverCapacity) WorksOn(weekday time.Weekday) bool {
	if strings.TrimSpace(c.PreferredDays) == "" {
		return true
	}
	name := strings.ToLower(weekday.String()[:3])
	for _, day := range strings.Split(c.PreferredDays, ",") {
		if strings.ToLower(strings.TrimSpace(day)) == name {
			return true
		}
	}
	return false
}
