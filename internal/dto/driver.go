package dto

// CreateDriverRequest adds a driver to the roster
type CreateDriverRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
}

// UpdateCapacityRequest changes a driver's advisory limits. Omitted fields
// keep their current value.
type UpdateCapacityRequest struct {
	MaxHoursPerDay     *float64 `json:"max_hours_per_day"`
	MaxHoursPerWeek    *float64 `json:"max_hours_per_week"`
	MaxHoursPerMonth   *float64 `json:"max_hours_per_month"`
	PreferredStartTime *string  `json:"preferred_start_time"`
	PreferredEndTime   *string  `json:"preferred_end_time"`
	PreferredDays      []string `json:"preferred_days"`
}
