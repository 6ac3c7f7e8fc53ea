package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"gorm.io/gorm"
)

type TaskType string

const (
	TaskTypeCharter     TaskType = "charter"
	TaskTypeRegular     TaskType = "regular"
	TaskTypeTraining    TaskType = "training"
	TaskTypeDayOff      TaskType = "day_off"
	TaskTypeMaintenance TaskType = "maintenance"
	TaskTypeMeeting     TaskType = "meeting"
	TaskTypeStandby     TaskType = "standby"
	TaskTypeSpecial     TaskType = "special"
)

// Valid reports whether t is one of the known task types.
func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeCharter, TaskTypeRegular, TaskTypeTraining, TaskTypeDayOff,
		TaskTypeMaintenance, TaskTypeMeeting, TaskTypeStandby, TaskTypeSpecial:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusScheduled  TaskStatus = "scheduled"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusScheduled, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// CrewTask is a unit of work assigned, or assignable, to a driver over a
// date range. A nil DriverID means unassigned.
type CrewTask struct {
	ID            string     `gorm:"type:varchar(36);primarykey" json:"id"`
	TaskNumber    int        `gorm:"not null" json:"task_number"`
	TaskType      TaskType   `gorm:"type:varchar(20);not null;default:'regular'" json:"task_type"`
	TaskStatus    TaskStatus `gorm:"type:varchar(20);not null;default:'scheduled'" json:"task_status"`
	DriverID      *string    `gorm:"type:varchar(36)" json:"driver_id"`
	StartDate     Date       `gorm:"not null" json:"start_date"`
	EndDate       Date       `gorm:"not null" json:"end_date"`
	StartTime     *string    `gorm:"type:varchar(5)" json:"start_time"`
	EndTime       *string    `gorm:"type:varchar(5)" json:"end_time"`
	HoursPerDay   *float64   `json:"hours_per_day"`
	TotalHours    *float64   `json:"total_hours"`
	Title         string     `gorm:"type:varchar(255)" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Location      string     `gorm:"type:varchar(255)" json:"location"`
	CustomerName  string     `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone string     `gorm:"type:varchar(50)" json:"customer_phone"`
	ColorOverride string     `gorm:"type:varchar(20)" json:"color_override"`
	Priority      int        `gorm:"not null;default:0" json:"priority"`
	Notes         string     `gorm:"type:text" json:"notes"`
	BookingID     *string    `gorm:"type:varchar(36)" json:"booking_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Driver *Driver `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
}

// BeforeCreate assigns a uuid when the caller did not.
func (t *CrewTask) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// IsUnassigned reports whether no driver holds the task.
func (t *CrewTask) IsUnassigned() bool {
	return t.DriverID == nil || *t.DriverID == "" || *t.DriverID == constants.UnassignedDriverID
}

// DurationDays is the inclusive number of days the task spans.
func (t *CrewTask) DurationDays() int {
	return t.StartDate.DaysUntil(t.EndDate) + 1
}

// CrewTaskDraft is the payload for creating a task. The driver is supplied
// separately so one draft can be fanned out to several drivers.
type CrewTaskDraft struct {
	TaskNumber    int      `json:"task_number"`
	TaskType      TaskType `json:"task_type,omitempty"`
	StartDate     Date     `json:"start_date"`
	EndDate       Date     `json:"end_date"`
	StartTime     *string  `json:"start_time,omitempty"`
	EndTime       *string  `json:"end_time,omitempty"`
	HoursPerDay   *float64 `json:"hours_per_day,omitempty"`
	TotalHours    *float64 `json:"total_hours,omitempty"`
	Title         string   `json:"title,omitempty"`
	Description   string   `json:"description,omitempty"`
	Location      string   `json:"location,omitempty"`
	CustomerName  string   `json:"customer_name,omitempty"`
	CustomerPhone string   `json:"customer_phone,omitempty"`
	ColorOverride string   `json:"color_override,omitempty"`
	Priority      int      `json:"priority"`
	Notes         string   `json:"notes,omitempty"`
	BookingID     *string  `json:"booking_id,omitempty"`
}

// CrewTaskPatch is a partial update. Nil fields are left untouched.
type CrewTaskPatch struct {
	TaskNumber    *int        `json:"task_number,omitempty"`
	TaskType      *TaskType   `json:"task_type,omitempty"`
	TaskStatus    *TaskStatus `json:"task_status,omitempty"`
	DriverID      *string     `json:"driver_id,omitempty"`
	StartDate     *Date       `json:"start_date,omitempty"`
	EndDate       *Date       `json:"end_date,omitempty"`
	StartTime     *string     `json:"start_time,omitempty"`
	EndTime       *string     `json:"end_time,omitempty"`
	HoursPerDay   *float64    `json:"hours_per_day,omitempty"`
	TotalHours    *float64    `json:"total_hours,omitempty"`
	Title         *string     `json:"title,omitempty"`
	Description   *string     `json:"description,omitempty"`
	Location      *string     `json:"location,omitempty"`
	CustomerName  *string     `json:"customer_name,omitempty"`
	CustomerPhone *string     `json:"customer_phone,omitempty"`
	ColorOverride *string     `json:"color_override,omitempty"`
	Priority      *int        `json:"priority,omitempty"`
	Notes         *string     `json:"notes,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p CrewTaskPatch) IsEmpty() bool {
	return p == CrewTaskPatch{}
}
