// Package schedule derives the per-driver, per-date grid shown on the shift
// calendar. Everything here is a pure function of its inputs.
package schedule

import (
	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// ScheduledTask is one day of a task as it appears in a grid cell.
type ScheduledTask struct {
	models.CrewTask
	TaskDate   models.Date `json:"task_date"`
	CurrentDay int         `json:"current_day"`
	IsMultiDay bool        `json:"is_multi_day"`
	IsFirstDay bool        `json:"is_first_day"`
	IsLastDay  bool        `json:"is_last_day"`
}

// Cell is the content of one driver/date slot.
type Cell struct {
	Tasks     []ScheduledTask `json:"tasks"`
	TaskCount int             `json:"task_count"`
}

// Entry is a driver's row in the grid, keyed by yyyy-MM-dd.
type Entry struct {
	DriverID   string          `json:"driver_id"`
	DriverName string          `json:"driver_name"`
	Dates      map[string]Cell `json:"dates"`
}

// IsUnassigned reports whether the entry is the unassigned bucket.
func (e Entry) IsUnassigned() bool {
	return e.DriverID == constants.UnassignedDriverID
}

// TaskCount sums the tasks across every date of the entry.
func (e Entry) TaskCount() int {
	total := 0
	for _, cell := range e.Dates {
		total += cell.TaskCount
	}
	return total
}
