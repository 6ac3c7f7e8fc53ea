package dto

import (
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/schedule"
)

// ScheduleMeta summarizes a grid response
type ScheduleMeta struct {
	StartDate       models.Date `json:"start_date"`
	EndDate         models.Date `json:"end_date"`
	Days            int         `json:"days"`
	DriverCount     int         `json:"driver_count"`
	TaskCount       int         `json:"task_count"`
	UnassignedCount int         `json:"unassigned_count"`
}

// ScheduleResponse is the per-driver grid for a date range
type ScheduleResponse struct {
	Drivers []schedule.Entry `json:"drivers"`
	Meta    ScheduleMeta     `json:"meta"`
}

// ToScheduleResponse converts an aggregated grid to ScheduleResponse.
// Counts are per day, so a three-day task counts three times.
func ToScheduleResponse(grid []schedule.Entry, from, to models.Date) ScheduleResponse {
	if grid == nil {
		grid = []schedule.Entry{}
	}

	meta := ScheduleMeta{
		StartDate: from,
		EndDate:   to,
		Days:      from.DaysUntil(to) + 1,
	}
	for _, entry := range grid {
		if entry.IsUnassigned() {
			meta.UnassignedCount += entry.TaskCount()
		} else {
			meta.DriverCount++
		}
		meta.TaskCount += entry.TaskCount()
	}

	return ScheduleResponse{Drivers: grid, Meta: meta}
}

// UnassignedTasksResponse lists unassigned tasks matching a filter
type UnassignedTasksResponse struct {
	Tasks []models.CrewTask `json:"tasks"`
	Count int               `json:"count"`
}

// FilterTasksRequest filters a caller-supplied task list
type FilterTasksRequest struct {
	Tasks []models.CrewTask `json:"tasks"`
	schedule.Criteria
}
