package dto

import (
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/utils"
)

// CreateTaskRequest is a draft plus the single driver that receives it.
// An empty driver_id or the unassigned sentinel creates an unassigned task.
type CreateTaskRequest struct {
	models.CrewTaskDraft
	DriverID string `json:"driver_id"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []models.CrewTask        `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ConflictResponse is the 409 body of a create that overlaps the driver's
// active tasks.
type ConflictResponse struct {
	Error     string            `json:"error"`
	Conflicts []models.CrewTask `json:"conflicts"`
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.CrewTask, params utils.PaginationParams, total int64) TaskListResponse {
	if tasks == nil {
		tasks = []models.CrewTask{}
	}
	return TaskListResponse{
		Tasks:      tasks,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
