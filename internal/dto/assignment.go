package dto

import (
	"github.com/yukikurage/crew-scheduling-api/internal/coordinator"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// CreateAssignmentRequest fans one draft out to several drivers
type CreateAssignmentRequest struct {
	Draft       models.CrewTaskDraft `json:"draft"`
	DriverIDs   []string             `json:"driver_ids"`
	MultiDriver bool                 `json:"multi_driver"`
}

// ResolveRequest settles a create batch halted on conflicts. Draft and
// Conflicts may be omitted when the halted batch is held in the session.
type ResolveRequest struct {
	Resolution coordinator.Resolution       `json:"resolution" binding:"required"`
	DriverIDs  []string                     `json:"driver_ids"`
	Draft      *models.CrewTaskDraft        `json:"draft,omitempty"`
	Conflicts  []coordinator.ConflictRecord `json:"conflicts,omitempty"`
}

// MoveRequest drops a task onto a driver/date cell of the grid
type MoveRequest struct {
	TaskID   string      `json:"task_id" binding:"required"`
	DriverID string      `json:"driver_id" binding:"required"`
	Date     models.Date `json:"date"`
}

// BulkAssignRequest assigns several existing tasks to one driver
type BulkAssignRequest struct {
	DriverID string   `json:"driver_id" binding:"required"`
	TaskIDs  []string `json:"task_ids"`
}

// OutcomeResponse reports the settled result of an assignment action
type OutcomeResponse struct {
	Outcome     coordinator.OutcomeKind      `json:"outcome"`
	Phase       coordinator.Phase            `json:"phase"`
	Code        string                       `json:"code,omitempty"`
	Message     string                       `json:"message"`
	RefreshGrid bool                         `json:"refresh_grid"`
	Task        *models.CrewTask             `json:"task,omitempty"`
	Tasks       []models.CrewTask            `json:"tasks,omitempty"`
	Conflicts   []coordinator.ConflictRecord `json:"conflicts,omitempty"`
	Failures    []coordinator.TaskFailure    `json:"failures,omitempty"`
	Created     int                          `json:"created,omitempty"`
	Resolved    int                          `json:"resolved,omitempty"`
	Skipped     int                          `json:"skipped,omitempty"`
	Deleted     int                          `json:"deleted,omitempty"`
	Succeeded   int                          `json:"succeeded,omitempty"`
	Failed      int                          `json:"failed,omitempty"`
}

// ToOutcomeResponse converts a coordinator outcome to OutcomeResponse
func ToOutcomeResponse(out coordinator.Outcome, code string) OutcomeResponse {
	return OutcomeResponse{
		Outcome:     out.Kind,
		Phase:       out.Phase,
		Code:        code,
		Message:     out.Notification(),
		RefreshGrid: out.RefreshGrid(),
		Task:        out.Task,
		Tasks:       out.Tasks,
		Conflicts:   out.Conflicts,
		Failures:    out.Failures,
		Created:     out.Created,
		Resolved:    out.Resolved,
		Skipped:     out.Skipped,
		Deleted:     out.Deleted,
		Succeeded:   out.Succeeded,
		Failed:      out.Failed,
	}
}
