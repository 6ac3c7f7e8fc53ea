package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/dto"
	apierrors "github.com/yukikurage/crew-scheduling-api/internal/errors"
	"github.com/yukikurage/crew-scheduling-api/internal/middleware"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/services"
	"github.com/yukikurage/crew-scheduling-api/internal/utils"
)

// TaskHandler serves the task store: plain CRUD with overlap detection on
// create.
type TaskHandler struct {
	tasks *services.CrewTaskService
	log   *zap.Logger
}

func NewTaskHandler(tasks *services.CrewTaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, log: log}
}

// ListTasks returns the tasks intersecting an optional date range
func (h *TaskHandler) ListTasks(c *gin.Context) {
	from, to, ok := optionalRange(c)
	if !ok {
		return
	}

	input := services.ListTasksInput{From: from, To: to}

	if driverID := c.Query("driver_id"); driverID != "" {
		input.DriverID = &driverID
	}
	if raw := c.Query("task_status"); raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid task_status")
			return
		}
		input.Status = &status
	}
	if raw := c.Query("task_type"); raw != "" {
		taskType := models.TaskType(raw)
		if !taskType.Valid() {
			apierrors.BadRequest(c, "Invalid task_type")
			return
		}
		input.TaskType = &taskType
	}
	if raw := c.Query("task_number"); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task_number")
			return
		}
		input.TaskNumber = &number
	}
	if bookingID := c.Query("booking_id"); bookingID != "" {
		input.BookingID = &bookingID
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	tasks, total, err := h.tasks.ListTasks(c.Request.Context(), input)
	if err != nil {
		if services.IsValidationError(err) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		h.log.Error("failed to list tasks", zap.Error(err))
		apierrors.InternalError(c, "Failed to fetch tasks")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// GetTask returns the task loaded by RequireTask
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	c.JSON(http.StatusOK, task)
}

// CreateTask stores one task. An overlap with the driver's active tasks is
// answered 409 with the overlapping tasks.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), req.CrewTaskDraft, req.DriverID)
	if err != nil {
		h.respondTaskError(c, err, "Failed to create task")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies a partial update. Overlaps are not checked.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	var patch models.CrewTaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.tasks.UpdateTask(c.Request.Context(), task.ID, patch)
	if err != nil {
		h.respondTaskError(c, err, "Failed to update task")
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	task, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), task.ID); err != nil {
		h.respondTaskError(c, err, "Failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error, fallback string) {
	var conflictErr *services.TaskConflictError
	switch {
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, dto.ConflictResponse{
			Error:     conflictErr.Error(),
			Conflicts: conflictErr.Conflicts,
		})
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case services.IsValidationError(err):
		apierrors.BadRequest(c, err.Error())
	default:
		h.log.Error(fallback, zap.String("request_id", middleware.GetRequestID(c)), zap.Error(err))
		apierrors.InternalError(c, fallback)
	}
}
