package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/dto"
	apierrors "github.com/yukikurage/crew-scheduling-api/internal/errors"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/schedule"
	"github.com/yukikurage/crew-scheduling-api/internal/services"
)

type ScheduleHandler struct {
	schedule *services.ScheduleService
	log      *zap.Logger
}

func NewScheduleHandler(schedule *services.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, log: log}
}

// GetSchedule returns the driver x date grid for [start_date, end_date].
// driver_ids narrows the roster.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	from, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	to, ok := queryDate(c, "end_date")
	if !ok {
		return
	}

	grid, err := h.schedule.GetScheduleGrid(c.Request.Context(), from, to, queryList(c, "driver_ids"))
	if err != nil {
		if services.IsRangeError(err) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		h.log.Error("failed to build schedule", zap.Error(err))
		apierrors.InternalError(c, "Failed to fetch schedule")
		return
	}

	c.JSON(http.StatusOK, dto.ToScheduleResponse(grid, from, to))
}

// UnassignedTasks lists unassigned tasks, optionally narrowed by query,
// task_type and priority.
func (h *ScheduleHandler) UnassignedTasks(c *gin.Context) {
	from, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	to, ok := queryDate(c, "end_date")
	if !ok {
		return
	}

	criteria := schedule.Criteria{Query: c.Query("query")}
	if raw := c.Query("task_type"); raw != "" {
		taskType := models.TaskType(raw)
		if !taskType.Valid() {
			apierrors.BadRequest(c, "Invalid task_type")
			return
		}
		criteria.TaskType = &taskType
	}
	if criteria.Priority, ok = queryInt(c, "priority"); !ok {
		return
	}

	tasks, err := h.schedule.UnassignedTasks(c.Request.Context(), from, to, criteria)
	if err != nil {
		if services.IsRangeError(err) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		h.log.Error("failed to list unassigned tasks", zap.Error(err))
		apierrors.InternalError(c, "Failed to fetch unassigned tasks")
		return
	}

	c.JSON(http.StatusOK, dto.UnassignedTasksResponse{Tasks: tasks, Count: len(tasks)})
}
