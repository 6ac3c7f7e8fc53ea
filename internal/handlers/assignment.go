package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/coordinator"
	"github.com/yukikurage/crew-scheduling-api/internal/dto"
	apierrors "github.com/yukikurage/crew-scheduling-api/internal/errors"
	"github.com/yukikurage/crew-scheduling-api/internal/middleware"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/schedule"
)

// AssignmentHandler drives the coordinator. Every action is dispatched as an
// intent and answered with its settled outcome.
type AssignmentHandler struct {
	coordinator *coordinator.Coordinator
	log         *zap.Logger
}

func NewAssignmentHandler(c *coordinator.Coordinator, log *zap.Logger) *AssignmentHandler {
	return &AssignmentHandler{coordinator: c, log: log}
}

// CreateAssignments creates one task per driver. When any driver conflicts
// nothing is reported as created, the batch is kept in the session and the
// caller is answered 409 to choose skip or overwrite.
func (h *AssignmentHandler) CreateAssignments(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	out := h.coordinator.Dispatch(c.Request.Context(), coordinator.CreateIntent{
		Draft:       req.Draft,
		DriverIDs:   req.DriverIDs,
		MultiDriver: req.MultiDriver,
	})

	if out.Kind == coordinator.OutcomeConflict {
		pending := &coordinator.PendingResolution{Draft: req.Draft, Conflicts: out.Conflicts}
		if err := middleware.SavePendingResolution(c, pending); err != nil {
			// The caller can still resolve by sending the draft and conflicts back.
			h.log.Warn("failed to keep pending resolution",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Error(err))
		}
	}

	h.respond(c, out, http.StatusCreated)
}

// ResolveConflicts settles the batch halted by CreateAssignments. The draft
// and conflict records come from the request when given, otherwise from the
// session.
func (h *AssignmentHandler) ResolveConflicts(c *gin.Context) {
	var req dto.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if !req.Resolution.Valid() {
		apierrors.BadRequest(c, "resolution must be skip or overwrite")
		return
	}

	intent := coordinator.ResolveIntent{
		Resolution: req.Resolution,
		DriverIDs:  req.DriverIDs,
		Conflicts:  req.Conflicts,
	}
	if req.Draft != nil {
		intent.Draft = *req.Draft
	}

	if req.Draft == nil || req.Conflicts == nil {
		pending, ok := middleware.GetPendingResolution(c)
		if !ok && req.Draft == nil && (req.Resolution == coordinator.ResolutionOverwrite || len(req.DriverIDs) == 0) {
			apierrors.RespondWithError(c, http.StatusConflict,
				apierrors.NewAPIError(apierrors.ErrCodeNoPendingConflict, "No pending conflict to resolve"))
			return
		}
		if ok {
			if req.Draft == nil {
				intent.Draft = pending.Draft
			}
			if req.Conflicts == nil {
				intent.Conflicts = pending.Conflicts
			}
		}
	}
	if len(intent.DriverIDs) == 0 {
		intent.DriverIDs = (&coordinator.PendingResolution{Conflicts: intent.Conflicts}).DriverIDs()
	}

	out := h.coordinator.Dispatch(c.Request.Context(), intent)

	switch out.Kind {
	case coordinator.OutcomeRejected, coordinator.OutcomeFailure:
		// Nothing changed; the caller may retry.
	default:
		h.settlePending(c, intent.DriverIDs)
	}

	h.respond(c, out, http.StatusOK)
}

// settlePending drops the resolved drivers from the session's pending batch.
// The batch is cleared once no conflicted driver is left.
func (h *AssignmentHandler) settlePending(c *gin.Context, resolved []string) {
	pending, ok := middleware.GetPendingResolution(c)
	if !ok {
		return
	}
	done := make(map[string]bool, len(resolved))
	for _, id := range resolved {
		done[id] = true
	}
	var remaining []coordinator.ConflictRecord
	for _, record := range pending.Conflicts {
		if !done[record.DriverID] {
			remaining = append(remaining, record)
		}
	}

	if len(remaining) > 0 {
		pending.Conflicts = remaining
		if err := middleware.SavePendingResolution(c, pending); err != nil {
			h.log.Warn("failed to save pending resolution", zap.Error(err))
		}
		return
	}
	if err := middleware.ClearPendingResolution(c); err != nil {
		h.log.Warn("failed to clear pending resolution", zap.Error(err))
	}
}

// MoveTask reassigns a task dropped on another driver's cell. Moves onto a
// past date or onto a date other than the task's start are rejected 422.
func (h *AssignmentHandler) MoveTask(c *gin.Context) {
	var req dto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}
	if req.Date.IsZero() {
		apierrors.BadRequest(c, "date is required")
		return
	}

	out := h.coordinator.Dispatch(c.Request.Context(), coordinator.MoveIntent{
		TaskID:   req.TaskID,
		DriverID: req.DriverID,
		Date:     req.Date,
	})
	h.respond(c, out, http.StatusOK)
}

func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	var patch models.CrewTaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	out := h.coordinator.Dispatch(c.Request.Context(), coordinator.UpdateIntent{
		TaskID: c.Param("id"),
		Patch:  patch,
	})
	h.respond(c, out, http.StatusOK)
}

func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	out := h.coordinator.Dispatch(c.Request.Context(), coordinator.DeleteIntent{TaskID: c.Param("id")})
	h.respond(c, out, http.StatusOK)
}

// BulkAssign assigns each task in turn, continuing past failures.
func (h *AssignmentHandler) BulkAssign(c *gin.Context) {
	var req dto.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	out := h.coordinator.Dispatch(c.Request.Context(), coordinator.BulkAssignIntent{
		DriverID: req.DriverID,
		TaskIDs:  req.TaskIDs,
	})
	h.respond(c, out, http.StatusOK)
}

// FilterTasks narrows a task list the caller already holds.
func (h *AssignmentHandler) FilterTasks(c *gin.Context) {
	var req dto.FilterTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	tasks := schedule.Filter(req.Tasks, req.Criteria)
	c.JSON(http.StatusOK, dto.UnassignedTasksResponse{Tasks: tasks, Count: len(tasks)})
}

func (h *AssignmentHandler) respond(c *gin.Context, out coordinator.Outcome, successStatus int) {
	status, code := outcomeStatus(out, successStatus)

	if status >= http.StatusInternalServerError {
		h.log.Error("assignment failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("outcome", string(out.Kind)),
			zap.Error(out.Err))
	} else if out.Err != nil {
		h.log.Info("assignment settled with errors",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("outcome", string(out.Kind)),
			zap.Error(out.Err))
	}

	c.JSON(status, dto.ToOutcomeResponse(out, code))
}

// outcomeStatus maps an outcome to its HTTP status and error code.
func outcomeStatus(out coordinator.Outcome, successStatus int) (int, string) {
	switch out.Kind {
	case coordinator.OutcomeSuccess:
		return successStatus, ""
	case coordinator.OutcomeSkipped:
		return http.StatusOK, ""
	case coordinator.OutcomeConflict:
		return http.StatusConflict, apierrors.ErrCodeConflict
	case coordinator.OutcomeRejected:
		return http.StatusUnprocessableEntity, apierrors.ErrCodeRejected
	case coordinator.OutcomePartialFailure:
		return http.StatusMultiStatus, apierrors.ErrCodePartialFailure
	case coordinator.OutcomeDataLoss:
		return http.StatusInternalServerError, apierrors.ErrCodeOverwriteFailed
	}
	return failureStatus(out.Err)
}

func failureStatus(err error) (int, string) {
	var (
		batchErr *coordinator.BatchError
		storeErr *coordinator.StoreError
	)
	switch {
	case errors.As(err, &batchErr):
		return http.StatusBadGateway, apierrors.ErrCodeUpstreamError
	case errors.As(err, &storeErr):
		switch {
		case storeErr.NotFound():
			return http.StatusNotFound, apierrors.ErrCodeNotFound
		case storeErr.StatusCode == http.StatusBadRequest || storeErr.StatusCode == http.StatusUnprocessableEntity:
			return http.StatusUnprocessableEntity, apierrors.ErrCodeRejected
		case storeErr.StatusCode == http.StatusGatewayTimeout:
			return http.StatusGatewayTimeout, apierrors.ErrCodeServiceUnavailable
		}
		return http.StatusBadGateway, apierrors.ErrCodeUpstreamError
	}
	return http.StatusInternalServerError, apierrors.ErrCodeInternalError
}
