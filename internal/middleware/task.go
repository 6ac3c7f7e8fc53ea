package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	apierrors "github.com/yukikurage/crew-scheduling-api/internal/errors"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// TaskFinder loads one task by id.
type TaskFinder interface {
	GetTask(ctx context.Context, id string) (*models.CrewTask, error)
}

// RequireTask loads the task named by the :id parameter into the context,
// answering 400 for a malformed id and 404 for an unknown one.
func RequireTask(finder TaskFinder, notFound error, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID := c.Param("id")
		if _, err := uuid.Parse(taskID); err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		task, err := finder.GetTask(c.Request.Context(), taskID)
		if err != nil {
			if errors.Is(err, notFound) {
				apierrors.NotFound(c, "Task not found")
			} else {
				log.Error("failed to load task", zap.String("task_id", taskID), zap.Error(err))
				apierrors.InternalError(c, "Failed to load task")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTask
func GetTask(c *gin.Context) (*models.CrewTask, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.CrewTask)
	return task, ok
}
