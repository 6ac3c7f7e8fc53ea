package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/yukikurage/crew-scheduling-api/internal/coordinator"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// LocalTaskStore serves the coordinator from this process's database,
// translating service errors into the store contract a remote store would
// produce over HTTP.
type LocalTaskStore struct {
	tasks *CrewTaskService
}

func NewLocalTaskStore(tasks *CrewTaskService) *LocalTaskStore {
	return &LocalTaskStore{tasks: tasks}
}

var _ coordinator.TaskStore = (*LocalTaskStore)(nil)

func (s *LocalTaskStore) Create(ctx context.Context, draft models.CrewTaskDraft, driverID string) (*models.CrewTask, error) {
	task, err := s.tasks.CreateTask(ctx, draft, driverID)
	return task, storeError(err)
}

func (s *LocalTaskStore) Update(ctx context.Context, id string, patch models.CrewTaskPatch) (*models.CrewTask, error) {
	task, err := s.tasks.UpdateTask(ctx, id, patch)
	return task, storeError(err)
}

func (s *LocalTaskStore) Delete(ctx context.Context, id string) error {
	return storeError(s.tasks.DeleteTask(ctx, id))
}

func (s *LocalTaskStore) Get(ctx context.Context, id string) (*models.CrewTask, error) {
	task, err := s.tasks.GetTask(ctx, id)
	return task, storeError(err)
}

func storeError(err error) error {
	if err == nil {
		return nil
	}

	var conflictErr *TaskConflictError
	switch {
	case errors.As(err, &conflictErr):
		return &coordinator.ConflictError{Message: conflictErr.Error(), Conflicts: conflictErr.Conflicts}
	case errors.Is(err, ErrTaskNotFound):
		return &coordinator.StoreError{StatusCode: http.StatusNotFound, Message: "Task not found"}
	case IsValidationError(err):
		return &coordinator.StoreError{StatusCode: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return &coordinator.StoreError{StatusCode: http.StatusGatewayTimeout, Message: "Task store timed out"}
	}
	return &coordinator.StoreError{StatusCode: http.StatusInternalServerError, Message: err.Error()}
}
