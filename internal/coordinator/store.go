package coordinator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// TaskStore is the persistence the coordinator drives. Implementations must
// report an overlap on Create as *ConflictError and any other failure as an
// error whose message is fit to show the user.
type TaskStore interface {
	Create(ctx context.Context, draft models.CrewTaskDraft, driverID string) (*models.CrewTask, error)
	Update(ctx context.Context, id string, patch models.CrewTaskPatch) (*models.CrewTask, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.CrewTask, error)
}

// Roster lists the known drivers.
type Roster interface {
	ListDrivers(ctx context.Context) ([]models.Driver, error)
}

// ConflictError is the store's 409: the driver already holds tasks that
// overlap the requested range.
type ConflictError struct {
	Message   string
	Conflicts []models.CrewTask
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("driver has %d conflicting task(s)", len(e.Conflicts))
}

// StoreError is a non-conflict failure reported by the store or its
// transport. Message is the store's own text.
type StoreError struct {
	StatusCode int
	Message    string
}

func (e *StoreError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("task store returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return "task store request failed"
}

// NotFound reports whether the store answered 404.
func (e *StoreError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}
