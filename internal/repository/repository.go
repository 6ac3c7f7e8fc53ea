package repository

import (
	"context"

	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// CrewTaskRepository defines the interface for crew task data access
type CrewTaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.CrewTask) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id string, preload ...string) (*models.CrewTask, error)

	// FindOverlapping lists the driver's active tasks intersecting [from, to]
	FindOverlapping(ctx context.Context, driverID string, from, to models.Date) ([]models.CrewTask, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.CrewTask, int64, error)

	// Update writes the given columns and returns the stored task
	Update(ctx context.Context, id string, columns map[string]any) (*models.CrewTask, error)

	// Delete removes a task
	Delete(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	// From and To select tasks whose date range intersects [From, To].
	From       *models.Date
	To         *models.Date
	DriverIDs  []string
	Unassigned bool
	Status     *models.TaskStatus
	TaskType   *models.TaskType
	TaskNumber *int
	BookingID  *string
	Page       int
	PageSize   int
}

// DriverRepository defines the interface for driver roster data access
type DriverRepository interface {
	// Create creates a new driver
	Create(ctx context.Context, driver *models.Driver) error

	// FindByID finds a driver by ID, with capacity preloaded
	FindByID(ctx context.Context, id string) (*models.Driver, error)

	// List lists every driver ordered by name
	List(ctx context.Context) ([]models.Driver, error)

	// FindCapacity finds the driver's capacity settings
	FindCapacity(ctx context.Context, driverID string) (*models.DriverCapacity, error)

	// UpsertCapacity creates or replaces the driver's capacity settings
	UpsertCapacity(ctx context.Context, capacity *models.DriverCapacity) error
}

// VehicleRepository defines the interface for vehicle data access
type VehicleRepository interface {
	// Create creates a new vehicle
	Create(ctx context.Context, vehicle *models.Vehicle) error

	// List lists every vehicle ordered by brand and model
	List(ctx context.Context) ([]models.Vehicle, error)
}
