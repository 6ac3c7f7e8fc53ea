package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/repository"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrDatesRequired     = errors.New("start_date and end_date are required")
	ErrInvalidDateRange  = errors.New("end_date cannot be before start_date")
	ErrInvalidTaskType   = errors.New("invalid task type")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidDriverID   = errors.New("invalid driver id")
	ErrInvalidTime       = errors.New("times must be formatted HH:MM")
	ErrInvalidHours      = errors.New("hours cannot be negative")
	ErrNothingToUpdate   = errors.New("no updatable fields provided")
)

// TaskConflictError reports the driver's active tasks that overlap a
// requested range.
type TaskConflictError struct {
	DriverID  string
	Conflicts []models.CrewTask
}

func (e *TaskConflictError) Error() string {
	return fmt.Sprintf("driver already has %d task(s) in this period", len(e.Conflicts))
}

// IsValidationError reports whether err is a rejected input rather than a
// storage failure.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrDatesRequired, ErrInvalidDateRange, ErrInvalidTaskType, ErrInvalidTaskStatus,
		ErrInvalidDriverID, ErrInvalidTime, ErrInvalidHours, ErrNothingToUpdate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// CrewTaskService handles crew task business logic
type CrewTaskService struct {
	taskRepo repository.CrewTaskRepository
	log      *zap.Logger
}

// NewCrewTaskService creates a new CrewTaskService
func NewCrewTaskService(taskRepo repository.CrewTaskRepository, log *zap.Logger) *CrewTaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CrewTaskService{
		taskRepo: taskRepo,
		log:      log,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	From       *models.Date
	To         *models.Date
	DriverID   *string
	Status     *models.TaskStatus
	TaskType   *models.TaskType
	TaskNumber *int
	BookingID  *string
	Page       int
	PageSize   int
}

func (s *CrewTaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.CrewTask, int64, error) {
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return nil, 0, ErrInvalidDateRange
	}

	filter := repository.TaskFilter{
		From:       input.From,
		To:         input.To,
		Status:     input.Status,
		TaskType:   input.TaskType,
		TaskNumber: input.TaskNumber,
		BookingID:  input.BookingID,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}
	if input.DriverID != nil {
		if *input.DriverID == constants.UnassignedDriverID {
			filter.Unassigned = true
		} else {
			filter.DriverIDs = []string{*input.DriverID}
		}
	}

	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

func (s *CrewTaskService) GetTask(ctx context.Context, id string) (*models.CrewTask, error) {
	task, err := s.taskRepo.FindByID(ctx, id, "Driver")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask stores draft for driverID. An empty id or the unassigned
// sentinel stores the task with no driver. For an assigned task, any active
// task of the same driver overlapping the range fails the create with
// *TaskConflictError.
func (s *CrewTaskService) CreateTask(ctx context.Context, draft models.CrewTaskDraft, driverID string) (*models.CrewTask, error) {
	if draft.StartDate.IsZero() || draft.EndDate.IsZero() {
		return nil, ErrDatesRequired
	}
	if draft.EndDate.Before(draft.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if draft.TaskType == "" {
		draft.TaskType = models.TaskTypeRegular
	}
	if !draft.TaskType.Valid() {
		return nil, ErrInvalidTaskType
	}
	if err := validateTimes(draft.StartTime, draft.EndTime); err != nil {
		return nil, err
	}
	if err := validateHours(draft.HoursPerDay, draft.TotalHours); err != nil {
		return nil, err
	}

	driver, err := normalizeDriverID(driverID)
	if err != nil {
		return nil, err
	}

	if driver != nil {
		conflicts, err := s.taskRepo.FindOverlapping(ctx, *driver, draft.StartDate, draft.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to check conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			return nil, &TaskConflictError{DriverID: *driver, Conflicts: conflicts}
		}
	}

	task := &models.CrewTask{
		TaskNumber:    draft.TaskNumber,
		TaskType:      draft.TaskType,
		TaskStatus:    models.TaskStatusScheduled,
		DriverID:      driver,
		StartDate:     draft.StartDate,
		EndDate:       draft.EndDate,
		StartTime:     draft.StartTime,
		EndTime:       draft.EndTime,
		HoursPerDay:   draft.HoursPerDay,
		TotalHours:    draft.TotalHours,
		Title:         draft.Title,
		Description:   draft.Description,
		Location:      draft.Location,
		CustomerName:  draft.CustomerName,
		CustomerPhone: draft.CustomerPhone,
		ColorOverride: draft.ColorOverride,
		Priority:      draft.Priority,
		Notes:         draft.Notes,
		BookingID:     draft.BookingID,
	}
	if task.TotalHours == nil && task.HoursPerDay != nil {
		total := *task.HoursPerDay * float64(task.DurationDays())
		task.TotalHours = &total
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.log.Info("crew task created",
		zap.String("task_id", task.ID),
		zap.Int("task_number", task.TaskNumber),
		zap.Stringp("driver_id", task.DriverID),
		zap.Stringer("start_date", task.StartDate),
		zap.Stringer("end_date", task.EndDate))

	return s.taskRepo.FindByID(ctx, task.ID, "Driver")
}

// UpdateTask applies the non-nil fields of patch. Overlaps are not checked
// here; only creation detects conflicts.
func (s *CrewTaskService) UpdateTask(ctx context.Context, id string, patch models.CrewTaskPatch) (*models.CrewTask, error) {
	if patch.IsEmpty() {
		return nil, ErrNothingToUpdate
	}

	existing, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	columns, err := patchColumns(patch)
	if err != nil {
		return nil, err
	}

	start, end := existing.StartDate, existing.EndDate
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	if patch.EndDate != nil {
		end = *patch.EndDate
	}
	if end.Before(start) {
		return nil, ErrInvalidDateRange
	}

	task, err := s.taskRepo.Update(ctx, id, columns)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.log.Info("crew task updated", zap.String("task_id", id), zap.Int("fields", len(columns)))
	return task, nil
}

func (s *CrewTaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.log.Info("crew task deleted", zap.String("task_id", id))
	return nil
}

// patchColumns maps the updatable fields of patch to column names. Fields
// outside this list cannot be changed through an update.
func patchColumns(patch models.CrewTaskPatch) (map[string]any, error) {
	columns := map[string]any{}

	if patch.TaskNumber != nil {
		columns["task_number"] = *patch.TaskNumber
	}
	if patch.TaskType != nil {
		if !patch.TaskType.Valid() {
			return nil, ErrInvalidTaskType
		}
		columns["task_type"] = *patch.TaskType
	}
	if patch.TaskStatus != nil {
		if !patch.TaskStatus.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		columns["task_status"] = *patch.TaskStatus
	}
	if patch.DriverID != nil {
		driver, err := normalizeDriverID(*patch.DriverID)
		if err != nil {
			return nil, err
		}
		if driver == nil {
			columns["driver_id"] = nil
		} else {
			columns["driver_id"] = *driver
		}
	}
	if patch.StartDate != nil {
		if patch.StartDate.IsZero() {
			return nil, ErrDatesRequired
		}
		columns["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		if patch.EndDate.IsZero() {
			return nil, ErrDatesRequired
		}
		columns["end_date"] = *patch.EndDate
	}
	if err := validateTimes(patch.StartTime, patch.EndTime); err != nil {
		return nil, err
	}
	if patch.StartTime != nil {
		columns["start_time"] = *patch.StartTime
	}
	if patch.EndTime != nil {
		columns["end_time"] = *patch.EndTime
	}
	if err := validateHours(patch.HoursPerDay, patch.TotalHours); err != nil {
		return nil, err
	}
	if patch.HoursPerDay != nil {
		columns["hours_per_day"] = *patch.HoursPerDay
	}
	if patch.TotalHours != nil {
		columns["total_hours"] = *patch.TotalHours
	}

	for column, value := range map[string]*string{
		"title":          patch.Title,
		"description":    patch.Description,
		"location":       patch.Location,
		"customer_name":  patch.CustomerName,
		"customer_phone": patch.CustomerPhone,
		"color_override": patch.ColorOverride,
		"notes":          patch.Notes,
	} {
		if value != nil {
			columns[column] = *value
		}
	}
	if patch.Priority != nil {
		columns["priority"] = *patch.Priority
	}

	return columns, nil
}

// normalizeDriverID maps the unassigned sentinel and the empty string to nil.
func normalizeDriverID(id string) (*string, error) {
	if id == "" || id == constants.UnassignedDriverID {
		return nil, nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDriverID, id)
	}
	return &id, nil
}

func validateTimes(times ...*string) error {
	for _, t := range times {
		if t == nil || *t == "" {
			continue
		}
		if _, err := time.Parse("15:04", *t); err != nil {
			return ErrInvalidTime
		}
	}
	return nil
}

func validateHours(hours ...*float64) error {
	for _, h := range hours {
		if h != nil && *h < 0 {
			return ErrInvalidHours
		}
	}
	return nil
}
