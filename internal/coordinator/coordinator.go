// Package coordinator drives task creation, reassignment and conflict
// resolution against a TaskStore.
//
// Fan-out operations issue every call at once and wait for all of them;
// one failure never cancels its siblings. Sequential operations run in
// program order. Conflict detection belongs to the store: the coordinator
// never second-guesses it from local data.
package coordinator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// DefaultStoreTimeout bounds a single store call when Config leaves it unset.
const DefaultStoreTimeout = 20 * time.Second

// Config tunes a Coordinator. Zero fields take defaults.
type Config struct {
	// StoreTimeout bounds each individual store call.
	StoreTimeout time.Duration
	// Now supplies the wall clock; "today" is its local date.
	Now    func() time.Time
	Logger *zap.Logger
}

// Coordinator turns assignment actions into task store calls.
type Coordinator struct {
	store        TaskStore
	roster       Roster
	storeTimeout time.Duration
	now          func() time.Time
	log          *zap.Logger
}

// New builds a Coordinator over store and roster.
func New(store TaskStore, roster Roster, cfg Config) *Coordinator {
	c := &Coordinator{
		store:        store,
		roster:       roster,
		storeTimeout: cfg.StoreTimeout,
		now:          cfg.Now,
		log:          cfg.Logger,
	}
	if c.storeTimeout <= 0 {
		c.storeTimeout = DefaultStoreTimeout
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// ConflictRecord lists the tasks that blocked a create for one driver.
type ConflictRecord struct {
	DriverID   string            `json:"driver_id"`
	DriverName string            `json:"driver_name"`
	Conflicts  []models.CrewTask `json:"conflicts"`
}

// CreateResult is either a count of created tasks or, when any driver
// conflicted, the conflict records awaiting resolution. Tasks created for
// non-conflicting drivers in the same batch stay created but are not
// reported until the conflicts are resolved.
type CreateResult struct {
	Created   int               `json:"created,omitempty"`
	Tasks     []models.CrewTask `json:"tasks,omitempty"`
	Conflicts []ConflictRecord  `json:"conflicts,omitempty"`
}

// HasConflicts reports whether the caller must resolve conflicts.
func (r *CreateResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

type createOutcome struct {
	driverID string
	task     *models.CrewTask
	err      error
}

// CreateForDrivers creates one sibling task per driver, all calls in flight
// at once. An empty driverIDs creates a single unassigned task unless
// multiDriver is set, in which case it is rejected.
//
// Conflicts are not errors: they come back in CreateResult.Conflicts. Other
// failures, when no driver conflicted, return a *BatchError; tasks created
// before the failure remain.
func (c *Coordinator) CreateForDrivers(ctx context.Context, draft models.CrewTaskDraft, driverIDs []string, multiDriver bool) (*CreateResult, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	targets := uniqueStrings(driverIDs)
	if len(targets) == 0 {
		if multiDriver {
			return nil, reject(ReasonNoDrivers, "Select at least one driver")
		}
		targets = []string{constants.UnassignedDriverID}
	}
	for _, id := range targets {
		if err := validateDriverID(id); err != nil {
			return nil, err
		}
	}

	outcomes := c.createAll(ctx, draft, targets)

	var (
		created   []models.CrewTask
		conflicts []createOutcome
		failures  []error
	)
	for _, o := range outcomes {
		switch {
		case o.err == nil:
			created = append(created, *o.task)
		case IsConflict(o.err):
			conflicts = append(conflicts, o)
		default:
			failures = append(failures, o.err)
		}
	}

	if len(conflicts) > 0 {
		if len(failures) > 0 {
			c.log.Warn("create batch had failures alongside conflicts",
				zap.Int("failed", len(failures)),
				zap.Errors("errors", failures))
		}
		records := c.conflictRecords(ctx, conflicts)
		c.log.Info("create batch halted on conflicts",
			zap.Int("drivers", len(targets)),
			zap.Int("created", len(created)),
			zap.Int("conflicted", len(records)))
		return &CreateResult{Conflicts: records}, nil
	}

	if len(failures) > 0 {
		c.log.Error("create batch partially failed",
			zap.Int("drivers", len(targets)),
			zap.Int("created", len(created)),
			zap.Errors("errors", failures))
		return &CreateResult{Created: len(created), Tasks: created},
			&BatchError{Op: "create", Failed: len(failures), Total: len(targets), Errs: failures}
	}

	c.log.Info("tasks created", zap.Int("created", len(created)))
	return &CreateResult{Created: len(created), Tasks: created}, nil
}

func (c *Coordinator) createAll(ctx context.Context, draft models.CrewTaskDraft, driverIDs []string) []createOutcome {
	mapper := iter.Mapper[string, createOutcome]{MaxGoroutines: len(driverIDs)}
	return mapper.Map(driverIDs, func(driverID *string) createOutcome {
		task, err := c.create(ctx, draft, *driverID)
		return createOutcome{driverID: *driverID, task: task, err: err}
	})
}

// conflictRecords attaches display names. A roster failure degrades to the
// raw driver id rather than losing the conflicts.
func (c *Coordinator) conflictRecords(ctx context.Context, conflicts []createOutcome) []ConflictRecord {
	names := map[string]string{}
	if c.roster != nil {
		drivers, err := c.roster.ListDrivers(ctx)
		if err != nil {
			c.log.Warn("failed to resolve driver names for conflicts", zap.Error(err))
		}
		for _, d := range drivers {
			names[d.ID] = d.DisplayName()
		}
	}

	records := make([]ConflictRecord, 0, len(conflicts))
	for _, o := range conflicts {
		var conflictErr *ConflictError
		errors.As(o.err, &conflictErr)

		name, ok := names[o.driverID]
		if !ok {
			name = o.driverID
		}
		records = append(records, ConflictRecord{
			DriverID:   o.driverID,
			DriverName: name,
			Conflicts:  conflictErr.Conflicts,
		})
	}
	return records
}

// UpdateExisting applies patch to one task. Store errors are returned as-is
// so their message reaches the user verbatim.
func (c *Coordinator) UpdateExisting(ctx context.Context, taskID string, patch models.CrewTaskPatch) (*models.CrewTask, error) {
	if taskID == "" {
		return nil, reject(ReasonNoTasks, "Task id is required")
	}
	if patch.IsEmpty() {
		return nil, reject(ReasonEmptyPatch, "Nothing to update")
	}
	if patch.DriverID != nil {
		if err := validateDriverID(*patch.DriverID); err != nil {
			return nil, err
		}
	}
	if patch.StartDate != nil && patch.EndDate != nil && patch.EndDate.Before(*patch.StartDate) {
		return nil, reject(ReasonInvalidDraft, "End date %s is before start date %s", patch.EndDate, patch.StartDate)
	}

	task, err := c.update(ctx, taskID, patch)
	if err != nil {
		c.log.Warn("task update failed", zap.String("task_id", taskID), zap.Error(err))
		return nil, err
	}
	return task, nil
}

// Delete removes one task.
func (c *Coordinator) Delete(ctx context.Context, taskID string) error {
	if taskID == "" {
		return reject(ReasonNoTasks, "Task id is required")
	}
	if err := c.delete(ctx, taskID); err != nil {
		c.log.Warn("task delete failed", zap.String("task_id", taskID), zap.Error(err))
		return err
	}
	return nil
}

// MoveTask reassigns a task to targetDriverID on targetDate. A task may only
// be dropped on the date it already starts on, and never on a past date.
// Rejections are *ValidationError and leave the store untouched.
func (c *Coordinator) MoveTask(ctx context.Context, taskID, targetDriverID string, targetDate models.Date) (*models.CrewTask, error) {
	if taskID == "" {
		return nil, reject(ReasonNoTasks, "Task id is required")
	}
	if err := validateDriverID(targetDriverID); err != nil {
		return nil, err
	}
	if targetDate.IsZero() {
		return nil, reject(ReasonMissingStartDate, "Target date is required")
	}

	today := models.DateOf(c.now())
	if targetDate.Before(today) {
		return nil, reject(ReasonPastDate, "Cannot move a task to a past date (%s is before %s)", targetDate, today)
	}

	current, err := c.get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if current.StartDate.IsZero() {
		return nil, reject(ReasonMissingStartDate, "Task %s has no start date and cannot be moved", taskID)
	}
	if !targetDate.Equal(current.StartDate) {
		return nil, reject(ReasonDateChange,
			"Tasks can only be moved between drivers on their start date %s, not %s", current.StartDate, targetDate)
	}

	startDate := current.StartDate
	driverID := targetDriverID
	moved, err := c.update(ctx, taskID, models.CrewTaskPatch{DriverID: &driverID, StartDate: &startDate})
	if err != nil {
		c.log.Warn("task move failed", zap.String("task_id", taskID), zap.Error(err))
		return nil, err
	}

	c.log.Info("task moved",
		zap.String("task_id", taskID),
		zap.String("driver_id", targetDriverID),
		zap.Stringer("date", startDate))
	return moved, nil
}

// TaskFailure names one task a sequential batch could not process.
type TaskFailure struct {
	TaskID string `json:"task_id"`
	Error  string `json:"error"`
}

// BulkResult counts a bulk assignment.
type BulkResult struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Tasks     []models.CrewTask `json:"tasks,omitempty"`
	Failures  []TaskFailure     `json:"failures,omitempty"`
}

// BulkAssign reassigns tasks to driverID one at a time, in order. A failure
// is recorded and the loop carries on. The result is always returned; the
// error is a *BatchError when anything failed.
func (c *Coordinator) BulkAssign(ctx context.Context, driverID string, taskIDs []string) (*BulkResult, error) {
	if err := validateDriverID(driverID); err != nil {
		return nil, err
	}
	if len(taskIDs) == 0 {
		return nil, reject(ReasonNoTasks, "Select at least one task")
	}

	result := &BulkResult{}
	var errs []error
	for _, taskID := range taskIDs {
		target := driverID
		task, err := c.update(ctx, taskID, models.CrewTaskPatch{DriverID: &target})
		if err != nil {
			result.Failed++
			result.Failures = append(result.Failures, TaskFailure{TaskID: taskID, Error: err.Error()})
			errs = append(errs, err)
			continue
		}
		result.Succeeded++
		result.Tasks = append(result.Tasks, *task)
	}

	c.log.Info("bulk assignment finished",
		zap.String("driver_id", driverID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))

	if result.Failed > 0 {
		return result, &BatchError{Op: "assign", Failed: result.Failed, Total: len(taskIDs), Errs: errs}
	}
	return result, nil
}

// store calls, each under its own timeout

func (c *Coordinator) create(ctx context.Context, draft models.CrewTaskDraft, driverID string) (*models.CrewTask, error) {
	ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()
	return c.store.Create(ctx, draft, driverID)
}

func (c *Coordinator) update(ctx context.Context, id string, patch models.CrewTaskPatch) (*models.CrewTask, error) {
	ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()
	return c.store.Update(ctx, id, patch)
}

func (c *Coordinator) delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()
	return c.store.Delete(ctx, id)
}

func (c *Coordinator) get(ctx context.Context, id string) (*models.CrewTask, error) {
	ctx, cancel := context.WithTimeout(ctx, c.storeTimeout)
	defer cancel()
	return c.store.Get(ctx, id)
}

func validateDraft(draft models.CrewTaskDraft) error {
	if draft.StartDate.IsZero() || draft.EndDate.IsZero() {
		return reject(ReasonInvalidDraft, "Start date and end date are required")
	}
	if draft.EndDate.Before(draft.StartDate) {
		return reject(ReasonInvalidDraft, "End date %s is before start date %s", draft.EndDate, draft.StartDate)
	}
	if draft.TaskType != "" && !draft.TaskType.Valid() {
		return reject(ReasonInvalidDraft, "Unknown task type %q", draft.TaskType)
	}
	if draft.Priority < 0 {
		return reject(ReasonInvalidDraft, "Priority cannot be negative")
	}
	if (draft.StartTime != nil || draft.EndTime != nil) && draft.HoursPerDay != nil && *draft.HoursPerDay <= 0 {
		return reject(ReasonInvalidDraft, "Hours per day must be positive when times are set")
	}
	return nil
}

func validateDriverID(id string) error {
	if id == constants.UnassignedDriverID {
		return nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return reject(ReasonInvalidDriver, "Invalid driver id %q", id)
	}
	return nil
}

// uniqueStrings removes duplicates and blanks, keeping first occurrences.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if v == "" {
			continue
		}
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
