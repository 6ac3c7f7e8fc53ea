package coordinator

import (
	"errors"
	"fmt"
	"strings"
)

// Rejection reasons for ValidationError.
const (
	ReasonMissingStartDate = "missing_start_date"
	ReasonPastDate         = "past_date"
	ReasonDateChange       = "date_change"
	ReasonInvalidDriver    = "invalid_driver"
	ReasonInvalidDraft     = "invalid_draft"
	ReasonNoDrivers        = "no_drivers"
	ReasonNoTasks          = "no_tasks"
	ReasonEmptyPatch       = "empty_patch"
	ReasonResolution       = "invalid_resolution"
)

// ValidationError is a request rejected before any mutation reached the
// store.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func reject(reason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// BatchError reports fan-out or sequential calls that failed for reasons
// other than a conflict. Calls that succeeded are not rolled back.
type BatchError struct {
	Op     string
	Failed int
	Total  int
	Errs   []error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("failed to %s %d of %d task(s)", e.Op, e.Failed, e.Total)
}

func (e *BatchError) Unwrap() []error {
	return e.Errs
}

// OverwriteError means an overwrite deleted a driver's conflicting tasks but
// could not create the replacement. The deleted tasks are gone.
type OverwriteError struct {
	// DriverIDs are the drivers left without their old or new task.
	DriverIDs []string
	// DeletedTaskIDs are the tasks removed for those drivers.
	DeletedTaskIDs []string
	// DeleteFailures counts drivers whose deletes failed; nothing was
	// created for them.
	DeleteFailures int
	Errs           []error
}

func (e *OverwriteError) Error() string {
	return fmt.Sprintf("overwrite incomplete: deleted %d task(s) but could not recreate for driver(s) %s",
		len(e.DeletedTaskIDs), strings.Join(e.DriverIDs, ", "))
}

func (e *OverwriteError) Unwrap() []error {
	return e.Errs
}

// IsConflict reports whether err carries a store conflict.
func IsConflict(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr)
}
