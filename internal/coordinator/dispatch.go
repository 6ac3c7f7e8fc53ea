package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// Intent is a request for the coordinator to change the schedule.
type Intent interface {
	intent()
}

type CreateIntent struct {
	Draft       models.CrewTaskDraft
	DriverIDs   []string
	MultiDriver bool
}

type UpdateIntent struct {
	TaskID string
	Patch  models.CrewTaskPatch
}

type DeleteIntent struct {
	TaskID string
}

type ResolveIntent struct {
	Resolution Resolution
	DriverIDs  []string
	Draft      models.CrewTaskDraft
	Conflicts  []ConflictRecord
}

type MoveIntent struct {
	TaskID   string
	DriverID string
	Date     models.Date
}

type BulkAssignIntent struct {
	DriverID string
	TaskIDs  []string
}

func (CreateIntent) intent()     {}
func (UpdateIntent) intent()     {}
func (DeleteIntent) intent()     {}
func (ResolveIntent) intent()    {}
func (MoveIntent) intent()       {}
func (BulkAssignIntent) intent() {}

type OutcomeKind string

const (
	OutcomeSuccess        OutcomeKind = "success"
	OutcomeConflict       OutcomeKind = "conflict"
	OutcomeSkipped        OutcomeKind = "skipped"
	OutcomeRejected       OutcomeKind = "rejected"
	OutcomePartialFailure OutcomeKind = "partial_failure"
	OutcomeDataLoss       OutcomeKind = "data_loss"
	OutcomeFailure        OutcomeKind = "failure"
)

// Outcome is the settled result of one intent.
type Outcome struct {
	Kind  OutcomeKind
	Phase Phase

	Task      *models.CrewTask
	Tasks     []models.CrewTask
	Conflicts []ConflictRecord
	Failures  []TaskFailure

	Created   int
	Resolved  int
	Skipped   int
	Deleted   int
	Succeeded int
	Failed    int

	Err error

	message string
}

// Notification is the user-facing message for the outcome.
func (o Outcome) Notification() string {
	return o.message
}

// RefreshGrid reports whether the store changed, or may have changed, and
// the schedule grid must be reloaded.
func (o Outcome) RefreshGrid() bool {
	switch o.Kind {
	case OutcomeSuccess, OutcomeConflict, OutcomePartialFailure, OutcomeDataLoss:
		return true
	}
	return false
}

// Dispatch runs intent to completion and describes what happened.
func (c *Coordinator) Dispatch(ctx context.Context, intent Intent) Outcome {
	switch in := intent.(type) {
	case CreateIntent:
		return c.dispatchCreate(ctx, in)
	case UpdateIntent:
		task, err := c.UpdateExisting(ctx, in.TaskID, in.Patch)
		if err != nil {
			return failed(err, PhaseAssigned)
		}
		return Outcome{Kind: OutcomeSuccess, Phase: PhaseAssigned, Task: task, message: "Task updated"}
	case DeleteIntent:
		if err := c.Delete(ctx, in.TaskID); err != nil {
			return failed(err, PhaseAssigned)
		}
		return Outcome{Kind: OutcomeSuccess, Phase: PhaseDeleted, Deleted: 1, message: "Task deleted"}
	case ResolveIntent:
		return c.dispatchResolve(ctx, in)
	case MoveIntent:
		task, err := c.MoveTask(ctx, in.TaskID, in.DriverID, in.Date)
		if err != nil {
			return failed(err, PhaseAssigned)
		}
		return Outcome{Kind: OutcomeSuccess, Phase: PhaseMoved, Task: task, message: "Task moved"}
	case BulkAssignIntent:
		return c.dispatchBulk(ctx, in)
	}
	return Outcome{
		Kind:    OutcomeRejected,
		Phase:   PhaseRejected,
		Err:     reject(ReasonResolution, "unsupported intent %T", intent),
		message: fmt.Sprintf("Unsupported action %T", intent),
	}
}

func (c *Coordinator) dispatchCreate(ctx context.Context, in CreateIntent) Outcome {
	result, err := c.CreateForDrivers(ctx, in.Draft, in.DriverIDs, in.MultiDriver)
	if err != nil {
		out := failed(err, PhaseUnassigned)
		if result != nil {
			out.Created = result.Created
			out.Tasks = result.Tasks
		}
		return out
	}
	if result.HasConflicts() {
		return Outcome{
			Kind:      OutcomeConflict,
			Phase:     PhaseConflicted,
			Conflicts: result.Conflicts,
			message:   fmt.Sprintf("%d driver(s) already have tasks in this period. Choose skip or overwrite.", len(result.Conflicts)),
		}
	}
	return Outcome{
		Kind:    OutcomeSuccess,
		Phase:   PhaseCreated,
		Created: result.Created,
		Tasks:   result.Tasks,
		message: fmt.Sprintf("Created %d task(s)", result.Created),
	}
}

func (c *Coordinator) dispatchResolve(ctx context.Context, in ResolveIntent) Outcome {
	result, err := c.ResolveConflicts(ctx, in.Resolution, in.DriverIDs, in.Draft, in.Conflicts)
	if err != nil {
		out := failed(err, PhaseConflicted)
		if result != nil {
			out.Resolved = result.Resolved
			out.Deleted = result.Deleted
			out.Tasks = result.Tasks
		}
		return out
	}
	if result.Resolution == ResolutionSkip {
		return Outcome{
			Kind:    OutcomeSkipped,
			Phase:   PhaseConflicted,
			Skipped: result.Skipped,
			message: fmt.Sprintf("Skipped %d driver(s)", result.Skipped),
		}
	}
	return Outcome{
		Kind:     OutcomeSuccess,
		Phase:    PhaseCreated,
		Resolved: result.Resolved,
		Deleted:  result.Deleted,
		Tasks:    result.Tasks,
		message:  fmt.Sprintf("Replaced %d conflicting task(s) for %d driver(s)", result.Deleted, result.Resolved),
	}
}

func (c *Coordinator) dispatchBulk(ctx context.Context, in BulkAssignIntent) Outcome {
	result, err := c.BulkAssign(ctx, in.DriverID, in.TaskIDs)
	if result == nil {
		return failed(err, PhaseAssigned)
	}
	out := Outcome{
		Kind:      OutcomeSuccess,
		Phase:     PhaseAssigned,
		Tasks:     result.Tasks,
		Failures:  result.Failures,
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
		message:   fmt.Sprintf("Assigned %d task(s)", result.Succeeded),
	}
	if err != nil {
		out.Err = err
		out.Kind = OutcomePartialFailure
		out.message = fmt.Sprintf("Assigned %d task(s), %d failed", result.Succeeded, result.Failed)
		if result.Succeeded == 0 {
			out.Kind = OutcomeFailure
			out.message = fmt.Sprintf("Failed to assign %d task(s)", result.Failed)
		}
	}
	return out
}

// failed classifies err into an outcome. from is the phase the task stays
// in when nothing changed.
func failed(err error, from Phase) Outcome {
	var (
		validationErr *ValidationError
		overwriteErr  *OverwriteError
		batchErr      *BatchError
	)
	switch {
	case errors.As(err, &validationErr):
		return Outcome{Kind: OutcomeRejected, Phase: PhaseRejected, Err: err, message: validationErr.Message}
	case errors.As(err, &overwriteErr):
		return Outcome{
			Kind:    OutcomeDataLoss,
			Phase:   PhaseDeleted,
			Err:     err,
			Failed:  len(overwriteErr.DriverIDs),
			message: fmt.Sprintf("Overwrite incomplete: %d task(s) were deleted but could not be replaced for %d driver(s)", len(overwriteErr.DeletedTaskIDs), len(overwriteErr.DriverIDs)),
		}
	case errors.As(err, &batchErr):
		kind := OutcomePartialFailure
		if batchErr.Failed == batchErr.Total {
			kind = OutcomeFailure
		}
		return Outcome{
			Kind:    kind,
			Phase:   from,
			Err:     err,
			Failed:  batchErr.Failed,
			message: fmt.Sprintf("Failed to %s %d of %d task(s)", batchErr.Op, batchErr.Failed, batchErr.Total),
		}
	}
	return Outcome{Kind: OutcomeFailure, Phase: from, Err: err, message: err.Error()}
}
