package coordinator

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// Resolution is the caller's answer to a conflicted create batch.
type Resolution string

const (
	ResolutionSkip      Resolution = "skip"
	ResolutionOverwrite Resolution = "overwrite"
)

// Valid reports whether r is skip or overwrite.
func (r Resolution) Valid() bool {
	return r == ResolutionSkip || r == ResolutionOverwrite
}

// PendingResolution is a create batch halted on conflicts, kept until the
// caller picks a resolution.
type PendingResolution struct {
	Draft     models.CrewTaskDraft `json:"draft"`
	Conflicts []ConflictRecord     `json:"conflicts"`
}

// DriverIDs lists the conflicted drivers in record order.
func (p *PendingResolution) DriverIDs() []string {
	ids := make([]string, 0, len(p.Conflicts))
	for _, record := range p.Conflicts {
		ids = append(ids, record.DriverID)
	}
	return ids
}

// ResolveResult counts what a resolution did.
type ResolveResult struct {
	Resolution Resolution        `json:"resolution"`
	Resolved   int               `json:"resolved"`
	Skipped    int               `json:"skipped"`
	Deleted    int               `json:"deleted"`
	Tasks      []models.CrewTask `json:"tasks,omitempty"`
}

type deleteOutcome struct {
	driverID string
	taskID   string
	err      error
}

// ResolveConflicts settles a halted create batch for driverIDs.
//
// Skip makes no store calls. Overwrite deletes every task in each named
// driver's conflict record, all at once, then creates draft for each driver
// whose deletes all succeeded, again all at once. Nothing is restored when a
// create fails after that driver's deletes: that state is reported as
// *OverwriteError. A failed create for a driver with nothing deleted is an
// ordinary *BatchError failure. The result is returned even alongside an
// error.
func (c *Coordinator) ResolveConflicts(ctx context.Context, resolution Resolution, driverIDs []string, draft models.CrewTaskDraft, records []ConflictRecord) (*ResolveResult, error) {
	if !resolution.Valid() {
		return nil, reject(ReasonResolution, "Unknown resolution %q", resolution)
	}
	targets := uniqueStrings(driverIDs)
	if len(targets) == 0 {
		return nil, reject(ReasonNoDrivers, "Select at least one driver to resolve")
	}
	for _, id := range targets {
		if err := validateDriverID(id); err != nil {
			return nil, err
		}
	}

	result := &ResolveResult{Resolution: resolution}

	if resolution == ResolutionSkip {
		result.Skipped = len(targets)
		c.log.Info("conflicts skipped", zap.Strings("driver_ids", targets))
		return result, nil
	}

	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	byDriver := make(map[string]ConflictRecord, len(records))
	for _, record := range records {
		byDriver[record.DriverID] = record
	}

	var deletes []deleteOutcome
	for _, driverID := range targets {
		for _, task := range byDriver[driverID].Conflicts {
			deletes = append(deletes, deleteOutcome{driverID: driverID, taskID: task.ID})
		}
	}
	deletes = c.deleteAll(ctx, deletes)

	deleteFailed := map[string]bool{}
	deletedByDriver := map[string][]string{}
	var errs []error
	for _, d := range deletes {
		if d.err != nil {
			deleteFailed[d.driverID] = true
			errs = append(errs, fmt.Errorf("delete task %s for driver %s: %w", d.taskID, d.driverID, d.err))
			continue
		}
		result.Deleted++
		deletedByDriver[d.driverID] = append(deletedByDriver[d.driverID], d.taskID)
	}

	var recreate []string
	for _, driverID := range targets {
		if !deleteFailed[driverID] {
			recreate = append(recreate, driverID)
		}
	}

	var stranded []string
	var strandedTasks []string
	createFailed := 0
	for _, o := range c.createAll(ctx, draft, recreate) {
		if o.err != nil {
			errs = append(errs, fmt.Errorf("recreate task for driver %s: %w", o.driverID, o.err))
			// A driver with nothing deleted lost nothing.
			if len(deletedByDriver[o.driverID]) == 0 {
				createFailed++
				continue
			}
			stranded = append(stranded, o.driverID)
			strandedTasks = append(strandedTasks, deletedByDriver[o.driverID]...)
			continue
		}
		result.Resolved++
		result.Tasks = append(result.Tasks, *o.task)
	}

	switch {
	case len(stranded) > 0:
		c.log.Error("overwrite left tasks deleted without replacement",
			zap.Strings("driver_ids", stranded),
			zap.Strings("deleted_task_ids", strandedTasks),
			zap.Errors("errors", errs))
		return result, &OverwriteError{
			DriverIDs:      stranded,
			DeletedTaskIDs: strandedTasks,
			DeleteFailures: len(deleteFailed),
			Errs:           errs,
		}
	case len(deleteFailed) > 0 || createFailed > 0:
		c.log.Warn("overwrite failed for some drivers",
			zap.Int("delete_failures", len(deleteFailed)),
			zap.Int("create_failures", createFailed),
			zap.Errors("errors", errs))
		return result, &BatchError{Op: "overwrite", Failed: len(deleteFailed) + createFailed, Total: len(targets), Errs: errs}
	}

	c.log.Info("conflicts overwritten",
		zap.Int("resolved", result.Resolved),
		zap.Int("deleted", result.Deleted))
	return result, nil
}

func (c *Coordinator) deleteAll(ctx context.Context, deletes []deleteOutcome) []deleteOutcome {
	if len(deletes) == 0 {
		return nil
	}
	mapper := iter.Mapper[deleteOutcome, deleteOutcome]{MaxGoroutines: len(deletes)}
	return mapper.Map(deletes, func(d *deleteOutcome) deleteOutcome {
		out := *d
		out.err = c.delete(ctx, d.taskID)
		return out
	})
}
