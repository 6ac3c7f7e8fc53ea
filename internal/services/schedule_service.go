package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/repository"
	"github.com/yukikurage/crew-scheduling-api/internal/schedule"
)

// MaxScheduleDays bounds the width of one grid request.
const MaxScheduleDays = 366

var ErrRangeTooLarge = fmt.Errorf("date range cannot exceed %d days", MaxScheduleDays)

// ScheduleService builds the per-driver schedule grid
type ScheduleService struct {
	taskRepo   repository.CrewTaskRepository
	driverRepo repository.DriverRepository
	log        *zap.Logger
}

func NewScheduleService(taskRepo repository.CrewTaskRepository, driverRepo repository.DriverRepository, log *zap.Logger) *ScheduleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScheduleService{
		taskRepo:   taskRepo,
		driverRepo: driverRepo,
		log:        log,
	}
}

// GetScheduleGrid returns one entry per roster driver for [from, to], plus
// an unassigned bucket last when unassigned tasks fall in the range. A
// non-empty driverIDs narrows the roster; the unassigned sentinel among them
// keeps the unassigned bucket.
func (s *ScheduleService) GetScheduleGrid(ctx context.Context, from, to models.Date, driverIDs []string) ([]schedule.Entry, error) {
	if from.IsZero() || to.IsZero() {
		return nil, ErrDatesRequired
	}
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	if from.DaysUntil(to)+1 > MaxScheduleDays {
		return nil, ErrRangeTooLarge
	}

	var (
		roster []models.Driver
		tasks  []models.CrewTask
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		drivers, err := s.driverRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list drivers: %w", err)
		}
		roster = drivers
		return nil
	})
	g.Go(func() error {
		filter := repository.TaskFilter{From: &from, To: &to}
		if len(driverIDs) > 0 {
			filter.DriverIDs = withoutSentinel(driverIDs)
			filter.Unassigned = slices.Contains(driverIDs, constants.UnassignedDriverID)
		}
		found, _, err := s.taskRepo.List(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		tasks = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(driverIDs) > 0 {
		roster = slices.DeleteFunc(roster, func(d models.Driver) bool {
			return !slices.Contains(driverIDs, d.ID)
		})
	}

	names := make(map[string]string, len(roster))
	for _, d := range roster {
		names[d.ID] = d.DisplayName()
	}

	raw := schedule.Expand(tasks, from, to, names)
	grid := schedule.Aggregate(raw, roster)

	s.log.Debug("schedule grid built",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Int("drivers", len(roster)),
		zap.Int("tasks", len(tasks)))
	return grid, nil
}

// UnassignedTasks lists the unassigned tasks intersecting [from, to] that
// match criteria, earliest first.
func (s *ScheduleService) UnassignedTasks(ctx context.Context, from, to models.Date, criteria schedule.Criteria) ([]models.CrewTask, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, ErrInvalidDateRange
	}

	filter := repository.TaskFilter{Unassigned: true}
	if !from.IsZero() {
		filter.From = &from
	}
	if !to.IsZero() {
		filter.To = &to
	}

	tasks, _, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list unassigned tasks: %w", err)
	}
	return schedule.Filter(tasks, criteria), nil
}

func withoutSentinel(ids []string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(id string) bool {
		return id == constants.UnassignedDriverID
	})
}

// IsRangeError reports whether err rejects the requested date range.
func IsRangeError(err error) bool {
	return errors.Is(err, ErrRangeTooLarge) || errors.Is(err, ErrInvalidDateRange) || errors.Is(err, ErrDatesRequired)
}
