package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/coordinator"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/repository"
	"github.com/yukikurage/crew-scheduling-api/internal/schedule"
)

var (
	ErrDriverNotFound     = errors.New("driver not found")
	ErrDriverNameRequired = errors.New("first_name and last_name are required")
	ErrInvalidCapacity    = errors.New("capacity hours must be positive")
	ErrInvalidPreferred   = errors.New("preferred_start_time must be before preferred_end_time")
	ErrInvalidWeekday     = errors.New("preferred_days must be weekday abbreviations (mon..sun)")
)

var weekdays = map[string]bool{"mon": true, "tue": true, "wed": true, "thu": true, "fri": true, "sat": true, "sun": true}

// DriverService handles the roster and driver capacity settings
type DriverService struct {
	driverRepo repository.DriverRepository
	taskRepo   repository.CrewTaskRepository
	log        *zap.Logger
}

func NewDriverService(driverRepo repository.DriverRepository, taskRepo repository.CrewTaskRepository, log *zap.Logger) *DriverService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DriverService{
		driverRepo: driverRepo,
		taskRepo:   taskRepo,
		log:        log,
	}
}

var _ coordinator.Roster = (*DriverService)(nil)

// ListDrivers returns the roster without the unassigned sentinel.
func (s *DriverService) ListDrivers(ctx context.Context) ([]models.Driver, error) {
	drivers, err := s.driverRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}
	return drivers, nil
}

type CreateDriverInput struct {
	FirstName string
	LastName  string
}

func (s *DriverService) CreateDriver(ctx context.Context, input CreateDriverInput) (*models.Driver, error) {
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	if first == "" || last == "" {
		return nil, ErrDriverNameRequired
	}

	driver := &models.Driver{FirstName: first, LastName: last}
	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	s.log.Info("driver created", zap.String("driver_id", driver.ID))
	return driver, nil
}

func (s *DriverService) GetDriver(ctx context.Context, id string) (*models.Driver, error) {
	driver, err := s.driverRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, fmt.Errorf("failed to find driver: %w", err)
	}
	return driver, nil
}

// DefaultCapacity is what a driver without saved settings gets.
func DefaultCapacity(driverID string) models.DriverCapacity {
	return models.DriverCapacity{
		DriverID:           driverID,
		MaxHoursPerDay:     constants.DefaultMaxHoursPerDay,
		MaxHoursPerWeek:    constants.DefaultMaxHoursPerWeek,
		MaxHoursPerMonth:   constants.DefaultMaxHoursPerMonth,
		PreferredStartTime: constants.DefaultPreferredStartTime,
		PreferredEndTime:   constants.DefaultPreferredEndTime,
	}
}

// GetCapacity returns the saved settings, or the defaults when none exist.
func (s *DriverService) GetCapacity(ctx context.Context, driverID string) (*models.DriverCapacity, error) {
	if _, err := s.GetDriver(ctx, driverID); err != nil {
		return nil, err
	}

	capacity, err := s.driverRepo.FindCapacity(ctx, driverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			defaults := DefaultCapacity(driverID)
			return &defaults, nil
		}
		return nil, fmt.Errorf("failed to find capacity: %w", err)
	}
	return capacity, nil
}

type UpdateCapacityInput struct {
	MaxHoursPerDay     *float64
	MaxHoursPerWeek    *float64
	MaxHoursPerMonth   *float64
	PreferredStartTime *string
	PreferredEndTime   *string
	PreferredDays      []string
}

// UpdateCapacity merges input over the current settings and saves them.
// Limits are stored as given; nothing enforces them on assignment.
func (s *DriverService) UpdateCapacity(ctx context.Context, driverID string, input UpdateCapacityInput) (*models.DriverCapacity, error) {
	capacity, err := s.GetCapacity(ctx, driverID)
	if err != nil {
		return nil, err
	}

	for _, limit := range []struct {
		in  *float64
		out *float64
	}{
		{input.MaxHoursPerDay, &capacity.MaxHoursPerDay},
		{input.MaxHoursPerWeek, &capacity.MaxHoursPerWeek},
		{input.MaxHoursPerMonth, &capacity.MaxHoursPerMonth},
	} {
		if limit.in == nil {
			continue
		}
		if *limit.in <= 0 {
			return nil, ErrInvalidCapacity
		}
		*limit.out = *limit.in
	}

	if err := validateTimes(input.PreferredStartTime, input.PreferredEndTime); err != nil {
		return nil, err
	}
	if input.PreferredStartTime != nil {
		capacity.PreferredStartTime = *input.PreferredStartTime
	}
	if input.PreferredEndTime != nil {
		capacity.PreferredEndTime = *input.PreferredEndTime
	}
	if capacity.PreferredStartTime != "" && capacity.PreferredEndTime != "" &&
		capacity.PreferredStartTime >= capacity.PreferredEndTime {
		return nil, ErrInvalidPreferred
	}

	if input.PreferredDays != nil {
		days := make([]string, 0, len(input.PreferredDays))
		for _, day := range input.PreferredDays {
			day = strings.ToLower(strings.TrimSpace(day))
			if !weekdays[day] {
				return nil, ErrInvalidWeekday
			}
			days = append(days, day)
		}
		capacity.PreferredDays = strings.Join(days, ",")
	}

	capacity.DriverID = driverID
	capacity.UpdatedAt = time.Now()
	if err := s.driverRepo.UpsertCapacity(ctx, capacity); err != nil {
		return nil, fmt.Errorf("failed to save capacity: %w", err)
	}

	s.log.Info("driver capacity updated",
		zap.String("driver_id", driverID),
		zap.Float64("max_hours_per_day", capacity.MaxHoursPerDay),
		zap.Float64("max_hours_per_week", capacity.MaxHoursPerWeek),
		zap.Float64("max_hours_per_month", capacity.MaxHoursPerMonth))
	return capacity, nil
}

// HoursSummary totals the driver's scheduled hours around day against their
// capacity.
func (s *DriverService) HoursSummary(ctx context.Context, driverID string, day models.Date) (*schedule.HoursSummary, error) {
	if day.IsZero() {
		return nil, ErrDatesRequired
	}
	capacity, err := s.GetCapacity(ctx, driverID)
	if err != nil {
		return nil, err
	}

	// The ISO week can spill into the neighbouring months.
	from := models.NewDate(day.Year, day.Month, 1).AddDays(-6)
	to := models.NewDate(day.Year, day.Month+1, 1).AddDays(6)

	tasks, _, err := s.taskRepo.List(ctx, repository.TaskFilter{
		From:      &from,
		To:        &to,
		DriverIDs: []string{driverID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list driver tasks: %w", err)
	}

	summary := schedule.SummarizeHours(tasks, *capacity, day)
	return &summary, nil
}
