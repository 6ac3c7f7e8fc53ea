package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/crew-scheduling-api/internal/database"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/utils"
)

// GormCrewTaskRepository is a GORM implementation of CrewTaskRepository
type GormCrewTaskRepository struct {
	db *gorm.DB
}

// NewCrewTaskRepository creates a new CrewTaskRepository
func NewCrewTaskRepository(db *gorm.DB) CrewTaskRepository {
	return &GormCrewTaskRepository{db: db}
}

func (r *GormCrewTaskRepository) Create(ctx context.Context, task *models.CrewTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *GormCrewTaskRepository) FindByID(ctx context.Context, id string, preload ...string) (*models.CrewTask, error) {
	var task models.CrewTask
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindOverlapping ignores cancelled and completed tasks. Two ranges overlap
// when each starts on or before the other ends.
func (r *GormCrewTaskRepository) FindOverlapping(ctx context.Context, driverID string, from, to models.Date) ([]models.CrewTask, error) {
	var tasks []models.CrewTask
	err := r.db.WithContext(ctx).
		Model(&models.CrewTask{}).
		Scopes(database.ForDriver(driverID), database.ActiveTasks, database.OverlappingRange(from, to)).
		Order("crew_tasks.start_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *GormCrewTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.CrewTask, int64, error) {
	var tasks []models.CrewTask

	query := r.db.WithContext(ctx).Model(&models.CrewTask{})

	if filter.From != nil && filter.To != nil {
		query = query.Scopes(database.OverlappingRange(*filter.From, *filter.To))
	} else if filter.From != nil {
		query = query.Where("crew_tasks.end_date >= ?", *filter.From)
	} else if filter.To != nil {
		query = query.Where("crew_tasks.start_date <= ?", *filter.To)
	}

	switch {
	case len(filter.DriverIDs) > 0 && filter.Unassigned:
		query = query.Where("(crew_tasks.driver_id IN ? OR crew_tasks.driver_id IS NULL)", filter.DriverIDs)
	case len(filter.DriverIDs) > 0:
		query = query.Where("crew_tasks.driver_id IN ?", filter.DriverIDs)
	case filter.Unassigned:
		query = query.Where("crew_tasks.driver_id IS NULL")
	}

	if filter.Status != nil {
		query = query.Where("crew_tasks.task_status = ?", *filter.Status)
	}
	if filter.TaskType != nil {
		query = query.Where("crew_tasks.task_type = ?", *filter.TaskType)
	}
	if filter.TaskNumber != nil {
		query = query.Where("crew_tasks.task_number = ?", *filter.TaskNumber)
	}
	if filter.BookingID != nil {
		query = query.Where("crew_tasks.booking_id = ?", *filter.BookingID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("crew_tasks.start_date ASC").Order("crew_tasks.task_number ASC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	if err := listQuery.Preload("Driver").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update writes columns and re-reads the row. gorm.ErrRecordNotFound is
// returned when no task has the id.
func (r *GormCrewTaskRepository) Update(ctx context.Context, id string, columns map[string]any) (*models.CrewTask, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CrewTask
		if err := tx.Select("id").Where("id = ?", id).First(&existing).Error; err != nil {
			return err
		}
		if len(columns) == 0 {
			return nil
		}
		return tx.Model(&existing).Updates(columns).Error
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *GormCrewTaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CrewTask{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
