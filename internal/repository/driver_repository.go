package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/crew-scheduling-api/internal/constants"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// GormDriverRepository is a GORM implementation of DriverRepository
type GormDriverRepository struct {
	db *gorm.DB
}

// NewDriverRepository creates a new DriverRepository
func NewDriverRepository(db *gorm.DB) DriverRepository {
	return &GormDriverRepository{db: db}
}

func (r *GormDriverRepository) Create(ctx context.Context, driver *models.Driver) error {
	return r.db.WithContext(ctx).Create(driver).Error
}

func (r *GormDriverRepository) FindByID(ctx context.Context, id string) (*models.Driver, error) {
	var driver models.Driver
	if err := r.db.WithContext(ctx).Preload("Capacity").Where("id = ?", id).First(&driver).Error; err != nil {
		return nil, err
	}
	return &driver, nil
}

// List never includes the unassigned sentinel, even if a row exists for it.
func (r *GormDriverRepository) List(ctx context.Context) ([]models.Driver, error) {
	var drivers []models.Driver
	err := r.db.WithContext(ctx).
		Where("id <> ?", constants.UnassignedDriverID).
		Order("first_name ASC").
		Order("last_name ASC").
		Find(&drivers).Error
	if err != nil {
		return nil, err
	}
	return drivers, nil
}

func (r *GormDriverRepository) FindCapacity(ctx context.Context, driverID string) (*models.DriverCapacity, error) {
	var capacity models.DriverCapacity
	if err := r.db.WithContext(ctx).Where("driver_id = ?", driverID).First(&capacity).Error; err != nil {
		return nil, err
	}
	return &capacity, nil
}

func (r *GormDriverRepository) UpsertCapacity(ctx context.Context, capacity *models.DriverCapacity) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "driver_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"max_hours_per_day",
				"max_hours_per_week",
				"max_hours_per_month",
				"preferred_start_time",
				"preferred_end_time",
				"preferred_days",
				"updated_at",
			}),
		}).
		Create(capacity).Error
}
