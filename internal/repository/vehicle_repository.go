package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yukikurage/crew-scheduling-api/internal/models"
)

// GormVehicleRepository is a GORM implementation of VehicleRepository
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewVehicleRepository creates a new VehicleRepository
func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &GormVehicleRepository{db: db}
}

func (r *GormVehicleRepository) Create(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

// List keeps insertion order stable within a brand and model so ties in a
// match ranking stay predictable.
func (r *GormVehicleRepository) List(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Order("brand ASC").
		Order("model ASC").
		Order("created_at ASC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}
