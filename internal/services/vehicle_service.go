package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/matching"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/repository"
)

var ErrVehicleFieldsRequired = errors.New("brand and model are required")

// VehicleService handles the fleet and vehicle suggestions
type VehicleService struct {
	vehicleRepo repository.VehicleRepository
	scorer      matching.Scorer
	log         *zap.Logger
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, log *zap.Logger) *VehicleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &VehicleService{vehicleRepo: vehicleRepo, log: log}
}

func (s *VehicleService) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return vehicles, nil
}

type CreateVehicleInput struct {
	Brand       string
	Model       string
	PlateNumber string
}

func (s *VehicleService) CreateVehicle(ctx context.Context, input CreateVehicleInput) (*models.Vehicle, error) {
	brand := strings.TrimSpace(input.Brand)
	model := strings.TrimSpace(input.Model)
	if brand == "" || model == "" {
		return nil, ErrVehicleFieldsRequired
	}

	vehicle := &models.Vehicle{Brand: brand, Model: model, PlateNumber: strings.TrimSpace(input.PlateNumber)}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}
	return vehicle, nil
}

// MatchVehicles ranks the fleet for a service descriptor, best first.
func (s *VehicleService) MatchVehicles(ctx context.Context, service string) ([]matching.Match, error) {
	vehicles, err := s.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}

	matches := s.scorer.Rank(service, vehicles)
	if len(matches) > 0 {
		s.log.Debug("vehicles ranked",
			zap.String("service", service),
			zap.String("top_vehicle", matches[0].Vehicle.ID),
			zap.Int("top_score", matches[0].Score))
	}
	return matches, nil
}
