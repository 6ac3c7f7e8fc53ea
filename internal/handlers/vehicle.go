package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/dto"
	apierrors "github.com/yukikurage/crew-scheduling-api/internal/errors"
	"github.com/yukikurage/crew-scheduling-api/internal/matching"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/services"
)

type VehicleHandler struct {
	vehicles *services.VehicleService
	log      *zap.Logger
}

func NewVehicleHandler(vehicles *services.VehicleService, log *zap.Logger) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, log: log}
}

func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicles.ListVehicles(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list vehicles", zap.Error(err))
		apierrors.InternalError(c, "Failed to fetch vehicles")
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}

	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req dto.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	vehicle, err := h.vehicles.CreateVehicle(c.Request.Context(), services.CreateVehicleInput{
		Brand:       req.Brand,
		Model:       req.Model,
		PlateNumber: req.PlateNumber,
	})
	if err != nil {
		if errors.Is(err, services.ErrVehicleFieldsRequired) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		h.log.Error("failed to create vehicle", zap.Error(err))
		apierrors.InternalError(c, "Failed to create vehicle")
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

// MatchVehicles ranks the fleet for a service name, best match first
func (h *VehicleHandler) MatchVehicles(c *gin.Context) {
	var req dto.MatchVehiclesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	matches, err := h.vehicles.MatchVehicles(c.Request.Context(), req.ServiceName)
	if err != nil {
		h.log.Error("failed to match vehicles", zap.Error(err))
		apierrors.InternalError(c, "Failed to match vehicles")
		return
	}
	if matches == nil {
		matches = []matching.Match{}
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}
