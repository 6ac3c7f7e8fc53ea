package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yukikurage/crew-scheduling-api/internal/dto"
	apierrors "github.com/yukikurage/crew-scheduling-api/internal/errors"
	"github.com/yukikurage/crew-scheduling-api/internal/models"
	"github.com/yukikurage/crew-scheduling-api/internal/services"
)

type DriverHandler struct {
	drivers *services.DriverService
	log     *zap.Logger
	now     func() time.Time
}

func NewDriverHandler(drivers *services.DriverService, log *zap.Logger) *DriverHandler {
	return &DriverHandler{drivers: drivers, log: log, now: time.Now}
}

// ListDrivers returns the roster ordered by name
func (h *DriverHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.drivers.ListDrivers(c.Request.Context())
	if err != nil {
		h.log.Error("failed to list drivers", zap.Error(err))
		apierrors.InternalError(c, "Failed to fetch drivers")
		return
	}
	if drivers == nil {
		drivers = []models.Driver{}
	}

	c.JSON(http.StatusOK, gin.H{"drivers": drivers})
}

func (h *DriverHandler) CreateDriver(c *gin.Context) {
	var req dto.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	driver, err := h.drivers.CreateDriver(c.Request.Context(), services.CreateDriverInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.respondDriverError(c, err, "Failed to create driver")
		return
	}

	c.JSON(http.StatusCreated, driver)
}

// GetCapacity returns the driver's limits, or the defaults when none were saved
func (h *DriverHandler) GetCapacity(c *gin.Context) {
	driverID, ok := driverParam(c)
	if !ok {
		return
	}

	capacity, err := h.drivers.GetCapacity(c.Request.Context(), driverID)
	if err != nil {
		h.respondDriverError(c, err, "Failed to fetch capacity")
		return
	}

	c.JSON(http.StatusOK, capacity)
}

func (h *DriverHandler) UpdateCapacity(c *gin.Context) {
	driverID, ok := driverParam(c)
	if !ok {
		return
	}

	var req dto.UpdateCapacityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	capacity, err := h.drivers.UpdateCapacity(c.Request.Context(), driverID, services.UpdateCapacityInput{
		MaxHoursPerDay:     req.MaxHoursPerDay,
		MaxHoursPerWeek:    req.MaxHoursPerWeek,
		MaxHoursPerMonth:   req.MaxHoursPerMonth,
		PreferredStartTime: req.PreferredStartTime,
		PreferredEndTime:   req.PreferredEndTime,
		PreferredDays:      req.PreferredDays,
	})
	if err != nil {
		h.respondDriverError(c, err, "Failed to update capacity")
		return
	}

	c.JSON(http.StatusOK, capacity)
}

// HoursSummary reports scheduled hours for the day, week and month around
// ?date= (today when omitted).
func (h *DriverHandler) HoursSummary(c *gin.Context) {
	driverID, ok := driverParam(c)
	if !ok {
		return
	}
	day, ok := queryDate(c, "date")
	if !ok {
		return
	}
	if day.IsZero() {
		day = models.DateOf(h.now())
	}

	summary, err := h.drivers.HoursSummary(c.Request.Context(), driverID, day)
	if err != nil {
		h.respondDriverError(c, err, "Failed to summarize hours")
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *DriverHandler) respondDriverError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrDriverNotFound):
		apierrors.NotFound(c, "Driver not found")
	case errors.Is(err, services.ErrDriverNameRequired),
		errors.Is(err, services.ErrInvalidCapacity),
		errors.Is(err, services.ErrInvalidPreferred),
		errors.Is(err, services.ErrInvalidWeekday),
		services.IsValidationError(err):
		apierrors.BadRequest(c, err.Error())
	default:
		h.log.Error(fallback, zap.Error(err))
		apierrors.InternalError(c, fallback)
	}
}

func driverParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		apierrors.BadRequest(c, "Invalid driver ID")
		return "", false
	}
	return id, true
}
