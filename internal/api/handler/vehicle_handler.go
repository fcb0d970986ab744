package handler

import (
	"errors"
	"net/http"

	"github.com/DIEGUS15/parkinglot/internal/domain"
	"github.com/DIEGUS15/parkinglot/internal/service"
	"github.com/DIEGUS15/parkinglot/internal/validator"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	vehicleService *service.VehicleService
}

func NewVehicleHandler(vehicleService *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// POST /vehicles/check-in
func (h *VehicleHandler) CheckIn(c *gin.Context) {
	var dto domain.VehicleCheckInDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	vehicle, err := h.vehicleService.CheckIn(c.Request.Context(), dto)
	if err != nil {
		writeVehicleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, domain.CheckInResponse{ID: vehicle.ID})
}

// POST /vehicles/check-out
func (h *VehicleHandler) CheckOut(c *gin.Context) {
	var dto domain.VehicleCheckOutDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if _, err := h.vehicleService.CheckOut(c.Request.Context(), dto); err != nil {
		writeVehicleError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.CheckOutResponse{Message: "Check-out registered"})
}

// GET /vehicles/parking-lot/:lotId
func (h *VehicleHandler) ListByLot(c *gin.Context) {
	lotID, ok := pathID(c, "lotId")
	if !ok {
		return
	}
	vehicles, err := h.vehicleService.ListVehiclesInLot(c.Request.Context(), lotID)
	if err != nil {
		writeVehicleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// GET /vehicles/top-frequent
func (h *VehicleHandler) TopFrequent(c *gin.Context) {
	top, err := h.vehicleService.TopFrequentVehicles(c.Request.Context())
	if err != nil {
		writeVehicleError(c, err)
		return
	}
	c.JSON(http.StatusOK, top)
}

// GET /vehicles/top-frequent/parking-lot/:lotId
func (h *VehicleHandler) TopFrequentByLot(c *gin.Context) {
	lotID, ok := pathID(c, "lotId")
	if !ok {
		return
	}
	top, err := h.vehicleService.TopFrequentVehiclesByLot(c.Request.Context(), lotID)
	if err != nil {
		writeVehicleError(c, err)
		return
	}
	c.JSON(http.StatusOK, top)
}

// GET /vehicles/first-time/parking-lot/:lotId
func (h *VehicleHandler) FirstTimeByLot(c *gin.Context) {
	lotID, ok := pathID(c, "lotId")
	if !ok {
		return
	}
	vehicles, err := h.vehicleService.FirstTimeVehicles(c.Request.Context(), lotID)
	if err != nil {
		writeVehicleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// GET /vehicles/revenue/:period/parking-lot/:lotId
func (h *VehicleHandler) Revenue(c *gin.Context) {
	lotID, ok := pathID(c, "lotId")
	if !ok {
		return
	}
	revenue, err := h.vehicleService.RevenueForPeriod(c.Request.Context(), lotID, c.Param("period"))
	if err != nil {
		writeVehicleError(c, err)
		return
	}
	c.JSON(http.StatusOK, revenue)
}

// GET /vehicles/search?plate=term
func (h *VehicleHandler) Search(c *gin.Context) {
	vehicles, err := h.vehicleService.SearchVehiclesByPlate(c.Request.Context(), c.Query("plate"))
	if err != nil {
		writeVehicleError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func writeVehicleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, validator.ErrInvalidPlate),
		errors.Is(err, service.ErrEmptySearchTerm),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrLotInactive):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateSession), errors.Is(err, service.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrLotNotFound), errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}
