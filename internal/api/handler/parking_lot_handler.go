package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/DIEGUS15/parkinglot/internal/domain"
	"github.com/DIEGUS15/parkinglot/internal/service"

	"github.com/gin-gonic/gin"
)

type ParkingLotHandler struct {
	lotService *service.ParkingLotService
}

func NewParkingLotHandler(lotService *service.ParkingLotService) *ParkingLotHandler {
	return &ParkingLotHandler{lotService: lotService}
}

// POST /parking-lots
func (h *ParkingLotHandler) Create(c *gin.Context) {
	var dto domain.ParkingLotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	lot, err := h.lotService.Create(c.Request.Context(), dto)
	if err != nil {
		writeLotError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lot)
}

// GET /parking-lots?active=true
func (h *ParkingLotHandler) List(c *gin.Context) {
	var (
		lots []domain.ParkingLot
		err  error
	)
	if c.Query("active") == "true" {
		lots, err = h.lotService.ListActive(c.Request.Context())
	} else {
		lots, err = h.lotService.ListAll(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list parking lots"})
		return
	}
	c.JSON(http.StatusOK, lots)
}

// GET /parking-lots/:id
func (h *ParkingLotHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lot, err := h.lotService.GetByID(c.Request.Context(), id)
	if err != nil {
		writeLotError(c, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

// GET /parking-lots/owner/:ownerId
func (h *ParkingLotHandler) ListByOwner(c *gin.Context) {
	ownerID, ok := pathID(c, "ownerId")
	if !ok {
		return
	}
	lots, err := h.lotService.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		writeLotError(c, err)
		return
	}
	c.JSON(http.StatusOK, lots)
}

// PUT /parking-lots/:id
func (h *ParkingLotHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var dto domain.ParkingLotDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	lot, err := h.lotService.Update(c.Request.Context(), id, dto)
	if err != nil {
		writeLotError(c, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

// DELETE /parking-lots/:id — soft delete (clears the active flag).
func (h *ParkingLotHandler) Deactivate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lotService.Deactivate(c.Request.Context(), id); err != nil {
		writeLotError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "parking lot deactivated"})
}

// PATCH /parking-lots/:id/activate
func (h *ParkingLotHandler) Activate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	lot, err := h.lotService.Activate(c.Request.Context(), id)
	if err != nil {
		writeLotError(c, err)
		return
	}
	c.JSON(http.StatusOK, lot)
}

// DELETE /parking-lots/:id/permanent
func (h *ParkingLotHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.lotService.Delete(c.Request.Context(), id); err != nil {
		writeLotError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "parking lot deleted"})
}

func writeLotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLotNotFound), errors.Is(err, service.ErrOwnerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrLotNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrOwnerNotPartner),
		errors.Is(err, service.ErrOwnerInactive),
		errors.Is(err, service.ErrNegativeRate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
