package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ParkingLot struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Address     string          `json:"address"`
	MaxCapacity int             `json:"max_capacity"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	OwnerID     int             `json:"owner_id"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ParkingLotDTO struct {
	Name        string          `json:"name" binding:"required"`
	Address     string          `json:"address" binding:"required"`
	MaxCapacity int             `json:"max_capacity" binding:"required,min=1"`
	HourlyRate  decimal.Decimal `json:"hourly_rate"`
	OwnerID     int             `json:"owner_id" binding:"required"`
}
