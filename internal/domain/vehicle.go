package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/guregu/null.v4"
)

// Vehicle is an open parking session: a vehicle currently inside a lot.
// The row is removed (moved to VehicleHistory) on check-out, so ExitTime is
// NULL for the whole lifetime of the record; queries still guard on it.
type Vehicle struct {
	ID        int       `json:"id"`
	Plate     string    `json:"plate"`
	LotID     int       `json:"lot_id"`
	EntryTime time.Time `json:"entry_time"`
	ExitTime  null.Time `json:"exit_time,omitempty"`
	Active    bool      `json:"active"`

	LotName string `json:"lot_name,omitempty"` // joined, not a column
}

// VehicleHistory is a completed parking session. Immutable once created.
type VehicleHistory struct {
	ID        int       `json:"id"`
	Plate     string    `json:"plate"`
	LotID     int       `json:"lot_id"`
	EntryTime time.Time `json:"entry_time"`
	ExitTime  time.Time `json:"exit_time"`
	CreatedAt time.Time `json:"created_at"`
}

type VehicleCheckInDTO struct {
	Plate string `json:"plate" binding:"required"`
	LotID int    `json:"lot_id" binding:"required"`
}

type VehicleCheckOutDTO struct {
	Plate string `json:"plate" binding:"required"`
	LotID int    `json:"lot_id" binding:"required"`
}

type CheckInResponse struct {
	ID int `json:"id"`
}

type CheckOutResponse struct {
	Message string `json:"message"`
}

type VehicleResponse struct {
	ID        int       `json:"id"`
	Plate     string    `json:"plate"`
	EntryTime time.Time `json:"entry_time"`
	LotID     int       `json:"lot_id"`
	LotName   string    `json:"lot_name"`
}

type TopVehicleResponse struct {
	Plate string `json:"plate"`
	Count int64  `json:"count"`
}

type FirstTimeVehicleResponse struct {
	ID          int       `json:"id"`
	Plate       string    `json:"plate"`
	EntryTime   time.Time `json:"entry_time"`
	IsFirstTime bool      `json:"is_first_time"`
}

type RevenueResponse struct {
	Period  string          `json:"period"`
	Total   decimal.Decimal `json:"total"`
	Count   int64           `json:"count"`
	LotID   int             `json:"lot_id"`
	LotName string          `json:"lot_name"`
}
