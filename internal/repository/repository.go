package repository

import (
	"context"
	"errors"
	"time"

	"github.com/DIEGUS15/parkinglot/internal/domain"
)

var ErrNotFound = errors.New("record not found")
var ErrDuplicateEntry = errors.New("record already exists")
var ErrNoActiveSession = errors.New("no open parking session for the given data")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
}

type ParkingLotRepository interface {
	Create(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error)
	FindByID(ctx context.Context, id int) (*domain.ParkingLot, error)
	FindAll(ctx context.Context) ([]domain.ParkingLot, error)
	FindAllActive(ctx context.Context) ([]domain.ParkingLot, error)
	FindByOwnerID(ctx context.Context, ownerID int) ([]domain.ParkingLot, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Update(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error)
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
}

// VehicleRepository is the store of open parking sessions. A plate may have
// at most one open session system-wide; the adapter backs this with a unique
// index and maps violations to ErrDuplicateEntry.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	ExistsOpenByPlate(ctx context.Context, plate string) (bool, error)
	FindOpenByPlateAndLot(ctx context.Context, plate string, lotID int) (*domain.Vehicle, error)
	FindAllOpenByLot(ctx context.Context, lotID int) ([]domain.Vehicle, error)
	CountOpenByLot(ctx context.Context, lotID int) (int64, error)
	SearchOpenByPlate(ctx context.Context, term string) ([]domain.Vehicle, error)
	// MoveToHistory inserts the closed session into vehicle history and
	// deletes the open session in a single database transaction.
	MoveToHistory(ctx context.Context, vehicle *domain.Vehicle, exitTime time.Time) (*domain.VehicleHistory, error)
}

type VehicleHistoryRepository interface {
	ExistsByPlateAndLot(ctx context.Context, plate string, lotID int) (bool, error)
	FindByLotAndExitBetween(ctx context.Context, lotID int, start, end time.Time) ([]domain.VehicleHistory, error)
	TopFrequent(ctx context.Context, limit int) ([]domain.TopVehicleResponse, error)
	TopFrequentByLot(ctx context.Context, lotID int, limit int) ([]domain.TopVehicleResponse, error)
}
