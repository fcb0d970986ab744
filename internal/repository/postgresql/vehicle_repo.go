package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DIEGUS15/parkinglot/internal/domain"
	"github.com/DIEGUS15/parkinglot/internal/repository"
)

type pgVehicleRepository struct {
	db *sql.DB
}

func NewPgVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &pgVehicleRepository{db: db}
}

func (r *pgVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	query := `INSERT INTO vehicles (plate, lot_id, entry_time, active)
	           VALUES ($1, $2, $3, $4)
	           RETURNING id`

	err := r.db.QueryRowContext(ctx, query, vehicle.Plate, vehicle.LotID, vehicle.EntryTime, vehicle.Active).
		Scan(&vehicle.ID)
	if err != nil {
		// The partial unique index on open plates is the backstop for
		// concurrent check-ins racing past the duplicate check.
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: plate '%s' already has an open session", repository.ErrDuplicateEntry, vehicle.Plate)
		}
		return nil, fmt.Errorf("VehicleRepository.Create: %w", err)
	}
	return vehicle, nil
}

func (r *pgVehicleRepository) ExistsOpenByPlate(ctx context.Context, plate string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM vehicles
	            WHERE plate = $1 AND exit_time IS NULL AND active = true)`
	if err := r.db.QueryRowContext(ctx, query, plate).Scan(&exists); err != nil {
		return false, fmt.Errorf("VehicleRepository.ExistsOpenByPlate: %w", err)
	}
	return exists, nil
}

func (r *pgVehicleRepository) FindOpenByPlateAndLot(ctx context.Context, plate string, lotID int) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	query := `SELECT v.id, v.plate, v.lot_id, v.entry_time, v.exit_time, v.active, l.name
	           FROM vehicles v
	           JOIN parking_lots l ON l.id = v.lot_id
	           WHERE v.plate = $1 AND v.lot_id = $2 AND v.exit_time IS NULL AND v.active = true`

	err := r.db.QueryRowContext(ctx, query, plate, lotID).Scan(
		&vehicle.ID, &vehicle.Plate, &vehicle.LotID, &vehicle.EntryTime, &vehicle.ExitTime,
		&vehicle.Active, &vehicle.LotName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNoActiveSession
		}
		return nil, fmt.Errorf("VehicleRepository.FindOpenByPlateAndLot: %w", err)
	}
	vehicle.EntryTime = vehicle.EntryTime.In(time.UTC)
	return vehicle, nil
}

func (r *pgVehicleRepository) FindAllOpenByLot(ctx context.Context, lotID int) ([]domain.Vehicle, error) {
	query := `SELECT v.id, v.plate, v.lot_id, v.entry_time, v.exit_time, v.active, l.name
	           FROM vehicles v
	           JOIN parking_lots l ON l.id = v.lot_id
	           WHERE v.lot_id = $1 AND v.exit_time IS NULL AND v.active = true
	           ORDER BY v.entry_time DESC`
	return r.queryVehicles(ctx, "FindAllOpenByLot", query, lotID)
}

func (r *pgVehicleRepository) CountOpenByLot(ctx context.Context, lotID int) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM vehicles
	           WHERE lot_id = $1 AND exit_time IS NULL AND active = true`
	if err := r.db.QueryRowContext(ctx, query, lotID).Scan(&count); err != nil {
		return 0, fmt.Errorf("VehicleRepository.CountOpenByLot: %w", err)
	}
	return count, nil
}

func (r *pgVehicleRepository) SearchOpenByPlate(ctx context.Context, term string) ([]domain.Vehicle, error) {
	query := `SELECT v.id, v.plate, v.lot_id, v.entry_time, v.exit_time, v.active, l.name
	           FROM vehicles v
	           JOIN parking_lots l ON l.id = v.lot_id
	           WHERE v.plate ILIKE '%' || $1 || '%' AND v.exit_time IS NULL AND v.active = true
	           ORDER BY v.entry_time DESC`
	return r.queryVehicles(ctx, "SearchOpenByPlate", query, term)
}

func (r *pgVehicleRepository) queryVehicles(ctx context.Context, op, query string, args ...any) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("VehicleRepository.%s: %w", op, err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var vehicle domain.Vehicle
		if err := rows.Scan(
			&vehicle.ID, &vehicle.Plate, &vehicle.LotID, &vehicle.EntryTime, &vehicle.ExitTime,
			&vehicle.Active, &vehicle.LotName,
		); err != nil {
			return nil, fmt.Errorf("VehicleRepository.%s (scanning row): %w", op, err)
		}
		vehicle.EntryTime = vehicle.EntryTime.In(time.UTC)
		vehicles = append(vehicles, vehicle)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("VehicleRepository.%s (rows error): %w", op, err)
	}
	return vehicles, nil
}

// MoveToHistory closes an open session: it inserts the history record and
// deletes the vehicle row in one transaction, so no reader can observe the
// vehicle in both stores or in neither.
func (r *pgVehicleRepository) MoveToHistory(ctx context.Context, vehicle *domain.Vehicle, exitTime time.Time) (*domain.VehicleHistory, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("VehicleRepository.MoveToHistory (begin tx): %w", err)
	}
	defer tx.Rollback()

	history := &domain.VehicleHistory{
		Plate:     vehicle.Plate,
		LotID:     vehicle.LotID,
		EntryTime: vehicle.EntryTime,
		ExitTime:  exitTime,
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO vehicle_history (plate, lot_id, entry_time, exit_time, created_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING id, created_at`,
		history.Plate, history.LotID, history.EntryTime, history.ExitTime,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("VehicleRepository.MoveToHistory (insert history): %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, vehicle.ID)
	if err != nil {
		return nil, fmt.Errorf("VehicleRepository.MoveToHistory (delete session): %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Someone checked this vehicle out concurrently; roll back the
		// history insert rather than double-billing the stay.
		return nil, repository.ErrNoActiveSession
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("VehicleRepository.MoveToHistory (commit): %w", err)
	}
	history.CreatedAt = history.CreatedAt.In(time.UTC)
	return history, nil
}
