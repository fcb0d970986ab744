package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/DIEGUS15/parkinglot/internal/domain"
	"github.com/DIEGUS15/parkinglot/internal/repository"
)

type pgVehicleHistoryRepository struct {
	db *sql.DB
}

func NewPgVehicleHistoryRepository(db *sql.DB) repository.VehicleHistoryRepository {
	return &pgVehicleHistoryRepository{db: db}
}

func (r *pgVehicleHistoryRepository) ExistsByPlateAndLot(ctx context.Context, plate string, lotID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
	            SELECT 1 FROM vehicle_history WHERE plate = $1 AND lot_id = $2)`
	if err := r.db.QueryRowContext(ctx, query, plate, lotID).Scan(&exists); err != nil {
		return false, fmt.Errorf("VehicleHistoryRepository.ExistsByPlateAndLot: %w", err)
	}
	return exists, nil
}

func (r *pgVehicleHistoryRepository) FindByLotAndExitBetween(ctx context.Context, lotID int, start, end time.Time) ([]domain.VehicleHistory, error) {
	query := `SELECT id, plate, lot_id, entry_time, exit_time, created_at
	           FROM vehicle_history
	           WHERE lot_id = $1 AND exit_time >= $2 AND exit_time <= $3
	           ORDER BY exit_time`

	rows, err := r.db.QueryContext(ctx, query, lotID, start, end)
	if err != nil {
		return nil, fmt.Errorf("VehicleHistoryRepository.FindByLotAndExitBetween: %w", err)
	}
	defer rows.Close()

	var entries []domain.VehicleHistory
	for rows.Next() {
		var entry domain.VehicleHistory
		if err := rows.Scan(&entry.ID, &entry.Plate, &entry.LotID, &entry.EntryTime, &entry.ExitTime, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("VehicleHistoryRepository.FindByLotAndExitBetween (scanning row): %w", err)
		}
		entry.EntryTime = entry.EntryTime.In(time.UTC)
		entry.ExitTime = entry.ExitTime.In(time.UTC)
		entry.CreatedAt = entry.CreatedAt.In(time.UTC)
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("VehicleHistoryRepository.FindByLotAndExitBetween (rows error): %w", err)
	}
	return entries, nil
}

func (r *pgVehicleHistoryRepository) TopFrequent(ctx context.Context, limit int) ([]domain.TopVehicleResponse, error) {
	// Plate ascending breaks count ties deterministically.
	query := `SELECT plate, COUNT(*) AS visits
	           FROM vehicle_history
	           GROUP BY plate
	           ORDER BY visits DESC, plate ASC
	           LIMIT $1`
	return r.queryTop(ctx, "TopFrequent", query, limit)
}

func (r *pgVehicleHistoryRepository) TopFrequentByLot(ctx context.Context, lotID int, limit int) ([]domain.TopVehicleResponse, error) {
	query := `SELECT plate, COUNT(*) AS visits
	           FROM vehicle_history
	           WHERE lot_id = $1
	           GROUP BY plate
	           ORDER BY visits DESC, plate ASC
	           LIMIT $2`
	return r.queryTop(ctx, "TopFrequentByLot", query, lotID, limit)
}

func (r *pgVehicleHistoryRepository) queryTop(ctx context.Context, op, query string, args ...any) ([]domain.TopVehicleResponse, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("VehicleHistoryRepository.%s: %w", op, err)
	}
	defer rows.Close()

	var top []domain.TopVehicleResponse
	for rows.Next() {
		var entry domain.TopVehicleResponse
		if err := rows.Scan(&entry.Plate, &entry.Count); err != nil {
			return nil, fmt.Errorf("VehicleHistoryRepository.%s (scanning row): %w", op, err)
		}
		top = append(top, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("VehicleHistoryRepository.%s (rows error): %w", op, err)
	}
	return top, nil
}
