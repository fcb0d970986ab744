package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/DIEGUS15/parkinglot/internal/domain"
	"github.com/DIEGUS15/parkinglot/internal/repository"
	"github.com/DIEGUS15/parkinglot/internal/validator"

	"github.com/shopspring/decimal"
)

var ErrDuplicateSession = errors.New("vehicle already has an open session")
var ErrLotNotFound = errors.New("parking lot does not exist")
var ErrLotInactive = errors.New("parking lot is not active")
var ErrCapacityExceeded = errors.New("parking lot has reached its maximum capacity")
var ErrSessionNotFound = errors.New("no open session for that plate in the parking lot")
var ErrEmptySearchTerm = errors.New("search term must not be empty")
var ErrInvalidPeriod = errors.New("unknown revenue period")

type VehicleService struct {
	lotRepo     repository.ParkingLotRepository
	vehicleRepo repository.VehicleRepository
	historyRepo repository.VehicleHistoryRepository
	location    *time.Location
}

func NewVehicleService(
	lotRepo repository.ParkingLotRepository,
	vehicleRepo repository.VehicleRepository,
	historyRepo repository.VehicleHistoryRepository,
	location *time.Location,
) *VehicleService {
	if location == nil {
		location = time.UTC
	}
	return &VehicleService{
		lotRepo:     lotRepo,
		vehicleRepo: vehicleRepo,
		historyRepo: historyRepo,
		location:    location,
	}
}

// CheckIn admits a vehicle into a lot. The duplicate-session check is global
// (a plate may not be open in any lot), while the capacity check is scoped to
// the target lot. The open-plate unique index backs the duplicate check
// against concurrent admits.
func (s *VehicleService) CheckIn(ctx context.Context, dto domain.VehicleCheckInDTO) (*domain.Vehicle, error) {
	plate, err := validator.NormalizePlate(dto.Plate)
	if err != nil {
		return nil, err
	}
	log.Printf("Registering check-in for plate %s at lot %d", plate, dto.LotID)

	hasOpen, err := s.vehicleRepo.ExistsOpenByPlate(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("checking open sessions: %w", err)
	}
	if hasOpen {
		log.Printf("Rejected check-in: plate %s is already inside a parking lot", plate)
		return nil, fmt.Errorf("%w: plate '%s' is already inside this or another parking lot", ErrDuplicateSession, plate)
	}

	lot, err := s.lotRepo.FindByID(ctx, dto.LotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrLotNotFound, dto.LotID)
		}
		return nil, fmt.Errorf("looking up parking lot: %w", err)
	}
	if !lot.Active {
		return nil, fmt.Errorf("%w: '%s'", ErrLotInactive, lot.Name)
	}

	occupied, err := s.vehicleRepo.CountOpenByLot(ctx, dto.LotID)
	if err != nil {
		return nil, fmt.Errorf("counting occupancy: %w", err)
	}
	if occupied >= int64(lot.MaxCapacity) {
		log.Printf("Rejected check-in at lot %d: full (%d/%d)", dto.LotID, occupied, lot.MaxCapacity)
		return nil, fmt.Errorf("%w (%d/%d)", ErrCapacityExceeded, occupied, lot.MaxCapacity)
	}

	vehicle := &domain.Vehicle{
		Plate:     plate,
		LotID:     dto.LotID,
		EntryTime: time.Now().UTC(),
		Active:    true,
	}
	created, err := s.vehicleRepo.Create(ctx, vehicle)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, fmt.Errorf("%w: plate '%s' is already inside this or another parking lot", ErrDuplicateSession, plate)
		}
		return nil, fmt.Errorf("creating open session: %w", err)
	}

	log.Printf("Check-in registered with ID %d (occupancy %d/%d)", created.ID, occupied+1, lot.MaxCapacity)
	return created, nil
}

// CheckOut closes the open session for (plate, lot) and moves it to history
// atomically. The lookup is lot-scoped, unlike the global check-in duplicate
// check.
func (s *VehicleService) CheckOut(ctx context.Context, dto domain.VehicleCheckOutDTO) (*domain.VehicleHistory, error) {
	plate, err := validator.NormalizePlate(dto.Plate)
	if err != nil {
		return nil, err
	}
	log.Printf("Registering check-out for plate %s at lot %d", plate, dto.LotID)

	vehicle, err := s.vehicleRepo.FindOpenByPlateAndLot(ctx, plate, dto.LotID)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveSession) {
			log.Printf("Rejected check-out: plate %s is not inside lot %d", plate, dto.LotID)
			return nil, fmt.Errorf("%w: plate '%s' is not in this parking lot", ErrSessionNotFound, plate)
		}
		return nil, fmt.Errorf("looking up open session: %w", err)
	}

	exitTime := time.Now().UTC()
	if exitTime.Before(vehicle.EntryTime) {
		exitTime = vehicle.EntryTime
	}

	history, err := s.vehicleRepo.MoveToHistory(ctx, vehicle, exitTime)
	if err != nil {
		if errors.Is(err, repository.ErrNoActiveSession) {
			return nil, fmt.Errorf("%w: plate '%s' is not in this parking lot", ErrSessionNotFound, plate)
		}
		return nil, fmt.Errorf("moving session to history: %w", err)
	}

	log.Printf("Check-out registered for plate %s, history ID %d", plate, history.ID)
	return history, nil
}

func (s *VehicleService) ListVehiclesInLot(ctx context.Context, lotID int) ([]domain.VehicleResponse, error) {
	if _, err := s.requireLot(ctx, lotID); err != nil {
		return nil, err
	}

	vehicles, err := s.vehicleRepo.FindAllOpenByLot(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("listing open sessions: %w", err)
	}

	responses := make([]domain.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		responses = append(responses, domain.VehicleResponse{
			ID:        v.ID,
			Plate:     v.Plate,
			EntryTime: v.EntryTime,
			LotID:     v.LotID,
			LotName:   v.LotName,
		})
	}
	return responses, nil
}

const topFrequentLimit = 10

func (s *VehicleService) TopFrequentVehicles(ctx context.Context) ([]domain.TopVehicleResponse, error) {
	top, err := s.historyRepo.TopFrequent(ctx, topFrequentLimit)
	if err != nil {
		return nil, fmt.Errorf("ranking vehicles: %w", err)
	}
	return top, nil
}

func (s *VehicleService) TopFrequentVehiclesByLot(ctx context.Context, lotID int) ([]domain.TopVehicleResponse, error) {
	if _, err := s.requireLot(ctx, lotID); err != nil {
		return nil, err
	}
	top, err := s.historyRepo.TopFrequentByLot(ctx, lotID, topFrequentLimit)
	if err != nil {
		return nil, fmt.Errorf("ranking vehicles for lot %d: %w", lotID, err)
	}
	return top, nil
}

// FirstTimeVehicles returns the open sessions in a lot whose plate has never
// completed a stay in that lot before.
func (s *VehicleService) FirstTimeVehicles(ctx context.Context, lotID int) ([]domain.FirstTimeVehicleResponse, error) {
	if _, err := s.requireLot(ctx, lotID); err != nil {
		return nil, err
	}

	vehicles, err := s.vehicleRepo.FindAllOpenByLot(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("listing open sessions: %w", err)
	}

	firstTimers := make([]domain.FirstTimeVehicleResponse, 0)
	for _, v := range vehicles {
		seen, err := s.historyRepo.ExistsByPlateAndLot(ctx, v.Plate, lotID)
		if err != nil {
			return nil, fmt.Errorf("checking history for plate %s: %w", v.Plate, err)
		}
		if !seen {
			firstTimers = append(firstTimers, domain.FirstTimeVehicleResponse{
				ID:          v.ID,
				Plate:       v.Plate,
				EntryTime:   v.EntryTime,
				IsFirstTime: true,
			})
		}
	}
	log.Printf("Found %d first-time vehicles in lot %d", len(firstTimers), lotID)
	return firstTimers, nil
}

// RevenueForPeriod sums the stay cost of every history entry whose exit time
// falls inside the named period (today, week, month or year) in the
// configured time zone.
func (s *VehicleService) RevenueForPeriod(ctx context.Context, lotID int, period string) (*domain.RevenueResponse, error) {
	lot, err := s.requireLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	start, end, err := periodRange(period, time.Now().In(s.location))
	if err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.FindByLotAndExitBetween(ctx, lotID, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading history for lot %d: %w", lotID, err)
	}

	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(stayCost(entry.EntryTime, entry.ExitTime, lot.HourlyRate))
	}
	log.Printf("Revenue for lot %d (%s): %s over %d stays", lotID, period, total, len(entries))

	return &domain.RevenueResponse{
		Period:  period,
		Total:   total,
		Count:   int64(len(entries)),
		LotID:   lot.ID,
		LotName: lot.Name,
	}, nil
}

// SearchVehiclesByPlate finds open sessions whose plate contains the term,
// case-insensitively.
func (s *VehicleService) SearchVehiclesByPlate(ctx context.Context, term string) ([]domain.VehicleResponse, error) {
	normalized := strings.ToUpper(strings.TrimSpace(term))
	if normalized == "" {
		return nil, ErrEmptySearchTerm
	}

	vehicles, err := s.vehicleRepo.SearchOpenByPlate(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("searching plates: %w", err)
	}
	log.Printf("Found %d open sessions with plates containing '%s'", len(vehicles), normalized)

	responses := make([]domain.VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		responses = append(responses, domain.VehicleResponse{
			ID:        v.ID,
			Plate:     v.Plate,
			EntryTime: v.EntryTime,
			LotID:     v.LotID,
			LotName:   v.LotName,
		})
	}
	return responses, nil
}

func (s *VehicleService) requireLot(ctx context.Context, lotID int) (*domain.ParkingLot, error) {
	lot, err := s.lotRepo.FindByID(ctx, lotID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrLotNotFound, lotID)
		}
		return nil, fmt.Errorf("looking up parking lot: %w", err)
	}
	return lot, nil
}
