package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/DIEGUS15/parkinglot/internal/domain"
	"github.com/DIEGUS15/parkinglot/internal/repository"
)

var ErrLotNameTaken = errors.New("a parking lot with that name already exists")
var ErrOwnerNotFound = errors.New("owner does not exist")
var ErrOwnerNotPartner = errors.New("the specified user is not a partner")
var ErrOwnerInactive = errors.New("the partner is inactive")
var ErrNegativeRate = errors.New("hourly rate must be zero or positive")

type ParkingLotService struct {
	lotRepo  repository.ParkingLotRepository
	userRepo repository.UserRepository
}

func NewParkingLotService(lotRepo repository.ParkingLotRepository, userRepo repository.UserRepository) *ParkingLotService {
	return &ParkingLotService{lotRepo: lotRepo, userRepo: userRepo}
}

func (s *ParkingLotService) Create(ctx context.Context, dto domain.ParkingLotDTO) (*domain.ParkingLot, error) {
	if dto.HourlyRate.IsNegative() {
		return nil, ErrNegativeRate
	}

	// Name uniqueness covers inactive lots as well.
	taken, err := s.lotRepo.ExistsByName(ctx, dto.Name)
	if err != nil {
		return nil, fmt.Errorf("checking lot name: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: '%s'", ErrLotNameTaken, dto.Name)
	}

	if err := s.requirePartner(ctx, dto.OwnerID); err != nil {
		return nil, err
	}

	lot := &domain.ParkingLot{
		Name:        dto.Name,
		Address:     dto.Address,
		MaxCapacity: dto.MaxCapacity,
		HourlyRate:  dto.HourlyRate,
		OwnerID:     dto.OwnerID,
		Active:      true,
	}
	created, err := s.lotRepo.Create(ctx, lot)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, fmt.Errorf("%w: '%s'", ErrLotNameTaken, dto.Name)
		}
		return nil, fmt.Errorf("creating parking lot: %w", err)
	}
	log.Printf("Created parking lot '%s' with ID %d (capacity %d)", created.Name, created.ID, created.MaxCapacity)
	return created, nil
}

func (s *ParkingLotService) GetByID(ctx context.Context, id int) (*domain.ParkingLot, error) {
	lot, err := s.lotRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrLotNotFound, id)
		}
		return nil, fmt.Errorf("looking up parking lot: %w", err)
	}
	return lot, nil
}

func (s *ParkingLotService) ListAll(ctx context.Context) ([]domain.ParkingLot, error) {
	return s.lotRepo.FindAll(ctx)
}

func (s *ParkingLotService) ListActive(ctx context.Context) ([]domain.ParkingLot, error) {
	return s.lotRepo.FindAllActive(ctx)
}

func (s *ParkingLotService) ListByOwner(ctx context.Context, ownerID int) ([]domain.ParkingLot, error) {
	if _, err := s.userRepo.FindByID(ctx, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrOwnerNotFound, ownerID)
		}
		return nil, fmt.Errorf("looking up owner: %w", err)
	}
	return s.lotRepo.FindByOwnerID(ctx, ownerID)
}

func (s *ParkingLotService) Update(ctx context.Context, id int, dto domain.ParkingLotDTO) (*domain.ParkingLot, error) {
	if dto.HourlyRate.IsNegative() {
		return nil, ErrNegativeRate
	}

	lot, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if lot.Name != dto.Name {
		taken, err := s.lotRepo.ExistsByName(ctx, dto.Name)
		if err != nil {
			return nil, fmt.Errorf("checking lot name: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: '%s'", ErrLotNameTaken, dto.Name)
		}
	}

	if err := s.requirePartner(ctx, dto.OwnerID); err != nil {
		return nil, err
	}

	lot.Name = dto.Name
	lot.Address = dto.Address
	lot.MaxCapacity = dto.MaxCapacity
	lot.HourlyRate = dto.HourlyRate
	lot.OwnerID = dto.OwnerID

	updated, err := s.lotRepo.Update(ctx, lot)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, fmt.Errorf("%w: '%s'", ErrLotNameTaken, dto.Name)
		}
		return nil, fmt.Errorf("updating parking lot: %w", err)
	}
	return updated, nil
}

// Deactivate soft-deletes a lot by clearing its active flag; history and any
// open sessions keep referencing it.
func (s *ParkingLotService) Deactivate(ctx context.Context, id int) error {
	if err := s.lotRepo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrLotNotFound, id)
		}
		return fmt.Errorf("deactivating parking lot: %w", err)
	}
	log.Printf("Parking lot %d deactivated", id)
	return nil
}

func (s *ParkingLotService) Activate(ctx context.Context, id int) (*domain.ParkingLot, error) {
	if err := s.lotRepo.SetActive(ctx, id, true); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrLotNotFound, id)
		}
		return nil, fmt.Errorf("activating parking lot: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the lot row permanently. Referential failures from dependent
// sessions or history surface as infrastructure errors.
func (s *ParkingLotService) Delete(ctx context.Context, id int) error {
	if err := s.lotRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrLotNotFound, id)
		}
		return fmt.Errorf("deleting parking lot: %w", err)
	}
	log.Printf("Parking lot %d deleted permanently", id)
	return nil
}

func (s *ParkingLotService) requirePartner(ctx context.Context, ownerID int) error {
	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: id %d", ErrOwnerNotFound, ownerID)
		}
		return fmt.Errorf("looking up owner: %w", err)
	}
	if owner.Role != domain.RolePartner {
		return fmt.Errorf("%w: '%s'", ErrOwnerNotPartner, owner.Email)
	}
	if !owner.Active {
		return fmt.Errorf("%w: '%s'", ErrOwnerInactive, owner.Email)
	}
	return nil
}
