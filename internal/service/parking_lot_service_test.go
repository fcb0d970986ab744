package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DIEGUS15/parkinglot/internal/domain"

	"github.com/shopspring/decimal"
)

func newLotFixture(t *testing.T) (*ParkingLotService, *mockLotRepo, *mockUserRepo) {
	t.Helper()
	lots := newMockLotRepo()
	users := newMockUserRepo()
	return NewParkingLotService(lots, users), lots, users
}

func seedUser(t *testing.T, users *mockUserRepo, email, role string, active bool) *domain.User {
	t.Helper()
	u, err := users.Create(context.Background(), &domain.User{
		Name:     "Test User",
		Email:    email,
		Password: "hash",
		Role:     role,
		Active:   active,
	})
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return u
}

func lotDTO(name string, ownerID int) domain.ParkingLotDTO {
	return domain.ParkingLotDTO{
		Name:        name,
		Address:     "Carrera 7 # 12-34",
		MaxCapacity: 20,
		HourlyRate:  decimal.RequireFromString("1500"),
		OwnerID:     ownerID,
	}
}

func TestParkingLotCreate(t *testing.T) {
	svc, _, users := newLotFixture(t)
	owner := seedUser(t, users, "partner@mail.com", domain.RolePartner, true)

	lot, err := svc.Create(context.Background(), lotDTO("Central", owner.ID))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !lot.Active {
		t.Error("new lots should start active")
	}
	if lot.ID == 0 {
		t.Error("expected an id to be assigned")
	}
}

func TestParkingLotCreate_NameTaken(t *testing.T) {
	svc, _, users := newLotFixture(t)
	owner := seedUser(t, users, "partner@mail.com", domain.RolePartner, true)
	ctx := context.Background()

	if _, err := svc.Create(ctx, lotDTO("Central", owner.ID)); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, lotDTO("Central", owner.ID)); !errors.Is(err, ErrLotNameTaken) {
		t.Errorf("err = %v, want ErrLotNameTaken", err)
	}
}

func TestParkingLotCreate_NameTakenByInactiveLot(t *testing.T) {
	svc, _, users := newLotFixture(t)
	owner := seedUser(t, users, "partner@mail.com", domain.RolePartner, true)
	ctx := context.Background()

	lot, err := svc.Create(ctx, lotDTO("Central", owner.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Deactivate(ctx, lot.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// Uniqueness still applies against the deactivated lot.
	if _, err := svc.Create(ctx, lotDTO("Central", owner.ID)); !errors.Is(err, ErrLotNameTaken) {
		t.Errorf("err = %v, want ErrLotNameTaken", err)
	}
}

func TestParkingLotCreate_OwnerValidation(t *testing.T) {
	svc, _, users := newLotFixture(t)
	admin := seedUser(t, users, "admin@mail.com", domain.RoleAdmin, true)
	inactive := seedUser(t, users, "inactive@mail.com", domain.RolePartner, false)
	ctx := context.Background()

	if _, err := svc.Create(ctx, lotDTO("A", 99)); !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("missing owner: err = %v, want ErrOwnerNotFound", err)
	}
	if _, err := svc.Create(ctx, lotDTO("B", admin.ID)); !errors.Is(err, ErrOwnerNotPartner) {
		t.Errorf("admin owner: err = %v, want ErrOwnerNotPartner", err)
	}
	if _, err := svc.Create(ctx, lotDTO("C", inactive.ID)); !errors.Is(err, ErrOwnerInactive) {
		t.Errorf("inactive owner: err = %v, want ErrOwnerInactive", err)
	}
}

func TestParkingLotCreate_NegativeRate(t *testing.T) {
	svc, _, users := newLotFixture(t)
	owner := seedUser(t, users, "partner@mail.com", domain.RolePartner, true)

	dto := lotDTO("Central", owner.ID)
	dto.HourlyRate = decimal.RequireFromString("-1")
	if _, err := svc.Create(context.Background(), dto); !errors.Is(err, ErrNegativeRate) {
		t.Errorf("err = %v, want ErrNegativeRate", err)
	}
}

func TestParkingLotUpdate(t *testing.T) {
	svc, _, users := newLotFixture(t)
	owner := seedUser(t, users, "partner@mail.com", domain.RolePartner, true)
	ctx := context.Background()

	lot, err := svc.Create(ctx, lotDTO("Central", owner.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dto := lotDTO("Central Renovado", owner.ID)
	dto.MaxCapacity = 50
	updated, err := svc.Update(ctx, lot.ID, dto)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Central Renovado" || updated.MaxCapacity != 50 {
		t.Errorf("updated lot = %+v", updated)
	}

	// Keeping its own name is not a collision.
	if _, err := svc.Update(ctx, lot.ID, dto); err != nil {
		t.Errorf("no-op rename should succeed: %v", err)
	}
}

func TestParkingLotUpdate_RenameCollision(t *testing.T) {
	svc, _, users := newLotFixture(t)
	owner := seedUser(t, users, "partner@mail.com", domain.RolePartner, true)
	ctx := context.Background()

	if _, err := svc.Create(ctx, lotDTO("Central", owner.ID)); err != nil {
		t.Fatalf("create Central: %v", err)
	}
	lot, err := svc.Create(ctx, lotDTO("Norte", owner.ID))
	if err != nil {
		t.Fatalf("create Norte: %v", err)
	}

	if _, err := svc.Update(ctx, lot.ID, lotDTO("Central", owner.ID)); !errors.Is(err, ErrLotNameTaken) {
		t.Errorf("err = %v, want ErrLotNameTaken", err)
	}
}

func TestParkingLotActivateDeactivate(t *testing.T) {
	svc, _, users := newLotFixture(t)
	owner := seedUser(t, users, "partner@mail.com", domain.RolePartner, true)
	ctx := context.Background()

	lot, err := svc.Create(ctx, lotDTO("Central", owner.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Deactivate(ctx, lot.ID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	got, err := svc.GetByID(ctx, lot.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Active {
		t.Error("lot should be inactive after Deactivate")
	}

	reactivated, err := svc.Activate(ctx, lot.ID)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !reactivated.Active {
		t.Error("lot should be active after Activate")
	}

	if err := svc.Deactivate(ctx, 99); !errors.Is(err, ErrLotNotFound) {
		t.Errorf("err = %v, want ErrLotNotFound", err)
	}
}

func TestParkingLotListByOwner(t *testing.T) {
	svc, _, users := newLotFixture(t)
	owner := seedUser(t, users, "partner@mail.com", domain.RolePartner, true)
	other := seedUser(t, users, "other@mail.com", domain.RolePartner, true)
	ctx := context.Background()

	if _, err := svc.Create(ctx, lotDTO("Central", owner.ID)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, lotDTO("Norte", other.ID)); err != nil {
		t.Fatalf("create: %v", err)
	}

	mine, err := svc.ListByOwner(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(mine) != 1 || mine[0].Name != "Central" {
		t.Errorf("lots for owner = %+v, want only Central", mine)
	}

	if _, err := svc.ListByOwner(ctx, 99); !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("err = %v, want ErrOwnerNotFound", err)
	}
}

func TestParkingLotDelete(t *testing.T) {
	svc, _, users := newLotFixture(t)
	owner := seedUser(t, users, "partner@mail.com", domain.RolePartner, true)
	ctx := context.Background()

	lot, err := svc.Create(ctx, lotDTO("Central", owner.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, lot.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, lot.ID); !errors.Is(err, ErrLotNotFound) {
		t.Errorf("err = %v, want ErrLotNotFound", err)
	}
}
