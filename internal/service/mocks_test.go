package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/DIEGUS15/parkinglot/internal/domain"
	"github.com/DIEGUS15/parkinglot/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type mockUserRepo struct {
	users  map[int]*domain.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int]*domain.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, repository.ErrDuplicateEntry
		}
	}
	u := *user
	u.ID = m.nextID
	m.nextID++
	m.users[u.ID] = &u
	cp := u
	return &cp, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) FindByID(_ context.Context, id int) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type mockLotRepo struct {
	lots   map[int]*domain.ParkingLot
	nextID int
}

func newMockLotRepo() *mockLotRepo {
	return &mockLotRepo{lots: make(map[int]*domain.ParkingLot), nextID: 1}
}

func (m *mockLotRepo) Create(_ context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	for _, l := range m.lots {
		if l.Name == lot.Name {
			return nil, repository.ErrDuplicateEntry
		}
	}
	l := *lot
	l.ID = m.nextID
	m.nextID++
	m.lots[l.ID] = &l
	cp := l
	return &cp, nil
}

func (m *mockLotRepo) FindByID(_ context.Context, id int) (*domain.ParkingLot, error) {
	l, ok := m.lots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *mockLotRepo) FindAll(_ context.Context) ([]domain.ParkingLot, error) {
	out := make([]domain.ParkingLot, 0, len(m.lots))
	for _, l := range m.lots {
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockLotRepo) FindAllActive(ctx context.Context) ([]domain.ParkingLot, error) {
	all, _ := m.FindAll(ctx)
	out := all[:0]
	for _, l := range all {
		if l.Active {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockLotRepo) FindByOwnerID(_ context.Context, ownerID int) ([]domain.ParkingLot, error) {
	out := make([]domain.ParkingLot, 0)
	for _, l := range m.lots {
		if l.OwnerID == ownerID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockLotRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, l := range m.lots {
		if l.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockLotRepo) Update(_ context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	if _, ok := m.lots[lot.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	cp := *lot
	m.lots[lot.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockLotRepo) SetActive(_ context.Context, id int, active bool) error {
	l, ok := m.lots[id]
	if !ok {
		return repository.ErrNotFound
	}
	l.Active = active
	return nil
}

func (m *mockLotRepo) Delete(_ context.Context, id int) error {
	if _, ok := m.lots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.lots, id)
	return nil
}

type mockHistoryRepo struct {
	entries []domain.VehicleHistory
	nextID  int
}

func newMockHistoryRepo() *mockHistoryRepo {
	return &mockHistoryRepo{nextID: 1}
}

func (m *mockHistoryRepo) add(entry domain.VehicleHistory) domain.VehicleHistory {
	entry.ID = m.nextID
	m.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.entries = append(m.entries, entry)
	return entry
}

func (m *mockHistoryRepo) ExistsByPlateAndLot(_ context.Context, plate string, lotID int) (bool, error) {
	for _, e := range m.entries {
		if e.Plate == plate && e.LotID == lotID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockHistoryRepo) FindByLotAndExitBetween(_ context.Context, lotID int, start, end time.Time) ([]domain.VehicleHistory, error) {
	out := make([]domain.VehicleHistory, 0)
	for _, e := range m.entries {
		if e.LotID == lotID && !e.ExitTime.Before(start) && !e.ExitTime.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockHistoryRepo) TopFrequent(_ context.Context, limit int) ([]domain.TopVehicleResponse, error) {
	return m.top(limit, func(domain.VehicleHistory) bool { return true }), nil
}

func (m *mockHistoryRepo) TopFrequentByLot(_ context.Context, lotID int, limit int) ([]domain.TopVehicleResponse, error) {
	return m.top(limit, func(e domain.VehicleHistory) bool { return e.LotID == lotID }), nil
}

func (m *mockHistoryRepo) top(limit int, match func(domain.VehicleHistory) bool) []domain.TopVehicleResponse {
	counts := make(map[string]int64)
	for _, e := range m.entries {
		if match(e) {
			counts[e.Plate]++
		}
	}
	out := make([]domain.TopVehicleResponse, 0, len(counts))
	for plate, count := range counts {
		out = append(out, domain.TopVehicleResponse{Plate: plate, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Plate < out[j].Plate
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

type mockVehicleRepo struct {
	vehicles map[int]*domain.Vehicle
	nextID   int
	history  *mockHistoryRepo
}

func newMockVehicleRepo(history *mockHistoryRepo) *mockVehicleRepo {
	return &mockVehicleRepo{vehicles: make(map[int]*domain.Vehicle), nextID: 1, history: history}
}

func (m *mockVehicleRepo) Create(_ context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	for _, v := range m.vehicles {
		if v.Plate == vehicle.Plate {
			return nil, repository.ErrDuplicateEntry
		}
	}
	v := *vehicle
	v.ID = m.nextID
	m.nextID++
	m.vehicles[v.ID] = &v
	cp := v
	return &cp, nil
}

func (m *mockVehicleRepo) ExistsOpenByPlate(_ context.Context, plate string) (bool, error) {
	for _, v := range m.vehicles {
		if v.Plate == plate {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockVehicleRepo) FindOpenByPlateAndLot(_ context.Context, plate string, lotID int) (*domain.Vehicle, error) {
	for _, v := range m.vehicles {
		if v.Plate == plate && v.LotID == lotID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, repository.ErrNoActiveSession
}

func (m *mockVehicleRepo) FindAllOpenByLot(_ context.Context, lotID int) ([]domain.Vehicle, error) {
	out := make([]domain.Vehicle, 0)
	for _, v := range m.vehicles {
		if v.LotID == lotID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockVehicleRepo) CountOpenByLot(_ context.Context, lotID int) (int64, error) {
	var count int64
	for _, v := range m.vehicles {
		if v.LotID == lotID {
			count++
		}
	}
	return count, nil
}

func (m *mockVehicleRepo) SearchOpenByPlate(_ context.Context, term string) ([]domain.Vehicle, error) {
	out := make([]domain.Vehicle, 0)
	for _, v := range m.vehicles {
		if strings.Contains(v.Plate, strings.ToUpper(term)) {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (m *mockVehicleRepo) MoveToHistory(_ context.Context, vehicle *domain.Vehicle, exitTime time.Time) (*domain.VehicleHistory, error) {
	if _, ok := m.vehicles[vehicle.ID]; !ok {
		return nil, repository.ErrNoActiveSession
	}
	delete(m.vehicles, vehicle.ID)
	entry := m.history.add(domain.VehicleHistory{
		Plate:     vehicle.Plate,
		LotID:     vehicle.LotID,
		EntryTime: vehicle.EntryTime,
		ExitTime:  exitTime,
	})
	return &entry, nil
}
