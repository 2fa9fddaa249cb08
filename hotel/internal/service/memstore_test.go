package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/Astemirdum/hotel-service/hotel/internal/errs"
	"github.com/Astemirdum/hotel-service/hotel/internal/model"
	"github.com/Astemirdum/hotel-service/hotel/internal/repository"
	"github.com/Astemirdum/hotel-service/pkg/kafka"
)

// memLedger keeps reservations in memory and serializes work per room like the postgres advisory lock.
type memLedger struct {
	mu     sync.Mutex
	rows   map[int64]model.Reservation
	nextID int64

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

var _ repository.ReservationRepository = (*memLedger)(nil)

func newMemLedger(seed ...model.Reservation) *memLedger {
	m := &memLedger{
		rows:  make(map[int64]model.Reservation),
		locks: make(map[int64]*sync.Mutex),
	}
	for _, r := range seed {
		if r.ID > m.nextID {
			m.nextID = r.ID
		}
		m.rows[r.ID] = r
	}
	return m
}

func (m *memLedger) roomLock(roomID int64) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.locks[roomID]
	if !ok {
		l = new(sync.Mutex)
		m.locks[roomID] = l
	}
	return l
}

func (m *memLedger) RunInRoomLock(ctx context.Context, roomID int64, fn func(ctx context.Context) error) error {
	l := m.roomLock(roomID)
	l.Lock()
	defer l.Unlock()
	return fn(ctx)
}

func (m *memLedger) FindOverlapping(_ context.Context, roomID int64, stay model.Stay, excludeID int64) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.sorted(true) {
		if r.RoomID == roomID && r.ID != excludeID && r.Status == model.StatusConfirmed && r.Stay().Overlaps(stay) {
			return r.ID, true, nil
		}
	}
	return 0, false, nil
}

func (m *memLedger) CreateReservation(_ context.Context, r model.Reservation) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	m.rows[r.ID] = r
	return r, nil
}

func (m *memLedger) GetReservation(_ context.Context, id int64) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return model.Reservation{}, errs.NotFound("reservation %d not found", id)
	}
	return r, nil
}

func (m *memLedger) UpdateReservation(_ context.Context, r model.Reservation) (model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[r.ID]
	if !ok {
		return model.Reservation{}, errs.NotFound("reservation %d not found", r.ID)
	}
	cur.RoomID, cur.StartDate, cur.EndDate, cur.Status, cur.TotalPrice = r.RoomID, r.StartDate, r.EndDate, r.Status, r.TotalPrice
	m.rows[r.ID] = cur
	return cur, nil
}

func (m *memLedger) DeleteReservation(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return errs.NotFound("reservation %d not found", id)
	}
	delete(m.rows, id)
	return nil
}

func (m *memLedger) ListByGuest(_ context.Context, guestUserID int64) ([]model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]model.Reservation, 0)
	for _, r := range m.sorted(false) {
		if r.GuestUserID == guestUserID {
			items = append(items, r)
		}
	}
	return items, nil
}

func (m *memLedger) ListDetailed(_ context.Context, filter model.ReservationFilter) ([]model.ReservationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]model.ReservationDetail, 0)
	for _, r := range m.sorted(false) {
		if filter.GuestUserID != nil && r.GuestUserID != *filter.GuestUserID {
			continue
		}
		if filter.RoomID != nil && r.RoomID != *filter.RoomID {
			continue
		}
		items = append(items, model.ReservationDetail{Reservation: r})
	}
	return items, nil
}

func (m *memLedger) ListOccupied(_ context.Context, roomID int64) ([]model.OccupiedRange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]model.OccupiedRange, 0)
	for _, r := range m.sorted(true) {
		if r.RoomID != roomID || r.Status == model.StatusCancelled {
			continue
		}
		items = append(items, model.OccupiedRange{ID: r.ID, StartDate: r.StartDate, EndDate: r.EndDate, Status: r.Status})
	}
	return items, nil
}

func (m *memLedger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *memLedger) sorted(asc bool) []model.Reservation {
	items := make([]model.Reservation, 0, len(m.rows))
	for _, r := range m.rows {
		items = append(items, r)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.StartDate.Equal(b.StartDate.Time) {
			if asc {
				return a.StartDate.Before(b.StartDate.Time)
			}
			return a.StartDate.After(b.StartDate.Time)
		}
		return a.ID < b.ID
	})
	return items
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event kafka.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []kafka.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]kafka.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
