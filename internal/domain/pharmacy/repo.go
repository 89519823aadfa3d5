package pharmacy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// OrderRepository is the persistence contract for medicine orders. Lists
// are newest first.
type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error
}

// memoryOrderRepo keeps orders in memory. The catalog side of the pharmacy
// is seed data, so orders survive only for the process lifetime.
type memoryOrderRepo struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*Order
	order  []uuid.UUID
}

func NewMemoryOrderRepo() OrderRepository {
	return &memoryOrderRepo{orders: make(map[uuid.UUID]*Order)}
}

func (m *memoryOrderRepo) Create(_ context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = o
	m.order = append(m.order, o.ID)
	return nil
}

func (m *memoryOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s not found", id)
	}
	return o, nil
}

func (m *memoryOrderRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*Order{}
	for i := len(m.order) - 1; i >= 0; i-- {
		if o := m.orders[m.order[i]]; o.PatientID == patientID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memoryOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return fmt.Errorf("order %s not found", id)
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	return nil
}
