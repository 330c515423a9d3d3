package order

import (
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("order not found")

type Repository interface {
	// Create persists the order and its items together.
	Create(ord Order, items []OrderItem) (Order, error)
	GetByID(id uuid.UUID) (Order, error)
	// ListByBuyer and ListByFarmer return bare orders (no items), newest
	// first. Enrichment happens in the service.
	ListByBuyer(buyerID uuid.UUID) ([]Order, error)
	ListByFarmer(farmerID uuid.UUID) ([]Order, error)
	ListItems(orderIDs []uuid.UUID) ([]OrderItem, error)
	UpdateStatus(id uuid.UUID, status Status, updatedAt string) error
}

type InMemoryRepository struct {
	mu     sync.RWMutex
	orders []Order
	items  []OrderItem
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Create(ord Order, items []OrderItem) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ord.ID == uuid.Nil {
		ord.ID = uuid.New()
	}
	r.orders = append(r.orders, ord)
	r.items = append(r.items, items...)
	return ord, nil
}

func (r *InMemoryRepository) GetByID(id uuid.UUID) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, ord := range r.orders {
		if ord.ID == id {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}

func (r *InMemoryRepository) ListByBuyer(buyerID uuid.UUID) ([]Order, error) {
	return r.list(func(o Order) bool { return o.BuyerID == buyerID }), nil
}

func (r *InMemoryRepository) ListByFarmer(farmerID uuid.UUID) ([]Order, error) {
	return r.list(func(o Order) bool { return o.FarmerID == farmerID }), nil
}

func (r *InMemoryRepository) list(match func(Order) bool) []Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	for _, ord := range r.orders {
		if match(ord) {
			out = append(out, ord)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out
}

func (r *InMemoryRepository) ListItems(orderIDs []uuid.UUID) ([]OrderItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[uuid.UUID]bool, len(orderIDs))
	for _, id := range orderIDs {
		want[id] = true
	}

	out := make([]OrderItem, 0)
	for _, item := range r.items {
		if want[item.OrderID] {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) UpdateStatus(id uuid.UUID, status Status, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, ord := range r.orders {
		if ord.ID == id {
			r.orders[i].Status = status
			r.orders[i].UpdatedAt = updatedAt
			return nil
		}
	}
	return ErrNotFound
}
