package cart

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Repository persists one serialized cart per user. Implementations store
// the full item list as a JSON array under a per-user key.
type Repository interface {
	Load(userID uuid.UUID) ([]CartItem, error)
	Save(userID uuid.UUID, items []CartItem) error
	Clear(userID uuid.UUID) error
}

// InMemoryRepository keeps carts as raw JSON so tests exercise the same
// serialization boundary the redis repository has.
type InMemoryRepository struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]byte
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{carts: make(map[uuid.UUID][]byte)}
}

// SeedRaw stores an arbitrary payload under a user's cart key, valid or not.
func (r *InMemoryRepository) SeedRaw(userID uuid.UUID, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = raw
}

func (r *InMemoryRepository) Load(userID uuid.UUID) ([]CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	raw, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}

	var items []CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *InMemoryRepository) Save(userID uuid.UUID, items []CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[userID] = raw
	return nil
}

func (r *InMemoryRepository) Clear(userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
