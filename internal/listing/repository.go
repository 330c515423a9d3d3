package listing

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("listing not found")

type Repository interface {
	GetByID(id uuid.UUID) (Listing, error)
	ListByIDs(ids []uuid.UUID) ([]Listing, error)
	ListByFarmer(farmerID uuid.UUID) ([]Listing, error)
	// ListAvailable returns available listings with stock, newest first,
	// optionally filtered by category and a name substring.
	ListAvailable(category, search string) ([]Listing, error)
	Categories() ([]string, error)
	Create(l Listing) (Listing, error)
	Update(l Listing) (Listing, error)
	Delete(id uuid.UUID) error
	SetQuantity(id uuid.UUID, qty int, updatedAt string) error
}

type InMemoryRepository struct {
	mu       sync.RWMutex
	listings []Listing
}

func NewInMemoryRepository(seed []Listing) *InMemoryRepository {
	r := &InMemoryRepository{listings: make([]Listing, 0, len(seed))}
	r.listings = append(r.listings, seed...)
	return r
}

func (r *InMemoryRepository) GetByID(id uuid.UUID) (Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return Listing{}, ErrNotFound
}

func (r *InMemoryRepository) ListByIDs(ids []uuid.UUID) ([]Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	out := make([]Listing, 0, len(ids))
	for _, l := range r.listings {
		if want[l.ID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListByFarmer(farmerID uuid.UUID) ([]Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Listing, 0)
	for _, l := range r.listings {
		if l.FarmerID == farmerID {
			out = append(out, l)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) ListAvailable(category, search string) ([]Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Listing, 0)
	for _, l := range r.listings {
		if !l.IsAvailable || l.QuantityAvailable <= 0 {
			continue
		}
		if category != "" && l.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, l)
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *InMemoryRepository) Categories() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]bool{}
	out := []string{}
	for _, l := range r.listings {
		if l.IsAvailable && !seen[l.Category] {
			seen[l.Category] = true
			out = append(out, l.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *InMemoryRepository) Create(l Listing) (Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.listings = append(r.listings, l)
	return l, nil
}

func (r *InMemoryRepository) Update(update Listing) (Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.listings {
		if l.ID == update.ID {
			r.listings[i] = update
			return update, nil
		}
	}
	return Listing{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.listings {
		if l.ID == id {
			r.listings = append(r.listings[:i], r.listings[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) SetQuantity(id uuid.UUID, qty int, updatedAt string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, l := range r.listings {
		if l.ID == id {
			r.listings[i].QuantityAvailable = qty
			if updatedAt != "" {
				r.listings[i].UpdatedAt = updatedAt
			}
			return nil
		}
	}
	return ErrNotFound
}

func sortNewestFirst(ls []Listing) {
	sort.SliceStable(ls, func(i, j int) bool {
		return ls[i].CreatedAt > ls[j].CreatedAt
	})
}
