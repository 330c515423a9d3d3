package user

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailExists        = errors.New("email already exists")
)

type Repository interface {
	GetByID(id uuid.UUID) (User, error)
	GetByEmail(email string) (User, error)
	// ListByIDs returns the users whose id appears in ids. Missing ids are
	// simply absent from the result, not an error.
	ListByIDs(ids []uuid.UUID) ([]User, error)
	Create(user User) (User, error)
	Update(id uuid.UUID, user User) (User, error)
}

type InMemoryRepository struct {
	mu    sync.RWMutex
	users []User
}

func NewInMemoryRepository(seed []User) *InMemoryRepository {
	repo := &InMemoryRepository{users: make([]User, 0, len(seed))}
	repo.users = append(repo.users, seed...)
	return repo
}

func (r *InMemoryRepository) GetByID(id uuid.UUID) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}

	return User{}, ErrNotFound
}

func (r *InMemoryRepository) GetByEmail(email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}

	return User{}, ErrNotFound
}

func (r *InMemoryRepository) ListByIDs(ids []uuid.UUID) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	out := make([]User, 0, len(ids))
	for _, u := range r.users {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) Create(u User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	r.users = append(r.users, u)
	return u, nil
}

func (r *InMemoryRepository) Update(id uuid.UUID, update User) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == id {
			u.FullName = update.FullName
			u.Phone = update.Phone
			u.Location = update.Location
			u.AvatarURL = update.AvatarURL
			if update.Password != "" {
				u.Password = update.Password
			}
			if update.UpdatedAt != "" {
				u.UpdatedAt = update.UpdatedAt
			}
			r.users[i] = u
			return u, nil
		}
	}

	return User{}, ErrNotFound
}
