package user

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidRole = errors.New("role must be farmer or buyer")

// ServiceInterface lets other packages depend on the user service without
// a concrete type (order and listing handlers inject fakes in tests).
type ServiceInterface interface {
	GetByID(id uuid.UUID) (User, error)
	ListByIDs(ids []uuid.UUID) ([]User, error)
	Register(u User) (User, error)
	Authenticate(email, password string) (User, error)
	UpdateProfile(id uuid.UUID, u User) (User, error)
	SetAvatar(id uuid.UUID, url *string) (User, error)
}

type Service struct {
	repo Repository
}

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(id uuid.UUID) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByIDs(ids []uuid.UUID) ([]User, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) Register(u User) (User, error) {
	if !u.Role.Valid() {
		return User{}, ErrInvalidRole
	}

	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if err != ErrNotFound {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	u.Password = string(hashed)
	return s.repo.Create(u)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	return u, nil
}

func (s *Service) UpdateProfile(id uuid.UUID, u User) (User, error) {
	return s.repo.Update(id, u)
}

func (s *Service) SetAvatar(id uuid.UUID, url *string) (User, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return User{}, err
	}
	existing.AvatarURL = url
	return s.repo.Update(id, existing)
}
