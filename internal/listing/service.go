package listing

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/internal/user"
)

var (
	ErrNotOwner     = errors.New("listing belongs to another farmer")
	ErrNotFarmer    = errors.New("only farmers can manage listings")
	ErrInvalidInput = errors.New("invalid listing input")
)

// Directory resolves user ids to accounts for marketplace enrichment.
type Directory interface {
	ListByIDs(ids []uuid.UUID) ([]user.User, error)
}

// ServiceInterface is the surface other packages (cart, order) consume.
type ServiceInterface interface {
	GetByID(id uuid.UUID) (Listing, error)
	ListByIDs(ids []uuid.UUID) ([]Listing, error)
	ReduceQuantity(id uuid.UUID, by int) error
}

type Service struct {
	repo  Repository
	users Directory
}

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, users Directory) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) GetByID(id uuid.UUID) (Listing, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListByIDs(ids []uuid.UUID) ([]Listing, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) ListByFarmer(farmerID uuid.UUID) ([]Listing, error) {
	return s.repo.ListByFarmer(farmerID)
}

// Browse returns marketplace listings enriched with the farmer's display
// name and location. A missing farmer profile degrades to a placeholder
// instead of failing the whole page.
func (s *Service) Browse(category, search string) ([]Listing, error) {
	listings, err := s.repo.ListAvailable(category, search)
	if err != nil {
		return nil, err
	}

	idSet := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0)
	for _, l := range listings {
		if !idSet[l.FarmerID] {
			idSet[l.FarmerID] = true
			ids = append(ids, l.FarmerID)
		}
	}

	farmers := map[uuid.UUID]user.User{}
	if s.users != nil && len(ids) > 0 {
		if us, err := s.users.ListByIDs(ids); err == nil {
			for _, u := range us {
				farmers[u.ID] = u
			}
		}
	}

	for i := range listings {
		if f, ok := farmers[listings[i].FarmerID]; ok {
			listings[i].FarmerName = f.FullName
			listings[i].FarmerLocation = f.Location
		} else {
			listings[i].FarmerName = "Local Farmer"
		}
	}
	return listings, nil
}

func (s *Service) Categories() ([]string, error) {
	return s.repo.Categories()
}

func (s *Service) Create(farmerID uuid.UUID, role user.Role, l Listing) (Listing, error) {
	if !role.Can(user.CapManageListings) {
		return Listing{}, ErrNotFarmer
	}
	if l.Name == "" || l.Category == "" || !validUnit(l.Unit) || l.PricePerUnit.IsNegative() || l.QuantityAvailable < 0 {
		return Listing{}, ErrInvalidInput
	}

	now := time.Now().UTC().Format(time.RFC3339)
	l.ID = uuid.New()
	l.FarmerID = farmerID
	l.IsAvailable = true
	l.CreatedAt = now
	l.UpdatedAt = now
	return s.repo.Create(l)
}

func (s *Service) Update(farmerID uuid.UUID, role user.Role, l Listing) (Listing, error) {
	existing, err := s.ownedListing(farmerID, role, l.ID)
	if err != nil {
		return Listing{}, err
	}
	if l.Name == "" || l.Category == "" || !validUnit(l.Unit) || l.PricePerUnit.IsNegative() || l.QuantityAvailable < 0 {
		return Listing{}, ErrInvalidInput
	}

	// availability has its own toggle endpoint; an edit never flips it
	l.IsAvailable = existing.IsAvailable
	l.FarmerID = existing.FarmerID
	l.CreatedAt = existing.CreatedAt
	l.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Update(l)
}

func (s *Service) Delete(farmerID uuid.UUID, role user.Role, id uuid.UUID) error {
	if _, err := s.ownedListing(farmerID, role, id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *Service) SetAvailability(farmerID uuid.UUID, role user.Role, id uuid.UUID, available bool) (Listing, error) {
	existing, err := s.ownedListing(farmerID, role, id)
	if err != nil {
		return Listing{}, err
	}
	existing.IsAvailable = available
	existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Update(existing)
}

func (s *Service) SetImage(farmerID uuid.UUID, role user.Role, id uuid.UUID, url string) (Listing, error) {
	existing, err := s.ownedListing(farmerID, role, id)
	if err != nil {
		return Listing{}, err
	}
	existing.ImageURL = &url
	existing.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Update(existing)
}

// ReduceQuantity lowers quantity_available after a sale, flooring at zero.
// Plain read-then-write: concurrent checkouts against the same listing can
// race, matching the current storefront behavior.
func (s *Service) ReduceQuantity(id uuid.UUID, by int) error {
	l, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	remaining := l.QuantityAvailable - by
	if remaining < 0 {
		remaining = 0
	}
	return s.repo.SetQuantity(id, remaining, time.Now().UTC().Format(time.RFC3339))
}

func validUnit(unit string) bool {
	for _, u := range AllowedUnits {
		if u == unit {
			return true
		}
	}
	return false
}

func (s *Service) ownedListing(farmerID uuid.UUID, role user.Role, id uuid.UUID) (Listing, error) {
	if !role.Can(user.CapManageListings) {
		return Listing{}, ErrNotFarmer
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return Listing{}, err
	}
	if existing.FarmerID != farmerID {
		return Listing{}, ErrNotOwner
	}
	return existing, nil
}
