package cart

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrLimitReached signals an add that would push a line past the listing's
// available quantity when the line is already at the cap. The cart is left
// unchanged.
var ErrLimitReached = errors.New("maximum quantity reached")

// Store holds one user's cart. It loads the saved cart when constructed and
// writes the full item list back through the repository after every
// mutation, so the Store itself is plain in-memory state with persistence
// at the edges.
type Store struct {
	userID uuid.UUID
	repo   Repository
	items  []CartItem
}

// NewStore loads the user's saved cart. An absent or unreadable saved cart
// starts over empty; corruption never surfaces to the caller.
func NewStore(userID uuid.UUID, repo Repository) *Store {
	items, err := repo.Load(userID)
	if err != nil || items == nil {
		items = []CartItem{}
	}
	return &Store{userID: userID, repo: repo, items: items}
}

// AddItem merges the item into the cart. An existing line for the same
// listing has its quantity increased, clamped to the listing's maximum;
// if the line is already at the cap nothing changes and ErrLimitReached is
// returned. New lines are appended, also clamped.
func (s *Store) AddItem(item CartItem, qty int) (CartItem, error) {
	if qty <= 0 {
		qty = 1
	}

	for i, existing := range s.items {
		if existing.ListingID == item.ListingID {
			newQty := existing.Quantity + qty
			if newQty > item.MaxQuantity {
				newQty = item.MaxQuantity
			}
			if newQty == existing.Quantity {
				return existing, ErrLimitReached
			}
			s.items[i].Quantity = newQty
			s.items[i].MaxQuantity = item.MaxQuantity
			s.persist()
			return s.items[i], nil
		}
	}

	if qty > item.MaxQuantity {
		qty = item.MaxQuantity
	}
	if qty <= 0 {
		return CartItem{}, ErrLimitReached
	}
	item.Quantity = qty
	s.items = append(s.items, item)
	s.persist()
	return item, nil
}

// RemoveItem deletes the matching line. Removing an absent listing is a
// no-op.
func (s *Store) RemoveItem(listingID uuid.UUID) {
	for i, item := range s.items {
		if item.ListingID == listingID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist()
			return
		}
	}
}

// UpdateQuantity sets a line's quantity, clamped to the listing maximum.
// A quantity of zero or less removes the line entirely.
func (s *Store) UpdateQuantity(listingID uuid.UUID, qty int) {
	if qty <= 0 {
		s.RemoveItem(listingID)
		return
	}

	for i, item := range s.items {
		if item.ListingID == listingID {
			if qty > item.MaxQuantity {
				qty = item.MaxQuantity
			}
			s.items[i].Quantity = qty
			s.persist()
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.items = []CartItem{}
	if err := s.repo.Clear(s.userID); err != nil {
		fmt.Printf("warning: could not clear cart for %s: %v\n", s.userID, err)
	}
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []CartItem {
	out := make([]CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount is the sum of quantities across all lines.
func (s *Store) ItemCount() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Total is the sum of quantity times unit price across all lines.
func (s *Store) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range s.items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// ItemsByFarmer partitions the cart by seller. Group order follows the
// first appearance of each farmer in the cart, and each group keeps the
// first-seen farmer name.
func (s *Store) ItemsByFarmer() []FarmerGroup {
	groups := []FarmerGroup{}
	index := map[uuid.UUID]int{}

	for _, item := range s.items {
		i, ok := index[item.FarmerID]
		if !ok {
			index[item.FarmerID] = len(groups)
			groups = append(groups, FarmerGroup{FarmerID: item.FarmerID, FarmerName: item.FarmerName})
			i = len(groups) - 1
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

func (s *Store) persist() {
	if err := s.repo.Save(s.userID, s.items); err != nil {
		fmt.Printf("warning: could not persist cart for %s: %v\n", s.userID, err)
	}
}
