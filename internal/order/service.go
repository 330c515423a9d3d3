package order

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmdirect/farmdirect-backend/internal/cart"
	"github.com/farmdirect/farmdirect-backend/internal/listing"
	"github.com/farmdirect/farmdirect-backend/internal/user"
)

var (
	ErrNotBuyer       = errors.New("only buyers can place orders")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNotOrderFarmer = errors.New("only the order's farmer can update its status")
)

// Service owns checkout and the order lifecycle.
type Service struct {
	repo    Repository
	catalog listing.ServiceInterface
	users   user.ServiceInterface
}

func NewService(repo Repository, catalog listing.ServiceInterface, users user.ServiceInterface) *Service {
	return &Service{repo: repo, catalog: catalog, users: users}
}

type CheckoutInput struct {
	DeliveryAddress *string
	Notes           *string
}

type CheckoutResult struct {
	Orders        []Order `json:"orders"`
	OrdersCreated int     `json:"ordersCreated"`
	ItemsOrdered  int     `json:"itemsOrdered"`
}

// Checkout turns the buyer's cart into one pending order per farmer.
//
// Farmer groups are processed strictly in sequence. A failure stops the
// loop: the cart is left untouched and orders already written for earlier
// groups stay committed — there is no cross-order rollback. Whether that
// should become all-or-nothing is an open product question; until then the
// partial-commit behavior is deliberate.
func (s *Service) Checkout(buyerID uuid.UUID, role user.Role, store *cart.Store, input CheckoutInput) (CheckoutResult, error) {
	if !role.Can(user.CapPlaceOrder) {
		return CheckoutResult{}, ErrNotBuyer
	}

	items := store.Items()
	if len(items) == 0 {
		return CheckoutResult{}, ErrEmptyCart
	}

	groups := store.ItemsByFarmer()
	now := time.Now().UTC().Format(time.RFC3339)
	created := make([]Order, 0, len(groups))

	for _, group := range groups {
		ord := Order{
			ID:              uuid.New(),
			BuyerID:         buyerID,
			FarmerID:        group.FarmerID,
			TotalAmount:     group.Subtotal(),
			Status:          StatusPending,
			DeliveryAddress: input.DeliveryAddress,
			Notes:           input.Notes,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		orderItems := make([]OrderItem, 0, len(group.Items))
		for _, line := range group.Items {
			orderItems = append(orderItems, OrderItem{
				ID:           uuid.New(),
				OrderID:      ord.ID,
				ListingID:    line.ListingID,
				Quantity:     line.Quantity,
				PricePerUnit: line.PricePerUnit,
				TotalPrice:   line.PricePerUnit.Mul(decimal.NewFromInt(int64(line.Quantity))),
			})
		}

		saved, err := s.repo.Create(ord, orderItems)
		if err != nil {
			return CheckoutResult{Orders: created, OrdersCreated: len(created)}, err
		}

		for _, line := range group.Items {
			if err := s.catalog.ReduceQuantity(line.ListingID, line.Quantity); err != nil {
				return CheckoutResult{Orders: created, OrdersCreated: len(created)}, err
			}
		}

		created = append(created, saved)
	}

	store.Clear()
	return CheckoutResult{
		Orders:        created,
		OrdersCreated: len(created),
		ItemsOrdered:  len(items),
	}, nil
}

// UpdateStatus applies a lifecycle transition. Only the farmer party of
// the order may move it, and only along the legal transition table.
func (s *Service) UpdateStatus(orderID, actorID uuid.UUID, role user.Role, next Status) (Order, error) {
	if !role.Can(user.CapManageOrders) {
		return Order{}, ErrNotOrderFarmer
	}

	ord, err := s.repo.GetByID(orderID)
	if err != nil {
		return Order{}, err
	}
	if ord.FarmerID != actorID {
		return Order{}, ErrNotOrderFarmer
	}
	if !ord.Status.CanTransitionTo(next) {
		return Order{}, ErrInvalidTransition
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.repo.UpdateStatus(orderID, next, now); err != nil {
		return Order{}, err
	}

	ord.Status = next
	ord.UpdatedAt = now
	return ord, nil
}

// ListForUser returns the orders where the caller is the buyer (buyer
// role) or the farmer (farmer role), newest first, with items, listing
// display fields and the counterpart's display name joined in.
func (s *Service) ListForUser(userID uuid.UUID, role user.Role) ([]Order, error) {
	var (
		orders []Order
		err    error
	)
	if role == user.RoleFarmer {
		orders, err = s.repo.ListByFarmer(userID)
	} else {
		orders, err = s.repo.ListByBuyer(userID)
	}
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []Order{}, nil
	}

	orderIDs := make([]uuid.UUID, 0, len(orders))
	for _, ord := range orders {
		orderIDs = append(orderIDs, ord.ID)
	}

	items, err := s.repo.ListItems(orderIDs)
	if err != nil {
		return nil, err
	}

	listingByID := s.listingDetails(items)
	nameByID := s.displayNames(orders)

	itemsByOrder := map[uuid.UUID][]OrderItem{}
	for _, item := range items {
		if l, ok := listingByID[item.ListingID]; ok {
			item.ListingName = l.Name
			item.ListingUnit = l.Unit
			item.ListingImage = l.ImageURL
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}

	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
		orders[i].BuyerName = nameOrFallback(nameByID, orders[i].BuyerID, "Unknown Buyer")
		orders[i].FarmerName = nameOrFallback(nameByID, orders[i].FarmerID, "Unknown Farmer")
	}
	return orders, nil
}

// listingDetails resolves the display fields for every listing referenced
// by the given items. Lookup failures degrade to missing display data, not
// a failed query.
func (s *Service) listingDetails(items []OrderItem) map[uuid.UUID]listing.Listing {
	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0)
	for _, item := range items {
		if !seen[item.ListingID] {
			seen[item.ListingID] = true
			ids = append(ids, item.ListingID)
		}
	}

	out := map[uuid.UUID]listing.Listing{}
	if len(ids) == 0 {
		return out
	}
	listings, err := s.catalog.ListByIDs(ids)
	if err != nil {
		return out
	}
	for _, l := range listings {
		out[l.ID] = l
	}
	return out
}

func (s *Service) displayNames(orders []Order) map[uuid.UUID]string {
	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0)
	for _, ord := range orders {
		for _, id := range []uuid.UUID{ord.BuyerID, ord.FarmerID} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	out := map[uuid.UUID]string{}
	users, err := s.users.ListByIDs(ids)
	if err != nil {
		return out
	}
	for _, u := range users {
		out[u.ID] = u.FullName
	}
	return out
}

func nameOrFallback(names map[uuid.UUID]string, id uuid.UUID, fallback string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return fallback
}
