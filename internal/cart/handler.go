package cart

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmdirect/farmdirect-backend/internal/listing"
	"github.com/farmdirect/farmdirect-backend/internal/user"
)

// Handler exposes the cart over HTTP. A Store is rebuilt from the
// repository on every request, so handlers stay stateless.
type Handler struct {
	repo    Repository
	catalog listing.ServiceInterface
	users   user.ServiceInterface
}

func NewHandler(repo Repository, catalog listing.ServiceInterface, users user.ServiceInterface) *Handler {
	return &Handler{repo: repo, catalog: catalog, users: users}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart/items", h.addItem)
	app.Patch("/api/v1/cart/items/:listingId", h.updateQuantity)
	app.Delete("/api/v1/cart/items/:listingId", h.removeItem)
	app.Delete("/api/v1/cart", h.clearCart)
}

type cartResponse struct {
	Items     []CartItem      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Total     decimal.Decimal `json:"total"`
	Groups    []FarmerGroup   `json:"groups"`
}

func cartView(store *Store) cartResponse {
	return cartResponse{
		Items:     store.Items(),
		ItemCount: store.ItemCount(),
		Total:     store.Total(),
		Groups:    store.ItemsByFarmer(),
	}
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	return c.JSON(cartView(NewStore(userID, h.repo)))
}

type addItemRequest struct {
	ListingID uuid.UUID `json:"listingId"`
	Quantity  int       `json:"quantity,omitempty"`
}

func (h *Handler) addItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(addItemRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ListingID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid listingId"})
	}

	l, err := h.catalog.GetByID(payload.ListingID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "listing not found"})
	}
	if !l.IsAvailable || l.QuantityAvailable <= 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "listing is not available"})
	}

	farmerName := "Local Farmer"
	if farmer, err := h.users.GetByID(l.FarmerID); err == nil {
		farmerName = farmer.FullName
	}

	store := NewStore(userID, h.repo)
	added, err := store.AddItem(CartItem{
		ListingID:    l.ID,
		Name:         l.Name,
		PricePerUnit: l.PricePerUnit,
		Unit:         l.Unit,
		FarmerID:     l.FarmerID,
		FarmerName:   farmerName,
		ImageURL:     l.ImageURL,
		MaxQuantity:  l.QuantityAvailable,
	}, payload.Quantity)
	if err == ErrLimitReached {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": fmt.Sprintf("maximum quantity reached, only %d %s available", l.QuantityAvailable, l.Unit),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(fiber.Map{"item": added, "cart": cartView(store)})
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	listingID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid listing id"})
	}

	payload := new(updateQuantityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	store := NewStore(userID, h.repo)
	store.UpdateQuantity(listingID, payload.Quantity)
	return c.JSON(cartView(store))
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	listingID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid listing id"})
	}

	store := NewStore(userID, h.repo)
	store.RemoveItem(listingID)
	return c.JSON(cartView(store))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	NewStore(userID, h.repo).Clear()
	return c.SendStatus(fiber.StatusNoContent)
}
