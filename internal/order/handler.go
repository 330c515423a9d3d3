package order

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/internal/cart"
	"github.com/farmdirect/farmdirect-backend/internal/user"
)

// Handler wires checkout and order lifecycle endpoints. It needs the cart
// repository to rebuild the caller's cart store per request.
type Handler struct {
	service  *Service
	cartRepo cart.Repository
}

func NewHandler(s *Service, cartRepo cart.Repository) *Handler {
	return &Handler{service: s, cartRepo: cartRepo}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout", h.checkout)
	app.Get("/api/v1/orders", h.getOrders)
	app.Patch("/api/v1/orders/:id/status", h.updateStatus)
}

type checkoutRequest struct {
	DeliveryAddress *string `json:"deliveryAddress,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	userID, role, err := identity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(checkoutRequest)
	// an empty body is fine; address and notes are optional
	if len(c.Body()) > 0 {
		if err := c.BodyParser(payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}

	store := cart.NewStore(userID, h.cartRepo)
	result, err := h.service.Checkout(userID, role, store, CheckoutInput{
		DeliveryAddress: payload.DeliveryAddress,
		Notes:           payload.Notes,
	})
	if err != nil {
		switch err {
		case ErrNotBuyer:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
		case ErrEmptyCart:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		default:
			// earlier farmer groups may already be committed; report what
			// happened instead of pretending nothing was written
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message":       err.Error(),
				"ordersCreated": result.OrdersCreated,
			})
		}
	}

	return c.JSON(fiber.Map{
		"message":       fmt.Sprintf("%d order(s) created from %d items", result.OrdersCreated, result.ItemsOrdered),
		"orders":        result.Orders,
		"ordersCreated": result.OrdersCreated,
		"itemsOrdered":  result.ItemsOrdered,
	})
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	userID, role, err := identity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListForUser(userID, role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	userID, role, err := identity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid order id"})
	}

	payload := new(statusUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	next, err := ParseStatus(payload.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.UpdateStatus(orderID, userID, role, next)
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case ErrNotOrderFarmer:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
		case ErrInvalidTransition:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("order status changed to %s", updated.Status),
		"order":   updated,
	})
}

func identity(c *fiber.Ctx) (uuid.UUID, user.Role, error) {
	id, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return uuid.Nil, "", err
	}
	role, err := user.GetRoleFromCtx(c)
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, role, nil
}
