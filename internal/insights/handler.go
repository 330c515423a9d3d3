package insights

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmdirect/farmdirect-backend/internal/user"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/price-insights", h.priceInsights)
}

func (h *Handler) priceInsights(c *fiber.Ctx) error {
	if _, err := user.GetUserIDFromCtx(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(Request)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Crop == "" || payload.Unit == "" || payload.CurrentPrice <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "crop, unit and a positive currentPrice are required"})
	}

	result, err := h.client.PriceInsights(c.Context(), *payload)
	if err != nil {
		switch err {
		case ErrNotConfigured:
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
		case ErrRateLimited:
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": err.Error()})
		case ErrQuotaExceeded:
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{"message": err.Error()})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(result)
}
