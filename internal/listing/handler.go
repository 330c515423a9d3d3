package listing

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/farmdirect/farmdirect-backend/internal/user"
)

// Handler keeps listing HTTP routing isolated from the marketplace and
// farmer dashboard concerns it serves.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/marketplace", h.browse)
	app.Get("/api/v1/marketplace/categories", h.categories)
	app.Get("/api/v1/marketplace/:id", h.getListing)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/listings", h.myListings)
	app.Post("/api/v1/listings", h.createListing)
	app.Put("/api/v1/listings/:id", h.updateListing)
	app.Delete("/api/v1/listings/:id", h.deleteListing)
	app.Patch("/api/v1/listings/:id/availability", h.setAvailability)
	app.Post("/api/v1/listings/:id/image", h.uploadImage)
}

type listingRequest struct {
	Name              string          `json:"name"`
	Description       *string         `json:"description,omitempty"`
	Category          string          `json:"category"`
	PricePerUnit      decimal.Decimal `json:"pricePerUnit"`
	Unit              string          `json:"unit"`
	QuantityAvailable int             `json:"quantityAvailable"`
	HarvestDate       *string         `json:"harvestDate,omitempty"`
	ImageURL          *string         `json:"imageUrl,omitempty"`
}

func (h *Handler) browse(c *fiber.Ctx) error {
	listings, err := h.service.Browse(c.Query("category"), c.Query("search"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(listings)
}

func (h *Handler) categories(c *fiber.Ctx) error {
	cats, err := h.service.Categories()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(cats)
}

func (h *Handler) getListing(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid listing id"})
	}

	l, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "listing not found"})
	}
	return c.JSON(l)
}

func (h *Handler) myListings(c *fiber.Ctx) error {
	farmerID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	listings, err := h.service.ListByFarmer(farmerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(listings)
}

func (h *Handler) createListing(c *fiber.Ctx) error {
	farmerID, role, err := identity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(listingRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Create(farmerID, role, Listing{
		Name:              payload.Name,
		Description:       payload.Description,
		Category:          payload.Category,
		PricePerUnit:      payload.PricePerUnit,
		Unit:              payload.Unit,
		QuantityAvailable: payload.QuantityAvailable,
		HarvestDate:       payload.HarvestDate,
		ImageURL:          payload.ImageURL,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateListing(c *fiber.Ctx) error {
	farmerID, role, err := identity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid listing id"})
	}

	payload := new(listingRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.Update(farmerID, role, Listing{
		ID:                id,
		Name:              payload.Name,
		Description:       payload.Description,
		Category:          payload.Category,
		PricePerUnit:      payload.PricePerUnit,
		Unit:              payload.Unit,
		QuantityAvailable: payload.QuantityAvailable,
		HarvestDate:       payload.HarvestDate,
		ImageURL:          payload.ImageURL,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(updated)
}

func (h *Handler) deleteListing(c *fiber.Ctx) error {
	farmerID, role, err := identity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid listing id"})
	}

	if err := h.service.Delete(farmerID, role, id); err != nil {
		return h.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type availabilityRequest struct {
	IsAvailable bool `json:"isAvailable"`
}

func (h *Handler) setAvailability(c *fiber.Ctx) error {
	farmerID, role, err := identity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid listing id"})
	}

	payload := new(availabilityRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.SetAvailability(farmerID, role, id, payload.IsAvailable)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) uploadImage(c *fiber.Ctx) error {
	farmerID, role, err := identity(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid listing id"})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "file is required"})
	}

	name := fmt.Sprintf("%s-%d%s", id, time.Now().UnixNano(), filepath.Ext(file.Filename))
	if err := c.SaveFile(file, "./uploads/produce/"+name); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.SetImage(farmerID, role, id, "/uploads/produce/"+name)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) mapError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "listing not found"})
	case ErrNotOwner, ErrNotFarmer:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	case ErrInvalidInput:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
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
