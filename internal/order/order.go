package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a committed purchase agreement between one buyer and one
// farmer. Multi-farmer carts produce one Order per farmer at checkout.
// TotalAmount is fixed at creation and never recomputed.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	BuyerID         uuid.UUID       `json:"buyerId"`
	FarmerID        uuid.UUID       `json:"farmerId"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	DeliveryAddress *string         `json:"deliveryAddress,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       string          `json:"createdAt"`
	UpdatedAt       string          `json:"updatedAt"`

	// filled in by the query side
	Items      []OrderItem `json:"items,omitempty"`
	BuyerName  string      `json:"buyerName,omitempty"`
	FarmerName string      `json:"farmerName,omitempty"`
}

// OrderItem is one purchased cart line, immutable once created.
type OrderItem struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"orderId"`
	ListingID    uuid.UUID       `json:"listingId"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`

	// display fields joined from the listing
	ListingName  string  `json:"listingName,omitempty"`
	ListingUnit  string  `json:"listingUnit,omitempty"`
	ListingImage *string `json:"listingImageUrl,omitempty"`
}
