package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem is one marketplace listing a buyer has selected for purchase.
// Price and farmer details are copied from the listing at add time so the
// cart renders without further lookups.
type CartItem struct {
	ListingID    uuid.UUID       `json:"listingId"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit"`
	Unit         string          `json:"unit"`
	FarmerID     uuid.UUID       `json:"farmerId"`
	FarmerName   string          `json:"farmerName"`
	ImageURL     *string         `json:"imageUrl"`
	MaxQuantity  int             `json:"maxQuantity"`
}

// LineTotal is quantity times unit price for this line.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.PricePerUnit.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// FarmerGroup is the subset of cart items sold by one farmer. Checkout
// creates exactly one order per group.
type FarmerGroup struct {
	FarmerID   uuid.UUID  `json:"farmerId"`
	FarmerName string     `json:"farmerName"`
	Items      []CartItem `json:"items"`
}

// Subtotal is the sum of line totals within the group.
func (g FarmerGroup) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range g.Items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}
