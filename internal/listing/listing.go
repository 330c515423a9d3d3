package listing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Listing is a farmer's sellable produce offering.
type Listing struct {
	ID                uuid.UUID       `json:"id"`
	FarmerID          uuid.UUID       `json:"farmerId"`
	Name              string          `json:"name"`
	Description       *string         `json:"description,omitempty"`
	Category          string          `json:"category"`
	PricePerUnit      decimal.Decimal `json:"pricePerUnit"`
	Unit              string          `json:"unit"`
	QuantityAvailable int             `json:"quantityAvailable"`
	ImageURL          *string         `json:"imageUrl,omitempty"`
	IsAvailable       bool            `json:"isAvailable"`
	HarvestDate       *string         `json:"harvestDate,omitempty"`
	CreatedAt         string          `json:"createdAt,omitempty"`
	UpdatedAt         string          `json:"updatedAt,omitempty"`

	// filled in for marketplace views only
	FarmerName     string `json:"farmerName,omitempty"`
	FarmerLocation string `json:"farmerLocation,omitempty"`
}

// AllowedUnits lists the produce units the listing form accepts.
var AllowedUnits = []string{"kg", "g", "dozen", "piece", "bunch", "litre", "crate"}
