package listing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmdirect/farmdirect-backend/internal/user"
)

type fakeDirectory struct {
	users map[uuid.UUID]user.User
}

func (f *fakeDirectory) ListByIDs(ids []uuid.UUID) ([]user.User, error) {
	out := make([]user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func seedListing(farmerID uuid.UUID, name string, price int64, qty int) Listing {
	return Listing{
		ID:                uuid.New(),
		FarmerID:          farmerID,
		Name:              name,
		Category:          "vegetables",
		PricePerUnit:      decimal.NewFromInt(price),
		Unit:              "kg",
		QuantityAvailable: qty,
		IsAvailable:       true,
	}
}

func TestBrowseEnrichesFarmerDetails(t *testing.T) {
	known := uuid.New()
	unknown := uuid.New()
	repo := NewInMemoryRepository([]Listing{
		seedListing(known, "Roma Tomatoes", 40, 10),
		seedListing(unknown, "Curly Kale", 15, 5),
	})
	dir := &fakeDirectory{users: map[uuid.UUID]user.User{
		known: {ID: known, FullName: "Asha Wanjiru", Location: "Nakuru", Role: user.RoleFarmer},
	}}
	service := NewService(repo, dir)

	out, err := service.Browse("", "")
	require.NoError(t, err)
	require.Len(t, out, 2)

	byName := map[string]Listing{}
	for _, l := range out {
		byName[l.Name] = l
	}
	assert.Equal(t, "Asha Wanjiru", byName["Roma Tomatoes"].FarmerName)
	assert.Equal(t, "Nakuru", byName["Roma Tomatoes"].FarmerLocation)
	assert.Equal(t, "Local Farmer", byName["Curly Kale"].FarmerName)
	assert.Empty(t, byName["Curly Kale"].FarmerLocation)
}

func TestBrowseSkipsUnavailableListings(t *testing.T) {
	farmerID := uuid.New()
	hidden := seedListing(farmerID, "Hidden", 10, 5)
	hidden.IsAvailable = false
	soldOut := seedListing(farmerID, "Sold Out", 10, 0)
	repo := NewInMemoryRepository([]Listing{
		seedListing(farmerID, "Visible", 10, 5),
		hidden,
		soldOut,
	})
	service := NewService(repo, &fakeDirectory{})

	out, err := service.Browse("", "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Visible", out[0].Name)
}

func TestCreateGatesAndValidates(t *testing.T) {
	service := NewService(NewInMemoryRepository(nil), &fakeDirectory{})
	farmerID := uuid.New()

	_, err := service.Create(farmerID, user.RoleBuyer, seedListing(farmerID, "Eggs", 12, 6))
	assert.ErrorIs(t, err, ErrNotFarmer)

	_, err = service.Create(farmerID, user.RoleFarmer, Listing{Name: "", Category: "dairy", Unit: "dozen"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Create(farmerID, user.RoleFarmer, Listing{
		Name: "Eggs", Category: "dairy", Unit: "dozen",
		PricePerUnit: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	created, err := service.Create(farmerID, user.RoleFarmer, Listing{
		Name: "Eggs", Category: "dairy", Unit: "dozen",
		PricePerUnit: decimal.NewFromInt(12), QuantityAvailable: 6,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, farmerID, created.FarmerID)
	assert.True(t, created.IsAvailable)
	assert.NotEmpty(t, created.CreatedAt)
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	owner := uuid.New()
	original := seedListing(owner, "Roma Tomatoes", 40, 10)
	original.CreatedAt = "2026-08-01T10:00:00Z"
	repo := NewInMemoryRepository([]Listing{original})
	service := NewService(repo, &fakeDirectory{})

	update := original
	update.Name = "San Marzano Tomatoes"

	_, err := service.Update(uuid.New(), user.RoleFarmer, update)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = service.Update(owner, user.RoleBuyer, update)
	assert.ErrorIs(t, err, ErrNotFarmer)

	// the owner cannot move the listing to another farmer
	update.FarmerID = uuid.New()
	updated, err := service.Update(owner, user.RoleFarmer, update)
	require.NoError(t, err)
	assert.Equal(t, owner, updated.FarmerID)
	assert.Equal(t, "San Marzano Tomatoes", updated.Name)
	assert.Equal(t, "2026-08-01T10:00:00Z", updated.CreatedAt)
	assert.NotEmpty(t, updated.UpdatedAt)
}

func TestUpdateDoesNotReviveAPausedListing(t *testing.T) {
	owner := uuid.New()
	paused := seedListing(owner, "Roma Tomatoes", 40, 10)
	paused.IsAvailable = false
	repo := NewInMemoryRepository([]Listing{paused})
	service := NewService(repo, &fakeDirectory{})

	update := paused
	update.PricePerUnit = decimal.NewFromInt(45)
	updated, err := service.Update(owner, user.RoleFarmer, update)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable, "a price edit must not re-enable a paused listing")

	stored, err := repo.GetByID(paused.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	// and the converse: editing an available listing keeps it available
	revived, err := service.SetAvailability(owner, user.RoleFarmer, paused.ID, true)
	require.NoError(t, err)
	require.True(t, revived.IsAvailable)

	update.Name = "San Marzano Tomatoes"
	updated, err = service.Update(owner, user.RoleFarmer, update)
	require.NoError(t, err)
	assert.True(t, updated.IsAvailable)
}

func TestUnitMustBeAllowed(t *testing.T) {
	owner := uuid.New()
	existing := seedListing(owner, "Carrots", 30, 3)
	repo := NewInMemoryRepository([]Listing{existing})
	service := NewService(repo, &fakeDirectory{})

	bad := seedListing(owner, "Maize", 20, 10)
	bad.Unit = "sack"
	_, err := service.Create(owner, user.RoleFarmer, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad.Unit = ""
	_, err = service.Create(owner, user.RoleFarmer, bad)
	assert.ErrorIs(t, err, ErrInvalidInput)

	update := existing
	update.Unit = "sack"
	_, err = service.Update(owner, user.RoleFarmer, update)
	assert.ErrorIs(t, err, ErrInvalidInput)

	for _, unit := range AllowedUnits {
		ok := seedListing(owner, "Sample "+unit, 10, 1)
		ok.Unit = unit
		if _, err := service.Create(owner, user.RoleFarmer, ok); err != nil {
			t.Errorf("unit %q rejected: %v", unit, err)
		}
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	owner := uuid.New()
	l := seedListing(owner, "Honey", 100, 2)
	repo := NewInMemoryRepository([]Listing{l})
	service := NewService(repo, &fakeDirectory{})

	assert.ErrorIs(t, service.Delete(uuid.New(), user.RoleFarmer, l.ID), ErrNotOwner)
	assert.ErrorIs(t, service.Delete(owner, user.RoleFarmer, uuid.New()), ErrNotFound)

	require.NoError(t, service.Delete(owner, user.RoleFarmer, l.ID))
	_, err := repo.GetByID(l.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetAvailability(t *testing.T) {
	owner := uuid.New()
	l := seedListing(owner, "Kale", 15, 5)
	repo := NewInMemoryRepository([]Listing{l})
	service := NewService(repo, &fakeDirectory{})

	updated, err := service.SetAvailability(owner, user.RoleFarmer, l.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	out, err := service.Browse("", "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReduceQuantityFloorsAtZero(t *testing.T) {
	l := seedListing(uuid.New(), "Carrots", 30, 3)
	repo := NewInMemoryRepository([]Listing{l})
	service := NewService(repo, &fakeDirectory{})

	require.NoError(t, service.ReduceQuantity(l.ID, 1))
	got, err := repo.GetByID(l.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.QuantityAvailable)

	// selling more than is left floors at zero, never negative
	require.NoError(t, service.ReduceQuantity(l.ID, 5))
	got, err = repo.GetByID(l.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.QuantityAvailable)

	assert.ErrorIs(t, service.ReduceQuantity(uuid.New(), 1), ErrNotFound)
}
