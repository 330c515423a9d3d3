package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(farmer uuid.UUID, farmerName string, price int64, max int) CartItem {
	return CartItem{
		ListingID:    uuid.New(),
		Name:         "Tomatoes",
		PricePerUnit: decimal.NewFromInt(price),
		Unit:         "kg",
		FarmerID:     farmer,
		FarmerName:   farmerName,
		MaxQuantity:  max,
	}
}

func TestAddItemMergesAndClamps(t *testing.T) {
	repo := NewInMemoryRepository()
	store := NewStore(uuid.New(), repo)
	item := testItem(uuid.New(), "Asha", 40, 5)

	added, err := store.AddItem(item, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, added.Quantity)

	// merging never creates a second line for the same listing
	merged, err := store.AddItem(item, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, merged.Quantity)
	assert.Len(t, store.Items(), 1)

	// at the cap the add is rejected and nothing changes
	_, err = store.AddItem(item, 1)
	assert.ErrorIs(t, err, ErrLimitReached)
	assert.Equal(t, 5, store.Items()[0].Quantity)
}

func TestAddItemDefaultsToOneAndClampsNewLines(t *testing.T) {
	store := NewStore(uuid.New(), NewInMemoryRepository())

	first, err := store.AddItem(testItem(uuid.New(), "Asha", 10, 8), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)

	second, err := store.AddItem(testItem(uuid.New(), "Asha", 10, 3), 10)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	store := NewStore(uuid.New(), NewInMemoryRepository())
	item := testItem(uuid.New(), "Asha", 25, 6)
	_, err := store.AddItem(item, 2)
	require.NoError(t, err)

	store.UpdateQuantity(item.ListingID, 4)
	assert.Equal(t, 4, store.Items()[0].Quantity)

	store.UpdateQuantity(item.ListingID, 99)
	assert.Equal(t, 6, store.Items()[0].Quantity)

	// zero behaves exactly like RemoveItem
	store.UpdateQuantity(item.ListingID, 0)
	assert.Empty(t, store.Items())
}

func TestRemoveItemAbsentIsNoop(t *testing.T) {
	store := NewStore(uuid.New(), NewInMemoryRepository())
	_, err := store.AddItem(testItem(uuid.New(), "Asha", 25, 6), 1)
	require.NoError(t, err)

	store.RemoveItem(uuid.New())
	assert.Len(t, store.Items(), 1)
}

func TestCountAndTotal(t *testing.T) {
	store := NewStore(uuid.New(), NewInMemoryRepository())
	farmer := uuid.New()

	_, err := store.AddItem(testItem(farmer, "Asha", 40, 10), 2)
	require.NoError(t, err)
	_, err = store.AddItem(testItem(farmer, "Asha", 100, 10), 1)
	require.NoError(t, err)

	assert.Equal(t, 3, store.ItemCount())
	assert.True(t, store.Total().Equal(decimal.NewFromInt(180)), "total = %s", store.Total())
}

func TestItemsByFarmerPartitionsInFirstSeenOrder(t *testing.T) {
	store := NewStore(uuid.New(), NewInMemoryRepository())
	farmerA := uuid.New()
	farmerB := uuid.New()

	_, err := store.AddItem(testItem(farmerA, "Asha", 40, 10), 2)
	require.NoError(t, err)
	_, err = store.AddItem(testItem(farmerB, "Kamau", 100, 10), 1)
	require.NoError(t, err)

	// the later line carries a different spelling; the group keeps the
	// first-seen name
	renamed := testItem(farmerA, "Asha W.", 15, 10)
	_, err = store.AddItem(renamed, 3)
	require.NoError(t, err)

	groups := store.ItemsByFarmer()
	require.Len(t, groups, 2)
	assert.Equal(t, farmerA, groups[0].FarmerID)
	assert.Equal(t, "Asha", groups[0].FarmerName)
	assert.Equal(t, farmerB, groups[1].FarmerID)

	total := 0
	for _, g := range groups {
		total += len(g.Items)
	}
	assert.Equal(t, len(store.Items()), total, "groups must partition the cart")

	assert.True(t, groups[0].Subtotal().Equal(decimal.NewFromInt(125)))
	assert.True(t, groups[1].Subtotal().Equal(decimal.NewFromInt(100)))
}

func TestQuantityInvariantsAcrossMutations(t *testing.T) {
	store := NewStore(uuid.New(), NewInMemoryRepository())
	item := testItem(uuid.New(), "Asha", 10, 4)

	_, _ = store.AddItem(item, 3)
	_, _ = store.AddItem(item, 3)
	store.UpdateQuantity(item.ListingID, -2)
	_, _ = store.AddItem(item, 2)
	store.UpdateQuantity(item.ListingID, 7)

	sum := 0
	for _, it := range store.Items() {
		require.Greater(t, it.Quantity, 0)
		require.LessOrEqual(t, it.Quantity, it.MaxQuantity)
		sum += it.Quantity
	}
	assert.Equal(t, sum, store.ItemCount())
}

func TestPersistenceRoundTrip(t *testing.T) {
	repo := NewInMemoryRepository()
	userID := uuid.New()
	item := testItem(uuid.New(), "Asha", 40, 5)

	store := NewStore(userID, repo)
	_, err := store.AddItem(item, 2)
	require.NoError(t, err)

	reloaded := NewStore(userID, repo)
	require.Len(t, reloaded.Items(), 1)
	assert.Equal(t, item.ListingID, reloaded.Items()[0].ListingID)
	assert.Equal(t, 2, reloaded.Items()[0].Quantity)
	assert.True(t, reloaded.Total().Equal(decimal.NewFromInt(80)))
}

func TestCorruptedCartLoadsEmpty(t *testing.T) {
	repo := NewInMemoryRepository()
	userID := uuid.New()
	repo.SeedRaw(userID, []byte(`{"not":"a cart"`))

	store := NewStore(userID, repo)
	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.ItemCount())
}

func TestClearEmptiesStoreAndRepository(t *testing.T) {
	repo := NewInMemoryRepository()
	userID := uuid.New()

	store := NewStore(userID, repo)
	_, err := store.AddItem(testItem(uuid.New(), "Asha", 40, 5), 1)
	require.NoError(t, err)

	store.Clear()
	assert.Empty(t, store.Items())

	reloaded := NewStore(userID, repo)
	assert.Empty(t, reloaded.Items())
}
