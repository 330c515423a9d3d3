package listing

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var listingRowColumns = []string{
	"listing_id", "farmer_id", "name", "description", "category", "price_per_unit",
	"unit", "quantity_available", "image_url", "is_available", "harvest_date",
	"created_at", "updated_at",
}

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	id := uuid.New()
	farmerID := uuid.New()
	rows := sqlmock.NewRows(listingRowColumns).
		AddRow(id.String(), farmerID.String(), "Roma Tomatoes", nil, "vegetables", "40.50",
			"kg", 12, nil, true, nil, "2026-08-01T10:00:00Z", "2026-08-01T10:00:00Z")
	mock.ExpectQuery("FROM produce_listings WHERE listing_id").WithArgs(id).WillReturnRows(rows)

	l, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if l.ID != id || l.Name != "Roma Tomatoes" {
		t.Fatalf("unexpected listing %+v", l)
	}
	if !l.PricePerUnit.Equal(decimal.NewFromFloat(40.5)) {
		t.Errorf("unexpected price %s", l.PricePerUnit)
	}
	if l.QuantityAvailable != 12 {
		t.Errorf("unexpected quantity %d", l.QuantityAvailable)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	id := uuid.New()
	mock.ExpectQuery("FROM produce_listings WHERE listing_id").WithArgs(id).
		WillReturnRows(sqlmock.NewRows(listingRowColumns))

	if _, err := repo.GetByID(id); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListAvailable_CategoryAndSearch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	id := uuid.New()
	farmerID := uuid.New()
	rows := sqlmock.NewRows(listingRowColumns).
		AddRow(id.String(), farmerID.String(), "Cherry Tomatoes", nil, "vegetables", "55",
			"kg", 4, nil, true, nil, "2026-08-02T10:00:00Z", "2026-08-02T10:00:00Z")
	mock.ExpectQuery("name ILIKE").WithArgs("vegetables", "%tomato%").WillReturnRows(rows)

	out, err := repo.ListAvailable("vegetables", "tomato")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(out) != 1 || out[0].Name != "Cherry Tomatoes" {
		t.Fatalf("unexpected result %+v", out)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListByIDs(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	a := uuid.New()
	b := uuid.New()
	farmerID := uuid.New()
	rows := sqlmock.NewRows(listingRowColumns).
		AddRow(a.String(), farmerID.String(), "Eggs", nil, "dairy", "12",
			"dozen", 6, nil, true, nil, "t", "u").
		AddRow(b.String(), farmerID.String(), "Honey", nil, "other", "100",
			"piece", 2, nil, true, nil, "t", "u")
	mock.ExpectQuery("ANY").WithArgs(pq.Array([]string{a.String(), b.String()})).WillReturnRows(rows)

	out, err := repo.ListByIDs([]uuid.UUID{a, b})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(out))
	}

	// an empty id set never touches the database
	empty, err := repo.ListByIDs(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected an empty result, got %v / %v", empty, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSetQuantity_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	id := uuid.New()
	mock.ExpectExec("UPDATE produce_listings SET quantity_available").
		WithArgs(3, "2026-08-03T10:00:00Z", id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.SetQuantity(id, 3, "2026-08-03T10:00:00Z"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
