package listing

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const listingColumns = `listing_id, farmer_id, name, description, category, price_per_unit, unit, quantity_available, image_url, is_available, harvest_date, created_at, updated_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanListing(row interface{ Scan(...any) error }) (Listing, error) {
	var l Listing
	var createdAt, updatedAt sql.NullString
	err := row.Scan(&l.ID, &l.FarmerID, &l.Name, &l.Description, &l.Category, &l.PricePerUnit,
		&l.Unit, &l.QuantityAvailable, &l.ImageURL, &l.IsAvailable, &l.HarvestDate, &createdAt, &updatedAt)
	if err != nil {
		return Listing{}, err
	}
	l.CreatedAt = createdAt.String
	l.UpdatedAt = updatedAt.String
	return l, nil
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (Listing, error) {
	l, err := scanListing(r.db.QueryRow(`SELECT `+listingColumns+` FROM produce_listings WHERE listing_id = $1`, id))
	if err == sql.ErrNoRows {
		return Listing{}, ErrNotFound
	}
	return l, err
}

func (r *PostgresRepository) ListByIDs(ids []uuid.UUID) ([]Listing, error) {
	if len(ids) == 0 {
		return []Listing{}, nil
	}

	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}

	rows, err := r.db.Query(`SELECT `+listingColumns+` FROM produce_listings WHERE listing_id = ANY($1::uuid[])`, pq.Array(strIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

func (r *PostgresRepository) ListByFarmer(farmerID uuid.UUID) ([]Listing, error) {
	rows, err := r.db.Query(`SELECT `+listingColumns+` FROM produce_listings WHERE farmer_id = $1 ORDER BY created_at DESC`, farmerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

func (r *PostgresRepository) ListAvailable(category, search string) ([]Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM produce_listings
        WHERE is_available = TRUE AND quantity_available > 0`
	args := []any{}
	if category != "" {
		args = append(args, category)
		query += ` AND category = $1`
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		if len(args) == 2 {
			query += ` AND name ILIKE $2`
		} else {
			query += ` AND name ILIKE $1`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectListings(rows)
}

func (r *PostgresRepository) Categories() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT category FROM produce_listings WHERE is_available = TRUE ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(l Listing) (Listing, error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	_, err := r.db.Exec(`INSERT INTO produce_listings (listing_id, farmer_id, name, description, category, price_per_unit, unit, quantity_available, image_url, is_available, harvest_date, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		l.ID, l.FarmerID, l.Name, l.Description, l.Category, l.PricePerUnit, l.Unit,
		l.QuantityAvailable, l.ImageURL, l.IsAvailable, l.HarvestDate, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return Listing{}, err
	}
	return l, nil
}

func (r *PostgresRepository) Update(l Listing) (Listing, error) {
	res, err := r.db.Exec(`UPDATE produce_listings SET name=$1, description=$2, category=$3, price_per_unit=$4, unit=$5, quantity_available=$6, image_url=$7, is_available=$8, harvest_date=$9, updated_at=$10
        WHERE listing_id=$11`,
		l.Name, l.Description, l.Category, l.PricePerUnit, l.Unit, l.QuantityAvailable,
		l.ImageURL, l.IsAvailable, l.HarvestDate, l.UpdatedAt, l.ID)
	if err != nil {
		return Listing{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Listing{}, ErrNotFound
	}
	return l, nil
}

func (r *PostgresRepository) Delete(id uuid.UUID) error {
	res, err := r.db.Exec(`DELETE FROM produce_listings WHERE listing_id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetQuantity(id uuid.UUID, qty int, updatedAt string) error {
	res, err := r.db.Exec(`UPDATE produce_listings SET quantity_available = $1, updated_at = $2 WHERE listing_id = $3`, qty, updatedAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectListings(rows *sql.Rows) ([]Listing, error) {
	out := make([]Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
