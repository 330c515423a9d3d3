package order

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const orderColumns = `order_id, buyer_id, farmer_id, total_amount, status, delivery_address, notes, created_at, updated_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create writes the order and its items in one transaction so a rejected
// item insert never leaves a bare order behind.
func (r *PostgresRepository) Create(ord Order, items []OrderItem) (Order, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer tx.Rollback()

	if ord.ID == uuid.Nil {
		ord.ID = uuid.New()
	}

	_, err = tx.Exec(`INSERT INTO orders (order_id, buyer_id, farmer_id, total_amount, status, delivery_address, notes, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		ord.ID, ord.BuyerID, ord.FarmerID, ord.TotalAmount, ord.Status,
		ord.DeliveryAddress, ord.Notes, ord.CreatedAt, ord.UpdatedAt)
	if err != nil {
		return Order{}, err
	}

	for _, item := range items {
		_, err = tx.Exec(`INSERT INTO order_items (order_item_id, order_id, listing_id, quantity, price_per_unit, total_price)
            VALUES ($1,$2,$3,$4,$5,$6)`,
			item.ID, item.OrderID, item.ListingID, item.Quantity, item.PricePerUnit, item.TotalPrice)
		if err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var ord Order
	var createdAt, updatedAt sql.NullString
	err := row.Scan(&ord.ID, &ord.BuyerID, &ord.FarmerID, &ord.TotalAmount, &ord.Status,
		&ord.DeliveryAddress, &ord.Notes, &createdAt, &updatedAt)
	if err != nil {
		return Order{}, err
	}
	ord.CreatedAt = createdAt.String
	ord.UpdatedAt = updatedAt.String
	return ord, nil
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (Order, error) {
	ord, err := scanOrder(r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE order_id = $1`, id))
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return ord, err
}

func (r *PostgresRepository) ListByBuyer(buyerID uuid.UUID) ([]Order, error) {
	return r.listBy(`buyer_id`, buyerID)
}

func (r *PostgresRepository) ListByFarmer(farmerID uuid.UUID) ([]Order, error) {
	return r.listBy(`farmer_id`, farmerID)
}

func (r *PostgresRepository) listBy(column string, id uuid.UUID) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE `+column+` = $1 ORDER BY created_at DESC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) ListItems(orderIDs []uuid.UUID) ([]OrderItem, error) {
	if len(orderIDs) == 0 {
		return []OrderItem{}, nil
	}

	strIDs := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		strIDs = append(strIDs, id.String())
	}

	rows, err := r.db.Query(`SELECT order_item_id, order_id, listing_id, quantity, price_per_unit, total_price
        FROM order_items WHERE order_id = ANY($1::uuid[])`, pq.Array(strIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OrderItem, 0)
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ListingID, &item.Quantity, &item.PricePerUnit, &item.TotalPrice); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(id uuid.UUID, status Status, updatedAt string) error {
	res, err := r.db.Exec(`UPDATE orders SET status = $1, updated_at = $2 WHERE order_id = $3`, status, updatedAt, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
