package user

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const userColumns = `user_id, email, password, full_name, phone, location, avatar_url, role, created_at, updated_at`

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	var phone, location, createdAt, updatedAt sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.FullName, &phone, &location, &u.AvatarURL, &u.Role, &createdAt, &updatedAt)
	if err != nil {
		return User{}, err
	}
	u.Phone = phone.String
	u.Location = location.String
	u.CreatedAt = createdAt.String
	u.UpdatedAt = updatedAt.String
	return u, nil
}

func (r *PostgresRepository) GetByID(id uuid.UUID) (User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE user_id = $1`, id))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) GetByEmail(email string) (User, error) {
	u, err := scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	return u, err
}

func (r *PostgresRepository) ListByIDs(ids []uuid.UUID) ([]User, error) {
	if len(ids) == 0 {
		return []User{}, nil
	}

	strIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		strIDs = append(strIDs, id.String())
	}

	rows, err := r.db.Query(`SELECT `+userColumns+` FROM users WHERE user_id = ANY($1::uuid[])`, pq.Array(strIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0, len(ids))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(u User) (User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	_, err := r.db.Exec(`INSERT INTO users (user_id, email, password, full_name, phone, location, avatar_url, role, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		u.ID, u.Email, u.Password, u.FullName, u.Phone, u.Location, u.AvatarURL, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepository) Update(id uuid.UUID, update User) (User, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return User{}, err
	}

	existing.FullName = update.FullName
	existing.Phone = update.Phone
	existing.Location = update.Location
	existing.AvatarURL = update.AvatarURL
	if update.Password != "" {
		existing.Password = update.Password
	}
	if update.UpdatedAt != "" {
		existing.UpdatedAt = update.UpdatedAt
	}

	_, err = r.db.Exec(`UPDATE users SET full_name=$1, phone=$2, location=$3, avatar_url=$4, password=$5, updated_at=$6 WHERE user_id=$7`,
		existing.FullName, existing.Phone, existing.Location, existing.AvatarURL, existing.Password, existing.UpdatedAt, id)
	if err != nil {
		return User{}, err
	}
	return existing, nil
}
