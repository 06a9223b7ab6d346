package postgres

import (
	"context"
	"errors"

	"repairdesk/internal/models"
	"repairdesk/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the postgres SQLSTATE for duplicate keys.
const uniqueViolation = "23505"

type UserRepo struct{ db *pgxpool.Pool }

func NewUserRepo(db *pgxpool.Pool) repository.UserRepository { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, fullName, phone, login, passwordHash string, role models.Role) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (full_name, phone, login, password_hash, role)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, full_name, phone, login, role`,
		fullName, phone, login, passwordHash, role).
		Scan(&u.ID, &u.FullName, &u.Phone, &u.Login, &u.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, models.ErrDuplicateLogin
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByLogin(ctx context.Context, login string) (*models.User, string, error) {
	var u models.User
	var ph string
	err := r.db.QueryRow(ctx, `
		SELECT id, full_name, phone, login, role, password_hash
		FROM users WHERE login=$1`, login).
		Scan(&u.ID, &u.FullName, &u.Phone, &u.Login, &u.Role, &ph)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", nil
		}
		return nil, "", err
	}
	return &u, ph, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
		SELECT id, full_name, phone, login, role
		FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.FullName, &u.Phone, &u.Login, &u.Role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, full_name, phone, login, role
		FROM users
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *UserRepo) ListSpecialists(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, full_name, phone, login, role
		FROM users
		WHERE role = 'Specialist'
		ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// Delete removes the user. Dependent rows are handled by the schema's
// foreign-key actions (client tickets removed, master references nulled).
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanUsers(rows pgx.Rows) ([]models.User, error) {
	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Phone, &u.Login, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
