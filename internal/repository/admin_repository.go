package repository

import (
	"context"
	"errors"

	"github.com/examhall/examhall-backend/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateUsername is returned when an admin username is taken.
var ErrDuplicateUsername = errors.New("admin with this username already exists")

// AdminRepository handles administrator account data access.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// GetByID retrieves an admin by id.
func (r *AdminRepository) GetByID(ctx context.Context, id int) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at FROM admins WHERE id = $1`, id,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByUsername retrieves an admin by username.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	a := &model.Admin{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at FROM admins WHERE username = $1`, username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List retrieves all admins ordered by username.
func (r *AdminRepository) List(ctx context.Context) ([]model.Admin, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, password_hash, role, created_at FROM admins ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		var a model.Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Role, &a.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// Create inserts a new admin account.
func (r *AdminRepository) Create(ctx context.Context, a *model.Admin) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO admins (username, password_hash, role)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		a.Username, a.PasswordHash, a.Role,
	).Scan(&a.ID, &a.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}

// Delete removes an admin by id.
func (r *AdminRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
	return err
}

// CountSuperadmins returns the number of superadmin accounts.
func (r *AdminRepository) CountSuperadmins(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM admins WHERE role = $1`, model.RoleSuperadmin,
	).Scan(&count)
	return count, err
}
