package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alejogim/sistema-de-reserva/internal/model"
)

// AdminRepo stores panel operators.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

// GetByUsername fetches an admin by exact username.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, email FROM admins WHERE username = ? LIMIT 1",
		strings.TrimSpace(username)).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Email)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("admin %q", username), "get admin by username", err)
	}
	return &a, nil
}

// GetByID fetches an admin by id.
func (r *AdminRepo) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	var a model.Admin
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, username, password_hash, email FROM admins WHERE id = ? LIMIT 1",
		id).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.Email)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("admin %d", id), "get admin", err)
	}
	return &a, nil
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *AdminRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE admins SET password_hash = ? WHERE id = ?", hash, id)
	return affectedOne(fmt.Sprintf("admin %d", id), "update admin password", res, err)
}

// UpdateProfile changes username and email. It fails with
// model.ErrConflict when another admin already uses either value.
func (r *AdminRepo) UpdateProfile(ctx context.Context, id int64, username, email string) error {
	var taken int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM admins WHERE (username = ? OR email = ?) AND id <> ?",
		username, email, id).Scan(&taken)
	if err != nil {
		return wrapErr("check admin profile", err)
	}
	if taken > 0 {
		return fmt.Errorf("%w: username or email already in use", model.ErrConflict)
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE admins SET username = ?, email = ? WHERE id = ?", username, email, id)
	return affectedOne(fmt.Sprintf("admin %d", id), "update admin profile", res, err)
}
