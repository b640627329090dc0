package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alejogim/sistema-de-reserva/internal/model"
)

// ServiceRepo stores the service catalogue. Services are soft deleted.
type ServiceRepo struct {
	db *sql.DB
}

// NewServiceRepo returns a ServiceRepo bound to db.
func NewServiceRepo(db *sql.DB) *ServiceRepo { return &ServiceRepo{db: db} }

const serviceColumns = `id, name, description, price_cents, duration_min, active, created_at`

func scanService(row interface{ Scan(...any) error }) (model.Service, error) {
	var s model.Service
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.DurationMin, &s.Active, &s.CreatedAt)
	return s, err
}

// GetByID returns the service with id, active or not.
func (r *ServiceRepo) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	s, err := scanService(row)
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("service %d", id), "get service", err)
	}
	return &s, nil
}

// ListActive returns the services customers may book, by name.
func (r *ServiceRepo) ListActive(ctx context.Context) ([]model.Service, error) {
	return r.list(ctx, `SELECT `+serviceColumns+` FROM services WHERE active = 1 ORDER BY name ASC, id ASC`)
}

// ListAll returns every service, active ones first.
func (r *ServiceRepo) ListAll(ctx context.Context) ([]model.Service, error) {
	return r.list(ctx, `SELECT `+serviceColumns+` FROM services ORDER BY active DESC, name ASC, id ASC`)
}

func (r *ServiceRepo) list(ctx context.Context, q string) ([]model.Service, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, wrapErr("list services", err)
	}
	defer rows.Close()
	out := []model.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, wrapErr("scan service", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list services", err)
	}
	return out, nil
}

// Create inserts s as an active service and fills in its ID.
func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO services (name, description, price_cents, duration_min, active) VALUES (?, ?, ?, ?, 1)`,
		s.Name, s.Description, s.Price, s.DurationMin)
	if err != nil {
		return wrapErr("create service", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return wrapErr("create service", err)
	}
	s.ID = id
	s.Active = true
	return nil
}

// Update overwrites name, description, price, duration and active flag.
// Existing reservations keep the name and price they were booked with.
func (r *ServiceRepo) Update(ctx context.Context, s *model.Service) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE services SET name = ?, description = ?, price_cents = ?, duration_min = ?, active = ? WHERE id = ?`,
		s.Name, s.Description, s.Price, s.DurationMin, s.Active, s.ID)
	return affectedOne(fmt.Sprintf("service %d", s.ID), "update service", res, err)
}

// Deactivate hides a service from customers without deleting it.
func (r *ServiceRepo) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE services SET active = 0 WHERE id = ?`, id)
	return affectedOne(fmt.Sprintf("service %d", id), "deactivate service", res, err)
}

// affectedOne maps a zero-row update to a model.NotFoundError naming what.
func affectedOne(what, op string, res sql.Result, err error) error {
	if err != nil {
		return wrapErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if n == 0 {
		return lookupErr(what, op, sql.ErrNoRows)
	}
	return nil
}
