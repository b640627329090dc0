package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/alejogim/sistema-de-reserva/internal/model"
)

// ClientRepo stores customers. A client is identified by its email.
type ClientRepo struct {
	db *sql.DB
}

func NewClientRepo(db *sql.DB) *ClientRepo { return &ClientRepo{db: db} }

// NormalizeEmail lower-cases and trims an email so equal addresses map to
// the same client.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// GetByEmail returns the client registered with email.
func (r *ClientRepo) GetByEmail(ctx context.Context, email string) (*model.Client, error) {
	var c model.Client
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, surname, email, phone, registered_at FROM clients WHERE email = ?`,
		NormalizeEmail(email)).Scan(&c.ID, &c.Name, &c.Surname, &c.Email, &c.Phone, &c.RegisteredAt)
	if err != nil {
		return nil, lookupErr("client "+NormalizeEmail(email), "get client by email", err)
	}
	return &c, nil
}

// FindOrCreateTx returns the id of the client with c.Email, inserting c
// when no such client exists. An existing client keeps its stored contact
// details. c.ID is set either way.
func (r *ClientRepo) FindOrCreateTx(ctx context.Context, tx *sql.Tx, c *model.Client) (int64, error) {
	c.Email = NormalizeEmail(c.Email)
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM clients WHERE email = ?`, c.Email).Scan(&id)
	switch {
	case err == nil:
		c.ID = id
		return id, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, wrapErr("find client", err)
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO clients (name, surname, email, phone) VALUES (?, ?, ?, ?)`,
		strings.TrimSpace(c.Name), strings.TrimSpace(c.Surname), c.Email, strings.TrimSpace(c.Phone))
	if err != nil {
		return 0, wrapErr("create client", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, wrapErr("create client", err)
	}
	c.ID = id
	return id, nil
}

// ListWithCounts returns every client with its number of reservations,
// most recently registered first.
func (r *ClientRepo) ListWithCounts(ctx context.Context) ([]model.ClientSummary, error) {
	const q = `SELECT c.id, c.name, c.surname, c.email, c.phone, c.registered_at, COUNT(r.id)
	           FROM clients c
	           LEFT JOIN reservations r ON r.client_id = c.id
	           GROUP BY c.id, c.name, c.surname, c.email, c.phone, c.registered_at
	           ORDER BY c.registered_at DESC, c.id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, wrapErr("list clients", err)
	}
	defer rows.Close()
	out := []model.ClientSummary{}
	for rows.Next() {
		var s model.ClientSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Surname, &s.Email, &s.Phone, &s.RegisteredAt, &s.TotalReservations); err != nil {
			return nil, wrapErr("scan client", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list clients", err)
	}
	return out, nil
}
