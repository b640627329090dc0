package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejogim/sistema-de-reserva/internal/model"
)

// ReservationRepo stores reservations. State changes coming from payment
// outcomes go through Transition, which only moves rows that are in one of
// the allowed source states; admin overrides use SetState.
type ReservationRepo struct {
	db      *sql.DB
	clients *ClientRepo
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db, clients: NewClientRepo(db)}
}

// CreatePending resolves or creates the client and inserts res in state
// pending_payment, both in one transaction. res.ID and res.ClientID are
// filled in on success.
func (r *ReservationRepo) CreatePending(ctx context.Context, client *model.Client, res *model.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr("begin booking", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	clientID, err := r.clients.FindOrCreateTx(ctx, tx, client)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	res.ClientID = clientID
	res.State = model.StatePendingPayment
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations
		   (client_id, service_id, slot_date, slot_time, state, deposit_percentage, deposit_cents,
		    note, service_name, service_price_cents, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ClientID, res.ServiceID, res.Date, res.Time, res.State, res.DepositPercentage, res.Deposit,
		res.Note, res.ServiceName, res.ServicePrice, now, now)
	if err != nil {
		return wrapErr("create reservation", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return wrapErr("create reservation", err)
	}

	if err := tx.Commit(); err != nil {
		return wrapErr("commit booking", err)
	}
	committed = true
	res.ID = id
	res.CreatedAt = now
	res.UpdatedAt = now
	return nil
}

// SetPaymentLink stores the provider redirect URL of a reservation.
func (r *ReservationRepo) SetPaymentLink(ctx context.Context, id int64, link string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET payment_link = ?, updated_at = ? WHERE id = ?`,
		link, time.Now().UTC(), id)
	return affectedOne(fmt.Sprintf("reservation %d", id), "set payment link", res, err)
}

// Transition moves reservation id to t.To when its current state is one of
// t.From, recording paymentRef when it is non-nil. The check and the write
// are one statement, so concurrent callbacks resolve by the transition
// rules instead of by arrival order. It reports whether the row changed.
func (r *ReservationRepo) Transition(ctx context.Context, id int64, t model.Transition, paymentRef *string) (bool, error) {
	if len(t.From) == 0 {
		return false, nil
	}
	args := make([]any, 0, 4+len(t.From))
	args = append(args, t.To, paymentRef, time.Now().UTC(), id)
	for _, s := range t.From {
		args = append(args, s)
	}
	q := `UPDATE reservations
	      SET state = ?, payment_ref = COALESCE(?, payment_ref), updated_at = ?
	      WHERE id = ? AND state IN (` + placeholders(len(t.From)) + `)`
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, wrapErr(fmt.Sprintf("transition reservation %d", id), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, wrapErr(fmt.Sprintf("transition reservation %d", id), err)
	}
	return n > 0, nil
}

// SetState unconditionally sets the state of a reservation.
func (r *ReservationRepo) SetState(ctx context.Context, id int64, state model.ReservationState) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET state = ?, updated_at = ? WHERE id = ?`,
		state, time.Now().UTC(), id)
	return affectedOne(fmt.Sprintf("reservation %d", id), "set state", res, err)
}

const detailQuery = `SELECT r.id, r.client_id, r.service_id, r.slot_date, r.slot_time, r.state,
                            r.deposit_percentage, r.deposit_cents, r.payment_ref, r.note, r.payment_link,
                            r.created_at, r.service_name, r.service_price_cents,
                            c.name, c.surname, c.email, c.phone
                     FROM reservations r
                     JOIN clients c ON c.id = r.client_id`

func scanDetail(row interface{ Scan(...any) error }) (model.ReservationDetail, error) {
	var (
		d          model.ReservationDetail
		paymentRef sql.NullString
		link       sql.NullString
	)
	err := row.Scan(&d.ID, &d.ClientID, &d.ServiceID, &d.Date, &d.Time, &d.State,
		&d.DepositPercentage, &d.Deposit, &paymentRef, &d.Note, &link,
		&d.CreatedAt, &d.ServiceName, &d.ServicePrice,
		&d.ClientName, &d.ClientSurname, &d.ClientEmail, &d.ClientPhone)
	if err != nil {
		return d, err
	}
	if paymentRef.Valid {
		v := paymentRef.String
		d.PaymentRef = &v
	}
	if link.Valid {
		v := link.String
		d.PaymentLink = &v
	}
	return d, nil
}

// GetDetail returns a reservation joined with its client.
func (r *ReservationRepo) GetDetail(ctx context.Context, id int64) (*model.ReservationDetail, error) {
	d, err := scanDetail(r.db.QueryRowContext(ctx, detailQuery+` WHERE r.id = ?`, id))
	if err != nil {
		return nil, lookupErr(fmt.Sprintf("reservation %d", id), "get reservation", err)
	}
	return &d, nil
}

// ListDetails returns all reservations, latest appointment first.
func (r *ReservationRepo) ListDetails(ctx context.Context) ([]model.ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailQuery+` ORDER BY r.slot_date DESC, r.slot_time DESC, r.id DESC`)
	if err != nil {
		return nil, wrapErr("list reservations", err)
	}
	defer rows.Close()
	out := []model.ReservationDetail{}
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, wrapErr("scan reservation", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list reservations", err)
	}
	return out, nil
}

// OccupiedTimes returns the slot times booked on date by reservations in
// one of states.
func (r *ReservationRepo) OccupiedTimes(ctx context.Context, date string, states []model.ReservationState) ([]string, error) {
	if len(states) == 0 {
		return []string{}, nil
	}
	args := make([]any, 0, 1+len(states))
	args = append(args, date)
	for _, s := range states {
		args = append(args, s)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT slot_time FROM reservations WHERE slot_date = ? AND state IN (`+placeholders(len(states))+`)`,
		args...)
	if err != nil {
		return nil, wrapErr("occupied slots", err)
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, wrapErr("scan slot", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("occupied slots", err)
	}
	return out, nil
}

// Stats counts reservations and clients and sums the deposits of confirmed
// reservations.
func (r *ReservationRepo) Stats(ctx context.Context) (model.Stats, error) {
	var s model.Stats
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&s.TotalReservations); err != nil {
		return s, wrapErr("count reservations", err)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&s.TotalClients); err != nil {
		return s, wrapErr("count clients", err)
	}
	var revenue int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(deposit_cents), 0) FROM reservations WHERE state = ?`,
		model.StateConfirmed).Scan(&revenue); err != nil {
		return s, wrapErr("sum revenue", err)
	}
	s.TotalRevenue = model.Cents(revenue)
	return s, nil
}
