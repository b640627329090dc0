package model

import "time"

// ReservationState is the lifecycle state of a reservation. The set is
// closed; anything outside it is rejected at the edges.
type ReservationState string

const (
	StatePendingPayment ReservationState = "pending_payment"
	StateConfirmed      ReservationState = "confirmed"
	StatePaymentFailed  ReservationState = "payment_failed"
	StateCancelled      ReservationState = "cancelled"
)

// AllStates lists every lifecycle state.
var AllStates = []ReservationState{StatePendingPayment, StateConfirmed, StatePaymentFailed, StateCancelled}

// Valid reports whether s belongs to the closed set of states.
func (s ReservationState) Valid() bool {
	for _, st := range AllStates {
		if s == st {
			return true
		}
	}
	return false
}

// OccupyingStates returns the states whose reservations hold their slot.
// Unpaid reservations only hold a slot when holdUnpaid is set.
func OccupyingStates(holdUnpaid bool) []ReservationState {
	states := []ReservationState{StateConfirmed, StatePaymentFailed}
	if holdUnpaid {
		states = append(states, StatePendingPayment)
	}
	return states
}

// Reservation mirrors a row of the reservations table. ServiceName and
// ServicePrice are copied from the service at booking time so later
// catalogue edits never change what a reservation owed.
type Reservation struct {
	ID                int64
	ClientID          int64
	ServiceID         int64
	Date              string // YYYY-MM-DD
	Time              string // HH:MM
	State             ReservationState
	DepositPercentage int
	Deposit           Cents
	PaymentRef        *string
	Note              string
	PaymentLink       *string
	ServiceName       string
	ServicePrice      Cents
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ReservationDetail is a reservation joined with its client, as shown to
// administrators and on the payment return pages.
type ReservationDetail struct {
	ID                int64            `json:"id"`
	ClientID          int64            `json:"client_id"`
	ServiceID         int64            `json:"service_id"`
	Date              string           `json:"date"`
	Time              string           `json:"time"`
	State             ReservationState `json:"state"`
	DepositPercentage int              `json:"deposit_percentage"`
	Deposit           Cents            `json:"deposit"`
	PaymentRef        *string          `json:"payment_ref"`
	Note              string           `json:"note"`
	PaymentLink       *string          `json:"payment_link"`
	CreatedAt         time.Time        `json:"created_at"`
	ServiceName       string           `json:"service_name"`
	ServicePrice      Cents            `json:"service_price"`
	ClientName        string           `json:"client_name"`
	ClientSurname     string           `json:"client_surname"`
	ClientEmail       string           `json:"client_email"`
	ClientPhone       string           `json:"client_phone"`
}

// Remaining is the amount still owed at the appointment.
func (d ReservationDetail) Remaining() Cents {
	if r := d.ServicePrice - d.Deposit; r > 0 {
		return r
	}
	return 0
}

// Stats aggregates the admin dashboard counters.
type Stats struct {
	TotalReservations int64 `json:"totalReservations"`
	TotalClients      int64 `json:"totalClients"`
	TotalRevenue      Cents `json:"totalRevenue"`
}
