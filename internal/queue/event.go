// Package queue carries reservation events over RabbitMQ.
package queue

// ConfirmedQueue is the durable queue receiving ReservationConfirmedEvent.
const ConfirmedQueue = "reservation.confirmed"

// ReservationConfirmedEvent is published whenever a reservation enters the
// confirmed state. It holds enough for consumers to log or notify without
// reading the database.
type ReservationConfirmedEvent struct {
	ReservationID int64  `json:"reservation_id"`
	ClientEmail   string `json:"client_email"`
	ClientName    string `json:"client_name"`
	ServiceName   string `json:"service_name"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	DepositCents  int64  `json:"deposit_cents"`
	PaymentRef    string `json:"payment_ref,omitempty"`
	Source        string `json:"source"` // return, webhook or admin
	ConfirmedAt   string `json:"confirmed_at"`
}
