package model

import "time"

// Client is a customer, identified by a unique lower-cased email.
type Client struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ClientSummary is a client with the number of reservations it made.
type ClientSummary struct {
	Client
	TotalReservations int64 `json:"total_reservations"`
}
