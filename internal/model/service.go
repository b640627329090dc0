package model

import "time"

// Service is a bookable offering. Services are never deleted; Active=false
// hides them from customers while keeping past reservations intact.
type Service struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       Cents     `json:"price"`
	DurationMin int       `json:"duration"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}
