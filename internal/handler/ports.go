package handler

import (
	"context"

	"github.com/alejogim/sistema-de-reserva/internal/model"
	"github.com/alejogim/sistema-de-reserva/internal/payment"
	"github.com/alejogim/sistema-de-reserva/internal/service"
)

// Booker is the booking lifecycle used by public, payment and admin
// handlers. *service.BookingService implements it.
type Booker interface {
	CreateBooking(ctx context.Context, in service.BookingInput) (*service.BookingResult, error)
	Availability(ctx context.Context, date string) ([]string, error)
	CompletePayment(ctx context.Context, reservationID int64, paymentRef string) (*model.ReservationDetail, error)
	FailPayment(ctx context.Context, reservationID int64) (*model.ReservationDetail, error)
	PendingPayment(ctx context.Context, reservationID int64) (*model.ReservationDetail, error)
	HandleWebhook(ctx context.Context, provider string, n payment.Notification) error
	SetState(ctx context.Context, id int64, state model.ReservationState) error
	ListReservations(ctx context.Context) ([]model.ReservationDetail, error)
	Stats(ctx context.Context) (model.Stats, error)
}

// Catalog manages services and clients. *service.CatalogService
// implements it.
type Catalog interface {
	ListActive(ctx context.Context) ([]model.Service, error)
	ListAll(ctx context.Context) ([]model.Service, error)
	Get(ctx context.Context, id int64) (*model.Service, error)
	Create(ctx context.Context, in service.ServiceInput) (*model.Service, error)
	Update(ctx context.Context, id int64, in service.ServiceInput) (*model.Service, error)
	Deactivate(ctx context.Context, id int64) error
	ListClients(ctx context.Context) ([]model.ClientSummary, error)
}

// Accounts is the admin account service. *service.AdminService implements
// it.
type Accounts interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Profile(ctx context.Context, adminID int64) (model.Profile, error)
	UpdateProfile(ctx context.Context, adminID int64, username, email string) (model.Profile, error)
	ChangePassword(ctx context.Context, adminID int64, current, next string) error
}

// WebhookParser authenticates and decodes a signed provider webhook.
// *payment.Stripe implements it.
type WebhookParser interface {
	ParseWebhook(payload []byte, signature string) (payment.Notification, error)
}
