// Package ports declares what the service layer needs from storage and
// messaging. The repository and queue packages satisfy these interfaces;
// tests substitute mocks.
package ports

import (
	"context"

	"github.com/alejogim/sistema-de-reserva/internal/model"
	"github.com/alejogim/sistema-de-reserva/internal/queue"
)

type ReservationStore interface {
	CreatePending(ctx context.Context, client *model.Client, res *model.Reservation) error
	SetPaymentLink(ctx context.Context, id int64, link string) error
	Transition(ctx context.Context, id int64, t model.Transition, paymentRef *string) (bool, error)
	SetState(ctx context.Context, id int64, state model.ReservationState) error
	GetDetail(ctx context.Context, id int64) (*model.ReservationDetail, error)
	ListDetails(ctx context.Context) ([]model.ReservationDetail, error)
	OccupiedTimes(ctx context.Context, date string, states []model.ReservationState) ([]string, error)
	Stats(ctx context.Context) (model.Stats, error)
}

type ServiceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Service, error)
	ListActive(ctx context.Context) ([]model.Service, error)
	ListAll(ctx context.Context) ([]model.Service, error)
	Create(ctx context.Context, s *model.Service) error
	Update(ctx context.Context, s *model.Service) error
	Deactivate(ctx context.Context, id int64) error
}

type ClientStore interface {
	ListWithCounts(ctx context.Context) ([]model.ClientSummary, error)
}

type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	GetByID(ctx context.Context, id int64) (*model.Admin, error)
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateProfile(ctx context.Context, id int64, username, email string) error
}

// ConfirmationPublisher is told about every reservation that becomes
// confirmed.
type ConfirmationPublisher interface {
	PublishConfirmed(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

// CachePurger drops cached public responses after catalogue changes.
type CachePurger interface {
	Purge(ctx context.Context) error
}
