package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/alejogim/sistema-de-reserva/internal/model"
	"github.com/alejogim/sistema-de-reserva/internal/payment"
	"github.com/alejogim/sistema-de-reserva/internal/queue"
)

type mockReservations struct{ mock.Mock }

func (m *mockReservations) CreatePending(ctx context.Context, client *model.Client, res *model.Reservation) error {
	return m.Called(ctx, client, res).Error(0)
}

func (m *mockReservations) SetPaymentLink(ctx context.Context, id int64, link string) error {
	return m.Called(ctx, id, link).Error(0)
}

func (m *mockReservations) Transition(ctx context.Context, id int64, t model.Transition, ref *string) (bool, error) {
	args := m.Called(ctx, id, t, ref)
	return args.Bool(0), args.Error(1)
}

func (m *mockReservations) SetState(ctx context.Context, id int64, state model.ReservationState) error {
	return m.Called(ctx, id, state).Error(0)
}

func (m *mockReservations) GetDetail(ctx context.Context, id int64) (*model.ReservationDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*model.ReservationDetail)
	return d, args.Error(1)
}

func (m *mockReservations) ListDetails(ctx context.Context) ([]model.ReservationDetail, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.ReservationDetail)
	return out, args.Error(1)
}

func (m *mockReservations) OccupiedTimes(ctx context.Context, date string, states []model.ReservationState) ([]string, error) {
	args := m.Called(ctx, date, states)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockReservations) Stats(ctx context.Context) (model.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Stats), args.Error(1)
}

type mockServices struct{ mock.Mock }

func (m *mockServices) GetByID(ctx context.Context, id int64) (*model.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Service)
	return s, args.Error(1)
}

func (m *mockServices) ListActive(ctx context.Context) ([]model.Service, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Service)
	return out, args.Error(1)
}

func (m *mockServices) ListAll(ctx context.Context) ([]model.Service, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Service)
	return out, args.Error(1)
}

func (m *mockServices) Create(ctx context.Context, s *model.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockServices) Update(ctx context.Context, s *model.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockServices) Deactivate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockClients struct{ mock.Mock }

func (m *mockClients) ListWithCounts(ctx context.Context) ([]model.ClientSummary, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.ClientSummary)
	return out, args.Error(1)
}

type mockAdmins struct{ mock.Mock }

func (m *mockAdmins) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	args := m.Called(ctx, username)
	a, _ := args.Get(0).(*model.Admin)
	return a, args.Error(1)
}

func (m *mockAdmins) GetByID(ctx context.Context, id int64) (*model.Admin, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*model.Admin)
	return a, args.Error(1)
}

func (m *mockAdmins) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}

func (m *mockAdmins) UpdateProfile(ctx context.Context, id int64, username, email string) error {
	return m.Called(ctx, id, username, email).Error(0)
}

type mockGateway struct {
	mock.Mock
	name string
}

func (m *mockGateway) Name() string { return m.name }

func (m *mockGateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	args := m.Called(ctx, req)
	s, _ := args.Get(0).(*payment.Session)
	return s, args.Error(1)
}

func (m *mockGateway) LookupPayment(ctx context.Context, id string) (*payment.PaymentInfo, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*payment.PaymentInfo)
	return p, args.Error(1)
}

type mockPurger struct{ mock.Mock }

func (m *mockPurger) Purge(ctx context.Context) error { return m.Called(ctx).Error(0) }

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationConfirmedEvent
	err    error
}

func (p *recordingPublisher) PublishConfirmed(_ context.Context, ev queue.ReservationConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Events() []queue.ReservationConfirmedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.ReservationConfirmedEvent(nil), p.events...)
}
