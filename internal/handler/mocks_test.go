package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/alejogim/sistema-de-reserva/internal/model"
	"github.com/alejogim/sistema-de-reserva/internal/payment"
	"github.com/alejogim/sistema-de-reserva/internal/service"
)

type mockBooker struct{ mock.Mock }

func (m *mockBooker) CreateBooking(ctx context.Context, in service.BookingInput) (*service.BookingResult, error) {
	args := m.Called(ctx, in)
	r, _ := args.Get(0).(*service.BookingResult)
	return r, args.Error(1)
}

func (m *mockBooker) Availability(ctx context.Context, date string) ([]string, error) {
	args := m.Called(ctx, date)
	out, _ := args.Get(0).([]string)
	return out, args.Error(1)
}

func (m *mockBooker) CompletePayment(ctx context.Context, id int64, ref string) (*model.ReservationDetail, error) {
	args := m.Called(ctx, id, ref)
	d, _ := args.Get(0).(*model.ReservationDetail)
	return d, args.Error(1)
}

func (m *mockBooker) FailPayment(ctx context.Context, id int64) (*model.ReservationDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*model.ReservationDetail)
	return d, args.Error(1)
}

func (m *mockBooker) PendingPayment(ctx context.Context, id int64) (*model.ReservationDetail, error) {
	args := m.Called(ctx, id)
	d, _ := args.Get(0).(*model.ReservationDetail)
	return d, args.Error(1)
}

func (m *mockBooker) HandleWebhook(ctx context.Context, provider string, n payment.Notification) error {
	return m.Called(ctx, provider, n).Error(0)
}

func (m *mockBooker) SetState(ctx context.Context, id int64, state model.ReservationState) error {
	return m.Called(ctx, id, state).Error(0)
}

func (m *mockBooker) ListReservations(ctx context.Context) ([]model.ReservationDetail, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.ReservationDetail)
	return out, args.Error(1)
}

func (m *mockBooker) Stats(ctx context.Context) (model.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Stats), args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) ListActive(ctx context.Context) ([]model.Service, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Service)
	return out, args.Error(1)
}

func (m *mockCatalog) ListAll(ctx context.Context) ([]model.Service, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.Service)
	return out, args.Error(1)
}

func (m *mockCatalog) Get(ctx context.Context, id int64) (*model.Service, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Service)
	return s, args.Error(1)
}

func (m *mockCatalog) Create(ctx context.Context, in service.ServiceInput) (*model.Service, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(*model.Service)
	return s, args.Error(1)
}

func (m *mockCatalog) Update(ctx context.Context, id int64, in service.ServiceInput) (*model.Service, error) {
	args := m.Called(ctx, id, in)
	s, _ := args.Get(0).(*model.Service)
	return s, args.Error(1)
}

func (m *mockCatalog) Deactivate(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalog) ListClients(ctx context.Context) ([]model.ClientSummary, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]model.ClientSummary)
	return out, args.Error(1)
}

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) Login(ctx context.Context, username, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	r, _ := args.Get(0).(*service.LoginResult)
	return r, args.Error(1)
}

func (m *mockAccounts) Profile(ctx context.Context, adminID int64) (model.Profile, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *mockAccounts) UpdateProfile(ctx context.Context, adminID int64, username, email string) (model.Profile, error) {
	args := m.Called(ctx, adminID, username, email)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *mockAccounts) ChangePassword(ctx context.Context, adminID int64, current, next string) error {
	return m.Called(ctx, adminID, current, next).Error(0)
}

type mockParser struct{ mock.Mock }

func (m *mockParser) ParseWebhook(payload []byte, signature string) (payment.Notification, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(payment.Notification), args.Error(1)
}
