// Package service holds the booking, catalogue and admin use cases. It
// depends on storage and messaging only through the ports package.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alejogim/sistema-de-reserva/internal/availability"
	"github.com/alejogim/sistema-de-reserva/internal/model"
	"github.com/alejogim/sistema-de-reserva/internal/payment"
	"github.com/alejogim/sistema-de-reserva/internal/queue"
	"github.com/alejogim/sistema-de-reserva/internal/service/ports"
)

const dateLayout = "2006-01-02"

// Confirmation sources carried on published events.
const (
	SourceReturn  = "return"
	SourceWebhook = "webhook"
	SourceAdmin   = "admin"
)

// Customer facing booking messages.
const (
	MsgCompletePayment = "Reserva creada. Completa el pago para confirmar."
	MsgNoGateway       = "Reserva creada. Pago en línea no configurado."
	MsgGatewayFailed   = "Reserva creada. Contacta para coordinar el pago."

	advisoryNoGateway     = "El pago en línea no está configurado"
	advisoryGatewayFailed = "Error al generar link de pago"
)

// BookingConfig tunes the booking service.
type BookingConfig struct {
	BaseURL        string
	Currency       string
	HoldUnpaid     bool
	GatewayTimeout time.Duration
}

// BookingInput is a customer booking request.
type BookingInput struct {
	Name              string
	Surname           string
	Email             string
	Phone             string
	ServiceID         int64
	Date              string
	Time              string
	DepositPercentage int
	Note              string
}

// BookingResult is returned for every persisted booking, including those
// whose payment session could not be created. Advisory is set in that case.
type BookingResult struct {
	ReservationID int64
	Amount        model.Cents
	PaymentLink   *string
	Message       string
	Advisory      string
	ServiceName   string
	Date          string
	Time          string
}

// BookingService runs the reservation lifecycle: booking, payment
// reconciliation and admin overrides.
type BookingService struct {
	reservations ports.ReservationStore
	services     ports.ServiceStore
	gateway      payment.Gateway // nil when payments are arranged manually
	publisher    ports.ConfirmationPublisher
	log          *zap.Logger
	cfg          BookingConfig

	inflight sync.WaitGroup
}

func NewBookingService(
	reservations ports.ReservationStore,
	services ports.ServiceStore,
	gateway payment.Gateway,
	publisher ports.ConfirmationPublisher,
	log *zap.Logger,
	cfg BookingConfig,
) *BookingService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	if cfg.Currency == "" {
		cfg.Currency = "ARS"
	}
	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = 5 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &BookingService{
		reservations: reservations,
		services:     services,
		gateway:      gateway,
		publisher:    publisher,
		log:          log,
		cfg:          cfg,
	}
}

// Wait blocks until every confirmation event in flight has been handed to
// the publisher.
func (s *BookingService) Wait() { s.inflight.Wait() }

func (in BookingInput) validate() (BookingInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Note = strings.TrimSpace(in.Note)

	if in.Name == "" || in.Surname == "" || in.Email == "" || in.Phone == "" {
		return in, fmt.Errorf("%w: name, surname, email and phone are required", model.ErrValidation)
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return in, fmt.Errorf("%w: invalid email", model.ErrValidation)
	}
	if in.ServiceID <= 0 {
		return in, fmt.Errorf("%w: invalid service id", model.ErrValidation)
	}
	if err := validateDate(in.Date); err != nil {
		return in, err
	}
	slot, ok := availability.Normalize(in.Time)
	if !ok {
		return in, fmt.Errorf("%w: %q is not a bookable time", model.ErrValidation, in.Time)
	}
	in.Time = slot
	if in.DepositPercentage < 0 || in.DepositPercentage > 100 {
		return in, fmt.Errorf("%w: deposit percentage must be between 0 and 100", model.ErrValidation)
	}
	return in, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", model.ErrValidation)
	}
	return nil
}

// CreateBooking validates the request, persists the client and a
// pending_payment reservation, and opens a payment session for the
// deposit. A gateway failure never undoes the reservation; the result
// then carries no link and an advisory.
func (s *BookingService) CreateBooking(ctx context.Context, in BookingInput) (*BookingResult, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}

	svc, err := s.services.GetByID(ctx, in.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("load service: %w", err)
	}
	if !svc.Active {
		return nil, &model.NotFoundError{What: fmt.Sprintf("service %d", in.ServiceID)}
	}

	occupied, err := s.reservations.OccupiedTimes(ctx, in.Date, model.OccupyingStates(s.cfg.HoldUnpaid))
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	for _, t := range occupied {
		if t == in.Time {
			return nil, fmt.Errorf("%w: %s %s", model.ErrSlotTaken, in.Date, in.Time)
		}
	}

	client := &model.Client{Name: in.Name, Surname: in.Surname, Email: in.Email, Phone: in.Phone}
	res := &model.Reservation{
		ServiceID:         svc.ID,
		Date:              in.Date,
		Time:              in.Time,
		DepositPercentage: in.DepositPercentage,
		Deposit:           svc.Price.Percent(in.DepositPercentage),
		Note:              in.Note,
		ServiceName:       svc.Name,
		ServicePrice:      svc.Price,
	}
	if err := s.reservations.CreatePending(ctx, client, res); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	s.log.Info("reservation created",
		zap.Int64("reservation_id", res.ID),
		zap.Int64("client_id", res.ClientID),
		zap.String("service", svc.Name),
		zap.String("date", res.Date),
		zap.String("time", res.Time),
		zap.String("deposit", res.Deposit.String()),
	)

	out := &BookingResult{
		ReservationID: res.ID,
		Amount:        res.Deposit,
		ServiceName:   svc.Name,
		Date:          res.Date,
		Time:          res.Time,
	}

	if s.gateway == nil {
		out.Message = MsgNoGateway
		out.Advisory = advisoryNoGateway
		return out, nil
	}

	link, err := s.openSession(ctx, res, client)
	if err != nil {
		s.log.Warn("payment session failed, reservation kept",
			zap.Int64("reservation_id", res.ID),
			zap.String("provider", s.gateway.Name()),
			zap.Error(err),
		)
		out.Message = MsgGatewayFailed
		out.Advisory = advisoryGatewayFailed
		return out, nil
	}
	out.PaymentLink = &link
	out.Message = MsgCompletePayment
	return out, nil
}

func (s *BookingService) openSession(ctx context.Context, res *model.Reservation, client *model.Client) (string, error) {
	success, failure, pending := payment.ReturnURLs(s.cfg.BaseURL, res.ID)
	req := payment.SessionRequest{
		ReservationID: res.ID,
		Title:         res.ServiceName,
		Description:   fmt.Sprintf("Reserva para %s a las %s", res.Date, res.Time),
		Amount:        res.Deposit,
		Currency:      s.cfg.Currency,
		PayerName:     client.Name,
		PayerSurname:  client.Surname,
		PayerEmail:    client.Email,
		SuccessURL:    success,
		FailureURL:    failure,
		PendingURL:    pending,
	}

	cctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	defer cancel()
	sess, err := s.gateway.CreateSession(cctx, req)
	if err != nil {
		return "", err
	}
	if err := s.reservations.SetPaymentLink(ctx, res.ID, sess.RedirectURL); err != nil {
		// The customer still gets the link; only the stored copy is missing.
		s.log.Error("store payment link", zap.Int64("reservation_id", res.ID), zap.Error(err))
	}
	return sess.RedirectURL, nil
}

// CompletePayment applies an approved outcome reported by the success
// return page. A missing ref is recorded as "paid". Repeated calls keep
// the first recorded ref.
func (s *BookingService) CompletePayment(ctx context.Context, reservationID int64, paymentRef string) (*model.ReservationDetail, error) {
	if paymentRef = strings.TrimSpace(paymentRef); paymentRef == "" {
		paymentRef = "paid"
	}
	return s.applyOutcome(ctx, reservationID, model.OutcomeApproved, &paymentRef, SourceReturn)
}

// FailPayment applies a rejected outcome reported by the failure return
// page. It never downgrades a confirmed reservation.
func (s *BookingService) FailPayment(ctx context.Context, reservationID int64) (*model.ReservationDetail, error) {
	return s.applyOutcome(ctx, reservationID, model.OutcomeRejected, nil, SourceReturn)
}

// PendingPayment returns the reservation without changing it.
func (s *BookingService) PendingPayment(ctx context.Context, reservationID int64) (*model.ReservationDetail, error) {
	return s.reservations.GetDetail(ctx, reservationID)
}

func (s *BookingService) applyOutcome(ctx context.Context, id int64, outcome model.PaymentOutcome, ref *string, source string) (*model.ReservationDetail, error) {
	t := model.TransitionFor(outcome)
	changed, err := s.reservations.Transition(ctx, id, t, ref)
	if err != nil {
		return nil, err
	}
	d, err := s.reservations.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if changed {
		s.log.Info("reservation state changed",
			zap.Int64("reservation_id", id),
			zap.String("outcome", string(outcome)),
			zap.String("state", string(t.To)),
			zap.String("source", source),
		)
		if t.To == model.StateConfirmed {
			s.publishConfirmed(ctx, d, source)
		}
	} else if outcome == model.OutcomeApproved && d.State != model.StateConfirmed {
		s.log.Warn("approved payment not applied",
			zap.Int64("reservation_id", id),
			zap.String("state", string(d.State)),
			zap.Stringp("payment_ref", ref),
			zap.String("source", source),
		)
	}
	return d, nil
}

// HandleWebhook reconciles a provider notification. The payment is
// always looked up with the provider; nothing in the notification body
// is trusted for state. Notifications that are irrelevant, for another
// provider, or whose lookup fails are dropped with a log line. Only a
// storage failure is returned.
func (s *BookingService) HandleWebhook(ctx context.Context, provider string, n payment.Notification) error {
	log := s.log.With(zap.String("provider", provider), zap.String("type", n.Type), zap.String("data_id", n.DataID))
	if !payment.IsPaymentEvent(n.Type) || n.DataID == "" {
		log.Debug("webhook ignored")
		return nil
	}
	if s.gateway == nil || s.gateway.Name() != provider {
		log.Warn("webhook for a provider that is not configured")
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, s.cfg.GatewayTimeout)
	info, err := s.gateway.LookupPayment(cctx, n.DataID)
	cancel()
	if err != nil {
		log.Warn("webhook payment lookup failed", zap.Error(err))
		return nil
	}
	if info.ReservationID <= 0 {
		log.Warn("webhook payment without reservation reference", zap.String("status", info.RawStatus))
		return nil
	}

	_, err = s.applyOutcome(ctx, info.ReservationID, info.Outcome, &info.ID, SourceWebhook)
	if errors.Is(err, model.ErrNotFound) {
		log.Warn("webhook for unknown reservation", zap.Int64("reservation_id", info.ReservationID))
		return nil
	}
	return err
}

// SetState is the unguarded admin override.
func (s *BookingService) SetState(ctx context.Context, id int64, state model.ReservationState) error {
	if !state.Valid() {
		return fmt.Errorf("%w: unknown state %q", model.ErrValidation, state)
	}
	before, err := s.reservations.GetDetail(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reservations.SetState(ctx, id, state); err != nil {
		return err
	}
	s.log.Info("reservation state set by admin",
		zap.Int64("reservation_id", id),
		zap.String("from", string(before.State)),
		zap.String("to", string(state)),
	)
	if state == model.StateConfirmed && before.State != model.StateConfirmed {
		before.State = state
		s.publishConfirmed(ctx, before, SourceAdmin)
	}
	return nil
}

// Availability returns the free slots of date in chronological order.
func (s *BookingService) Availability(ctx context.Context, date string) ([]string, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	occupied, err := s.reservations.OccupiedTimes(ctx, date, model.OccupyingStates(s.cfg.HoldUnpaid))
	if err != nil {
		return nil, err
	}
	return availability.FreeSlots(occupied), nil
}

func (s *BookingService) ListReservations(ctx context.Context) ([]model.ReservationDetail, error) {
	return s.reservations.ListDetails(ctx)
}

func (s *BookingService) Stats(ctx context.Context) (model.Stats, error) {
	return s.reservations.Stats(ctx)
}

// publishConfirmed hands the event to the publisher in the background so
// a slow broker never delays the request.
func (s *BookingService) publishConfirmed(ctx context.Context, d *model.ReservationDetail, source string) {
	ev := queue.ReservationConfirmedEvent{
		ReservationID: d.ID,
		ClientEmail:   d.ClientEmail,
		ClientName:    strings.TrimSpace(d.ClientName + " " + d.ClientSurname),
		ServiceName:   d.ServiceName,
		Date:          d.Date,
		Time:          d.Time,
		DepositCents:  int64(d.Deposit),
		Source:        source,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if d.PaymentRef != nil {
		ev.PaymentRef = *d.PaymentRef
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.publisher.PublishConfirmed(pctx, ev); err != nil {
			s.log.Warn("publish reservation confirmed", zap.Int64("reservation_id", ev.ReservationID), zap.Error(err))
		}
	}()
}
