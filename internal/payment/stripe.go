package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"github.com/alejogim/sistema-de-reserva/internal/model"
)

const ProviderStripe = "stripe"

// ErrInvalidSignature is returned when a webhook payload does not carry a
// valid provider signature.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// StripeOptions configures the Stripe adapter. BackendURL replaces
// https://api.stripe.com and is only set in tests.
type StripeOptions struct {
	SecretKey     string
	WebhookSecret string
	Timeout       time.Duration
	BackendURL    string
}

// Stripe creates Checkout Sessions and reads sessions or payment intents.
type Stripe struct {
	api           *client.API
	webhookSecret string
	log           *zap.Logger
}

// NewStripe builds a client with a bounded HTTP timeout and no automatic
// retries.
func NewStripe(opts StripeOptions, log *zap.Logger) *Stripe {
	bc := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: opts.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if opts.BackendURL != "" {
		bc.URL = stripe.String(opts.BackendURL)
	}
	api := &client.API{}
	api.Init(opts.SecretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, bc),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, bc),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, bc),
	})
	return &Stripe{api: api, webhookSecret: opts.WebhookSecret, log: log}
}

func (s *Stripe) Name() string { return ProviderStripe }

// CreateSession creates a hosted Checkout Session. Stripe has no pending
// return page; the cancel URL is the failure page.
func (s *Stripe) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	ref := req.ExternalReference()
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL + "&payment_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(req.FailureURL),
		ClientReferenceID: stripe.String(ref),
		CustomerEmail:     stripe.String(req.PayerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(req.Currency)),
				UnitAmount: stripe.Int64(int64(req.Amount)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:        stripe.String(req.Title),
					Description: stripe.String(req.Description),
				},
			},
			Quantity: stripe.Int64(1),
		}},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{"reservation_id": ref},
		},
	}
	params.Context = ctx
	params.AddMetadata("reservation_id", ref)

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %v", ErrGateway, err)
	}
	if sess.URL == "" {
		return nil, fmt.Errorf("%w: checkout session without url", ErrGateway)
	}
	s.log.Debug("stripe checkout session created",
		zap.Int64("reservation_id", req.ReservationID), zap.String("session_id", sess.ID))
	return &Session{RedirectURL: sess.URL, ProviderSessionID: sess.ID}, nil
}

// LookupPayment accepts a Checkout Session id (cs_...) or a PaymentIntent
// id (pi_...).
func (s *Stripe) LookupPayment(ctx context.Context, id string) (*PaymentInfo, error) {
	id = strings.TrimSpace(id)
	switch {
	case strings.HasPrefix(id, "cs_"):
		params := &stripe.CheckoutSessionParams{}
		params.Context = ctx
		sess, err := s.api.CheckoutSessions.Get(id, params)
		if err != nil {
			return nil, fmt.Errorf("%w: get checkout session: %v", ErrGateway, err)
		}
		return &PaymentInfo{
			ID:            sess.ID,
			ReservationID: parseReference(sess.ClientReferenceID),
			Outcome:       checkoutSessionOutcome(sess),
			RawStatus:     string(sess.Status) + "/" + string(sess.PaymentStatus),
		}, nil
	case strings.HasPrefix(id, "pi_"):
		params := &stripe.PaymentIntentParams{}
		params.Context = ctx
		pi, err := s.api.PaymentIntents.Get(id, params)
		if err != nil {
			return nil, fmt.Errorf("%w: get payment intent: %v", ErrGateway, err)
		}
		return &PaymentInfo{
			ID:            pi.ID,
			ReservationID: parseReference(pi.Metadata["reservation_id"]),
			Outcome:       paymentIntentOutcome(pi.Status),
			RawStatus:     string(pi.Status),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported stripe id %q", model.ErrValidation, id)
	}
}

func checkoutSessionOutcome(sess *stripe.CheckoutSession) model.PaymentOutcome {
	switch {
	case sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return model.OutcomeApproved
	case sess.Status == stripe.CheckoutSessionStatusExpired:
		return model.OutcomeRejected
	default:
		return model.OutcomePending
	}
}

func paymentIntentOutcome(status stripe.PaymentIntentStatus) model.PaymentOutcome {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return model.OutcomeApproved
	case stripe.PaymentIntentStatusCanceled:
		return model.OutcomeRejected
	default:
		return model.OutcomePending
	}
}

// ParseWebhook verifies the Stripe-Signature header when a webhook secret is
// configured and extracts the event type and object id.
func (s *Stripe) ParseWebhook(payload []byte, signature string) (Notification, error) {
	var ev stripe.Event
	if s.webhookSecret != "" {
		var err error
		ev, err = webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			return Notification{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
	} else if err := json.Unmarshal(payload, &ev); err != nil {
		return Notification{}, fmt.Errorf("%w: stripe event: %v", model.ErrValidation, err)
	}
	n := Notification{Type: string(ev.Type)}
	if ev.Data != nil {
		if id, ok := ev.Data.Object["id"].(string); ok {
			n.DataID = id
		}
	}
	return n, nil
}
