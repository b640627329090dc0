// Package payment hides the payment provider behind the Gateway interface.
// One gateway is built at startup from configuration and injected into the
// booking service.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/alejogim/sistema-de-reserva/internal/model"
)

// ErrGateway wraps every failure reported by, or while talking to, the
// payment provider.
var ErrGateway = errors.New("payment gateway error")

// Gateway creates hosted payment sessions and looks payments up.
type Gateway interface {
	// Name identifies the provider; it matches the webhook path segment.
	Name() string
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	LookupPayment(ctx context.Context, id string) (*PaymentInfo, error)
}

// SessionRequest describes the single line item a customer pays for.
type SessionRequest struct {
	ReservationID int64
	Title         string
	Description   string
	Amount        model.Cents
	Currency      string

	PayerName    string
	PayerSurname string
	PayerEmail   string

	SuccessURL string
	FailureURL string
	PendingURL string
}

// ExternalReference is the provider-side correlation id of the reservation.
func (r SessionRequest) ExternalReference() string {
	return strconv.FormatInt(r.ReservationID, 10)
}

// Session is a created payment session.
type Session struct {
	RedirectURL       string
	ProviderSessionID string
}

// PaymentInfo is what the provider reports about a payment.
type PaymentInfo struct {
	ID            string
	ReservationID int64
	Outcome       model.PaymentOutcome
	RawStatus     string
}

// Config selects and configures the provider.
type Config struct {
	Provider            string
	MPAccessToken       string
	StripeSecretKey     string
	StripeWebhookSecret string
	Timeout             time.Duration
}

// New returns the configured gateway, or nil when the selected provider has
// no credential. A nil gateway means payments are arranged manually.
func New(cfg Config, log *zap.Logger) (Gateway, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	switch cfg.Provider {
	case ProviderMercadoPago, "":
		if cfg.MPAccessToken == "" {
			return nil, nil
		}
		mp, err := NewMercadoPago(cfg.MPAccessToken, cfg.Timeout, log)
		if err != nil {
			return nil, err
		}
		return mp, nil
	case ProviderStripe:
		if cfg.StripeSecretKey == "" {
			return nil, nil
		}
		return NewStripe(StripeOptions{
			SecretKey:     cfg.StripeSecretKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			Timeout:       cfg.Timeout,
		}, log), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}

// ReturnURLs builds the success, failure and pending URLs for a
// reservation under baseURL.
func ReturnURLs(baseURL string, reservationID int64) (success, failure, pending string) {
	q := url.Values{"reservation": {strconv.FormatInt(reservationID, 10)}}.Encode()
	return baseURL + "/pay/completed?" + q,
		baseURL + "/pay/error?" + q,
		baseURL + "/pay/pending?" + q
}

func parseReference(ref string) int64 {
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
