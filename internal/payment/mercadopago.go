package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"go.uber.org/zap"

	"github.com/alejogim/sistema-de-reserva/internal/model"
)

const ProviderMercadoPago = "mercadopago"

// The subsets of the SDK clients the adapter calls.
type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentGetter interface {
	Get(ctx context.Context, id int) (*mppayment.Response, error)
}

// MercadoPago creates checkout preferences and reads payments through the
// Mercado Pago SDK.
type MercadoPago struct {
	preferences preferenceCreator
	payments    paymentGetter
	timeout     time.Duration
	log         *zap.Logger
}

// NewMercadoPago builds the adapter for an access token.
func NewMercadoPago(accessToken string, timeout time.Duration, log *zap.Logger) (*MercadoPago, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: mercadopago config: %v", ErrGateway, err)
	}
	return &MercadoPago{
		preferences: preference.NewClient(cfg),
		payments:    mppayment.NewClient(cfg),
		timeout:     timeout,
		log:         log,
	}, nil
}

func (m *MercadoPago) Name() string { return ProviderMercadoPago }

// CreateSession creates a checkout preference with one item priced at the
// deposit and returns its init point.
func (m *MercadoPago) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	ref := req.ExternalReference()
	pref := preference.Request{
		Items: []preference.ItemRequest{{
			ID:          "reserva-" + ref,
			Title:       req.Title,
			Description: req.Description,
			Quantity:    1,
			CurrencyID:  req.Currency,
			UnitPrice:   req.Amount.Float(),
		}},
		Payer: &preference.PayerRequest{
			Name:    req.PayerName,
			Surname: req.PayerSurname,
			Email:   req.PayerEmail,
		},
		BackURLs: &preference.BackURLsRequest{
			Success: req.SuccessURL,
			Failure: req.FailureURL,
			Pending: req.PendingURL,
		},
		ExternalReference: ref,
	}
	resp, err := m.preferences.Create(ctx, pref)
	if err != nil {
		return nil, fmt.Errorf("%w: create preference: %v", ErrGateway, err)
	}
	if resp == nil || resp.InitPoint == "" {
		return nil, fmt.Errorf("%w: preference without init point", ErrGateway)
	}
	m.log.Debug("mercadopago preference created",
		zap.Int64("reservation_id", req.ReservationID), zap.String("preference_id", resp.ID))
	return &Session{RedirectURL: resp.InitPoint, ProviderSessionID: resp.ID}, nil
}

// LookupPayment fetches a payment by its numeric id.
func (m *MercadoPago) LookupPayment(ctx context.Context, id string) (*PaymentInfo, error) {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%w: invalid payment id %q", model.ErrValidation, id)
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	p, err := m.payments.Get(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("%w: get payment %d: %v", ErrGateway, n, err)
	}
	return &PaymentInfo{
		ID:            strconv.Itoa(p.ID),
		ReservationID: parseReference(p.ExternalReference),
		Outcome:       mercadoPagoOutcome(p.Status),
		RawStatus:     p.Status,
	}, nil
}

func mercadoPagoOutcome(status string) model.PaymentOutcome {
	switch status {
	case "approved", "authorized":
		return model.OutcomeApproved
	case "rejected", "cancelled", "refunded", "charged_back":
		return model.OutcomeRejected
	default:
		// pending, in_process, in_mediation
		return model.OutcomePending
	}
}
