package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alejogim/sistema-de-reserva/internal/middleware"
	"github.com/alejogim/sistema-de-reserva/internal/model"
	"github.com/alejogim/sistema-de-reserva/internal/payment"
)

const maxWebhookBody = 64 << 10

// WebhookHandler receives payment provider notifications. Stripe is set
// only when the Stripe gateway is active; without it Stripe events are
// acknowledged and dropped.
type WebhookHandler struct {
	Booking Booker
	Stripe  WebhookParser
	Log     *zap.Logger
}

func NewWebhookHandler(booking Booker, stripe WebhookParser, log *zap.Logger) *WebhookHandler {
	if booking == nil || log == nil {
		panic("nil dependency passed to NewWebhookHandler")
	}
	return &WebhookHandler{Booking: booking, Stripe: stripe, Log: log}
}

// Receive handles POST /webhook/:provider. Known providers always get 200
// "OK", unreadable payloads included, except for a bad Stripe signature
// (400) and a storage failure (500, so the provider retries).
func (h *WebhookHandler) Receive(c echo.Context) error {
	provider := c.Param("provider")
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable body"})
	}

	var n payment.Notification
	switch provider {
	case payment.ProviderMercadoPago:
		n, err = payment.ParseMercadoPagoWebhook(body, c.QueryParam("type"), c.QueryParam("data.id"))
	case payment.ProviderStripe:
		if h.Stripe == nil {
			h.Log.Warn("stripe webhook received but stripe is not configured")
			return c.String(http.StatusOK, "OK")
		}
		n, err = h.Stripe.ParseWebhook(body, c.Request().Header.Get("Stripe-Signature"))
	default:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown provider"})
	}
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			h.Log.Warn("webhook rejected", zap.String("provider", provider), zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid signature"})
		}
		h.Log.Warn("webhook payload dropped", zap.String("provider", provider), zap.Error(err))
		return c.String(http.StatusOK, "OK")
	}

	h.Log.Info("webhook received",
		zap.String("provider", provider),
		zap.String("type", n.Type),
		zap.String("data_id", n.DataID),
	)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 3*requestTimeout)
	defer cancel()
	if err := h.Booking.HandleWebhook(ctx, provider, n); err != nil {
		if errors.Is(err, model.ErrStorage) {
			c.Set(middleware.ErrorKey, err)
			return c.String(http.StatusInternalServerError, "ERROR")
		}
		h.Log.Error("webhook processing failed", zap.Error(err))
	}
	return c.String(http.StatusOK, "OK")
}
