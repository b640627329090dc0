package router

import (
	"github.com/labstack/echo/v4"

	"github.com/alejogim/sistema-de-reserva/internal/handler"
)

// RegisterPayments registers the provider webhooks and the pages the
// customer is sent back to after checkout.
func RegisterPayments(e *echo.Echo, w *handler.WebhookHandler, p *handler.PaymentPages) {
	e.POST("/webhook/:provider", w.Receive)

	e.GET("/pay/completed", p.Completed)
	e.GET("/pay/error", p.Failed)
	e.GET("/pay/pending", p.Pending)
}
