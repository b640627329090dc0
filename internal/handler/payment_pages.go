package handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alejogim/sistema-de-reserva/internal/middleware"
	"github.com/alejogim/sistema-de-reserva/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = map[string]*template.Template{
	"completed":   template.Must(template.ParseFS(templatesFS, "templates/base.html", "templates/completed.html")),
	"error":       template.Must(template.ParseFS(templatesFS, "templates/base.html", "templates/error.html")),
	"pending":     template.Must(template.ParseFS(templatesFS, "templates/base.html", "templates/pending.html")),
	"unconfirmed": template.Must(template.ParseFS(templatesFS, "templates/base.html", "templates/unconfirmed.html")),
}

type pageData struct {
	Title         string
	ReservationID int64
	Detail        *model.ReservationDetail
	Remaining     model.Cents
	WhatsAppURL   string
}

// PaymentPages renders the pages the payment provider redirects the
// customer to. They never show an error status: anything unexpected ends
// on the failure page.
type PaymentPages struct {
	Booking       Booker
	BusinessPhone string
	Log           *zap.Logger
}

func NewPaymentPages(booking Booker, businessPhone string, log *zap.Logger) *PaymentPages {
	if booking == nil || log == nil {
		panic("nil dependency passed to NewPaymentPages")
	}
	return &PaymentPages{Booking: booking, BusinessPhone: strings.TrimSpace(businessPhone), Log: log}
}

func render(c echo.Context, page string, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplates[page].ExecuteTemplate(&buf, "base", data); err != nil {
		c.Set(middleware.ErrorKey, err)
		return c.String(http.StatusInternalServerError, "render error")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// whatsAppURL links to a chat with the business carrying text.
func (h *PaymentPages) whatsAppURL(text string) string {
	if h.BusinessPhone == "" {
		return ""
	}
	return "https://wa.me/" + url.PathEscape(h.BusinessPhone) + "?" + url.Values{"text": {text}}.Encode()
}

// Completed handles GET /pay/completed?reservation=&payment_id=. The
// confirmation is shown only when the reservation ended up confirmed.
func (h *PaymentPages) Completed(c echo.Context) error {
	id, ok := parseID(c.QueryParam("reservation"))
	if !ok {
		return c.Redirect(http.StatusFound, "/pay/error")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	d, err := h.Booking.CompletePayment(ctx, id, c.QueryParam("payment_id"))
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			h.Log.Error("complete payment", zap.Int64("reservation_id", id), zap.Error(err))
		}
		return c.Redirect(http.StatusFound, "/pay/error")
	}
	if d.State != model.StateConfirmed {
		// A cancelled reservation keeps its state; the customer is asked to get in touch.
		return render(c, "unconfirmed", pageData{
			Title:         "Reserva no confirmada",
			ReservationID: id,
			Detail:        d,
			WhatsAppURL:   h.whatsAppURL(fmt.Sprintf("Hola! Pagué la reserva #%d pero no quedó confirmada", id)),
		})
	}
	return render(c, "completed", pageData{
		Title:         "¡Reserva confirmada!",
		ReservationID: id,
		Detail:        d,
		Remaining:     d.Remaining(),
		WhatsAppURL:   h.whatsAppURL(fmt.Sprintf("Hola! Acabo de confirmar mi reserva #%d", id)),
	})
}

// Failed handles GET /pay/error?reservation=. Without a valid id it only
// renders the page.
func (h *PaymentPages) Failed(c echo.Context) error {
	data := pageData{Title: "Error en el pago"}
	if id, ok := parseID(c.QueryParam("reservation")); ok {
		ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
		defer cancel()
		if _, err := h.Booking.FailPayment(ctx, id); err == nil {
			data.ReservationID = id
		} else if !errors.Is(err, model.ErrNotFound) {
			h.Log.Error("fail payment", zap.Int64("reservation_id", id), zap.Error(err))
		}
	}
	return render(c, "error", data)
}

// Pending handles GET /pay/pending?reservation=. It changes nothing.
func (h *PaymentPages) Pending(c echo.Context) error {
	data := pageData{Title: "Pago pendiente"}
	if id, ok := parseID(c.QueryParam("reservation")); ok {
		ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
		defer cancel()
		if d, err := h.Booking.PendingPayment(ctx, id); err == nil {
			data.ReservationID = id
			data.Detail = d
		}
	}
	return render(c, "pending", data)
}
