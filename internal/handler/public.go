package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alejogim/sistema-de-reserva/internal/model"
	"github.com/alejogim/sistema-de-reserva/internal/service"
)

const requestTimeout = 5 * time.Second

// PublicHandler serves the customer facing API: the service catalogue,
// day availability and booking creation.
type PublicHandler struct {
	Booking Booker
	Catalog Catalog
}

func NewPublicHandler(booking Booker, catalog Catalog) *PublicHandler {
	if booking == nil || catalog == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Booking: booking, Catalog: catalog}
}

// ListServices handles GET /api/servicios.
func (h *PublicHandler) ListServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	list, err := h.Catalog.ListActive(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Availability handles GET /api/disponibilidad/:date and returns the free
// slots of the day as a JSON array of "HH:MM" strings.
func (h *PublicHandler) Availability(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	free, err := h.Booking.Availability(ctx, c.Param("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, free)
}

type bookingReq struct {
	Name              string `json:"name"`
	Surname           string `json:"surname"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	ServiceID         int64  `json:"service_id"`
	Date              string `json:"date"`
	Time              string `json:"time"`
	DepositPercentage int    `json:"deposit_percentage"`
	Note              string `json:"note"`
}

type bookingResp struct {
	Success       bool        `json:"success"`
	ReservationID int64       `json:"reservationId"`
	PaymentLink   *string     `json:"paymentLink"`
	Amount        model.Cents `json:"amount"`
	Message       string      `json:"message"`
	Error         string      `json:"error,omitempty"`
	Service       string      `json:"service"`
	Date          string      `json:"date"`
	Time          string      `json:"time"`
}

// CreateReservation handles POST /api/reservas. A booking that was stored
// always answers 200 with success=true, even when no payment link could be
// produced; the error field then explains why.
func (h *PublicHandler) CreateReservation(c echo.Context) error {
	var req bookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	// The gateway call has its own bound inside the service.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*requestTimeout)
	defer cancel()

	res, err := h.Booking.CreateBooking(ctx, service.BookingInput{
		Name:              req.Name,
		Surname:           req.Surname,
		Email:             req.Email,
		Phone:             req.Phone,
		ServiceID:         req.ServiceID,
		Date:              req.Date,
		Time:              req.Time,
		DepositPercentage: req.DepositPercentage,
		Note:              req.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, bookingResp{
		Success:       true,
		ReservationID: res.ReservationID,
		PaymentLink:   res.PaymentLink,
		Amount:        res.Amount,
		Message:       res.Message,
		Error:         res.Advisory,
		Service:       res.ServiceName,
		Date:          res.Date,
		Time:          res.Time,
	})
}
