package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alejogim/sistema-de-reserva/internal/middleware"
	"github.com/alejogim/sistema-de-reserva/internal/model"
)

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrSlotTaken), errors.Is(err, model.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, model.ErrUnauthenticated),
		errors.Is(err, model.ErrInvalidToken),
		errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"error": ...}. Validation messages are shown
// as they are; storage and unknown failures get a generic message and the
// cause is left for the request logger.
func writeError(c echo.Context, err error) error {
	status := statusFor(err)
	msg := "internal error"
	switch status {
	case http.StatusBadRequest:
		msg = strings.TrimPrefix(err.Error(), model.ErrValidation.Error()+": ")
	case http.StatusNotFound:
		msg = "not found"
		var nf *model.NotFoundError
		if errors.As(err, &nf) {
			msg = nf.Error()
		}
	case http.StatusConflict:
		if errors.Is(err, model.ErrSlotTaken) {
			msg = "time slot already taken"
		} else {
			msg = "already exists"
		}
	case http.StatusUnauthorized:
		msg = "invalid credentials"
	default:
		c.Set(middleware.ErrorKey, err)
	}
	return c.JSON(status, echo.Map{"error": msg})
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return id, err == nil && id > 0
}
