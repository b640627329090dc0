package router

import (
	"github.com/labstack/echo/v4"

	"github.com/alejogim/sistema-de-reserva/internal/handler"
)

// RegisterPublic registers the customer facing API under /api. The service
// catalogue goes through the response cache and booking creation through
// the rate limiter.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, opts Options) {
	g := e.Group("/api")
	g.GET("/servicios", p.ListServices, cache(opts))
	g.GET("/disponibilidad/:date", p.Availability)
	g.POST("/reservas", p.CreateReservation, limiter(opts))
}
