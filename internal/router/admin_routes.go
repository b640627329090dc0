package router

import (
	"github.com/labstack/echo/v4"

	"github.com/alejogim/sistema-de-reserva/internal/handler"
	"github.com/alejogim/sistema-de-reserva/internal/middleware"
)

// RegisterAdmin registers the admin panel API under /api/admin. Login is
// rate limited and open; every other route requires a valid bearer token.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, c *handler.AdminCatalogHandler, opts Options) {
	e.POST("/api/admin/login", a.Login, limiter(opts))

	g := e.Group("/api/admin", middleware.AdminAuth(opts.Authorizer))

	g.GET("/perfil", a.Profile)
	g.PUT("/perfil", a.UpdateProfile)
	g.PUT("/cambiar-password", a.ChangePassword)

	g.GET("/reservas", a.ListReservations)
	g.PUT("/reservas/:id/estado", a.SetReservationState)
	g.GET("/estadisticas", a.Stats)

	g.GET("/servicios", c.ListServices)
	g.GET("/servicios/:id", c.GetService)
	g.POST("/servicios", c.CreateService)
	g.PUT("/servicios/:id", c.UpdateService)
	g.DELETE("/servicios/:id", c.DeleteService)
	g.GET("/clientes", c.ListClients)
}
