// Package router wires handlers and middleware onto an Echo instance.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/alejogim/sistema-de-reserva/internal/handler"
	"github.com/alejogim/sistema-de-reserva/internal/middleware"
)

// Handlers groups every HTTP handler the server exposes.
type Handlers struct {
	Public       *handler.PublicHandler
	Admin        *handler.AdminHandler
	AdminCatalog *handler.AdminCatalogHandler
	Webhook      *handler.WebhookHandler
	Pages        *handler.PaymentPages
}

// Options carries the cross-cutting pieces shared by the route groups.
// Cache and Limiter may be nil; the routes are then served without them.
type Options struct {
	DB          handler.Pinger
	Authorizer  middleware.Authorizer
	Cache       *middleware.ResponseCache
	Limiter     echo.MiddlewareFunc
	CORSOrigins []string
	Log         *zap.Logger
}

// New builds the Echo instance with global middleware and all routes.
func New(h Handlers, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Log))
	e.Use(middleware.Recover(opts.Log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: corsOrigins(opts.CORSOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))

	e.GET("/healthz", handler.Health(opts.DB))

	RegisterPublic(e, h.Public, opts)
	RegisterPayments(e, h.Webhook, h.Pages)
	RegisterAdmin(e, h.Admin, h.AdminCatalog, opts)
	return e
}

func corsOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func limiter(opts Options) echo.MiddlewareFunc {
	if opts.Limiter == nil {
		return passThrough
	}
	return opts.Limiter
}

func cache(opts Options) echo.MiddlewareFunc {
	if opts.Cache == nil {
		return passThrough
	}
	return opts.Cache.Middleware()
}
