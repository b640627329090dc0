package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alejogim/sistema-de-reserva/internal/model"
	"github.com/alejogim/sistema-de-reserva/internal/service"
)

// AdminCatalogHandler manages services and lists clients for admins.
type AdminCatalogHandler struct {
	Catalog Catalog
}

func NewAdminCatalogHandler(catalog Catalog) *AdminCatalogHandler {
	if catalog == nil {
		panic("nil dependency passed to NewAdminCatalogHandler")
	}
	return &AdminCatalogHandler{Catalog: catalog}
}

type serviceReq struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       model.Cents `json:"price"`
	DurationMin int         `json:"duration"`
	Active      *bool       `json:"active"`
}

func (r serviceReq) input() service.ServiceInput {
	return service.ServiceInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		DurationMin: r.DurationMin,
		Active:      r.Active,
	}
}

// ListServices handles GET /api/admin/servicios, inactive ones included.
func (h *AdminCatalogHandler) ListServices(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	list, err := h.Catalog.ListAll(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// GetService handles GET /api/admin/servicios/:id.
func (h *AdminCatalogHandler) GetService(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	s, err := h.Catalog.Get(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// CreateService handles POST /api/admin/servicios.
func (h *AdminCatalogHandler) CreateService(c echo.Context) error {
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	s, err := h.Catalog.Create(ctx, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// UpdateService handles PUT /api/admin/servicios/:id.
func (h *AdminCatalogHandler) UpdateService(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	s, err := h.Catalog.Update(ctx, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteService handles DELETE /api/admin/servicios/:id as a soft delete.
func (h *AdminCatalogHandler) DeleteService(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	if err := h.Catalog.Deactivate(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ListClients handles GET /api/admin/clientes.
func (h *AdminCatalogHandler) ListClients(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()
	list, err := h.Catalog.ListClients(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
