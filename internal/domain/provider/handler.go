package provider

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bookline/bookline/internal/platform/auth"
	"github.com/bookline/bookline/pkg/apperr"
	"github.com/bookline/bookline/pkg/pagination"
	"github.com/bookline/bookline/pkg/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "staff"))
	read.GET("/providers", h.List)
	read.GET("/providers/:id", h.Get)

	write := api.Group("", auth.RequireRole("admin"))
	write.POST("/providers", h.Create)
	write.PUT("/providers/:id", h.Update)
	write.DELETE("/providers/:id", h.Deactivate)
}

func (h *Handler) Create(c echo.Context) error {
	var p Provider
	if err := c.Bind(&p); err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid request body"))
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid provider id"))
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid provider id"))
	}
	var p Provider
	if err := c.Bind(&p); err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid request body"))
	}
	p.ID = id
	if err := h.svc.Update(c.Request().Context(), &p); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, p)
}

func (h *Handler) Deactivate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid provider id"))
	}
	if err := h.svc.Deactivate(c.Request().Context(), id); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, map[string]string{"id": id.String(), "status": "deactivated"})
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}
