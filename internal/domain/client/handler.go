package client

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
	g := api.Group("", auth.RequireRole("admin", "staff"))
	g.GET("/clients", h.List)
	g.GET("/clients/:id", h.Get)
	g.POST("/clients", h.Create)
	g.PUT("/clients/:id", h.Update)
}

func (h *Handler) Create(c echo.Context) error {
	var cl Client
	if err := c.Bind(&cl); err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid request body"))
	}
	if err := h.svc.Create(c.Request().Context(), &cl); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusCreated, cl)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid client id"))
	}
	cl, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, cl)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid client id"))
	}
	var cl Client
	if err := c.Bind(&cl); err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid request body"))
	}
	cl.ID = id
	if err := h.svc.Update(c.Request().Context(), &cl); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, cl)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}
