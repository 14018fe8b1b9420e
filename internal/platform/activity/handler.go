package activity

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bookline/bookline/pkg/apperr"
	"github.com/bookline/bookline/pkg/pagination"
	"github.com/bookline/bookline/pkg/respond"
)

type Handler struct {
	recorder Recorder
}

func NewHandler(recorder Recorder) *Handler { return &Handler{recorder: recorder} }

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/activity", h.ListRecent)
	g.GET("/appointments/:id/activity", h.ListByAppointment)
}

func (h *Handler) ListRecent(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.recorder.ListRecent(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return respond.Fail(c, apperr.Storage(err))
	}
	return respond.OK(c, http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) ListByAppointment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid appointment id"))
	}
	p := pagination.FromContext(c)
	items, total, err := h.recorder.ListByAppointment(c.Request().Context(), id, p.Limit, p.Offset)
	if err != nil {
		return respond.Fail(c, apperr.Storage(err))
	}
	return respond.OK(c, http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}
