package appointment

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bookline/bookline/internal/platform/auth"
	"github.com/bookline/bookline/pkg/apperr"
	"github.com/bookline/bookline/pkg/pagination"
	"github.com/bookline/bookline/pkg/respond"
	"github.com/bookline/bookline/pkg/timeutil"
)

type Handler struct {
	svc *Service
	loc *time.Location
}

func NewHandler(svc *Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, loc: loc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "staff"))
	g.POST("/appointments", h.Book)
	g.GET("/appointments", h.List)
	g.GET("/appointments/:id", h.Get)
	g.POST("/appointments/:id/confirm", h.Confirm)
	g.POST("/appointments/:id/check-in", h.CheckIn)
	g.POST("/appointments/:id/no-show", h.MarkNoShow)
	g.POST("/appointments/:id/cancel", h.Cancel)
	g.POST("/appointments/:id/reschedule", h.Reschedule)
	g.POST("/appointments/:id/complete", h.Complete)
}

func (h *Handler) apptID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.New(apperr.KindInvalidFormat, "invalid appointment id")
	}
	return id, nil
}

func (h *Handler) respond(c echo.Context, status int, a *Appointment, warnings []string, err error) error {
	if err != nil {
		return respond.Fail(c, err)
	}
	if len(warnings) > 0 {
		return respond.OKWithWarnings(c, status, a, warnings)
	}
	return respond.OK(c, status, a)
}

func (h *Handler) Book(c echo.Context) error {
	var req BookingRequest
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid request body"))
	}
	a, warnings, err := h.svc.Book(c.Request().Context(), req)
	return h.respond(c, http.StatusCreated, a, warnings, err)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := h.apptID(c)
	if err != nil {
		return respond.Fail(c, err)
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, a)
}

// List serves either a provider's day schedule (provider_id + date) or a
// client's appointment history (client_id).
func (h *Handler) List(c echo.Context) error {
	if pid := c.QueryParam("provider_id"); pid != "" {
		providerID, err := uuid.Parse(pid)
		if err != nil {
			return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid provider id"))
		}
		date, err := timeutil.ParseDate(c.QueryParam("date"), h.loc)
		if err != nil {
			return respond.Fail(c, err)
		}
		items, err := h.svc.DaySchedule(c.Request().Context(), providerID, date)
		if err != nil {
			return respond.Fail(c, err)
		}
		return respond.OK(c, http.StatusOK, items)
	}

	if cid := c.QueryParam("client_id"); cid != "" {
		clientID, err := uuid.Parse(cid)
		if err != nil {
			return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid client id"))
		}
		p := pagination.FromContext(c)
		items, total, err := h.svc.ClientHistory(c.Request().Context(), clientID, p.Limit, p.Offset)
		if err != nil {
			return respond.Fail(c, err)
		}
		return respond.OK(c, http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
	}

	return respond.Fail(c, apperr.New(apperr.KindMissingField, "provider_id with date, or client_id, is required"))
}

func (h *Handler) Confirm(c echo.Context) error {
	id, err := h.apptID(c)
	if err != nil {
		return respond.Fail(c, err)
	}
	a, warnings, err := h.svc.Confirm(c.Request().Context(), id)
	return h.respond(c, http.StatusOK, a, warnings, err)
}

func (h *Handler) CheckIn(c echo.Context) error {
	id, err := h.apptID(c)
	if err != nil {
		return respond.Fail(c, err)
	}
	a, warnings, err := h.svc.CheckIn(c.Request().Context(), id)
	return h.respond(c, http.StatusOK, a, warnings, err)
}

func (h *Handler) MarkNoShow(c echo.Context) error {
	id, err := h.apptID(c)
	if err != nil {
		return respond.Fail(c, err)
	}
	a, warnings, err := h.svc.MarkNoShow(c.Request().Context(), id)
	return h.respond(c, http.StatusOK, a, warnings, err)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := h.apptID(c)
	if err != nil {
		return respond.Fail(c, err)
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid request body"))
	}
	a, warnings, err := h.svc.Cancel(c.Request().Context(), id, body.Reason)
	return h.respond(c, http.StatusOK, a, warnings, err)
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := h.apptID(c)
	if err != nil {
		return respond.Fail(c, err)
	}
	var req RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid request body"))
	}
	a, warnings, err := h.svc.Reschedule(c.Request().Context(), id, req)
	return h.respond(c, http.StatusOK, a, warnings, err)
}

func (h *Handler) Complete(c echo.Context) error {
	id, err := h.apptID(c)
	if err != nil {
		return respond.Fail(c, err)
	}
	a, warnings, err := h.svc.Complete(c.Request().Context(), id)
	return h.respond(c, http.StatusOK, a, warnings, err)
}
