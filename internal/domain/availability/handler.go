package availability

import (
	"net/http"
	"strconv"
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
	resolver           *Resolver
	svc                *Service
	loc                *time.Location
	defaultGranularity int
}

func NewHandler(resolver *Resolver, svc *Service, loc *time.Location, defaultGranularity int) *Handler {
	return &Handler{resolver: resolver, svc: svc, loc: loc, defaultGranularity: defaultGranularity}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "staff"))
	read.GET("/providers/:id/availability", h.Resolve)
	read.GET("/providers/:id/availability/check", h.Check)
	read.GET("/providers/:id/availability-rules", h.ListRules)
	read.GET("/providers/:id/exceptions", h.ListExceptions)
	read.GET("/holidays", h.ListHolidays)

	write := api.Group("", auth.RequireRole("admin"))
	write.POST("/availability-rules", h.CreateRule)
	write.PUT("/availability-rules/:id", h.UpdateRule)
	write.DELETE("/availability-rules/:id", h.DeleteRule)
	write.POST("/exceptions", h.CreateException)
	write.DELETE("/exceptions/:id", h.DeleteException)
	write.POST("/holidays", h.CreateHoliday)
	write.DELETE("/holidays/:id", h.DeleteHoliday)
}

func (h *Handler) providerID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.New(apperr.KindInvalidFormat, "invalid provider id")
	}
	return id, nil
}

func (h *Handler) Resolve(c echo.Context) error {
	id, err := h.providerID(c)
	if err != nil {
		return respond.Fail(c, err)
	}
	date, err := timeutil.ParseDate(c.QueryParam("date"), h.loc)
	if err != nil {
		return respond.Fail(c, err)
	}
	granularity := h.defaultGranularity
	if g := c.QueryParam("granularity"); g != "" {
		granularity, err = strconv.Atoi(g)
		if err != nil {
			return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid granularity %q", g))
		}
	}

	slots, err := h.resolver.Resolve(c.Request().Context(), id, date, granularity)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, map[string]interface{}{
		"provider_id": id,
		"date":        timeutil.NormalizeDate(date, h.loc),
		"granularity": granularity,
		"slots":       slots,
	})
}

func (h *Handler) Check(c echo.Context) error {
	id, err := h.providerID(c)
	if err != nil {
		return respond.Fail(c, err)
	}
	date, err := timeutil.ParseDate(c.QueryParam("date"), h.loc)
	if err != nil {
		return respond.Fail(c, err)
	}
	start, err := timeutil.ParseClock(c.QueryParam("start"))
	if err != nil {
		return respond.Fail(c, err)
	}
	duration, err := strconv.Atoi(c.QueryParam("duration"))
	if err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid duration %q", c.QueryParam("duration")))
	}

	available, err := h.resolver.IsSlotAvailable(c.Request().Context(), id, date, start, duration)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, map[string]interface{}{"available": available})
}

// -- Rules --

func (h *Handler) CreateRule(c echo.Context) error {
	var r RecurringRule
	if err := c.Bind(&r); err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid request body"))
	}
	if err := h.svc.CreateRule(c.Request().Context(), &r); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusCreated, r)
}

func (h *Handler) UpdateRule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid rule id"))
	}
	var r RecurringRule
	if err := c.Bind(&r); err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid request body"))
	}
	r.ID = id
	if err := h.svc.UpdateRule(c.Request().Context(), &r); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, r)
}

func (h *Handler) DeleteRule(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid rule id"))
	}
	if err := h.svc.DeleteRule(c.Request().Context(), id); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, map[string]string{"id": id.String(), "status": "deleted"})
}

func (h *Handler) ListRules(c echo.Context) error {
	id, err := h.providerID(c)
	if err != nil {
		return respond.Fail(c, err)
	}
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListRules(c.Request().Context(), id, p.Limit, p.Offset)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

// -- Exceptions --

func (h *Handler) CreateException(c echo.Context) error {
	var e Exception
	if err := c.Bind(&e); err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid request body"))
	}
	if err := h.svc.CreateException(c.Request().Context(), &e); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusCreated, e)
}

func (h *Handler) DeleteException(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid exception id"))
	}
	if err := h.svc.DeleteException(c.Request().Context(), id); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, map[string]string{"id": id.String(), "status": "deleted"})
}

func (h *Handler) ListExceptions(c echo.Context) error {
	id, err := h.providerID(c)
	if err != nil {
		return respond.Fail(c, err)
	}
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListExceptions(c.Request().Context(), id, p.Limit, p.Offset)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

// -- Holidays --

func (h *Handler) CreateHoliday(c echo.Context) error {
	var hol Holiday
	if err := c.Bind(&hol); err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid request body"))
	}
	if hol.Date.IsZero() {
		return respond.Fail(c, apperr.New(apperr.KindMissingField, "date is required"))
	}
	if err := h.svc.CreateHoliday(c.Request().Context(), &hol); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusCreated, hol)
}

func (h *Handler) DeleteHoliday(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respond.Fail(c, apperr.New(apperr.KindInvalidFormat, "invalid holiday id"))
	}
	if err := h.svc.DeleteHoliday(c.Request().Context(), id); err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, map[string]string{"id": id.String(), "status": "deleted"})
}

func (h *Handler) ListHolidays(c echo.Context) error {
	p := pagination.FromContext(c)
	items, total, err := h.svc.ListHolidays(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return respond.Fail(c, err)
	}
	return respond.OK(c, http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}
