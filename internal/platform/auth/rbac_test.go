package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRoles(roles ...string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, roles)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestRequireRole_Allowed(t *testing.T) {
	c := contextWithRoles("staff")
	h := RequireRole("staff")(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	c := contextWithRoles("admin")
	h := RequireRole("staff")(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("admin should pass any role check: %v", err)
	}
}

func TestRequireRole_Forbidden(t *testing.T) {
	c := contextWithRoles("viewer")
	h := RequireRole("staff")(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	err := h(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestRequireRole_NoRoles(t *testing.T) {
	c := contextWithRoles()
	h := RequireRole("staff")(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err == nil {
		t.Fatal("expected error for user with no roles")
	}
}
