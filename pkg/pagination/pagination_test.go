package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithQuery(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContextDefaults(t *testing.T) {
	p := FromContext(contextWithQuery(""))
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("got %+v, want defaults", p)
	}
}

func TestFromContextExplicit(t *testing.T) {
	p := FromContext(contextWithQuery("limit=50&offset=10"))
	if p.Limit != 50 || p.Offset != 10 {
		t.Errorf("got %+v", p)
	}
}

func TestFromContextClampsLimit(t *testing.T) {
	p := FromContext(contextWithQuery("limit=5000"))
	if p.Limit != MaxLimit {
		t.Errorf("limit not clamped: %d", p.Limit)
	}
}

func TestFromContextNegativeOffset(t *testing.T) {
	p := FromContext(contextWithQuery("offset=-5"))
	if p.Offset != 0 {
		t.Errorf("negative offset not reset: %d", p.Offset)
	}
}

func TestNewResponse(t *testing.T) {
	r := NewResponse([]int{1, 2, 3}, 10, 3, 0)
	if !r.HasMore {
		t.Error("expected HasMore")
	}
	r = NewResponse([]int{1}, 1, 20, 0)
	if r.HasMore {
		t.Error("did not expect HasMore")
	}
}

func TestSQL(t *testing.T) {
	p := Params{Limit: 20, Offset: 40}
	if got := p.SQL(); got != "LIMIT 20 OFFSET 40" {
		t.Errorf("SQL() = %q", got)
	}
}
