package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookline/bookline/pkg/apperr"
)

func newContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestOK(t *testing.T) {
	c, rec := newContext(t)
	if err := OK(c, http.StatusOK, map[string]string{"id": "a1"}); err != nil {
		t.Fatal(err)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if !env.Success || env.Error != nil {
		t.Errorf("unexpected envelope: %+v", env)
	}
}

func TestFailStatusMapping(t *testing.T) {
	cases := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.KindMissingField, http.StatusBadRequest},
		{apperr.KindPastDateTime, http.StatusBadRequest},
		{apperr.KindNotFound, http.StatusNotFound},
		{apperr.KindProviderNotFound, http.StatusNotFound},
		{apperr.KindSlotUnavailable, http.StatusConflict},
		{apperr.KindIllegalTransition, http.StatusConflict},
		{apperr.KindTooEarly, http.StatusConflict},
		{apperr.KindStorageUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		c, rec := newContext(t)
		if err := Fail(c, apperr.New(tc.kind, "nope")); err != nil {
			t.Fatal(err)
		}
		if rec.Code != tc.want {
			t.Errorf("kind %s: status %d, want %d", tc.kind, rec.Code, tc.want)
		}
		var env Envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatal(err)
		}
		if env.Success || env.Error == nil || env.Error.Kind != string(tc.kind) {
			t.Errorf("kind %s: bad envelope %+v", tc.kind, env)
		}
	}
}

func TestFailUnclassified(t *testing.T) {
	c, rec := newContext(t)
	if err := Fail(c, errors.New("boom")); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unclassified errors are treated as faults, got %d", rec.Code)
	}
}

func TestOKWithWarnings(t *testing.T) {
	c, rec := newContext(t)
	if err := OKWithWarnings(c, http.StatusCreated, "x", []string{"calendar sync failed"}); err != nil {
		t.Fatal(err)
	}
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if len(env.Warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", env.Warnings)
	}
}
