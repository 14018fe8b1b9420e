// Package respond renders the API's uniform response envelope. Expected
// validation failures become structured {success:false, error:{...}}
// bodies; only storage faults and programming errors surface as 5xx.
package respond

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookline/bookline/pkg/apperr"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    *ErrorBody  `json:"error,omitempty"`
	Warnings []string    `json:"warnings,omitempty"`
}

// ErrorBody describes a failed operation.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// OK renders a successful response.
func OK(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// OKWithWarnings renders a successful response carrying side-effect
// warnings (e.g. a calendar sync that lagged behind the booking).
func OKWithWarnings(c echo.Context, status int, data interface{}, warnings []string) error {
	return c.JSON(status, Envelope{Success: true, Data: data, Warnings: warnings})
}

// Fail renders err using its kind to select the HTTP status.
func Fail(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	if kind == "" {
		kind = apperr.KindStorageUnavailable
	}
	return c.JSON(statusFor(kind), Envelope{
		Success: false,
		Error:   &ErrorBody{Kind: string(kind), Message: err.Error()},
	})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindMissingField, apperr.KindInvalidDuration,
		apperr.KindInvalidRule, apperr.KindInvalidFormat,
		apperr.KindPastDateTime:
		return http.StatusBadRequest
	case apperr.KindNotFound, apperr.KindProviderNotFound:
		return http.StatusNotFound
	case apperr.KindSlotUnavailable, apperr.KindIllegalTransition,
		apperr.KindTooEarly, apperr.KindTooLate, apperr.KindWithinGracePeriod,
		apperr.KindServiceNotOffered:
		return http.StatusConflict
	case apperr.KindStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
