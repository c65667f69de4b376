package middleware

import (
	"net/http"

	"github.com/Zain0205/travelin-be/internal/apperr"
	"github.com/Zain0205/travelin-be/internal/dto"
	"github.com/labstack/echo/v4"
)

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalid, apperr.KindInvalidState:
		return http.StatusBadRequest
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler maps domain errors onto HTTP statuses so handlers can return
// service errors untouched.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	} else if kind := apperr.KindOf(err); kind != apperr.KindUnknown {
		code = statusForKind(kind)
	} else {
		msg = "internal server error"
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
