package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tradevault/backend/internal/apperrors"
)

// httpError maps the error taxonomy onto HTTP status codes. Store failures
// stay opaque 500s; validation errors surface the missing field verbatim.
func httpError(err error) error {
	switch {
	case apperrors.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case apperrors.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case apperrors.IsConflict(err):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
