package validators

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

// NewValidator creates the validator installed on the Echo instance.
func NewValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate checks a bound request struct. The error names the first failing
// field so clients know exactly what to fix.
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
			first := fieldErrors[0]
			field := lowerFirst(first.Field())
			if first.Tag() == "required" {
				return echo.NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("missing required field %q", field))
			}
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("invalid value for field %q", field))
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
