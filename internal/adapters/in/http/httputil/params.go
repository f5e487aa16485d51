package httputil

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bnema/pdv/internal/domain"
)

// IDParam parses a positive integer path parameter.
func IDParam(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, name)
	}
	return id, nil
}

// Bind decodes the request body, reporting decode failures as invalid input.
func Bind(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput)
	}
	return nil
}
