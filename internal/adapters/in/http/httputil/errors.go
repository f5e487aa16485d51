// Package httputil holds helpers shared by the HTTP handlers.
package httputil

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/bnema/pdv/internal/adapters/dto"
	"github.com/bnema/pdv/internal/domain"
)

// StatusFor maps a domain error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidBackupName),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrSelfDelete):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMalformedSnapshot):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrBackupNotFound),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrLastAdmin):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every error as {"error": "..."}. Internal errors are
// logged with the request id and returned with a generic message, except
// snapshot and restore failures whose cause the operator needs to see.
func ErrorHandler(logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := StatusFor(err)
		message := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(he.Code)
			}
		}

		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"request_id", requestID,
				"error", err,
			)
			if !exposesCause(err) {
				message = http.StatusText(status)
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, dto.ErrorResponse{Error: message, RequestID: requestID})
		}
		if writeErr != nil {
			logger.Warn("Failed to write error response", "error", writeErr)
		}
	}
}

func exposesCause(err error) bool {
	return errors.Is(err, domain.ErrSnapshotFailed) || errors.Is(err, domain.ErrRestoreFailed)
}
