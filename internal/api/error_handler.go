package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/salesdesk/crm-api/internal/api/handler"
	"github.com/salesdesk/crm-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the envelope {"success": false, "message": ..., "error": ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg, detail := resolveError(err, log, c)
		body := handler.ErrorResponse{Success: false, Message: msg, Error: detail}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

// resolveError returns the status, the client message and an optional detail
// for err. Details of domain errors are the wrapped context (deny reason,
// failed field) and are safe to expose.
func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors (bind failures, 404 from router, rate limiter, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message), ""
	}

	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired", ""
	case errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "Invalid token", ""
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Not authorized", err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials", ""
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusForbidden, "Account is inactive", ""
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access denied", err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found", ""
	case errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, "Record not found", ""
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "User already exists", ""
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "Validation failed", err.Error()
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "Too many failed login attempts, try again later", ""
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Internal server error", ""
}
