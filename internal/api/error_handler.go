package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/omsomani/account-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
// FieldErrors is present only on validation failures.
type errorResponse struct {
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Attaches the field→message map on validation failures.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: ve.Error(), FieldErrors: ve.Fields}
	}

	// Known domain errors → deterministic HTTP codes. InvalidCredentials
	// keeps its uniform message so login never reveals whether a number is
	// registered.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Error: "invalid token"}
	case errors.Is(err, domain.ErrMobileNumberTaken):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, errorResponse{Error: "account not found"}
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, errorResponse{Error: err.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
