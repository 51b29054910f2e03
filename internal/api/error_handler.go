package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	// ChargeID is set only on reconciliation failures so the caller can
	// reference the charge with support.
	ChargeID string `json:"charge_id,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps the domain error taxonomy to stable HTTP status codes and
//     distinct messages.
//   - Logs unexpected errors internally without leaking storage detail.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
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

	// Payment failures: stable message per classification, 402 for all.
	var pErr *domain.PaymentError
	if errors.As(err, &pErr) {
		switch pErr.Kind {
		case domain.PaymentDeclined:
			return http.StatusPaymentRequired, errorResponse{Error: "payment declined"}
		case domain.PaymentInvalidSource:
			return http.StatusPaymentRequired, errorResponse{Error: "invalid payment source"}
		default:
			return http.StatusPaymentRequired, errorResponse{Error: "payment could not be processed, you have not been charged"}
		}
	}

	// Charge succeeded, order did not persist. The request fails but the
	// caller gets the charge reference; the audit record already exists.
	var rErr *domain.ReconciliationRequiredError
	if errors.As(err, &rErr) {
		log.Error().Err(err).Str("charge_id", rErr.ChargeID).Msg("checkout pending reconciliation")
		return http.StatusInternalServerError, errorResponse{
			Error:    "your payment was captured but the order could not be recorded; support has been notified",
			ChargeID: rErr.ChargeID,
		}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "you must be signed in"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, errorResponse{Error: "item not found"}
	case errors.Is(err, domain.ErrCartItemNotFound):
		return http.StatusNotFound, errorResponse{Error: "cart item not found"}
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, errorResponse{Error: "order not found"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusBadRequest, errorResponse{Error: "passwords do not match"}
	case errors.Is(err, domain.ErrResetTokenInvalid):
		return http.StatusBadRequest, errorResponse{Error: "reset token is invalid or expired"}
	case errors.Is(err, domain.ErrInvalidPermission):
		return http.StatusBadRequest, errorResponse{Error: "unknown permission"}
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest, errorResponse{Error: "cart is empty"}
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return http.StatusConflict, errorResponse{Error: "a checkout is already in progress"}
	case errors.Is(err, domain.ErrDuplicateRequest):
		return http.StatusConflict, errorResponse{Error: "duplicate request"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
