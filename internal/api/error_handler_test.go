package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
)

func testContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/checkout", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestResolveError_DomainSentinels(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{domain.ErrNotAuthenticated, http.StatusUnauthorized},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrItemNotFound, http.StatusNotFound},
		{domain.ErrCartItemNotFound, http.StatusNotFound},
		{domain.ErrOrderNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrCheckoutInProgress, http.StatusConflict},
		{domain.ErrDuplicateRequest, http.StatusConflict},
		{domain.ErrPasswordMismatch, http.StatusBadRequest},
		{domain.ErrResetTokenInvalid, http.StatusBadRequest},
		{domain.ErrInvalidPermission, http.StatusBadRequest},
		{domain.ErrEmptyCart, http.StatusBadRequest},
	}
	for _, tt := range tests {
		code, body := resolveError(tt.err, zerolog.Nop(), testContext())
		if code != tt.code {
			t.Errorf("%v -> %d, want %d", tt.err, code, tt.code)
		}
		if body.Error == "" {
			t.Errorf("%v -> empty error message", tt.err)
		}
	}
}

func TestResolveError_WrappedSentinelStillMaps(t *testing.T) {
	wrapped := errors.Join(errors.New("loading cart"), domain.ErrEmptyCart)
	code, _ := resolveError(wrapped, zerolog.Nop(), testContext())
	if code != http.StatusBadRequest {
		t.Fatalf("wrapped sentinel -> %d, want 400", code)
	}
}

func TestResolveError_PaymentErrors(t *testing.T) {
	tests := []struct {
		kind domain.PaymentErrorKind
		msg  string
	}{
		{domain.PaymentDeclined, "payment declined"},
		{domain.PaymentInvalidSource, "invalid payment source"},
		{domain.PaymentNetwork, "payment could not be processed, you have not been charged"},
	}
	for _, tt := range tests {
		code, body := resolveError(domain.NewPaymentError(tt.kind, errors.New("processor detail")), zerolog.Nop(), testContext())
		if code != http.StatusPaymentRequired {
			t.Errorf("%s -> %d, want 402", tt.kind, code)
		}
		if body.Error != tt.msg {
			t.Errorf("%s -> %q, want %q", tt.kind, body.Error, tt.msg)
		}
	}
}

func TestResolveError_ReconciliationCarriesChargeID(t *testing.T) {
	err := &domain.ReconciliationRequiredError{ChargeID: "ch_123", Err: errors.New("insert failed")}
	code, body := resolveError(err, zerolog.Nop(), testContext())
	if code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", code)
	}
	if body.ChargeID != "ch_123" {
		t.Fatalf("charge id not surfaced: %+v", body)
	}
}

func TestResolveError_UnexpectedErrorsStayGeneric(t *testing.T) {
	code, body := resolveError(errors.New("mongo: socket closed"), zerolog.Nop(), testContext())
	if code != http.StatusInternalServerError {
		t.Fatalf("code = %d, want 500", code)
	}
	if body.Error != "internal server error" {
		t.Fatalf("storage detail leaked: %q", body.Error)
	}
}

func TestResolveError_EchoHTTPErrorPassthrough(t *testing.T) {
	code, body := resolveError(echo.NewHTTPError(http.StatusUnprocessableEntity, "title is required"), zerolog.Nop(), testContext())
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("code = %d, want 422", code)
	}
	if body.Error != "title is required" {
		t.Fatalf("message = %q", body.Error)
	}
}
