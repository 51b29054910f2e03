package domain

import (
	"errors"
	"fmt"
)

var ErrNotAuthenticated = errors.New("you must be signed in")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidCredentials = errors.New("invalid credentials")

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrItemNotFound = errors.New("item not found")
var ErrCartItemNotFound = errors.New("cart item not found")
var ErrOrderNotFound = errors.New("order not found")

var ErrPasswordMismatch = errors.New("passwords do not match")
var ErrResetTokenInvalid = errors.New("reset token is invalid or expired")
var ErrInvalidPermission = errors.New("unknown permission")
var ErrEmptyCart = errors.New("cart is empty")

var ErrCheckoutInProgress = errors.New("a checkout is already in progress")
var ErrDuplicateRequest = errors.New("duplicate request")

var ErrInvalidTransition = errors.New("invalid checkout state transition")

// PaymentErrorKind classifies how a charge attempt failed.
type PaymentErrorKind string

const (
	PaymentDeclined      PaymentErrorKind = "declined"
	PaymentNetwork       PaymentErrorKind = "network"
	PaymentInvalidSource PaymentErrorKind = "invalid_source"
)

// PaymentError reports a failed charge attempt. The cart and order store are
// guaranteed untouched whenever one of these is returned.
type PaymentError struct {
	Kind PaymentErrorKind
	Err  error
}

func (e *PaymentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("payment %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("payment %s", e.Kind)
}

func (e *PaymentError) Unwrap() error { return e.Err }

// NewPaymentError wraps err with the given classification.
func NewPaymentError(kind PaymentErrorKind, err error) *PaymentError {
	return &PaymentError{Kind: kind, Err: err}
}

// ReconciliationRequiredError signals that money moved but no order record
// exists: the charge succeeded and order persistence failed. It always
// carries the processor charge id so an operator can resolve it.
type ReconciliationRequiredError struct {
	ChargeID string
	Err      error
}

func (e *ReconciliationRequiredError) Error() string {
	return fmt.Sprintf("order persistence failed after charge %s succeeded: %v", e.ChargeID, e.Err)
}

func (e *ReconciliationRequiredError) Unwrap() error { return e.Err }
