package ports

import "context"

// ChargeInput carries one charge attempt. Amount is in minor currency
// units. IdempotencyKey lets the processor deduplicate retries.
type ChargeInput struct {
	Amount         int64
	Currency       string
	SourceToken    string
	IdempotencyKey string
}

// ChargeResult is the processor's answer to a successful charge.
type ChargeResult struct {
	ChargeID string
	// Amount is what was actually charged; the orchestrator records this,
	// not its own estimate.
	Amount int64
}

// PaymentGateway wraps the external payment processor. Implementations
// perform exactly one charge attempt per call and classify failures as
// *domain.PaymentError; retry policy belongs to the caller.
type PaymentGateway interface {
	Charge(ctx context.Context, in ChargeInput) (*ChargeResult, error)
}
