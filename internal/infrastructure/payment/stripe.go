// Package payment adapts the external payment processor behind the
// ports.PaymentGateway interface. Exactly one charge attempt per call;
// retry policy lives with the checkout orchestrator.
package payment

import (
	"context"
	"errors"
	"fmt"

	stripe "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// StripeGateway charges tokenized sources through Stripe.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api}
}

// Charge performs a single charge attempt. The idempotency key is passed
// through to the processor so it can deduplicate a retried attempt; we
// never retry here ourselves.
func (g *StripeGateway) Charge(ctx context.Context, in ports.ChargeInput) (*ports.ChargeResult, error) {
	params := &stripe.ChargeParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(in.Amount),
		Currency: stripe.String(in.Currency),
	}
	if err := params.SetSource(in.SourceToken); err != nil {
		return nil, domain.NewPaymentError(domain.PaymentInvalidSource, err)
	}
	if in.IdempotencyKey != "" {
		params.SetIdempotencyKey(in.IdempotencyKey)
	}

	ch, err := g.api.Charges.New(params)
	if err != nil {
		return nil, classify(ctx, err)
	}

	return &ports.ChargeResult{ChargeID: ch.ID, Amount: ch.Amount}, nil
}

// classify maps processor failures onto the payment error taxonomy.
func classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return domain.NewPaymentError(domain.PaymentNetwork, fmt.Errorf("charge aborted: %w", ctx.Err()))
	}

	var sErr *stripe.Error
	if errors.As(err, &sErr) {
		switch sErr.Type {
		case stripe.ErrorTypeCard:
			return domain.NewPaymentError(domain.PaymentDeclined, err)
		case stripe.ErrorTypeInvalidRequest:
			// Bad or reused source token, malformed request.
			return domain.NewPaymentError(domain.PaymentInvalidSource, err)
		default:
			return domain.NewPaymentError(domain.PaymentNetwork, err)
		}
	}

	// Transport-level failure before a classified processor answer.
	return domain.NewPaymentError(domain.PaymentNetwork, err)
}
