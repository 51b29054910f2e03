package domain

import "fmt"

// CheckoutState represents the lifecycle state of a checkout transaction.
type CheckoutState string

const (
	CheckoutStart          CheckoutState = "start"
	CheckoutAuthenticated  CheckoutState = "authenticated"
	CheckoutCartLoaded     CheckoutState = "cart_loaded"
	CheckoutPriced         CheckoutState = "priced"
	CheckoutCharged        CheckoutState = "charged"
	CheckoutOrderPersisted CheckoutState = "order_persisted"
	CheckoutCartCleared    CheckoutState = "cart_cleared"
	CheckoutFailed         CheckoutState = "failed"
)

// checkoutTransitions defines the allowed forward transitions. Failed is
// reachable from any non-terminal state via Fail, not listed here.
var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutStart:          {CheckoutAuthenticated},
	CheckoutAuthenticated:  {CheckoutCartLoaded},
	CheckoutCartLoaded:     {CheckoutPriced},
	CheckoutPriced:         {CheckoutCharged},
	CheckoutCharged:        {CheckoutOrderPersisted},
	CheckoutOrderPersisted: {CheckoutCartCleared},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s is a terminal state.
func (s CheckoutState) Terminal() bool {
	return s == CheckoutCartCleared || s == CheckoutFailed
}

// Checkout tracks a single checkout transaction through its state machine.
// The orchestrator advances it step by step; any out-of-order advance is a
// programming error surfaced as ErrInvalidTransition.
type Checkout struct {
	state  CheckoutState
	reason error
}

func NewCheckout() *Checkout {
	return &Checkout{state: CheckoutStart}
}

func (c *Checkout) State() CheckoutState { return c.state }

// FailureReason returns the error recorded by Fail, or nil.
func (c *Checkout) FailureReason() error { return c.reason }

// Advance moves the checkout to next, enforcing the transition table.
func (c *Checkout) Advance(next CheckoutState) error {
	if !c.state.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, next)
	}
	c.state = next
	return nil
}

// Fail moves the checkout to the Failed terminal state, recording why.
// Failing an already-terminal checkout is invalid.
func (c *Checkout) Fail(reason error) error {
	if c.state.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, c.state, CheckoutFailed)
	}
	c.state = CheckoutFailed
	c.reason = reason
	return nil
}
