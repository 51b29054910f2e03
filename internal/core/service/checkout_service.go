package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// IdempotencyClaim is the outcome of claiming a checkout idempotency key.
// Exactly one of the fields is meaningful: Acquired means this request now
// owns the key; CompletedOrderID means a previous checkout finished under
// it; ReconcileChargeID means a previous checkout charged but failed to
// persist (the key is poisoned and must never charge again); InFlight
// means another request currently owns it.
type IdempotencyClaim struct {
	Acquired          bool
	CompletedOrderID  string
	ReconcileChargeID string
	InFlight          bool
}

// IdempotencyStore abstracts the durable claim ledger (Redis).
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (IdempotencyClaim, error)
	Complete(ctx context.Context, key, orderID string) error
	MarkReconciliation(ctx context.Context, key, chargeID string) error
	Release(ctx context.Context, key string) error
}

// CheckoutGuard serializes checkouts per user so two concurrent attempts
// cannot both spend the same cart.
type CheckoutGuard interface {
	Acquire(ctx context.Context, userID string) (bool, error)
	Release(ctx context.Context, userID string) error
}

const defaultChargeTimeout = 30 * time.Second

// CheckoutService orchestrates the cart -> charge -> order transaction as
// an explicit state machine with compensation on failure.
type CheckoutService struct {
	users    ports.UserRepository
	cart     ports.CartService
	orders   ports.OrderRepository
	recon    ports.ReconciliationRepository
	payments ports.PaymentGateway
	idem     IdempotencyStore
	guard    CheckoutGuard

	currency      string
	chargeTimeout time.Duration
	log           zerolog.Logger
	newKey        func() string
}

func NewCheckoutService(
	users ports.UserRepository,
	cart ports.CartService,
	orders ports.OrderRepository,
	recon ports.ReconciliationRepository,
	payments ports.PaymentGateway,
	idem IdempotencyStore,
	guard CheckoutGuard,
	currency string,
	chargeTimeout time.Duration,
	log zerolog.Logger,
) *CheckoutService {
	if currency == "" {
		currency = "usd"
	}
	if chargeTimeout <= 0 {
		chargeTimeout = defaultChargeTimeout
	}
	return &CheckoutService{
		users:         users,
		cart:          cart,
		orders:        orders,
		recon:         recon,
		payments:      payments,
		idem:          idem,
		guard:         guard,
		currency:      currency,
		chargeTimeout: chargeTimeout,
		log:           log,
		newKey:        uuid.NewString,
	}
}

// Checkout runs one checkout transaction.
//
// Invariants it enforces:
//   - a failed charge never produces an order and never touches the cart;
//   - the recorded total is the amount the processor charged;
//   - the cart is cleared using exactly the line ids captured at snapshot
//     time, so lines added during the charge window survive;
//   - once the charge succeeds, persistence runs to completion even if
//     the caller disconnects;
//   - a replay under a completed idempotency key returns the existing
//     order without a second charge; a key whose first attempt ended in
//     reconciliation never charges again.
func (s *CheckoutService) Checkout(ctx context.Context, in ports.CheckoutInput) (*ports.CheckoutResult, error) {
	cs := domain.NewCheckout()

	// Start -> Authenticated.
	if in.UserID == "" {
		_ = cs.Fail(domain.ErrNotAuthenticated)
		return nil, domain.ErrNotAuthenticated
	}
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		_ = cs.Fail(err)
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrNotAuthenticated
		}
		return nil, err
	}
	if err := cs.Advance(domain.CheckoutAuthenticated); err != nil {
		return nil, err
	}

	key := in.IdempotencyKey
	if key == "" {
		key = s.newKey()
	}

	claim, err := s.idem.Claim(ctx, key)
	if err != nil {
		_ = cs.Fail(err)
		return nil, fmt.Errorf("idempotency claim: %w", err)
	}
	switch {
	case claim.CompletedOrderID != "":
		order, err := s.orders.FindByID(ctx, claim.CompletedOrderID)
		if err != nil {
			return nil, fmt.Errorf("idempotent replay: %w", err)
		}
		s.log.Info().Str("idempotency_key", key).Str("order_id", order.ID).Msg("idempotent replay")
		return &ports.CheckoutResult{Order: order, AlreadyExisted: true}, nil
	case claim.ReconcileChargeID != "":
		// Money moved on a prior attempt; never charge this key again.
		_ = cs.Fail(domain.ErrDuplicateRequest)
		return nil, &domain.ReconciliationRequiredError{ChargeID: claim.ReconcileChargeID, Err: errors.New("previous attempt pending reconciliation")}
	case claim.InFlight:
		_ = cs.Fail(domain.ErrDuplicateRequest)
		return nil, domain.ErrDuplicateRequest
	}

	// Serialize per user. The guard is a remote marker, not an in-process
	// lock, so nothing blocks on it while the charge is outstanding.
	acquired, err := s.guard.Acquire(ctx, user.ID)
	if err != nil {
		s.releaseClaim(ctx, key)
		_ = cs.Fail(err)
		return nil, fmt.Errorf("checkout guard: %w", err)
	}
	if !acquired {
		s.releaseClaim(ctx, key)
		_ = cs.Fail(domain.ErrCheckoutInProgress)
		return nil, domain.ErrCheckoutInProgress
	}
	defer func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), user.ID); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("checkout guard release failed")
		}
	}()

	// Authenticated -> CartLoaded. The snapshot is the authoritative view
	// for pricing, order lines, and the final clear.
	snapshot, err := s.cart.Snapshot(ctx, user.ID)
	if err != nil {
		s.releaseClaim(ctx, key)
		_ = cs.Fail(err)
		return nil, err
	}
	if len(snapshot) == 0 {
		s.releaseClaim(ctx, key)
		_ = cs.Fail(domain.ErrEmptyCart)
		return nil, domain.ErrEmptyCart
	}
	if err := cs.Advance(domain.CheckoutCartLoaded); err != nil {
		return nil, err
	}

	// CartLoaded -> Priced.
	total := ComputeTotal(snapshot)
	if err := cs.Advance(domain.CheckoutPriced); err != nil {
		return nil, err
	}

	// Priced -> Charged. On any payment failure nothing has been
	// persisted: no order exists and the cart is untouched.
	charge, err := s.charge(ctx, total, in.SourceToken, key)
	if err != nil {
		s.releaseClaim(ctx, key)
		_ = cs.Fail(err)
		s.log.Warn().Err(err).Str("user_id", user.ID).Int64("amount", total).Msg("charge failed")
		return nil, err
	}
	if err := cs.Advance(domain.CheckoutCharged); err != nil {
		return nil, err
	}

	// Money has moved. From here on the caller's disconnect must not
	// abandon the transaction, so cancellation is detached.
	pctx := context.WithoutCancel(ctx)

	order := &domain.Order{
		ID:     s.newKey(),
		UserID: user.ID,
		// The processor's answer is authoritative, not our estimate.
		Total:     charge.Amount,
		Currency:  s.currency,
		ChargeID:  charge.ChargeID,
		Lines:     orderLines(snapshot),
		CreatedAt: time.Now().UTC(),
	}

	// Charged -> OrderPersisted.
	if err := s.orders.Create(pctx, order); err != nil {
		_ = cs.Fail(err)
		return nil, s.reconcile(pctx, key, user.ID, charge, snapshot, err)
	}
	if err := cs.Advance(domain.CheckoutOrderPersisted); err != nil {
		return nil, err
	}

	// OrderPersisted -> CartCleared: exactly the snapshotted ids.
	ids := make([]string, 0, len(snapshot))
	for _, line := range snapshot {
		ids = append(ids, line.CartItem.ID)
	}
	if err := s.cart.Clear(pctx, user.ID, ids); err != nil {
		// The order and charge are durable; failing the request here would
		// misreport a completed purchase. Leftover lines remain visible.
		s.log.Error().Err(err).Str("order_id", order.ID).Str("user_id", user.ID).Msg("cart clear failed after order persisted")
	}
	if err := cs.Advance(domain.CheckoutCartCleared); err != nil {
		return nil, err
	}

	if err := s.idem.Complete(pctx, key, order.ID); err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to record idempotency completion")
	}

	s.log.Info().
		Str("order_id", order.ID).
		Str("user_id", user.ID).
		Str("charge_id", charge.ChargeID).
		Int64("total", order.Total).
		Int("lines", len(order.Lines)).
		Msg("checkout complete")

	return &ports.CheckoutResult{Order: order}, nil
}

// charge performs the bounded payment call. A timeout is classified as
// PaymentError(network) and retried exactly once with a fresh idempotency
// key so the processor can distinguish the attempts; every other failure
// surfaces immediately.
func (s *CheckoutService) charge(ctx context.Context, amount int64, source, checkoutKey string) (*ports.ChargeResult, error) {
	attempt := func(key string) (*ports.ChargeResult, error) {
		cctx, cancel := context.WithTimeout(ctx, s.chargeTimeout)
		defer cancel()
		res, err := s.payments.Charge(cctx, ports.ChargeInput{
			Amount:         amount,
			Currency:       s.currency,
			SourceToken:    source,
			IdempotencyKey: key,
		})
		if err != nil && cctx.Err() != nil && ctx.Err() == nil {
			return nil, domain.NewPaymentError(domain.PaymentNetwork, cctx.Err())
		}
		return res, err
	}

	res, err := attempt(checkoutKey)
	var pErr *domain.PaymentError
	if err != nil && errors.As(err, &pErr) && pErr.Kind == domain.PaymentNetwork {
		retryKey := s.newKey()
		s.log.Warn().Str("retry_key", retryKey).Msg("payment timed out, retrying once with a fresh idempotency key")
		return attempt(retryKey)
	}
	return res, err
}

// reconcile records the charge-without-order condition durably and
// poisons the idempotency key so no retry re-charges it. The caller still
// receives a failure, but never a silent one.
func (s *CheckoutService) reconcile(ctx context.Context, key, userID string, charge *ports.ChargeResult, snapshot []domain.CartLine, cause error) error {
	if err := s.idem.MarkReconciliation(ctx, key, charge.ChargeID); err != nil {
		s.log.Error().Err(err).Str("charge_id", charge.ChargeID).Msg("failed to poison idempotency key")
	}

	rec := &ports.ReconciliationRecord{
		ChargeID:       charge.ChargeID,
		UserID:         userID,
		Amount:         charge.Amount,
		Currency:       s.currency,
		IdempotencyKey: key,
		Lines:          orderLines(snapshot),
		Reason:         cause.Error(),
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.recon.Insert(ctx, rec); err != nil {
		// Last line of defense: the structured log is the audit record.
		s.log.Error().Err(err).
			Str("charge_id", charge.ChargeID).
			Str("user_id", userID).
			Int64("amount", charge.Amount).
			Msg("RECONCILIATION RECORD WRITE FAILED, charge has no order")
	} else {
		s.log.Error().
			Str("charge_id", charge.ChargeID).
			Str("user_id", userID).
			Msg("charge succeeded but order persistence failed, reconciliation recorded")
	}

	return &domain.ReconciliationRequiredError{ChargeID: charge.ChargeID, Err: cause}
}

func (s *CheckoutService) releaseClaim(ctx context.Context, key string) {
	if err := s.idem.Release(context.WithoutCancel(ctx), key); err != nil {
		s.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency release failed")
	}
}

// orderLines snapshots cart lines into immutable order lines.
func orderLines(snapshot []domain.CartLine) []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(snapshot))
	for _, l := range snapshot {
		lines = append(lines, domain.OrderLine{
			ItemID:      l.Item.ID,
			Title:       l.Item.Title,
			Description: l.Item.Description,
			Image:       l.Item.Image,
			LargeImage:  l.Item.LargeImage,
			Price:       l.Item.Price,
			Quantity:    l.CartItem.Quantity,
		})
	}
	return lines
}
