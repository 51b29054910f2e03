package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// idempotencyKeyHeader lets clients pin a checkout to a key so that
// retries of the same submission never charge twice.
const idempotencyKeyHeader = "Idempotency-Key"

// CheckoutHandler runs the checkout transaction for the signed-in caller.
type CheckoutHandler struct {
	service ports.CheckoutService
}

func NewCheckoutHandler(service ports.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

type checkoutRequest struct {
	// SourceToken is the tokenized payment source from the frontend.
	SourceToken string `json:"source_token" validate:"required"`
}

type checkoutResponse struct {
	Order          *domain.Order `json:"order"`
	AlreadyExisted bool          `json:"already_existed"`
}

// Checkout handles POST /v1/checkout.
//
// @Summary      Check out the current cart
// @Description  Prices the cart, charges the payment source, persists the
// @Description  order, and clears the purchased lines. Send the same
// @Description  Idempotency-Key header to make retries safe.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        Idempotency-Key  header    string           false  "Client-chosen dedup key"
// @Param        body             body      checkoutRequest  true   "Payment source"
// @Success      201  {object}  checkoutResponse
// @Success      200  {object}  checkoutResponse  "Replay of a completed checkout"
// @Failure      400  {object}  errorResponse     "Empty cart"
// @Failure      401  {object}  errorResponse
// @Failure      402  {object}  errorResponse     "Payment failed, nothing charged"
// @Failure      409  {object}  errorResponse     "Checkout already in progress"
// @Failure      500  {object}  errorResponse     "Charged but not recorded; includes charge_id"
// @Router       /v1/checkout [post]
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	start := time.Now()
	result, err := h.service.Checkout(c.Request().Context(), ports.CheckoutInput{
		UserID:         currentUserID(c),
		SourceToken:    req.SourceToken,
		IdempotencyKey: c.Request().Header.Get(idempotencyKeyHeader),
	})
	observeCheckout(start, result, err)
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, checkoutResponse{Order: result.Order, AlreadyExisted: result.AlreadyExisted})
}

func observeCheckout(start time.Time, result *ports.CheckoutResult, err error) {
	outcome := checkoutOutcome(result, err)
	metrics.CheckoutsTotal.WithLabelValues(outcome).Inc()
	metrics.CheckoutDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

func checkoutOutcome(result *ports.CheckoutResult, err error) string {
	if err == nil {
		if result.AlreadyExisted {
			return "replayed"
		}
		metrics.OrdersCreatedTotal.Inc()
		return "success"
	}

	var pErr *domain.PaymentError
	var rErr *domain.ReconciliationRequiredError
	switch {
	case errors.As(err, &pErr):
		metrics.PaymentErrorsTotal.WithLabelValues(string(pErr.Kind)).Inc()
		return "payment_failed"
	case errors.As(err, &rErr):
		metrics.ReconciliationsTotal.Inc()
		return "reconciliation"
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrNotAuthenticated),
		errors.Is(err, domain.ErrCheckoutInProgress),
		errors.Is(err, domain.ErrDuplicateRequest):
		return "rejected"
	default:
		return "error"
	}
}
