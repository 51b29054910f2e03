package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/metrics"
	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// CartHandler handles the signed-in caller's cart.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

type addToCartRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

type cartResponse struct {
	Lines []domain.CartLine `json:"lines"`
	Total int64             `json:"total"`
}

// Show handles GET /v1/cart.
//
// @Summary      Current cart
// @Tags         cart
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  cartResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/cart [get]
func (h *CartHandler) Show(c echo.Context) error {
	lines, err := h.service.Snapshot(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}

	var total int64
	for _, line := range lines {
		total += line.Item.Price * line.CartItem.Quantity
	}
	return c.JSON(http.StatusOK, cartResponse{Lines: lines, Total: total})
}

// Add handles POST /v1/cart.
//
// @Summary      Add an item to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      addToCartRequest  true  "Item to add"
// @Success      200   {object}  domain.CartItem
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/cart [post]
func (h *CartHandler) Add(c echo.Context) error {
	var req addToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	line, err := h.service.AddItem(c.Request().Context(), currentUserID(c), req.ItemID)
	if err != nil {
		return err
	}

	metrics.CartAddsTotal.Inc()
	return c.JSON(http.StatusOK, line)
}

// Remove handles DELETE /v1/cart/:id.
//
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Security     CookieAuth
// @Param        id  path  string  true  "Cart item id"
// @Success      204
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/cart/{id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	if err := h.service.RemoveItem(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
