package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// OrderHandler exposes order read paths. Orders are only ever written by
// checkout.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type listOrdersResponse struct {
	Orders []*domain.Order `json:"orders"`
}

// List handles GET /v1/orders.
//
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  listOrdersResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.service.ListMine(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listOrdersResponse{Orders: orders})
}

// Get handles GET /v1/orders/:id. The order is visible to its owner and
// to admins; everyone else gets 403.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     CookieAuth
// @Param        id  path      string  true  "Order id"
// @Success      200 {object}  domain.Order
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	order, err := h.service.Get(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
