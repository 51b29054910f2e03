package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// ItemHandler handles HTTP requests for catalog items.
type ItemHandler struct {
	service ports.ItemService
}

func NewItemHandler(service ports.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

type createItemRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Image       string `json:"image"`
	LargeImage  string `json:"large_image"`
	Price       int64  `json:"price" validate:"required,gt=0"`
}

type updateItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	LargeImage  *string `json:"large_image"`
	Price       *int64  `json:"price" validate:"omitempty,gt=0"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listItemsResponse struct {
	Data       []*domain.Item     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// List handles GET /v1/items.
//
// @Summary      List catalog items
// @Tags         items
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100)"
// @Success      200    {object}  listItemsResponse
// @Router       /v1/items [get]
func (h *ItemHandler) List(c echo.Context) error {
	var filter ports.ListItemsFilter
	echo.QueryParamsBinder(c).Int("page", &filter.Page).Int("limit", &filter.Limit)

	result, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listItemsResponse{
		Data: result.Items,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: result.TotalPages,
		},
	})
}

// Get handles GET /v1/items/:id.
//
// @Summary      Get an item
// @Tags         items
// @Produce      json
// @Param        id  path      string  true  "Item id"
// @Success      200 {object}  domain.Item
// @Failure      404 {object}  errorResponse
// @Router       /v1/items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /v1/items.
//
// @Summary      Create an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      createItemRequest  true  "Item details"
// @Success      201   {object}  domain.Item
// @Failure      401   {object}  errorResponse
// @Router       /v1/items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	item, err := h.service.Create(c.Request().Context(), currentUserID(c), ports.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PATCH /v1/items/:id.
//
// @Summary      Update an item
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string             true  "Item id"
// @Param        body  body      updateItemRequest  true  "Fields to change"
// @Success      200   {object}  domain.Item
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/items/{id} [patch]
func (h *ItemHandler) Update(c echo.Context) error {
	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	item, err := h.service.Update(c.Request().Context(), currentUserID(c), c.Param("id"), ports.ItemUpdate{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /v1/items/:id.
//
// @Summary      Delete an item
// @Tags         items
// @Produce      json
// @Security     CookieAuth
// @Param        id  path  string  true  "Item id"
// @Success      204
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /v1/items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
