package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/core/domain"
	"github.com/storefront/commerce-api/internal/core/ports"
)

// UserHandler exposes user administration. Every route here is gated on
// ADMIN or PERMISSIONUPDATE inside the service.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type listUsersResponse struct {
	Users []*domain.User `json:"users"`
}

type updatePermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

// List handles GET /v1/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  listUsersResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Users: users})
}

// UpdatePermissions handles PUT /v1/users/:id/permissions. The target is
// always the user named in the path, never the caller.
//
// @Summary      Replace a user's permissions
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string                    true  "Target user id"
// @Param        body  body      updatePermissionsRequest  true  "Full permission set"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/permissions [put]
func (h *UserHandler) UpdatePermissions(c echo.Context) error {
	var req updatePermissionsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	perms := make([]domain.Permission, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		perms = append(perms, domain.Permission(p))
	}

	user, err := h.service.UpdatePermissions(c.Request().Context(), currentUserID(c), c.Param("id"), perms)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
