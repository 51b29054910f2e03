package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/commerce-api/internal/api/middleware"
)

// currentUserID extracts the user id injected by the Identity middleware.
// Empty means anonymous; operations that need a caller surface
// ErrNotAuthenticated from the service layer (or are gated by
// RequireSignIn on the route).
func currentUserID(c echo.Context) string {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	return userID
}
