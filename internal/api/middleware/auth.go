package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	// TokenCookie is the HTTP-only cookie carrying the session JWT.
	TokenCookie = "token"
	// UserIDKey is the echo context key holding the resolved user id.
	UserIDKey = "user_id"
)

// Identity resolves the caller from the token cookie (or a bearer header)
// and injects the user id into context. Absence or invalidity of the
// credential yields an anonymous request, never an error: individual
// operations decide whether they require a signed-in caller.
func Identity(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return next(c)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				// Invalid credential: anonymous, not 401.
				return next(c)
			}

			if userID, ok := claims[UserIDKey].(string); ok && userID != "" {
				c.Set(UserIDKey, userID)
			}
			return next(c)
		}
	}
}

// RequireSignIn rejects anonymous requests. Route groups mount it after
// Identity for everything that mutates state or reads private data.
func RequireSignIn() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID, _ := c.Get(UserIDKey).(string); userID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "you must be signed in")
			}
			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
