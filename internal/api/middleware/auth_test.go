package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret, userID string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// runIdentity pushes one request through Identity and returns the user id
// the downstream handler observed.
func runIdentity(t *testing.T, mutate func(*http.Request)) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	mutate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	h := Identity(testSecret)(func(c echo.Context) error {
		seen, _ = c.Get(UserIDKey).(string)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("identity chain returned error: %v", err)
	}
	return seen
}

func TestIdentity_CookieToken(t *testing.T) {
	token := signTestToken(t, testSecret, "u1", time.Hour)
	seen := runIdentity(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	})
	if seen != "u1" {
		t.Fatalf("resolved user id = %q, want u1", seen)
	}
}

func TestIdentity_BearerToken(t *testing.T) {
	token := signTestToken(t, testSecret, "u2", time.Hour)
	seen := runIdentity(t, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	if seen != "u2" {
		t.Fatalf("resolved user id = %q, want u2", seen)
	}
}

func TestIdentity_AnonymousOnMissingOrBadCredential(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*http.Request)
	}{
		{"no credential", func(*http.Request) {}},
		{"garbage cookie", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "not-a-jwt"})
		}},
		{"wrong secret", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: TokenCookie, Value: signTestToken(t, "other-secret", "u1", time.Hour)})
		}},
		{"expired token", func(req *http.Request) {
			req.AddCookie(&http.Cookie{Name: TokenCookie, Value: signTestToken(t, testSecret, "u1", -time.Hour)})
		}},
		{"malformed auth header", func(req *http.Request) {
			req.Header.Set("Authorization", "Token abc")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if seen := runIdentity(t, tt.mutate); seen != "" {
				t.Fatalf("expected anonymous, resolved %q", seen)
			}
		})
	}
}

func TestIdentity_RejectsUnexpectedAlgorithm(t *testing.T) {
	// alg=none tokens must never authenticate.
	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u1"})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	seen := runIdentity(t, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: raw})
	})
	if seen != "" {
		t.Fatalf("alg=none token authenticated as %q", seen)
	}
}

func TestRequireSignIn(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	t.Run("anonymous rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := RequireSignIn()(next)(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %v", err)
		}
	})

	t.Run("signed-in passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(UserIDKey, "u1")

		if err := RequireSignIn()(next)(c); err != nil {
			t.Fatalf("signed-in request rejected: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})
}
