package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimart/agrimart-gateway/pkg/session"
)

const testSigningKey = "test-signing-key"

func signedToken(t *testing.T, userID uint, role string) string {
	t.Helper()
	claims := &session.Claims{
		Email:  "farmer@agrimart.test",
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSigningKey))
	require.NoError(t, err)
	return signed
}

func runAuth(t *testing.T, authHeader string, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/farmer-products/catalog", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := AuthMiddleware(session.NewVerifier(testSigningKey))
	return rec, mw(next)(c)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token := signedToken(t, 42, "farmer")

	var seen *session.Identity
	rec, err := runAuth(t, "Bearer "+token, func(c echo.Context) error {
		id, ok := session.FromContext(c.Request().Context())
		require.True(t, ok, "identity must reach the request context")
		seen = id
		assert.Equal(t, uint(42), c.Get("user_id"))
		assert.Equal(t, "farmer", c.Get("user_role"))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, seen)
	assert.Equal(t, uint(42), seen.UserID)
	assert.Equal(t, "farmer@agrimart.test", seen.Email)
	assert.Equal(t, token, seen.Token)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	rec, err := runAuth(t, "", func(c echo.Context) error {
		t.Fatal("next handler must not run")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer a b"} {
		rec, err := runAuth(t, header, func(c echo.Context) error {
			t.Fatalf("next handler must not run for %q", header)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestAuthMiddleware_BadSignature(t *testing.T) {
	claims := &session.Claims{
		UserID:           42,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("some-other-key"))
	require.NoError(t, err)

	rec, mwErr := runAuth(t, "Bearer "+signed, func(c echo.Context) error {
		t.Fatal("next handler must not run")
		return nil
	})
	require.NoError(t, mwErr)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
