package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/fintech_ledger/internal/middleware"
	"github.com/SscSPs/fintech_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, key, subject string, expires time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

// whoAmI echoes the owner the auth middleware stored.
func whoAmI(c *gin.Context) {
	ownerID, ok := middleware.GetOwnerIDFromContext(c)
	if !ok {
		c.Status(http.StatusTeapot)
		return
	}
	c.String(http.StatusOK, ownerID)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(middleware.NewJWTVerifier(secret)), whoAmI)

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid token", "Bearer " + signToken(t, secret, "owner-1", time.Now().Add(time.Hour)), http.StatusOK, "owner-1"},
		{"lowercase scheme", "bearer " + signToken(t, secret, "owner-1", time.Now().Add(time.Hour)), http.StatusOK, "owner-1"},
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Bearer {token}"},
		{"wrong key", "Bearer " + signToken(t, "other", "owner-1", time.Now().Add(time.Hour)), http.StatusUnauthorized, "Invalid token"},
		{"expired", "Bearer " + signToken(t, secret, "owner-1", time.Now().Add(-time.Hour)), http.StatusUnauthorized, "Token has expired"},
		{"no subject", "Bearer " + signToken(t, secret, "", time.Now().Add(time.Hour)), http.StatusUnauthorized, "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

type stubVerifier struct {
	ownerID string
	err     error
}

func (s stubVerifier) Verify(context.Context, string) (string, error) {
	return s.ownerID, s.err
}

func TestChainVerifier(t *testing.T) {
	ctx := context.Background()

	ownerID, err := middleware.ChainVerifier{
		stubVerifier{err: middleware.ErrInvalidToken},
		stubVerifier{ownerID: "owner-2"},
	}.Verify(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "owner-2", ownerID)

	_, err = middleware.ChainVerifier{
		stubVerifier{err: middleware.ErrInvalidToken},
		stubVerifier{err: errors.New("bad audience")},
	}.Verify(ctx, "tok")
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)

	_, err = middleware.ChainVerifier{}.Verify(ctx, "tok")
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)
}

func TestAdminKeyMiddleware(t *testing.T) {
	hash, err := utils.HashAdminKey("s3cret")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/admin", middleware.AdminKeyMiddleware(hash), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/disabled", middleware.AdminKeyMiddleware(""), func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(path, key string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if key != "" {
			req.Header.Set(middleware.AdminKeyHeader, key)
		}
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusOK, call("/admin", "s3cret"))
	assert.Equal(t, http.StatusUnauthorized, call("/admin", ""))
	assert.Equal(t, http.StatusForbidden, call("/admin", "guess"))
	assert.Equal(t, http.StatusForbidden, call("/disabled", "s3cret"))
}

func TestRateLimit_PerOwner(t *testing.T) {
	lim, err := middleware.NewLimiter("2-M", nil)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(middleware.NewJWTVerifier(secret)), middleware.RateLimit(lim), whoAmI)

	call := func(owner string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, secret, owner, time.Now().Add(time.Hour)))
		return serve(r, req)
	}

	assert.Equal(t, http.StatusOK, call("owner-1").Code)
	w := call("owner-1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusTooManyRequests, call("owner-1").Code)

	// Counters are per owner
	assert.Equal(t, http.StatusOK, call("owner-2").Code)
}

func TestNewLimiter_RejectsBadRate(t *testing.T) {
	_, err := middleware.NewLimiter("lots", nil)
	assert.Error(t, err)
}

func TestStructuredLoggingMiddleware_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(middleware.GetLoggerFromCtx(context.Background())))
	r.GET("/ping", func(c *gin.Context) {
		assert.NotNil(t, middleware.GetLoggerFromContext(c))
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := serve(r, req)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	w = serve(r, req)
	assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
}
