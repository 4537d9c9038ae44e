package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-platform/internal/middleware"
	"github.com/iliyamo/movie-ticket-platform/internal/utils"
)

const testSecret = "test-secret"

func protectedEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		id, _ := c.Get("customer_id").(uint64)
		return c.JSON(http.StatusOK, echo.Map{"customer_id": id})
	}, middleware.JWTAuth(testSecret, nil))
	return e
}

func TestJWTAuth_ValidToken(t *testing.T) {
	e := protectedEcho(t)

	access, err := utils.NewAccessToken(testSecret, 42, 5)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"customer_id":42`)
}

func TestJWTAuth_MissingOrInvalidToken(t *testing.T) {
	e := protectedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	e := protectedEcho(t)

	access, err := utils.NewAccessToken("other-secret", 42, 5)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+access.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
