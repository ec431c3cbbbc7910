package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/doktorlar", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequestID_Generated(t *testing.T) {
	c, rec := newTestContext(t)

	err := RequestID()(okHandler)(c)
	require.NoError(t, err)

	rid, ok := c.Get(RequestIDKey).(string)
	require.True(t, ok)
	assert.NotEmpty(t, rid)
	assert.Equal(t, rid, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_HonorsIncomingHeader(t *testing.T) {
	c, rec := newTestContext(t)
	c.Request().Header.Set(RequestIDHeader, "abc-123")

	err := RequestID()(okHandler)(c)
	require.NoError(t, err)

	assert.Equal(t, "abc-123", c.Get(RequestIDKey))
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	c, _ := newTestContext(t)

	panicking := func(c echo.Context) error {
		panic("boom")
	}

	err := Recovery(zerolog.Nop())(panicking)(c)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
}

func TestRecovery_PassesThrough(t *testing.T) {
	c, _ := newTestContext(t)

	err := Recovery(zerolog.Nop())(okHandler)(c)
	assert.NoError(t, err)
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 3})

	for i := 0; i < 3; i++ {
		c, _ := newTestContext(t)
		require.NoError(t, mw(okHandler)(c))
	}
}

func TestRateLimit_RejectsWhenExhausted(t *testing.T) {
	mw := RateLimit(RateLimitConfig{RequestsPerSecond: 0.001, BurstSize: 1})

	c, _ := newTestContext(t)
	require.NoError(t, mw(okHandler)(c))

	c, rec := newTestContext(t)
	err := mw(okHandler)(c)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestLogger_ReturnsHandlerError(t *testing.T) {
	c, _ := newTestContext(t)

	failing := func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad input")
	}

	err := Logger(zerolog.Nop())(failing)(c)
	require.Error(t, err)
}
