package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/fremdrift-as/inquiry-api/internal/config"
	"github.com/fremdrift-as/inquiry-api/internal/http/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":12345"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:           false,
		RequestsPerMinute: 1,
	}, zap.NewNop())

	handler := rl.LimitByIP(okHandler())
	for i := 0; i < 5; i++ {
		w := doRequest(handler, "/test", "10.0.0.1")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_LimitByIP(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     2,
		RequestsPerMinuteAuth: 2,
		PublicFormPerHour:     2,
	}, zap.NewNop())

	handler := rl.LimitByIP(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(handler, "/test", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, "/test", "10.0.0.1").Code)

	w := doRequest(handler, "/test", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"status":"fail","message":"Too many requests. Please try again later."}`, w.Body.String())

	// Other clients are unaffected
	assert.Equal(t, http.StatusOK, doRequest(handler, "/test", "10.0.0.2").Code)
}

func TestRateLimiter_WhitelistedPathBypasses(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     1,
		RequestsPerMinuteAuth: 1,
		PublicFormPerHour:     1,
		WhitelistPaths:        []string{"/health"},
	}, zap.NewNop())

	handler := rl.LimitByIP(okHandler())
	for i := 0; i < 5; i++ {
		w := doRequest(handler, "/health", "10.0.0.1")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_WhitelistedIPBypasses(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     1,
		RequestsPerMinuteAuth: 1,
		PublicFormPerHour:     1,
		WhitelistIPs:          []string{"10.0.0.9"},
	}, zap.NewNop())

	handler := rl.LimitByIP(okHandler())
	for i := 0; i < 5; i++ {
		w := doRequest(handler, "/test", "10.0.0.9")
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimiter_PublicFormTighterLimit(t *testing.T) {
	rl := middleware.NewRateLimiter(&config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     100,
		RequestsPerMinuteAuth: 100,
		PublicFormPerHour:     1,
	}, zap.NewNop())

	handler := rl.LimitPublicForm(okHandler())

	assert.Equal(t, http.StatusOK, doRequest(handler, "/api/v1/inquiries", "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "/api/v1/inquiries", "10.0.0.1").Code)
}
