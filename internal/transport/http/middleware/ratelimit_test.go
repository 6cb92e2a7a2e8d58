package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func throttledStatus(t *testing.T, mw gin.HandlerFunc) (*httptest.ResponseRecorder, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))
	return first, second
}

func TestRateLimitWireCodeMatchesStatus(t *testing.T) {
	// burst of one and no refill: the second request must be throttled
	first, second := throttledStatus(t, RateLimit(0, 1))

	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d", second.Code)
	}
	var body struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(second.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", second.Body.String(), err)
	}
	if body.Code != http.StatusTooManyRequests {
		t.Errorf("wire code = %d, want %d", body.Code, http.StatusTooManyRequests)
	}
}

func TestRateLimitPerIPWireCodeMatchesStatus(t *testing.T) {
	_, second := throttledStatus(t, RateLimitPerIP(0, 1))

	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d", second.Code)
	}
	var body struct {
		Code int `json:"code"`
	}
	if err := json.Unmarshal(second.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", second.Body.String(), err)
	}
	if body.Code != http.StatusTooManyRequests {
		t.Errorf("wire code = %d, want %d", body.Code, http.StatusTooManyRequests)
	}
}
