package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func rateRouter(rl *RateLimiter, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append(append([]gin.HandlerFunc{}, pre...), rl.Handler(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/ping", chain...)
	return r
}

func TestRateLimiter_EnforcesBurst(t *testing.T) {
	// rps 0 means the bucket never refills; only the burst is served.
	rl := NewRateLimiter(0, 2, KeyByUserOrIP())
	r := rateRouter(rl)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("over-limit status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" {
		t.Fatalf("missing Retry-After header")
	}
	if !strings.Contains(w.Body.String(), "rate_limited") {
		t.Fatalf("429 body missing error code: %s", w.Body.String())
	}
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(0, 1, KeyByUserOrIP())
	r := rateRouter(rl, func(c *gin.Context) {
		// Identity comes from a header so each "user" gets its own bucket.
		if uid := c.GetHeader("X-Test-User"); uid != "" {
			c.Set(CtxKeyUserID, uid)
		}
		c.Next()
	})

	send := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if send("alice") != http.StatusOK {
		t.Fatalf("alice first request limited")
	}
	if send("alice") != http.StatusTooManyRequests {
		t.Fatalf("alice second request not limited")
	}
	// A different user still has a full bucket.
	if send("bob") != http.StatusOK {
		t.Fatalf("bob limited by alice's bucket")
	}
}

func TestRateLimiter_ReplayBypass(t *testing.T) {
	rl := NewRateLimiter(0, 1, KeyByUserOrIP())
	r := rateRouter(rl, func(c *gin.Context) {
		c.Set(ctxKeyRateBypass, true)
		c.Next()
	})

	// Bypass requests never consume tokens, so they all pass.
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("bypassed request %d: status = %d", i, w.Code)
		}
	}
}

func TestKeyByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	keyFn := KeyByUserOrIP()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "203.0.113.7:1234"
	if got := keyFn(c); got != "ip:203.0.113.7" {
		t.Fatalf("anonymous key = %q", got)
	}

	c.Set(CtxKeyUserID, "u1")
	if got := keyFn(c); got != "user:u1" {
		t.Fatalf("authenticated key = %q", got)
	}
}

func TestNewRateLimiter_CoercesBurst(t *testing.T) {
	rl := NewRateLimiter(1, 0, KeyByUserOrIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d, want 1", rl.burst)
	}
}
