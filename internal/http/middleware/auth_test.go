package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// fakeVerifier maps exact token strings to user IDs.
type fakeVerifier map[string]string

func (f fakeVerifier) VerifyToken(token string) (string, error) {
	if uid, ok := f[token]; ok {
		return uid, nil
	}
	return "", errors.New("bad token")
}

func authRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		c.String(http.StatusOK, UserIDFrom(c))
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	r := authRouter(RequireAuth(fakeVerifier{"good": "u1"}))

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"empty token", "Bearer   ", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid token", "Bearer good", http.StatusOK, "u1"},
		{"case-insensitive scheme", "bearer good", http.StatusOK, "u1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body=%s)", w.Code, tc.wantStatus, w.Body.String())
			}
			if tc.wantStatus == http.StatusOK && w.Body.String() != tc.wantBody {
				t.Fatalf("body = %q, want %q", w.Body.String(), tc.wantBody)
			}
			if tc.wantStatus == http.StatusUnauthorized &&
				!strings.Contains(w.Body.String(), `"code":"unauthorized"`) {
				t.Fatalf("401 body missing error code: %s", w.Body.String())
			}
		})
	}
}

func TestOptionalAuth_NeverRejects(t *testing.T) {
	r := authRouter(OptionalAuth(fakeVerifier{"good": "u1"}))

	// Anonymous request sails through with no identity.
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "" {
		t.Fatalf("anonymous: status=%d body=%q", w.Code, w.Body.String())
	}

	// Invalid token is treated as anonymous, not as an error.
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer nope")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "" {
		t.Fatalf("invalid token: status=%d body=%q", w.Code, w.Body.String())
	}

	// Valid token resolves the identity.
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "u1" {
		t.Fatalf("valid token: status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestUserIDFrom_NonStringValue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(CtxKeyUserID, 42) // wrong type; must degrade to anonymous
	if got := UserIDFrom(c); got != "" {
		t.Fatalf("UserIDFrom with non-string value = %q, want empty", got)
	}
}
