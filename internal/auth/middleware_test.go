package auth

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFromContext(r.Context()) == "" && r.URL.Path != "/healthz" {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

func newTestMiddleware(secret []byte, exempt ...string) *Middleware {
	return NewMiddleware(secret, BillingPolicy(exempt...), log.New(io.Discard, "", 0))
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	mw := newTestMiddleware([]byte("test-secret"))
	handler := mw.Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plays", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if resp.Header().Get("WWW-Authenticate") == "" {
		t.Fatalf("expected bearer challenge")
	}
}

func TestAuthMiddleware_ViewerForbiddenCatalogReload(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, "viewer", time.Hour)
	handler := newTestMiddleware(secret).Wrap(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}

func TestAuthMiddleware_ViewerReadsStatement(t *testing.T) {
	secret := []byte("test-secret")
	token, err := IssueJWT(secret, "user-1", RoleViewer, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	handler := newTestMiddleware(secret).Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/inv-1/statement", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	token := mustToken(t, secret, "admin", -time.Minute)
	handler := newTestMiddleware(secret).Wrap(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plays", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAuthMiddleware_ExemptAndDisabled(t *testing.T) {
	handler := newTestMiddleware([]byte("test-secret"), "/healthz").Wrap(okHandler())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected exempt 200, got %d", resp.Code)
	}

	mw := newTestMiddleware(nil)
	if mw.Enabled() {
		t.Fatalf("expected disabled middleware")
	}
	passthrough := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	resp = httptest.NewRecorder()
	passthrough.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected passthrough, got %d", resp.Code)
	}
}

func TestBillingPolicy_RequiredRole(t *testing.T) {
	policy := BillingPolicy("/healthz")
	cases := []struct {
		method  string
		path    string
		role    Role
		guarded bool
	}{
		{http.MethodPost, "/api/v1/catalog/reload", RoleAdmin, true},
		{http.MethodGet, "/api/v1/plays", RoleViewer, true},
		{http.MethodPost, "/api/v1/statements", RoleViewer, true},
		{http.MethodGet, "/api/v1/invoices/inv-1/statement", RoleViewer, true},
		{http.MethodDelete, "/api/v1/plays", RoleOperator, true},
		{http.MethodGet, "/healthz", "", false},
		{http.MethodGet, "/metrics", "", false},
	}
	for _, tc := range cases {
		role, guarded := policy.RequiredRole(tc.method, tc.path)
		if role != tc.role || guarded != tc.guarded {
			t.Fatalf("%s %s: expected (%s, %v), got (%s, %v)", tc.method, tc.path, tc.role, tc.guarded, role, guarded)
		}
	}
}

func TestBearerToken(t *testing.T) {
	if token, ok := bearerToken("bearer abc"); !ok || token != "abc" {
		t.Fatalf("unexpected token %q %v", token, ok)
	}
	for _, header := range []string{"", "Bearer", "Bearer  ", "Basic abc"} {
		if _, ok := bearerToken(header); ok {
			t.Fatalf("expected %q to be rejected", header)
		}
	}
}

func TestRoleAtLeast(t *testing.T) {
	if !RoleAtLeast(RoleAdmin, RoleViewer) || RoleAtLeast(RoleViewer, RoleOperator) {
		t.Fatalf("unexpected role ordering")
	}
	if RoleAtLeast(Role("guest"), RoleViewer) {
		t.Fatalf("unknown role should not satisfy viewer")
	}
}

func mustToken(t *testing.T, secret []byte, role string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}
