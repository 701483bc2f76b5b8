package auth

import (
	"log"
	"net/http"
	"strings"
)

// Middleware authenticates bearer tokens and enforces a Policy.
type Middleware struct {
	secret []byte
	policy Policy
	logger *log.Logger
}

// NewMiddleware constructs the middleware. An empty secret disables it.
func NewMiddleware(secret []byte, policy Policy, logger *log.Logger) *Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return &Middleware{secret: secret, policy: policy, logger: logger}
}

// Enabled reports whether requests are authenticated.
func (m *Middleware) Enabled() bool {
	return m != nil && len(m.secret) > 0
}

// Wrap guards next. Callers that pass carry their role and subject in the
// request context.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if !m.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		required, guarded := m.policy.RequiredRole(r.Method, r.URL.Path)
		if !guarded {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			m.deny(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := ParseJWT(token, m.secret)
		if err != nil {
			m.deny(w, r, http.StatusUnauthorized, err.Error())
			return
		}
		role, _ := NormalizeRole(claims.Role)
		if !RoleAtLeast(role, required) {
			m.deny(w, r, http.StatusForbidden, "role "+claims.Role+" below "+string(required))
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), role, claims.Subject)))
	})
}

func (m *Middleware) deny(w http.ResponseWriter, r *http.Request, status int, reason string) {
	m.logger.Printf("auth denied: %s %s status=%d reason=%s", r.Method, r.URL.Path, status, reason)
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="theater-billing"`)
	}
	http.Error(w, http.StatusText(status), status)
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
